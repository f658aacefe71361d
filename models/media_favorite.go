package models

type MediaFavorite struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UserID      uint64    `gorm:"not null;index:uniq_user_media,unique,priority:1"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	MediaItemID uint64    `gorm:"not null;index:uniq_user_media,unique,priority:2"`
	MediaItem   MediaItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
