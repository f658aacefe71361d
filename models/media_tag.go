package models

// MediaTag marks a person as appearing in a media item. One tag per person
// per item; the dedup merge relies on that uniqueness when reparenting tags.
type MediaTag struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	MediaItemID uint64    `gorm:"not null;index:uniq_item_person,unique,priority:1"`
	MediaItem   MediaItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PersonID    uint64    `gorm:"not null;index:uniq_item_person,unique,priority:2"`
	Person      Person    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	// Normalized face box {x,y,w,h} as JSON; empty for a plain "is in this photo" tag
	FaceJSON    string `gorm:"type:text"`
	CreatedByID *uint64
}
