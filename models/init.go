package models

import "legacykeeper/db"

func Init() {
	db.Instance.AutoMigrate(&User{})
	db.Instance.AutoMigrate(&Vault{})
	db.Instance.AutoMigrate(&Membership{})
	db.Instance.AutoMigrate(&Invite{})
	db.Instance.AutoMigrate(&MediaItem{})
	db.Instance.AutoMigrate(&MediaAttachment{})
	db.Instance.AutoMigrate(&MediaFavorite{})
	db.Instance.AutoMigrate(&Person{})
	db.Instance.AutoMigrate(&Relationship{})
	db.Instance.AutoMigrate(&MediaTag{})
}
