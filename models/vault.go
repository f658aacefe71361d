package models

import (
	"legacykeeper/db"

	"gorm.io/gorm"
)

const (
	StorageQualityBalanced = "BALANCED"
	StorageQualityHigh     = "HIGH"
	StorageQualityOriginal = "ORIGINAL"

	VisibilityPrivate = "PRIVATE"
	VisibilityFamily  = "FAMILY"

	// Bounds for Vault.SafetyWindowMinutes (one week max)
	MaxSafetyWindowMinutes = 10080
)

type Vault struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	OwnerID     uint64 `gorm:"not null;index"`
	Owner       User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name        string `gorm:"type:varchar(255)"`
	FamilyName  string `gorm:"type:varchar(120)"`
	Description string `gorm:"type:text"`

	StorageQuality    string `gorm:"type:varchar(20);not null;default:HIGH"`
	DefaultVisibility string `gorm:"type:varchar(20);not null;default:FAMILY"`
	// How long (in minutes) a contributor may still edit/delete their own upload
	SafetyWindowMinutes int `gorm:"not null;default:60"`
}

func ValidStorageQuality(q string) bool {
	return q == StorageQualityBalanced || q == StorageQualityHigh || q == StorageQualityOriginal
}

func ValidVisibility(v string) bool {
	return v == VisibilityPrivate || v == VisibilityFamily
}

// VaultCreate creates the vault together with the owner's ADMIN membership.
// Callers supply the transaction so account bootstrap can ride along.
func VaultCreate(tx *gorm.DB, owner *User, name, description string) (v Vault, err error) {
	v.OwnerID = owner.ID
	v.Name = name
	v.Description = description
	v.StorageQuality = StorageQualityHigh
	v.DefaultVisibility = VisibilityFamily
	v.SafetyWindowMinutes = 60
	if err = tx.Create(&v).Error; err != nil {
		return
	}
	err = tx.Create(&Membership{
		UserID:   owner.ID,
		VaultID:  v.ID,
		Role:     RoleAdmin,
		IsActive: true,
	}).Error
	return
}

func (v *Vault) ActiveAdminCount(tx *gorm.DB) (count int64) {
	tx.Model(&Membership{}).
		Where("vault_id = ? AND role = ? AND is_active = ?", v.ID, RoleAdmin, true).
		Count(&count)
	return
}

func (v *Vault) ActiveMemberCount() (count int64) {
	db.Instance.Model(&Membership{}).
		Where("vault_id = ? AND is_active = ?", v.ID, true).
		Count(&count)
	return
}

func (v *Vault) StorageUsedBytes() int64 {
	result := int64(0)
	db.Instance.Raw(
		"select ifnull(sum(file_size+thumb_size), 0) from media_items where vault_id = ?", v.ID,
	).Scan(&result)
	return result
}
