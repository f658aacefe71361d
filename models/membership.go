package models

import (
	"legacykeeper/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	RoleAdmin       = "ADMIN"
	RoleContributor = "CONTRIBUTOR"
	RoleViewer      = "VIEWER"
)

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleContributor || role == RoleViewer
}

type Membership struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	UserID    uint64 `gorm:"not null;index:uniq_user_vault,unique,priority:1"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	VaultID   uint64 `gorm:"not null;index:uniq_user_vault,unique,priority:2;index:idx_vault_user"`
	Vault     Vault  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Role      string `gorm:"type:varchar(20);not null;default:CONTRIBUTOR"`
	IsActive  bool   `gorm:"not null;default:true"`
}

// LeaveVault deactivates the caller's membership. The owner can never leave,
// and a non-owner admin may only leave while another active admin remains.
// The row is kept (inactive) so an invite redemption can reactivate it later.
func LeaveVault(user *User, vaultID uint64) error {
	return db.Instance.Transaction(func(tx *gorm.DB) error {
		var vault Vault
		if err := tx.First(&vault, vaultID).Error; err != nil {
			return NewNotFoundError("vault not found")
		}
		var membership Membership
		err := tx.Where("vault_id = ? AND user_id = ? AND is_active = ?", vaultID, user.ID, true).
			First(&membership).Error
		if err != nil {
			return NewValidationError(CodeNotMember, "not an active member of this vault")
		}
		if vault.OwnerID == user.ID {
			return NewInvariantError(CodeOwnerImmutable, "vault owner cannot leave, transfer ownership first")
		}
		if membership.Role == RoleAdmin && vault.ActiveAdminCount(tx) <= 1 {
			return NewInvariantError(CodeLastAdmin, "cannot leave as the last vault admin")
		}
		return tx.Model(&membership).Update("is_active", false).Error
	})
}

// RemoveMember deactivates another member's membership. Admin gating is the
// caller's job; the owner and the last active admin are protected here.
func RemoveMember(vaultID, membershipID uint64) error {
	return db.Instance.Transaction(func(tx *gorm.DB) error {
		var membership Membership
		err := tx.Preload("Vault").
			Where("id = ? AND vault_id = ? AND is_active = ?", membershipID, vaultID, true).
			First(&membership).Error
		if err != nil {
			return NewNotFoundError("member not found in this vault")
		}
		if membership.UserID == membership.Vault.OwnerID {
			return NewInvariantError(CodeOwnerImmutable, "cannot remove vault owner membership")
		}
		if membership.Role == RoleAdmin && membership.Vault.ActiveAdminCount(tx) <= 1 {
			return NewInvariantError(CodeLastAdmin, "cannot remove the last vault admin")
		}
		return tx.Model(&membership).Update("is_active", false).Error
	})
}

// ChangeMemberRole re-roles an active membership. ADMIN is never granted
// here - ownership transfer is the only path to ADMIN.
func ChangeMemberRole(vaultID, membershipID uint64, role string) (membership Membership, err error) {
	if role != RoleContributor && role != RoleViewer {
		return membership, NewValidationError(CodeBadRole, "role must be one of CONTRIBUTOR, VIEWER")
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Vault").Preload("User").
			Where("id = ? AND vault_id = ? AND is_active = ?", membershipID, vaultID, true).
			First(&membership).Error
		if err != nil {
			return NewNotFoundError("member not found in this vault")
		}
		if membership.UserID == membership.Vault.OwnerID {
			return NewInvariantError(CodeOwnerImmutable, "vault owner must retain ADMIN role")
		}
		if membership.Role == RoleAdmin && membership.Vault.ActiveAdminCount(tx) <= 1 {
			return NewInvariantError(CodeLastAdmin, "cannot demote the last vault admin")
		}
		if membership.Role == role {
			return nil
		}
		membership.Role = role
		return tx.Model(&membership).Update("role", role).Error
	})
	return
}

// TransferOwnership atomically demotes the current owner to CONTRIBUTOR,
// promotes the target to ADMIN and repoints vault.owner. The owner's
// membership row is locked for the duration so two concurrent transfers
// cannot both succeed. The owner re-enters their password as a step-up check.
func TransferOwnership(vault *Vault, owner *User, password string, targetMembershipID uint64) (newOwnerID uint64, err error) {
	if vault.OwnerID != owner.ID {
		return 0, NewPermissionError("", "only the vault owner can transfer ownership")
	}
	if !owner.CheckPassword(password) {
		return 0, NewPermissionError(CodeBadPassword, "password confirmation failed")
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		var ownerMembership Membership
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("vault_id = ? AND user_id = ? AND is_active = ?", vault.ID, owner.ID, true).
			First(&ownerMembership).Error
		if err != nil {
			return NewInvariantError(CodeNotMember, "owner membership missing")
		}
		// The caller's vault snapshot may predate a concurrent transfer.
		// Re-check ownership now that the lock is held.
		var current Vault
		if err = tx.First(&current, vault.ID).Error; err != nil {
			return err
		}
		if current.OwnerID != owner.ID {
			return NewPermissionError("", "only the vault owner can transfer ownership")
		}

		var target Membership
		err = tx.Where("id = ? AND vault_id = ? AND is_active = ?", targetMembershipID, vault.ID, true).
			First(&target).Error
		if err != nil {
			return NewNotFoundError("target member not found in this vault")
		}
		if target.UserID == owner.ID {
			return NewValidationError("", "you already own this vault")
		}
		if target.Role != RoleContributor {
			return NewValidationError(CodeBadRole, "can only transfer ownership to a contributor")
		}

		if err = tx.Model(&ownerMembership).Update("role", RoleContributor).Error; err != nil {
			return err
		}
		if err = tx.Model(&target).Update("role", RoleAdmin).Error; err != nil {
			return err
		}
		if err = tx.Model(&Vault{ID: vault.ID}).Update("owner_id", target.UserID).Error; err != nil {
			return err
		}
		newOwnerID = target.UserID
		return nil
	})
	return
}
