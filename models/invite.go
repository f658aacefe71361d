package models

import (
	"time"

	"legacykeeper/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invite is a token-bearing offer to join a vault. With an email bound it is
// single-use; without one it is a shareable link that stays redeemable until
// it expires or is explicitly revoked.
type Invite struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	Token       string `gorm:"type:varchar(36);index:uniq_invite_token,unique"`
	VaultID     uint64 `gorm:"not null;index"`
	Vault       Vault  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedByID uint64
	CreatedBy   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Email       string `gorm:"type:varchar(150)"` // empty for shareable links
	Role        string `gorm:"type:varchar(20);not null;default:CONTRIBUTOR"`
	ExpiresAt   int64  `gorm:"not null"`
	IsUsed      bool   `gorm:"not null;default:false"`
	// Number of memberships this link has produced (shareable links only)
	SuccessfulJoins uint32 `gorm:"not null;default:0"`
}

func (i *Invite) BeforeCreate(tx *gorm.DB) (err error) {
	if i.Token == "" {
		i.Token = uuid.NewString()
	}
	if i.ExpiresAt == 0 {
		i.ExpiresAt = time.Now().AddDate(0, 0, 7).Unix()
	}
	return
}

func (i *Invite) IsValid() bool {
	return !i.IsUsed && i.ExpiresAt > time.Now().Unix()
}

func (i *Invite) IsShareable() bool {
	return i.Email == ""
}

func (i *Invite) Revoke() error {
	i.IsUsed = true
	return db.Instance.Model(i).Update("is_used", true).Error
}

func InviteByToken(token string) (invite Invite, err error) {
	err = db.Instance.Preload("Vault").First(&invite, "token = ?", token).Error
	if err != nil {
		err = NewNotFoundError("invite not found")
	}
	return
}

// CreateEmailInvite issues a single-use invite bound to one email address.
// Creating a second invite for the same (vault, email) while one is still
// outstanding is rejected; a duplicate-key failure from a concurrent create
// is folded into the same answer.
func CreateEmailInvite(vault *Vault, creator *User, email, role string, expiresAt int64) (invite Invite, err error) {
	if role == RoleAdmin {
		return invite, NewValidationError(CodeAdminRoleNotAllowed, "cannot invite with ADMIN role, transfer ownership instead")
	}
	if !ValidRole(role) {
		return invite, NewValidationError(CodeBadRole, "role must be one of CONTRIBUTOR, VIEWER")
	}
	email = NormalizeEmail(email)
	if email == "" {
		return invite, NewValidationError("", "email is required")
	}

	var count int64
	db.Instance.Model(&Membership{}).
		Joins("join users on users.id = memberships.user_id").
		Where("memberships.vault_id = ? AND memberships.is_active = ? AND users.email = ?", vault.ID, true, email).
		Count(&count)
	if count > 0 {
		return invite, NewValidationError(CodeAlreadyMember, "user is already an active member of this vault")
	}

	db.Instance.Model(&Invite{}).
		Where("vault_id = ? AND email = ? AND is_used = ? AND expires_at > ?", vault.ID, email, false, time.Now().Unix()).
		Count(&count)
	if count > 0 {
		return invite, NewValidationError(CodeInviteExists, "an active invite already exists for this email")
	}

	invite = Invite{
		VaultID:     vault.ID,
		CreatedByID: creator.ID,
		Email:       email,
		Role:        role,
		ExpiresAt:   expiresAt,
	}
	if err = db.Instance.Create(&invite).Error; err != nil {
		if db.IsDuplicateKey(err) {
			// Concurrent identical create beat us to it
			return invite, NewValidationError(CodeInviteExists, "an active invite already exists for this email")
		}
	}
	return
}

// CreateShareableInvite issues a multi-use link. An explicit future expiry is
// mandatory; parallel links for the same vault are always allowed.
func CreateShareableInvite(vault *Vault, creator *User, role string, expiresAt int64) (invite Invite, err error) {
	if role == RoleAdmin {
		return invite, NewValidationError(CodeAdminRoleNotAllowed, "cannot invite with ADMIN role, transfer ownership instead")
	}
	if !ValidRole(role) {
		return invite, NewValidationError(CodeBadRole, "role must be one of CONTRIBUTOR, VIEWER")
	}
	if expiresAt <= time.Now().Unix() {
		return invite, NewValidationError("", "shareable links require a future expiry")
	}
	invite = Invite{
		VaultID:     vault.ID,
		CreatedByID: creator.ID,
		Role:        role,
		ExpiresAt:   expiresAt,
	}
	err = db.Instance.Create(&invite).Error
	return
}

// upsertMembership creates or reactivates the (user, vault) membership.
// A duplicate-key failure on create means a concurrent request inserted the
// row first; re-read and update it instead.
func upsertMembership(tx *gorm.DB, userID, vaultID uint64, role string) (membership Membership, alreadyActive bool, err error) {
	err = tx.Where("user_id = ? AND vault_id = ?", userID, vaultID).First(&membership).Error
	if err == nil {
		if membership.IsActive {
			return membership, true, nil
		}
		// Reactivation path for members who left
		membership.IsActive = true
		membership.Role = role
		err = tx.Model(&membership).Updates(map[string]interface{}{"is_active": true, "role": role}).Error
		return membership, false, err
	}
	membership = Membership{
		UserID:   userID,
		VaultID:  vaultID,
		Role:     role,
		IsActive: true,
	}
	if err = tx.Create(&membership).Error; err != nil {
		if !db.IsDuplicateKey(err) {
			return membership, false, err
		}
		if err = tx.Where("user_id = ? AND vault_id = ?", userID, vaultID).First(&membership).Error; err != nil {
			return membership, false, err
		}
		if membership.IsActive {
			return membership, true, nil
		}
		membership.IsActive = true
		membership.Role = role
		err = tx.Model(&membership).Updates(map[string]interface{}{"is_active": true, "role": role}).Error
	}
	return membership, false, err
}

func (i *Invite) consume(tx *gorm.DB) error {
	if i.IsShareable() {
		// Shareable links stay redeemable; just count the join
		return tx.Model(i).Update("successful_joins", gorm.Expr("successful_joins + 1")).Error
	}
	return tx.Model(i).Update("is_used", true).Error
}

// RedeemForUser joins an authenticated user through an invite. Redeeming
// while already an active member is not an error - the caller reports
// "already a member" instead.
func RedeemForUser(user *User, invite *Invite) (membership Membership, alreadyMember bool, err error) {
	if !invite.IsValid() {
		return membership, false, NewValidationError(CodeInvalidInvite, "invite expired or used")
	}
	if !invite.IsShareable() && invite.Email != NormalizeEmail(user.Email) {
		return membership, false, NewPermissionError(CodeInviteEmailMismatch, "this invite is restricted to a different email address")
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		var txErr error
		membership, alreadyMember, txErr = upsertMembership(tx, user.ID, invite.VaultID, invite.Role)
		if txErr != nil {
			return txErr
		}
		if alreadyMember {
			return nil
		}
		return invite.consume(tx)
	})
	return
}

// RedeemAccept is the unauthenticated flow: it creates or reactivates the
// account and the membership inside one transaction. An email that already
// belongs to an active account is a conflict - we cannot silently log the
// requester in, they must use the authenticated join instead.
func RedeemAccept(invite *Invite, email, fullName, password string) (user User, membership Membership, err error) {
	if !invite.IsValid() {
		return user, membership, NewValidationError(CodeInvalidInvite, "invite expired or used")
	}
	if invite.Role == RoleAdmin {
		return user, membership, NewValidationError(CodeAdminRoleNotAllowed, "admin invites cannot be accepted, ownership transfer is the only path to ADMIN")
	}
	email = NormalizeEmail(email)
	if !invite.IsShareable() && invite.Email != email {
		return user, membership, NewPermissionError(CodeInviteEmailMismatch, "this invite is restricted to a different email address")
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("email = ?", email).First(&user).Error
		if findErr == nil {
			if user.IsActive {
				return NewConflictError(CodeAccountExists, "an account with this email already exists, log in instead")
			}
			// Dormant account: reactivate it with the supplied credentials
			user.FullName = fullName
			user.IsActive = true
			user.IsVerified = true
			user.SetPassword(password)
			if err := tx.Model(&user).Updates(map[string]interface{}{
				"full_name":   user.FullName,
				"is_active":   true,
				"is_verified": true,
				"password":    user.Password,
				"pass_salt":   user.PassSalt,
			}).Error; err != nil {
				return err
			}
		} else {
			user = User{
				FullName:   fullName,
				Email:      email,
				IsActive:   true,
				IsVerified: true,
			}
			user.SetPassword(password)
			if err := tx.Create(&user).Error; err != nil {
				if db.IsDuplicateKey(err) {
					return NewConflictError(CodeAccountExists, "an account with this email already exists, log in instead")
				}
				return err
			}
		}

		m, alreadyActive, txErr := upsertMembership(tx, user.ID, invite.VaultID, invite.Role)
		if txErr != nil {
			return txErr
		}
		if alreadyActive {
			return NewConflictError(CodeAlreadyMember, "already an active member of this vault, log in instead")
		}
		membership = m
		return invite.consume(tx)
	})
	return
}
