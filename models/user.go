package models

import (
	"strings"
	"time"

	"legacykeeper/db"
	"legacykeeper/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	saltSize      = 60
	resetTokenTTL = 2 * time.Hour
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	FullName  string `gorm:"type:varchar(255)"`
	Email     string `gorm:"type:varchar(150);index:uniq_email,unique"`
	Password  string `gorm:"type:varchar(128)"`
	PassSalt  string `gorm:"type:varchar(200)"`
	PushToken string `gorm:"type:varchar(128)"`

	// Accounts start inactive and are activated by email verification,
	// or immediately when created through an invite accept.
	IsActive          bool   `gorm:"not null;default:false"`
	IsVerified        bool   `gorm:"not null;default:false"`
	VerificationToken string `gorm:"type:varchar(36);index"`
	ResetToken        string `gorm:"type:varchar(36)"`
	ResetTokenExpires int64
}

// Emails are matched case-insensitively everywhere, so store them folded.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	u.Email = NormalizeEmail(u.Email)
	return
}

func (u *User) SetPassword(plainTextPassword string) {
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
}

func (u *User) CheckPassword(plainTextPassword string) bool {
	return u.Password == utils.Sha512String(plainTextPassword+u.PassSalt)
}

func (u *User) SetNewPushToken() {
	u.PushToken = utils.Sha512String(u.Email + utils.RandSalt(saltSize))
	db.Instance.Model(u).Update("push_token", u.PushToken)
}

func UserCreate(fullName, email, plainTextPassword string) (u User, err error) {
	u.FullName = fullName
	u.Email = email
	u.VerificationToken = uuid.NewString()
	u.SetPassword(plainTextPassword)
	return u, db.Instance.Create(&u).Error
}

func UserLogin(email, plainTextPassword string) (u User, success bool) {
	result := db.Instance.First(&u, "email = ?", NormalizeEmail(email))
	if result.Error != nil {
		return User{}, false
	}
	if !u.IsActive || !u.CheckPassword(plainTextPassword) {
		return User{}, false
	}
	return u, true
}

// UserVerify activates the account behind a verification token and bootstraps
// the user's first vault, both inside one transaction.
func UserVerify(token string) (u User, err error) {
	if token == "" {
		return u, NewValidationError("", "token is required")
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "verification_token = ?", token).Error; err != nil {
			return NewValidationError("", "invalid token")
		}
		if u.IsActive {
			return NewConflictError("", "account already verified")
		}
		u.IsActive = true
		u.IsVerified = true
		if err := tx.Model(&u).Updates(map[string]interface{}{"is_active": true, "is_verified": true}).Error; err != nil {
			return err
		}
		_, err := VaultCreate(tx, &u, u.FullName+"'s Family", "Your family's digital heritage starts here.")
		return err
	})
	return
}

func UserRequestPasswordReset(email string) (u User, err error) {
	if err = db.Instance.First(&u, "email = ?", NormalizeEmail(email)).Error; err != nil {
		return u, NewNotFoundError("no account with that email")
	}
	u.ResetToken = uuid.NewString()
	u.ResetTokenExpires = time.Now().Add(resetTokenTTL).Unix()
	err = db.Instance.Model(&u).Updates(map[string]interface{}{
		"reset_token":         u.ResetToken,
		"reset_token_expires": u.ResetTokenExpires,
	}).Error
	return
}

func UserResetPassword(token, newPassword string) error {
	var u User
	if err := db.Instance.First(&u, "reset_token = ?", token).Error; err != nil {
		return NewValidationError("", "invalid reset token")
	}
	if u.ResetTokenExpires < time.Now().Unix() {
		return NewValidationError("", "reset token expired")
	}
	u.SetPassword(newPassword)
	return db.Instance.Model(&u).Updates(map[string]interface{}{
		"password":            u.Password,
		"pass_salt":           u.PassSalt,
		"reset_token":         "",
		"reset_token_expires": 0,
	}).Error
}
