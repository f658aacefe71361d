package models

import (
	"testing"

	"legacykeeper/db"

	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db.InitTest()
	Init()
}

func createTestUser(t *testing.T, name, email string) *User {
	t.Helper()
	user := User{
		FullName:   name,
		Email:      email,
		IsActive:   true,
		IsVerified: true,
	}
	user.SetPassword("correct horse battery staple")
	if err := db.Instance.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createTestVault(t *testing.T, owner *User, name string) *Vault {
	t.Helper()
	var vault Vault
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		var txErr error
		vault, txErr = VaultCreate(tx, owner, name, "")
		return txErr
	})
	if err != nil {
		t.Fatalf("create vault: %v", err)
	}
	return &vault
}

func addTestMember(t *testing.T, vault *Vault, user *User, role string) *Membership {
	t.Helper()
	membership := Membership{
		UserID:   user.ID,
		VaultID:  vault.ID,
		Role:     role,
		IsActive: true,
	}
	if err := db.Instance.Create(&membership).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}
	return &membership
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected a domain error, got nil")
	}
	domainErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *models.Error, got %T: %v", err, err)
	}
	return domainErr.Code
}
