package models

import (
	"testing"

	"legacykeeper/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserVerify(t *testing.T) {
	setupTestDB(t)
	user, err := UserCreate("Nora Newcomer", "Nora@Example.com", "a strong password")
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	assert.Equal(t, "nora@example.com", user.Email)
	require.NotEmpty(t, user.VerificationToken)

	t.Run("login before verification fails", func(t *testing.T) {
		_, success := UserLogin("nora@example.com", "a strong password")
		assert.False(t, success)
	})

	t.Run("verification activates and bootstraps the first vault", func(t *testing.T) {
		verified, err := UserVerify(user.VerificationToken)
		require.NoError(t, err)
		assert.True(t, verified.IsActive)
		assert.True(t, verified.IsVerified)

		var vault Vault
		require.NoError(t, db.Instance.Where("owner_id = ?", user.ID).First(&vault).Error)
		assert.Equal(t, "Nora Newcomer's Family", vault.Name)

		var membership Membership
		require.NoError(t, db.Instance.
			Where("vault_id = ? AND user_id = ?", vault.ID, user.ID).
			First(&membership).Error)
		assert.Equal(t, RoleAdmin, membership.Role)
		assert.True(t, membership.IsActive)
	})

	t.Run("second verification is a conflict", func(t *testing.T) {
		_, err := UserVerify(user.VerificationToken)
		require.Error(t, err)
		assert.Equal(t, ErrConflict, err.(*Error).Kind)
	})

	t.Run("login works case-insensitively afterwards", func(t *testing.T) {
		logged, success := UserLogin("NORA@example.com", "a strong password")
		assert.True(t, success)
		assert.Equal(t, user.ID, logged.ID)
	})
}

func TestPasswordReset(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "Rita Reset", "rita@example.com")

	requested, err := UserRequestPasswordReset("rita@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, requested.ResetToken)

	t.Run("bad token", func(t *testing.T) {
		require.Error(t, UserResetPassword("not-a-token", "new password here"))
	})

	t.Run("reset changes the password and clears the token", func(t *testing.T) {
		require.NoError(t, UserResetPassword(requested.ResetToken, "new password here"))
		_, success := UserLogin("rita@example.com", "correct horse battery staple")
		assert.False(t, success)
		logged, success := UserLogin("rita@example.com", "new password here")
		assert.True(t, success)
		assert.Equal(t, user.ID, logged.ID)

		require.Error(t, UserResetPassword(requested.ResetToken, "yet another password"))
	})
}
