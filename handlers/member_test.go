package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"legacykeeper/db"
	"legacykeeper/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMemberDeleteSelfGuardIsVaultScoped(t *testing.T) {
	router := setupRouter(t)
	seedSeq++
	email := fmt.Sprintf("admin%d@example.com", seedSeq)
	admin := models.User{
		FullName:   "Ada Admin",
		Email:      email,
		IsActive:   true,
		IsVerified: true,
	}
	admin.SetPassword("admin password!")
	require.NoError(t, db.Instance.Create(&admin).Error)

	var first, second models.Vault
	require.NoError(t, db.Instance.Transaction(func(tx *gorm.DB) error {
		var err error
		if first, err = models.VaultCreate(tx, &admin, "First", ""); err != nil {
			return err
		}
		second, err = models.VaultCreate(tx, &admin, "Second", "")
		return err
	}))

	var firstMembership, secondMembership models.Membership
	require.NoError(t, db.Instance.
		Where("vault_id = ? AND user_id = ?", first.ID, admin.ID).
		First(&firstMembership).Error)
	require.NoError(t, db.Instance.
		Where("vault_id = ? AND user_id = ?", second.ID, admin.ID).
		First(&secondMembership).Error)

	loginRecorder := jsonRequest(t, router, "POST", "/user/login", gin.H{
		"email":    email,
		"password": "admin password!",
	}, nil)
	require.Equal(t, http.StatusOK, loginRecorder.Code)
	cookies := loginRecorder.Result().Cookies()
	require.NotEmpty(t, cookies)

	t.Run("own membership id from another vault is just not found", func(t *testing.T) {
		path := fmt.Sprintf("/vaults/%d/members/%d", second.ID, firstMembership.ID)
		recorder := jsonRequest(t, router, "DELETE", path, nil, cookies)
		assert.Equal(t, http.StatusNotFound, recorder.Code, recorder.Body.String())

		var after models.Membership
		require.NoError(t, db.Instance.First(&after, firstMembership.ID).Error)
		assert.True(t, after.IsActive)
	})

	t.Run("removing yourself in the addressed vault is rejected", func(t *testing.T) {
		path := fmt.Sprintf("/vaults/%d/members/%d", second.ID, secondMembership.ID)
		recorder := jsonRequest(t, router, "DELETE", path, nil, cookies)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, recorder.Body.String())
	})
}
