package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legacykeeper/auth"
	"legacykeeper/db"
	"legacykeeper/models"

	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db.InitTest()
	models.Init()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	store := gormsessions.NewStore(db.Instance, true, []byte("test session key"))
	router.Use(sessions.Sessions("token", store))
	authRouter := &auth.Router{Base: router}

	router.POST("/user/login", UserLogin)
	router.GET("/join/preview", JoinPreview)
	router.POST("/join/accept", JoinAccept)
	authRouter.POST("/join/", JoinProcess)
	authRouter.GET("/vaults", VaultList)
	authRouter.PATCH("/vaults/:id/media/:mid", MediaSave)
	authRouter.DELETE("/vaults/:id/members/:mid", MemberDelete)
	return router
}

func jsonRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

var seedSeq int

func seedVaultWithInvite(t *testing.T, inviteEmail string) (*models.Vault, *models.Invite) {
	t.Helper()
	seedSeq++
	owner := models.User{
		FullName:   "Olive Owner",
		Email:      fmt.Sprintf("owner%d@example.com", seedSeq),
		IsActive:   true,
		IsVerified: true,
	}
	owner.SetPassword("owner password!")
	require.NoError(t, db.Instance.Create(&owner).Error)
	var vault models.Vault
	require.NoError(t, db.Instance.Transaction(func(tx *gorm.DB) error {
		var err error
		vault, err = models.VaultCreate(tx, &owner, "Family", "")
		return err
	}))
	expiry := time.Now().AddDate(0, 0, 7).Unix()
	var invite models.Invite
	var err error
	if inviteEmail == "" {
		invite, err = models.CreateShareableInvite(&vault, &owner, models.RoleContributor, expiry)
	} else {
		invite, err = models.CreateEmailInvite(&vault, &owner, inviteEmail, models.RoleContributor, expiry)
	}
	require.NoError(t, err)
	return &vault, &invite
}

func TestJoinPreview(t *testing.T) {
	router := setupRouter(t)
	_, invite := seedVaultWithInvite(t, "fresh@example.com")

	t.Run("valid token shows the vault without consuming", func(t *testing.T) {
		recorder := jsonRequest(t, router, "GET", "/join/preview?token="+invite.Token, nil, nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody(t, recorder)
		assert.Equal(t, "Family", body["vault_name"])
		assert.Equal(t, models.RoleContributor, body["role"])

		var after models.Invite
		require.NoError(t, db.Instance.First(&after, invite.ID).Error)
		assert.False(t, after.IsUsed)
	})

	t.Run("unknown token", func(t *testing.T) {
		recorder := jsonRequest(t, router, "GET", "/join/preview?token=nope", nil, nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestJoinAccept(t *testing.T) {
	router := setupRouter(t)
	vault, invite := seedVaultWithInvite(t, "fresh@example.com")

	t.Run("mismatched password confirmation is rejected", func(t *testing.T) {
		recorder := jsonRequest(t, router, "POST", "/join/accept", gin.H{
			"token":            invite.Token,
			"email":            "fresh@example.com",
			"full_name":        "Fred Fresh",
			"password":         "a strong password",
			"confirm_password": "a different password",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		// Nothing was consumed or created
		var after models.Invite
		require.NoError(t, db.Instance.First(&after, invite.ID).Error)
		assert.False(t, after.IsUsed)
		err := db.Instance.Where("email = ?", "fresh@example.com").First(&models.User{}).Error
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("creates account, membership and session", func(t *testing.T) {
		recorder := jsonRequest(t, router, "POST", "/join/accept", gin.H{
			"token":            invite.Token,
			"email":            "fresh@example.com",
			"full_name":        "Fred Fresh",
			"password":         "a strong password",
			"confirm_password": "a strong password",
		}, nil)
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
		body := decodeBody(t, recorder)
		assert.EqualValues(t, vault.ID, body["vault_id"])
		assert.Equal(t, models.RoleContributor, body["role"])

		// The session cookie works against authenticated routes
		cookies := recorder.Result().Cookies()
		require.NotEmpty(t, cookies)
		listRecorder := jsonRequest(t, router, "GET", "/vaults", nil, cookies)
		assert.Equal(t, http.StatusOK, listRecorder.Code)
	})

	t.Run("the invite is now burned", func(t *testing.T) {
		recorder := jsonRequest(t, router, "POST", "/join/accept", gin.H{
			"token":            invite.Token,
			"email":            "fresh@example.com",
			"full_name":        "Fred Fresh",
			"password":         "a strong password",
			"confirm_password": "a strong password",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, models.CodeInvalidInvite, decodeBody(t, recorder)["code"])
	})

	t.Run("active account must use the authenticated flow", func(t *testing.T) {
		_, link := seedVaultWithInvite(t, "")
		recorder := jsonRequest(t, router, "POST", "/join/accept", gin.H{
			"token":            link.Token,
			"email":            "fresh@example.com",
			"full_name":        "Fred Fresh",
			"password":         "a strong password",
			"confirm_password": "a strong password",
		}, nil)
		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Equal(t, models.CodeAccountExists, decodeBody(t, recorder)["code"])
	})
}

func TestJoinProcess(t *testing.T) {
	router := setupRouter(t)
	vault, invite := seedVaultWithInvite(t, "member@example.com")

	member := models.User{FullName: "Mia Member", Email: "member@example.com", IsActive: true, IsVerified: true}
	member.SetPassword("member password!")
	require.NoError(t, db.Instance.Create(&member).Error)

	t.Run("requires a session", func(t *testing.T) {
		recorder := jsonRequest(t, router, "POST", "/join/", gin.H{"token": invite.Token}, nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	loginRecorder := jsonRequest(t, router, "POST", "/user/login", gin.H{
		"email":    "member@example.com",
		"password": "member password!",
	}, nil)
	require.Equal(t, http.StatusOK, loginRecorder.Code)
	cookies := loginRecorder.Result().Cookies()
	require.NotEmpty(t, cookies)

	t.Run("redeems the invite", func(t *testing.T) {
		recorder := jsonRequest(t, router, "POST", "/join/", gin.H{"token": invite.Token}, cookies)
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
		body := decodeBody(t, recorder)
		assert.Equal(t, true, body["joined"])
		assert.EqualValues(t, vault.ID, body["vault_id"])

		var membership models.Membership
		require.NoError(t, db.Instance.
			Where("vault_id = ? AND user_id = ?", vault.ID, member.ID).
			First(&membership).Error)
		assert.True(t, membership.IsActive)
	})

	t.Run("second redemption reports already joined", func(t *testing.T) {
		_, link := seedVaultWithInvite(t, "")
		// Join the second vault's owner vault via its link first, then retry
		recorder := jsonRequest(t, router, "POST", "/join/", gin.H{"token": link.Token}, cookies)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, true, decodeBody(t, recorder)["joined"])

		retry := jsonRequest(t, router, "POST", "/join/", gin.H{"token": link.Token}, cookies)
		require.Equal(t, http.StatusOK, retry.Code)
		assert.Equal(t, false, decodeBody(t, retry)["joined"])
	})
}
