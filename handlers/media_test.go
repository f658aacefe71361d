package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"legacykeeper/db"
	"legacykeeper/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMediaItem(t *testing.T, router *gin.Engine) (*models.Vault, *models.MediaItem, []*http.Cookie) {
	t.Helper()
	seedSeq++
	email := fmt.Sprintf("uploader%d@example.com", seedSeq)
	uploader := models.User{
		FullName:   "Uma Uploader",
		Email:      email,
		IsActive:   true,
		IsVerified: true,
	}
	uploader.SetPassword("uploader password!")
	require.NoError(t, db.Instance.Create(&uploader).Error)
	var vault models.Vault
	require.NoError(t, db.Instance.Transaction(func(tx *gorm.DB) error {
		var err error
		vault, err = models.VaultCreate(tx, &uploader, "Family", "")
		return err
	}))
	uploaderID := uploader.ID
	item := models.MediaItem{
		VaultID:    vault.ID,
		UploaderID: &uploaderID,
		Name:       "photo.jpg",
		MimeType:   "image/jpeg",
		MediaType:  models.MediaTypePhoto,
		FileSize:   100,
		CreatedAt:  time.Now().Unix(),
		Visibility: models.VisibilityFamily,
	}
	require.NoError(t, db.Instance.Create(&item).Error)

	loginRecorder := jsonRequest(t, router, "POST", "/user/login", gin.H{
		"email":    email,
		"password": "uploader password!",
	}, nil)
	require.Equal(t, http.StatusOK, loginRecorder.Code)
	cookies := loginRecorder.Result().Cookies()
	require.NotEmpty(t, cookies)
	return &vault, &item, cookies
}

func TestMediaSaveIgnoresForeignAttachmentIDs(t *testing.T) {
	router := setupRouter(t)
	vault, item, cookies := seedMediaItem(t, router)
	path := fmt.Sprintf("/vaults/%d/media/%d", vault.ID, item.ID)

	t.Run("unknown attachment ids do not trip the file-count invariant", func(t *testing.T) {
		recorder := jsonRequest(t, router, "PATCH", path, gin.H{
			"remove_attachment_ids": []uint64{item.ID + 1000},
		}, cookies)
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	})

	t.Run("attachment of another item survives", func(t *testing.T) {
		other := models.MediaItem{
			VaultID:    vault.ID,
			UploaderID: item.UploaderID,
			Name:       "other.jpg",
			MimeType:   "image/jpeg",
			MediaType:  models.MediaTypePhoto,
			FileSize:   50,
			CreatedAt:  time.Now().Unix(),
			Visibility: models.VisibilityFamily,
		}
		require.NoError(t, db.Instance.Create(&other).Error)
		foreign := models.MediaAttachment{
			MediaItemID:  other.ID,
			VaultID:      vault.ID,
			OriginalName: "page2.jpg",
			MimeType:     "image/jpeg",
			FileType:     models.AttachmentTypePhoto,
			FileSize:     40,
			CreatedAt:    time.Now().Unix(),
		}
		require.NoError(t, db.Instance.Create(&foreign).Error)

		recorder := jsonRequest(t, router, "PATCH", path, gin.H{
			"remove_attachment_ids": []uint64{foreign.ID},
		}, cookies)
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

		var after models.MediaAttachment
		assert.NoError(t, db.Instance.First(&after, foreign.ID).Error)
	})
}
