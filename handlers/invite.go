package handlers

import (
	"log"
	"net/http"
	"time"

	"legacykeeper/config"
	"legacykeeper/db"
	"legacykeeper/email"
	"legacykeeper/events"
	"legacykeeper/models"

	"github.com/gin-gonic/gin"
)

type InviteCreateRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
	// Optional unix expiry; defaults to INVITE_TTL_DAYS from now
	ExpiresAt int64 `json:"expires_at"`
}

type ShareableLinkCreateRequest struct {
	Role      string `json:"role" binding:"required"`
	ExpiresAt int64  `json:"expires_at" binding:"required"`
}

type InviteInfo struct {
	Token           string `json:"token"`
	Email           string `json:"email,omitempty"`
	Role            string `json:"role"`
	ExpiresAt       int64  `json:"expires_at"`
	CreatedAt       int64  `json:"created_at"`
	SuccessfulJoins uint32 `json:"successful_joins"`
	URL             string `json:"url"`
}

func inviteInfo(invite *models.Invite) InviteInfo {
	return InviteInfo{
		Token:           invite.Token,
		Email:           invite.Email,
		Role:            invite.Role,
		ExpiresAt:       invite.ExpiresAt,
		CreatedAt:       invite.CreatedAt,
		SuccessfulJoins: invite.SuccessfulJoins,
		URL:             config.FRONTEND_URL + "/join/" + invite.Token,
	}
}

// InviteCreate issues an email-bound invite and sends the join link.
func InviteCreate(c *gin.Context, user *models.User) {
	vault, ok := vaultAsAdmin(c, user)
	if !ok {
		return
	}
	postReq := InviteCreateRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}
	expiresAt := postReq.ExpiresAt
	if expiresAt == 0 {
		expiresAt = time.Now().AddDate(0, 0, config.INVITE_TTL_DAYS).Unix()
	}
	if expiresAt <= time.Now().Unix() {
		BadRequest(c, "expiry must be in the future")
		return
	}
	invite, err := models.CreateEmailInvite(&vault, user, postReq.Email, postReq.Role, expiresAt)
	if err != nil {
		Error(c, err)
		return
	}
	if err := email.SendInvite(invite.Email, user.FullName, vault.Name, invite.Token); err != nil {
		log.Printf("invite email to %s failed: %v", invite.Email, err)
	}
	events.Emit(events.Event{Name: events.InviteCreated, VaultID: vault.ID, ActorID: user.ID})
	c.JSON(http.StatusOK, inviteInfo(&invite))
}

// ShareableLinkList returns the vault's shareable links, valid ones first.
func ShareableLinkList(c *gin.Context, user *models.User) {
	vault, ok := vaultAsAdmin(c, user)
	if !ok {
		return
	}
	var invites []models.Invite
	err := db.Instance.
		Where("vault_id = ? AND email = ''", vault.ID).
		Order("is_used, expires_at DESC").
		Find(&invites).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	result := []InviteInfo{}
	for i := range invites {
		result = append(result, inviteInfo(&invites[i]))
	}
	c.JSON(http.StatusOK, result)
}

func ShareableLinkCreate(c *gin.Context, user *models.User) {
	vault, ok := vaultAsAdmin(c, user)
	if !ok {
		return
	}
	postReq := ShareableLinkCreateRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}
	invite, err := models.CreateShareableInvite(&vault, user, postReq.Role, postReq.ExpiresAt)
	if err != nil {
		Error(c, err)
		return
	}
	events.Emit(events.Event{Name: events.InviteCreated, VaultID: vault.ID, ActorID: user.ID})
	c.JSON(http.StatusOK, inviteInfo(&invite))
}

// ShareableLinkRevoke marks the link used so it can no longer be redeemed,
// keeping its join history.
func ShareableLinkRevoke(c *gin.Context, user *models.User) {
	vault, ok := vaultAsAdmin(c, user)
	if !ok {
		return
	}
	invite, ok := shareableLink(c, vault.ID)
	if !ok {
		return
	}
	if err := invite.Revoke(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not revoke link"})
		return
	}
	events.Emit(events.Event{Name: events.InviteRevoked, VaultID: vault.ID, ActorID: user.ID})
	c.JSON(http.StatusOK, gin.H{"error": ""})
}

func ShareableLinkDelete(c *gin.Context, user *models.User) {
	vault, ok := vaultAsAdmin(c, user)
	if !ok {
		return
	}
	invite, ok := shareableLink(c, vault.ID)
	if !ok {
		return
	}
	if err := db.Instance.Delete(&invite).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete link"})
		return
	}
	events.Emit(events.Event{Name: events.InviteRevoked, VaultID: vault.ID, ActorID: user.ID})
	c.JSON(http.StatusOK, gin.H{"error": ""})
}

func shareableLink(c *gin.Context, vaultID uint64) (invite models.Invite, ok bool) {
	id, ok := paramUint64(c, "iid")
	if !ok {
		return invite, false
	}
	err := db.Instance.Where("id = ? AND vault_id = ? AND email = ''", id, vaultID).
		First(&invite).Error
	if err != nil {
		Error(c, models.NewNotFoundError("shareable link not found"))
		return invite, false
	}
	return invite, true
}
