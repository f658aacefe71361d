package handlers

import (
	"net/http"

	"legacykeeper/auth"
	"legacykeeper/events"
	"legacykeeper/models"

	"github.com/gin-gonic/gin"
)

type JoinRequest struct {
	Token string `json:"token" binding:"required"`
}

type JoinAcceptRequest struct {
	Token           string `json:"token" binding:"required"`
	Email           string `json:"email" binding:"required"`
	FullName        string `json:"full_name" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// JoinPreview lets anyone holding a token inspect the invite before deciding.
// Nothing is consumed.
func JoinPreview(c *gin.Context) {
	invite, err := models.InviteByToken(c.Query("token"))
	if err != nil {
		Error(c, err)
		return
	}
	if !invite.IsValid() {
		Error(c, models.NewValidationError(models.CodeInvalidInvite, "invite expired or used"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"vault_name":  invite.Vault.Name,
		"family_name": invite.Vault.FamilyName,
		"role":        invite.Role,
		"email":       invite.Email,
		"expires_at":  invite.ExpiresAt,
		"shareable":   invite.IsShareable(),
	})
}

// JoinProcess redeems an invite for the logged-in user. Being a member
// already is answered with 200 and joined=false.
func JoinProcess(c *gin.Context, user *models.User) {
	postReq := JoinRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}
	invite, err := models.InviteByToken(postReq.Token)
	if err != nil {
		Error(c, err)
		return
	}
	membership, alreadyMember, err := models.RedeemForUser(user, &invite)
	if err != nil {
		Error(c, err)
		return
	}
	if !alreadyMember {
		events.Emit(events.Event{
			Name:    events.MemberJoined,
			VaultID: invite.VaultID,
			ActorID: user.ID,
			UserID:  user.ID,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"error":    "",
		"joined":   !alreadyMember,
		"vault_id": invite.VaultID,
		"role":     membership.Role,
	})
}

// JoinAccept is the unauthenticated flow: account registration (or
// reactivation) and membership in one step, then a logged-in session.
func JoinAccept(c *gin.Context) {
	postReq := JoinAcceptRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if postReq.Password != postReq.ConfirmPassword {
		BadRequest(c, "passwords do not match")
		return
	}
	invite, err := models.InviteByToken(postReq.Token)
	if err != nil {
		Error(c, err)
		return
	}
	user, membership, err := models.RedeemAccept(&invite, postReq.Email, postReq.FullName, postReq.Password)
	if err != nil {
		Error(c, err)
		return
	}
	auth.LoadSession(c).SetUser(user.ID)
	events.Emit(events.Event{
		Name:    events.MemberJoined,
		VaultID: invite.VaultID,
		ActorID: user.ID,
		UserID:  user.ID,
	})
	c.JSON(http.StatusOK, gin.H{
		"error":    "",
		"user":     userInfo(&user),
		"vault_id": invite.VaultID,
		"role":     membership.Role,
	})
}
