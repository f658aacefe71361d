package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"legacykeeper/access"
	"legacykeeper/db"
	"legacykeeper/events"
	"legacykeeper/models"
	"legacykeeper/utils"

	"github.com/gin-gonic/gin"
)

// Pending invites show up in the member list as synthetic rows whose ID is
// "invite_<token>"; PATCH and DELETE accept those IDs too.
const invitePrefix = "invite_"

type MemberInfo struct {
	ID       string `json:"id"`
	UserID   uint64 `json:"user_id,omitempty"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
	Pending  bool   `json:"pending"`
	JoinedAt int64  `json:"joined_at,omitempty"`
}

// MemberList returns the vault's members. Admins also see inactive
// memberships and pending invites; other members only the active roster.
func MemberList(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	isAdmin := access.IsActiveAdmin(user, access.FromVault(&vault))

	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	roleFilter := c.Query("role")
	activeFilter := utils.ParseOptionalBool(c.Query("is_active"))

	query := db.Instance.Preload("User").Where("vault_id = ?", vault.ID)
	if !isAdmin {
		query = query.Where("is_active = ?", true)
	} else if activeFilter != nil {
		query = query.Where("is_active = ?", *activeFilter)
	}
	if roleFilter != "" {
		query = query.Where("role = ?", roleFilter)
	}
	var memberships []models.Membership
	if err := query.Order("created_at").Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}

	result := []MemberInfo{}
	for i := range memberships {
		m := &memberships[i]
		if search != "" &&
			!strings.Contains(strings.ToLower(m.User.FullName), search) &&
			!strings.Contains(m.User.Email, search) {
			continue
		}
		result = append(result, MemberInfo{
			ID:       strconv.FormatUint(m.ID, 10),
			UserID:   m.UserID,
			FullName: m.User.FullName,
			Email:    m.User.Email,
			Role:     m.Role,
			IsActive: m.IsActive,
			JoinedAt: m.CreatedAt,
		})
	}

	if isAdmin && (activeFilter == nil || *activeFilter) {
		var invites []models.Invite
		err := db.Instance.
			Where("vault_id = ? AND email <> '' AND is_used = ? AND expires_at > ?",
				vault.ID, false, time.Now().Unix()).
			Order("created_at").
			Find(&invites).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
			return
		}
		for i := range invites {
			if roleFilter != "" && invites[i].Role != roleFilter {
				continue
			}
			if search != "" && !strings.Contains(invites[i].Email, search) {
				continue
			}
			result = append(result, MemberInfo{
				ID:      invitePrefix + invites[i].Token,
				Email:   invites[i].Email,
				Role:    invites[i].Role,
				Pending: true,
			})
		}
	}
	c.JSON(http.StatusOK, result)
}

type MemberSaveRequest struct {
	Role string `json:"role" binding:"required"`
}

// MemberSave re-roles an active membership, or a pending invite when the ID
// carries the invite_ prefix.
func MemberSave(c *gin.Context, user *models.User) {
	vault, ok := vaultAsAdmin(c, user)
	if !ok {
		return
	}
	postReq := MemberSaveRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}
	memberID := c.Param("mid")
	if token, isInvite := strings.CutPrefix(memberID, invitePrefix); isInvite {
		invite, err := inviteForVault(token, vault.ID)
		if err != nil {
			Error(c, err)
			return
		}
		if postReq.Role == models.RoleAdmin {
			Error(c, models.NewValidationError(models.CodeAdminRoleNotAllowed,
				"cannot grant ADMIN through an invite, transfer ownership instead"))
			return
		}
		if !models.ValidRole(postReq.Role) {
			Error(c, models.NewValidationError(models.CodeBadRole, "role must be one of CONTRIBUTOR, VIEWER"))
			return
		}
		if err := db.Instance.Model(&invite).Update("role", postReq.Role).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save invite"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"error": ""})
		return
	}

	membershipID, err := strconv.ParseUint(memberID, 10, 64)
	if err != nil {
		BadRequest(c, "invalid member id")
		return
	}
	membership, err := models.ChangeMemberRole(vault.ID, membershipID, postReq.Role)
	if err != nil {
		Error(c, err)
		return
	}
	events.Emit(events.Event{
		Name:    events.MemberRoleChanged,
		VaultID: vault.ID,
		ActorID: user.ID,
		UserID:  membership.UserID,
		Extra:   map[string]string{"role": membership.Role},
	})
	c.JSON(http.StatusOK, gin.H{"error": ""})
}

// MemberDelete removes a member from the vault; on an invite_ ID it revokes
// the pending invite instead.
func MemberDelete(c *gin.Context, user *models.User) {
	vault, ok := vaultAsAdmin(c, user)
	if !ok {
		return
	}
	memberID := c.Param("mid")
	if token, isInvite := strings.CutPrefix(memberID, invitePrefix); isInvite {
		invite, err := inviteForVault(token, vault.ID)
		if err != nil {
			Error(c, err)
			return
		}
		if err := invite.Revoke(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not revoke invite"})
			return
		}
		events.Emit(events.Event{Name: events.InviteRevoked, VaultID: vault.ID, ActorID: user.ID})
		c.JSON(http.StatusOK, gin.H{"error": ""})
		return
	}

	membershipID, err := strconv.ParseUint(memberID, 10, 64)
	if err != nil {
		BadRequest(c, "invalid member id")
		return
	}
	var membership models.Membership
	err = db.Instance.
		Where("id = ? AND vault_id = ?", membershipID, vault.ID).
		First(&membership).Error
	if err == nil && membership.UserID == user.ID {
		Error(c, models.NewValidationError("", "use leave to remove yourself from a vault"))
		return
	}
	if err := models.RemoveMember(vault.ID, membershipID); err != nil {
		Error(c, err)
		return
	}
	events.Emit(events.Event{
		Name:    events.MemberRemoved,
		VaultID: vault.ID,
		ActorID: user.ID,
		UserID:  membership.UserID,
	})
	c.JSON(http.StatusOK, gin.H{"error": ""})
}

func inviteForVault(token string, vaultID uint64) (models.Invite, error) {
	invite, err := models.InviteByToken(token)
	if err != nil {
		return invite, err
	}
	if invite.VaultID != vaultID || !invite.IsValid() {
		return invite, models.NewNotFoundError("invite not found")
	}
	return invite, nil
}
