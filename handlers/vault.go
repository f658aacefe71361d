package handlers

import (
	"net/http"

	"legacykeeper/access"
	"legacykeeper/db"
	"legacykeeper/events"
	"legacykeeper/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VaultCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type VaultSaveRequest struct {
	Name                *string `json:"name"`
	FamilyName          *string `json:"family_name"`
	Description         *string `json:"description"`
	StorageQuality      *string `json:"storage_quality"`
	DefaultVisibility   *string `json:"default_visibility"`
	SafetyWindowMinutes *int    `json:"safety_window_minutes"`
}

type VaultInfo struct {
	ID                  uint64 `json:"id"`
	Name                string `json:"name"`
	FamilyName          string `json:"family_name"`
	Description         string `json:"description"`
	OwnerID             uint64 `json:"owner_id"`
	StorageQuality      string `json:"storage_quality"`
	DefaultVisibility   string `json:"default_visibility"`
	SafetyWindowMinutes int    `json:"safety_window_minutes"`
	MemberCount         int64  `json:"member_count"`
	StorageUsedBytes    int64  `json:"storage_used_bytes"`
	Role                string `json:"role"`
}

func vaultInfo(vault *models.Vault, role string) VaultInfo {
	return VaultInfo{
		ID:                  vault.ID,
		Name:                vault.Name,
		FamilyName:          vault.FamilyName,
		Description:         vault.Description,
		OwnerID:             vault.OwnerID,
		StorageQuality:      vault.StorageQuality,
		DefaultVisibility:   vault.DefaultVisibility,
		SafetyWindowMinutes: vault.SafetyWindowMinutes,
		MemberCount:         vault.ActiveMemberCount(),
		StorageUsedBytes:    vault.StorageUsedBytes(),
		Role:                role,
	}
}

// VaultList returns the vaults where the user holds an active membership.
func VaultList(c *gin.Context, user *models.User) {
	var memberships []models.Membership
	err := db.Instance.Preload("Vault").
		Where("user_id = ? AND is_active = ?", user.ID, true).
		Order("created_at").
		Find(&memberships).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	result := []VaultInfo{}
	for i := range memberships {
		result = append(result, vaultInfo(&memberships[i].Vault, memberships[i].Role))
	}
	c.JSON(http.StatusOK, result)
}

func VaultCreate(c *gin.Context, user *models.User) {
	postReq := VaultCreateRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}
	var vault models.Vault
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		var txErr error
		vault, txErr = models.VaultCreate(tx, user, postReq.Name, postReq.Description)
		return txErr
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create vault"})
		return
	}
	c.JSON(http.StatusOK, vaultInfo(&vault, models.RoleAdmin))
}

// VaultSave updates vault settings, admins only.
func VaultSave(c *gin.Context, user *models.User) {
	vault, ok := vaultAsAdmin(c, user)
	if !ok {
		return
	}
	postReq := VaultSaveRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}
	updates := map[string]interface{}{}
	if postReq.Name != nil && *postReq.Name != "" {
		updates["name"] = *postReq.Name
	}
	if postReq.FamilyName != nil {
		updates["family_name"] = *postReq.FamilyName
	}
	if postReq.Description != nil {
		updates["description"] = *postReq.Description
	}
	if postReq.StorageQuality != nil {
		if !models.ValidStorageQuality(*postReq.StorageQuality) {
			BadRequest(c, "invalid storage quality")
			return
		}
		updates["storage_quality"] = *postReq.StorageQuality
	}
	if postReq.DefaultVisibility != nil {
		if !models.ValidVisibility(*postReq.DefaultVisibility) {
			BadRequest(c, "invalid default visibility")
			return
		}
		updates["default_visibility"] = *postReq.DefaultVisibility
	}
	if postReq.SafetyWindowMinutes != nil {
		if *postReq.SafetyWindowMinutes < 0 || *postReq.SafetyWindowMinutes > models.MaxSafetyWindowMinutes {
			BadRequest(c, "safety window out of range")
			return
		}
		updates["safety_window_minutes"] = *postReq.SafetyWindowMinutes
	}
	if len(updates) > 0 {
		if err := db.Instance.Model(&vault).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save vault"})
			return
		}
	}
	membership := access.ActiveMembership(user, access.FromVault(&vault))
	c.JSON(http.StatusOK, vaultInfo(&vault, membership.Role))
}

// VaultDelete removes the vault with everything in it, owner only.
func VaultDelete(c *gin.Context, user *models.User) {
	id, ok := paramUint64(c, "id")
	if !ok {
		return
	}
	var vault models.Vault
	if err := db.Instance.First(&vault, id).Error; err != nil {
		Error(c, models.NewNotFoundError("vault not found"))
		return
	}
	if vault.OwnerID != user.ID {
		Error(c, models.NewPermissionError("", "only the vault owner can delete the vault"))
		return
	}
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		itemIDs := tx.Model(&models.MediaItem{}).Select("id").Where("vault_id = ?", vault.ID)
		for _, model := range []interface{}{
			&models.MediaTag{}, &models.MediaFavorite{}, &models.MediaAttachment{},
		} {
			if err := tx.Where("media_item_id in (?)", itemIDs).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("vault_id = ?", vault.ID).Delete(&models.MediaItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vault_id = ?", vault.ID).Delete(&models.Invite{}).Error; err != nil {
			return err
		}
		personIDs := tx.Model(&models.Person{}).Select("id").Where("vault_id = ?", vault.ID)
		if err := tx.Where("from_person_id in (?)", personIDs).Delete(&models.Relationship{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vault_id = ?", vault.ID).Delete(&models.Person{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vault_id = ?", vault.ID).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&vault).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete vault"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": ""})
}

func VaultLeave(c *gin.Context, user *models.User) {
	id, ok := paramUint64(c, "id")
	if !ok {
		return
	}
	if err := models.LeaveVault(user, id); err != nil {
		Error(c, err)
		return
	}
	events.Emit(events.Event{Name: events.MemberLeft, VaultID: id, ActorID: user.ID, UserID: user.ID})
	c.JSON(http.StatusOK, gin.H{"error": ""})
}

type TransferOwnershipRequest struct {
	MembershipID uint64 `json:"membership_id" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

func VaultTransferOwnership(c *gin.Context, user *models.User) {
	id, ok := paramUint64(c, "id")
	if !ok {
		return
	}
	var vault models.Vault
	if err := db.Instance.First(&vault, id).Error; err != nil {
		Error(c, models.NewNotFoundError("vault not found"))
		return
	}
	postReq := TransferOwnershipRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}
	newOwnerID, err := models.TransferOwnership(&vault, user, postReq.Password, postReq.MembershipID)
	if err != nil {
		Error(c, err)
		return
	}
	events.Emit(events.Event{
		Name:    events.OwnershipTransferred,
		VaultID: vault.ID,
		ActorID: user.ID,
		UserID:  newOwnerID,
	})
	c.JSON(http.StatusOK, gin.H{"error": "", "new_owner_id": newOwnerID})
}
