package handlers

import (
	"net/http"

	"legacykeeper/access"
	"legacykeeper/db"
	"legacykeeper/models"

	"github.com/gin-gonic/gin"
)

type PersonCreateRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	BirthDate  *int64 `json:"birth_date"`
	BirthPlace string `json:"birth_place"`
	Notes      string `json:"notes"`
}

type RelationshipCreateRequest struct {
	FromPersonID uint64 `json:"from_person_id" binding:"required"`
	ToPersonID   uint64 `json:"to_person_id" binding:"required"`
	Type         string `json:"type" binding:"required"`
}

type MediaTagCreateRequest struct {
	MediaItemID uint64 `json:"media_item_id" binding:"required"`
	PersonID    uint64 `json:"person_id" binding:"required"`
	FaceJSON    string `json:"face"`
}

func PersonList(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	var persons []models.Person
	if err := db.Instance.Where("vault_id = ?", vault.ID).Order("full_name").Find(&persons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, persons)
}

func PersonCreate(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	membership := access.ActiveMembership(user, access.FromVault(&vault))
	if membership.Role == models.RoleViewer {
		Error(c, models.NewPermissionError("", "viewers cannot edit the family tree"))
		return
	}
	postReq := PersonCreateRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}
	person := models.Person{
		VaultID:    vault.ID,
		FullName:   postReq.FullName,
		BirthDate:  postReq.BirthDate,
		BirthPlace: postReq.BirthPlace,
		Notes:      postReq.Notes,
	}
	if err := db.Instance.Create(&person).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, person)
}

// RelationshipCreate links two persons of the vault.
func RelationshipCreate(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	membership := access.ActiveMembership(user, access.FromVault(&vault))
	if membership.Role == models.RoleViewer {
		Error(c, models.NewPermissionError("", "viewers cannot edit the family tree"))
		return
	}
	postReq := RelationshipCreateRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if postReq.Type != models.RelationshipParent &&
		postReq.Type != models.RelationshipSpouse &&
		postReq.Type != models.RelationshipSibling {
		BadRequest(c, "invalid relationship type")
		return
	}
	var count int64
	db.Instance.Model(&models.Person{}).
		Where("vault_id = ? AND id in ?", vault.ID, []uint64{postReq.FromPersonID, postReq.ToPersonID}).
		Count(&count)
	if count != 2 || postReq.FromPersonID == postReq.ToPersonID {
		BadRequest(c, "both persons must belong to this vault")
		return
	}
	relationship := models.Relationship{
		FromPersonID: postReq.FromPersonID,
		ToPersonID:   postReq.ToPersonID,
		Type:         postReq.Type,
	}
	if err := db.Instance.Create(&relationship).Error; err != nil {
		if db.IsDuplicateKey(err) {
			Error(c, models.NewConflictError("", "this relationship already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, relationship)
}

// MediaTagCreate marks a person as appearing in a media item.
func MediaTagCreate(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	membership := access.ActiveMembership(user, access.FromVault(&vault))
	if membership.Role == models.RoleViewer {
		Error(c, models.NewPermissionError("", "viewers cannot tag media"))
		return
	}
	postReq := MediaTagCreateRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}
	var item models.MediaItem
	if db.Instance.Where("id = ? AND vault_id = ?", postReq.MediaItemID, vault.ID).First(&item).Error != nil {
		Error(c, models.NewNotFoundError("media item not found"))
		return
	}
	var person models.Person
	if db.Instance.Where("id = ? AND vault_id = ?", postReq.PersonID, vault.ID).First(&person).Error != nil {
		Error(c, models.NewNotFoundError("person not found"))
		return
	}
	tag := models.MediaTag{
		MediaItemID: item.ID,
		PersonID:    person.ID,
		FaceJSON:    postReq.FaceJSON,
		CreatedByID: &user.ID,
	}
	if err := db.Instance.Create(&tag).Error; err != nil {
		if db.IsDuplicateKey(err) {
			Error(c, models.NewConflictError("", "this person is already tagged on this item"))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, tag)
}

func MediaTagDelete(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	tagID, ok := paramUint64(c, "tid")
	if !ok {
		return
	}
	var tag models.MediaTag
	if db.Instance.Preload("MediaItem").First(&tag, tagID).Error != nil ||
		tag.MediaItem.VaultID != vault.ID {
		Error(c, models.NewNotFoundError("tag not found"))
		return
	}
	membership := access.ActiveMembership(user, access.FromVault(&vault))
	if membership.Role == models.RoleViewer {
		Error(c, models.NewPermissionError("", "viewers cannot edit tags"))
		return
	}
	if err := db.Instance.Delete(&tag).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": ""})
}
