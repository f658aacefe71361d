package handlers

import (
	"net/http"
	"strconv"

	"legacykeeper/access"
	"legacykeeper/db"
	"legacykeeper/models"

	"github.com/gin-gonic/gin"
)

// Error translates a domain error to its HTTP response {error, code}.
// Anything that is not a models.Error is a 500 with a generic body.
func Error(c *gin.Context, err error) {
	domainErr, ok := err.(*models.Error)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	status := http.StatusBadRequest
	switch domainErr.Kind {
	case models.ErrPermission:
		status = http.StatusForbidden
	case models.ErrNotFound:
		status = http.StatusNotFound
	case models.ErrConflict:
		status = http.StatusConflict
	}
	body := gin.H{"error": domainErr.Message}
	if domainErr.Code != "" {
		body["code"] = domainErr.Code
	}
	c.JSON(status, body)
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func paramUint64(c *gin.Context, name string) (uint64, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || value == 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return value, true
}

// vaultAsMember loads the vault from the :id param and checks active
// membership of the given user.
func vaultAsMember(c *gin.Context, user *models.User) (vault models.Vault, ok bool) {
	id, ok := paramUint64(c, "id")
	if !ok {
		return vault, false
	}
	if err := db.Instance.First(&vault, id).Error; err != nil {
		Error(c, models.NewNotFoundError("vault not found"))
		return vault, false
	}
	if err := access.RequireMember(user, access.FromVault(&vault)); err != nil {
		Error(c, err)
		return vault, false
	}
	return vault, true
}

func vaultAsAdmin(c *gin.Context, user *models.User) (vault models.Vault, ok bool) {
	id, ok := paramUint64(c, "id")
	if !ok {
		return vault, false
	}
	if err := db.Instance.First(&vault, id).Error; err != nil {
		Error(c, models.NewNotFoundError("vault not found"))
		return vault, false
	}
	if err := access.RequireAdmin(user, access.FromVault(&vault)); err != nil {
		Error(c, err)
		return vault, false
	}
	return vault, true
}
