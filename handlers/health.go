package handlers

import (
	"net/http"

	"legacykeeper/dedup"
	"legacykeeper/events"
	"legacykeeper/models"

	"github.com/gin-gonic/gin"
)

type CleanupRequest struct {
	DryRun bool `json:"dry_run"`
	// Restrict the cleanup to these content hashes; empty means all groups
	Hashes []string `json:"hashes"`
}

// HealthAnalysis reports duplicate media groups and reclaimable storage.
func HealthAnalysis(c *gin.Context, user *models.User) {
	vault, ok := vaultAsAdmin(c, user)
	if !ok {
		return
	}
	report, err := dedup.Analyze(vault.ID, c.QueryArray("hash"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// CleanupRedundant merges and removes duplicate media. With dry_run the
// response shows what would happen without changing anything.
func CleanupRedundant(c *gin.Context, user *models.User) {
	vault, ok := vaultAsAdmin(c, user)
	if !ok {
		return
	}
	postReq := CleanupRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}
	result, err := dedup.Cleanup(vault.ID, postReq.Hashes, postReq.DryRun)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
		return
	}
	if !postReq.DryRun && result.DeletedItems > 0 {
		events.Emit(events.Event{
			Name:    events.DuplicatesCleaned,
			VaultID: vault.ID,
			ActorID: user.ID,
			Count:   result.DeletedItems,
		})
	}
	c.JSON(http.StatusOK, result)
}
