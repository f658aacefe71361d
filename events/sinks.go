package events

import (
	"log"

	"legacykeeper/db"
	"legacykeeper/models"
	"legacykeeper/push"
)

func loadVault(id uint64) *models.Vault {
	vault := models.Vault{ID: id}
	if err := db.Instance.First(&vault).Error; err != nil {
		log.Printf("event sink: vault %d: %v", id, err)
		return nil
	}
	return &vault
}

func loadUser(id uint64) *models.User {
	user := models.User{ID: id}
	if err := db.Instance.First(&user).Error; err != nil {
		log.Printf("event sink: user %d: %v", id, err)
		return nil
	}
	return &user
}

// RegisterSinks connects the dispatcher to its consumers. Called once from
// main after the DB is up.
func RegisterSinks() {
	Register(MemberJoined, func(event Event) {
		vault := loadVault(event.VaultID)
		member := loadUser(event.UserID)
		if vault == nil || member == nil {
			return
		}
		push.MemberJoined(vault, member)
	})
	Register(MemberRemoved, func(event Event) {
		vault := loadVault(event.VaultID)
		member := loadUser(event.UserID)
		if vault == nil || member == nil {
			return
		}
		push.MemberRemoved(vault, member)
	})
	Register(MemberRoleChanged, func(event Event) {
		vault := loadVault(event.VaultID)
		member := loadUser(event.UserID)
		if vault == nil || member == nil {
			return
		}
		push.RoleChanged(vault, member, event.Extra["role"])
	})
	Register(OwnershipTransferred, func(event Event) {
		vault := loadVault(event.VaultID)
		owner := loadUser(event.UserID)
		if vault == nil || owner == nil {
			return
		}
		push.OwnershipTransferred(vault, owner)
	})
	Register(MediaAdded, func(event Event) {
		vault := loadVault(event.VaultID)
		actor := loadUser(event.ActorID)
		if vault == nil || actor == nil {
			return
		}
		push.QueueMediaAdded(vault, actor, event.Count)
	})
	Register(DuplicatesCleaned, func(event Event) {
		log.Printf("vault %d: %d duplicate items removed by user %d",
			event.VaultID, event.Count, event.ActorID)
	})
}
