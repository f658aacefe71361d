package push

import (
	"log"
	"strconv"

	"legacykeeper/config"
	"legacykeeper/db"
	"legacykeeper/models"
)

// vaultMemberTokens returns the push tokens of all active members of the
// vault except the acting user.
func vaultMemberTokens(vaultID, exceptUserID uint64) []string {
	var tokens []string
	err := db.Instance.
		Table("memberships").
		Joins("join users on users.id = memberships.user_id").
		Where("memberships.vault_id = ? AND memberships.is_active = 1", vaultID).
		Where("memberships.user_id <> ?", exceptUserID).
		Where("users.push_token <> ''").
		Pluck("users.push_token", &tokens).Error
	if err != nil {
		log.Printf("vaultMemberTokens DB error: %v", err)
		return nil
	}
	return tokens
}

func vaultData(notificationType string, vaultID uint64) map[string]string {
	return map[string]string{
		"type":  notificationType,
		"vault": strconv.FormatUint(vaultID, 10),
	}
}

func MemberJoined(vault *models.Vault, newMember *models.User) {
	if config.PUSH_SERVER == "" {
		return
	}
	notification := Notification{
		Type:  NotificationTypeMemberJoined,
		Title: "Vault \"" + vault.Name + "\"",
		Body:  newMember.FullName + " joined the vault",
		Data:  vaultData(NotificationTypeMemberJoined, vault.ID),
	}
	notification.SendTo(vaultMemberTokens(vault.ID, newMember.ID))
}

func MemberRemoved(vault *models.Vault, removed *models.User) {
	if config.PUSH_SERVER == "" || removed.PushToken == "" {
		return
	}
	notification := Notification{
		Type:  NotificationTypeMemberRemoved,
		Title: "Vault \"" + vault.Name + "\"",
		Body:  "You no longer have access to this vault",
		Data:  vaultData(NotificationTypeMemberRemoved, vault.ID),
	}
	notification.SendTo([]string{removed.PushToken})
}

func RoleChanged(vault *models.Vault, member *models.User, newRole string) {
	if config.PUSH_SERVER == "" || member.PushToken == "" {
		return
	}
	notification := Notification{
		Type:  NotificationTypeRoleChanged,
		Title: "Vault \"" + vault.Name + "\"",
		Body:  "Your role is now " + newRole,
		Data:  vaultData(NotificationTypeRoleChanged, vault.ID),
	}
	notification.SendTo([]string{member.PushToken})
}

func OwnershipTransferred(vault *models.Vault, newOwner *models.User) {
	if config.PUSH_SERVER == "" {
		return
	}
	notification := Notification{
		Type:  NotificationTypeOwnerChanged,
		Title: "Vault \"" + vault.Name + "\"",
		Body:  newOwner.FullName + " is the new owner of the vault",
		Data:  vaultData(NotificationTypeOwnerChanged, vault.ID),
	}
	notification.SendTo(vaultMemberTokens(vault.ID, 0))
}
