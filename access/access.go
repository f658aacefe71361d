// Package access answers "may this user touch this object" for everything
// that hangs off a vault. Checks are pure reads and are re-evaluated on every
// request, since roles and is_active can change between requests.
package access

import (
	"time"

	"legacykeeper/db"
	"legacykeeper/models"
)

// VaultRef is a resolved reference to the vault that owns some object.
// Each known ownership path has its own constructor below; there is no
// dynamic attribute probing.
type VaultRef struct {
	VaultID uint64
}

func FromVault(v *models.Vault) VaultRef {
	return VaultRef{VaultID: v.ID}
}

func FromVaultID(id uint64) VaultRef {
	return VaultRef{VaultID: id}
}

func FromMediaItem(m *models.MediaItem) VaultRef {
	return VaultRef{VaultID: m.VaultID}
}

func FromInvite(i *models.Invite) VaultRef {
	return VaultRef{VaultID: i.VaultID}
}

func FromPerson(p *models.Person) VaultRef {
	return VaultRef{VaultID: p.VaultID}
}

// FromRelationship walks the from_person.vault chain.
func FromRelationship(r *models.Relationship) (VaultRef, error) {
	if r.FromPerson.ID == r.FromPersonID {
		return VaultRef{VaultID: r.FromPerson.VaultID}, nil
	}
	var person models.Person
	if err := db.Instance.First(&person, r.FromPersonID).Error; err != nil {
		return VaultRef{}, models.NewNotFoundError("cannot resolve vault for relationship")
	}
	return VaultRef{VaultID: person.VaultID}, nil
}

// FromMediaTag walks the media_item.vault chain.
func FromMediaTag(t *models.MediaTag) (VaultRef, error) {
	if t.MediaItem.ID == t.MediaItemID {
		return VaultRef{VaultID: t.MediaItem.VaultID}, nil
	}
	var item models.MediaItem
	if err := db.Instance.First(&item, t.MediaItemID).Error; err != nil {
		return VaultRef{}, models.NewNotFoundError("cannot resolve vault for media tag")
	}
	return VaultRef{VaultID: item.VaultID}, nil
}

// ActiveMembership returns the user's active membership on the referenced
// vault, or nil when there is none.
func ActiveMembership(user *models.User, ref VaultRef) *models.Membership {
	var membership models.Membership
	err := db.Instance.
		Where("vault_id = ? AND user_id = ? AND is_active = ?", ref.VaultID, user.ID, true).
		First(&membership).Error
	if err != nil {
		return nil
	}
	return &membership
}

func IsActiveMember(user *models.User, ref VaultRef) bool {
	return ActiveMembership(user, ref) != nil
}

func IsActiveAdmin(user *models.User, ref VaultRef) bool {
	membership := ActiveMembership(user, ref)
	return membership != nil && membership.Role == models.RoleAdmin
}

// RequireMember and RequireAdmin return domain errors ready for the boundary.
func RequireMember(user *models.User, ref VaultRef) error {
	if !IsActiveMember(user, ref) {
		return models.NewPermissionError(models.CodeNotMember, "not a member of this vault")
	}
	return nil
}

func RequireAdmin(user *models.User, ref VaultRef) error {
	if !IsActiveAdmin(user, ref) {
		return models.NewPermissionError("", "vault admin access required")
	}
	return nil
}

// CanMutateMedia implements the time-boxed edit/delete rule: admins always
// may, viewers never, and contributors only for their own uploads within the
// vault's safety window.
func CanMutateMedia(user *models.User, item *models.MediaItem, vault *models.Vault, action string) error {
	membership := ActiveMembership(user, FromMediaItem(item))
	if membership == nil {
		return models.NewPermissionError(models.CodeNotMember, "you are not an active member of this vault")
	}
	switch membership.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleViewer:
		return models.NewPermissionError("", "viewers are not allowed to "+action+" media")
	}
	if item.UploaderID == nil || *item.UploaderID != user.ID {
		return models.NewPermissionError("", "contributors can only "+action+" media they uploaded")
	}
	window := vault.SafetyWindowMinutes
	if window < 0 {
		window = 0
	}
	elapsed := time.Since(time.Unix(item.CreatedAt, 0))
	if elapsed > time.Duration(window)*time.Minute {
		return models.NewPermissionError(models.CodeEditWindowExpired,
			action+" window expired, contributors can only "+action+" their uploads within the vault's safety window")
	}
	return nil
}
