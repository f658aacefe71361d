package models

import (
	"testing"

	"legacykeeper/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveVault(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "Olive Owner", "olive@example.com")
	member := createTestUser(t, "Carl Contributor", "carl@example.com")
	vault := createTestVault(t, owner, "Family")
	addTestMember(t, vault, member, RoleContributor)

	t.Run("owner cannot leave", func(t *testing.T) {
		err := LeaveVault(owner, vault.ID)
		assert.Equal(t, CodeOwnerImmutable, domainCode(t, err))
	})

	t.Run("member leave deactivates the row", func(t *testing.T) {
		require.NoError(t, LeaveVault(member, vault.ID))
		var membership Membership
		require.NoError(t, db.Instance.
			Where("vault_id = ? AND user_id = ?", vault.ID, member.ID).
			First(&membership).Error)
		assert.False(t, membership.IsActive)
	})

	t.Run("leaving twice fails", func(t *testing.T) {
		err := LeaveVault(member, vault.ID)
		assert.Equal(t, CodeNotMember, domainCode(t, err))
	})

	t.Run("last admin cannot leave even when not owner", func(t *testing.T) {
		admin := createTestUser(t, "Second Admin", "admin2@example.com")
		secondVault := createTestVault(t, admin, "Second")
		// Repoint ownership elsewhere, keeping admin as the only ADMIN
		require.NoError(t, db.Instance.Model(&Vault{ID: secondVault.ID}).
			Update("owner_id", owner.ID).Error)
		err := LeaveVault(admin, secondVault.ID)
		assert.Equal(t, CodeLastAdmin, domainCode(t, err))
	})
}

func TestRemoveMember(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "Olive Owner", "olive@example.com")
	member := createTestUser(t, "Carl Contributor", "carl@example.com")
	vault := createTestVault(t, owner, "Family")
	membership := addTestMember(t, vault, member, RoleContributor)

	t.Run("owner membership is protected", func(t *testing.T) {
		var ownerMembership Membership
		require.NoError(t, db.Instance.
			Where("vault_id = ? AND user_id = ?", vault.ID, owner.ID).
			First(&ownerMembership).Error)
		err := RemoveMember(vault.ID, ownerMembership.ID)
		assert.Equal(t, CodeOwnerImmutable, domainCode(t, err))
	})

	t.Run("removal deactivates, never deletes", func(t *testing.T) {
		require.NoError(t, RemoveMember(vault.ID, membership.ID))
		var after Membership
		require.NoError(t, db.Instance.First(&after, membership.ID).Error)
		assert.False(t, after.IsActive)
	})

	t.Run("unknown membership", func(t *testing.T) {
		err := RemoveMember(vault.ID, 9999)
		require.Error(t, err)
		assert.Equal(t, ErrNotFound, err.(*Error).Kind)
	})
}

func TestChangeMemberRole(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "Olive Owner", "olive@example.com")
	member := createTestUser(t, "Carl Contributor", "carl@example.com")
	vault := createTestVault(t, owner, "Family")
	membership := addTestMember(t, vault, member, RoleContributor)

	t.Run("demote to viewer", func(t *testing.T) {
		updated, err := ChangeMemberRole(vault.ID, membership.ID, RoleViewer)
		require.NoError(t, err)
		assert.Equal(t, RoleViewer, updated.Role)
	})

	t.Run("admin is never granted here", func(t *testing.T) {
		_, err := ChangeMemberRole(vault.ID, membership.ID, RoleAdmin)
		assert.Equal(t, CodeBadRole, domainCode(t, err))
	})

	t.Run("owner keeps admin", func(t *testing.T) {
		var ownerMembership Membership
		require.NoError(t, db.Instance.
			Where("vault_id = ? AND user_id = ?", vault.ID, owner.ID).
			First(&ownerMembership).Error)
		_, err := ChangeMemberRole(vault.ID, ownerMembership.ID, RoleViewer)
		assert.Equal(t, CodeOwnerImmutable, domainCode(t, err))
	})
}

func TestTransferOwnership(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "Olive Owner", "olive@example.com")
	contributor := createTestUser(t, "Carl Contributor", "carl@example.com")
	viewer := createTestUser(t, "Vera Viewer", "vera@example.com")
	vault := createTestVault(t, owner, "Family")
	target := addTestMember(t, vault, contributor, RoleContributor)
	viewerMembership := addTestMember(t, vault, viewer, RoleViewer)

	t.Run("wrong password", func(t *testing.T) {
		_, err := TransferOwnership(vault, owner, "nope", target.ID)
		assert.Equal(t, CodeBadPassword, domainCode(t, err))
	})

	t.Run("only contributors can receive ownership", func(t *testing.T) {
		_, err := TransferOwnership(vault, owner, "correct horse battery staple", viewerMembership.ID)
		assert.Equal(t, CodeBadRole, domainCode(t, err))
	})

	t.Run("non-owner cannot transfer", func(t *testing.T) {
		_, err := TransferOwnership(vault, contributor, "correct horse battery staple", target.ID)
		require.Error(t, err)
		assert.Equal(t, ErrPermission, err.(*Error).Kind)
	})

	t.Run("successful transfer swaps roles and owner", func(t *testing.T) {
		newOwnerID, err := TransferOwnership(vault, owner, "correct horse battery staple", target.ID)
		require.NoError(t, err)
		assert.Equal(t, contributor.ID, newOwnerID)

		var after Vault
		require.NoError(t, db.Instance.First(&after, vault.ID).Error)
		assert.Equal(t, contributor.ID, after.OwnerID)

		var oldOwnerMembership, newOwnerMembership Membership
		require.NoError(t, db.Instance.
			Where("vault_id = ? AND user_id = ?", vault.ID, owner.ID).
			First(&oldOwnerMembership).Error)
		require.NoError(t, db.Instance.First(&newOwnerMembership, target.ID).Error)
		assert.Equal(t, RoleContributor, oldOwnerMembership.Role)
		assert.Equal(t, RoleAdmin, newOwnerMembership.Role)
	})

	t.Run("previous owner lost the transfer right", func(t *testing.T) {
		var after Vault
		require.NoError(t, db.Instance.First(&after, vault.ID).Error)
		var oldOwnerMembership Membership
		require.NoError(t, db.Instance.
			Where("vault_id = ? AND user_id = ?", vault.ID, owner.ID).
			First(&oldOwnerMembership).Error)
		_, err := TransferOwnership(&after, owner, "correct horse battery staple", oldOwnerMembership.ID)
		require.Error(t, err)
		assert.Equal(t, ErrPermission, err.(*Error).Kind)
	})
}

func TestTransferOwnershipStaleVaultSnapshot(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "Olive Owner", "olive@example.com")
	first := createTestUser(t, "First Heir", "first@example.com")
	second := createTestUser(t, "Second Heir", "second@example.com")
	vault := createTestVault(t, owner, "Family")
	firstMembership := addTestMember(t, vault, first, RoleContributor)
	secondMembership := addTestMember(t, vault, second, RoleContributor)

	// First transfer commits; the caller's vault struct is now stale but
	// still names the ex-owner as owner.
	_, err := TransferOwnership(vault, owner, "correct horse battery staple", firstMembership.ID)
	require.NoError(t, err)
	require.Equal(t, owner.ID, vault.OwnerID)

	_, err = TransferOwnership(vault, owner, "correct horse battery staple", secondMembership.ID)
	require.Error(t, err)
	assert.Equal(t, ErrPermission, err.(*Error).Kind)

	var after Vault
	require.NoError(t, db.Instance.First(&after, vault.ID).Error)
	assert.Equal(t, first.ID, after.OwnerID)

	var secondAfter Membership
	require.NoError(t, db.Instance.First(&secondAfter, secondMembership.ID).Error)
	assert.Equal(t, RoleContributor, secondAfter.Role)
}
