package models

import (
	"testing"
	"time"

	"legacykeeper/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEmailInvite(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "Olive Owner", "olive@example.com")
	vault := createTestVault(t, owner, "Family")
	expiry := time.Now().AddDate(0, 0, 7).Unix()

	t.Run("admin role is rejected", func(t *testing.T) {
		_, err := CreateEmailInvite(vault, owner, "new@example.com", RoleAdmin, expiry)
		assert.Equal(t, CodeAdminRoleNotAllowed, domainCode(t, err))
	})

	t.Run("email is normalized and invite issued", func(t *testing.T) {
		invite, err := CreateEmailInvite(vault, owner, "  New@Example.COM ", RoleContributor, expiry)
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", invite.Email)
		assert.NotEmpty(t, invite.Token)
		assert.True(t, invite.IsValid())
		assert.False(t, invite.IsShareable())
	})

	t.Run("second outstanding invite is rejected", func(t *testing.T) {
		_, err := CreateEmailInvite(vault, owner, "new@example.com", RoleViewer, expiry)
		assert.Equal(t, CodeInviteExists, domainCode(t, err))
	})

	t.Run("active members cannot be invited", func(t *testing.T) {
		member := createTestUser(t, "Carl", "carl@example.com")
		addTestMember(t, vault, member, RoleContributor)
		_, err := CreateEmailInvite(vault, owner, "carl@example.com", RoleContributor, expiry)
		assert.Equal(t, CodeAlreadyMember, domainCode(t, err))
	})
}

func TestRedeemForUser(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "Olive Owner", "olive@example.com")
	invitee := createTestUser(t, "Inga Invitee", "inga@example.com")
	vault := createTestVault(t, owner, "Family")
	expiry := time.Now().AddDate(0, 0, 7).Unix()

	invite, err := CreateEmailInvite(vault, owner, "inga@example.com", RoleContributor, expiry)
	require.NoError(t, err)

	t.Run("email mismatch", func(t *testing.T) {
		other := createTestUser(t, "Oscar Other", "oscar@example.com")
		_, _, err := RedeemForUser(other, &invite)
		assert.Equal(t, CodeInviteEmailMismatch, domainCode(t, err))
	})

	t.Run("redemption creates the membership and burns the invite", func(t *testing.T) {
		membership, alreadyMember, err := RedeemForUser(invitee, &invite)
		require.NoError(t, err)
		assert.False(t, alreadyMember)
		assert.Equal(t, RoleContributor, membership.Role)
		assert.True(t, membership.IsActive)

		var after Invite
		require.NoError(t, db.Instance.First(&after, invite.ID).Error)
		assert.True(t, after.IsUsed)
	})

	t.Run("a used invite cannot be redeemed again", func(t *testing.T) {
		var after Invite
		require.NoError(t, db.Instance.First(&after, invite.ID).Error)
		_, _, err := RedeemForUser(invitee, &after)
		assert.Equal(t, CodeInvalidInvite, domainCode(t, err))
	})

	t.Run("reactivation after leaving", func(t *testing.T) {
		require.NoError(t, LeaveVault(invitee, vault.ID))
		second, err := CreateEmailInvite(vault, owner, "inga@example.com", RoleViewer, expiry)
		require.NoError(t, err)
		membership, alreadyMember, err := RedeemForUser(invitee, &second)
		require.NoError(t, err)
		assert.False(t, alreadyMember)
		assert.True(t, membership.IsActive)
		assert.Equal(t, RoleViewer, membership.Role)

		var count int64
		db.Instance.Model(&Membership{}).
			Where("vault_id = ? AND user_id = ?", vault.ID, invitee.ID).
			Count(&count)
		assert.EqualValues(t, 1, count, "reactivation must reuse the row")
	})

	t.Run("redeeming while a member reports alreadyMember", func(t *testing.T) {
		link, err := CreateShareableInvite(vault, owner, RoleContributor, expiry)
		require.NoError(t, err)
		_, alreadyMember, err := RedeemForUser(invitee, &link)
		require.NoError(t, err)
		assert.True(t, alreadyMember)

		var after Invite
		require.NoError(t, db.Instance.First(&after, link.ID).Error)
		assert.EqualValues(t, 0, after.SuccessfulJoins, "no join counted for members")
	})
}

func TestShareableInvite(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "Olive Owner", "olive@example.com")
	vault := createTestVault(t, owner, "Family")
	expiry := time.Now().AddDate(0, 0, 7).Unix()

	t.Run("expiry must be in the future", func(t *testing.T) {
		_, err := CreateShareableInvite(vault, owner, RoleContributor, time.Now().Add(-time.Hour).Unix())
		require.Error(t, err)
	})

	link, err := CreateShareableInvite(vault, owner, RoleContributor, expiry)
	require.NoError(t, err)
	assert.True(t, link.IsShareable())

	t.Run("stays redeemable across multiple joins", func(t *testing.T) {
		for i, email := range []string{"a@example.com", "b@example.com"} {
			joiner := createTestUser(t, "Joiner", email)
			_, alreadyMember, err := RedeemForUser(joiner, &link)
			require.NoError(t, err)
			assert.False(t, alreadyMember)

			var after Invite
			require.NoError(t, db.Instance.First(&after, link.ID).Error)
			assert.False(t, after.IsUsed)
			assert.EqualValues(t, i+1, after.SuccessfulJoins)
		}
	})

	t.Run("revocation stops redemption", func(t *testing.T) {
		require.NoError(t, link.Revoke())
		late := createTestUser(t, "Late", "late@example.com")
		var after Invite
		require.NoError(t, db.Instance.First(&after, link.ID).Error)
		_, _, err := RedeemForUser(late, &after)
		assert.Equal(t, CodeInvalidInvite, domainCode(t, err))
	})
}

func TestRedeemAccept(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "Olive Owner", "olive@example.com")
	vault := createTestVault(t, owner, "Family")
	expiry := time.Now().AddDate(0, 0, 7).Unix()

	invite, err := CreateEmailInvite(vault, owner, "fresh@example.com", RoleContributor, expiry)
	require.NoError(t, err)

	t.Run("creates an active verified account plus membership", func(t *testing.T) {
		user, membership, err := RedeemAccept(&invite, "fresh@example.com", "Fred Fresh", "a strong password")
		require.NoError(t, err)
		assert.True(t, user.IsActive)
		assert.True(t, user.IsVerified)
		assert.True(t, user.CheckPassword("a strong password"))
		assert.Equal(t, RoleContributor, membership.Role)
	})

	t.Run("existing active account is a conflict", func(t *testing.T) {
		link, err := CreateShareableInvite(vault, owner, RoleContributor, expiry)
		require.NoError(t, err)
		_, _, err = RedeemAccept(&link, "olive@example.com", "Olive Again", "whatever password")
		assert.Equal(t, CodeAccountExists, domainCode(t, err))
	})

	t.Run("dormant account is reactivated with new credentials", func(t *testing.T) {
		dormant := createTestUser(t, "Dora Dormant", "dora@example.com")
		require.NoError(t, db.Instance.Model(dormant).Update("is_active", false).Error)

		link, err := CreateShareableInvite(vault, owner, RoleViewer, expiry)
		require.NoError(t, err)
		user, membership, err := RedeemAccept(&link, "dora@example.com", "Dora Returns", "brand new password")
		require.NoError(t, err)
		assert.Equal(t, dormant.ID, user.ID)
		assert.True(t, user.IsActive)
		assert.True(t, user.CheckPassword("brand new password"))
		assert.Equal(t, RoleViewer, membership.Role)
	})
}
