package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

func boolPtr(v bool) *bool { return &v }

func TestJoinAccount_SelfOnly(t *testing.T) {
	t.Parallel()
	store := fixture(t)
	svc := NewAccountService(store, discardLogger())
	ctx := context.Background()

	// u2 joins acct-a as themself: allowed despite no prior membership.
	created, err := svc.JoinAccount(ctx, "u2", &domain.AccountMembership{
		AccountID: "acct-a",
		UserID:    "u2",
		Role:      domain.AccountRoleMember,
	})
	require.NoError(t, err)
	require.Equal(t, "u2", created.UserID)

	// Inserting a membership for someone else is denied, owner or not.
	_, err = svc.JoinAccount(ctx, "u1", &domain.AccountMembership{
		AccountID: "acct-a",
		UserID:    "u9",
		Role:      domain.AccountRoleMember,
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateAccount_TestTenantIsMonotonic(t *testing.T) {
	t.Parallel()
	store := fixture(t)
	svc := NewAccountService(store, discardLogger())
	ctx := context.Background()

	// false→true is allowed.
	account, err := svc.UpdateAccount(ctx, "u1", "acct-a", ports.AccountChange{
		IsTestTenant: boolPtr(true),
	})
	require.NoError(t, err)
	require.True(t, account.IsTestTenant)

	// true→true is a no-op.
	_, err = svc.UpdateAccount(ctx, "u1", "acct-a", ports.AccountChange{
		IsTestTenant: boolPtr(true),
	})
	require.NoError(t, err)

	// true→false is rejected.
	_, err = svc.UpdateAccount(ctx, "u1", "acct-a", ports.AccountChange{
		IsTestTenant: boolPtr(false),
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetAccount_TenantIsolation(t *testing.T) {
	t.Parallel()
	store := fixture(t)
	svc := NewAccountService(store, discardLogger())
	ctx := context.Background()

	account, err := svc.GetAccount(ctx, "u1", "acct-a")
	require.NoError(t, err)
	require.Equal(t, "acme", account.Slug)

	_, err = svc.GetAccount(ctx, "u2", "acct-a")
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeleteAccount_Cascades(t *testing.T) {
	t.Parallel()
	store := fixture(t)
	svc := NewAccountService(store, discardLogger())
	ctx := context.Background()
	seedSprint(t, store, "s1")

	require.NoError(t, svc.DeleteAccount(ctx, "u1", "acct-a"))

	_, err := store.GetTeam(ctx, "team-a")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetSprint(ctx, "s1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
