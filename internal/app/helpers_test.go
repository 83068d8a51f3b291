package app

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sprintpulse/sprintpulse/internal/adapters/storage/memory"
	"github.com/sprintpulse/sprintpulse/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func strPtr(v string) *string { return &v }

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// fixture seeds two tenants:
//
//	acct-a: u1 (owner, lead of team-a), u3 (member, contributor of team-a)
//	acct-b: u2 (owner), an outsider from acct-a's perspective
func fixture(t *testing.T, opts ...memory.Option) *memory.Store {
	t.Helper()
	ctx := context.Background()

	store := memory.New(opts...)
	store.PutAccount(domain.Account{ID: "acct-a", Slug: "acme", Name: "Acme"})
	store.PutAccount(domain.Account{ID: "acct-b", Slug: "beta", Name: "Beta"})
	store.PutAccountMembership(domain.AccountMembership{AccountID: "acct-a", UserID: "u1", Role: domain.AccountRoleOwner})
	store.PutAccountMembership(domain.AccountMembership{AccountID: "acct-a", UserID: "u3", Role: domain.AccountRoleMember})
	store.PutAccountMembership(domain.AccountMembership{AccountID: "acct-b", UserID: "u2", Role: domain.AccountRoleOwner})

	_, err := store.CreateTeam(ctx, &domain.Team{ID: "team-a", AccountID: "acct-a", Name: "Platform"})
	require.NoError(t, err)
	_, err = store.CreateTeamMembership(ctx, &domain.TeamMembership{TeamID: "team-a", UserID: "u1", Role: domain.TeamRoleLead})
	require.NoError(t, err)
	_, err = store.CreateTeamMembership(ctx, &domain.TeamMembership{TeamID: "team-a", UserID: "u3", Role: domain.TeamRoleContributor})
	require.NoError(t, err)

	return store
}

func seedSprint(t *testing.T, store *memory.Store, id string) *domain.Sprint {
	t.Helper()

	sprint, err := store.CreateSprint(context.Background(), &domain.Sprint{
		ID:        id,
		TeamID:    "team-a",
		AccountID: "acct-a",
		Name:      "Sprint " + id,
		StartDate: domain.NewDate(2026, time.March, 2),
		EndDate:   domain.NewDate(2026, time.March, 13),
		Status:    domain.SprintActive,
	})
	require.NoError(t, err)
	return sprint
}
