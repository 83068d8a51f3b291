package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sprintpulse/sprintpulse/internal/adapters/storage/memory"
	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// Walks one tenant through team and sprint setup end to end: the account
// owner creates a team and a sprint on it, an outsider cannot read the
// sprint, and rolling the end date back before the start is rejected.
func TestTenantSprintLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := memory.New()
	store.PutAccount(domain.Account{ID: "acct-a", Slug: "acme", Name: "Acme"})
	store.PutAccountMembership(domain.AccountMembership{AccountID: "acct-a", UserID: "u1", Role: domain.AccountRoleOwner})
	store.PutAccount(domain.Account{ID: "acct-b", Slug: "beta", Name: "Beta"})
	store.PutAccountMembership(domain.AccountMembership{AccountID: "acct-b", UserID: "u2", Role: domain.AccountRoleOwner})

	teams := NewTeamService(store, discardLogger())
	sprints := NewSprintService(store, discardLogger())

	creation, err := teams.CreateTeam(ctx, "u1", &domain.Team{
		AccountID: "acct-a",
		Name:      "Tiger",
	})
	require.NoError(t, err)
	require.Nil(t, creation.Partial)
	require.Equal(t, domain.TeamRoleLead, creation.LeadMembership.Role)

	sprint, err := sprints.CreateSprint(ctx, "u1", &domain.Sprint{
		TeamID:    creation.Team.ID,
		Name:      "Sprint 1",
		StartDate: domain.NewDate(2026, time.January, 1),
		EndDate:   domain.NewDate(2026, time.January, 14),
	})
	require.NoError(t, err)
	require.Equal(t, "acct-a", sprint.AccountID)

	// u2 is not a member of acct-a.
	_, err = sprints.GetSprint(ctx, "u2", sprint.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	// The end date cannot roll back before the stored start date.
	back := domain.NewDate(2025, time.December, 31)
	_, err = sprints.UpdateSprint(ctx, "u1", sprint.ID, ports.SprintChange{EndDate: &back})
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "end_date")
}
