package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

func TestCreateSprint_RejectsInvertedDates(t *testing.T) {
	t.Parallel()
	store := fixture(t)
	svc := NewSprintService(store, discardLogger())

	_, err := svc.CreateSprint(context.Background(), "u1", &domain.Sprint{
		TeamID:    "team-a",
		Name:      "Backwards",
		StartDate: domain.NewDate(2026, time.March, 13),
		EndDate:   domain.NewDate(2026, time.March, 2),
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "end_date")
}

func TestCreateSprint_OutsiderDeniedBeforeDateCheck(t *testing.T) {
	t.Parallel()
	store := fixture(t)
	svc := NewSprintService(store, discardLogger())

	// u2 belongs to acct-b; inverted dates must not shadow the deny.
	_, err := svc.CreateSprint(context.Background(), "u2", &domain.Sprint{
		TeamID:    "team-a",
		Name:      "Backwards",
		StartDate: domain.NewDate(2026, time.March, 13),
		EndDate:   domain.NewDate(2026, time.March, 2),
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
	require.NotErrorIs(t, err, domain.ErrValidation)
}

func TestCreateSprint_DenormalizesAccount(t *testing.T) {
	t.Parallel()
	store := fixture(t)
	svc := NewSprintService(store, discardLogger())

	sprint, err := svc.CreateSprint(context.Background(), "u3", &domain.Sprint{
		TeamID:    "team-a",
		Name:      "Sprint 7",
		StartDate: domain.NewDate(2026, time.March, 2),
		EndDate:   domain.NewDate(2026, time.March, 13),
	})
	require.NoError(t, err)
	require.Equal(t, "acct-a", sprint.AccountID)
	require.Equal(t, domain.SprintPlanned, sprint.Status)
}

func TestUpdateSprint_PartialDateCheckedAgainstStored(t *testing.T) {
	t.Parallel()
	store := fixture(t)
	svc := NewSprintService(store, discardLogger())
	ctx := context.Background()
	seedSprint(t, store, "s1")

	// Moving only the end date before the stored start must fail even
	// though the request itself carries a single, self-consistent field.
	bad := domain.NewDate(2026, time.February, 20)
	_, err := svc.UpdateSprint(ctx, "u1", "s1", ports.SprintChange{EndDate: &bad})
	require.ErrorIs(t, err, domain.ErrValidation)

	// Moving it after the stored start is fine.
	good := domain.NewDate(2026, time.March, 20)
	updated, err := svc.UpdateSprint(ctx, "u1", "s1", ports.SprintChange{EndDate: &good})
	require.NoError(t, err)
	require.Equal(t, good, updated.EndDate)
}

func TestDeleteSprint_BlockedByWorkItems(t *testing.T) {
	t.Parallel()
	store := fixture(t)
	svc := NewSprintService(store, discardLogger())
	items := NewWorkItemService(store, discardLogger())
	ctx := context.Background()
	seedSprint(t, store, "s1")

	created, err := items.CreateWorkItem(ctx, "u1", &domain.WorkItem{
		TeamID:   "team-a",
		SprintID: strPtr("s1"),
		Title:    "Ship it",
	})
	require.NoError(t, err)

	err = svc.DeleteSprint(ctx, "u1", "s1")
	require.ErrorIs(t, err, domain.ErrConflict)

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, "work_items", conflict.Relationship)

	// Clearing the reference unblocks the deletion.
	_, err = items.UpdateWorkItem(ctx, "u1", created.ID, ports.WorkItemChange{ClearSprint: true})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSprint(ctx, "u1", "s1"))
}

func TestGetSprint_OutsiderDenied(t *testing.T) {
	t.Parallel()
	store := fixture(t)
	svc := NewSprintService(store, discardLogger())
	seedSprint(t, store, "s1")

	_, err := svc.GetSprint(context.Background(), "u2", "s1")
	require.ErrorIs(t, err, domain.ErrForbidden)
}
