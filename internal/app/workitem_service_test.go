package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

func newWorkItemService(t *testing.T) (*WorkItemService, context.Context) {
	t.Helper()
	svc := NewWorkItemService(fixture(t), discardLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc, context.Background()
}

func statusPtr(s domain.WorkItemStatus) *domain.WorkItemStatus { return &s }

func TestWorkItemCompletion_DerivedFromTransitions(t *testing.T) {
	t.Parallel()
	svc, ctx := newWorkItemService(t)

	item, err := svc.CreateWorkItem(ctx, "u3", &domain.WorkItem{
		TeamID: "team-a",
		Title:  "Wire up tracing",
	})
	require.NoError(t, err)
	require.Nil(t, item.CompletedAt)
	require.Equal(t, domain.WorkItemTodo, item.Status)

	// Entering done stamps completed_at with the transition time.
	item, err = svc.UpdateWorkItem(ctx, "u3", item.ID, ports.WorkItemChange{
		Status: statusPtr(domain.WorkItemDone),
	})
	require.NoError(t, err)
	require.NotNil(t, item.CompletedAt)
	require.Equal(t, fixedNow, *item.CompletedAt)

	// A non-status update preserves the stamp.
	item, err = svc.UpdateWorkItem(ctx, "u3", item.ID, ports.WorkItemChange{
		Title: strPtr("Wire up tracing properly"),
	})
	require.NoError(t, err)
	require.NotNil(t, item.CompletedAt)

	// Leaving done clears it.
	item, err = svc.UpdateWorkItem(ctx, "u3", item.ID, ports.WorkItemChange{
		Status: statusPtr(domain.WorkItemReview),
	})
	require.NoError(t, err)
	require.Nil(t, item.CompletedAt)
}

func TestCreateWorkItem_DoneOnCreateIsStamped(t *testing.T) {
	t.Parallel()
	svc, ctx := newWorkItemService(t)

	item, err := svc.CreateWorkItem(ctx, "u1", &domain.WorkItem{
		TeamID: "team-a",
		Title:  "Already finished",
		Status: domain.WorkItemDone,
	})
	require.NoError(t, err)
	require.NotNil(t, item.CompletedAt)
	require.Equal(t, fixedNow, *item.CompletedAt)
}

func TestCreateWorkItem_ShadowItemNeedsExternalRef(t *testing.T) {
	t.Parallel()
	svc, ctx := newWorkItemService(t)

	_, err := svc.CreateWorkItem(ctx, "u1", &domain.WorkItem{
		TeamID:   "team-a",
		Title:    "Imported bug",
		Provider: domain.ProviderGitHub,
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	item, err := svc.CreateWorkItem(ctx, "u1", &domain.WorkItem{
		TeamID:      "team-a",
		Title:       "Imported bug",
		Provider:    domain.ProviderGitHub,
		ExternalRef: strPtr("octo/repo#41"),
	})
	require.NoError(t, err)
	require.True(t, item.Provider.IsShadow())
}

func TestCreateWorkItem_SprintMustBelongToTeam(t *testing.T) {
	t.Parallel()
	store := fixture(t)
	svc := NewWorkItemService(store, discardLogger())
	ctx := context.Background()

	// A sprint on a second team of the same account.
	_, err := store.CreateTeam(ctx, &domain.Team{ID: "team-b", AccountID: "acct-a", Name: "Mobile"})
	require.NoError(t, err)
	_, err = store.CreateSprint(ctx, &domain.Sprint{
		ID: "sb", TeamID: "team-b", AccountID: "acct-a", Name: "B1",
		StartDate: domain.NewDate(2026, time.March, 2),
		EndDate:   domain.NewDate(2026, time.March, 13),
		Status:    domain.SprintPlanned,
	})
	require.NoError(t, err)

	_, err = svc.CreateWorkItem(ctx, "u1", &domain.WorkItem{
		TeamID:   "team-a",
		SprintID: strPtr("sb"),
		Title:    "Cross-team item",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestBulkUpdateStatus_PartialSuccess(t *testing.T) {
	t.Parallel()
	svc, ctx := newWorkItemService(t)

	first, err := svc.CreateWorkItem(ctx, "u1", &domain.WorkItem{TeamID: "team-a", Title: "one"})
	require.NoError(t, err)
	second, err := svc.CreateWorkItem(ctx, "u1", &domain.WorkItem{TeamID: "team-a", Title: "two"})
	require.NoError(t, err)

	result, err := svc.BulkUpdateStatus(ctx, "u1", []ports.StatusUpdate{
		{WorkItemID: first.ID, Status: domain.WorkItemDone},
		{WorkItemID: "missing", Status: domain.WorkItemDone},
		{WorkItemID: second.ID, Status: domain.WorkItemInProgress},
	})
	require.NoError(t, err)
	require.Len(t, result.Updated, 2)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "missing", result.Errors[0].WorkItemID)
	require.ErrorIs(t, result.Errors[0].Err, domain.ErrNotFound)

	// The successful updates stuck despite the failure.
	got, err := svc.GetWorkItem(ctx, "u1", first.ID)
	require.NoError(t, err)
	require.Equal(t, domain.WorkItemDone, got.Status)
	require.NotNil(t, got.CompletedAt)
}

func TestWorkItem_OutsiderDenied(t *testing.T) {
	t.Parallel()
	svc, ctx := newWorkItemService(t)

	item, err := svc.CreateWorkItem(ctx, "u1", &domain.WorkItem{TeamID: "team-a", Title: "secret"})
	require.NoError(t, err)

	_, err = svc.GetWorkItem(ctx, "u2", item.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.UpdateWorkItem(ctx, "u2", item.ID, ports.WorkItemChange{Title: strPtr("hijacked")})
	require.ErrorIs(t, err, domain.ErrForbidden)
}
