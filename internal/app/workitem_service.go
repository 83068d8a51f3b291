package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sprintpulse/sprintpulse/internal/app/fanout"
	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/policy"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// Compile-time check that WorkItemService implements ports.WorkItemService.
var _ ports.WorkItemService = (*WorkItemService)(nil)

// bulkStatusWorkers bounds concurrency for bulk status updates.
const bulkStatusWorkers = 8

// WorkItemService implements ports.WorkItemService. Work-item writes are
// open to any account member; the completed_at stamp is derived from
// status transitions and never accepted from callers.
type WorkItemService struct {
	store  ports.Store
	logger *slog.Logger
	now    nowFunc
}

// NewWorkItemService creates a WorkItemService backed by the given store.
func NewWorkItemService(store ports.Store, logger *slog.Logger) *WorkItemService {
	return &WorkItemService{store: store, logger: logger, now: time.Now}
}

func (s *WorkItemService) validateNew(item *domain.WorkItem) error {
	fields := make(map[string]string)
	requireNonEmpty(fields, "team_id", item.TeamID)
	requireNonEmpty(fields, "title", item.Title)
	if item.Status == "" {
		item.Status = domain.WorkItemTodo
	}
	if !item.Status.IsValid() {
		fields["status"] = "must be one of todo, in_progress, review, done"
	}
	if item.Type == "" {
		item.Type = domain.WorkItemTask
	}
	if !item.Type.IsValid() {
		fields["type"] = "must be one of story, bug, task, chore"
	}
	if item.Provider == "" {
		item.Provider = domain.ProviderNative
	}
	if !item.Provider.IsValid() {
		fields["provider"] = "must be one of native, github, jira"
	}
	if item.Provider.IsShadow() && item.ExternalRef == nil {
		fields["external_ref"] = "is required for synced items"
	}
	return validationErr(fields)
}

// CreateWorkItem creates a work item on a team, optionally scoped to a
// sprint of the same team. An item created directly in done status gets
// its completion stamp derived at creation time.
func (s *WorkItemService) CreateWorkItem(ctx context.Context, actorID string, item *domain.WorkItem) (*domain.WorkItem, error) {
	if err := s.validateNew(item); err != nil {
		return nil, err
	}

	team, err := s.store.GetTeam(ctx, item.TeamID)
	if err != nil {
		return nil, err
	}

	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbCreate, policy.Target{
		Kind:      policy.KindWorkItem,
		AccountID: team.AccountID,
		TeamID:    team.ID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	if item.SprintID != nil {
		sprint, err := s.store.GetSprint(ctx, *item.SprintID)
		if err != nil {
			return nil, err
		}
		if sprint.TeamID != item.TeamID {
			return nil, &domain.ValidationError{Fields: map[string]string{
				"sprint_id": "sprint belongs to a different team",
			}}
		}
	}

	now := s.now().UTC()
	item.ID = uuid.NewString()
	item.AccountID = team.AccountID
	item.CompletedAt = policy.DeriveWorkItemCompletion(domain.WorkItemTodo, item.Status, nil, now)
	item.CreatedAt = now
	item.UpdatedAt = now

	created, err := s.store.CreateWorkItem(ctx, item)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create work item",
			slog.String("operation", "CreateWorkItem"),
			slog.String("team_id", item.TeamID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// GetWorkItem returns the work item for a member of its account.
func (s *WorkItemService) GetWorkItem(ctx context.Context, actorID, itemID string) (*domain.WorkItem, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	return s.getAuthorized(ctx, actor, itemID)
}

func (s *WorkItemService) getAuthorized(ctx context.Context, actor policy.Actor, itemID string) (*domain.WorkItem, error) {
	item, err := s.store.GetWorkItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbRead, policy.Target{
		Kind:      policy.KindWorkItem,
		AccountID: item.AccountID,
		TeamID:    item.TeamID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateWorkItem applies a partial update. On a status change the
// completion stamp is derived from the transition, discarding whatever the
// caller may have supplied: entering done stamps it, leaving done clears
// it, and anything else preserves it.
func (s *WorkItemService) UpdateWorkItem(ctx context.Context, actorID, itemID string, change ports.WorkItemChange) (*domain.WorkItem, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	item, err := s.store.GetWorkItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbUpdate, policy.Target{
		Kind:      policy.KindWorkItem,
		AccountID: item.AccountID,
		TeamID:    item.TeamID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	if err := s.applyChange(ctx, item, change); err != nil {
		return nil, err
	}
	item.UpdatedAt = s.now().UTC()

	return s.store.UpdateWorkItem(ctx, item)
}

func (s *WorkItemService) applyChange(ctx context.Context, item *domain.WorkItem, change ports.WorkItemChange) error {
	if change.Title != nil {
		if *change.Title == "" {
			return &domain.ValidationError{Fields: map[string]string{"title": "is required"}}
		}
		item.Title = *change.Title
	}
	if change.Description != nil {
		item.Description = *change.Description
	}
	if change.Type != nil {
		if !change.Type.IsValid() {
			return &domain.ValidationError{Fields: map[string]string{
				"type": "must be one of story, bug, task, chore",
			}}
		}
		item.Type = *change.Type
	}
	if change.ClearAssignee {
		item.AssigneeID = nil
	} else if change.AssigneeID != nil {
		item.AssigneeID = change.AssigneeID
	}
	if change.ClearSprint {
		item.SprintID = nil
	} else if change.SprintID != nil {
		sprint, err := s.store.GetSprint(ctx, *change.SprintID)
		if err != nil {
			return err
		}
		if sprint.TeamID != item.TeamID {
			return &domain.ValidationError{Fields: map[string]string{
				"sprint_id": "sprint belongs to a different team",
			}}
		}
		item.SprintID = change.SprintID
	}
	if change.Status != nil {
		if !change.Status.IsValid() {
			return &domain.ValidationError{Fields: map[string]string{
				"status": "must be one of todo, in_progress, review, done",
			}}
		}
		item.CompletedAt = policy.DeriveWorkItemCompletion(item.Status, *change.Status, item.CompletedAt, s.now().UTC())
		item.Status = *change.Status
	}
	return nil
}

// DeleteWorkItem hard-deletes the work item.
func (s *WorkItemService) DeleteWorkItem(ctx context.Context, actorID, itemID string) error {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return err
	}

	item, err := s.store.GetWorkItem(ctx, itemID)
	if err != nil {
		return err
	}

	decision := policy.Evaluate(actor, policy.VerbDelete, policy.Target{
		Kind:      policy.KindWorkItem,
		AccountID: item.AccountID,
		TeamID:    item.TeamID,
	})
	if err := decision.Err(); err != nil {
		return err
	}

	return s.store.DeleteWorkItem(ctx, itemID)
}

// ListWorkItems returns work items matching the filter. The filter must
// scope to a team the actor's account membership covers.
func (s *WorkItemService) ListWorkItems(ctx context.Context, actorID string, filter ports.WorkItemFilter) ([]domain.WorkItem, error) {
	if filter.TeamID == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"team_id": "is required",
		}}
	}

	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	team, err := s.store.GetTeam(ctx, filter.TeamID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbRead, policy.Target{
		Kind:      policy.KindWorkItem,
		AccountID: team.AccountID,
		TeamID:    team.ID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	return s.store.ListWorkItems(ctx, filter)
}

// BulkUpdateStatus updates multiple items' statuses concurrently. Each
// update is authorized, derived, and written independently; one item's
// failure never rolls back another's success. The actor's membership facts
// are loaded once and shared across the fan-out.
func (s *WorkItemService) BulkUpdateStatus(ctx context.Context, actorID string, updates []ports.StatusUpdate) (*ports.BulkStatusResult, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	results := fanout.Run(ctx, bulkStatusWorkers, updates,
		func(ctx context.Context, u ports.StatusUpdate) (*domain.WorkItem, error) {
			if !u.Status.IsValid() {
				return nil, &domain.ValidationError{Fields: map[string]string{
					"status": "must be one of todo, in_progress, review, done",
				}}
			}

			item, err := s.getAuthorized(ctx, actor, u.WorkItemID)
			if err != nil {
				return nil, err
			}

			decision := policy.Evaluate(actor, policy.VerbUpdate, policy.Target{
				Kind:      policy.KindWorkItem,
				AccountID: item.AccountID,
				TeamID:    item.TeamID,
			})
			if err := decision.Err(); err != nil {
				return nil, err
			}

			item.CompletedAt = policy.DeriveWorkItemCompletion(item.Status, u.Status, item.CompletedAt, s.now().UTC())
			item.Status = u.Status
			item.UpdatedAt = s.now().UTC()

			return s.store.UpdateWorkItem(ctx, item)
		})

	out := &ports.BulkStatusResult{}
	for i, r := range results {
		if r.Err != nil {
			out.Errors = append(out.Errors, ports.BulkStatusError{
				WorkItemID: updates[i].WorkItemID,
				Err:        r.Err,
			})
			continue
		}
		out.Updated = append(out.Updated, *r.Value)
	}

	if len(out.Errors) > 0 {
		s.logger.WarnContext(ctx, "bulk status update partially failed",
			slog.String("operation", "BulkUpdateStatus"),
			slog.Int("updated", len(out.Updated)),
			slog.Int("failed", len(out.Errors)),
		)
	}

	return out, nil
}
