package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/policy"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// Compile-time check that SprintService implements ports.SprintService.
var _ ports.SprintService = (*SprintService)(nil)

// SprintService implements ports.SprintService. Sprint writes are open to
// any account member; the end-not-before-start invariant is enforced on
// create and on partial update, and deletion is refused while work items
// still reference the sprint.
type SprintService struct {
	store  ports.Store
	logger *slog.Logger
	now    nowFunc
}

// NewSprintService creates a SprintService backed by the given store.
func NewSprintService(store ports.Store, logger *slog.Logger) *SprintService {
	return &SprintService{store: store, logger: logger, now: time.Now}
}

// CreateSprint creates a sprint on a team. The account is denormalized
// from the owning team so tenant checks never need a join.
func (s *SprintService) CreateSprint(ctx context.Context, actorID string, sprint *domain.Sprint) (*domain.Sprint, error) {
	fields := make(map[string]string)
	requireNonEmpty(fields, "team_id", sprint.TeamID)
	requireNonEmpty(fields, "name", sprint.Name)
	if sprint.StartDate.IsZero() {
		fields["start_date"] = "is required"
	}
	if sprint.EndDate.IsZero() {
		fields["end_date"] = "is required"
	}
	if sprint.Status == "" {
		sprint.Status = domain.SprintPlanned
	}
	if !sprint.Status.IsValid() {
		fields["status"] = "must be one of planned, active, completed"
	}
	if err := validationErr(fields); err != nil {
		return nil, err
	}

	team, err := s.store.GetTeam(ctx, sprint.TeamID)
	if err != nil {
		return nil, err
	}

	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbCreate, policy.Target{
		Kind:      policy.KindSprint,
		AccountID: team.AccountID,
		TeamID:    team.ID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	// Cross-field invariants run after the access decision so an
	// unauthorized caller learns nothing past the deny.
	if verr := policy.SprintDates(nil, &sprint.StartDate, &sprint.EndDate); verr != nil {
		return nil, verr
	}

	now := s.now().UTC()
	sprint.ID = uuid.NewString()
	sprint.AccountID = team.AccountID
	sprint.CreatedAt = now
	sprint.UpdatedAt = now

	created, err := s.store.CreateSprint(ctx, sprint)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create sprint",
			slog.String("operation", "CreateSprint"),
			slog.String("team_id", sprint.TeamID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// GetSprint returns the sprint for a member of its account.
func (s *SprintService) GetSprint(ctx context.Context, actorID, sprintID string) (*domain.Sprint, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	sprint, err := s.store.GetSprint(ctx, sprintID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbRead, policy.Target{
		Kind:      policy.KindSprint,
		AccountID: sprint.AccountID,
		TeamID:    sprint.TeamID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	return sprint, nil
}

// UpdateSprint applies a partial update. When only one date is supplied the
// invariant is checked against the stored value of the other, so a single
// field change can never produce an inverted range.
func (s *SprintService) UpdateSprint(ctx context.Context, actorID, sprintID string, change ports.SprintChange) (*domain.Sprint, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	sprint, err := s.store.GetSprint(ctx, sprintID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbUpdate, policy.Target{
		Kind:      policy.KindSprint,
		AccountID: sprint.AccountID,
		TeamID:    sprint.TeamID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	if verr := policy.SprintDates(sprint, change.StartDate, change.EndDate); verr != nil {
		return nil, verr
	}

	if change.Name != nil {
		fields := make(map[string]string)
		requireNonEmpty(fields, "name", *change.Name)
		if err := validationErr(fields); err != nil {
			return nil, err
		}
		sprint.Name = *change.Name
	}
	if change.Goal != nil {
		sprint.Goal = *change.Goal
	}
	if change.StartDate != nil {
		sprint.StartDate = *change.StartDate
	}
	if change.EndDate != nil {
		sprint.EndDate = *change.EndDate
	}
	if change.Status != nil {
		if !change.Status.IsValid() {
			return nil, &domain.ValidationError{Fields: map[string]string{
				"status": "must be one of planned, active, completed",
			}}
		}
		sprint.Status = *change.Status
	}
	sprint.UpdatedAt = s.now().UTC()

	return s.store.UpdateSprint(ctx, sprint)
}

// DeleteSprint deletes the sprint unless work items still reference it, in
// which case the deletion is refused with a conflict naming the blocking
// relationship. Reassign or clear the items first.
func (s *SprintService) DeleteSprint(ctx context.Context, actorID, sprintID string) error {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return err
	}

	sprint, err := s.store.GetSprint(ctx, sprintID)
	if err != nil {
		return err
	}

	decision := policy.Evaluate(actor, policy.VerbDelete, policy.Target{
		Kind:      policy.KindSprint,
		AccountID: sprint.AccountID,
		TeamID:    sprint.TeamID,
	})
	if err := decision.Err(); err != nil {
		return err
	}

	itemCount, err := s.store.CountWorkItemsBySprint(ctx, sprintID)
	if err != nil {
		return err
	}

	resolution := policy.ResolveDeletion(policy.KindSprint, map[string]int{
		"work_items": itemCount,
	})
	if err := resolution.Err(); err != nil {
		s.logger.InfoContext(ctx, "sprint deletion blocked",
			slog.String("operation", "DeleteSprint"),
			slog.String("sprint_id", sprintID),
			slog.Int("work_items", itemCount),
		)
		return err
	}

	return s.store.DeleteSprint(ctx, sprintID)
}

// ListSprints returns the team's sprints for a member of its account.
func (s *SprintService) ListSprints(ctx context.Context, actorID, teamID string) ([]domain.Sprint, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbRead, policy.Target{
		Kind:      policy.KindSprint,
		AccountID: team.AccountID,
		TeamID:    team.ID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	return s.store.ListSprints(ctx, teamID)
}
