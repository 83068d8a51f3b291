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

// Compile-time check that KudosService implements ports.KudosService.
var _ ports.KudosService = (*KudosService)(nil)

// KudosService implements ports.KudosService. Kudos are immutable once
// sent; the only mutation is deletion by the sender.
type KudosService struct {
	store  ports.Store
	logger *slog.Logger
	now    nowFunc
}

// NewKudosService creates a KudosService backed by the given store.
func NewKudosService(store ports.Store, logger *slog.Logger) *KudosService {
	return &KudosService{store: store, logger: logger, now: time.Now}
}

// SendKudos records a recognition event. The sender is always the actor.
func (s *KudosService) SendKudos(ctx context.Context, actorID string, kudos *domain.Kudos) (*domain.Kudos, error) {
	fields := make(map[string]string)
	requireNonEmpty(fields, "team_id", kudos.TeamID)
	requireNonEmpty(fields, "recipient_id", kudos.RecipientID)
	requireNonEmpty(fields, "message", kudos.Message)
	if err := validationErr(fields); err != nil {
		return nil, err
	}

	team, err := s.store.GetTeam(ctx, kudos.TeamID)
	if err != nil {
		return nil, err
	}

	kudos.SenderID = actorID

	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbCreate, policy.Target{
		Kind:        policy.KindKudos,
		AccountID:   team.AccountID,
		TeamID:      team.ID,
		OwnerUserID: kudos.SenderID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	if kudos.SprintID != nil {
		sprint, err := s.store.GetSprint(ctx, *kudos.SprintID)
		if err != nil {
			return nil, err
		}
		if sprint.TeamID != kudos.TeamID {
			return nil, &domain.ValidationError{Fields: map[string]string{
				"sprint_id": "sprint belongs to a different team",
			}}
		}
	}

	kudos.ID = uuid.NewString()
	kudos.AccountID = team.AccountID
	kudos.CreatedAt = s.now().UTC()

	created, err := s.store.CreateKudos(ctx, kudos)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create kudos",
			slog.String("operation", "SendKudos"),
			slog.String("team_id", kudos.TeamID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// GetKudos returns the kudos for a member of its account.
func (s *KudosService) GetKudos(ctx context.Context, actorID, kudosID string) (*domain.Kudos, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	kudos, err := s.store.GetKudos(ctx, kudosID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbRead, policy.Target{
		Kind:      policy.KindKudos,
		AccountID: kudos.AccountID,
		TeamID:    kudos.TeamID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	return kudos, nil
}

// DeleteKudos removes a kudos. Sender only.
func (s *KudosService) DeleteKudos(ctx context.Context, actorID, kudosID string) error {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return err
	}

	kudos, err := s.store.GetKudos(ctx, kudosID)
	if err != nil {
		return err
	}

	decision := policy.Evaluate(actor, policy.VerbDelete, policy.Target{
		Kind:        policy.KindKudos,
		AccountID:   kudos.AccountID,
		TeamID:      kudos.TeamID,
		OwnerUserID: kudos.SenderID,
	})
	if err := decision.Err(); err != nil {
		return err
	}

	return s.store.DeleteKudos(ctx, kudosID)
}

// ListKudos returns the team's kudos for a member of its account.
func (s *KudosService) ListKudos(ctx context.Context, actorID, teamID string) ([]domain.Kudos, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbRead, policy.Target{
		Kind:      policy.KindKudos,
		AccountID: team.AccountID,
		TeamID:    team.ID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	return s.store.ListKudos(ctx, teamID)
}
