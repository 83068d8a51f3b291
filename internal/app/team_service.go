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

// Compile-time check that TeamService implements ports.TeamService.
var _ ports.TeamService = (*TeamService)(nil)

// TeamService implements ports.TeamService. Team writes require the
// account owner or admin role; deletion is soft.
type TeamService struct {
	store  ports.Store
	logger *slog.Logger
	now    nowFunc
}

// NewTeamService creates a TeamService backed by the given store.
func NewTeamService(store ports.Store, logger *slog.Logger) *TeamService {
	return &TeamService{store: store, logger: logger, now: time.Now}
}

// CreateTeam creates the team row and the creator's lead membership.
//
// The two writes are not atomic and deliberately not compensated: a team
// without its creator's membership is independently valid, so when the
// membership insert fails the team is kept and the outcome is reported as
// a partial failure instead of rolling back.
func (s *TeamService) CreateTeam(ctx context.Context, actorID string, team *domain.Team) (*ports.TeamCreation, error) {
	fields := make(map[string]string)
	requireNonEmpty(fields, "account_id", team.AccountID)
	requireNonEmpty(fields, "name", team.Name)
	if err := validationErr(fields); err != nil {
		return nil, err
	}

	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbCreate, policy.Target{
		Kind:      policy.KindTeam,
		AccountID: team.AccountID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	team.ID = uuid.NewString()
	team.CreatedAt = now
	team.UpdatedAt = now
	team.DeletedAt = nil

	// The membership insert must still run if the caller goes away
	// after the team insert.
	ctx = context.WithoutCancel(ctx)

	created, err := s.store.CreateTeam(ctx, team)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create team",
			slog.String("operation", "CreateTeam"),
			slog.String("account_id", team.AccountID),
			slog.Any("error", err),
		)
		return nil, err
	}

	membership := &domain.TeamMembership{
		TeamID:    created.ID,
		UserID:    actorID,
		Role:      domain.TeamRoleLead,
		CreatedAt: now,
	}

	createdMembership, err := s.store.CreateTeamMembership(ctx, membership)
	if err != nil {
		s.logger.WarnContext(ctx, "team created but lead membership failed",
			slog.String("operation", "CreateTeam"),
			slog.String("team_id", created.ID),
			slog.Any("error", err),
		)
		return &ports.TeamCreation{
			Team: created,
			Partial: &domain.PartialFailureError{
				Succeeded: []domain.StepOutcome{{Step: "create team"}},
				Failed:    []domain.StepOutcome{{Step: "create lead membership", Err: err}},
			},
		}, nil
	}

	return &ports.TeamCreation{Team: created, LeadMembership: createdMembership}, nil
}

// GetTeam returns the team if the actor is a member of its account.
// Soft-deleted teams are not found.
func (s *TeamService) GetTeam(ctx context.Context, actorID, teamID string) (*domain.Team, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbRead, policy.Target{
		Kind:      policy.KindTeam,
		AccountID: team.AccountID,
		TeamID:    team.ID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	return team, nil
}

// UpdateTeam updates team metadata. Requires account owner or admin.
func (s *TeamService) UpdateTeam(ctx context.Context, actorID string, team *domain.Team) (*domain.Team, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetTeam(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbUpdate, policy.Target{
		Kind:      policy.KindTeam,
		AccountID: existing.AccountID,
		TeamID:    existing.ID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	fields := make(map[string]string)
	requireNonEmpty(fields, "name", team.Name)
	if err := validationErr(fields); err != nil {
		return nil, err
	}

	existing.Name = team.Name
	existing.Description = team.Description
	existing.UpdatedAt = s.now().UTC()

	return s.store.UpdateTeam(ctx, existing)
}

// DeleteTeam soft-deletes the team. The row persists with deleted_at set
// and disappears from reads. Requires account owner or admin.
func (s *TeamService) DeleteTeam(ctx context.Context, actorID, teamID string) error {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return err
	}

	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}

	decision := policy.Evaluate(actor, policy.VerbDelete, policy.Target{
		Kind:      policy.KindTeam,
		AccountID: team.AccountID,
		TeamID:    team.ID,
	})
	if err := decision.Err(); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "soft-deleting team",
		slog.String("operation", "DeleteTeam"),
		slog.String("team_id", teamID),
	)

	return s.store.SoftDeleteTeam(ctx, teamID)
}

// ListTeams returns the account's live teams for a member actor.
func (s *TeamService) ListTeams(ctx context.Context, actorID, accountID string) ([]domain.Team, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbRead, policy.Target{
		Kind:      policy.KindTeam,
		AccountID: accountID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	return s.store.ListTeams(ctx, accountID)
}

// JoinTeam inserts a team membership. The subject user must already be a
// member of the team's owning account.
func (s *TeamService) JoinTeam(ctx context.Context, actorID string, membership *domain.TeamMembership) (*domain.TeamMembership, error) {
	fields := make(map[string]string)
	requireNonEmpty(fields, "team_id", membership.TeamID)
	requireNonEmpty(fields, "user_id", membership.UserID)
	if !membership.Role.IsValid() {
		fields["role"] = "must be one of lead, contributor, stakeholder"
	}
	if err := validationErr(fields); err != nil {
		return nil, err
	}

	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	team, err := s.store.GetTeam(ctx, membership.TeamID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbCreate, policy.Target{
		Kind:        policy.KindTeamMembership,
		AccountID:   team.AccountID,
		TeamID:      team.ID,
		OwnerUserID: membership.UserID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	// The subject of the membership must belong to the owning account; a
	// team row must never reference a user outside its tenant.
	subjectAccounts, err := s.store.ListAccountMembershipsByUser(ctx, membership.UserID)
	if err != nil {
		return nil, err
	}
	inAccount := false
	for _, m := range subjectAccounts {
		if m.AccountID == team.AccountID {
			inAccount = true
			break
		}
	}
	if !inAccount {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"user_id": "user is not a member of the team's account",
		}}
	}

	membership.CreatedAt = s.now().UTC()
	return s.store.CreateTeamMembership(ctx, membership)
}
