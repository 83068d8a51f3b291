package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sprintpulse/sprintpulse/internal/domain"
)

// notDeleted filters out soft-deleted team rows.
const notDeleted = "&deleted_at=is.null"

// teamRow matches the teams table schema.
type teamRow struct {
	ID          string  `json:"id"`
	AccountID   string  `json:"account_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
	DeletedAt   *string `json:"deleted_at,omitempty"`
}

func (r *teamRow) toDomain() domain.Team {
	return domain.Team{
		ID:          r.ID,
		AccountID:   r.AccountID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
		DeletedAt:   parseTimePtr(r.DeletedAt),
	}
}

// teamMembershipRow matches the team_memberships table schema.
type teamMembershipRow struct {
	TeamID    string `json:"team_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

func (r *teamMembershipRow) toDomain() domain.TeamMembership {
	return domain.TeamMembership{
		TeamID:    r.TeamID,
		UserID:    r.UserID,
		Role:      domain.TeamRole(r.Role),
		CreatedAt: parseTime(r.CreatedAt),
	}
}

func (s *Store) CreateTeam(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	row := teamRow{
		ID:          team.ID,
		AccountID:   team.AccountID,
		Name:        team.Name,
		Description: team.Description,
		CreatedAt:   formatTime(team.CreatedAt),
		UpdatedAt:   formatTime(team.UpdatedAt),
	}

	var rows []teamRow
	if err := s.req.Do(ctx, http.MethodPost, "/teams", http.StatusCreated, row, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("team insert returned no rows: %w", domain.ErrUnavailable)
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (s *Store) GetTeam(ctx context.Context, id string) (*domain.Team, error) {
	path := "/teams?id=" + eq(id) + notDeleted

	var rows []teamRow
	if err := s.req.Do(ctx, http.MethodGet, path, http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("team %s: %w", id, domain.ErrNotFound)
	}
	team := rows[0].toDomain()
	return &team, nil
}

func (s *Store) UpdateTeam(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	patch := map[string]any{
		"name":        team.Name,
		"description": team.Description,
		"updated_at":  formatTime(team.UpdatedAt),
	}

	var rows []teamRow
	path := "/teams?id=" + eq(team.ID) + notDeleted
	if err := s.req.Do(ctx, http.MethodPatch, path, http.StatusOK, patch, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("team %s: %w", team.ID, domain.ErrNotFound)
	}
	updated := rows[0].toDomain()
	return &updated, nil
}

// SoftDeleteTeam stamps deleted_at on a live team row. The deleted_at filter
// in the path makes repeat deletes report not found instead of re-stamping.
func (s *Store) SoftDeleteTeam(ctx context.Context, id string) error {
	patch := map[string]any{"deleted_at": formatTime(time.Now())}

	var rows []teamRow
	path := "/teams?id=" + eq(id) + notDeleted
	if err := s.req.Do(ctx, http.MethodPatch, path, http.StatusOK, patch, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("team %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) ListTeams(ctx context.Context, accountID string) ([]domain.Team, error) {
	path := "/teams?account_id=" + eq(accountID) + notDeleted + "&order=created_at.asc"

	var rows []teamRow
	if err := s.req.Do(ctx, http.MethodGet, path, http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.Team, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (s *Store) CreateTeamMembership(ctx context.Context, m *domain.TeamMembership) (*domain.TeamMembership, error) {
	row := teamMembershipRow{
		TeamID:    m.TeamID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		CreatedAt: formatTime(m.CreatedAt),
	}

	var rows []teamMembershipRow
	if err := s.req.Do(ctx, http.MethodPost, "/team_memberships", http.StatusCreated, row, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("team membership insert returned no rows: %w", domain.ErrUnavailable)
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (s *Store) ListTeamMembershipsByUser(ctx context.Context, userID string) ([]domain.TeamMembership, error) {
	path := "/team_memberships?user_id=" + eq(userID) + "&order=team_id.asc"

	var rows []teamMembershipRow
	if err := s.req.Do(ctx, http.MethodGet, path, http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.TeamMembership, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}
