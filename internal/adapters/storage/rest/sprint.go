package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sprintpulse/sprintpulse/internal/domain"
)

// sprintRow matches the sprints table schema. Date columns carry plain
// calendar dates; domain.Date marshals to and from "2006-01-02".
type sprintRow struct {
	ID        string      `json:"id"`
	TeamID    string      `json:"team_id"`
	AccountID string      `json:"account_id"`
	Name      string      `json:"name"`
	Goal      string      `json:"goal"`
	StartDate domain.Date `json:"start_date"`
	EndDate   domain.Date `json:"end_date"`
	Status    string      `json:"status"`
	CreatedAt string      `json:"created_at,omitempty"`
	UpdatedAt string      `json:"updated_at,omitempty"`
}

func (r *sprintRow) toDomain() domain.Sprint {
	return domain.Sprint{
		ID:        r.ID,
		TeamID:    r.TeamID,
		AccountID: r.AccountID,
		Name:      r.Name,
		Goal:      r.Goal,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Status:    domain.SprintStatus(r.Status),
		CreatedAt: parseTime(r.CreatedAt),
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

func (s *Store) CreateSprint(ctx context.Context, sprint *domain.Sprint) (*domain.Sprint, error) {
	row := sprintRow{
		ID:        sprint.ID,
		TeamID:    sprint.TeamID,
		AccountID: sprint.AccountID,
		Name:      sprint.Name,
		Goal:      sprint.Goal,
		StartDate: sprint.StartDate,
		EndDate:   sprint.EndDate,
		Status:    string(sprint.Status),
		CreatedAt: formatTime(sprint.CreatedAt),
		UpdatedAt: formatTime(sprint.UpdatedAt),
	}

	var rows []sprintRow
	if err := s.req.Do(ctx, http.MethodPost, "/sprints", http.StatusCreated, row, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sprint insert returned no rows: %w", domain.ErrUnavailable)
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (s *Store) GetSprint(ctx context.Context, id string) (*domain.Sprint, error) {
	var rows []sprintRow
	if err := s.req.Do(ctx, http.MethodGet, "/sprints?id="+eq(id), http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sprint %s: %w", id, domain.ErrNotFound)
	}
	sprint := rows[0].toDomain()
	return &sprint, nil
}

func (s *Store) UpdateSprint(ctx context.Context, sprint *domain.Sprint) (*domain.Sprint, error) {
	patch := map[string]any{
		"name":       sprint.Name,
		"goal":       sprint.Goal,
		"start_date": sprint.StartDate,
		"end_date":   sprint.EndDate,
		"status":     string(sprint.Status),
		"updated_at": formatTime(sprint.UpdatedAt),
	}

	var rows []sprintRow
	path := "/sprints?id=" + eq(sprint.ID)
	if err := s.req.Do(ctx, http.MethodPatch, path, http.StatusOK, patch, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sprint %s: %w", sprint.ID, domain.ErrNotFound)
	}
	updated := rows[0].toDomain()
	return &updated, nil
}

// DeleteSprint removes the sprint row. The work_items sprint_id foreign key
// is declared ON DELETE SET NULL, so items on the sprint go to the backlog;
// the application layer blocks direct deletes of non-empty sprints before
// this call is reached.
func (s *Store) DeleteSprint(ctx context.Context, id string) error {
	return s.req.Do(ctx, http.MethodDelete, "/sprints?id="+eq(id), http.StatusNoContent, nil, nil)
}

func (s *Store) ListSprints(ctx context.Context, teamID string) ([]domain.Sprint, error) {
	path := "/sprints?team_id=" + eq(teamID) + "&order=start_date.asc"

	var rows []sprintRow
	if err := s.req.Do(ctx, http.MethodGet, path, http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.Sprint, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (s *Store) CountWorkItemsBySprint(ctx context.Context, sprintID string) (int, error) {
	path := "/work_items?sprint_id=" + eq(sprintID) + "&select=id"

	var rows []struct {
		ID string `json:"id"`
	}
	if err := s.req.Do(ctx, http.MethodGet, path, http.StatusOK, nil, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
