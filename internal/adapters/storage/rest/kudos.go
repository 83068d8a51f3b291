package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sprintpulse/sprintpulse/internal/domain"
)

// kudosRow matches the kudos table schema.
type kudosRow struct {
	ID          string  `json:"id"`
	AccountID   string  `json:"account_id"`
	TeamID      string  `json:"team_id"`
	SprintID    *string `json:"sprint_id"`
	SenderID    string  `json:"sender_id"`
	RecipientID string  `json:"recipient_id"`
	Message     string  `json:"message"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

func (r *kudosRow) toDomain() domain.Kudos {
	return domain.Kudos{
		ID:          r.ID,
		AccountID:   r.AccountID,
		TeamID:      r.TeamID,
		SprintID:    r.SprintID,
		SenderID:    r.SenderID,
		RecipientID: r.RecipientID,
		Message:     r.Message,
		CreatedAt:   parseTime(r.CreatedAt),
	}
}

func (s *Store) CreateKudos(ctx context.Context, kudos *domain.Kudos) (*domain.Kudos, error) {
	row := kudosRow{
		ID:          kudos.ID,
		AccountID:   kudos.AccountID,
		TeamID:      kudos.TeamID,
		SprintID:    kudos.SprintID,
		SenderID:    kudos.SenderID,
		RecipientID: kudos.RecipientID,
		Message:     kudos.Message,
		CreatedAt:   formatTime(kudos.CreatedAt),
	}

	var rows []kudosRow
	if err := s.req.Do(ctx, http.MethodPost, "/kudos", http.StatusCreated, row, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("kudos insert returned no rows: %w", domain.ErrUnavailable)
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (s *Store) GetKudos(ctx context.Context, id string) (*domain.Kudos, error) {
	var rows []kudosRow
	if err := s.req.Do(ctx, http.MethodGet, "/kudos?id="+eq(id), http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("kudos %s: %w", id, domain.ErrNotFound)
	}
	kudos := rows[0].toDomain()
	return &kudos, nil
}

func (s *Store) DeleteKudos(ctx context.Context, id string) error {
	return s.req.Do(ctx, http.MethodDelete, "/kudos?id="+eq(id), http.StatusNoContent, nil, nil)
}

func (s *Store) ListKudos(ctx context.Context, teamID string) ([]domain.Kudos, error) {
	path := "/kudos?team_id=" + eq(teamID) + "&order=created_at.asc"

	var rows []kudosRow
	if err := s.req.Do(ctx, http.MethodGet, path, http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.Kudos, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}
