package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// workItemRow matches the work_items table schema.
type workItemRow struct {
	ID          string  `json:"id"`
	AccountID   string  `json:"account_id"`
	TeamID      string  `json:"team_id"`
	SprintID    *string `json:"sprint_id"`
	ProjectKey  *string `json:"project_key"`
	AssigneeID  *string `json:"assignee_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Type        string  `json:"type"`
	Provider    string  `json:"provider"`
	ExternalRef *string `json:"external_ref"`
	CompletedAt *string `json:"completed_at"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

func (r *workItemRow) toDomain() domain.WorkItem {
	return domain.WorkItem{
		ID:          r.ID,
		AccountID:   r.AccountID,
		TeamID:      r.TeamID,
		SprintID:    r.SprintID,
		ProjectKey:  r.ProjectKey,
		AssigneeID:  r.AssigneeID,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.WorkItemStatus(r.Status),
		Type:        domain.WorkItemType(r.Type),
		Provider:    domain.Provider(r.Provider),
		ExternalRef: r.ExternalRef,
		CompletedAt: parseTimePtr(r.CompletedAt),
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}

func toWorkItemRow(item *domain.WorkItem) workItemRow {
	return workItemRow{
		ID:          item.ID,
		AccountID:   item.AccountID,
		TeamID:      item.TeamID,
		SprintID:    item.SprintID,
		ProjectKey:  item.ProjectKey,
		AssigneeID:  item.AssigneeID,
		Title:       item.Title,
		Description: item.Description,
		Status:      string(item.Status),
		Type:        string(item.Type),
		Provider:    string(item.Provider),
		ExternalRef: item.ExternalRef,
		CompletedAt: formatTimePtr(item.CompletedAt),
		CreatedAt:   formatTime(item.CreatedAt),
		UpdatedAt:   formatTime(item.UpdatedAt),
	}
}

func (s *Store) CreateWorkItem(ctx context.Context, item *domain.WorkItem) (*domain.WorkItem, error) {
	var rows []workItemRow
	if err := s.req.Do(ctx, http.MethodPost, "/work_items", http.StatusCreated, toWorkItemRow(item), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("work item insert returned no rows: %w", domain.ErrUnavailable)
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (s *Store) GetWorkItem(ctx context.Context, id string) (*domain.WorkItem, error) {
	var rows []workItemRow
	if err := s.req.Do(ctx, http.MethodGet, "/work_items?id="+eq(id), http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("work item %s: %w", id, domain.ErrNotFound)
	}
	item := rows[0].toDomain()
	return &item, nil
}

// UpdateWorkItem replaces every mutable column, nullable ones included, so
// cleared sprint or assignee references reach the row-store as NULL.
func (s *Store) UpdateWorkItem(ctx context.Context, item *domain.WorkItem) (*domain.WorkItem, error) {
	patch := map[string]any{
		"sprint_id":    item.SprintID,
		"project_key":  item.ProjectKey,
		"assignee_id":  item.AssigneeID,
		"title":        item.Title,
		"description":  item.Description,
		"status":       string(item.Status),
		"type":         string(item.Type),
		"external_ref": item.ExternalRef,
		"completed_at": formatTimePtr(item.CompletedAt),
		"updated_at":   formatTime(item.UpdatedAt),
	}

	var rows []workItemRow
	path := "/work_items?id=" + eq(item.ID)
	if err := s.req.Do(ctx, http.MethodPatch, path, http.StatusOK, patch, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("work item %s: %w", item.ID, domain.ErrNotFound)
	}
	updated := rows[0].toDomain()
	return &updated, nil
}

func (s *Store) DeleteWorkItem(ctx context.Context, id string) error {
	return s.req.Do(ctx, http.MethodDelete, "/work_items?id="+eq(id), http.StatusNoContent, nil, nil)
}

func (s *Store) ListWorkItems(ctx context.Context, filter ports.WorkItemFilter) ([]domain.WorkItem, error) {
	var conds []string
	if filter.TeamID != "" {
		conds = append(conds, "team_id="+eq(filter.TeamID))
	}
	if filter.SprintID != "" {
		conds = append(conds, "sprint_id="+eq(filter.SprintID))
	}
	if filter.AssigneeID != "" {
		conds = append(conds, "assignee_id="+eq(filter.AssigneeID))
	}
	if filter.Status != "" {
		conds = append(conds, "status="+eq(string(filter.Status)))
	}
	conds = append(conds, "order=created_at.asc")

	var rows []workItemRow
	path := "/work_items?" + strings.Join(conds, "&")
	if err := s.req.Do(ctx, http.MethodGet, path, http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.WorkItem, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}
