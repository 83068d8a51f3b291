package handlers

import (
	"net/http"

	"github.com/sprintpulse/sprintpulse/internal/adapters/http/dto"
	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// WorkItemHandler handles HTTP requests for work items, including the
// concurrent bulk status update.
type WorkItemHandler struct {
	svc ports.WorkItemService
}

// NewWorkItemHandler creates a new WorkItemHandler with the given service port.
func NewWorkItemHandler(svc ports.WorkItemService) *WorkItemHandler {
	return &WorkItemHandler{svc: svc}
}

// CreateWorkItem handles POST /api/v1/work-items.
func (h *WorkItemHandler) CreateWorkItem(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.CreateWorkItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item := &domain.WorkItem{
		TeamID:      req.TeamID,
		SprintID:    req.SprintID,
		ProjectKey:  req.ProjectKey,
		AssigneeID:  req.AssigneeID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.WorkItemTodo,
		Type:        domain.WorkItemTask,
		Provider:    domain.ProviderNative,
		ExternalRef: req.ExternalRef,
	}
	if req.Status != "" {
		item.Status = domain.WorkItemStatus(req.Status)
	}
	if req.Type != "" {
		item.Type = domain.WorkItemType(req.Type)
	}
	if req.Provider != "" {
		item.Provider = domain.Provider(req.Provider)
	}

	created, err := h.svc.CreateWorkItem(r.Context(), actorID, item)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToWorkItemResponse(created))
}

// GetWorkItem handles GET /api/v1/work-items/{id}.
func (h *WorkItemHandler) GetWorkItem(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	item, err := h.svc.GetWorkItem(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToWorkItemResponse(item))
}

// UpdateWorkItem handles PATCH /api/v1/work-items/{id}.
func (h *WorkItemHandler) UpdateWorkItem(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateWorkItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	change := ports.WorkItemChange{
		Title:         req.Title,
		Description:   req.Description,
		AssigneeID:    req.AssigneeID,
		SprintID:      req.SprintID,
		ClearSprint:   req.ClearSprint,
		ClearAssignee: req.ClearAssignee,
	}
	if req.Status != nil {
		status := domain.WorkItemStatus(*req.Status)
		change.Status = &status
	}
	if req.Type != nil {
		typ := domain.WorkItemType(*req.Type)
		change.Type = &typ
	}

	updated, err := h.svc.UpdateWorkItem(r.Context(), actorID, id, change)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToWorkItemResponse(updated))
}

// DeleteWorkItem handles DELETE /api/v1/work-items/{id}.
func (h *WorkItemHandler) DeleteWorkItem(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.DeleteWorkItem(r.Context(), actorID, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListWorkItems handles GET /api/v1/work-items. Supported query filters:
// team_id, sprint_id, assignee_id, status.
func (h *WorkItemHandler) ListWorkItems(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := ports.WorkItemFilter{
		TeamID:     q.Get("team_id"),
		SprintID:   q.Get("sprint_id"),
		AssigneeID: q.Get("assignee_id"),
	}
	if raw := q.Get("status"); raw != "" {
		status := domain.WorkItemStatus(raw)
		if !status.IsValid() {
			dto.WriteErrorResponse(w, r, &domain.ValidationError{
				Fields: map[string]string{"status": "invalid: " + `"` + raw + `"`},
			})
			return
		}
		filter.Status = status
	}

	items, err := h.svc.ListWorkItems(r.Context(), actorID, filter)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToWorkItemListResponse(items))
}

// BulkUpdateStatus handles POST /api/v1/work-items/bulk-status. Updates
// run concurrently with partial success semantics; per-item failures are
// reported in the response body alongside the successes.
func (h *WorkItemHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.BulkStatusUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updates := make([]ports.StatusUpdate, len(req.Updates))
	for i, u := range req.Updates {
		updates[i] = ports.StatusUpdate{
			WorkItemID: u.WorkItemID,
			Status:     domain.WorkItemStatus(u.Status),
		}
	}

	result, err := h.svc.BulkUpdateStatus(r.Context(), actorID, updates)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBulkStatusUpdateResponse(result))
}
