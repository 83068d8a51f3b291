package handlers

import (
	"net/http"

	"github.com/sprintpulse/sprintpulse/internal/adapters/http/dto"
	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// SprintHandler handles HTTP requests for sprints.
type SprintHandler struct {
	svc ports.SprintService
}

// NewSprintHandler creates a new SprintHandler with the given service port.
func NewSprintHandler(svc ports.SprintService) *SprintHandler {
	return &SprintHandler{svc: svc}
}

// CreateSprint handles POST /api/v1/sprints.
func (h *SprintHandler) CreateSprint(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.CreateSprintRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// Dates already validated by the DTO.
	start, _ := domain.ParseDate(req.StartDate)
	end, _ := domain.ParseDate(req.EndDate)

	sprint := &domain.Sprint{
		TeamID:    req.TeamID,
		Name:      req.Name,
		Goal:      req.Goal,
		StartDate: start,
		EndDate:   end,
		Status:    domain.SprintPlanned,
	}
	if req.Status != "" {
		sprint.Status = domain.SprintStatus(req.Status)
	}

	created, err := h.svc.CreateSprint(r.Context(), actorID, sprint)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToSprintResponse(created))
}

// GetSprint handles GET /api/v1/sprints/{id}.
func (h *SprintHandler) GetSprint(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	sprint, err := h.svc.GetSprint(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSprintResponse(sprint))
}

// UpdateSprint handles PATCH /api/v1/sprints/{id}.
func (h *SprintHandler) UpdateSprint(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateSprintRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	change := ports.SprintChange{
		Name: req.Name,
		Goal: req.Goal,
	}
	if req.StartDate != nil {
		start, _ := domain.ParseDate(*req.StartDate)
		change.StartDate = &start
	}
	if req.EndDate != nil {
		end, _ := domain.ParseDate(*req.EndDate)
		change.EndDate = &end
	}
	if req.Status != nil {
		status := domain.SprintStatus(*req.Status)
		change.Status = &status
	}

	updated, err := h.svc.UpdateSprint(r.Context(), actorID, id, change)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSprintResponse(updated))
}

// DeleteSprint handles DELETE /api/v1/sprints/{id}. Deletion is refused
// with 409 while work items still reference the sprint.
func (h *SprintHandler) DeleteSprint(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.DeleteSprint(r.Context(), actorID, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSprints handles GET /api/v1/sprints?team_id={id}.
func (h *SprintHandler) ListSprints(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	teamID := r.URL.Query().Get("team_id")
	if teamID == "" {
		dto.WriteErrorResponse(w, r, &domain.ValidationError{
			Fields: map[string]string{"team_id": "is required"},
		})
		return
	}

	sprints, err := h.svc.ListSprints(r.Context(), actorID, teamID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSprintListResponse(sprints))
}
