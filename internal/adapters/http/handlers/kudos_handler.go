package handlers

import (
	"net/http"

	"github.com/sprintpulse/sprintpulse/internal/adapters/http/dto"
	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// KudosHandler handles HTTP requests for recognition events.
type KudosHandler struct {
	svc ports.KudosService
}

// NewKudosHandler creates a new KudosHandler with the given service port.
func NewKudosHandler(svc ports.KudosService) *KudosHandler {
	return &KudosHandler{svc: svc}
}

// SendKudos handles POST /api/v1/kudos. The sender is always the
// authenticated caller.
func (h *KudosHandler) SendKudos(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.CreateKudosRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	kudos := &domain.Kudos{
		TeamID:      req.TeamID,
		SprintID:    req.SprintID,
		SenderID:    actorID,
		RecipientID: req.RecipientID,
		Message:     req.Message,
	}

	created, err := h.svc.SendKudos(r.Context(), actorID, kudos)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToKudosResponse(created))
}

// GetKudos handles GET /api/v1/kudos/{id}.
func (h *KudosHandler) GetKudos(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	kudos, err := h.svc.GetKudos(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToKudosResponse(kudos))
}

// DeleteKudos handles DELETE /api/v1/kudos/{id}. Only the sender may
// delete.
func (h *KudosHandler) DeleteKudos(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.DeleteKudos(r.Context(), actorID, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListKudos handles GET /api/v1/kudos?team_id={id}.
func (h *KudosHandler) ListKudos(w http.ResponseWriter, r *http.Request) {
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

	kudos, err := h.svc.ListKudos(r.Context(), actorID, teamID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToKudosListResponse(kudos))
}
