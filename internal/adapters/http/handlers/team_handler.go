package handlers

import (
	"net/http"

	"github.com/sprintpulse/sprintpulse/internal/adapters/http/dto"
	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// TeamHandler handles HTTP requests for teams and team memberships.
type TeamHandler struct {
	svc ports.TeamService
}

// NewTeamHandler creates a new TeamHandler with the given service port.
func NewTeamHandler(svc ports.TeamService) *TeamHandler {
	return &TeamHandler{svc: svc}
}

// CreateTeam handles POST /api/v1/teams. The creator's lead membership is
// created alongside the team; if the membership insert fails the team is
// kept and the failure is reported in the response body.
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.CreateTeamRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	team := &domain.Team{
		AccountID:   req.AccountID,
		Name:        req.Name,
		Description: req.Description,
	}

	creation, err := h.svc.CreateTeam(r.Context(), actorID, team)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToTeamCreationResponse(creation))
}

// GetTeam handles GET /api/v1/teams/{id}.
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	team, err := h.svc.GetTeam(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTeamResponse(team))
}

// UpdateTeam handles PATCH /api/v1/teams/{id}. Absent fields keep their
// current values.
func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateTeamRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	team, err := h.svc.GetTeam(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}

	updated, err := h.svc.UpdateTeam(r.Context(), actorID, team)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTeamResponse(updated))
}

// DeleteTeam handles DELETE /api/v1/teams/{id}. Teams are soft-deleted.
func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.DeleteTeam(r.Context(), actorID, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListTeams handles GET /api/v1/teams?account_id={id}.
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		dto.WriteErrorResponse(w, r, &domain.ValidationError{
			Fields: map[string]string{"account_id": "is required"},
		})
		return
	}

	teams, err := h.svc.ListTeams(r.Context(), actorID, accountID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTeamListResponse(teams))
}

// JoinTeam handles POST /api/v1/team-memberships.
func (h *TeamHandler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.JoinTeamRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	membership := &domain.TeamMembership{
		TeamID: req.TeamID,
		UserID: req.UserID,
		Role:   domain.TeamRole(req.Role),
	}

	created, err := h.svc.JoinTeam(r.Context(), actorID, membership)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToTeamMembershipResponse(created))
}
