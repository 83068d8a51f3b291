// Package handlers provides HTTP request handlers for the service's API endpoints.
package handlers

import (
	"net/http"

	"github.com/sprintpulse/sprintpulse/internal/adapters/http/dto"
	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// AccountHandler handles HTTP requests for accounts and account
// memberships.
type AccountHandler struct {
	svc ports.AccountService
}

// NewAccountHandler creates a new AccountHandler with the given service port.
func NewAccountHandler(svc ports.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// GetAccount handles GET /api/v1/accounts/{id}.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	account, err := h.svc.GetAccount(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAccountResponse(account))
}

// UpdateAccount handles PATCH /api/v1/accounts/{id}.
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.svc.UpdateAccount(r.Context(), actorID, id, ports.AccountChange{
		Name:         req.Name,
		IsTestTenant: req.IsTestTenant,
	})
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAccountResponse(updated))
}

// DeleteAccount handles DELETE /api/v1/accounts/{id}.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.DeleteAccount(r.Context(), actorID, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// JoinAccount handles POST /api/v1/account-memberships. The membership is
// always created for the authenticated caller.
func (h *AccountHandler) JoinAccount(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.JoinAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	membership := &domain.AccountMembership{
		AccountID: req.AccountID,
		UserID:    actorID,
		Role:      domain.AccountRole(req.Role),
	}

	created, err := h.svc.JoinAccount(r.Context(), actorID, membership)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToAccountMembershipResponse(created))
}
