// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sprintpulse/sprintpulse/internal/adapters/http/handlers"
)

// Handlers bundles the per-aggregate HTTP handlers for route registration.
type Handlers struct {
	Account  *handlers.AccountHandler
	Team     *handlers.TeamHandler
	Sprint   *handlers.SprintHandler
	WorkItem *handlers.WorkItemHandler
	Survey   *handlers.SurveyHandler
	Kudos    *handlers.KudosHandler
	Health   *handlers.HealthHandler
}

// NewRouter creates an HTTP handler with all application routes registered.
// Global middleware is applied in the order given; auth guards the /api/v1
// subtree only, leaving the health endpoints unauthenticated.
func NewRouter(
	h Handlers,
	auth func(http.Handler) http.Handler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", h.Health.Liveness)
	r.Get("/health/ready", h.Health.Readiness)

	// API v1 routes.
	r.Route("/api/v1", func(r chi.Router) {
		if auth != nil {
			r.Use(auth)
		}

		// Accounts and account memberships.
		r.Get("/accounts/{id}", h.Account.GetAccount)
		r.Patch("/accounts/{id}", h.Account.UpdateAccount)
		r.Delete("/accounts/{id}", h.Account.DeleteAccount)
		r.Post("/account-memberships", h.Account.JoinAccount)

		// Teams and team memberships.
		r.Get("/teams", h.Team.ListTeams)
		r.Post("/teams", h.Team.CreateTeam)
		r.Get("/teams/{id}", h.Team.GetTeam)
		r.Patch("/teams/{id}", h.Team.UpdateTeam)
		r.Delete("/teams/{id}", h.Team.DeleteTeam)
		r.Post("/team-memberships", h.Team.JoinTeam)

		// Sprints.
		r.Get("/sprints", h.Sprint.ListSprints)
		r.Post("/sprints", h.Sprint.CreateSprint)
		r.Get("/sprints/{id}", h.Sprint.GetSprint)
		r.Patch("/sprints/{id}", h.Sprint.UpdateSprint)
		r.Delete("/sprints/{id}", h.Sprint.DeleteSprint)

		// Work items, including the concurrent bulk status update.
		r.Get("/work-items", h.WorkItem.ListWorkItems)
		r.Post("/work-items", h.WorkItem.CreateWorkItem)
		r.Post("/work-items/bulk-status", h.WorkItem.BulkUpdateStatus)
		r.Get("/work-items/{id}", h.WorkItem.GetWorkItem)
		r.Patch("/work-items/{id}", h.WorkItem.UpdateWorkItem)
		r.Delete("/work-items/{id}", h.WorkItem.DeleteWorkItem)

		// Surveys and survey responses.
		r.Get("/surveys", h.Survey.ListSurveys)
		r.Post("/surveys", h.Survey.CreateSurvey)
		r.Get("/surveys/{id}", h.Survey.GetSurvey)
		r.Patch("/surveys/{id}", h.Survey.UpdateSurvey)
		r.Delete("/surveys/{id}", h.Survey.DeleteSurvey)
		r.Get("/survey-responses", h.Survey.ListResponses)
		r.Post("/survey-responses", h.Survey.SubmitResponse)
		r.Get("/survey-responses/{id}", h.Survey.GetResponse)
		r.Delete("/survey-responses/{id}", h.Survey.DeleteResponse)

		// Kudos.
		r.Get("/kudos", h.Kudos.ListKudos)
		r.Post("/kudos", h.Kudos.SendKudos)
		r.Get("/kudos/{id}", h.Kudos.GetKudos)
		r.Delete("/kudos/{id}", h.Kudos.DeleteKudos)
	})

	return r
}
