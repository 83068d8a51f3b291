package ports

import (
	"context"

	"github.com/sprintpulse/sprintpulse/internal/domain"
)

// WorkItemFilter narrows work-item listings. Zero-value fields are ignored.
type WorkItemFilter struct {
	TeamID     string
	SprintID   string
	AssigneeID string
	Status     domain.WorkItemStatus
}

// Store is the storage collaborator port: row-level operations per entity
// plus one optional server-side atomic procedure. Implementations return
// domain.ErrNotFound for missing rows, *domain.ConflictError (carrying the
// violated-constraint identifier) for constraint rejections, and
// domain.ErrForbidden for storage-side permission failures.
//
// Individual calls are durable on return, but the store guarantees no
// cross-call atomicity: multi-row write sets are sequenced by the
// application layer's consistency coordinator unless they go through
// CreateSurveyWithQuestions.
type Store interface {
	// Accounts.
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	GetAccountBySlug(ctx context.Context, slug string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id string) error
	CreateAccountMembership(ctx context.Context, m *domain.AccountMembership) (*domain.AccountMembership, error)
	ListAccountMembershipsByUser(ctx context.Context, userID string) ([]domain.AccountMembership, error)
	ListAccountMembershipsByAccount(ctx context.Context, accountID string) ([]domain.AccountMembership, error)

	// Teams. Deletion is soft: the row persists with deleted_at set, and
	// soft-deleted teams are excluded from Get and List results.
	CreateTeam(ctx context.Context, team *domain.Team) (*domain.Team, error)
	GetTeam(ctx context.Context, id string) (*domain.Team, error)
	UpdateTeam(ctx context.Context, team *domain.Team) (*domain.Team, error)
	SoftDeleteTeam(ctx context.Context, id string) error
	ListTeams(ctx context.Context, accountID string) ([]domain.Team, error)
	CreateTeamMembership(ctx context.Context, m *domain.TeamMembership) (*domain.TeamMembership, error)
	ListTeamMembershipsByUser(ctx context.Context, userID string) ([]domain.TeamMembership, error)

	// Sprints.
	CreateSprint(ctx context.Context, sprint *domain.Sprint) (*domain.Sprint, error)
	GetSprint(ctx context.Context, id string) (*domain.Sprint, error)
	UpdateSprint(ctx context.Context, sprint *domain.Sprint) (*domain.Sprint, error)
	DeleteSprint(ctx context.Context, id string) error
	ListSprints(ctx context.Context, teamID string) ([]domain.Sprint, error)
	CountWorkItemsBySprint(ctx context.Context, sprintID string) (int, error)

	// Work items.
	CreateWorkItem(ctx context.Context, item *domain.WorkItem) (*domain.WorkItem, error)
	GetWorkItem(ctx context.Context, id string) (*domain.WorkItem, error)
	UpdateWorkItem(ctx context.Context, item *domain.WorkItem) (*domain.WorkItem, error)
	DeleteWorkItem(ctx context.Context, id string) error
	ListWorkItems(ctx context.Context, filter WorkItemFilter) ([]domain.WorkItem, error)

	// Surveys and questions.
	CreateSurvey(ctx context.Context, survey *domain.Survey) (*domain.Survey, error)
	GetSurvey(ctx context.Context, id string) (*domain.Survey, error)
	UpdateSurvey(ctx context.Context, survey *domain.Survey) (*domain.Survey, error)
	DeleteSurvey(ctx context.Context, id string) error
	ListSurveys(ctx context.Context, accountID string) ([]domain.Survey, error)
	CreateSurveyQuestions(ctx context.Context, questions []domain.SurveyQuestion) error

	// CreateSurveyWithQuestions runs the server-side atomic procedure:
	// either the survey row and every question row exist after a nil
	// return, or none do. The procedure runs with elevated rights and
	// re-verifies the caller's account membership internally, so the
	// acting user is part of the call. Backends without the procedure
	// return domain.ErrAtomicUnsupported without writing anything.
	CreateSurveyWithQuestions(ctx context.Context, actorID string, survey *domain.Survey, questions []domain.SurveyQuestion) (*domain.Survey, error)

	// Responses and answers. A response is written together with its
	// answers in one call; answer rows never exist without their response.
	CreateSurveyResponse(ctx context.Context, response *domain.SurveyResponse, answers []domain.SurveyAnswer) (*domain.SurveyResponse, error)
	GetSurveyResponse(ctx context.Context, id string) (*domain.SurveyResponse, error)
	DeleteSurveyResponse(ctx context.Context, id string) error
	ListSurveyResponses(ctx context.Context, surveyID, sprintID string) ([]domain.SurveyResponse, error)

	// Kudos.
	CreateKudos(ctx context.Context, kudos *domain.Kudos) (*domain.Kudos, error)
	GetKudos(ctx context.Context, id string) (*domain.Kudos, error)
	DeleteKudos(ctx context.Context, id string) error
	ListKudos(ctx context.Context, teamID string) ([]domain.Kudos, error)
}
