package ports

import (
	"context"

	"github.com/sprintpulse/sprintpulse/internal/domain"
)

// AccountChange is a partial update to account metadata. Nil fields are
// left unchanged.
type AccountChange struct {
	Name         *string
	IsTestTenant *bool
}

// AccountService manages accounts and account memberships.
type AccountService interface {
	// GetAccount returns the account if the actor is a member of it.
	GetAccount(ctx context.Context, actorID, accountID string) (*domain.Account, error)

	// UpdateAccount applies a partial update. A true→false change of
	// IsTestTenant is rejected with domain.ErrValidation (the flag is
	// monotonic).
	UpdateAccount(ctx context.Context, actorID, accountID string, change AccountChange) (*domain.Account, error)

	// DeleteAccount removes the account and cascades to all owned
	// entities.
	DeleteAccount(ctx context.Context, actorID, accountID string) error

	// JoinAccount inserts an account membership for the actor themself.
	// Inserting for another user is denied.
	JoinAccount(ctx context.Context, actorID string, membership *domain.AccountMembership) (*domain.AccountMembership, error)
}

// TeamCreation is the outcome of creating a team together with the
// creator's lead membership. Partial is non-nil when the team row landed
// but the membership insert failed; the team is kept (it is independently
// valid) and the secondary failure is reported rather than rolled back.
type TeamCreation struct {
	Team           *domain.Team
	LeadMembership *domain.TeamMembership
	Partial        *domain.PartialFailureError
}

// TeamService manages teams and team memberships.
type TeamService interface {
	// CreateTeam creates a team and the creator's lead membership using
	// accept-and-report semantics (see TeamCreation). Requires account
	// owner or admin.
	CreateTeam(ctx context.Context, actorID string, team *domain.Team) (*TeamCreation, error)

	GetTeam(ctx context.Context, actorID, teamID string) (*domain.Team, error)
	UpdateTeam(ctx context.Context, actorID string, team *domain.Team) (*domain.Team, error)

	// DeleteTeam soft-deletes the team; rows persist with deleted_at set.
	DeleteTeam(ctx context.Context, actorID, teamID string) error

	ListTeams(ctx context.Context, actorID, accountID string) ([]domain.Team, error)

	// JoinTeam inserts a team membership for a user already in the
	// owning account.
	JoinTeam(ctx context.Context, actorID string, membership *domain.TeamMembership) (*domain.TeamMembership, error)
}

// SprintChange is a partial update to a sprint. Nil fields are left
// unchanged; date fields are cross-checked against the existing row when
// only one side is supplied.
type SprintChange struct {
	Name      *string
	Goal      *string
	StartDate *domain.Date
	EndDate   *domain.Date
	Status    *domain.SprintStatus
}

// SprintService manages sprints.
type SprintService interface {
	CreateSprint(ctx context.Context, actorID string, sprint *domain.Sprint) (*domain.Sprint, error)
	GetSprint(ctx context.Context, actorID, sprintID string) (*domain.Sprint, error)
	UpdateSprint(ctx context.Context, actorID, sprintID string, change SprintChange) (*domain.Sprint, error)

	// DeleteSprint refuses with domain.ErrConflict while work items still
	// reference the sprint, naming "work_items" as the blocking
	// relationship.
	DeleteSprint(ctx context.Context, actorID, sprintID string) error

	ListSprints(ctx context.Context, actorID, teamID string) ([]domain.Sprint, error)
}

// WorkItemChange is a partial update to a work item. Nil fields are left
// unchanged. A caller-supplied completed_at never appears here: the stamp
// is derived from status transitions.
type WorkItemChange struct {
	Title       *string
	Description *string
	Status      *domain.WorkItemStatus
	Type        *domain.WorkItemType
	AssigneeID  *string
	SprintID    *string
	// ClearSprint returns the item to the unscoped backlog.
	ClearSprint bool
	// ClearAssignee unassigns the item.
	ClearAssignee bool
}

// StatusUpdate pairs a work item ID with a target status for bulk updates.
type StatusUpdate struct {
	WorkItemID string
	Status     domain.WorkItemStatus
}

// BulkStatusError records a single failed update within a bulk operation.
type BulkStatusError struct {
	WorkItemID string
	Err        error
}

// BulkStatusResult holds the outcomes of a bulk status update. Updated
// contains successfully updated items; Errors contains per-item failures.
type BulkStatusResult struct {
	Updated []domain.WorkItem
	Errors  []BulkStatusError
}

// WorkItemService manages work items.
type WorkItemService interface {
	CreateWorkItem(ctx context.Context, actorID string, item *domain.WorkItem) (*domain.WorkItem, error)
	GetWorkItem(ctx context.Context, actorID, itemID string) (*domain.WorkItem, error)
	UpdateWorkItem(ctx context.Context, actorID, itemID string, change WorkItemChange) (*domain.WorkItem, error)
	DeleteWorkItem(ctx context.Context, actorID, itemID string) error
	ListWorkItems(ctx context.Context, actorID string, filter WorkItemFilter) ([]domain.WorkItem, error)

	// BulkUpdateStatus updates multiple items concurrently with partial
	// success semantics: each update succeeds or fails independently and
	// per-item failures are collected in BulkStatusResult.Errors.
	BulkUpdateStatus(ctx context.Context, actorID string, updates []StatusUpdate) (*BulkStatusResult, error)
}

// SurveyService manages surveys, questions, responses, and answers.
type SurveyService interface {
	// CreateSurvey creates the survey and its questions as one logical
	// unit: the atomic store procedure when available, otherwise the
	// compensating two-step fallback. Requires the team lead role.
	CreateSurvey(ctx context.Context, actorID string, survey *domain.Survey, questions []domain.SurveyQuestion) (*domain.Survey, error)

	GetSurvey(ctx context.Context, actorID, surveyID string) (*domain.Survey, error)
	UpdateSurvey(ctx context.Context, actorID string, survey *domain.Survey) (*domain.Survey, error)
	DeleteSurvey(ctx context.Context, actorID, surveyID string) error
	ListSurveys(ctx context.Context, actorID, accountID string) ([]domain.Survey, error)

	// SubmitResponse records the actor's response with its answers.
	// Answers must satisfy value exclusivity against their questions.
	SubmitResponse(ctx context.Context, actorID string, response *domain.SurveyResponse, answers []domain.SurveyAnswer) (*domain.SurveyResponse, error)

	// GetResponse enforces the visibility closure: author and sprint-team
	// leads only. Invisible responses are indistinguishable from missing
	// ones.
	GetResponse(ctx context.Context, actorID, responseID string) (*domain.SurveyResponse, error)

	DeleteResponse(ctx context.Context, actorID, responseID string) error
	ListResponses(ctx context.Context, actorID, surveyID, sprintID string) ([]domain.SurveyResponse, error)
}

// KudosService manages recognition events.
type KudosService interface {
	SendKudos(ctx context.Context, actorID string, kudos *domain.Kudos) (*domain.Kudos, error)
	GetKudos(ctx context.Context, actorID, kudosID string) (*domain.Kudos, error)

	// DeleteKudos is permitted only for the sender.
	DeleteKudos(ctx context.Context, actorID, kudosID string) error

	ListKudos(ctx context.Context, actorID, teamID string) ([]domain.Kudos, error)
}
