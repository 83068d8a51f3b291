// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// AccountResponse represents a single account in HTTP responses.
type AccountResponse struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	IsTestTenant bool   `json:"is_test_tenant"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// ToAccountResponse converts a domain Account to an HTTP response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:           a.ID,
		Slug:         a.Slug,
		Name:         a.Name,
		IsTestTenant: a.IsTestTenant,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
}

// AccountMembershipResponse represents an account membership in HTTP
// responses.
type AccountMembershipResponse struct {
	AccountID string `json:"account_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// ToAccountMembershipResponse converts a domain AccountMembership to an
// HTTP response DTO.
func ToAccountMembershipResponse(m *domain.AccountMembership) AccountMembershipResponse {
	return AccountMembershipResponse{
		AccountID: m.AccountID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

// TeamResponse represents a single team in HTTP responses.
type TeamResponse struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// TeamListResponse represents a list of teams in HTTP responses.
type TeamListResponse struct {
	Teams []TeamResponse `json:"teams"`
	Count int            `json:"count"`
}

// ToTeamResponse converts a domain Team to an HTTP response DTO.
func ToTeamResponse(t *domain.Team) TeamResponse {
	return TeamResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}

// ToTeamListResponse converts a slice of domain Teams to an HTTP list
// response DTO.
func ToTeamListResponse(teams []domain.Team) TeamListResponse {
	items := make([]TeamResponse, len(teams))
	for i := range teams {
		items[i] = ToTeamResponse(&teams[i])
	}
	return TeamListResponse{Teams: items, Count: len(items)}
}

// TeamMembershipResponse represents a team membership in HTTP responses.
type TeamMembershipResponse struct {
	TeamID    string `json:"team_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// ToTeamMembershipResponse converts a domain TeamMembership to an HTTP
// response DTO.
func ToTeamMembershipResponse(m *domain.TeamMembership) TeamMembershipResponse {
	return TeamMembershipResponse{
		TeamID:    m.TeamID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

// StepOutcomeItem represents one sub-operation outcome in a partial
// failure report.
type StepOutcomeItem struct {
	Step    string `json:"step"`
	Message string `json:"message,omitempty"`
}

// PartialFailureReport reports a multi-entity write in which some steps
// succeeded and others failed.
type PartialFailureReport struct {
	Succeeded []StepOutcomeItem `json:"succeeded"`
	Failed    []StepOutcomeItem `json:"failed"`
}

// TeamCreationResponse represents the outcome of creating a team with the
// creator's lead membership. Partial is present when the team row landed
// but the membership insert failed.
type TeamCreationResponse struct {
	Team           TeamResponse            `json:"team"`
	LeadMembership *TeamMembershipResponse `json:"lead_membership,omitempty"`
	Partial        *PartialFailureReport   `json:"partial,omitempty"`
}

// ToTeamCreationResponse converts a ports.TeamCreation to an HTTP response
// DTO.
func ToTeamCreationResponse(c *ports.TeamCreation) TeamCreationResponse {
	resp := TeamCreationResponse{Team: ToTeamResponse(c.Team)}

	if c.LeadMembership != nil {
		m := ToTeamMembershipResponse(c.LeadMembership)
		resp.LeadMembership = &m
	}
	if c.Partial != nil {
		report := PartialFailureReport{
			Succeeded: make([]StepOutcomeItem, len(c.Partial.Succeeded)),
			Failed:    make([]StepOutcomeItem, len(c.Partial.Failed)),
		}
		for i, s := range c.Partial.Succeeded {
			report.Succeeded[i] = StepOutcomeItem{Step: s.Step}
		}
		for i, s := range c.Partial.Failed {
			report.Failed[i] = StepOutcomeItem{Step: s.Step, Message: s.Err.Error()}
		}
		resp.Partial = &report
	}

	return resp
}

// SprintResponse represents a single sprint in HTTP responses. Dates are
// calendar dates in "YYYY-MM-DD" form.
type SprintResponse struct {
	ID        string `json:"id"`
	TeamID    string `json:"team_id"`
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Goal      string `json:"goal"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// SprintListResponse represents a list of sprints in HTTP responses.
type SprintListResponse struct {
	Sprints []SprintResponse `json:"sprints"`
	Count   int              `json:"count"`
}

// ToSprintResponse converts a domain Sprint to an HTTP response DTO.
func ToSprintResponse(s *domain.Sprint) SprintResponse {
	return SprintResponse{
		ID:        s.ID,
		TeamID:    s.TeamID,
		AccountID: s.AccountID,
		Name:      s.Name,
		Goal:      s.Goal,
		StartDate: s.StartDate.String(),
		EndDate:   s.EndDate.String(),
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

// ToSprintListResponse converts a slice of domain Sprints to an HTTP list
// response DTO.
func ToSprintListResponse(sprints []domain.Sprint) SprintListResponse {
	items := make([]SprintResponse, len(sprints))
	for i := range sprints {
		items[i] = ToSprintResponse(&sprints[i])
	}
	return SprintListResponse{Sprints: items, Count: len(items)}
}

// WorkItemResponse represents a single work item in HTTP responses.
type WorkItemResponse struct {
	ID          string  `json:"id"`
	AccountID   string  `json:"account_id"`
	TeamID      string  `json:"team_id"`
	SprintID    *string `json:"sprint_id,omitempty"`
	ProjectKey  *string `json:"project_key,omitempty"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Type        string  `json:"type"`
	Provider    string  `json:"provider"`
	ExternalRef *string `json:"external_ref,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// WorkItemListResponse represents a list of work items in HTTP responses.
type WorkItemListResponse struct {
	WorkItems []WorkItemResponse `json:"work_items"`
	Count     int                `json:"count"`
}

// ToWorkItemResponse converts a domain WorkItem to an HTTP response DTO.
func ToWorkItemResponse(w *domain.WorkItem) WorkItemResponse {
	resp := WorkItemResponse{
		ID:          w.ID,
		AccountID:   w.AccountID,
		TeamID:      w.TeamID,
		SprintID:    w.SprintID,
		ProjectKey:  w.ProjectKey,
		AssigneeID:  w.AssigneeID,
		Title:       w.Title,
		Description: w.Description,
		Status:      string(w.Status),
		Type:        string(w.Type),
		Provider:    string(w.Provider),
		ExternalRef: w.ExternalRef,
		CreatedAt:   w.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   w.UpdatedAt.Format(time.RFC3339),
	}

	if w.CompletedAt != nil {
		completed := w.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completed
	}

	return resp
}

// ToWorkItemListResponse converts a slice of domain WorkItems to an HTTP
// list response DTO.
func ToWorkItemListResponse(items []domain.WorkItem) WorkItemListResponse {
	out := make([]WorkItemResponse, len(items))
	for i := range items {
		out[i] = ToWorkItemResponse(&items[i])
	}
	return WorkItemListResponse{WorkItems: out, Count: len(out)}
}

// BulkStatusUpdateResponse represents the result of a bulk status update.
// It includes both successful updates and per-item errors.
type BulkStatusUpdateResponse struct {
	Updated   []WorkItemResponse    `json:"updated"`
	Errors    []BulkUpdateErrorItem `json:"errors"`
	Total     int                   `json:"total"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
}

// BulkUpdateErrorItem represents a single failed update within a bulk
// operation.
type BulkUpdateErrorItem struct {
	WorkItemID string `json:"work_item_id"`
	Message    string `json:"message"`
}

// ToBulkStatusUpdateResponse converts a ports.BulkStatusResult to an HTTP
// response DTO.
func ToBulkStatusUpdateResponse(result *ports.BulkStatusResult) BulkStatusUpdateResponse {
	updated := make([]WorkItemResponse, len(result.Updated))
	for i := range result.Updated {
		updated[i] = ToWorkItemResponse(&result.Updated[i])
	}

	errs := make([]BulkUpdateErrorItem, len(result.Errors))
	for i, e := range result.Errors {
		errs[i] = BulkUpdateErrorItem{
			WorkItemID: e.WorkItemID,
			Message:    e.Err.Error(),
		}
	}

	total := len(result.Updated) + len(result.Errors)
	return BulkStatusUpdateResponse{
		Updated:   updated,
		Errors:    errs,
		Total:     total,
		Succeeded: len(result.Updated),
		Failed:    len(result.Errors),
	}
}

// SurveyQuestionResponse represents a single survey question in HTTP
// responses.
type SurveyQuestionResponse struct {
	ID         string `json:"id"`
	SurveyID   string `json:"survey_id"`
	Prompt     string `json:"prompt"`
	AnswerType string `json:"answer_type"`
	OrderIndex int    `json:"order_index"`
	CreatedAt  string `json:"created_at"`
}

// SurveyResponse represents a single survey definition in HTTP responses.
// Questions are included only on reads that load the full definition.
type SurveyResponse struct {
	ID               string                   `json:"id"`
	AccountID        string                   `json:"account_id"`
	TeamID           *string                  `json:"team_id,omitempty"`
	Title            string                   `json:"title"`
	Description      string                   `json:"description"`
	IsSystemTemplate bool                     `json:"is_system_template"`
	Questions        []SurveyQuestionResponse `json:"questions,omitempty"`
	CreatedAt        string                   `json:"created_at"`
	UpdatedAt        string                   `json:"updated_at"`
}

// SurveyListResponse represents a list of surveys in HTTP responses.
type SurveyListResponse struct {
	Surveys []SurveyResponse `json:"surveys"`
	Count   int              `json:"count"`
}

// ToSurveyQuestionResponse converts a domain SurveyQuestion to an HTTP
// response DTO.
func ToSurveyQuestionResponse(q *domain.SurveyQuestion) SurveyQuestionResponse {
	return SurveyQuestionResponse{
		ID:         q.ID,
		SurveyID:   q.SurveyID,
		Prompt:     q.Prompt,
		AnswerType: string(q.AnswerType),
		OrderIndex: q.OrderIndex,
		CreatedAt:  q.CreatedAt.Format(time.RFC3339),
	}
}

// ToSurveyResponse converts a domain Survey to an HTTP response DTO.
func ToSurveyResponse(s *domain.Survey) SurveyResponse {
	resp := SurveyResponse{
		ID:               s.ID,
		AccountID:        s.AccountID,
		TeamID:           s.TeamID,
		Title:            s.Title,
		Description:      s.Description,
		IsSystemTemplate: s.IsSystemTemplate,
		CreatedAt:        s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        s.UpdatedAt.Format(time.RFC3339),
	}

	if len(s.Questions) > 0 {
		resp.Questions = make([]SurveyQuestionResponse, len(s.Questions))
		for i := range s.Questions {
			resp.Questions[i] = ToSurveyQuestionResponse(&s.Questions[i])
		}
	}

	return resp
}

// ToSurveyListResponse converts a slice of domain Surveys to an HTTP list
// response DTO.
func ToSurveyListResponse(surveys []domain.Survey) SurveyListResponse {
	items := make([]SurveyResponse, len(surveys))
	for i := range surveys {
		items[i] = ToSurveyResponse(&surveys[i])
	}
	return SurveyListResponse{Surveys: items, Count: len(items)}
}

// SurveyAnswerResponse represents a single answer in HTTP responses.
type SurveyAnswerResponse struct {
	ID         string  `json:"id"`
	ResponseID string  `json:"response_id"`
	QuestionID string  `json:"question_id"`
	ScaleValue *int    `json:"scale_value,omitempty"`
	TextValue  *string `json:"text_value,omitempty"`
	BoolValue  *bool   `json:"bool_value,omitempty"`
}

// SurveySubmissionResponse represents a single survey response in HTTP
// responses. Answers are included only on reads that load the full
// submission.
type SurveySubmissionResponse struct {
	ID           string                 `json:"id"`
	SurveyID     string                 `json:"survey_id"`
	SprintID     string                 `json:"sprint_id"`
	UserID       string                 `json:"user_id"`
	Confidential bool                   `json:"confidential"`
	Answers      []SurveyAnswerResponse `json:"answers,omitempty"`
	SubmittedAt  string                 `json:"submitted_at"`
}

// SurveySubmissionListResponse represents a list of survey responses in
// HTTP responses.
type SurveySubmissionListResponse struct {
	Responses []SurveySubmissionResponse `json:"responses"`
	Count     int                        `json:"count"`
}

// ToSurveyAnswerResponse converts a domain SurveyAnswer to an HTTP
// response DTO.
func ToSurveyAnswerResponse(a *domain.SurveyAnswer) SurveyAnswerResponse {
	return SurveyAnswerResponse{
		ID:         a.ID,
		ResponseID: a.ResponseID,
		QuestionID: a.QuestionID,
		ScaleValue: a.ScaleValue,
		TextValue:  a.TextValue,
		BoolValue:  a.BoolValue,
	}
}

// ToSurveySubmissionResponse converts a domain SurveyResponse to an HTTP
// response DTO.
func ToSurveySubmissionResponse(r *domain.SurveyResponse) SurveySubmissionResponse {
	resp := SurveySubmissionResponse{
		ID:           r.ID,
		SurveyID:     r.SurveyID,
		SprintID:     r.SprintID,
		UserID:       r.UserID,
		Confidential: r.Confidential,
		SubmittedAt:  r.SubmittedAt.Format(time.RFC3339),
	}

	if len(r.Answers) > 0 {
		resp.Answers = make([]SurveyAnswerResponse, len(r.Answers))
		for i := range r.Answers {
			resp.Answers[i] = ToSurveyAnswerResponse(&r.Answers[i])
		}
	}

	return resp
}

// ToSurveySubmissionListResponse converts a slice of domain SurveyResponses
// to an HTTP list response DTO.
func ToSurveySubmissionListResponse(responses []domain.SurveyResponse) SurveySubmissionListResponse {
	items := make([]SurveySubmissionResponse, len(responses))
	for i := range responses {
		items[i] = ToSurveySubmissionResponse(&responses[i])
	}
	return SurveySubmissionListResponse{Responses: items, Count: len(items)}
}

// KudosResponse represents a single kudos event in HTTP responses.
type KudosResponse struct {
	ID          string  `json:"id"`
	AccountID   string  `json:"account_id"`
	TeamID      string  `json:"team_id"`
	SprintID    *string `json:"sprint_id,omitempty"`
	SenderID    string  `json:"sender_id"`
	RecipientID string  `json:"recipient_id"`
	Message     string  `json:"message"`
	CreatedAt   string  `json:"created_at"`
}

// KudosListResponse represents a list of kudos events in HTTP responses.
type KudosListResponse struct {
	Kudos []KudosResponse `json:"kudos"`
	Count int             `json:"count"`
}

// ToKudosResponse converts a domain Kudos to an HTTP response DTO.
func ToKudosResponse(k *domain.Kudos) KudosResponse {
	return KudosResponse{
		ID:          k.ID,
		AccountID:   k.AccountID,
		TeamID:      k.TeamID,
		SprintID:    k.SprintID,
		SenderID:    k.SenderID,
		RecipientID: k.RecipientID,
		Message:     k.Message,
		CreatedAt:   k.CreatedAt.Format(time.RFC3339),
	}
}

// ToKudosListResponse converts a slice of domain Kudos to an HTTP list
// response DTO.
func ToKudosListResponse(kudos []domain.Kudos) KudosListResponse {
	items := make([]KudosResponse, len(kudos))
	for i := range kudos {
		items[i] = ToKudosResponse(&kudos[i])
	}
	return KudosListResponse{Kudos: items, Count: len(items)}
}
