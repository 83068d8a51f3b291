package dto

import (
	"fmt"
	"strings"

	"github.com/sprintpulse/sprintpulse/internal/domain"
)

const (
	msgRequired     = "is required"
	msgMustNotEmpty = "must not be empty"
)

// UpdateAccountRequest represents the JSON body for updating account
// metadata. All fields are optional; nil means "do not change this field.".
type UpdateAccountRequest struct {
	Name         *string `json:"name,omitempty"`
	IsTestTenant *bool   `json:"is_test_tenant,omitempty"`
}

// Validate checks that any provided fields have valid values.
// Returns a *domain.ValidationError if any checks fail.
func (r *UpdateAccountRequest) Validate() error {
	fields := make(map[string]string)

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		fields["name"] = msgMustNotEmpty
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// JoinAccountRequest represents the JSON body for joining an account. The
// membership is always created for the authenticated caller.
type JoinAccountRequest struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
}

// Validate checks that required fields are present and the role is known.
// Returns a *domain.ValidationError if any checks fail.
func (r *JoinAccountRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.AccountID) == "" {
		fields["account_id"] = msgRequired
	}
	if strings.TrimSpace(r.Role) == "" {
		fields["role"] = msgRequired
	} else if !domain.AccountRole(r.Role).IsValid() {
		fields["role"] = fmt.Sprintf("invalid: %q", r.Role)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// CreateTeamRequest represents the JSON body for creating a new team.
type CreateTeamRequest struct {
	AccountID   string `json:"account_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Validate checks that required fields are present.
// Returns a *domain.ValidationError if any checks fail.
func (r *CreateTeamRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.AccountID) == "" {
		fields["account_id"] = msgRequired
	}
	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = msgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// UpdateTeamRequest represents the JSON body for updating an existing team.
// All fields are optional; nil means "do not change this field.".
type UpdateTeamRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Validate checks that any provided fields have valid values.
// Returns a *domain.ValidationError if any checks fail.
func (r *UpdateTeamRequest) Validate() error {
	fields := make(map[string]string)

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		fields["name"] = msgMustNotEmpty
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// JoinTeamRequest represents the JSON body for adding a user to a team.
type JoinTeamRequest struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Validate checks that required fields are present and the role is known.
// Returns a *domain.ValidationError if any checks fail.
func (r *JoinTeamRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.TeamID) == "" {
		fields["team_id"] = msgRequired
	}
	if strings.TrimSpace(r.UserID) == "" {
		fields["user_id"] = msgRequired
	}
	if strings.TrimSpace(r.Role) == "" {
		fields["role"] = msgRequired
	} else if !domain.TeamRole(r.Role).IsValid() {
		fields["role"] = fmt.Sprintf("invalid: %q", r.Role)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// CreateSprintRequest represents the JSON body for creating a new sprint.
// Dates are calendar dates in "YYYY-MM-DD" form.
type CreateSprintRequest struct {
	TeamID    string `json:"team_id"`
	Name      string `json:"name"`
	Goal      string `json:"goal,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status,omitempty"`
}

// Validate checks that required fields are present, dates parse, and the
// status is known. Returns a *domain.ValidationError if any checks fail.
func (r *CreateSprintRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.TeamID) == "" {
		fields["team_id"] = msgRequired
	}
	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = msgRequired
	}
	if strings.TrimSpace(r.StartDate) == "" {
		fields["start_date"] = msgRequired
	} else if _, err := domain.ParseDate(r.StartDate); err != nil {
		fields["start_date"] = fmt.Sprintf("invalid date: %q", r.StartDate)
	}
	if strings.TrimSpace(r.EndDate) == "" {
		fields["end_date"] = msgRequired
	} else if _, err := domain.ParseDate(r.EndDate); err != nil {
		fields["end_date"] = fmt.Sprintf("invalid date: %q", r.EndDate)
	}
	if r.Status != "" && !domain.SprintStatus(r.Status).IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", r.Status)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// UpdateSprintRequest represents the JSON body for updating an existing
// sprint. All fields are optional; nil means "do not change this field.".
type UpdateSprintRequest struct {
	Name      *string `json:"name,omitempty"`
	Goal      *string `json:"goal,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Status    *string `json:"status,omitempty"`
}

// Validate checks that any provided fields have valid values.
// Returns a *domain.ValidationError if any checks fail.
func (r *UpdateSprintRequest) Validate() error {
	fields := make(map[string]string)

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		fields["name"] = msgMustNotEmpty
	}
	if r.StartDate != nil {
		if _, err := domain.ParseDate(*r.StartDate); err != nil {
			fields["start_date"] = fmt.Sprintf("invalid date: %q", *r.StartDate)
		}
	}
	if r.EndDate != nil {
		if _, err := domain.ParseDate(*r.EndDate); err != nil {
			fields["end_date"] = fmt.Sprintf("invalid date: %q", *r.EndDate)
		}
	}
	if r.Status != nil && !domain.SprintStatus(*r.Status).IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", *r.Status)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// CreateWorkItemRequest represents the JSON body for creating a new work
// item.
type CreateWorkItemRequest struct {
	TeamID      string  `json:"team_id"`
	SprintID    *string `json:"sprint_id,omitempty"`
	ProjectKey  *string `json:"project_key,omitempty"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	Type        string  `json:"type,omitempty"`
	Provider    string  `json:"provider,omitempty"`
	ExternalRef *string `json:"external_ref,omitempty"`
}

// Validate checks that required fields are present and enum fields have
// known values. Returns a *domain.ValidationError if any checks fail.
func (r *CreateWorkItemRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.TeamID) == "" {
		fields["team_id"] = msgRequired
	}
	if strings.TrimSpace(r.Title) == "" {
		fields["title"] = msgRequired
	}
	if r.Status != "" && !domain.WorkItemStatus(r.Status).IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", r.Status)
	}
	if r.Type != "" && !domain.WorkItemType(r.Type).IsValid() {
		fields["type"] = fmt.Sprintf("invalid: %q", r.Type)
	}
	if r.Provider != "" && !domain.Provider(r.Provider).IsValid() {
		fields["provider"] = fmt.Sprintf("invalid: %q", r.Provider)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// UpdateWorkItemRequest represents the JSON body for updating an existing
// work item. All fields are optional; nil means "do not change this
// field.". ClearSprint and ClearAssignee explicitly null the respective
// references.
type UpdateWorkItemRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Status        *string `json:"status,omitempty"`
	Type          *string `json:"type,omitempty"`
	AssigneeID    *string `json:"assignee_id,omitempty"`
	SprintID      *string `json:"sprint_id,omitempty"`
	ClearSprint   bool    `json:"clear_sprint,omitempty"`
	ClearAssignee bool    `json:"clear_assignee,omitempty"`
}

// Validate checks that any provided fields have valid values.
// Returns a *domain.ValidationError if any checks fail.
func (r *UpdateWorkItemRequest) Validate() error {
	fields := make(map[string]string)

	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		fields["title"] = msgMustNotEmpty
	}
	if r.Status != nil && !domain.WorkItemStatus(*r.Status).IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", *r.Status)
	}
	if r.Type != nil && !domain.WorkItemType(*r.Type).IsValid() {
		fields["type"] = fmt.Sprintf("invalid: %q", *r.Type)
	}
	if r.SprintID != nil && r.ClearSprint {
		fields["sprint_id"] = "cannot be set together with clear_sprint"
	}
	if r.AssigneeID != nil && r.ClearAssignee {
		fields["assignee_id"] = "cannot be set together with clear_assignee"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// BulkStatusUpdateItem represents a single entry in a bulk status update.
type BulkStatusUpdateItem struct {
	WorkItemID string `json:"work_item_id"`
	Status     string `json:"status"`
}

// BulkStatusUpdateRequest represents the JSON body for a bulk work item
// status update.
type BulkStatusUpdateRequest struct {
	Updates []BulkStatusUpdateItem `json:"updates"`
}

// Validate checks that at least one update is present and every entry is
// well-formed. Returns a *domain.ValidationError if any checks fail.
func (r *BulkStatusUpdateRequest) Validate() error {
	fields := make(map[string]string)

	if len(r.Updates) == 0 {
		fields["updates"] = msgRequired
	}
	for i, u := range r.Updates {
		if strings.TrimSpace(u.WorkItemID) == "" {
			fields[fmt.Sprintf("updates[%d].work_item_id", i)] = msgRequired
		}
		if !domain.WorkItemStatus(u.Status).IsValid() {
			fields[fmt.Sprintf("updates[%d].status", i)] = fmt.Sprintf("invalid: %q", u.Status)
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// CreateSurveyQuestionRequest represents one question in a survey-creation
// body.
type CreateSurveyQuestionRequest struct {
	Prompt     string `json:"prompt"`
	AnswerType string `json:"answer_type"`
	OrderIndex int    `json:"order_index"`
}

// CreateSurveyRequest represents the JSON body for creating a new survey
// together with its questions.
type CreateSurveyRequest struct {
	AccountID   string                        `json:"account_id"`
	TeamID      *string                       `json:"team_id,omitempty"`
	Title       string                        `json:"title"`
	Description string                        `json:"description,omitempty"`
	Questions   []CreateSurveyQuestionRequest `json:"questions"`
}

// Validate checks that required fields are present and every question is
// well-formed. Returns a *domain.ValidationError if any checks fail.
func (r *CreateSurveyRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.AccountID) == "" {
		fields["account_id"] = msgRequired
	}
	if strings.TrimSpace(r.Title) == "" {
		fields["title"] = msgRequired
	}
	for i, q := range r.Questions {
		if strings.TrimSpace(q.Prompt) == "" {
			fields[fmt.Sprintf("questions[%d].prompt", i)] = msgRequired
		}
		if !domain.AnswerType(q.AnswerType).IsValid() {
			fields[fmt.Sprintf("questions[%d].answer_type", i)] = fmt.Sprintf("invalid: %q", q.AnswerType)
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// UpdateSurveyRequest represents the JSON body for updating an existing
// survey. All fields are optional; nil means "do not change this field.".
type UpdateSurveyRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Validate checks that any provided fields have valid values.
// Returns a *domain.ValidationError if any checks fail.
func (r *UpdateSurveyRequest) Validate() error {
	fields := make(map[string]string)

	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		fields["title"] = msgMustNotEmpty
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// SubmitAnswerRequest represents one answer in a response-submission body.
// Exactly one value field must be set, matching the question's declared
// answer type.
type SubmitAnswerRequest struct {
	QuestionID string  `json:"question_id"`
	ScaleValue *int    `json:"scale_value,omitempty"`
	TextValue  *string `json:"text_value,omitempty"`
	BoolValue  *bool   `json:"bool_value,omitempty"`
}

// SubmitResponseRequest represents the JSON body for submitting a survey
// response with its answers.
type SubmitResponseRequest struct {
	SurveyID     string                `json:"survey_id"`
	SprintID     string                `json:"sprint_id"`
	Confidential bool                  `json:"confidential,omitempty"`
	Answers      []SubmitAnswerRequest `json:"answers"`
}

// Validate checks that required fields are present and every answer
// carries exactly one value. Returns a *domain.ValidationError if any
// checks fail.
func (r *SubmitResponseRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.SurveyID) == "" {
		fields["survey_id"] = msgRequired
	}
	if strings.TrimSpace(r.SprintID) == "" {
		fields["sprint_id"] = msgRequired
	}
	for i, a := range r.Answers {
		if strings.TrimSpace(a.QuestionID) == "" {
			fields[fmt.Sprintf("answers[%d].question_id", i)] = msgRequired
		}
		set := 0
		if a.ScaleValue != nil {
			set++
		}
		if a.TextValue != nil {
			set++
		}
		if a.BoolValue != nil {
			set++
		}
		if set != 1 {
			fields[fmt.Sprintf("answers[%d]", i)] = "exactly one value field must be set"
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// CreateKudosRequest represents the JSON body for sending kudos.
type CreateKudosRequest struct {
	TeamID      string  `json:"team_id"`
	SprintID    *string `json:"sprint_id,omitempty"`
	RecipientID string  `json:"recipient_id"`
	Message     string  `json:"message"`
}

// Validate checks that required fields are present.
// Returns a *domain.ValidationError if any checks fail.
func (r *CreateKudosRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.TeamID) == "" {
		fields["team_id"] = msgRequired
	}
	if strings.TrimSpace(r.RecipientID) == "" {
		fields["recipient_id"] = msgRequired
	}
	if strings.TrimSpace(r.Message) == "" {
		fields["message"] = msgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
