package dto_test

import (
	"errors"
	"testing"

	"github.com/sprintpulse/sprintpulse/internal/adapters/http/dto"
	"github.com/sprintpulse/sprintpulse/internal/domain"
)

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }

// requireValidationField asserts err wraps ErrValidation and the resulting
// ValidationError contains the expected field key.
func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()

	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) = false, got %v", err)
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("errors.As(err, *ValidationError) = false, got %T", err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Errorf("ValidationError.Fields missing key %q, got %v", field, verr.Fields)
	}
}

func TestJoinAccountRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       dto.JoinAccountRequest
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid request passes",
			req:     dto.JoinAccountRequest{AccountID: "acct-a", Role: "member"},
			wantErr: false,
		},
		{
			name:      "missing account_id fails",
			req:       dto.JoinAccountRequest{Role: "member"},
			wantErr:   true,
			wantField: "account_id",
		},
		{
			name:      "missing role fails",
			req:       dto.JoinAccountRequest{AccountID: "acct-a"},
			wantErr:   true,
			wantField: "role",
		},
		{
			name:      "unknown role fails",
			req:       dto.JoinAccountRequest{AccountID: "acct-a", Role: "superuser"},
			wantErr:   true,
			wantField: "role",
		},
		{
			name:    "owner role passes",
			req:     dto.JoinAccountRequest{AccountID: "acct-a", Role: "owner"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			requireValidationField(t, err, tt.wantField)
		})
	}
}

func TestUpdateAccountRequest_Validate(t *testing.T) {
	t.Parallel()

	if err := (&dto.UpdateAccountRequest{}).Validate(); err != nil {
		t.Errorf("Validate() on empty update = %v, want nil", err)
	}

	req := dto.UpdateAccountRequest{Name: stringPtr("  ")}
	requireValidationField(t, req.Validate(), "name")
}

func TestCreateTeamRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       dto.CreateTeamRequest
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid request passes",
			req:     dto.CreateTeamRequest{AccountID: "acct-a", Name: "Platform"},
			wantErr: false,
		},
		{
			name:      "missing account_id fails",
			req:       dto.CreateTeamRequest{Name: "Platform"},
			wantErr:   true,
			wantField: "account_id",
		},
		{
			name:      "whitespace-only name fails",
			req:       dto.CreateTeamRequest{AccountID: "acct-a", Name: "   "},
			wantErr:   true,
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			requireValidationField(t, err, tt.wantField)
		})
	}
}

func TestJoinTeamRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := dto.JoinTeamRequest{TeamID: "team-1", UserID: "user-1", Role: "contributor"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	badRole := dto.JoinTeamRequest{TeamID: "team-1", UserID: "user-1", Role: "manager"}
	requireValidationField(t, badRole.Validate(), "role")

	missing := dto.JoinTeamRequest{Role: "lead"}
	requireValidationField(t, missing.Validate(), "team_id")
	requireValidationField(t, missing.Validate(), "user_id")
}

func TestCreateSprintRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       dto.CreateSprintRequest
		wantErr   bool
		wantField string
	}{
		{
			name: "valid request passes",
			req: dto.CreateSprintRequest{
				TeamID:    "team-1",
				Name:      "Sprint 14",
				StartDate: "2026-01-05",
				EndDate:   "2026-01-16",
			},
			wantErr: false,
		},
		{
			name: "valid request with status passes",
			req: dto.CreateSprintRequest{
				TeamID:    "team-1",
				Name:      "Sprint 14",
				StartDate: "2026-01-05",
				EndDate:   "2026-01-16",
				Status:    "active",
			},
			wantErr: false,
		},
		{
			name: "missing team_id fails",
			req: dto.CreateSprintRequest{
				Name:      "Sprint 14",
				StartDate: "2026-01-05",
				EndDate:   "2026-01-16",
			},
			wantErr:   true,
			wantField: "team_id",
		},
		{
			name: "malformed start date fails",
			req: dto.CreateSprintRequest{
				TeamID:    "team-1",
				Name:      "Sprint 14",
				StartDate: "05/01/2026",
				EndDate:   "2026-01-16",
			},
			wantErr:   true,
			wantField: "start_date",
		},
		{
			name: "missing end date fails",
			req: dto.CreateSprintRequest{
				TeamID:    "team-1",
				Name:      "Sprint 14",
				StartDate: "2026-01-05",
			},
			wantErr:   true,
			wantField: "end_date",
		},
		{
			name: "unknown status fails",
			req: dto.CreateSprintRequest{
				TeamID:    "team-1",
				Name:      "Sprint 14",
				StartDate: "2026-01-05",
				EndDate:   "2026-01-16",
				Status:    "archived",
			},
			wantErr:   true,
			wantField: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			requireValidationField(t, err, tt.wantField)
		})
	}
}

func TestUpdateSprintRequest_Validate(t *testing.T) {
	t.Parallel()

	if err := (&dto.UpdateSprintRequest{}).Validate(); err != nil {
		t.Errorf("Validate() on empty update = %v, want nil", err)
	}

	badDate := dto.UpdateSprintRequest{EndDate: stringPtr("not-a-date")}
	requireValidationField(t, badDate.Validate(), "end_date")

	badStatus := dto.UpdateSprintRequest{Status: stringPtr("archived")}
	requireValidationField(t, badStatus.Validate(), "status")
}

func TestCreateWorkItemRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       dto.CreateWorkItemRequest
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid request passes",
			req:     dto.CreateWorkItemRequest{TeamID: "team-1", Title: "Fix login"},
			wantErr: false,
		},
		{
			name: "valid request with all enums passes",
			req: dto.CreateWorkItemRequest{
				TeamID:   "team-1",
				Title:    "Fix login",
				Status:   "in_progress",
				Type:     "bug",
				Provider: "github",
			},
			wantErr: false,
		},
		{
			name:      "missing title fails",
			req:       dto.CreateWorkItemRequest{TeamID: "team-1"},
			wantErr:   true,
			wantField: "title",
		},
		{
			name:      "unknown status fails",
			req:       dto.CreateWorkItemRequest{TeamID: "team-1", Title: "x", Status: "blocked"},
			wantErr:   true,
			wantField: "status",
		},
		{
			name:      "unknown type fails",
			req:       dto.CreateWorkItemRequest{TeamID: "team-1", Title: "x", Type: "epic"},
			wantErr:   true,
			wantField: "type",
		},
		{
			name:      "unknown provider fails",
			req:       dto.CreateWorkItemRequest{TeamID: "team-1", Title: "x", Provider: "linear"},
			wantErr:   true,
			wantField: "provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			requireValidationField(t, err, tt.wantField)
		})
	}
}

func TestUpdateWorkItemRequest_Validate(t *testing.T) {
	t.Parallel()

	if err := (&dto.UpdateWorkItemRequest{Status: stringPtr("done")}).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	emptyTitle := dto.UpdateWorkItemRequest{Title: stringPtr("")}
	requireValidationField(t, emptyTitle.Validate(), "title")

	sprintConflict := dto.UpdateWorkItemRequest{SprintID: stringPtr("spr-1"), ClearSprint: true}
	requireValidationField(t, sprintConflict.Validate(), "sprint_id")

	assigneeConflict := dto.UpdateWorkItemRequest{AssigneeID: stringPtr("user-1"), ClearAssignee: true}
	requireValidationField(t, assigneeConflict.Validate(), "assignee_id")
}

func TestBulkStatusUpdateRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := dto.BulkStatusUpdateRequest{Updates: []dto.BulkStatusUpdateItem{
		{WorkItemID: "w-1", Status: "done"},
		{WorkItemID: "w-2", Status: "review"},
	}}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	empty := dto.BulkStatusUpdateRequest{}
	requireValidationField(t, empty.Validate(), "updates")

	badEntry := dto.BulkStatusUpdateRequest{Updates: []dto.BulkStatusUpdateItem{
		{WorkItemID: "w-1", Status: "done"},
		{WorkItemID: "", Status: "bogus"},
	}}
	requireValidationField(t, badEntry.Validate(), "updates[1].work_item_id")
	requireValidationField(t, badEntry.Validate(), "updates[1].status")
}

func TestCreateSurveyRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := dto.CreateSurveyRequest{
		AccountID: "acct-a",
		Title:     "Sprint pulse",
		Questions: []dto.CreateSurveyQuestionRequest{
			{Prompt: "How did the sprint go?", AnswerType: "scale", OrderIndex: 1},
			{Prompt: "Any blockers?", AnswerType: "text", OrderIndex: 2},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	missing := dto.CreateSurveyRequest{}
	requireValidationField(t, missing.Validate(), "account_id")
	requireValidationField(t, missing.Validate(), "title")

	badQuestion := dto.CreateSurveyRequest{
		AccountID: "acct-a",
		Title:     "Sprint pulse",
		Questions: []dto.CreateSurveyQuestionRequest{
			{Prompt: "", AnswerType: "emoji"},
		},
	}
	requireValidationField(t, badQuestion.Validate(), "questions[0].prompt")
	requireValidationField(t, badQuestion.Validate(), "questions[0].answer_type")
}

func TestSubmitResponseRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := dto.SubmitResponseRequest{
		SurveyID: "survey-1",
		SprintID: "spr-1",
		Answers: []dto.SubmitAnswerRequest{
			{QuestionID: "q-1", ScaleValue: intPtr(4)},
			{QuestionID: "q-2", TextValue: stringPtr("ok")},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	missing := dto.SubmitResponseRequest{}
	requireValidationField(t, missing.Validate(), "survey_id")
	requireValidationField(t, missing.Validate(), "sprint_id")

	noValue := dto.SubmitResponseRequest{
		SurveyID: "survey-1",
		SprintID: "spr-1",
		Answers:  []dto.SubmitAnswerRequest{{QuestionID: "q-1"}},
	}
	requireValidationField(t, noValue.Validate(), "answers[0]")

	twoValues := dto.SubmitResponseRequest{
		SurveyID: "survey-1",
		SprintID: "spr-1",
		Answers: []dto.SubmitAnswerRequest{
			{QuestionID: "q-1", ScaleValue: intPtr(4), TextValue: stringPtr("ok")},
		},
	}
	requireValidationField(t, twoValues.Validate(), "answers[0]")
}

func TestCreateKudosRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := dto.CreateKudosRequest{TeamID: "team-1", RecipientID: "user-2", Message: "great demo"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	missing := dto.CreateKudosRequest{}
	requireValidationField(t, missing.Validate(), "team_id")
	requireValidationField(t, missing.Validate(), "recipient_id")
	requireValidationField(t, missing.Validate(), "message")
}
