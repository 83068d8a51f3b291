package domain

import (
	"sort"
	"time"
)

// AnswerType declares which value field a question's answers populate.
type AnswerType string

const (
	AnswerScale   AnswerType = "scale"
	AnswerText    AnswerType = "text"
	AnswerBoolean AnswerType = "boolean"
)

// IsValid reports whether the answer type is one of the closed set.
func (t AnswerType) IsValid() bool {
	switch t {
	case AnswerScale, AnswerText, AnswerBoolean:
		return true
	default:
		return false
	}
}

// Survey is a pulse-survey definition owned by an account. A nil TeamID
// with IsSystemTemplate set marks a system template: a reusable,
// account-wide definition readable by any authenticated actor and
// immutable by regular actors.
type Survey struct {
	ID               string
	AccountID        string
	TeamID           *string
	Title            string
	Description      string
	IsSystemTemplate bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Questions is populated on reads that request the full definition.
	Questions []SurveyQuestion
}

// IsTemplate reports whether the survey is a system template.
func (s *Survey) IsTemplate() bool {
	return s.TeamID == nil && s.IsSystemTemplate
}

// SurveyQuestion belongs to exactly one survey. OrderIndex uniqueness is
// not enforced; ties sort stably by index then insertion order.
type SurveyQuestion struct {
	ID         string
	SurveyID   string
	Prompt     string
	AnswerType AnswerType
	OrderIndex int
	CreatedAt  time.Time
}

// SortQuestions orders questions by OrderIndex, preserving insertion order
// for equal indexes.
func SortQuestions(questions []SurveyQuestion) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].OrderIndex < questions[j].OrderIndex
	})
}

// SurveyResponse is one user's submission for a (survey, sprint) pair.
// Uniqueness per (survey, sprint, user) is conceptual, not enforced.
// Confidential affects only peer visibility; in practice the visibility
// closure is author-plus-leads regardless (see policy.Evaluate).
type SurveyResponse struct {
	ID           string
	SurveyID     string
	SprintID     string
	UserID       string
	Confidential bool
	SubmittedAt  time.Time

	// Answers is populated on reads that request the full response.
	Answers []SurveyAnswer
}

// SurveyAnswer belongs to one response and one question. Exactly one of
// the value fields is non-nil, matching the question's declared type;
// enforcing that exclusivity is the invariant checker's job.
type SurveyAnswer struct {
	ID         string
	ResponseID string
	QuestionID string
	ScaleValue *int
	TextValue  *string
	BoolValue  *bool
}
