package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sprintpulse/sprintpulse/internal/domain"
)

// surveyRow matches the surveys table schema.
type surveyRow struct {
	ID               string  `json:"id"`
	AccountID        string  `json:"account_id"`
	TeamID           *string `json:"team_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	IsSystemTemplate bool    `json:"is_system_template"`
	CreatedAt        string  `json:"created_at,omitempty"`
	UpdatedAt        string  `json:"updated_at,omitempty"`
}

func (r *surveyRow) toDomain() domain.Survey {
	return domain.Survey{
		ID:               r.ID,
		AccountID:        r.AccountID,
		TeamID:           r.TeamID,
		Title:            r.Title,
		Description:      r.Description,
		IsSystemTemplate: r.IsSystemTemplate,
		CreatedAt:        parseTime(r.CreatedAt),
		UpdatedAt:        parseTime(r.UpdatedAt),
	}
}

func toSurveyRow(survey *domain.Survey) surveyRow {
	return surveyRow{
		ID:               survey.ID,
		AccountID:        survey.AccountID,
		TeamID:           survey.TeamID,
		Title:            survey.Title,
		Description:      survey.Description,
		IsSystemTemplate: survey.IsSystemTemplate,
		CreatedAt:        formatTime(survey.CreatedAt),
		UpdatedAt:        formatTime(survey.UpdatedAt),
	}
}

// surveyQuestionRow matches the survey_questions table schema.
type surveyQuestionRow struct {
	ID         string `json:"id"`
	SurveyID   string `json:"survey_id"`
	Prompt     string `json:"prompt"`
	AnswerType string `json:"answer_type"`
	OrderIndex int    `json:"order_index"`
	CreatedAt  string `json:"created_at,omitempty"`
}

func (r *surveyQuestionRow) toDomain() domain.SurveyQuestion {
	return domain.SurveyQuestion{
		ID:         r.ID,
		SurveyID:   r.SurveyID,
		Prompt:     r.Prompt,
		AnswerType: domain.AnswerType(r.AnswerType),
		OrderIndex: r.OrderIndex,
		CreatedAt:  parseTime(r.CreatedAt),
	}
}

func toQuestionRows(questions []domain.SurveyQuestion) []surveyQuestionRow {
	rows := make([]surveyQuestionRow, len(questions))
	for i, q := range questions {
		rows[i] = surveyQuestionRow{
			ID:         q.ID,
			SurveyID:   q.SurveyID,
			Prompt:     q.Prompt,
			AnswerType: string(q.AnswerType),
			OrderIndex: q.OrderIndex,
			CreatedAt:  formatTime(q.CreatedAt),
		}
	}
	return rows
}

// surveyResponseRow matches the survey_responses table schema.
type surveyResponseRow struct {
	ID           string `json:"id"`
	SurveyID     string `json:"survey_id"`
	SprintID     string `json:"sprint_id"`
	UserID       string `json:"user_id"`
	Confidential bool   `json:"confidential"`
	SubmittedAt  string `json:"submitted_at,omitempty"`
}

func (r *surveyResponseRow) toDomain() domain.SurveyResponse {
	return domain.SurveyResponse{
		ID:           r.ID,
		SurveyID:     r.SurveyID,
		SprintID:     r.SprintID,
		UserID:       r.UserID,
		Confidential: r.Confidential,
		SubmittedAt:  parseTime(r.SubmittedAt),
	}
}

// surveyAnswerRow matches the survey_answers table schema.
type surveyAnswerRow struct {
	ID         string  `json:"id"`
	ResponseID string  `json:"response_id"`
	QuestionID string  `json:"question_id"`
	ScaleValue *int    `json:"scale_value"`
	TextValue  *string `json:"text_value"`
	BoolValue  *bool   `json:"bool_value"`
}

func (r *surveyAnswerRow) toDomain() domain.SurveyAnswer {
	return domain.SurveyAnswer{
		ID:         r.ID,
		ResponseID: r.ResponseID,
		QuestionID: r.QuestionID,
		ScaleValue: r.ScaleValue,
		TextValue:  r.TextValue,
		BoolValue:  r.BoolValue,
	}
}

func toAnswerRows(answers []domain.SurveyAnswer) []surveyAnswerRow {
	rows := make([]surveyAnswerRow, len(answers))
	for i, a := range answers {
		rows[i] = surveyAnswerRow{
			ID:         a.ID,
			ResponseID: a.ResponseID,
			QuestionID: a.QuestionID,
			ScaleValue: a.ScaleValue,
			TextValue:  a.TextValue,
			BoolValue:  a.BoolValue,
		}
	}
	return rows
}

func (s *Store) CreateSurvey(ctx context.Context, survey *domain.Survey) (*domain.Survey, error) {
	var rows []surveyRow
	if err := s.req.Do(ctx, http.MethodPost, "/surveys", http.StatusCreated, toSurveyRow(survey), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("survey insert returned no rows: %w", domain.ErrUnavailable)
	}
	created := rows[0].toDomain()
	return &created, nil
}

// GetSurvey fetches the survey row and its questions in display order.
func (s *Store) GetSurvey(ctx context.Context, id string) (*domain.Survey, error) {
	var rows []surveyRow
	if err := s.req.Do(ctx, http.MethodGet, "/surveys?id="+eq(id), http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("survey %s: %w", id, domain.ErrNotFound)
	}
	survey := rows[0].toDomain()

	var questionRows []surveyQuestionRow
	// created_at then id break order_index ties in insertion order.
	qPath := "/survey_questions?survey_id=" + eq(id) + "&order=order_index.asc,created_at.asc,id.asc"
	if err := s.req.Do(ctx, http.MethodGet, qPath, http.StatusOK, nil, &questionRows); err != nil {
		return nil, err
	}
	survey.Questions = make([]domain.SurveyQuestion, len(questionRows))
	for i := range questionRows {
		survey.Questions[i] = questionRows[i].toDomain()
	}

	return &survey, nil
}

func (s *Store) UpdateSurvey(ctx context.Context, survey *domain.Survey) (*domain.Survey, error) {
	patch := map[string]any{
		"title":       survey.Title,
		"description": survey.Description,
		"updated_at":  formatTime(survey.UpdatedAt),
	}

	var rows []surveyRow
	path := "/surveys?id=" + eq(survey.ID)
	if err := s.req.Do(ctx, http.MethodPatch, path, http.StatusOK, patch, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("survey %s: %w", survey.ID, domain.ErrNotFound)
	}
	updated := rows[0].toDomain()
	return &updated, nil
}

// DeleteSurvey removes the survey row. Questions, responses, and answers
// are declared ON DELETE CASCADE in the row-store schema.
func (s *Store) DeleteSurvey(ctx context.Context, id string) error {
	return s.req.Do(ctx, http.MethodDelete, "/surveys?id="+eq(id), http.StatusNoContent, nil, nil)
}

// ListSurveys returns the account's surveys without questions attached.
func (s *Store) ListSurveys(ctx context.Context, accountID string) ([]domain.Survey, error) {
	path := "/surveys?account_id=" + eq(accountID) + "&order=id.asc"

	var rows []surveyRow
	if err := s.req.Do(ctx, http.MethodGet, path, http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.Survey, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (s *Store) CreateSurveyQuestions(ctx context.Context, questions []domain.SurveyQuestion) error {
	return s.req.Do(ctx, http.MethodPost, "/survey_questions", http.StatusCreated, toQuestionRows(questions), nil)
}

// createSurveyRPC is the request body for the atomic survey procedure.
type createSurveyRPC struct {
	ActorID   string              `json:"actor_id"`
	Survey    surveyRow           `json:"survey"`
	Questions []surveyQuestionRow `json:"questions"`
}

// CreateSurveyWithQuestions calls the server-side create_survey_with_questions
// procedure, which inserts the survey and all its questions in one
// transaction after re-verifying the actor's account membership. When the
// row-store does not expose the procedure, the translated error unwraps to
// domain.ErrAtomicUnsupported and the caller falls back to compensating
// writes.
func (s *Store) CreateSurveyWithQuestions(ctx context.Context, actorID string, survey *domain.Survey, questions []domain.SurveyQuestion) (*domain.Survey, error) {
	body := createSurveyRPC{
		ActorID:   actorID,
		Survey:    toSurveyRow(survey),
		Questions: toQuestionRows(questions),
	}

	var row surveyRow
	if err := s.req.Do(ctx, http.MethodPost, "/rpc/create_survey_with_questions", http.StatusOK, body, &row); err != nil {
		return nil, err
	}

	created := row.toDomain()
	created.Questions = survey.Questions
	return &created, nil
}

// CreateSurveyResponse inserts the response row and then its answers. The
// row-store has no multi-table transaction endpoint for this pair, so a
// failed answer insert is compensated by deleting the response, which
// cascades over any answers that did land.
func (s *Store) CreateSurveyResponse(ctx context.Context, response *domain.SurveyResponse, answers []domain.SurveyAnswer) (*domain.SurveyResponse, error) {
	row := surveyResponseRow{
		ID:           response.ID,
		SurveyID:     response.SurveyID,
		SprintID:     response.SprintID,
		UserID:       response.UserID,
		Confidential: response.Confidential,
		SubmittedAt:  formatTime(response.SubmittedAt),
	}

	var rows []surveyResponseRow
	if err := s.req.Do(ctx, http.MethodPost, "/survey_responses", http.StatusCreated, row, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("survey response insert returned no rows: %w", domain.ErrUnavailable)
	}

	if len(answers) > 0 {
		if err := s.req.Do(ctx, http.MethodPost, "/survey_answers", http.StatusCreated, toAnswerRows(answers), nil); err != nil {
			if delErr := s.DeleteSurveyResponse(ctx, response.ID); delErr != nil {
				s.logger.ErrorContext(ctx, "failed to roll back survey response after answer insert failure",
					"response_id", response.ID,
					"error", delErr,
				)
			}
			return nil, err
		}
	}

	created := rows[0].toDomain()
	created.Answers = answers
	return &created, nil
}

// GetSurveyResponse fetches the response row and its answers.
func (s *Store) GetSurveyResponse(ctx context.Context, id string) (*domain.SurveyResponse, error) {
	var rows []surveyResponseRow
	if err := s.req.Do(ctx, http.MethodGet, "/survey_responses?id="+eq(id), http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("survey response %s: %w", id, domain.ErrNotFound)
	}
	response := rows[0].toDomain()

	var answerRows []surveyAnswerRow
	aPath := "/survey_answers?response_id=" + eq(id) + "&order=id.asc"
	if err := s.req.Do(ctx, http.MethodGet, aPath, http.StatusOK, nil, &answerRows); err != nil {
		return nil, err
	}
	response.Answers = make([]domain.SurveyAnswer, len(answerRows))
	for i := range answerRows {
		response.Answers[i] = answerRows[i].toDomain()
	}

	return &response, nil
}

// DeleteSurveyResponse removes the response row; its answers are declared
// ON DELETE CASCADE.
func (s *Store) DeleteSurveyResponse(ctx context.Context, id string) error {
	return s.req.Do(ctx, http.MethodDelete, "/survey_responses?id="+eq(id), http.StatusNoContent, nil, nil)
}

// ListSurveyResponses returns responses for a survey in a sprint, without
// answers attached.
func (s *Store) ListSurveyResponses(ctx context.Context, surveyID, sprintID string) ([]domain.SurveyResponse, error) {
	path := "/survey_responses?survey_id=" + eq(surveyID) + "&sprint_id=" + eq(sprintID) + "&order=id.asc"

	var rows []surveyResponseRow
	if err := s.req.Do(ctx, http.MethodGet, path, http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.SurveyResponse, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}
