package handlers

import (
	"net/http"

	"github.com/sprintpulse/sprintpulse/internal/adapters/http/dto"
	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// SurveyHandler handles HTTP requests for surveys, questions, responses,
// and answers.
type SurveyHandler struct {
	svc ports.SurveyService
}

// NewSurveyHandler creates a new SurveyHandler with the given service port.
func NewSurveyHandler(svc ports.SurveyService) *SurveyHandler {
	return &SurveyHandler{svc: svc}
}

// CreateSurvey handles POST /api/v1/surveys. The survey and its questions
// are created as one logical unit.
func (h *SurveyHandler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.CreateSurveyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	survey := &domain.Survey{
		AccountID:   req.AccountID,
		TeamID:      req.TeamID,
		Title:       req.Title,
		Description: req.Description,
	}
	questions := make([]domain.SurveyQuestion, len(req.Questions))
	for i, q := range req.Questions {
		questions[i] = domain.SurveyQuestion{
			Prompt:     q.Prompt,
			AnswerType: domain.AnswerType(q.AnswerType),
			OrderIndex: q.OrderIndex,
		}
	}

	created, err := h.svc.CreateSurvey(r.Context(), actorID, survey, questions)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToSurveyResponse(created))
}

// GetSurvey handles GET /api/v1/surveys/{id}. The response carries the
// survey's questions in prompt order.
func (h *SurveyHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	survey, err := h.svc.GetSurvey(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSurveyResponse(survey))
}

// UpdateSurvey handles PATCH /api/v1/surveys/{id}. Absent fields keep
// their current values. Questions are immutable after creation.
func (h *SurveyHandler) UpdateSurvey(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateSurveyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	survey, err := h.svc.GetSurvey(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	if req.Title != nil {
		survey.Title = *req.Title
	}
	if req.Description != nil {
		survey.Description = *req.Description
	}

	updated, err := h.svc.UpdateSurvey(r.Context(), actorID, survey)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSurveyResponse(updated))
}

// DeleteSurvey handles DELETE /api/v1/surveys/{id}.
func (h *SurveyHandler) DeleteSurvey(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.DeleteSurvey(r.Context(), actorID, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSurveys handles GET /api/v1/surveys?account_id={id}. List entries
// omit questions.
func (h *SurveyHandler) ListSurveys(w http.ResponseWriter, r *http.Request) {
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

	surveys, err := h.svc.ListSurveys(r.Context(), actorID, accountID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSurveyListResponse(surveys))
}

// SubmitResponse handles POST /api/v1/survey-responses. The response is
// always recorded for the authenticated caller.
func (h *SurveyHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.SubmitResponseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	response := &domain.SurveyResponse{
		SurveyID:     req.SurveyID,
		SprintID:     req.SprintID,
		UserID:       actorID,
		Confidential: req.Confidential,
	}
	answers := make([]domain.SurveyAnswer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = domain.SurveyAnswer{
			QuestionID: a.QuestionID,
			ScaleValue: a.ScaleValue,
			TextValue:  a.TextValue,
			BoolValue:  a.BoolValue,
		}
	}

	created, err := h.svc.SubmitResponse(r.Context(), actorID, response, answers)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToSurveySubmissionResponse(created))
}

// GetResponse handles GET /api/v1/survey-responses/{id}. Responses outside
// the caller's visibility return 404.
func (h *SurveyHandler) GetResponse(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	response, err := h.svc.GetResponse(r.Context(), actorID, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSurveySubmissionResponse(response))
}

// DeleteResponse handles DELETE /api/v1/survey-responses/{id}.
func (h *SurveyHandler) DeleteResponse(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.DeleteResponse(r.Context(), actorID, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListResponses handles GET /api/v1/survey-responses?survey_id={id}&sprint_id={id}.
// Only responses within the caller's visibility are returned.
func (h *SurveyHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	surveyID := q.Get("survey_id")
	sprintID := q.Get("sprint_id")

	fields := make(map[string]string)
	if surveyID == "" {
		fields["survey_id"] = "is required"
	}
	if sprintID == "" {
		fields["sprint_id"] = "is required"
	}
	if len(fields) > 0 {
		dto.WriteErrorResponse(w, r, &domain.ValidationError{Fields: fields})
		return
	}

	responses, err := h.svc.ListResponses(r.Context(), actorID, surveyID, sprintID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSurveySubmissionListResponse(responses))
}
