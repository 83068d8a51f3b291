package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sprintpulse/sprintpulse/internal/app/writeset"
	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/policy"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// Compile-time check that SurveyService implements ports.SurveyService.
var _ ports.SurveyService = (*SurveyService)(nil)

// SurveyService implements ports.SurveyService. Survey and question writes
// require the team lead role; responses are self-scoped with an
// author-plus-leads visibility closure.
type SurveyService struct {
	store  ports.Store
	logger *slog.Logger
	now    nowFunc
}

// NewSurveyService creates a SurveyService backed by the given store.
func NewSurveyService(store ports.Store, logger *slog.Logger) *SurveyService {
	return &SurveyService{store: store, logger: logger, now: time.Now}
}

// CreateSurvey creates the survey and its questions as one logical unit.
//
// The store's atomic procedure is tried first: one call, all rows or none.
// Backends without the procedure report ErrAtomicUnsupported, and the
// service falls back to a compensating two-step write set where a failed
// question insert rolls the survey row back. A crash between the two
// fallback steps can leave a question-less survey behind; that window is
// the documented cost of the fallback.
func (s *SurveyService) CreateSurvey(ctx context.Context, actorID string, survey *domain.Survey, questions []domain.SurveyQuestion) (*domain.Survey, error) {
	// The target team is the one structural prerequisite for the access
	// decision; everything else validates after the decision so an
	// unauthorized caller learns nothing past the deny.
	if survey.TeamID == nil || *survey.TeamID == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{"team_id": "is required"}}
	}

	team, err := s.store.GetTeam(ctx, *survey.TeamID)
	if err != nil {
		return nil, err
	}

	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbCreate, policy.Target{
		Kind:      policy.KindSurvey,
		AccountID: team.AccountID,
		TeamID:    team.ID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	fields := make(map[string]string)
	requireNonEmpty(fields, "account_id", survey.AccountID)
	requireNonEmpty(fields, "title", survey.Title)
	if survey.AccountID != "" && survey.AccountID != team.AccountID {
		fields["team_id"] = "team belongs to a different account"
	}
	if survey.IsSystemTemplate {
		fields["is_system_template"] = "system templates cannot be created through the API"
	}
	for i, q := range questions {
		if q.Prompt == "" {
			fields[fmt.Sprintf("questions[%d].prompt", i)] = "is required"
		}
		if !q.AnswerType.IsValid() {
			fields[fmt.Sprintf("questions[%d].answer_type", i)] = "must be one of scale, text, boolean"
		}
	}
	if err := validationErr(fields); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	survey.ID = uuid.NewString()
	survey.CreatedAt = now
	survey.UpdatedAt = now
	for i := range questions {
		questions[i].ID = uuid.NewString()
		questions[i].SurveyID = survey.ID
		questions[i].CreatedAt = now
	}

	created, err := s.store.CreateSurveyWithQuestions(ctx, actorID, survey, questions)
	switch {
	case err == nil:
		return created, nil
	case errors.Is(err, domain.ErrAtomicUnsupported):
		s.logger.InfoContext(ctx, "atomic survey creation unsupported, using compensating writes",
			slog.String("operation", "CreateSurvey"),
			slog.String("survey_id", survey.ID),
		)
		return s.createSurveyCompensating(ctx, survey, questions)
	default:
		s.logger.ErrorContext(ctx, "atomic survey creation failed",
			slog.String("operation", "CreateSurvey"),
			slog.String("survey_id", survey.ID),
			slog.Any("error", err),
		)
		return nil, err
	}
}

// createSurveyCompensating sequences the survey and question inserts as a
// write set. Deleting the survey row cascades through questions, so it
// serves as the compensating action for both steps.
func (s *SurveyService) createSurveyCompensating(ctx context.Context, survey *domain.Survey, questions []domain.SurveyQuestion) (*domain.Survey, error) {
	var created *domain.Survey

	ws := writeset.New()
	if err := ws.Add(writeset.Func{
		Desc: "insert survey",
		Do: func(ctx context.Context) error {
			var err error
			created, err = s.store.CreateSurvey(ctx, survey)
			return err
		},
		Undo: func(ctx context.Context) error {
			return s.store.DeleteSurvey(ctx, survey.ID)
		},
	}); err != nil {
		return nil, err
	}
	if len(questions) > 0 {
		if err := ws.Add(writeset.Func{
			Desc: "insert survey questions",
			Do: func(ctx context.Context) error {
				return s.store.CreateSurveyQuestions(ctx, questions)
			},
		}); err != nil {
			return nil, err
		}
	}

	if err := ws.Commit(ctx); err != nil {
		return nil, err
	}

	created.Questions = questions
	domain.SortQuestions(created.Questions)
	return created, nil
}

// GetSurvey returns the survey with its questions. System templates are
// readable by any authenticated actor; everything else needs account
// membership.
func (s *SurveyService) GetSurvey(ctx context.Context, actorID, surveyID string) (*domain.Survey, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	survey, err := s.store.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbRead, surveyTarget(survey))
	if err := decision.Err(); err != nil {
		return nil, err
	}

	domain.SortQuestions(survey.Questions)
	return survey, nil
}

// UpdateSurvey updates survey metadata. Requires the team lead role;
// system templates are immutable.
func (s *SurveyService) UpdateSurvey(ctx context.Context, actorID string, survey *domain.Survey) (*domain.Survey, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetSurvey(ctx, survey.ID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbUpdate, surveyTarget(existing))
	if err := decision.Err(); err != nil {
		return nil, err
	}

	fields := make(map[string]string)
	requireNonEmpty(fields, "title", survey.Title)
	if err := validationErr(fields); err != nil {
		return nil, err
	}

	existing.Title = survey.Title
	existing.Description = survey.Description
	existing.UpdatedAt = s.now().UTC()

	return s.store.UpdateSurvey(ctx, existing)
}

// DeleteSurvey removes the survey; questions and responses cascade.
func (s *SurveyService) DeleteSurvey(ctx context.Context, actorID, surveyID string) error {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return err
	}

	survey, err := s.store.GetSurvey(ctx, surveyID)
	if err != nil {
		return err
	}

	decision := policy.Evaluate(actor, policy.VerbDelete, surveyTarget(survey))
	if err := decision.Err(); err != nil {
		return err
	}

	resolution := policy.ResolveDeletion(policy.KindSurvey, nil)
	if err := resolution.Err(); err != nil {
		return err
	}

	return s.store.DeleteSurvey(ctx, surveyID)
}

// ListSurveys returns the account's surveys, system templates included.
func (s *SurveyService) ListSurveys(ctx context.Context, actorID, accountID string) ([]domain.Survey, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbRead, policy.Target{
		Kind:      policy.KindSurvey,
		AccountID: accountID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	return s.store.ListSurveys(ctx, accountID)
}

// SubmitResponse records the actor's response with its answers in one
// store call. The author is always the actor; every answer must reference
// a question of the survey and satisfy value exclusivity against it.
func (s *SurveyService) SubmitResponse(ctx context.Context, actorID string, response *domain.SurveyResponse, answers []domain.SurveyAnswer) (*domain.SurveyResponse, error) {
	fields := make(map[string]string)
	requireNonEmpty(fields, "survey_id", response.SurveyID)
	requireNonEmpty(fields, "sprint_id", response.SprintID)
	if err := validationErr(fields); err != nil {
		return nil, err
	}

	survey, err := s.store.GetSurvey(ctx, response.SurveyID)
	if err != nil {
		return nil, err
	}
	sprint, err := s.store.GetSprint(ctx, response.SprintID)
	if err != nil {
		return nil, err
	}
	if sprint.AccountID != survey.AccountID {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"sprint_id": "sprint belongs to a different account",
		}}
	}

	response.UserID = actorID

	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbCreate, policy.Target{
		Kind:        policy.KindSurveyResponse,
		AccountID:   survey.AccountID,
		OwnerUserID: response.UserID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	questionsByID := make(map[string]domain.SurveyQuestion, len(survey.Questions))
	for _, q := range survey.Questions {
		questionsByID[q.ID] = q
	}

	now := s.now().UTC()
	response.ID = uuid.NewString()
	response.SubmittedAt = now
	for i := range answers {
		question, ok := questionsByID[answers[i].QuestionID]
		if !ok {
			return nil, &domain.ValidationError{Fields: map[string]string{
				fmt.Sprintf("answers[%d].question_id", i): "question does not belong to the survey",
			}}
		}
		if verr := policy.AnswerExclusivity(question, answers[i]); verr != nil {
			return nil, verr
		}
		answers[i].ID = uuid.NewString()
		answers[i].ResponseID = response.ID
	}

	created, err := s.store.CreateSurveyResponse(ctx, response, answers)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create survey response",
			slog.String("operation", "SubmitResponse"),
			slog.String("survey_id", response.SurveyID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// GetResponse returns the response with its answers when the actor is
// inside the visibility closure: the author, or a lead of the sprint's
// team. Anyone else gets not-found, never forbidden, so response existence
// does not leak.
func (s *SurveyService) GetResponse(ctx context.Context, actorID, responseID string) (*domain.SurveyResponse, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	response, err := s.store.GetSurveyResponse(ctx, responseID)
	if err != nil {
		return nil, err
	}

	target, err := s.responseTarget(ctx, response)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbRead, target)
	if err := decision.Err(); err != nil {
		return nil, err
	}

	return response, nil
}

// DeleteResponse removes a response and its answers. Author only.
func (s *SurveyService) DeleteResponse(ctx context.Context, actorID, responseID string) error {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return err
	}

	response, err := s.store.GetSurveyResponse(ctx, responseID)
	if err != nil {
		return err
	}

	target, err := s.responseTarget(ctx, response)
	if err != nil {
		return err
	}

	decision := policy.Evaluate(actor, policy.VerbDelete, target)
	if err := decision.Err(); err != nil {
		return err
	}

	return s.store.DeleteSurveyResponse(ctx, responseID)
}

// ListResponses returns the responses for a (survey, sprint) pair filtered
// down to the actor's visibility closure. An actor outside the closure
// sees an empty list, not an error.
func (s *SurveyService) ListResponses(ctx context.Context, actorID, surveyID, sprintID string) ([]domain.SurveyResponse, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	survey, err := s.store.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	sprint, err := s.store.GetSprint(ctx, sprintID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbRead, policy.Target{
		Kind:      policy.KindSprint,
		AccountID: survey.AccountID,
		TeamID:    sprint.TeamID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	responses, err := s.store.ListSurveyResponses(ctx, surveyID, sprintID)
	if err != nil {
		return nil, err
	}

	visible := make([]domain.SurveyResponse, 0, len(responses))
	for _, r := range responses {
		d := policy.Evaluate(actor, policy.VerbRead, policy.Target{
			Kind:         policy.KindSurveyResponse,
			AccountID:    survey.AccountID,
			OwnerUserID:  r.UserID,
			SprintTeamID: sprint.TeamID,
			Confidential: r.Confidential,
		})
		if d.Allowed {
			visible = append(visible, r)
		}
	}

	return visible, nil
}

// responseTarget assembles the evaluator facts for a response: its
// survey's account and its sprint's team.
func (s *SurveyService) responseTarget(ctx context.Context, response *domain.SurveyResponse) (policy.Target, error) {
	survey, err := s.store.GetSurvey(ctx, response.SurveyID)
	if err != nil {
		return policy.Target{}, err
	}
	sprint, err := s.store.GetSprint(ctx, response.SprintID)
	if err != nil {
		return policy.Target{}, err
	}

	return policy.Target{
		Kind:         policy.KindSurveyResponse,
		AccountID:    survey.AccountID,
		OwnerUserID:  response.UserID,
		SprintTeamID: sprint.TeamID,
		Confidential: response.Confidential,
	}, nil
}

// surveyTarget reduces a survey row to evaluator facts.
func surveyTarget(survey *domain.Survey) policy.Target {
	t := policy.Target{
		Kind:           policy.KindSurvey,
		AccountID:      survey.AccountID,
		SystemTemplate: survey.IsTemplate(),
	}
	if survey.TeamID != nil {
		t.TeamID = *survey.TeamID
	}
	return t
}
