package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sprintpulse/sprintpulse/internal/adapters/http/middleware"
	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

const testActor = "user-1"

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

var errNotStubbed = errors.New("not stubbed")

// authedRequest builds a request carrying the test actor, with optional
// chi URL params.
func authedRequest(method, target string, body *bytes.Buffer, params map[string]string) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, body)
	} else {
		r = httptest.NewRequest(method, target, http.NoBody)
	}

	ctx := middleware.WithActor(r.Context(), testActor)
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return r.WithContext(ctx)
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

func validTeam() *domain.Team {
	return &domain.Team{
		ID:          "team-1",
		AccountID:   "acct-a",
		Name:        "Platform",
		Description: "Platform engineering",
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
}

func validWorkItem() *domain.WorkItem {
	return &domain.WorkItem{
		ID:        "w-1",
		AccountID: "acct-a",
		TeamID:    "team-1",
		Title:     "Fix login",
		Status:    domain.WorkItemTodo,
		Type:      domain.WorkItemBug,
		Provider:  domain.ProviderNative,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

// Per-service fakes with overridable func fields. Unstubbed methods fail
// with errNotStubbed so tests only wire what they exercise.

type fakeAccountService struct {
	getAccount    func(ctx context.Context, actorID, accountID string) (*domain.Account, error)
	updateAccount func(ctx context.Context, actorID, accountID string, change ports.AccountChange) (*domain.Account, error)
	deleteAccount func(ctx context.Context, actorID, accountID string) error
	joinAccount   func(ctx context.Context, actorID string, m *domain.AccountMembership) (*domain.AccountMembership, error)
}

func (f *fakeAccountService) GetAccount(ctx context.Context, actorID, accountID string) (*domain.Account, error) {
	if f.getAccount == nil {
		return nil, errNotStubbed
	}
	return f.getAccount(ctx, actorID, accountID)
}

func (f *fakeAccountService) UpdateAccount(ctx context.Context, actorID, accountID string, change ports.AccountChange) (*domain.Account, error) {
	if f.updateAccount == nil {
		return nil, errNotStubbed
	}
	return f.updateAccount(ctx, actorID, accountID, change)
}

func (f *fakeAccountService) DeleteAccount(ctx context.Context, actorID, accountID string) error {
	if f.deleteAccount == nil {
		return errNotStubbed
	}
	return f.deleteAccount(ctx, actorID, accountID)
}

func (f *fakeAccountService) JoinAccount(ctx context.Context, actorID string, m *domain.AccountMembership) (*domain.AccountMembership, error) {
	if f.joinAccount == nil {
		return nil, errNotStubbed
	}
	return f.joinAccount(ctx, actorID, m)
}

type fakeTeamService struct {
	createTeam func(ctx context.Context, actorID string, team *domain.Team) (*ports.TeamCreation, error)
	getTeam    func(ctx context.Context, actorID, teamID string) (*domain.Team, error)
	updateTeam func(ctx context.Context, actorID string, team *domain.Team) (*domain.Team, error)
	deleteTeam func(ctx context.Context, actorID, teamID string) error
	listTeams  func(ctx context.Context, actorID, accountID string) ([]domain.Team, error)
	joinTeam   func(ctx context.Context, actorID string, m *domain.TeamMembership) (*domain.TeamMembership, error)
}

func (f *fakeTeamService) CreateTeam(ctx context.Context, actorID string, team *domain.Team) (*ports.TeamCreation, error) {
	if f.createTeam == nil {
		return nil, errNotStubbed
	}
	return f.createTeam(ctx, actorID, team)
}

func (f *fakeTeamService) GetTeam(ctx context.Context, actorID, teamID string) (*domain.Team, error) {
	if f.getTeam == nil {
		return nil, errNotStubbed
	}
	return f.getTeam(ctx, actorID, teamID)
}

func (f *fakeTeamService) UpdateTeam(ctx context.Context, actorID string, team *domain.Team) (*domain.Team, error) {
	if f.updateTeam == nil {
		return nil, errNotStubbed
	}
	return f.updateTeam(ctx, actorID, team)
}

func (f *fakeTeamService) DeleteTeam(ctx context.Context, actorID, teamID string) error {
	if f.deleteTeam == nil {
		return errNotStubbed
	}
	return f.deleteTeam(ctx, actorID, teamID)
}

func (f *fakeTeamService) ListTeams(ctx context.Context, actorID, accountID string) ([]domain.Team, error) {
	if f.listTeams == nil {
		return nil, errNotStubbed
	}
	return f.listTeams(ctx, actorID, accountID)
}

func (f *fakeTeamService) JoinTeam(ctx context.Context, actorID string, m *domain.TeamMembership) (*domain.TeamMembership, error) {
	if f.joinTeam == nil {
		return nil, errNotStubbed
	}
	return f.joinTeam(ctx, actorID, m)
}

type fakeSprintService struct {
	createSprint func(ctx context.Context, actorID string, sprint *domain.Sprint) (*domain.Sprint, error)
	getSprint    func(ctx context.Context, actorID, sprintID string) (*domain.Sprint, error)
	updateSprint func(ctx context.Context, actorID, sprintID string, change ports.SprintChange) (*domain.Sprint, error)
	deleteSprint func(ctx context.Context, actorID, sprintID string) error
	listSprints  func(ctx context.Context, actorID, teamID string) ([]domain.Sprint, error)
}

func (f *fakeSprintService) CreateSprint(ctx context.Context, actorID string, sprint *domain.Sprint) (*domain.Sprint, error) {
	if f.createSprint == nil {
		return nil, errNotStubbed
	}
	return f.createSprint(ctx, actorID, sprint)
}

func (f *fakeSprintService) GetSprint(ctx context.Context, actorID, sprintID string) (*domain.Sprint, error) {
	if f.getSprint == nil {
		return nil, errNotStubbed
	}
	return f.getSprint(ctx, actorID, sprintID)
}

func (f *fakeSprintService) UpdateSprint(ctx context.Context, actorID, sprintID string, change ports.SprintChange) (*domain.Sprint, error) {
	if f.updateSprint == nil {
		return nil, errNotStubbed
	}
	return f.updateSprint(ctx, actorID, sprintID, change)
}

func (f *fakeSprintService) DeleteSprint(ctx context.Context, actorID, sprintID string) error {
	if f.deleteSprint == nil {
		return errNotStubbed
	}
	return f.deleteSprint(ctx, actorID, sprintID)
}

func (f *fakeSprintService) ListSprints(ctx context.Context, actorID, teamID string) ([]domain.Sprint, error) {
	if f.listSprints == nil {
		return nil, errNotStubbed
	}
	return f.listSprints(ctx, actorID, teamID)
}

type fakeWorkItemService struct {
	createWorkItem   func(ctx context.Context, actorID string, item *domain.WorkItem) (*domain.WorkItem, error)
	getWorkItem      func(ctx context.Context, actorID, itemID string) (*domain.WorkItem, error)
	updateWorkItem   func(ctx context.Context, actorID, itemID string, change ports.WorkItemChange) (*domain.WorkItem, error)
	deleteWorkItem   func(ctx context.Context, actorID, itemID string) error
	listWorkItems    func(ctx context.Context, actorID string, filter ports.WorkItemFilter) ([]domain.WorkItem, error)
	bulkUpdateStatus func(ctx context.Context, actorID string, updates []ports.StatusUpdate) (*ports.BulkStatusResult, error)
}

func (f *fakeWorkItemService) CreateWorkItem(ctx context.Context, actorID string, item *domain.WorkItem) (*domain.WorkItem, error) {
	if f.createWorkItem == nil {
		return nil, errNotStubbed
	}
	return f.createWorkItem(ctx, actorID, item)
}

func (f *fakeWorkItemService) GetWorkItem(ctx context.Context, actorID, itemID string) (*domain.WorkItem, error) {
	if f.getWorkItem == nil {
		return nil, errNotStubbed
	}
	return f.getWorkItem(ctx, actorID, itemID)
}

func (f *fakeWorkItemService) UpdateWorkItem(ctx context.Context, actorID, itemID string, change ports.WorkItemChange) (*domain.WorkItem, error) {
	if f.updateWorkItem == nil {
		return nil, errNotStubbed
	}
	return f.updateWorkItem(ctx, actorID, itemID, change)
}

func (f *fakeWorkItemService) DeleteWorkItem(ctx context.Context, actorID, itemID string) error {
	if f.deleteWorkItem == nil {
		return errNotStubbed
	}
	return f.deleteWorkItem(ctx, actorID, itemID)
}

func (f *fakeWorkItemService) ListWorkItems(ctx context.Context, actorID string, filter ports.WorkItemFilter) ([]domain.WorkItem, error) {
	if f.listWorkItems == nil {
		return nil, errNotStubbed
	}
	return f.listWorkItems(ctx, actorID, filter)
}

func (f *fakeWorkItemService) BulkUpdateStatus(ctx context.Context, actorID string, updates []ports.StatusUpdate) (*ports.BulkStatusResult, error) {
	if f.bulkUpdateStatus == nil {
		return nil, errNotStubbed
	}
	return f.bulkUpdateStatus(ctx, actorID, updates)
}

type fakeSurveyService struct {
	createSurvey   func(ctx context.Context, actorID string, survey *domain.Survey, questions []domain.SurveyQuestion) (*domain.Survey, error)
	getSurvey      func(ctx context.Context, actorID, surveyID string) (*domain.Survey, error)
	updateSurvey   func(ctx context.Context, actorID string, survey *domain.Survey) (*domain.Survey, error)
	deleteSurvey   func(ctx context.Context, actorID, surveyID string) error
	listSurveys    func(ctx context.Context, actorID, accountID string) ([]domain.Survey, error)
	submitResponse func(ctx context.Context, actorID string, response *domain.SurveyResponse, answers []domain.SurveyAnswer) (*domain.SurveyResponse, error)
	getResponse    func(ctx context.Context, actorID, responseID string) (*domain.SurveyResponse, error)
	deleteResponse func(ctx context.Context, actorID, responseID string) error
	listResponses  func(ctx context.Context, actorID, surveyID, sprintID string) ([]domain.SurveyResponse, error)
}

func (f *fakeSurveyService) CreateSurvey(ctx context.Context, actorID string, survey *domain.Survey, questions []domain.SurveyQuestion) (*domain.Survey, error) {
	if f.createSurvey == nil {
		return nil, errNotStubbed
	}
	return f.createSurvey(ctx, actorID, survey, questions)
}

func (f *fakeSurveyService) GetSurvey(ctx context.Context, actorID, surveyID string) (*domain.Survey, error) {
	if f.getSurvey == nil {
		return nil, errNotStubbed
	}
	return f.getSurvey(ctx, actorID, surveyID)
}

func (f *fakeSurveyService) UpdateSurvey(ctx context.Context, actorID string, survey *domain.Survey) (*domain.Survey, error) {
	if f.updateSurvey == nil {
		return nil, errNotStubbed
	}
	return f.updateSurvey(ctx, actorID, survey)
}

func (f *fakeSurveyService) DeleteSurvey(ctx context.Context, actorID, surveyID string) error {
	if f.deleteSurvey == nil {
		return errNotStubbed
	}
	return f.deleteSurvey(ctx, actorID, surveyID)
}

func (f *fakeSurveyService) ListSurveys(ctx context.Context, actorID, accountID string) ([]domain.Survey, error) {
	if f.listSurveys == nil {
		return nil, errNotStubbed
	}
	return f.listSurveys(ctx, actorID, accountID)
}

func (f *fakeSurveyService) SubmitResponse(ctx context.Context, actorID string, response *domain.SurveyResponse, answers []domain.SurveyAnswer) (*domain.SurveyResponse, error) {
	if f.submitResponse == nil {
		return nil, errNotStubbed
	}
	return f.submitResponse(ctx, actorID, response, answers)
}

func (f *fakeSurveyService) GetResponse(ctx context.Context, actorID, responseID string) (*domain.SurveyResponse, error) {
	if f.getResponse == nil {
		return nil, errNotStubbed
	}
	return f.getResponse(ctx, actorID, responseID)
}

func (f *fakeSurveyService) DeleteResponse(ctx context.Context, actorID, responseID string) error {
	if f.deleteResponse == nil {
		return errNotStubbed
	}
	return f.deleteResponse(ctx, actorID, responseID)
}

func (f *fakeSurveyService) ListResponses(ctx context.Context, actorID, surveyID, sprintID string) ([]domain.SurveyResponse, error) {
	if f.listResponses == nil {
		return nil, errNotStubbed
	}
	return f.listResponses(ctx, actorID, surveyID, sprintID)
}

type fakeKudosService struct {
	sendKudos   func(ctx context.Context, actorID string, kudos *domain.Kudos) (*domain.Kudos, error)
	getKudos    func(ctx context.Context, actorID, kudosID string) (*domain.Kudos, error)
	deleteKudos func(ctx context.Context, actorID, kudosID string) error
	listKudos   func(ctx context.Context, actorID, teamID string) ([]domain.Kudos, error)
}

func (f *fakeKudosService) SendKudos(ctx context.Context, actorID string, kudos *domain.Kudos) (*domain.Kudos, error) {
	if f.sendKudos == nil {
		return nil, errNotStubbed
	}
	return f.sendKudos(ctx, actorID, kudos)
}

func (f *fakeKudosService) GetKudos(ctx context.Context, actorID, kudosID string) (*domain.Kudos, error) {
	if f.getKudos == nil {
		return nil, errNotStubbed
	}
	return f.getKudos(ctx, actorID, kudosID)
}

func (f *fakeKudosService) DeleteKudos(ctx context.Context, actorID, kudosID string) error {
	if f.deleteKudos == nil {
		return errNotStubbed
	}
	return f.deleteKudos(ctx, actorID, kudosID)
}

func (f *fakeKudosService) ListKudos(ctx context.Context, actorID, teamID string) ([]domain.Kudos, error) {
	if f.listKudos == nil {
		return nil, errNotStubbed
	}
	return f.listKudos(ctx, actorID, teamID)
}
