package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/platform/config"
	"github.com/sprintpulse/sprintpulse/internal/platform/httpclient"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// newTestClient creates an httpclient.Client pointing at the given test server
// with circuit breaker and retry configured for fast test execution.
func newTestClient(t *testing.T, baseURL string) *httpclient.Client {
	t.Helper()

	cfg := &config.RESTConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     10 * time.Millisecond,
			Multiplier:      1,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 1,
		},
	}

	return httpclient.New(cfg, "row-store-test", nil, slog.New(slog.DiscardHandler))
}

func newTestStore(t *testing.T, handler http.Handler) *Store {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return New(newTestClient(t, ts.URL), "test-service-key", slog.New(slog.DiscardHandler))
}

// writeJSON encodes v as JSON to the response writer, failing the test on error.
func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func TestGetAccount(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/accounts" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "eq.acct-a" {
			t.Errorf("id filter = %q, want %q", got, "eq.acct-a")
		}
		if got := r.Header.Get("apikey"); got != "test-service-key" {
			t.Errorf("apikey header = %q, want service key", got)
		}
		writeJSON(t, w, []map[string]any{{
			"id": "acct-a", "slug": "acme", "name": "Acme",
			"is_test_tenant": false,
			"created_at":     "2026-01-01T00:00:00Z",
			"updated_at":     "2026-01-01T00:00:00Z",
		}})
	}))

	account, err := store.GetAccount(context.Background(), "acct-a")
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if account.Slug != "acme" {
		t.Errorf("Slug = %q, want %q", account.Slug, "acme")
	}
	if account.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero, want parsed timestamp")
	}
}

func TestGetAccount_EmptyResultIsNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []map[string]any{})
	}))

	_, err := store.GetAccount(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetAccount() error = %v, want errors.Is(ErrNotFound)", err)
	}
}

func TestCreateTeam_SendsRepresentationPrefer(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/teams" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Prefer"); got != "return=representation" {
			t.Errorf("Prefer header = %q, want return=representation", got)
		}

		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		if row["name"] != "Platform" {
			t.Errorf("name = %v, want Platform", row["name"])
		}

		w.WriteHeader(http.StatusCreated)
		writeJSON(t, w, []map[string]any{{
			"id": "team-a", "account_id": "acct-a",
			"name": "Platform", "description": "",
			"created_at": "2026-01-01T00:00:00Z",
			"updated_at": "2026-01-01T00:00:00Z",
		}})
	}))

	team, err := store.CreateTeam(context.Background(), &domain.Team{
		ID:        "team-a",
		AccountID: "acct-a",
		Name:      "Platform",
	})
	if err != nil {
		t.Fatalf("CreateTeam() error = %v", err)
	}
	if team.ID != "team-a" {
		t.Errorf("ID = %q, want team-a", team.ID)
	}
}

func TestSoftDeleteTeam_PatchesLiveRowsOnly(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if got := r.URL.Query().Get("deleted_at"); got != "is.null" {
			t.Errorf("deleted_at filter = %q, want is.null", got)
		}

		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			t.Fatalf("decoding patch body: %v", err)
		}
		if _, ok := patch["deleted_at"]; !ok {
			t.Error("patch body missing deleted_at")
		}

		writeJSON(t, w, []map[string]any{{
			"id": "team-a", "account_id": "acct-a", "name": "Platform",
			"deleted_at": "2026-03-10T12:00:00Z",
		}})
	}))

	if err := store.SoftDeleteTeam(context.Background(), "team-a"); err != nil {
		t.Fatalf("SoftDeleteTeam() error = %v", err)
	}
}

func TestSoftDeleteTeam_AlreadyDeletedIsNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// No live row matched the filter.
		writeJSON(t, w, []map[string]any{})
	}))

	err := store.SoftDeleteTeam(context.Background(), "team-a")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("SoftDeleteTeam() error = %v, want errors.Is(ErrNotFound)", err)
	}
}

func TestListWorkItems_FilterQuery(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("team_id"); got != "eq.team-a" {
			t.Errorf("team_id = %q, want eq.team-a", got)
		}
		if got := q.Get("sprint_id"); got != "eq.spr-1" {
			t.Errorf("sprint_id = %q, want eq.spr-1", got)
		}
		if got := q.Get("status"); got != "eq.in_progress" {
			t.Errorf("status = %q, want eq.in_progress", got)
		}
		if q.Has("assignee_id") {
			t.Error("assignee_id filter present, want omitted for zero value")
		}
		writeJSON(t, w, []map[string]any{})
	}))

	_, err := store.ListWorkItems(context.Background(), ports.WorkItemFilter{
		TeamID:   "team-a",
		SprintID: "spr-1",
		Status:   domain.WorkItemInProgress,
	})
	if err != nil {
		t.Fatalf("ListWorkItems() error = %v", err)
	}
}

func TestGetSurvey_AttachesQuestionsInOrder(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/surveys":
			writeJSON(t, w, []map[string]any{{
				"id": "svy-1", "account_id": "acct-a",
				"title": "Retro", "description": "",
				"is_system_template": false,
			}})
		case "/survey_questions":
			want := "order_index.asc,created_at.asc,id.asc"
			if got := r.URL.Query().Get("order"); got != want {
				t.Errorf("order = %q, want %q", got, want)
			}
			writeJSON(t, w, []map[string]any{
				{"id": "q1", "survey_id": "svy-1", "prompt": "How did it go?", "answer_type": "text", "order_index": 0},
				{"id": "q2", "survey_id": "svy-1", "prompt": "Confidence?", "answer_type": "scale", "order_index": 1},
			})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))

	survey, err := store.GetSurvey(context.Background(), "svy-1")
	if err != nil {
		t.Fatalf("GetSurvey() error = %v", err)
	}
	if len(survey.Questions) != 2 {
		t.Fatalf("len(Questions) = %d, want 2", len(survey.Questions))
	}
	if survey.Questions[0].ID != "q1" || survey.Questions[1].ID != "q2" {
		t.Errorf("question order = %q, %q; want q1, q2", survey.Questions[0].ID, survey.Questions[1].ID)
	}
}

func TestCreateSurveyWithQuestions_MissingProcedure(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rpc/create_survey_with_questions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"PGRST202","message":"Could not find the function"}`))
	}))

	_, err := store.CreateSurveyWithQuestions(context.Background(), "u1",
		&domain.Survey{ID: "svy-1", AccountID: "acct-a", Title: "Retro"}, nil)

	if !errors.Is(err, domain.ErrAtomicUnsupported) {
		t.Errorf("CreateSurveyWithQuestions() error = %v, want errors.Is(ErrAtomicUnsupported)", err)
	}
}

func TestCreateSurveyWithQuestions_PassesActor(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding RPC body: %v", err)
		}
		if body["actor_id"] != "u1" {
			t.Errorf("actor_id = %v, want u1", body["actor_id"])
		}
		writeJSON(t, w, map[string]any{
			"id": "svy-1", "account_id": "acct-a", "title": "Retro",
		})
	}))

	survey, err := store.CreateSurveyWithQuestions(context.Background(), "u1",
		&domain.Survey{ID: "svy-1", AccountID: "acct-a", Title: "Retro"}, nil)
	if err != nil {
		t.Fatalf("CreateSurveyWithQuestions() error = %v", err)
	}
	if survey.ID != "svy-1" {
		t.Errorf("ID = %q, want svy-1", survey.ID)
	}
}

func TestCreateSurveyResponse_CompensatesOnAnswerFailure(t *testing.T) {
	t.Parallel()

	var deleted atomic.Bool
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/survey_responses":
			w.WriteHeader(http.StatusCreated)
			writeJSON(t, w, []map[string]any{{
				"id": "resp-1", "survey_id": "svy-1", "sprint_id": "spr-1", "user_id": "u1",
			}})
		case r.Method == http.MethodPost && r.URL.Path == "/survey_answers":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"code":"23503","message":"insert violates foreign key constraint \"survey_answers_question_id_fkey\" on table \"survey_answers\""}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/survey_responses":
			deleted.Store(true)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	scale := 4
	_, err := store.CreateSurveyResponse(context.Background(),
		&domain.SurveyResponse{ID: "resp-1", SurveyID: "svy-1", SprintID: "spr-1", UserID: "u1"},
		[]domain.SurveyAnswer{{ID: "ans-1", ResponseID: "resp-1", QuestionID: "q-missing", ScaleValue: &scale}},
	)

	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("CreateSurveyResponse() error = %v, want errors.Is(ErrConflict)", err)
	}
	if !deleted.Load() {
		t.Error("response row was not deleted after answer insert failure")
	}
}

func TestCountWorkItemsBySprint(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("select"); got != "id" {
			t.Errorf("select = %q, want id", got)
		}
		writeJSON(t, w, []map[string]any{{"id": "wi-1"}, {"id": "wi-2"}, {"id": "wi-3"}})
	}))

	count, err := store.CountWorkItemsBySprint(context.Background(), "spr-1")
	if err != nil {
		t.Fatalf("CountWorkItemsBySprint() error = %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestUpdateWorkItem_SendsNullableColumns(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			t.Fatalf("decoding patch body: %v", err)
		}
		// Cleared references must be present as explicit nulls.
		for _, col := range []string{"sprint_id", "assignee_id", "completed_at"} {
			v, ok := patch[col]
			if !ok {
				t.Errorf("patch missing %s", col)
				continue
			}
			if v != nil {
				t.Errorf("%s = %v, want null", col, v)
			}
		}
		writeJSON(t, w, []map[string]any{{
			"id": "wi-1", "account_id": "acct-a", "team_id": "team-a",
			"title": "Fix flaky test", "status": "todo", "type": "task", "provider": "native",
		}})
	}))

	item, err := store.UpdateWorkItem(context.Background(), &domain.WorkItem{
		ID:        "wi-1",
		AccountID: "acct-a",
		TeamID:    "team-a",
		Title:     "Fix flaky test",
		Status:    domain.WorkItemTodo,
		Type:      domain.WorkItemTask,
		Provider:  domain.ProviderNative,
	})
	if err != nil {
		t.Fatalf("UpdateWorkItem() error = %v", err)
	}
	if item.SprintID != nil {
		t.Errorf("SprintID = %v, want nil", *item.SprintID)
	}
}
