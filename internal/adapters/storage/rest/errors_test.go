package rest

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/sprintpulse/sprintpulse/internal/domain"
)

func errorResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestTranslateHTTPError_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{
			name:       "404 maps to ErrNotFound",
			statusCode: http.StatusNotFound,
			wantErr:    domain.ErrNotFound,
		},
		{
			name:       "406 maps to ErrNotFound",
			statusCode: http.StatusNotAcceptable,
			wantErr:    domain.ErrNotFound,
		},
		{
			name:       "400 maps to ErrValidation",
			statusCode: http.StatusBadRequest,
			wantErr:    domain.ErrValidation,
		},
		{
			name:       "422 maps to ErrValidation",
			statusCode: http.StatusUnprocessableEntity,
			wantErr:    domain.ErrValidation,
		},
		{
			name:       "409 maps to ErrConflict",
			statusCode: http.StatusConflict,
			wantErr:    domain.ErrConflict,
		},
		{
			name:       "401 maps to ErrForbidden",
			statusCode: http.StatusUnauthorized,
			wantErr:    domain.ErrForbidden,
		},
		{
			name:       "403 maps to ErrForbidden",
			statusCode: http.StatusForbidden,
			wantErr:    domain.ErrForbidden,
		},
		{
			name:       "429 maps to ErrUnavailable",
			statusCode: http.StatusTooManyRequests,
			wantErr:    domain.ErrUnavailable,
		},
		{
			name:       "500 maps to ErrUnavailable",
			statusCode: http.StatusInternalServerError,
			wantErr:    domain.ErrUnavailable,
		},
		{
			name:       "502 maps to ErrUnavailable",
			statusCode: http.StatusBadGateway,
			wantErr:    domain.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := TranslateHTTPError(errorResponse(tt.statusCode, `{}`))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("TranslateHTTPError(%d) = %v, want errors.Is(%v)", tt.statusCode, err, tt.wantErr)
			}
		})
	}
}

func TestTranslateHTTPError_UniqueViolation(t *testing.T) {
	t.Parallel()

	body := `{
		"code": "23505",
		"message": "duplicate key value violates unique constraint \"account_memberships_pkey\"",
		"details": "Key (account_id, user_id)=(acct-a, u1) already exists."
	}`

	err := TranslateHTTPError(errorResponse(http.StatusConflict, body))

	var ce *domain.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("TranslateHTTPError = %v (%T), want *domain.ConflictError", err, err)
	}
	if ce.Constraint != "account_memberships_pkey" {
		t.Errorf("Constraint = %q, want %q", ce.Constraint, "account_memberships_pkey")
	}
	if ce.Relationship != "" {
		t.Errorf("Relationship = %q, want empty for unique violation", ce.Relationship)
	}
}

func TestTranslateHTTPError_ForeignKeyViolation(t *testing.T) {
	t.Parallel()

	body := `{
		"code": "23503",
		"message": "update or delete on table \"teams\" violates foreign key constraint \"sprints_team_id_fkey\" on table \"sprints\"",
		"details": "Key (id)=(team-a) is still referenced from table \"sprints\"."
	}`

	err := TranslateHTTPError(errorResponse(http.StatusConflict, body))

	var ce *domain.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("TranslateHTTPError = %v (%T), want *domain.ConflictError", err, err)
	}
	if ce.Constraint != "sprints_team_id_fkey" {
		t.Errorf("Constraint = %q, want %q", ce.Constraint, "sprints_team_id_fkey")
	}
	if ce.Relationship != "sprints" {
		t.Errorf("Relationship = %q, want %q", ce.Relationship, "sprints")
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("err = %v, want errors.Is(ErrConflict)", err)
	}
}

func TestTranslateHTTPError_MissingRPCFunction(t *testing.T) {
	t.Parallel()

	body := `{
		"code": "PGRST202",
		"message": "Could not find the function public.create_survey_with_questions in the schema cache"
	}`

	err := TranslateHTTPError(errorResponse(http.StatusNotFound, body))

	if !errors.Is(err, domain.ErrAtomicUnsupported) {
		t.Errorf("TranslateHTTPError = %v, want errors.Is(ErrAtomicUnsupported)", err)
	}
}

func TestTranslateHTTPError_InsufficientPrivilege(t *testing.T) {
	t.Parallel()

	body := `{
		"code": "42501",
		"message": "actor is not a member of the target account"
	}`

	err := TranslateHTTPError(errorResponse(http.StatusForbidden, body))

	var de *domain.DenyError
	if !errors.As(err, &de) {
		t.Fatalf("TranslateHTTPError = %v (%T), want *domain.DenyError", err, err)
	}
	if de.Reason != domain.ReasonNotAccountMember {
		t.Errorf("Reason = %q, want %q", de.Reason, domain.ReasonNotAccountMember)
	}
}

func TestTranslateHTTPError_MessageIncluded(t *testing.T) {
	t.Parallel()

	body := `{"message": "sprint row missing"}`

	err := TranslateHTTPError(errorResponse(http.StatusNotFound, body))

	if !strings.Contains(err.Error(), "sprint row missing") {
		t.Errorf("err = %q, want it to contain the store message", err)
	}
}

func TestTranslateHTTPError_MalformedBody(t *testing.T) {
	t.Parallel()

	err := TranslateHTTPError(errorResponse(http.StatusInternalServerError, "not json"))

	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("TranslateHTTPError = %v, want errors.Is(ErrUnavailable)", err)
	}
}
