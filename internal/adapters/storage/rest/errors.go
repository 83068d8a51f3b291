// Package rest implements the ports.Store port against a PostgREST-style
// row-store API. Each entity maps to a table resource; filters use the
// row-store's query operators (id=eq.X, deleted_at=is.null) and writes
// request the written rows back via the Prefer header. Error responses are
// translated to domain errors here, constraint identifiers included.
package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/sprintpulse/sprintpulse/internal/domain"
)

// maxErrorBodySize limits how much of an error response body we read.
const maxErrorBodySize = 1 << 20 // 1 MB

// Row-store error codes. Numeric codes are SQLSTATE values passed through
// from the database; PGRST codes are produced by the API layer itself.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInsufficientPriv    = "42501"
	codeUndefinedFunction   = "PGRST202"
)

// storeError is the row-store's error response body.
type storeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// constraintPattern extracts the constraint name from a violation message,
// e.g. `violates unique constraint "account_memberships_pkey"`.
var constraintPattern = regexp.MustCompile(`constraint "([^"]+)"`)

// onTablePattern extracts the referencing table from the tail of a foreign
// key violation message, e.g. `... on table "work_items"`.
var onTablePattern = regexp.MustCompile(`on table "([^"]+)"$`)

// TranslateHTTPError maps a row-store error response to a domain error.
//
// Constraint violations (409) become *domain.ConflictError carrying the
// violated-constraint identifier verbatim; foreign key violations also carry
// the referencing relationship so RESTRICT failures can name what blocks
// the delete. A missing RPC function maps to domain.ErrAtomicUnsupported so
// callers can fall back to compensating writes.
func TranslateHTTPError(resp *http.Response) error {
	se := parseStoreError(resp)

	if se.Code == codeUndefinedFunction {
		return fmt.Errorf("%s: %w", se.Message, domain.ErrAtomicUnsupported)
	}

	detail := se.Message
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNotAcceptable:
		return fmt.Errorf("%s: %w", detail, domain.ErrNotFound)

	case resp.StatusCode == http.StatusConflict:
		return toConflictError(se)

	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%s: %w", detail, domain.ErrValidation)

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if se.Code == codeInsufficientPriv {
			return &domain.DenyError{Reason: domain.ReasonNotAccountMember, Detail: se.Message}
		}
		return fmt.Errorf("%s: %w", detail, domain.ErrForbidden)

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%s: %w", detail, domain.ErrUnavailable)

	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, detail)
	}
}

// parseStoreError attempts to read and parse an error body from the
// response. Returns a zero storeError if parsing fails.
func parseStoreError(resp *http.Response) storeError {
	if resp.Body == nil {
		return storeError{}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return storeError{}
	}

	var se storeError
	if err := json.Unmarshal(body, &se); err != nil {
		return storeError{}
	}
	return se
}

// toConflictError builds a *domain.ConflictError from a constraint violation.
// The constraint identifier comes from the quoted name in the message; for
// foreign key violations the referencing table at the end of the message
// names the relationship that blocks the write.
func toConflictError(se storeError) *domain.ConflictError {
	ce := &domain.ConflictError{Detail: se.Message}

	if m := constraintPattern.FindStringSubmatch(se.Message); m != nil {
		ce.Constraint = m[1]
	}
	if se.Code == codeForeignKeyViolation {
		if m := onTablePattern.FindStringSubmatch(strings.TrimSpace(se.Message)); m != nil {
			ce.Relationship = m[1]
		}
	}
	return ce
}
