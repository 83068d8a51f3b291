package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrForbidden   = errors.New("forbidden")
	ErrUnavailable = errors.New("unavailable")

	// ErrAtomicUnsupported is returned by a Store whose backend cannot run
	// the server-side atomic survey-creation procedure. The survey service
	// falls back to the compensating two-step write when it sees this.
	ErrAtomicUnsupported = errors.New("atomic procedure unsupported")
)

// ValidationError provides programmatic access to field-level invariant
// failures. Use errors.Is(err, ErrValidation) for simple checks, or
// errors.As(err, &verr) to access verr.Fields for per-field details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// DenyReason is a machine-readable category for an access denial. The HTTP
// boundary maps reasons to status codes; ReasonNotVisible is deliberately
// indistinguishable from a missing entity so existence never leaks.
type DenyReason string

const (
	ReasonNotAccountMember DenyReason = "not_account_member"
	ReasonRoleRequired     DenyReason = "role_required"
	ReasonNotSelf          DenyReason = "not_self"
	ReasonNotVisible       DenyReason = "not_visible"
)

// DenyError is an access-evaluator denial. It unwraps to ErrForbidden except
// for ReasonNotVisible, which unwraps to ErrNotFound.
type DenyError struct {
	Reason DenyReason
	Detail string
}

func (e *DenyError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func (e *DenyError) Unwrap() error {
	if e.Reason == ReasonNotVisible {
		return ErrNotFound
	}
	return ErrForbidden
}

// ConflictError is a storage-level constraint rejection surfaced verbatim.
// Constraint carries the violated-constraint identifier reported by the
// store; Relationship names the blocking relationship for RESTRICT
// violations (e.g. "work_items") so callers can present an actionable
// message.
type ConflictError struct {
	Constraint   string
	Relationship string
	Detail       string
}

func (e *ConflictError) Error() string {
	switch {
	case e.Relationship != "":
		return fmt.Sprintf("conflict: still has associated %s", e.Relationship)
	case e.Detail != "":
		return "conflict: " + e.Detail
	default:
		return "conflict: " + e.Constraint
	}
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// StepOutcome records the result of one sub-operation inside a multi-entity
// write set.
type StepOutcome struct {
	Step string
	Err  error
}

// PartialFailureError reports a multi-entity write in which some
// sub-operations succeeded and others failed. Succeeded steps are never
// silently dropped: callers must surface both halves.
type PartialFailureError struct {
	Succeeded []StepOutcome
	Failed    []StepOutcome
}

func (e *PartialFailureError) Error() string {
	failed := make([]string, 0, len(e.Failed))
	for _, s := range e.Failed {
		failed = append(failed, fmt.Sprintf("%s: %v", s.Step, s.Err))
	}
	return fmt.Sprintf("partial failure (%d succeeded, %d failed): %s",
		len(e.Succeeded), len(e.Failed), strings.Join(failed, "; "))
}

// Unwrap exposes the first failed step's error so errors.Is/As reach the
// underlying storage failure.
func (e *PartialFailureError) Unwrap() error {
	if len(e.Failed) > 0 {
		return e.Failed[0].Err
	}
	return nil
}
