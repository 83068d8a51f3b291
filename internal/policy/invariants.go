package policy

import (
	"fmt"
	"time"

	"github.com/sprintpulse/sprintpulse/internal/domain"
)

// SprintDates validates end >= start for a sprint create or update. On a
// partial update, pass nil for the field that was not supplied and the
// existing row for comparison; a nil existing means create, where both
// dates are required to be present.
func SprintDates(existing *domain.Sprint, start, end *domain.Date) *domain.ValidationError {
	effectiveStart := start
	effectiveEnd := end
	if existing != nil {
		if effectiveStart == nil {
			effectiveStart = &existing.StartDate
		}
		if effectiveEnd == nil {
			effectiveEnd = &existing.EndDate
		}
	}

	if effectiveStart == nil || effectiveEnd == nil {
		// Field presence is the structural validator's job; nothing to
		// cross-check without both sides.
		return nil
	}

	if effectiveEnd.Before(*effectiveStart) {
		return &domain.ValidationError{Fields: map[string]string{
			"end_date": fmt.Sprintf("must not be before start_date (%s)", effectiveStart),
		}}
	}
	return nil
}

// DeriveWorkItemCompletion computes the completed_at value for a work item
// whose status may be changing. The stamp is derived here, never supplied:
// entering done sets it to now, leaving done clears it, and a no-op
// transition (done→done included) preserves the existing stamp. Callers
// must assign the result unconditionally, discarding any caller-supplied
// value, whenever status changes.
func DeriveWorkItemCompletion(oldStatus, newStatus domain.WorkItemStatus, existing *time.Time, now time.Time) *time.Time {
	switch {
	case newStatus == domain.WorkItemDone && oldStatus != domain.WorkItemDone:
		stamp := now
		return &stamp
	case newStatus != domain.WorkItemDone && oldStatus == domain.WorkItemDone:
		return nil
	default:
		return existing
	}
}

// AnswerExclusivity validates that exactly one of an answer's value fields
// is populated and that it matches the parent question's declared type.
func AnswerExclusivity(question domain.SurveyQuestion, answer domain.SurveyAnswer) *domain.ValidationError {
	populated := 0
	if answer.ScaleValue != nil {
		populated++
	}
	if answer.TextValue != nil {
		populated++
	}
	if answer.BoolValue != nil {
		populated++
	}
	if populated != 1 {
		return &domain.ValidationError{Fields: map[string]string{
			"answer": fmt.Sprintf("exactly one value must be set, got %d", populated),
		}}
	}

	var matches bool
	switch question.AnswerType {
	case domain.AnswerScale:
		matches = answer.ScaleValue != nil
	case domain.AnswerText:
		matches = answer.TextValue != nil
	case domain.AnswerBoolean:
		matches = answer.BoolValue != nil
	}
	if !matches {
		return &domain.ValidationError{Fields: map[string]string{
			"answer": fmt.Sprintf("value does not match question type %q", question.AnswerType),
		}}
	}
	return nil
}

// MembershipSelfInsert validates the self-insert invariant: the new
// membership row's user must be the acting identity.
func MembershipSelfInsert(actorID string, membership domain.AccountMembership) *domain.ValidationError {
	if membership.UserID != actorID {
		return &domain.ValidationError{Fields: map[string]string{
			"user_id": "must equal the acting user",
		}}
	}
	return nil
}

// TestTenantTransition validates the monotonic is_test_tenant flag:
// false→true and no-ops are fine, true→false is rejected.
func TestTenantTransition(current, proposed bool) *domain.ValidationError {
	if current && !proposed {
		return &domain.ValidationError{Fields: map[string]string{
			"is_test_tenant": "cannot be cleared once set",
		}}
	}
	return nil
}
