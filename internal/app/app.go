// Package app provides application services that orchestrate use cases by
// coordinating the policy engine, the invariant checks, and storage through
// port interfaces. Every write follows the same shape: load the actor's
// membership facts, evaluate access, check invariants, then write.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/policy"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// loadActor assembles the policy evaluator's input facts for a user: their
// account roles and team roles, fetched once per operation. The evaluator
// itself never touches the store.
func loadActor(ctx context.Context, store ports.Store, userID string) (policy.Actor, error) {
	actor := policy.Actor{
		UserID:       userID,
		AccountRoles: make(map[string]domain.AccountRole),
		TeamRoles:    make(map[string]domain.TeamRole),
	}

	accountMemberships, err := store.ListAccountMembershipsByUser(ctx, userID)
	if err != nil {
		return policy.Actor{}, fmt.Errorf("loading account memberships: %w", err)
	}
	for _, m := range accountMemberships {
		actor.AccountRoles[m.AccountID] = m.Role
	}

	teamMemberships, err := store.ListTeamMembershipsByUser(ctx, userID)
	if err != nil {
		return policy.Actor{}, fmt.Errorf("loading team memberships: %w", err)
	}
	for _, m := range teamMemberships {
		actor.TeamRoles[m.TeamID] = m.Role
	}

	return actor, nil
}

// requireNonEmpty accumulates "is required" field errors for blank values.
func requireNonEmpty(fields map[string]string, name, value string) {
	if value == "" {
		fields[name] = "is required"
	}
}

// validationErr converts an accumulated field map to an error, nil when
// nothing was collected.
func validationErr(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: fields}
}

// nowFunc returns wall-clock time; services take it as a field so tests can
// pin the clock for completion-stamp assertions.
type nowFunc func() time.Time
