package domain

import "context"

// Action is a single storage write with a compensating rollback. The
// consistency coordinator sequences actions for multi-entity write sets
// that the store does not make atomic on its own.
//
// Action is defined in the domain layer so services can reference it
// without depending on the application layer.
type Action interface {
	// Execute performs the write. The context carries cancellation and
	// deadline signals that the implementation should respect.
	Execute(ctx context.Context) error

	// Rollback issues the compensating write for a previously successful
	// Execute. Rollback is only called if Execute returned nil; it is
	// best-effort, and a crash between Execute and Rollback can leave the
	// executed write in place.
	Rollback(ctx context.Context) error

	// Description names the action for logs and partial-failure reports
	// (e.g. "insert survey questions").
	Description() string
}
