package domain

import "time"

// SprintStatus is the lifecycle state of a sprint. No ordering between
// statuses is enforced at the data layer: any authorized actor may set any
// value. State-machine enforcement is a process concern, not a data one.
type SprintStatus string

const (
	SprintPlanned   SprintStatus = "planned"
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
)

// IsValid reports whether the status is one of the closed set.
func (s SprintStatus) IsValid() bool {
	switch s {
	case SprintPlanned, SprintActive, SprintCompleted:
		return true
	default:
		return false
	}
}

// Sprint is a time-boxed iteration belonging to a team. AccountID is
// denormalized from the team for tenant-isolation lookups.
//
// Invariant: EndDate >= StartDate, at calendar-date granularity.
type Sprint struct {
	ID        string
	TeamID    string
	AccountID string
	Name      string
	Goal      string
	StartDate Date
	EndDate   Date
	Status    SprintStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
