package domain

import "time"

// Kudos is a recognition event from one user to another, scoped to a team
// and optionally to a sprint. Kudos are immutable once created; the only
// permitted mutation is deletion by the sender.
type Kudos struct {
	ID          string
	AccountID   string
	TeamID      string
	SprintID    *string
	SenderID    string
	RecipientID string
	Message     string
	CreatedAt   time.Time
}
