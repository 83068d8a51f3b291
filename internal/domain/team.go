package domain

import "time"

// TeamRole is a user's role within a team.
type TeamRole string

const (
	TeamRoleLead        TeamRole = "lead"
	TeamRoleContributor TeamRole = "contributor"
	TeamRoleStakeholder TeamRole = "stakeholder"
)

// IsValid reports whether the role is one of the closed set.
func (r TeamRole) IsValid() bool {
	switch r {
	case TeamRoleLead, TeamRoleContributor, TeamRoleStakeholder:
		return true
	default:
		return false
	}
}

// Team belongs to exactly one account. Teams are soft-deleted: DeletedAt
// non-nil means the team is logically gone but its rows persist, unlike
// every other entity in the model which hard-deletes. Consumers depend on
// this distinction, so it is preserved rather than unified.
type Team struct {
	ID          string
	AccountID   string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Deleted reports whether the team has been soft-deleted.
func (t *Team) Deleted() bool {
	return t.DeletedAt != nil
}

// TeamMembership links a user to a team with a role. The lead role is the
// authority for managing the team's surveys and questions beyond plain
// membership.
type TeamMembership struct {
	TeamID    string
	UserID    string
	Role      TeamRole
	CreatedAt time.Time
}
