package domain

import "time"

// AccountRole is a user's role within an account.
type AccountRole string

const (
	AccountRoleOwner  AccountRole = "owner"
	AccountRoleAdmin  AccountRole = "admin"
	AccountRoleMember AccountRole = "member"
)

// IsValid reports whether the role is one of the closed set.
func (r AccountRole) IsValid() bool {
	switch r {
	case AccountRoleOwner, AccountRoleAdmin, AccountRoleMember:
		return true
	default:
		return false
	}
}

// CanManageTeams reports whether the role may create teams in the account.
func (r AccountRole) CanManageTeams() bool {
	return r == AccountRoleOwner || r == AccountRoleAdmin
}

// Account is the tenant boundary. No data is shared across accounts; every
// other entity belongs to exactly one account, directly or through its team.
//
// IsTestTenant is monotonic: it may transition false→true but never back.
type Account struct {
	ID           string
	Slug         string
	Name         string
	IsTestTenant bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountMembership links a user to an account with a role. The
// (AccountID, UserID) pair is the primary key; a user may only insert a
// membership row for themself.
type AccountMembership struct {
	AccountID string
	UserID    string
	Role      AccountRole
	CreatedAt time.Time
}
