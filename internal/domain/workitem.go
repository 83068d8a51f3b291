package domain

import "time"

// WorkItemStatus is the workflow state of a work item.
type WorkItemStatus string

const (
	WorkItemTodo       WorkItemStatus = "todo"
	WorkItemInProgress WorkItemStatus = "in_progress"
	WorkItemReview     WorkItemStatus = "review"
	WorkItemDone       WorkItemStatus = "done"
)

// IsValid reports whether the status is one of the closed set.
func (s WorkItemStatus) IsValid() bool {
	switch s {
	case WorkItemTodo, WorkItemInProgress, WorkItemReview, WorkItemDone:
		return true
	default:
		return false
	}
}

// WorkItemType classifies a work item.
type WorkItemType string

const (
	WorkItemStory WorkItemType = "story"
	WorkItemBug   WorkItemType = "bug"
	WorkItemTask  WorkItemType = "task"
	WorkItemChore WorkItemType = "chore"
)

// IsValid reports whether the type is one of the closed set.
func (t WorkItemType) IsValid() bool {
	switch t {
	case WorkItemStory, WorkItemBug, WorkItemTask, WorkItemChore:
		return true
	default:
		return false
	}
}

// Provider marks whether a work item is natively owned or a shadow record
// mirroring a ticket in an external tracker.
type Provider string

const (
	ProviderNative Provider = "native"
	ProviderGitHub Provider = "github"
	ProviderJira   Provider = "jira"
)

// IsValid reports whether the provider is one of the closed set.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderNative, ProviderGitHub, ProviderJira:
		return true
	default:
		return false
	}
}

// IsShadow reports whether the work item mirrors an externally-owned ticket.
func (p Provider) IsShadow() bool {
	return p != ProviderNative
}

// WorkItem is a unit of work belonging to a team, optionally scoped to a
// sprint and project and optionally assigned to a user.
//
// Invariant: CompletedAt is non-nil if and only if Status is done. The
// field is derived by the invariant checker on status transitions and is
// never independently settable by callers.
type WorkItem struct {
	ID          string
	AccountID   string
	TeamID      string
	SprintID    *string
	ProjectKey  *string
	AssigneeID  *string
	Title       string
	Description string
	Status      WorkItemStatus
	Type        WorkItemType
	Provider    Provider
	ExternalRef *string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
