// Package domain defines the entity model for accounts, teams, sprints,
// work items, surveys, and kudos, along with the sentinel and structured
// errors shared by every layer. Types here are pure data: access and
// invariant decisions live in internal/policy and all persistence lives
// behind internal/ports.Store.
package domain
