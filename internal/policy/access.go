package policy

import "github.com/sprintpulse/sprintpulse/internal/domain"

// Verb is the intended operation class.
type Verb string

const (
	VerbRead   Verb = "read"
	VerbCreate Verb = "create"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
)

// Kind identifies the entity type an operation targets.
type Kind string

const (
	KindAccount           Kind = "account"
	KindAccountMembership Kind = "account_membership"
	KindTeam              Kind = "team"
	KindTeamMembership    Kind = "team_membership"
	KindSprint            Kind = "sprint"
	KindWorkItem          Kind = "work_item"
	KindSurvey            Kind = "survey"
	KindSurveyQuestion    Kind = "survey_question"
	KindSurveyResponse    Kind = "survey_response"
	KindKudos             Kind = "kudos"
)

// Actor carries the acting user's identity plus preloaded membership facts.
// The evaluator never fetches anything itself.
type Actor struct {
	UserID       string
	AccountRoles map[string]domain.AccountRole // account ID → role
	TeamRoles    map[string]domain.TeamRole    // team ID → role
}

// IsLead reports whether the actor holds the lead role for the given team.
func (a Actor) IsLead(teamID string) bool {
	return teamID != "" && a.TeamRoles[teamID] == domain.TeamRoleLead
}

// Target describes the entity an operation acts on, reduced to the facts
// the rules need: its owning chain and the entity-specific fields that
// self-scoping and visibility depend on.
type Target struct {
	Kind      Kind
	AccountID string

	// TeamID is the owning team, when the entity has one. For surveys a
	// nil team marks a system template; pass "" here in that case.
	TeamID string

	// OwnerUserID is the author or sender for self-scoped entities
	// (survey responses, kudos) and the subject user for membership rows.
	OwnerUserID string

	// SprintTeamID is the team owning the response's sprint, used for the
	// lead-oversight visibility rule on survey responses.
	SprintTeamID string

	// Confidential mirrors SurveyResponse.Confidential. Note that the
	// visibility closure is author-plus-leads either way; peers are never
	// otherwise granted response visibility in this model, so the flag
	// does not change the evaluator's outcome.
	Confidential bool

	// SystemTemplate marks a survey with no owning team that is readable
	// account-wide without a membership check.
	SystemTemplate bool
}

// Decision is the evaluator's verdict for one operation.
type Decision struct {
	Allowed bool
	Reason  domain.DenyReason
	Detail  string
}

// Allow is the permitting decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny constructs a denying decision with a machine-readable reason.
func Deny(reason domain.DenyReason, detail string) Decision {
	return Decision{Reason: reason, Detail: detail}
}

// Err converts a denying decision to a *domain.DenyError; nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &domain.DenyError{Reason: d.Reason, Detail: d.Detail}
}

// Evaluate decides whether actor may perform verb on target. It is a pure
// function: membership facts come in on the actor, ownership facts on the
// target. Rules apply in precedence order; tenant isolation is checked
// before everything except the system-template read bypass.
func Evaluate(actor Actor, verb Verb, target Target) Decision {
	// System templates are readable by any authenticated actor with no
	// membership check at all.
	if verb == VerbRead && target.Kind == KindSurvey && target.SystemTemplate {
		return Allow()
	}

	// Joining an account is the one write that cannot require prior
	// membership. The self-scoping rule still applies.
	if verb == VerbCreate && target.Kind == KindAccountMembership {
		if target.OwnerUserID != actor.UserID {
			return Deny(domain.ReasonNotSelf, "memberships can only be created for yourself")
		}
		return Allow()
	}

	// Rule 1: tenant isolation. Without an account membership every other
	// rule is moot, regardless of operation type.
	accountRole, member := actor.AccountRoles[target.AccountID]
	if !member {
		return Deny(domain.ReasonNotAccountMember, "not an account member")
	}

	if verb == VerbRead {
		return evaluateRead(actor, target)
	}
	return evaluateWrite(actor, verb, target, accountRole)
}

// evaluateRead handles visibility rules for account members. Only survey
// responses carry a visibility restriction beyond tenant isolation.
func evaluateRead(actor Actor, target Target) Decision {
	if target.Kind != KindSurveyResponse {
		return Allow()
	}

	// Visibility closure for responses: the author always, and leads of
	// the response's sprint's team always, for oversight. Nobody else:
	// the confidentiality flag only governs peers, and peers are not
	// otherwise granted visibility.
	if target.OwnerUserID == actor.UserID || actor.IsLead(target.SprintTeamID) {
		return Allow()
	}
	return Deny(domain.ReasonNotVisible, "survey response is not visible")
}

// evaluateWrite handles create/update/delete for account members.
func evaluateWrite(actor Actor, verb Verb, target Target, accountRole domain.AccountRole) Decision {
	switch target.Kind {
	case KindTeam:
		// Rule 2: creating a team is privileged. Updates and soft deletes
		// follow the same bar since they shape the account's structure.
		if !accountRole.CanManageTeams() {
			return Deny(domain.ReasonRoleRequired, "requires account owner or admin")
		}
		return Allow()

	case KindSurvey, KindSurveyQuestion:
		// System templates are immutable by regular actors.
		if target.SystemTemplate {
			return Deny(domain.ReasonRoleRequired, "system templates are immutable")
		}
		// Rule 2: survey and question writes require the team lead role.
		if !actor.IsLead(target.TeamID) {
			return Deny(domain.ReasonRoleRequired, "requires team lead")
		}
		return Allow()

	case KindAccountMembership:
		// Creates are handled before the tenant gate in Evaluate; updates
		// and deletes are open to account members.
		return Allow()

	case KindSurveyResponse:
		// Rule 3: responses and their answers are writable only by their
		// author.
		if target.OwnerUserID != actor.UserID {
			return Deny(domain.ReasonNotSelf, "not the response author")
		}
		return Allow()

	case KindKudos:
		// Kudos are immutable after creation except deletion by sender.
		if verb == VerbDelete && target.OwnerUserID != actor.UserID {
			return Deny(domain.ReasonNotSelf, "only the sender can delete kudos")
		}
		return Allow()

	default:
		// Sprints, work items, team memberships, and account metadata:
		// intentionally permissive, any account member within scope.
		return Allow()
	}
}
