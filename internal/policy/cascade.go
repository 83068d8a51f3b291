package policy

import "github.com/sprintpulse/sprintpulse/internal/domain"

// CascadePolicy declares what happens to a dependent relationship when its
// parent is deleted.
type CascadePolicy string

const (
	// Restrict refuses the deletion while dependents exist.
	Restrict CascadePolicy = "restrict"
	// Cascade deletes dependents transitively.
	Cascade CascadePolicy = "cascade"
	// SetNull clears the dependent's reference; the dependent survives.
	SetNull CascadePolicy = "set_null"
)

// CascadeRule binds one parent→dependent relationship to its policy.
type CascadeRule struct {
	Relationship string
	Policy       CascadePolicy
}

// cascadeRules is the declared ownership table. Relationship names are the
// stable identifiers surfaced in ConflictError and Blocked results.
//
// Sprint→work_items carries both declarations on purpose: direct deletion
// is RESTRICTed while work items reference the sprint, and the stored
// foreign key is declared ON DELETE SET NULL so that removal through an
// account cascade returns surviving items to the unscoped backlog instead
// of dangling.
var cascadeRules = map[Kind][]CascadeRule{
	KindAccount: {
		{Relationship: "teams", Policy: Cascade},
		{Relationship: "surveys", Policy: Cascade},
		{Relationship: "kudos", Policy: Cascade},
		{Relationship: "work_items", Policy: Cascade},
		{Relationship: "sprints", Policy: Cascade},
	},
	KindSprint: {
		{Relationship: "work_items", Policy: Restrict},
	},
	KindSurvey: {
		{Relationship: "questions", Policy: Cascade},
		{Relationship: "responses", Policy: Cascade},
	},
	KindSurveyResponse: {
		{Relationship: "answers", Policy: Cascade},
	},
}

// Rules returns the declared cascade rules for a parent kind. Kinds with no
// dependents return nil.
func Rules(parent Kind) []CascadeRule {
	return cascadeRules[parent]
}

// Blocked names one relationship preventing a deletion.
type Blocked struct {
	Relationship string
	Count        int
}

// Resolution is the cascade resolver's verdict for one deletion.
type Resolution struct {
	Allowed bool
	// Blocking lists RESTRICT relationships with live dependents; set only
	// when Allowed is false.
	Blocking []Blocked
	// CascadeTo lists relationships whose dependents must be deleted with
	// the parent.
	CascadeTo []string
	// NullOut lists relationships whose dependents must have their parent
	// reference cleared.
	NullOut []string
}

// Err converts a blocked resolution to a *domain.ConflictError naming the
// first blocking relationship; nil when allowed.
func (r Resolution) Err() error {
	if r.Allowed {
		return nil
	}
	return &domain.ConflictError{
		Relationship: r.Blocking[0].Relationship,
	}
}

// ResolveDeletion decides whether deleting a parent of the given kind may
// proceed, given live dependent counts per relationship. RESTRICT
// relationships with a non-zero count block the deletion and are named so
// the caller can present an actionable message; otherwise the resolution
// carries the cascade and set-null plan for the coordinator to execute.
func ResolveDeletion(parent Kind, dependents map[string]int) Resolution {
	res := Resolution{Allowed: true}

	for _, rule := range cascadeRules[parent] {
		switch rule.Policy {
		case Restrict:
			if n := dependents[rule.Relationship]; n > 0 {
				res.Allowed = false
				res.Blocking = append(res.Blocking, Blocked{
					Relationship: rule.Relationship,
					Count:        n,
				})
			}
		case Cascade:
			res.CascadeTo = append(res.CascadeTo, rule.Relationship)
		case SetNull:
			res.NullOut = append(res.NullOut, rule.Relationship)
		}
	}

	if !res.Allowed {
		res.CascadeTo = nil
		res.NullOut = nil
	}
	return res
}
