// Package policy implements the access evaluator, invariant checker, and
// cascade resolver as pure functions over the domain model. Nothing here
// performs I/O or reads a clock: callers supply the actor's membership
// facts, the existing row state, and the current instant, which keeps every
// rule unit-testable without a live store.
package policy
