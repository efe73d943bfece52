// Package statemachine provides a table-driven state machine whose transitions carry
// side-effecting guard chains, exclusion guards, wildcard fallbacks and post-actions.
package statemachine

import (
	"context"
	"fmt"
)

// StateID is the constraint for state values driven by an Engine.
type StateID interface {
	comparable
	fmt.Stringer
}

// GuardKind distinguishes read-only probes from guards that mutate the outside world.
type GuardKind int

const (
	// Probe guards only inspect.
	Probe GuardKind = iota
	// Effect guards act (e.g. click a control) and report whether the act succeeded.
	Effect
)

func (k GuardKind) String() string {
	if k == Effect {
		return "effect"
	}

	return "probe"
}

// Guard is a named predicate evaluated while matching a rule.
type Guard struct {
	Name  string
	Kind  GuardKind
	Check func(ctx context.Context) bool
}

// NewGuard creates a read-only guard.
func NewGuard(name string, check func(ctx context.Context) bool) Guard {
	return Guard{Name: name, Kind: Probe, Check: check}
}

// NewEffect creates a guard that mutates the outside world as part of its check.
func NewEffect(name string, check func(ctx context.Context) bool) Guard {
	return Guard{Name: name, Kind: Effect, Check: check}
}

// Action is a named post-transition procedure. Its outcome never affects the transition.
type Action struct {
	Name string
	Run  func(ctx context.Context)
}

// NewAction creates a post-action.
func NewAction(name string, run func(ctx context.Context)) *Action {
	return &Action{Name: name, Run: run}
}

// Rule is a single entry of the ordered transition table.
type Rule[S StateID] struct {
	From      S
	Any       bool // wildcard source, tried after every source-specific rule
	To        S
	Guards    []Guard
	Exclusion *Guard
	After     *Action
}

// On starts a rule from a specific source state.
func On[S StateID](from, to S) Rule[S] {
	return Rule[S]{From: from, To: to}
}

// FromAny starts a wildcard rule.
func FromAny[S StateID](to S) Rule[S] {
	return Rule[S]{Any: true, To: to}
}

// When appends guards to the rule's chain. All must pass, left to right.
func (r Rule[S]) When(guards ...Guard) Rule[S] {
	r.Guards = append(append([]Guard(nil), r.Guards...), guards...)

	return r
}

// Unless sets the exclusion guard. A passing exclusion guard rejects an otherwise matching rule.
func (r Rule[S]) Unless(guard Guard) Rule[S] {
	r.Exclusion = &guard

	return r
}

// Then sets the post-action.
func (r Rule[S]) Then(action *Action) Rule[S] {
	r.After = action

	return r
}

// Unguarded reports whether the rule always matches once considered.
func (r Rule[S]) Unguarded() bool {
	return len(r.Guards) == 0 && r.Exclusion == nil
}

// Name renders the rule for logs, spans and diagrams.
func (r Rule[S]) Name() string {
	from := "*"
	if !r.Any {
		from = r.From.String()
	}

	return from + "->" + r.To.String()
}

// Jump is an unguarded escape hatch that moves the machine directly to a state.
type Jump[S StateID] struct {
	From  S
	Any   bool
	To    S
	After *Action
}

// JumpFrom declares a jump allowed only from a specific state.
func JumpFrom[S StateID](from, to S) Jump[S] {
	return Jump[S]{From: from, To: to}
}

// JumpTo declares a jump allowed from any non-terminal state.
func JumpTo[S StateID](to S) Jump[S] {
	return Jump[S]{Any: true, To: to}
}

// Then sets the post-action run after the jump commits.
func (j Jump[S]) Then(action *Action) Jump[S] {
	j.After = action

	return j
}

func (j Jump[S]) matches(from, to S) bool {
	return j.To == to && (j.Any || j.From == from)
}
