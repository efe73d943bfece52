package validator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/amp-labs/easyapply/statemachine"
)

// Severity defines the severity level of a validation issue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// RuleResult contains both errors and warnings from a rule check.
type RuleResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// Rule defines a validation rule that can check a table for specific issues.
type Rule[S statemachine.StateID] interface {
	Name() string
	Severity() Severity
	Check(table statemachine.Table[S]) RuleResult
}

// DefaultRules returns the standard set of validation rules.
func DefaultRules[S statemachine.StateID]() []Rule[S] {
	return []Rule[S]{
		structureRule[S]{},
		shadowedRule[S]{},
		terminalSourceRule[S]{},
		unreachableStateRule[S]{},
		selfLoopRule[S]{},
	}
}

// structureRule surfaces the invariants the engine itself enforces at construction.
type structureRule[S statemachine.StateID] struct{}

func (structureRule[S]) Name() string { return "Structure" }

func (structureRule[S]) Severity() Severity { return SeverityError }

func (structureRule[S]) Check(table statemachine.Table[S]) RuleResult {
	err := table.Validate()
	if err == nil {
		return RuleResult{}
	}

	var result RuleResult

	for _, cause := range flatten(err) {
		issue := ValidationError{Code: "INVALID_TABLE", Message: cause.Error()}

		switch {
		case errors.Is(cause, statemachine.ErrMissingFallback):
			issue.Code = "MISSING_FALLBACK"
		case errors.Is(cause, statemachine.ErrUnknownState):
			issue.Code = "UNKNOWN_STATE"
		case errors.Is(cause, statemachine.ErrNilGuard):
			issue.Code = "NIL_GUARD"
		}

		result.Errors = append(result.Errors, issue)
	}

	return result
}

// flatten unwraps the joined causes produced by Table.Validate.
func flatten(err error) []error {
	var leaves []error

	queue := []error{err}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		joined, ok := current.(interface{ Unwrap() []error })
		if !ok {
			leaves = append(leaves, current)

			continue
		}

		for _, inner := range joined.Unwrap() {
			if errors.Is(inner, statemachine.ErrInvalidTable) {
				continue
			}

			queue = append(queue, inner)
		}
	}

	return leaves
}

// shadowedRule flags rules that follow an unguarded rule with the same source. They can never fire.
type shadowedRule[S statemachine.StateID] struct{}

func (shadowedRule[S]) Name() string { return "ShadowedRule" }

func (shadowedRule[S]) Severity() Severity { return SeverityError }

func (shadowedRule[S]) Check(table statemachine.Table[S]) RuleResult {
	var result RuleResult

	covered := make(map[S]string)

	var wildcard string

	for _, rule := range table.Rules {
		var blocker string

		if rule.Any {
			blocker = wildcard
		} else {
			blocker = covered[rule.From]
		}

		if blocker != "" {
			result.Errors = append(result.Errors, ValidationError{
				Code:     "SHADOWED_RULE",
				Message:  fmt.Sprintf("rule is never evaluated because unguarded rule %s precedes it", blocker),
				Location: Location{Rule: rule.Name()},
			})

			continue
		}

		if !rule.Unguarded() {
			continue
		}

		if rule.Any {
			wildcard = rule.Name()
		} else {
			covered[rule.From] = rule.Name()
		}
	}

	return result
}

// terminalSourceRule flags source-specific rules leaving a terminal state.
type terminalSourceRule[S statemachine.StateID] struct{}

func (terminalSourceRule[S]) Name() string { return "TerminalSource" }

func (terminalSourceRule[S]) Severity() Severity { return SeverityWarning }

func (terminalSourceRule[S]) Check(table statemachine.Table[S]) RuleResult {
	var result RuleResult

	for _, rule := range table.Rules {
		if !rule.Any && table.IsTerminal(rule.From) {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Code:     "TERMINAL_SOURCE",
				Message:  fmt.Sprintf("rule leaves terminal state %s and will never fire", rule.From),
				Location: Location{Rule: rule.Name()},
			})
		}
	}

	for _, jump := range table.Jumps {
		if !jump.Any && table.IsTerminal(jump.From) {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Code:     "TERMINAL_SOURCE",
				Message:  fmt.Sprintf("jump leaves terminal state %s and will always be refused", jump.From),
				Location: Location{State: jump.From.String()},
			})
		}
	}

	return result
}

// unreachableStateRule checks for states that no rule or jump can reach from the initial state.
type unreachableStateRule[S statemachine.StateID] struct{}

func (unreachableStateRule[S]) Name() string { return "UnreachableState" }

func (unreachableStateRule[S]) Severity() Severity { return SeverityWarning }

func (unreachableStateRule[S]) Check(table statemachine.Table[S]) RuleResult {
	// Find all reachable states using BFS
	reachable := map[S]bool{table.Initial: true}

	queue := []S{table.Initial}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if table.IsTerminal(current) {
			continue
		}

		var next []S

		for _, rule := range table.RulesFor(current) {
			next = append(next, rule.To)
		}

		for _, jump := range table.Jumps {
			if jump.Any || jump.From == current {
				next = append(next, jump.To)
			}
		}

		for _, s := range next {
			if !reachable[s] {
				reachable[s] = true
				queue = append(queue, s)
			}
		}
	}

	var result RuleResult

	for _, s := range table.States {
		if !reachable[s] {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Code:     "UNREACHABLE_STATE",
				Message:  fmt.Sprintf("state %s is not reachable from initial state %s", s, table.Initial),
				Location: Location{State: s.String()},
			})
		}
	}

	return result
}

// selfLoopRule flags rules whose destination equals their source.
type selfLoopRule[S statemachine.StateID] struct{}

func (selfLoopRule[S]) Name() string { return "SelfLoop" }

func (selfLoopRule[S]) Severity() Severity { return SeverityWarning }

func (selfLoopRule[S]) Check(table statemachine.Table[S]) RuleResult {
	var result RuleResult

	for _, rule := range table.Rules {
		if rule.Any || rule.From != rule.To {
			continue
		}

		if slices.ContainsFunc(rule.Guards, func(g statemachine.Guard) bool { return g.Kind == statemachine.Effect }) {
			continue
		}

		result.Warnings = append(result.Warnings, ValidationWarning{
			Code:     "SELF_LOOP",
			Message:  "rule returns to its own source without acting on the page; the machine may spin",
			Location: Location{Rule: rule.Name()},
		})
	}

	return result
}
