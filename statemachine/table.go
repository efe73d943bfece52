package statemachine

import (
	"errors"
	"fmt"
	"slices"
)

// Table is the declarative description of a machine: its closed set of states,
// the ordered transition rules and the unguarded jumps.
type Table[S StateID] struct {
	States   []S
	Initial  S
	Terminal []S
	Rules    []Rule[S]
	Jumps    []Jump[S]
}

// IsTerminal reports whether s is a terminal state of the table.
func (t Table[S]) IsTerminal(s S) bool {
	return slices.Contains(t.Terminal, s)
}

// RulesFor returns the rules considered from state s, in evaluation order:
// source-specific rules in declared order followed by wildcard rules in declared order.
func (t Table[S]) RulesFor(s S) []Rule[S] {
	var specific, wildcard []Rule[S]

	for _, rule := range t.Rules {
		switch {
		case rule.Any:
			wildcard = append(wildcard, rule)
		case rule.From == s:
			specific = append(specific, rule)
		}
	}

	return append(specific, wildcard...)
}

// Validate checks the structural invariants the engine relies on. Every non-terminal
// state must end its rule list with an unguarded fallback so that Advance always
// has some applicable rule.
func (t Table[S]) Validate() error {
	if len(t.States) == 0 {
		return ErrStateRequired
	}

	var errs []error

	if !slices.Contains(t.States, t.Initial) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInitialStateNotFound, t.Initial))
	}

	for _, s := range t.Terminal {
		if !slices.Contains(t.States, s) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrTerminalStateNotFound, s))
		}
	}

	for _, rule := range t.Rules {
		if !rule.Any && !slices.Contains(t.States, rule.From) {
			errs = append(errs, fmt.Errorf("%w: rule %s source %s", ErrUnknownState, rule.Name(), rule.From))
		}

		if !slices.Contains(t.States, rule.To) {
			errs = append(errs, fmt.Errorf("%w: rule %s destination %s", ErrUnknownState, rule.Name(), rule.To))
		}

		for _, g := range rule.Guards {
			if g.Check == nil {
				errs = append(errs, fmt.Errorf("%w: rule %s guard %q", ErrNilGuard, rule.Name(), g.Name))
			}
		}

		if rule.Exclusion != nil && rule.Exclusion.Check == nil {
			errs = append(errs, fmt.Errorf("%w: rule %s exclusion %q", ErrNilGuard, rule.Name(), rule.Exclusion.Name))
		}
	}

	for _, jump := range t.Jumps {
		if !jump.Any && !slices.Contains(t.States, jump.From) {
			errs = append(errs, fmt.Errorf("%w: jump source %s", ErrUnknownState, jump.From))
		}

		if !slices.Contains(t.States, jump.To) {
			errs = append(errs, fmt.Errorf("%w: jump destination %s", ErrUnknownState, jump.To))
		}
	}

	for _, s := range t.States {
		if t.IsTerminal(s) {
			continue
		}

		if !slices.ContainsFunc(t.RulesFor(s), Rule[S].Unguarded) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingFallback, s))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTable, errors.Join(errs...))
	}

	return nil
}
