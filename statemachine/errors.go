package statemachine

import (
	"errors"
	"fmt"
)

// Predefined error types.
var (
	// ErrNoRuleMatched means no rule, not even a wildcard fallback, matched the current state.
	// A well-formed table makes this unreachable, so it signals a defect in the table.
	ErrNoRuleMatched = errors.New("no transition rule matched")
	// ErrTerminalState is returned when asked to leave a terminal state.
	ErrTerminalState = errors.New("machine is in a terminal state")
	// ErrIllegalJump is returned when no declared jump allows the requested move.
	ErrIllegalJump = errors.New("jump not allowed")
	// ErrInvalidTable is returned by NewEngine for a malformed table.
	ErrInvalidTable = errors.New("invalid transition table")

	// ErrStateRequired indicates that at least one state is required.
	ErrStateRequired = errors.New("at least one state is required")
	// ErrInitialStateNotFound indicates that the initial state is not declared.
	ErrInitialStateNotFound = errors.New("initial state does not exist")
	// ErrTerminalStateNotFound indicates that a terminal state is not declared.
	ErrTerminalStateNotFound = errors.New("terminal state does not exist")
	// ErrUnknownState indicates that a rule or jump refers to an undeclared state.
	ErrUnknownState = errors.New("rule refers to an undeclared state")
	// ErrMissingFallback indicates a non-terminal state without an unguarded fallback rule.
	ErrMissingFallback = errors.New("state has no unguarded fallback rule")
	// ErrNilGuard indicates a guard without a check function.
	ErrNilGuard = errors.New("guard has no check function")
)

// StateError wraps an error with state context.
type StateError struct {
	State string
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state %s: %v", e.State, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// TransitionError wraps an error with transition context.
type TransitionError struct {
	From string
	To   string
	Err  error
}

func (e *TransitionError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("transition from %s: %v", e.From, e.Err)
	}

	return fmt.Sprintf("transition %s -> %s: %v", e.From, e.To, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// WrapStateError wraps an error with state context.
func WrapStateError(state string, err error) error {
	if err == nil {
		return nil
	}

	return &StateError{
		State: state,
		Err:   err,
	}
}

// WrapTransitionError wraps an error with transition context.
func WrapTransitionError(from, to string, err error) error {
	if err == nil {
		return nil
	}

	return &TransitionError{
		From: from,
		To:   to,
		Err:  err,
	}
}
