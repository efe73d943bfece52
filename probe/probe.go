// Package probe defines the contract the form machine uses to inspect and drive
// an externally rendered document.
package probe

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no element matches a locator.
	ErrNotFound = errors.New("element not found")

	// ErrStale is returned when a handle refers to an element that is no longer in the document.
	ErrStale = errors.New("stale element reference")

	// ErrTimeout is returned when a bounded wait elapses.
	ErrTimeout = errors.New("timed out waiting for element")

	// ErrNotInteractable is returned when an element exists but cannot be activated.
	ErrNotInteractable = errors.New("element not interactable")
)

// Locator names a control by a CSS selector.
type Locator struct {
	Name     string
	Selector string
}

func (l Locator) String() string {
	if l.Name == "" {
		return l.Selector
	}

	return l.Name
}

// Handle is an opaque reference to one element of the document. A handle may go
// stale when the document changes underneath it.
type Handle interface {
	String() string
}

// Probe is the document the machine drives. Every call may block up to its own
// bounded wait; none of them are safe for concurrent use.
type Probe interface {
	// Exists reports whether at least one element matches the locator.
	Exists(ctx context.Context, loc Locator) (bool, error)

	// WaitUntilClickable polls until an element matching the locator is interactable.
	WaitUntilClickable(ctx context.Context, loc Locator, timeout time.Duration) (Handle, error)

	// Click activates the element.
	Click(ctx context.Context, h Handle) error

	// FindAll returns every element matching the locator, in document order.
	FindAll(ctx context.Context, loc Locator) ([]Handle, error)

	// Text returns the visible text of the element with whitespace collapsed.
	Text(ctx context.Context, h Handle) (string, error)

	// FindChild returns the first descendant of h matching the locator.
	FindChild(ctx context.Context, h Handle, loc Locator) (Handle, error)

	// Value returns the current value of an input element.
	Value(ctx context.Context, h Handle) (string, error)

	// Clear empties an input element.
	Clear(ctx context.Context, h Handle) error

	// Type appends keystrokes to an input element.
	Type(ctx context.Context, h Handle, text string) error
}

// IsTransient reports whether err belongs to the interaction failures a guard
// swallows: missing, stale, slow or non-interactable elements and expired waits.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrStale) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrNotInteractable) ||
		errors.Is(err, context.DeadlineExceeded)
}
