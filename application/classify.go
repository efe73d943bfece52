package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/amp-labs/easyapply/logger"
)

// ErrorKind is the verdict on the validation errors a screen shows.
type ErrorKind int

const (
	// Unknown errors cannot be fixed by the machine.
	Unknown ErrorKind = iota
	// Recoverable errors route back into a known working state.
	Recoverable
)

func (k ErrorKind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case Recoverable:
		return "recoverable"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ErrorPattern maps a validation message to the state that fixes it.
type ErrorPattern struct {
	Phrase string
	Target State
}

// ErrorClass is the outcome of classifying the errors on screen.
type ErrorClass struct {
	Kind   ErrorKind
	Target State  // Recoverable only
	Text   string // the message that matched, or the first one seen
}

// DefaultErrorPatterns returns the validation messages the machine knows how to fix.
func DefaultErrorPatterns() []ErrorPattern {
	return []ErrorPattern{
		{Phrase: "Please enter a valid answer", Target: Questions1},
	}
}

// classifyError reads every error indicator on screen and returns the first one that
// matches a known pattern. Scanning stops at the first match.
func (a *Application) classifyError(ctx context.Context) (ErrorClass, error) {
	handles, err := a.doc.FindAll(ctx, ErrorIndicator)
	if err != nil {
		return ErrorClass{}, fmt.Errorf("finding error indicators: %w", err)
	}

	class := ErrorClass{Kind: Unknown}

	for i, handle := range handles {
		text, err := a.doc.Text(ctx, handle)
		if err != nil {
			return ErrorClass{}, logger.AnnotateError(
				fmt.Errorf("reading error indicator %d: %w", i, err),
				"indicator", i, "state", a.State().String())
		}

		if i == 0 {
			class.Text = text
		}

		for _, pattern := range a.patterns {
			if strings.Contains(text, pattern.Phrase) {
				return ErrorClass{Kind: Recoverable, Target: pattern.Target, Text: text}, nil
			}
		}
	}

	return class, nil
}

// handleError is the post-action of every error rule. It recovers into the state a
// known error points at and suspends on anything else, including classification
// failures and sessions that ran out of recoveries.
func (a *Application) handleError(ctx context.Context) {
	log := logger.Get(ctx)

	class, err := a.classifyError(ctx)
	if err != nil {
		log.Error("Problem determining error", "error", err)
		errorClassifications.WithLabelValues("failed").Inc()
		a.suspend(ctx)

		return
	}

	errorClassifications.WithLabelValues(class.Kind.String()).Inc()

	if class.Kind != Recoverable {
		log.Error("Unknown error, nothing can fix it", "text", class.Text)
		a.suspend(ctx)

		return
	}

	if a.recoveries >= a.maxRecoveries {
		log.Error("Recovery limit reached", "recoveries", a.recoveries, "text", class.Text)
		a.suspend(ctx)

		return
	}

	a.recoveries++

	log.Warn("Determined error, recovering",
		"target", class.Target.String(), "recovery", a.recoveries, "text", class.Text)

	if err := a.engine.Jump(ctx, class.Target); err != nil { //nolint:noinlineerr
		log.Error("Recovery jump refused", "target", class.Target.String(), "error", err)
		a.suspend(ctx)
	}
}

func (a *Application) suspend(ctx context.Context) {
	if err := a.engine.Jump(ctx, Suspended); err != nil { //nolint:noinlineerr
		logger.Get(ctx).Error("Unable to suspend", "error", err)
	}
}
