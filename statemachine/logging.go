package statemachine

import (
	"context"
	"log/slog"
	"time"

	"github.com/amp-labs/easyapply/logger"
)

// Logger provides logging hooks for state machine execution.
type Logger interface {
	GuardEvaluated(ctx context.Context, rule, guard string, passed bool)
	RuleRejected(ctx context.Context, rule, reason string)
	TransitionExecuted(ctx context.Context, rule, from, to string)
	JumpExecuted(ctx context.Context, from, to string)
	ActionStarted(ctx context.Context, action string)
	ActionCompleted(ctx context.Context, action string, duration time.Duration)
	Paced(ctx context.Context, delay time.Duration, err error)
}

// DefaultLogger implements Logger using slog.
type DefaultLogger struct {
	get func(ctx context.Context) *slog.Logger
}

// NewDefaultLogger creates a logger that resolves the slog.Logger from the context
// (see logger.Get), so per-session attributes are carried along.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{
		get: func(ctx context.Context) *slog.Logger { return logger.Get(ctx) },
	}
}

// NewSlogLogger creates a logger writing to a fixed slog.Logger.
func NewSlogLogger(l *slog.Logger) *DefaultLogger {
	return &DefaultLogger{
		get: func(context.Context) *slog.Logger { return l },
	}
}

func (l *DefaultLogger) GuardEvaluated(ctx context.Context, rule, guard string, passed bool) {
	l.get(ctx).DebugContext(ctx, "Guard evaluated",
		"rule", rule,
		"guard", guard,
		"passed", passed,
	)
}

func (l *DefaultLogger) RuleRejected(ctx context.Context, rule, reason string) {
	l.get(ctx).DebugContext(ctx, "Rule rejected",
		"rule", rule,
		"reason", reason,
	)
}

func (l *DefaultLogger) TransitionExecuted(ctx context.Context, rule, from, to string) {
	l.get(ctx).InfoContext(ctx, "Transition executed",
		"rule", rule,
		"from", from,
		"to", to,
	)
}

func (l *DefaultLogger) JumpExecuted(ctx context.Context, from, to string) {
	l.get(ctx).InfoContext(ctx, "Jump executed",
		"from", from,
		"to", to,
	)
}

func (l *DefaultLogger) ActionStarted(ctx context.Context, action string) {
	l.get(ctx).DebugContext(ctx, "Action started",
		"action", action,
	)
}

func (l *DefaultLogger) ActionCompleted(ctx context.Context, action string, duration time.Duration) {
	l.get(ctx).DebugContext(ctx, "Action completed",
		"action", action,
		"duration_ms", duration.Milliseconds(),
	)
}

func (l *DefaultLogger) Paced(ctx context.Context, delay time.Duration, err error) {
	if err != nil {
		l.get(ctx).WarnContext(ctx, "Pacing interrupted",
			"delay_ms", delay.Milliseconds(),
			"error", err,
		)

		return
	}

	l.get(ctx).DebugContext(ctx, "Paced",
		"delay_ms", delay.Milliseconds(),
	)
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) GuardEvaluated(context.Context, string, string, bool)       {}
func (nopLogger) RuleRejected(context.Context, string, string)               {}
func (nopLogger) TransitionExecuted(context.Context, string, string, string) {}
func (nopLogger) JumpExecuted(context.Context, string, string)               {}
func (nopLogger) ActionStarted(context.Context, string)                      {}
func (nopLogger) ActionCompleted(context.Context, string, time.Duration)     {}
func (nopLogger) Paced(context.Context, time.Duration, error)                {}
