// Package application drives a multi-step "easy apply" form to completion with a
// guarded transition table: every Advance infers which screen is showing by
// trying the current state's rules in order, activating controls as it goes.
package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/amp-labs/easyapply/logger"
	"github.com/amp-labs/easyapply/probe"
	"github.com/amp-labs/easyapply/questions"
	"github.com/amp-labs/easyapply/statemachine"
	"github.com/amp-labs/easyapply/upload"
	"github.com/google/uuid"
)

var (
	// ErrSuspended is returned by Run when the session ends in Suspended.
	ErrSuspended = errors.New("application suspended")

	// ErrTickBudgetExhausted is returned by Run when the form was not finished within the tick budget.
	ErrTickBudgetExhausted = errors.New("tick budget exhausted")

	// ErrUnknownState is returned by ParseState.
	ErrUnknownState = errors.New("unknown state")

	// ErrNoDocument is returned by New without a probe.
	ErrNoDocument = errors.New("document probe is required")
)

const (
	defaultClickTimeout  = 30 * time.Second
	defaultMaxRecoveries = 3
	defaultMaxTicks      = 40
)

//nolint:gochecknoglobals
var (
	defaultInteractionPacer statemachine.Pacer = statemachine.Fixed(time.Second)
	defaultUploadPacer                         = statemachine.UniformPacer{
		Min: 2200 * time.Millisecond,
		Max: 4300 * time.Millisecond,
	}
)

// Application is one form-filling session against one document. It is driven by a
// single caller and is not safe for concurrent use.
type Application struct {
	name      string
	sessionID string
	doc       probe.Probe

	answers    questions.Answerer
	deliverer  upload.Deliverer
	resumePath string
	submitGate func(ctx context.Context) bool
	patterns   []ErrorPattern

	clickTimeout     time.Duration
	interactionPacer statemachine.Pacer
	uploadPacer      statemachine.Pacer
	pacer            statemachine.Pacer
	engineLogger     statemachine.Logger

	maxRecoveries int
	recoveries    int
	maxTicks      int

	engine *statemachine.Engine[State]
}

// Option configures an Application.
type Option func(*Application)

// WithAnswerer replaces the canned question answers.
func WithAnswerer(a questions.Answerer) Option {
	return func(app *Application) {
		if a != nil {
			app.answers = a
		}
	}
}

// WithDeliverer sets how the resume path reaches the file picker.
func WithDeliverer(d upload.Deliverer) Option {
	return func(app *Application) {
		if d != nil {
			app.deliverer = d
		}
	}
}

// WithResumePath sets the file offered on upload screens.
func WithResumePath(path string) Option {
	return func(app *Application) {
		app.resumePath = path
	}
}

// WithSubmitGate makes submission wait for the gate's approval.
func WithSubmitGate(gate func(ctx context.Context) bool) Option {
	return func(app *Application) {
		app.submitGate = gate
	}
}

// WithErrorPatterns replaces the known validation messages.
func WithErrorPatterns(patterns ...ErrorPattern) Option {
	return func(app *Application) {
		app.patterns = append([]ErrorPattern(nil), patterns...)
	}
}

// WithClickTimeout bounds every wait for a control to become clickable.
func WithClickTimeout(d time.Duration) Option {
	return func(app *Application) {
		app.clickTimeout = d
	}
}

// WithPacer sets the pause after every committed transition.
func WithPacer(p statemachine.Pacer) Option {
	return func(app *Application) {
		if p != nil {
			app.pacer = p
		}
	}
}

// WithInteractionPacer sets the pause before each question answer keystroke or click.
func WithInteractionPacer(p statemachine.Pacer) Option {
	return func(app *Application) {
		if p != nil {
			app.interactionPacer = p
		}
	}
}

// WithUploadPacer sets the pause before the upload control is clicked.
func WithUploadPacer(p statemachine.Pacer) Option {
	return func(app *Application) {
		if p != nil {
			app.uploadPacer = p
		}
	}
}

// WithEngineLogger sets the engine's logging hooks. Nil disables engine logging.
func WithEngineLogger(l statemachine.Logger) Option {
	return func(app *Application) {
		app.engineLogger = l
	}
}

// WithMaxRecoveries caps how many recoverable errors one session may route back
// into the form. The next one suspends the application.
func WithMaxRecoveries(n int) Option {
	return func(app *Application) {
		app.maxRecoveries = max(n, 0)
	}
}

// WithMaxTicks caps how many times Run advances the machine.
func WithMaxTicks(n int) Option {
	return func(app *Application) {
		if n > 0 {
			app.maxTicks = n
		}
	}
}

// WithSessionID sets the ID attached to every log line of the session.
func WithSessionID(id string) Option {
	return func(app *Application) {
		if id != "" {
			app.sessionID = id
		}
	}
}

func newApplication(name string, doc probe.Probe, opts ...Option) *Application {
	app := &Application{
		name:             name,
		sessionID:        uuid.NewString(),
		doc:              doc,
		answers:          questions.Default(),
		deliverer:        upload.Nop,
		patterns:         DefaultErrorPatterns(),
		clickTimeout:     defaultClickTimeout,
		interactionPacer: defaultInteractionPacer,
		uploadPacer:      defaultUploadPacer,
		pacer:            statemachine.DefaultPacer,
		engineLogger:     statemachine.NewDefaultLogger(),
		maxRecoveries:    defaultMaxRecoveries,
		maxTicks:         defaultMaxTicks,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// New creates a session positioned on Info.
func New(name string, doc probe.Probe, opts ...Option) (*Application, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}

	app := newApplication(name, doc, opts...)

	engine, err := statemachine.NewEngine(name, app.Table(),
		statemachine.WithPacer(app.pacer),
		statemachine.WithLogger(app.engineLogger))
	if err != nil {
		return nil, err
	}

	app.engine = engine

	return app, nil
}

// Blueprint returns the transition table with guards that are never meant to run,
// for rendering and validation.
func Blueprint() statemachine.Table[State] {
	return newApplication("blueprint", nil).Table()
}

// Name returns the session name.
func (a *Application) Name() string {
	return a.name
}

// SessionID returns the ID attached to the session's log lines.
func (a *Application) SessionID() string {
	return a.sessionID
}

// State returns the current state.
func (a *Application) State() State {
	return a.engine.Current()
}

// Recoveries returns how many recoverable errors were routed back into the form.
func (a *Application) Recoveries() int {
	return a.recoveries
}

// Advance runs one tick: the first matching rule for the current state fires, its
// post-action runs and the machine pauses. It returns the resulting state.
func (a *Application) Advance(ctx context.Context) (State, error) {
	return a.engine.Advance(a.logContext(ctx))
}

// ForceSuspend moves the session to Suspended without checking any guard.
func (a *Application) ForceSuspend(ctx context.Context) error {
	return a.engine.Jump(a.logContext(ctx), Suspended)
}

// ForceRecover moves the session from Error to target, which must be one of
// Info, Questions1, Questions2 or Review.
func (a *Application) ForceRecover(ctx context.Context, target State) error {
	if !slices.Contains(recoveryTargets, target) {
		return statemachine.WrapTransitionError(a.State().String(), target.String(), statemachine.ErrIllegalJump)
	}

	return a.engine.Jump(a.logContext(ctx), target)
}

// Run advances until the session reaches a terminal state. Submitted yields nil and
// Suspended yields ErrSuspended. A session still running after the tick budget is
// suspended and ErrTickBudgetExhausted is returned.
func (a *Application) Run(ctx context.Context) error {
	ctx = a.logContext(ctx)
	log := logger.Get(ctx)

	for tick := 0; tick < a.maxTicks && !a.engine.IsTerminal(); tick++ {
		state, err := a.engine.Advance(ctx)
		if err != nil {
			return fmt.Errorf("tick %d: %w", tick+1, err)
		}

		log.Debug("Tick completed", "tick", tick+1, "state", state.String())
	}

	switch a.State() {
	case Submitted:
		log.Info("Application submitted")

		return nil
	case Suspended:
		return fmt.Errorf("%w after %d recoveries", ErrSuspended, a.recoveries)
	default:
		log.Error("Application did not finish", "ticks", a.maxTicks, "state", a.State().String())

		if err := a.engine.Jump(ctx, Suspended); err != nil { //nolint:noinlineerr
			return errors.Join(ErrTickBudgetExhausted, err)
		}

		return ErrTickBudgetExhausted
	}
}

func (a *Application) logContext(ctx context.Context) context.Context {
	if _, ok := logger.GetSessionID(ctx); ok {
		return ctx
	}

	return logger.With(logger.WithSessionID(ctx, a.sessionID), "application", a.name)
}
