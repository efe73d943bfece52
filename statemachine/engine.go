package statemachine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	pacer  Pacer
	logger Logger
}

// WithPacer sets the pause applied after every committed rule transition.
// Defaults to DefaultPacer.
func WithPacer(p Pacer) Option {
	return func(o *options) {
		if p != nil {
			o.pacer = p
		}
	}
}

// WithLogger sets the logging hooks. Defaults to NewDefaultLogger. A nil logger
// disables logging.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l == nil {
			o.logger = nopLogger{}

			return
		}

		o.logger = l
	}
}

// Engine evaluates a Table against its current state, one Advance at a time.
//
// An Engine is driven by a single caller; guards and actions run on the caller's
// goroutine and may call Jump re-entrantly. It is not safe for concurrent use.
type Engine[S StateID] struct {
	name    string
	table   Table[S]
	current S
	pacer   Pacer
	logger  Logger
}

// NewEngine validates the table and creates an engine positioned at its initial state.
func NewEngine[S StateID](name string, table Table[S], opts ...Option) (*Engine[S], error) {
	err := table.Validate()
	if err != nil {
		return nil, fmt.Errorf("machine %s: %w", name, err)
	}

	o := options{
		pacer:  DefaultPacer,
		logger: NewDefaultLogger(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	return &Engine[S]{
		name:    name,
		table:   table,
		current: table.Initial,
		pacer:   o.pacer,
		logger:  o.logger,
	}, nil
}

// Name returns the machine name used in logs and metrics.
func (e *Engine[S]) Name() string {
	return e.name
}

// Current returns the current state.
func (e *Engine[S]) Current() S {
	return e.current
}

// IsTerminal reports whether the current state is terminal.
func (e *Engine[S]) IsTerminal() bool {
	return e.table.IsTerminal(e.current)
}

// Table returns the table the engine was built from.
func (e *Engine[S]) Table() Table[S] {
	return e.table
}

// Advance finds the first rule for the current state whose guard chain passes and whose
// exclusion guard does not, commits to its destination, runs its post-action and then
// pauses. It returns the state the machine is in once the post-action has finished, which
// differs from the rule's destination when the post-action jumped.
//
// Advance refuses to leave a terminal state. If no rule matches, the table is broken and
// ErrNoRuleMatched is returned without changing state.
func (e *Engine[S]) Advance(ctx context.Context) (state S, err error) {
	from := e.current
	if e.table.IsTerminal(from) {
		advanceDuration.WithLabelValues(sanitizeMachine(e.name), outcomeNoop).Observe(0)

		return from, WrapStateError(from.String(), ErrTerminalState)
	}

	ctx, span := startAdvanceSpan(ctx, e.name, from.String())
	start := time.Now()

	defer func() {
		outcome := outcomeSuccess
		if err != nil {
			outcome = outcomeError

			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "advanced")
		}

		span.SetAttributes(attribute.String("to", state.String()))
		span.End()

		advanceDuration.WithLabelValues(sanitizeMachine(e.name), outcome).Observe(time.Since(start).Seconds())
	}()

	rule, ok := e.match(ctx, from)
	if !ok {
		return from, WrapTransitionError(from.String(), "", ErrNoRuleMatched)
	}

	span.SetAttributes(attribute.String("rule", rule.Name()))

	e.current = rule.To

	e.logger.TransitionExecuted(ctx, rule.Name(), from.String(), rule.To.String())
	transitionTotal.WithLabelValues(sanitizeMachine(e.name), from.String(), rule.To.String()).Inc()

	e.runAction(ctx, rule.After)

	delay, err := e.pacer.Pause(ctx)
	e.logger.Paced(ctx, delay, err)
	pacingDuration.WithLabelValues(sanitizeMachine(e.name)).Observe(delay.Seconds())

	if err != nil {
		return e.current, WrapStateError(e.current.String(), err)
	}

	return e.current, nil
}

// Jump moves the machine directly to a state without evaluating any guard. The move
// must be declared in the table's jumps; terminal states can never be left.
// Jumps do not pace: they run inside an Advance, which paces once it returns.
func (e *Engine[S]) Jump(ctx context.Context, to S) (err error) {
	from := e.current
	if e.table.IsTerminal(from) {
		return WrapTransitionError(from.String(), to.String(), ErrTerminalState)
	}

	var (
		jump  Jump[S]
		found bool
	)

	for _, candidate := range e.table.Jumps {
		if candidate.matches(from, to) {
			jump, found = candidate, true

			break
		}
	}

	if !found {
		return WrapTransitionError(from.String(), to.String(), ErrIllegalJump)
	}

	ctx, span := startJumpSpan(ctx, e.name, from.String(), to.String())
	defer span.End()

	e.current = to

	e.logger.JumpExecuted(ctx, from.String(), to.String())
	jumpTotal.WithLabelValues(sanitizeMachine(e.name), from.String(), to.String()).Inc()

	e.runAction(ctx, jump.After)

	return nil
}

// match returns the first rule, in evaluation order, that fully matches.
func (e *Engine[S]) match(ctx context.Context, from S) (Rule[S], bool) {
	for _, rule := range e.table.RulesFor(from) {
		if e.passes(ctx, rule) {
			return rule, true
		}
	}

	return Rule[S]{}, false
}

// passes evaluates the guard chain left to right, stopping at the first failure,
// and then the exclusion guard.
func (e *Engine[S]) passes(ctx context.Context, rule Rule[S]) bool {
	for _, guard := range rule.Guards {
		if !e.evaluate(ctx, rule, guard) {
			e.logger.RuleRejected(ctx, rule.Name(), "guard "+guard.Name+" failed")

			return false
		}
	}

	if rule.Exclusion != nil && e.evaluate(ctx, rule, *rule.Exclusion) {
		e.logger.RuleRejected(ctx, rule.Name(), "excluded by "+rule.Exclusion.Name)

		return false
	}

	return true
}

func (e *Engine[S]) evaluate(ctx context.Context, rule Rule[S], guard Guard) bool {
	passed := guard.Check(ctx)

	e.logger.GuardEvaluated(ctx, rule.Name(), guard.Name, passed)
	guardEvaluations.WithLabelValues(sanitizeMachine(e.name), guard.Name, guardResult(passed)).Inc()

	return passed
}

func (e *Engine[S]) runAction(ctx context.Context, action *Action) {
	if action == nil || action.Run == nil {
		return
	}

	ctx, span := startActionSpan(ctx, e.name, action.Name, e.current.String())
	defer span.End()

	e.logger.ActionStarted(ctx, action.Name)

	start := time.Now()
	action.Run(ctx)

	e.logger.ActionCompleted(ctx, action.Name, time.Since(start))
}
