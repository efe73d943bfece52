package validator

import (
	"context"
	"testing"

	"github.com/amp-labs/easyapply/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step int

const (
	start step = iota
	middle
	orphan
	done
)

func (s step) String() string {
	return [...]string{"start", "middle", "orphan", "done"}[s]
}

func always(name string) statemachine.Guard {
	return statemachine.NewGuard(name, func(context.Context) bool { return true })
}

func validTable() statemachine.Table[step] {
	return statemachine.Table[step]{
		States:   []step{start, middle, done},
		Initial:  start,
		Terminal: []step{done},
		Rules: []statemachine.Rule[step]{
			statemachine.On(start, middle).When(always("ready")),
			statemachine.FromAny(done),
		},
	}
}

func codes(issues []ValidationError) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Code)
	}

	return out
}

func warningCodes(issues []ValidationWarning) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Code)
	}

	return out
}

func TestValidateValidTable(t *testing.T) {
	t.Parallel()

	result := Validate(validTable())

	assert.True(t, result.Valid)
	assert.False(t, result.HasErrors())
	assert.False(t, result.HasWarnings())
	assert.Contains(t, result.String(), "table is valid")
}

func TestValidateMissingFallback(t *testing.T) {
	t.Parallel()

	table := validTable()
	table.Rules = []statemachine.Rule[step]{statemachine.On(start, done).When(always("ready"))}

	result := Validate(table)

	require.False(t, result.Valid)
	assert.Contains(t, codes(result.Errors), "MISSING_FALLBACK")
}

func TestValidateShadowedRule(t *testing.T) {
	t.Parallel()

	table := validTable()
	table.Rules = []statemachine.Rule[step]{
		statemachine.On(start, middle),
		statemachine.On(start, done).When(always("never_reached")),
		statemachine.FromAny(done),
		statemachine.FromAny(middle),
	}

	result := Validate(table)

	require.False(t, result.Valid)
	assert.Equal(t, []string{"SHADOWED_RULE", "SHADOWED_RULE"}, codes(result.Errors))
	assert.Equal(t, "start->done", result.Errors[0].Location.Rule)
	assert.Equal(t, "*->middle", result.Errors[1].Location.Rule)
}

func TestValidateUnreachableState(t *testing.T) {
	t.Parallel()

	table := validTable()
	table.States = append(table.States, orphan)
	table.Rules = append(table.Rules, statemachine.On(orphan, done).When(always("stuck")))

	result := Validate(table)

	assert.True(t, result.Valid)
	assert.Equal(t, []string{"UNREACHABLE_STATE"}, warningCodes(result.Warnings))
	assert.Equal(t, "orphan", result.Warnings[0].Location.State)
}

func TestValidateJumpMakesStateReachable(t *testing.T) {
	t.Parallel()

	table := validTable()
	table.States = append(table.States, orphan)
	table.Jumps = []statemachine.Jump[step]{statemachine.JumpFrom(middle, orphan)}

	result := Validate(table)

	assert.Empty(t, result.Warnings)
}

func TestValidateTerminalSource(t *testing.T) {
	t.Parallel()

	table := validTable()
	table.Rules = append([]statemachine.Rule[step]{statemachine.On(done, start).When(always("restart"))}, table.Rules...)
	table.Jumps = []statemachine.Jump[step]{statemachine.JumpFrom(done, middle)}

	result := Validate(table)

	assert.Equal(t, []string{"TERMINAL_SOURCE", "TERMINAL_SOURCE"}, warningCodes(result.Warnings))
}

func TestValidateSelfLoop(t *testing.T) {
	t.Parallel()

	table := validTable()
	table.Rules = append([]statemachine.Rule[step]{
		statemachine.On(middle, middle).When(always("wait")),
		statemachine.On(middle, middle).When(statemachine.NewEffect("click", func(context.Context) bool { return true })),
	}, table.Rules...)

	result := Validate(table)

	assert.Equal(t, []string{"SELF_LOOP"}, warningCodes(result.Warnings))
}

func TestValidateStrict(t *testing.T) {
	t.Parallel()

	table := validTable()
	table.States = append(table.States, orphan)

	result := ValidateStrict(table)

	assert.False(t, result.Valid)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []string{"UNREACHABLE_STATE"}, codes(result.Errors))
	assert.Contains(t, result.String(), "(state: orphan)")
}
