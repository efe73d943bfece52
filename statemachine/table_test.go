package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesForOrdersSpecificBeforeWildcard(t *testing.T) {
	t.Parallel()

	table := Table[light]{
		States:  []light{red, green, yellow, off},
		Initial: red,
		Rules: []Rule[light]{
			FromAny(off),
			On(red, green),
			On(green, yellow),
			On(red, yellow),
		},
	}

	names := func(rules []Rule[light]) []string {
		out := make([]string, 0, len(rules))
		for _, r := range rules {
			out = append(out, r.Name())
		}

		return out
	}

	assert.Equal(t, []string{"red->green", "red->yellow", "*->off"}, names(table.RulesFor(red)))
	assert.Equal(t, []string{"green->yellow", "*->off"}, names(table.RulesFor(green)))
	assert.Equal(t, []string{"*->off"}, names(table.RulesFor(off)))
}

func TestRuleBuildersCopy(t *testing.T) {
	t.Parallel()

	always := NewGuard("always", func(context.Context) bool { return true })
	jammed := NewGuard("jammed", func(context.Context) bool { return false })

	base := On(red, green).When(always)
	excluded := base.Unless(jammed)

	assert.Nil(t, base.Exclusion, "Unless returns a modified copy")
	assert.True(t, base.Guards[0].Check(t.Context()))
	require.NotNil(t, excluded.Exclusion)
	assert.Equal(t, "jammed", excluded.Exclusion.Name)
	assert.False(t, excluded.Unguarded())
	assert.True(t, On(red, green).Unguarded())
}

func TestTableValidate(t *testing.T) {
	t.Parallel()

	valid := func() Table[light] {
		return Table[light]{
			States:   []light{red, green, off},
			Initial:  red,
			Terminal: []light{off},
			Rules: []Rule[light]{
				On(red, green).When(NewGuard("g", func(context.Context) bool { return true })),
				FromAny(off),
			},
			Jumps: []Jump[light]{JumpTo(off)},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Table[light])
		wantErr error
	}{
		{"valid", func(*Table[light]) {}, nil},
		{"no states", func(tb *Table[light]) { tb.States = nil }, ErrStateRequired},
		{"unknown initial", func(tb *Table[light]) { tb.Initial = yellow }, ErrInitialStateNotFound},
		{"unknown terminal", func(tb *Table[light]) { tb.Terminal = []light{broken} }, ErrTerminalStateNotFound},
		{"unknown destination", func(tb *Table[light]) {
			tb.Rules = append([]Rule[light]{On(red, yellow)}, tb.Rules...)
		}, ErrUnknownState},
		{"unknown jump", func(tb *Table[light]) { tb.Jumps = append(tb.Jumps, JumpFrom(broken, red)) }, ErrUnknownState},
		{"nil guard", func(tb *Table[light]) {
			tb.Rules = append([]Rule[light]{On(red, green).When(Guard{Name: "nil"})}, tb.Rules...)
		}, ErrNilGuard},
		{"missing fallback", func(tb *Table[light]) { tb.Rules = tb.Rules[:1] }, ErrMissingFallback},
		{"guarded wildcard is not a fallback", func(tb *Table[light]) {
			tb.Rules = []Rule[light]{FromAny(off).When(NewGuard("g", func(context.Context) bool { return true }))}
		}, ErrMissingFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table := valid()
			tt.mutate(&table)

			err := table.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
