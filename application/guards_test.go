package application

import (
	"errors"
	"testing"

	"github.com/amp-labs/easyapply/probe"
	"github.com/amp-labs/easyapply/probe/probetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The hidden variant is a placeholder, so (generic, hidden, !visible) is NOT an error
// while (generic, !hidden) is. This polarity is intentional; keep it.
func TestCheckForErrorTriState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		generic bool
		hidden  bool
		visible bool
		want    bool
		probes  []string
	}{
		{
			name:   "no indicator",
			want:   false,
			probes: []string{ErrorIndicator.Selector},
		},
		{
			name:    "indicator without placeholder",
			generic: true,
			want:    true,
			probes:  []string{ErrorIndicator.Selector, ErrorHidden.Selector},
		},
		{
			name:    "placeholder and visible message",
			generic: true, hidden: true, visible: true,
			want:   true,
			probes: []string{ErrorIndicator.Selector, ErrorHidden.Selector, ErrorVisible.Selector},
		},
		{
			name:    "placeholder only",
			generic: true, hidden: true,
			want:   false,
			probes: []string{ErrorIndicator.Selector, ErrorHidden.Selector, ErrorVisible.Selector},
		},
		{
			name:    "visible message without indicator",
			visible: true,
			want:    false,
			probes:  []string{ErrorIndicator.Selector},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := probetest.New()
			if tt.generic {
				doc.Add(&probetest.Element{Selector: ErrorIndicator.Selector})
			}

			if tt.hidden {
				doc.Add(&probetest.Element{Selector: ErrorHidden.Selector})
			}

			if tt.visible {
				doc.Add(&probetest.Element{Selector: ErrorVisible.Selector})
			}

			app := newTestApplication(t, doc)

			first := app.checkForError(t.Context())
			second := app.checkForError(t.Context())

			assert.Equal(t, tt.want, first)
			assert.Equal(t, first, second, "detection is idempotent")

			var probed []string
			for _, call := range doc.Calls[:len(doc.Calls)/2] {
				probed = append(probed, call[len("exists:"):])
			}

			assert.Equal(t, tt.probes, probed)
		})
	}
}

func TestCheckForErrorProbeFailure(t *testing.T) {
	t.Parallel()

	for _, loc := range []probe.Locator{ErrorIndicator, ErrorHidden, ErrorVisible} {
		t.Run(loc.Name, func(t *testing.T) {
			t.Parallel()

			doc := probetest.New(
				&probetest.Element{Selector: ErrorIndicator.Selector},
				&probetest.Element{Selector: ErrorHidden.Selector},
				&probetest.Element{Selector: ErrorVisible.Selector},
			)
			doc.ExistsErr = map[string]error{loc.Selector: probe.ErrStale}

			app := newTestApplication(t, doc)
			assert.False(t, app.checkForError(t.Context()))
		})
	}
}

func TestGoToNextSkipsClickWhenAbsent(t *testing.T) {
	t.Parallel()

	doc := probetest.New()
	app := newTestApplication(t, doc)

	assert.False(t, app.goToNext(t.Context()))
	assert.Equal(t, []string{"exists:" + NextButton.Selector}, doc.Calls)
}

func TestActivateSwallowsInteractionFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		el   *probetest.Element
	}{
		{"disabled", &probetest.Element{Selector: ReviewButton.Selector, Disabled: true}},
		{"stale", &probetest.Element{Selector: ReviewButton.Selector, ClickErr: probe.ErrStale}},
		{"unexpected", &probetest.Element{Selector: ReviewButton.Selector, ClickErr: errors.New("driver crashed")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := newTestApplication(t, probetest.New(tt.el))
			assert.False(t, app.goToReview(t.Context()))
		})
	}
}

func TestSubmitAppHasNoPresenceCheck(t *testing.T) {
	t.Parallel()

	doc := probetest.New(&probetest.Element{Selector: SubmitButton.Selector})
	app := newTestApplication(t, doc)

	require.True(t, app.submitApp(t.Context()))
	assert.Equal(t, []string{"wait:" + SubmitButton.Selector, "click:" + SubmitButton.Selector}, doc.Calls)
}

func TestParseState(t *testing.T) {
	t.Parallel()

	for _, s := range States {
		parsed, err := ParseState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	parsed, err := ParseState("questions2")
	require.NoError(t, err)
	assert.Equal(t, Questions2, parsed)

	_, err = ParseState("Thanks")
	require.ErrorIs(t, err, ErrUnknownState)

	assert.Equal(t, "State(42)", State(42).String())
}
