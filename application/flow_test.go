package application

import (
	"testing"
	"time"

	"github.com/amp-labs/easyapply/probe/htmldoc"
	"github.com/amp-labs/easyapply/statemachine"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSnapshot(t *testing.T, page string, opts ...Option) (*Application, *htmldoc.Document) {
	t.Helper()

	site, err := htmldoc.LoadSite("../probe/htmldoc/testdata/site")
	require.NoError(t, err)

	doc, err := site.Open(page)
	require.NoError(t, err)

	doc.PollInterval = time.Millisecond

	base := []Option{
		WithPacer(statemachine.NoPacing),
		WithInteractionPacer(statemachine.NoPacing),
		WithUploadPacer(statemachine.NoPacing),
		WithClickTimeout(20 * time.Millisecond),
		WithEngineLogger(statemachine.NewSlogLogger(slogt.New(t))),
		WithDeliverer(doc.FileDialog()),
	}

	app, err := New("snapshot", doc, append(base, opts...)...)
	require.NoError(t, err)

	return app, doc
}

func TestSnapshotFlowSubmits(t *testing.T) {
	t.Parallel()

	app, doc := openSnapshot(t, "info.html", WithResumePath("resume.pdf"))

	var visited []State

	for !app.engine.IsTerminal() {
		state, err := app.Advance(t.Context())
		require.NoError(t, err)

		visited = append(visited, state)

		if state == Upload {
			value, _ := doc.Attr("input[name='file']", "value")
			assert.Equal(t, "resume.pdf", value)
		}

		if state == Questions1 {
			assert.True(t, doc.Checked("input[name='authorized'][value='Yes']"))
			assert.True(t, doc.Checked("input[name='sponsorship'][value='No']"))

			years, _ := doc.Attr("input[name='years']", "value")
			assert.Equal(t, "10", years)

			colour, _ := doc.Attr("input[name='colour']", "value")
			assert.Empty(t, colour)
		}
	}

	assert.Equal(t, []State{Upload, Questions1, Review, Submitted}, visited)
	assert.Equal(t, "done.html", doc.Page())
}

func TestSnapshotValidationErrorRecovers(t *testing.T) {
	t.Parallel()

	app, doc := openSnapshot(t, "invalid.html")

	state, err := app.Advance(t.Context())
	require.NoError(t, err)

	assert.Equal(t, Questions1, state)
	assert.Equal(t, 1, app.Recoveries())

	years, _ := doc.Attr("input[name='years']", "value")
	assert.Equal(t, "10", years, "the invalid answer is replaced")
}

func TestSnapshotRecoveryLimitSuspends(t *testing.T) {
	t.Parallel()

	app, _ := openSnapshot(t, "invalid.html", WithMaxRecoveries(0))

	err := app.Run(t.Context())
	require.ErrorIs(t, err, ErrSuspended)
	assert.Equal(t, Suspended, app.State())
}
