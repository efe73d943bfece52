package htmldoc

import (
	"context"
	"testing"
	"time"

	"github.com/amp-labs/easyapply/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	next      = probe.Locator{Name: "next", Selector: "button[aria-label='Continue to next step']"}
	review    = probe.Locator{Name: "review", Selector: "button[aria-label='Review your application']"}
	uploadLoc = probe.Locator{Name: "upload", Selector: "label[aria-label='DOC, DOCX, PDF formats only (2 MB).']"}
	question  = probe.Locator{Name: "question", Selector: "div.jobs-easy-apply-form-section__grouping"}
	yes       = probe.Locator{Name: "yes", Selector: "input[value='Yes']"}
	text      = probe.Locator{Name: "text", Selector: "input[type='text']"}
)

func openPage(t *testing.T, page string) *Document {
	t.Helper()

	site, err := LoadSite("testdata/site")
	require.NoError(t, err)

	doc, err := site.Open(page)
	require.NoError(t, err)

	doc.PollInterval = time.Millisecond

	return doc
}

func TestLoadSite(t *testing.T) {
	t.Parallel()

	site, err := LoadSite("testdata/site")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"done.html", "info.html", "invalid.html", "questions.html", "review.html", "upload.html",
	}, site.Pages())

	_, err = site.Open("missing.html")
	require.ErrorIs(t, err, ErrPageNotFound)

	_, err = LoadSite(t.TempDir())
	require.ErrorIs(t, err, ErrPageNotFound)
}

func TestExists(t *testing.T) {
	t.Parallel()

	doc := openPage(t, "info.html")

	ok, err := doc.Exists(t.Context(), uploadLoc)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = doc.Exists(t.Context(), review)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClickNavigatesAndStalesHandles(t *testing.T) {
	t.Parallel()

	doc := openPage(t, "info.html")

	button, err := doc.WaitUntilClickable(t.Context(), next, time.Second)
	require.NoError(t, err)
	require.NoError(t, doc.Click(t.Context(), button))

	assert.Equal(t, "upload.html", doc.Page())

	err = doc.Click(t.Context(), button)
	require.ErrorIs(t, err, probe.ErrStale)
}

func TestWaitUntilClickableTimesOut(t *testing.T) {
	t.Parallel()

	doc := openPage(t, "invalid.html")

	ok, err := doc.Exists(t.Context(), review)
	require.NoError(t, err)
	require.True(t, ok, "disabled controls still exist")

	start := time.Now()
	_, err = doc.WaitUntilClickable(t.Context(), review, 20*time.Millisecond)
	require.ErrorIs(t, err, probe.ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestWaitUntilClickableCancelled(t *testing.T) {
	t.Parallel()

	doc := openPage(t, "invalid.html")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := doc.WaitUntilClickable(ctx, review, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
}

func TestQuestionBlocks(t *testing.T) {
	t.Parallel()

	doc := openPage(t, "questions.html")

	blocks, err := doc.FindAll(t.Context(), question)
	require.NoError(t, err)
	require.Len(t, blocks, 4)

	label, err := doc.Text(t.Context(), blocks[0])
	require.NoError(t, err)
	assert.Equal(t, "Are you legally authorized to work in the United States?", label)

	radio, err := doc.FindChild(t.Context(), blocks[0], yes)
	require.NoError(t, err)
	require.NoError(t, doc.Click(t.Context(), radio))
	assert.True(t, doc.Checked("input[name='authorized'][value='Yes']"))
	assert.False(t, doc.Checked("input[name='authorized'][value='No']"))

	field, err := doc.FindChild(t.Context(), blocks[2], text)
	require.NoError(t, err)
	require.NoError(t, doc.Clear(t.Context(), field))
	require.NoError(t, doc.Type(t.Context(), field, "10"))

	value, err := doc.Value(t.Context(), field)
	require.NoError(t, err)
	assert.Equal(t, "10", value)

	_, err = doc.FindChild(t.Context(), blocks[2], yes)
	require.ErrorIs(t, err, probe.ErrNotFound)
}

func TestFileDialog(t *testing.T) {
	t.Parallel()

	doc := openPage(t, "upload.html")
	dialog := doc.FileDialog()

	require.ErrorIs(t, dialog.Deliver(t.Context(), "/tmp/resume.pdf"), ErrNoDialog)

	label, err := doc.WaitUntilClickable(t.Context(), uploadLoc, time.Second)
	require.NoError(t, err)
	require.NoError(t, doc.Click(t.Context(), label))
	require.NoError(t, dialog.Deliver(t.Context(), "/tmp/resume.pdf"))

	value, ok := doc.Attr("input[name='file']", "value")
	require.True(t, ok)
	assert.Equal(t, "/tmp/resume.pdf", value)
	assert.Equal(t, []string{"/tmp/resume.pdf"}, dialog.Delivered())
	assert.Equal(t, "upload.html", doc.Page(), "opening the dialog does not navigate")
}

func TestNewSite(t *testing.T) {
	t.Parallel()

	site := NewSite(map[string]string{
		"a.html": `<button id="go" data-navigate="b.html">go</button>`,
		"b.html": `<p>arrived</p>`,
	})

	doc, err := site.Open("a.html")
	require.NoError(t, err)

	go1, err := doc.WaitUntilClickable(t.Context(), probe.Locator{Selector: "#go"}, 0)
	require.NoError(t, err)
	require.NoError(t, doc.Click(t.Context(), go1))

	ok, err := doc.Exists(t.Context(), probe.Locator{Selector: "p"})
	require.NoError(t, err)
	assert.True(t, ok)
}
