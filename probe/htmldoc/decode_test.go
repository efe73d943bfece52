package htmldoc

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/amp-labs/easyapply/probe"
	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compress(t *testing.T, ext string, src string) []byte {
	t.Helper()

	var (
		buf bytes.Buffer
		w   io.WriteCloser
	)

	switch ext {
	case ".gz":
		w = gzip.NewWriter(&buf)
	case ".br":
		w = brotli.NewWriter(&buf)
	case ".zst":
		enc, err := zstd.NewWriter(&buf)
		require.NoError(t, err)

		w = enc
	case ".lz4":
		w = lz4.NewWriter(&buf)
	default:
		t.Fatalf("unknown extension %s", ext)
	}

	_, err := io.WriteString(w, src)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestLoadSiteCompressedSnapshots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, ext := range []string{".gz", ".br", ".zst", ".lz4"} {
		src := `<p id="codec">` + ext + `</p>`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "page"+ext[1:]+".html"+ext), compress(t, ext, src), 0o600))
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	site, err := LoadSite(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"pagebr.html", "pagegz.html", "pagelz4.html", "pagezst.html"}, site.Pages())

	for page, want := range map[string]string{
		"pagegz.html": ".gz", "pagebr.html": ".br", "pagezst.html": ".zst", "pagelz4.html": ".lz4",
	} {
		doc, err := site.Open(page)
		require.NoError(t, err)

		handles, err := doc.FindAll(t.Context(), probe.Locator{Selector: "#codec"})
		require.NoError(t, err)
		require.Len(t, handles, 1)

		text, err := doc.Text(t.Context(), handles[0])
		require.NoError(t, err)
		assert.Equal(t, want, text)
	}
}

func TestLoadSiteDuplicatePage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.html"), []byte("<p>a</p>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.html.gz"), compress(t, ".gz", "<p>b</p>"), 0o600))

	_, err := LoadSite(dir)
	require.ErrorIs(t, err, ErrDuplicatePage)
}

func TestLoadSiteCorruptSnapshot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.html.gz"), []byte("not gzip"), 0o600))

	_, err := LoadSite(dir)
	require.Error(t, err)
}

func TestLoadSiteLegacyEncoding(t *testing.T) {
	t.Parallel()

	// windows-1252: 0xE9 is é.
	src := "<html><head><meta charset=\"windows-1252\"></head><body>" +
		"<p id=\"q\">Caf\xe9 cr\xe8me, r\xe9sum\xe9 d\xe9taill\xe9 et exp\xe9rience \xe0 l'\xe9tranger.</p>" +
		"</body></html>"

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "legacy.html"), []byte(src), 0o600))

	site, err := LoadSite(dir)
	require.NoError(t, err)

	doc, err := site.Open("legacy.html")
	require.NoError(t, err)

	handles, err := doc.FindAll(t.Context(), probe.Locator{Selector: "#q"})
	require.NoError(t, err)
	require.Len(t, handles, 1)

	text, err := doc.Text(t.Context(), handles[0])
	require.NoError(t, err)
	assert.Contains(t, text, "Café crème")
}

func TestPagesNaturalOrder(t *testing.T) {
	t.Parallel()

	site := NewSite(map[string]string{"step10.html": "", "step2.html": "", "step1.html": ""})
	assert.Equal(t, []string{"step1.html", "step2.html", "step10.html"}, site.Pages())
}
