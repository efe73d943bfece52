package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// pageExtensions are the suffixes a snapshot file may carry. Compressed captures keep
// the page name of the file they were compressed from.
var pageExtensions = []string{".html", ".html.gz", ".html.br", ".html.zst", ".html.lz4"} //nolint:gochecknoglobals

// pageName strips the compression suffix from a snapshot file name. ok is false for
// files that are not pages.
func pageName(file string) (name string, ok bool) {
	base := filepath.Base(file)

	for _, ext := range pageExtensions {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext) + ".html", true
		}
	}

	return "", false
}

// decompress undoes the compression implied by the file suffix.
func decompress(file string, data []byte) ([]byte, error) {
	var (
		reader io.Reader
		err    error
	)

	switch filepath.Ext(file) {
	case ".gz":
		reader, err = gzip.NewReader(bytes.NewReader(data))
	case ".br":
		reader = brotli.NewReader(bytes.NewReader(data))
	case ".zst":
		var dec *zstd.Decoder

		dec, err = zstd.NewReader(bytes.NewReader(data))
		if err == nil {
			defer dec.Close()

			reader = dec
		}
	case ".lz4":
		reader = lz4.NewReader(bytes.NewReader(data))
	default:
		return data, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file, err)
	}

	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", file, err)
	}

	return out, nil
}

// minConfidence is the chardet confidence below which the page's own markup decides.
const minConfidence = 50

// toUTF8 converts a page saved in a legacy encoding. The encoding is detected from
// the bytes; a weak guess defers to the charset the page declares.
func toUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	var (
		reader io.Reader
		err    error
	)

	best, detectErr := chardet.NewTextDetector().DetectBest(data)
	if detectErr == nil && best.Confidence >= minConfidence {
		reader, err = charset.NewReaderLabel(best.Charset, bytes.NewReader(data))
	} else {
		reader, err = charset.NewReader(bytes.NewReader(data), "text/html")
	}

	if err != nil {
		return string(data)
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(data)
	}

	return string(decoded)
}
