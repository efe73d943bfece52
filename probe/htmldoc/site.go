// Package htmldoc implements probe.Probe over captured HTML pages.
//
// A Site is a set of named pages. Opening it yields a Document positioned on one
// page; clicking an element carrying data-navigate="other.html" loads that page,
// which turns every handle obtained before the click stale. Radio and checkbox
// inputs toggle their checked attribute when clicked and text inputs keep their
// typed value, so a form can be filled and walked end to end without a browser.
package htmldoc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"facette.io/natsort"
	"github.com/PuerkitoBio/goquery"
	"github.com/alitto/pond/v2"
)

const loadWorkers = 4

var (
	// ErrPageNotFound is returned when a page name is not part of the site.
	ErrPageNotFound = errors.New("page not found")

	// ErrNoDialog is returned when a file is delivered while no file dialog is open.
	ErrNoDialog = errors.New("no file dialog open")

	// ErrDuplicatePage is returned when two snapshot files map to the same page name.
	ErrDuplicatePage = errors.New("duplicate page")
)

// Site holds raw page sources by name.
type Site struct {
	pages map[string]string
}

// NewSite creates a site from page name to HTML source.
func NewSite(pages map[string]string) *Site {
	copied := make(map[string]string, len(pages))
	for name, src := range pages {
		copied[name] = src
	}

	return &Site{pages: copied}
}

// LoadSite reads every page snapshot in dir. Pages may be plain *.html files or
// compressed with gzip (.html.gz), brotli (.html.br), zstd (.html.zst) or lz4
// (.html.lz4); either way a page is named by its *.html file name. Pages saved in
// a legacy encoding are converted to UTF-8.
func LoadSite(dir string) (*Site, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	var (
		mut   sync.Mutex
		pages = make(map[string]string)
		tasks []pond.Task
	)

	pool := pond.NewPool(loadWorkers)
	defer pool.StopAndWait()

	for _, entry := range entries {
		name, ok := pageName(entry.Name())
		if entry.IsDir() || !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		tasks = append(tasks, pool.SubmitErr(func() error {
			src, err := readPage(path)
			if err != nil {
				return err
			}

			mut.Lock()
			defer mut.Unlock()

			if _, dup := pages[name]; dup {
				return fmt.Errorf("%w: %s", ErrDuplicatePage, name)
			}

			pages[name] = src

			return nil
		}))
	}

	var errs []error

	for _, task := range tasks {
		if err := task.Wait(); err != nil { //nolint:noinlineerr
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no page snapshots in %s", ErrPageNotFound, dir)
	}

	return &Site{pages: pages}, nil
}

func readPage(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Operator-supplied snapshot directory
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}

	data, err = decompress(path, data)
	if err != nil {
		return "", err
	}

	return toUTF8(data), nil
}

// Pages returns the page names in natural order, so step2.html sorts before step10.html.
func (s *Site) Pages() []string {
	names := make([]string, 0, len(s.pages))
	for name := range s.pages {
		names = append(names, name)
	}

	natsort.Sort(names)

	return names
}

// Open parses the named page and returns a Document positioned on it.
func (s *Site) Open(page string) (*Document, error) {
	d := &Document{site: s, PollInterval: defaultPollInterval}

	err := d.load(page)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Site) parse(page string) (*goquery.Document, error) {
	src, ok := s.pages[page]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, page)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", page, err)
	}

	return doc, nil
}
