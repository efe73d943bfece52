package htmldoc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/amp-labs/easyapply/probe"
)

const defaultPollInterval = 50 * time.Millisecond

type handle struct {
	sel *goquery.Selection
	gen int
	loc string
}

func (h *handle) String() string {
	return h.loc
}

// Document is a live view of one page of a Site. It is not safe for concurrent use.
type Document struct {
	site *Site
	page string
	doc  *goquery.Document
	gen  int

	// dialog is the selector of the input a pending file dialog writes to.
	dialog string

	// PollInterval is how often WaitUntilClickable re-checks the page.
	PollInterval time.Duration
}

var _ probe.Probe = (*Document)(nil)

// Page returns the name of the page currently loaded.
func (d *Document) Page() string {
	return d.page
}

// Navigate loads another page of the site, as following a link would.
func (d *Document) Navigate(page string) error {
	return d.load(page)
}

func (d *Document) load(page string) error {
	doc, err := d.site.parse(page)
	if err != nil {
		return err
	}

	d.doc = doc
	d.page = page
	d.dialog = ""
	d.gen++

	return nil
}

func (d *Document) Exists(ctx context.Context, loc probe.Locator) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	return d.doc.Find(loc.Selector).Length() > 0, nil
}

func (d *Document) WaitUntilClickable(ctx context.Context, loc probe.Locator, timeout time.Duration) (probe.Handle, error) {
	deadline := time.Now().Add(timeout)

	for {
		var found *goquery.Selection

		d.doc.Find(loc.Selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if interactable(s) {
				found = s

				return false
			}

			return true
		})

		if found != nil {
			return d.wrap(found, loc.String()), nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: %s after %s", probe.ErrTimeout, loc, timeout)
		}

		timer := time.NewTimer(min(d.PollInterval, remaining))

		select {
		case <-ctx.Done():
			timer.Stop()

			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (d *Document) Click(ctx context.Context, h probe.Handle) error {
	sel, err := d.resolve(h)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if !interactable(sel) {
		return fmt.Errorf("%w: %s", probe.ErrNotInteractable, h)
	}

	if target, ok := sel.Attr("data-file-dialog"); ok {
		d.dialog = target

		return nil
	}

	if page, ok := sel.Attr("data-navigate"); ok {
		return d.load(page)
	}

	if goquery.NodeName(sel) == "input" {
		switch kind, _ := sel.Attr("type"); kind {
		case "radio":
			if name, ok := sel.Attr("name"); ok {
				d.doc.Find(fmt.Sprintf("input[type='radio'][name=%q]", name)).RemoveAttr("checked")
			}

			sel.SetAttr("checked", "checked")
		case "checkbox":
			if _, checked := sel.Attr("checked"); checked {
				sel.RemoveAttr("checked")
			} else {
				sel.SetAttr("checked", "checked")
			}
		}
	}

	return nil
}

func (d *Document) FindAll(ctx context.Context, loc probe.Locator) ([]probe.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []probe.Handle

	d.doc.Find(loc.Selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, d.wrap(s, loc.String()))
	})

	return out, nil
}

func (d *Document) Text(_ context.Context, h probe.Handle) (string, error) {
	sel, err := d.resolve(h)
	if err != nil {
		return "", err
	}

	return strings.Join(strings.Fields(sel.Text()), " "), nil
}

func (d *Document) FindChild(_ context.Context, h probe.Handle, loc probe.Locator) (probe.Handle, error) {
	sel, err := d.resolve(h)
	if err != nil {
		return nil, err
	}

	child := sel.Find(loc.Selector).First()
	if child.Length() == 0 {
		return nil, fmt.Errorf("%w: %s under %s", probe.ErrNotFound, loc, h)
	}

	return d.wrap(child, loc.String()), nil
}

func (d *Document) Value(_ context.Context, h probe.Handle) (string, error) {
	sel, err := d.resolve(h)
	if err != nil {
		return "", err
	}

	return sel.AttrOr("value", ""), nil
}

func (d *Document) Clear(_ context.Context, h probe.Handle) error {
	sel, err := d.editable(h)
	if err != nil {
		return err
	}

	sel.SetAttr("value", "")

	return nil
}

func (d *Document) Type(_ context.Context, h probe.Handle, text string) error {
	sel, err := d.editable(h)
	if err != nil {
		return err
	}

	sel.SetAttr("value", sel.AttrOr("value", "")+text)

	return nil
}

// Checked reports whether the first element matching selector carries the checked attribute.
func (d *Document) Checked(selector string) bool {
	_, ok := d.doc.Find(selector).First().Attr("checked")

	return ok
}

// Attr returns an attribute of the first element matching selector.
func (d *Document) Attr(selector, name string) (string, bool) {
	return d.doc.Find(selector).First().Attr(name)
}

func (d *Document) editable(h probe.Handle) (*goquery.Selection, error) {
	sel, err := d.resolve(h)
	if err != nil {
		return nil, err
	}

	if !interactable(sel) {
		return nil, fmt.Errorf("%w: %s", probe.ErrNotInteractable, h)
	}

	return sel, nil
}

func (d *Document) wrap(sel *goquery.Selection, loc string) *handle {
	return &handle{sel: sel, gen: d.gen, loc: loc}
}

func (d *Document) resolve(h probe.Handle) (*goquery.Selection, error) {
	hd, ok := h.(*handle)
	if !ok || hd == nil {
		return nil, fmt.Errorf("%w: foreign handle %v", probe.ErrStale, h)
	}

	if hd.gen != d.gen {
		return nil, fmt.Errorf("%w: %s on a previous page", probe.ErrStale, hd.loc)
	}

	return hd.sel, nil
}

// interactable reports whether neither the element nor any ancestor is disabled or hidden.
func interactable(sel *goquery.Selection) bool {
	blocked := false

	sel.AddSelection(sel.Parents()).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		_, disabled := s.Attr("disabled")
		_, hidden := s.Attr("hidden")
		style := strings.ReplaceAll(s.AttrOr("style", ""), " ", "")

		if disabled || hidden || s.HasClass("visually-hidden") || strings.Contains(style, "display:none") {
			blocked = true

			return false
		}

		return true
	})

	return !blocked
}
