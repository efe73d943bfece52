// Package probetest provides a scriptable in-memory probe.Probe for tests.
//
// A Document holds a flat list of top-level elements matched by exact selector
// string. Exists, WaitUntilClickable and FindAll look at top-level elements only;
// FindChild searches an element's children. Replacing the content invalidates
// every handle handed out before, which makes them stale.
package probetest

import (
	"context"
	"fmt"
	"time"

	"github.com/amp-labs/easyapply/probe"
)

// Element is one scripted element of a Document.
type Element struct {
	Selector string
	Text     string
	Value    string

	// Disabled makes the element visible to Exists but never clickable.
	Disabled bool

	// ClickErr and TextErr are returned by Click and Text when set.
	ClickErr error
	TextErr  error

	Children []*Element

	// OnClick runs after a successful click and may rewrite the document.
	OnClick func(doc *Document)

	clicks int
}

// Clicks returns how many times the element was clicked.
func (e *Element) Clicks() int {
	return e.clicks
}

type handle struct {
	el  *Element
	gen int
}

func (h *handle) String() string {
	return h.el.Selector
}

// Document is a fake probe.Probe. It is not safe for concurrent use.
type Document struct {
	elements []*Element
	gen      int

	// Calls records every probe call as "op:selector" in order.
	Calls []string

	// ExistsErr makes Exists fail for the given selectors.
	ExistsErr map[string]error
}

var _ probe.Probe = (*Document)(nil)

// New creates a document holding the given elements.
func New(elements ...*Element) *Document {
	return &Document{elements: elements}
}

// Add appends elements without invalidating existing handles.
func (d *Document) Add(elements ...*Element) {
	d.elements = append(d.elements, elements...)
}

// Remove drops every top-level element with the selector. Handles to them go stale.
func (d *Document) Remove(selector string) {
	kept := d.elements[:0]

	for _, el := range d.elements {
		if el.Selector != selector {
			kept = append(kept, el)
		}
	}

	d.elements = kept
}

// Replace swaps the whole content, as a page navigation would.
func (d *Document) Replace(elements ...*Element) {
	d.elements = elements
	d.gen++
}

// Find returns the first top-level element with the selector, or nil.
func (d *Document) Find(selector string) *Element {
	for _, el := range d.elements {
		if el.Selector == selector {
			return el
		}
	}

	return nil
}

func (d *Document) record(op, selector string) {
	d.Calls = append(d.Calls, op+":"+selector)
}

func (d *Document) Exists(ctx context.Context, loc probe.Locator) (bool, error) {
	d.record("exists", loc.Selector)

	if err := ctx.Err(); err != nil {
		return false, err
	}

	if err, ok := d.ExistsErr[loc.Selector]; ok {
		return false, err
	}

	return d.Find(loc.Selector) != nil, nil
}

// WaitUntilClickable does not wait: the document only changes when the test changes it.
func (d *Document) WaitUntilClickable(ctx context.Context, loc probe.Locator, timeout time.Duration) (probe.Handle, error) {
	d.record("wait", loc.Selector)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, el := range d.elements {
		if el.Selector == loc.Selector && !el.Disabled {
			return &handle{el: el, gen: d.gen}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s after %s", probe.ErrTimeout, loc, timeout)
}

func (d *Document) Click(_ context.Context, h probe.Handle) error {
	el, err := d.resolve(h)
	if err != nil {
		return err
	}

	d.record("click", el.Selector)

	if el.ClickErr != nil {
		return el.ClickErr
	}

	if el.Disabled {
		return fmt.Errorf("%w: %s", probe.ErrNotInteractable, el.Selector)
	}

	el.clicks++

	if el.OnClick != nil {
		el.OnClick(d)
	}

	return nil
}

func (d *Document) FindAll(_ context.Context, loc probe.Locator) ([]probe.Handle, error) {
	d.record("findall", loc.Selector)

	var out []probe.Handle

	for _, el := range d.elements {
		if el.Selector == loc.Selector {
			out = append(out, &handle{el: el, gen: d.gen})
		}
	}

	return out, nil
}

func (d *Document) Text(_ context.Context, h probe.Handle) (string, error) {
	el, err := d.resolve(h)
	if err != nil {
		return "", err
	}

	d.record("text", el.Selector)

	if el.TextErr != nil {
		return "", el.TextErr
	}

	return el.Text, nil
}

func (d *Document) FindChild(_ context.Context, h probe.Handle, loc probe.Locator) (probe.Handle, error) {
	el, err := d.resolve(h)
	if err != nil {
		return nil, err
	}

	d.record("child", loc.Selector)

	for _, child := range el.Children {
		if child.Selector == loc.Selector {
			return &handle{el: child, gen: d.gen}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s under %s", probe.ErrNotFound, loc, el.Selector)
}

func (d *Document) Value(_ context.Context, h probe.Handle) (string, error) {
	el, err := d.resolve(h)
	if err != nil {
		return "", err
	}

	return el.Value, nil
}

func (d *Document) Clear(_ context.Context, h probe.Handle) error {
	el, err := d.resolve(h)
	if err != nil {
		return err
	}

	d.record("clear", el.Selector)
	el.Value = ""

	return nil
}

func (d *Document) Type(_ context.Context, h probe.Handle, text string) error {
	el, err := d.resolve(h)
	if err != nil {
		return err
	}

	d.record("type", el.Selector)
	el.Value += text

	return nil
}

func (d *Document) resolve(h probe.Handle) (*Element, error) {
	hd, ok := h.(*handle)
	if !ok || hd == nil {
		return nil, fmt.Errorf("%w: foreign handle %v", probe.ErrStale, h)
	}

	if hd.gen != d.gen || !d.contains(hd.el) {
		return nil, fmt.Errorf("%w: %s", probe.ErrStale, hd.el.Selector)
	}

	return hd.el, nil
}

func (d *Document) contains(target *Element) bool {
	var walk func(els []*Element) bool

	walk = func(els []*Element) bool {
		for _, el := range els {
			if el == target || walk(el.Children) {
				return true
			}
		}

		return false
	}

	return walk(d.elements)
}
