package htmldoc

import (
	"context"
	"fmt"

	"github.com/amp-labs/easyapply/probe"
	"github.com/amp-labs/easyapply/upload"
)

// FileDialog stands in for the native file picker a data-file-dialog control opens.
// Delivering a path writes it to the dialog's target input.
type FileDialog struct {
	doc       *Document
	delivered []string
}

var _ upload.Deliverer = (*FileDialog)(nil)

// FileDialog returns the file picker bound to this document.
func (d *Document) FileDialog() *FileDialog {
	return &FileDialog{doc: d}
}

// Deliver completes the open dialog with path.
func (f *FileDialog) Deliver(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := f.doc.dialog
	if target == "" {
		return ErrNoDialog
	}

	input := f.doc.doc.Find(target).First()
	if input.Length() == 0 {
		return fmt.Errorf("%w: dialog target %s", probe.ErrNotFound, target)
	}

	input.SetAttr("value", path)
	f.doc.dialog = ""
	f.delivered = append(f.delivered, path)

	return nil
}

// Delivered returns every path delivered through this dialog.
func (f *FileDialog) Delivered() []string {
	return f.delivered
}
