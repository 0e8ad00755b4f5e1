// Package pages models the ordered page list of a document. Each page is a
// single stored snapshot; the active page's live content is flushed back into
// its slot before every switch.
package pages

import (
	"errors"
	"fmt"

	"github.com/example/rxpad/internal/canvas"
)

var (
	ErrCannotDeleteLastPage = errors.New("cannot delete the last page")
	ErrAlreadyAtBoundary    = errors.New("already at boundary")
	ErrPageOutOfRange       = errors.New("page out of range")
)

// Collection is a non-empty ordered list of page snapshots with an active
// index that is always valid.
type Collection struct {
	slots  []canvas.Snapshot
	active int
}

// New returns a collection holding one blank page.
func New() *Collection {
	return &Collection{slots: []canvas.Snapshot{{}}}
}

// Len is the page count.
func (c *Collection) Len() int { return len(c.slots) }

// Active is the zero-based active page index.
func (c *Collection) Active() int { return c.active }

// Page returns the stored snapshot of page i.
func (c *Collection) Page(i int) (canvas.Snapshot, error) {
	if i < 0 || i >= len(c.slots) {
		return canvas.Snapshot{}, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, i+1, len(c.slots))
	}
	return c.slots[i], nil
}

// All returns a copy of the stored snapshots in page order.
func (c *Collection) All() []canvas.Snapshot {
	return append([]canvas.Snapshot(nil), c.slots...)
}

// Flush stores the live content of the active page.
func (c *Collection) Flush(current canvas.Snapshot) {
	c.slots[c.active] = current
}

// Add flushes current, appends a blank page and activates it.
func (c *Collection) Add(current canvas.Snapshot) int {
	c.Flush(current)
	c.slots = append(c.slots, canvas.Snapshot{})
	c.active = len(c.slots) - 1
	return c.active
}

// Delete removes the active page and returns the snapshot of the page that
// becomes active.
func (c *Collection) Delete() (canvas.Snapshot, error) {
	if len(c.slots) <= 1 {
		return canvas.Snapshot{}, ErrCannotDeleteLastPage
	}
	c.slots = append(c.slots[:c.active], c.slots[c.active+1:]...)
	if c.active >= len(c.slots) {
		c.active = len(c.slots) - 1
	}
	return c.slots[c.active], nil
}

// GoTo flushes current and activates page i.
func (c *Collection) GoTo(i int, current canvas.Snapshot) (canvas.Snapshot, error) {
	if i < 0 || i >= len(c.slots) {
		return canvas.Snapshot{}, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, i+1, len(c.slots))
	}
	c.Flush(current)
	c.active = i
	return c.slots[i], nil
}

// Previous flushes current and activates the preceding page.
func (c *Collection) Previous(current canvas.Snapshot) (canvas.Snapshot, error) {
	if c.active == 0 {
		return canvas.Snapshot{}, fmt.Errorf("%w: first page", ErrAlreadyAtBoundary)
	}
	return c.GoTo(c.active-1, current)
}

// Next flushes current and activates the following page.
func (c *Collection) Next(current canvas.Snapshot) (canvas.Snapshot, error) {
	if c.active == len(c.slots)-1 {
		return canvas.Snapshot{}, fmt.Errorf("%w: last page", ErrAlreadyAtBoundary)
	}
	return c.GoTo(c.active+1, current)
}

// Replace swaps in a whole page list and activates the first page. An empty
// list becomes a single blank page.
func (c *Collection) Replace(slots []canvas.Snapshot) {
	c.slots = append([]canvas.Snapshot(nil), slots...)
	if len(c.slots) == 0 {
		c.slots = []canvas.Snapshot{{}}
	}
	c.active = 0
}
