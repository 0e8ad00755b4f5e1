// Package history keeps the linear undo/redo stack of full-buffer snapshots.
package history

import (
	"errors"

	"github.com/example/rxpad/internal/canvas"
)

// DefaultDepth is the maximum number of snapshots retained.
const DefaultDepth = 50

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Stack is a bounded, linear snapshot history. The cursor indexes the
// snapshot matching what is currently rendered.
type Stack struct {
	entries []canvas.Snapshot
	cursor  int
	depth   int
}

// New creates a stack holding at most depth snapshots.
func New(depth int) *Stack {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Stack{entries: make([]canvas.Snapshot, 0, depth), cursor: -1, depth: depth}
}

// Push records snap as the new current state, abandoning any redo branch.
func (s *Stack) Push(snap canvas.Snapshot) {
	if s.cursor < len(s.entries)-1 {
		clear(s.entries[s.cursor+1:])
		s.entries = s.entries[:s.cursor+1]
	}
	s.entries = append(s.entries, snap)
	s.cursor = len(s.entries) - 1
	if over := len(s.entries) - s.depth; over > 0 {
		n := copy(s.entries, s.entries[over:])
		clear(s.entries[n:])
		s.entries = s.entries[:n]
		s.cursor -= over
	}
}

// Undo steps back and returns the snapshot to render.
func (s *Stack) Undo() (canvas.Snapshot, error) {
	if s.cursor <= 0 {
		return canvas.Snapshot{}, ErrNothingToUndo
	}
	s.cursor--
	return s.entries[s.cursor], nil
}

// Redo steps forward and returns the snapshot to render.
func (s *Stack) Redo() (canvas.Snapshot, error) {
	if s.cursor < 0 || s.cursor >= len(s.entries)-1 {
		return canvas.Snapshot{}, ErrNothingToRedo
	}
	s.cursor++
	return s.entries[s.cursor], nil
}

// Reset discards all entries and seeds the stack with snap.
func (s *Stack) Reset(snap canvas.Snapshot) {
	clear(s.entries)
	s.entries = append(s.entries[:0], snap)
	s.cursor = 0
}

// Current returns the snapshot at the cursor.
func (s *Stack) Current() (canvas.Snapshot, bool) {
	if s.cursor < 0 {
		return canvas.Snapshot{}, false
	}
	return s.entries[s.cursor], true
}

// Len is the number of retained snapshots.
func (s *Stack) Len() int { return len(s.entries) }

// Cursor is the index of the current snapshot, or -1 when empty.
func (s *Stack) Cursor() int { return s.cursor }

// Depth is the retention bound.
func (s *Stack) Depth() int { return s.depth }

// CanUndo reports whether Undo would succeed.
func (s *Stack) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether Redo would succeed.
func (s *Stack) CanRedo() bool { return s.cursor >= 0 && s.cursor < len(s.entries)-1 }
