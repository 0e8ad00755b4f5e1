package history

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/example/rxpad/internal/canvas"
)

func snap(t *testing.T, v int) canvas.Snapshot {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: uint8(v), G: uint8(v >> 8), A: 255})
	s, err := canvas.Encode(img)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return s
}

func TestEmptyStackRefusesUndoRedo(t *testing.T) {
	s := New(0)
	if s.Depth() != DefaultDepth {
		t.Fatalf("depth = %d", s.Depth())
	}
	if _, err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("Undo = %v", err)
	}
	if _, err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("Redo = %v", err)
	}
}

func TestUndoRedoWalksLinearHistory(t *testing.T) {
	s := New(DefaultDepth)
	const n = 10
	for i := 0; i <= n; i++ {
		s.Push(snap(t, i))
	}
	for i := n - 1; i >= 0; i-- {
		got, err := s.Undo()
		if err != nil {
			t.Fatalf("undo %d: %v", i, err)
		}
		if !got.Equal(snap(t, i)) {
			t.Fatalf("undo returned wrong snapshot at %d", i)
		}
	}
	if _, err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo at cursor 0, got %v", err)
	}
	for i := 1; i <= n; i++ {
		got, err := s.Redo()
		if err != nil {
			t.Fatalf("redo %d: %v", i, err)
		}
		if !got.Equal(snap(t, i)) {
			t.Fatalf("redo returned wrong snapshot at %d", i)
		}
	}
	if _, err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("expected ErrNothingToRedo at end, got %v", err)
	}
}

func TestPushAfterUndoDiscardsRedoBranch(t *testing.T) {
	s := New(DefaultDepth)
	s.Push(snap(t, 0))
	s.Push(snap(t, 1))
	s.Push(snap(t, 2))
	if _, err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	s.Push(snap(t, 9))
	if s.CanRedo() {
		t.Fatal("redo should be unavailable after a push")
	}
	if _, err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("Redo = %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	cur, _ := s.Current()
	if !cur.Equal(snap(t, 9)) {
		t.Fatal("cursor should sit on the new snapshot")
	}
}

func TestOverflowEvictsOldest(t *testing.T) {
	s := New(DefaultDepth)
	for i := 0; i < DefaultDepth+25; i++ {
		s.Push(snap(t, i))
		if s.Len() > DefaultDepth {
			t.Fatalf("stack grew to %d", s.Len())
		}
	}
	if s.Cursor() != DefaultDepth-1 {
		t.Fatalf("cursor = %d", s.Cursor())
	}
	got, err := s.Undo()
	if err != nil {
		t.Fatalf("first undo after eviction: %v", err)
	}
	if !got.Equal(snap(t, DefaultDepth+23)) {
		t.Fatal("undo after eviction returned the wrong snapshot")
	}
	steps := 1
	for s.CanUndo() {
		if _, err := s.Undo(); err != nil {
			t.Fatal(err)
		}
		steps++
	}
	if steps != DefaultDepth-1 {
		t.Fatalf("undid %d steps, want %d", steps, DefaultDepth-1)
	}
	oldest, _ := s.Current()
	if !oldest.Equal(snap(t, 25)) {
		t.Fatal("oldest retained snapshot is wrong")
	}
}

func TestOverflowAfterUndoKeepsLogicalCursor(t *testing.T) {
	s := New(3)
	s.Push(snap(t, 0))
	s.Push(snap(t, 1))
	s.Push(snap(t, 2))
	s.Push(snap(t, 3))
	cur, _ := s.Current()
	if !cur.Equal(snap(t, 3)) || s.Cursor() != 2 {
		t.Fatalf("cursor %d does not point at the newest snapshot", s.Cursor())
	}
}

func TestOverflowReleasesEvictedSnapshots(t *testing.T) {
	s := New(3)
	for i := 0; i < 8; i++ {
		s.Push(snap(t, i))
	}
	for i, e := range s.entries[len(s.entries):cap(s.entries)] {
		if !e.IsZero() {
			t.Fatalf("slot %d past the end still holds a snapshot", len(s.entries)+i)
		}
	}
}

func TestReset(t *testing.T) {
	s := New(DefaultDepth)
	s.Push(snap(t, 1))
	s.Push(snap(t, 2))
	s.Reset(snap(t, 7))
	if s.Len() != 1 || s.Cursor() != 0 || s.CanUndo() || s.CanRedo() {
		t.Fatalf("unexpected state after reset: len=%d cursor=%d", s.Len(), s.Cursor())
	}
}
