package pad

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/rxpad/internal/canvas"
	"github.com/example/rxpad/internal/docfile"
	"github.com/example/rxpad/internal/history"
	"github.com/example/rxpad/internal/pages"
	"github.com/example/rxpad/internal/store"
)

type memStore struct {
	data map[string][]byte
	err  error
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Put(_ context.Context, key string, value []byte) error {
	if m.err != nil {
		return m.err
	}
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = value
	return nil
}

func newPad(t *testing.T) (*Pad, *memStore) {
	t.Helper()
	st := &memStore{}
	p, err := New(Config{
		Width: 64, Height: 256,
		SignatureWidth: 40, SignatureHeight: 20,
		Store: st,
		Now:   func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p, st
}

// line draws a horizontal stroke on row y.
func line(t *testing.T, p *Pad, y float64) {
	t.Helper()
	if err := p.Stroke(Main, canvas.Pt(4, y), canvas.Pt(60, y)); err != nil {
		t.Fatalf("stroke: %v", err)
	}
}

func snap(t *testing.T, p *Pad) canvas.Snapshot {
	t.Helper()
	s, err := p.Surface(Main).Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func inked(c color.RGBA) bool { return c.A == 255 && c.R < 64 && c.G < 64 && c.B < 64 }

func blankSnap(t *testing.T, w, h int) canvas.Snapshot {
	t.Helper()
	s, err := canvas.NewSurface(w, h, nil).Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestUndoRedoScenario(t *testing.T) {
	p, _ := newPad(t)
	blank := snap(t, p)
	line(t, p, 10)
	afterA := snap(t, p)
	line(t, p, 20)

	if err := p.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !snap(t, p).Equal(afterA) {
		t.Fatal("first undo should leave stroke A only")
	}
	if err := p.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !snap(t, p).Equal(blank) {
		t.Fatal("second undo should leave a blank buffer")
	}
	if err := p.Undo(); !errors.Is(err, history.ErrNothingToUndo) {
		t.Fatalf("undo past start = %v", err)
	}
	if err := p.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if !snap(t, p).Equal(afterA) {
		t.Fatal("redo should restore stroke A")
	}
}

func TestUndoAllThenRedoAll(t *testing.T) {
	p, _ := newPad(t)
	blank := snap(t, p)
	const n = 20
	for i := 0; i < n; i++ {
		line(t, p, float64(6+i*10))
	}
	final := snap(t, p)
	for i := 0; i < n; i++ {
		if err := p.Undo(); err != nil {
			t.Fatalf("undo %d: %v", i, err)
		}
	}
	if !snap(t, p).Equal(blank) {
		t.Fatal("undoing every stroke should return to blank")
	}
	for i := 0; i < n; i++ {
		if err := p.Redo(); err != nil {
			t.Fatalf("redo %d: %v", i, err)
		}
	}
	if !snap(t, p).Equal(final) {
		t.Fatal("redoing every stroke should restore the final buffer")
	}
	if err := p.Redo(); !errors.Is(err, history.ErrNothingToRedo) {
		t.Fatalf("redo past end = %v", err)
	}
}

func TestNewStrokeDiscardsRedo(t *testing.T) {
	p, _ := newPad(t)
	line(t, p, 10)
	line(t, p, 20)
	if err := p.Undo(); err != nil {
		t.Fatal(err)
	}
	line(t, p, 30)
	if p.CanRedo() {
		t.Fatal("redo branch should be discarded after a new stroke")
	}
}

func TestHistoryOverflowStillUndoes(t *testing.T) {
	p, _ := newPad(t)
	for i := 0; i < history.DefaultDepth+10; i++ {
		line(t, p, float64(2+(i%60)*4))
	}
	if err := p.Undo(); err != nil {
		t.Fatalf("undo after overflow: %v", err)
	}
}

func TestSignatureHasNoHistory(t *testing.T) {
	p, _ := newPad(t)
	if err := p.Stroke(Signature, canvas.Pt(2, 10), canvas.Pt(38, 10)); err != nil {
		t.Fatal(err)
	}
	if p.CanUndo() {
		t.Fatal("signature strokes must not enter the history")
	}
}

func TestClearIsUndoable(t *testing.T) {
	p, _ := newPad(t)
	line(t, p, 10)
	drawn := snap(t, p)
	if err := p.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := p.Undo(); err != nil {
		t.Fatal(err)
	}
	if !snap(t, p).Equal(drawn) {
		t.Fatal("undo after clear should restore the drawing")
	}
}

func TestPageContentSurvivesSwitching(t *testing.T) {
	p, _ := newPad(t)
	line(t, p, 10)
	page1 := snap(t, p)
	if err := p.AddPage(); err != nil {
		t.Fatal(err)
	}
	if p.PageCount() != 2 || p.ActivePage() != 1 {
		t.Fatalf("after add: count=%d active=%d", p.PageCount(), p.ActivePage())
	}
	if !snap(t, p).Equal(blankSnap(t, 64, 256)) {
		t.Fatal("new page should start blank")
	}
	line(t, p, 50)
	page2 := snap(t, p)

	if err := p.PreviousPage(); err != nil {
		t.Fatal(err)
	}
	if !snap(t, p).Equal(page1) {
		t.Fatal("page 1 content changed")
	}
	if err := p.NextPage(); err != nil {
		t.Fatal(err)
	}
	if !snap(t, p).Equal(page2) {
		t.Fatal("page 2 content changed")
	}
	if err := p.NextPage(); !errors.Is(err, pages.ErrAlreadyAtBoundary) {
		t.Fatalf("next past end = %v", err)
	}
	if err := p.GoToPage(5); !errors.Is(err, pages.ErrPageOutOfRange) {
		t.Fatalf("goto out of range = %v", err)
	}
}

// failDecoding makes bad undecodable for the rest of the test.
func failDecoding(t *testing.T, bad canvas.Snapshot) {
	t.Helper()
	orig := decodeSnapshot
	decodeSnapshot = func(s canvas.Snapshot) (image.Image, error) {
		if s.Equal(bad) {
			return nil, fmt.Errorf("%w: not enough pixel data", canvas.ErrInvalidSnapshot)
		}
		return orig(s)
	}
	t.Cleanup(func() { decodeSnapshot = orig })
}

func TestNavigateOntoUndecodablePageStaysPut(t *testing.T) {
	p, _ := newPad(t)
	line(t, p, 10)
	page1 := snap(t, p)
	if err := p.AddPage(); err != nil {
		t.Fatal(err)
	}
	line(t, p, 50)
	page2 := snap(t, p)
	if err := p.PreviousPage(); err != nil {
		t.Fatal(err)
	}

	failDecoding(t, page2)
	if err := p.NextPage(); !errors.Is(err, docfile.ErrImportParse) {
		t.Fatalf("NextPage = %v", err)
	}
	if p.ActivePage() != 0 || !snap(t, p).Equal(page1) {
		t.Fatalf("active=%d, buffer no longer shows page 1", p.ActivePage())
	}
	if err := p.GoToPage(1); !errors.Is(err, docfile.ErrImportParse) {
		t.Fatalf("GoToPage = %v", err)
	}
	if err := p.DeletePage(); !errors.Is(err, docfile.ErrImportParse) {
		t.Fatalf("DeletePage = %v", err)
	}
	if p.PageCount() != 2 || p.ActivePage() != 0 {
		t.Fatalf("count=%d active=%d", p.PageCount(), p.ActivePage())
	}
	if stored, _ := p.pages.Page(1); !stored.Equal(page2) {
		t.Fatal("page 2 slot overwritten")
	}

	line(t, p, 100)
	edited := snap(t, p)
	decodeSnapshot = canvas.Snapshot.Decode
	if err := p.NextPage(); err != nil {
		t.Fatal(err)
	}
	if !snap(t, p).Equal(page2) {
		t.Fatal("page 2 content changed")
	}
	if err := p.PreviousPage(); err != nil {
		t.Fatal(err)
	}
	if !snap(t, p).Equal(edited) {
		t.Fatal("edits to page 1 lost")
	}
}

func TestApplyDocumentRejectsUndecodableContent(t *testing.T) {
	p, _ := newPad(t)
	if err := p.SetField("patient", "Old Patient"); err != nil {
		t.Fatal(err)
	}
	line(t, p, 10)
	if err := p.AddPage(); err != nil {
		t.Fatal(err)
	}
	line(t, p, 80)
	before := snap(t, p)

	q, _ := newPad(t)
	line(t, q, 30)
	bad := snap(t, q)
	failDecoding(t, bad)

	blank := blankSnap(t, 64, 256)
	for name, doc := range map[string]docfile.Document{
		"first page": {Metadata: docfile.Metadata{PatientName: "New Patient"}, Pages: []canvas.Snapshot{bad, blank, blank}},
		"signature":  {Metadata: docfile.Metadata{PatientName: "New Patient"}, Pages: []canvas.Snapshot{blank}, Signature: bad},
	} {
		if err := p.ApplyDocument(doc); !errors.Is(err, docfile.ErrImportParse) {
			t.Fatalf("%s: ApplyDocument = %v", name, err)
		}
		if p.PageCount() != 2 || p.ActivePage() != 1 {
			t.Errorf("%s: count=%d active=%d", name, p.PageCount(), p.ActivePage())
		}
		if got := p.Metadata().PatientName; got != "Old Patient" {
			t.Errorf("%s: patient = %q", name, got)
		}
		if !snap(t, p).Equal(before) {
			t.Errorf("%s: buffer changed", name)
		}
		if !p.CanUndo() {
			t.Errorf("%s: history reset", name)
		}
	}
	if err := p.Undo(); err != nil {
		t.Fatalf("pad unusable after failed import: %v", err)
	}
}

func TestHistorySpansPages(t *testing.T) {
	p, _ := newPad(t)
	line(t, p, 10)
	page1 := snap(t, p)
	if err := p.AddPage(); err != nil {
		t.Fatal(err)
	}
	line(t, p, 80)
	if err := p.Undo(); err != nil {
		t.Fatal(err)
	}
	if !snap(t, p).Equal(page1) {
		t.Fatal("undo on page 2 should restore the state recorded on page 1")
	}
}

func TestDeletePage(t *testing.T) {
	p, _ := newPad(t)
	if err := p.DeletePage(); !errors.Is(err, pages.ErrCannotDeleteLastPage) {
		t.Fatalf("delete only page = %v", err)
	}
	if p.PageCount() != 1 {
		t.Fatalf("count = %d", p.PageCount())
	}
	line(t, p, 10)
	page1 := snap(t, p)
	if err := p.AddPage(); err != nil {
		t.Fatal(err)
	}
	if err := p.DeletePage(); err != nil {
		t.Fatal(err)
	}
	if p.PageCount() != 1 || p.ActivePage() != 0 {
		t.Fatalf("after delete: count=%d active=%d", p.PageCount(), p.ActivePage())
	}
	if !snap(t, p).Equal(page1) {
		t.Fatal("remaining page should be loaded")
	}
}

func TestPageImage(t *testing.T) {
	p, _ := newPad(t)
	line(t, p, 10)
	if err := p.AddPage(); err != nil {
		t.Fatal(err)
	}
	img, err := p.PageImage(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(30, 10); !inked(got) {
		t.Fatalf("page 1 pixel = %v", got)
	}
	img, err = p.PageImage(1)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(30, 10); got != canvas.Background {
		t.Fatalf("page 2 pixel = %v", got)
	}
	if _, err := p.PageImage(2); !errors.Is(err, pages.ErrPageOutOfRange) {
		t.Fatalf("PageImage(2) = %v", err)
	}
}

func TestSaveImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	p, st := newPad(t)
	for _, f := range [][2]string{{"doctor", "Dr. Grace Hopper"}, {"patient", "Alan Turing"}, {"age", "41"}, {"date", "2026-10-19"}} {
		if err := p.SetField(f[0], f[1]); err != nil {
			t.Fatal(err)
		}
	}
	if err := p.SetField("shoe", "42"); err == nil {
		t.Fatal("unknown field accepted")
	}
	line(t, p, 10)
	if err := p.AddPage(); err != nil {
		t.Fatal(err)
	}
	line(t, p, 80)
	if err := p.Stroke(Signature, canvas.Pt(2, 10), canvas.Pt(38, 10)); err != nil {
		t.Fatal(err)
	}
	want, err := p.Document()
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "rx.json")
	if err := p.Save(ctx, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := st.data[store.SignatureKey]; !ok {
		t.Fatal("signature not persisted on save")
	}

	q, _ := newPad(t)
	if err := q.Import(path); err != nil {
		t.Fatalf("Import: %v", err)
	}
	got, err := q.Document()
	if err != nil {
		t.Fatal(err)
	}
	if got.Metadata != want.Metadata {
		t.Fatalf("metadata = %+v, want %+v", got.Metadata, want.Metadata)
	}
	if len(got.Pages) != 2 || q.ActivePage() != 0 {
		t.Fatalf("pages=%d active=%d", len(got.Pages), q.ActivePage())
	}
	for i := range want.Pages {
		if !got.Pages[i].Equal(want.Pages[i]) {
			t.Errorf("page %d differs", i+1)
		}
	}
	if !got.Signature.Equal(want.Signature) {
		t.Error("signature differs")
	}
	if q.CanUndo() {
		t.Error("import should restart the history")
	}
}

func TestImportMalformed(t *testing.T) {
	p, _ := newPad(t)
	if err := p.Import(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, docfile.ErrImportParse) {
		t.Fatalf("Import missing = %v", err)
	}
}

func TestSignaturePersistence(t *testing.T) {
	ctx := context.Background()
	p, st := newPad(t)
	if ok, err := p.LoadSignature(ctx); ok || err != nil {
		t.Fatalf("LoadSignature on empty store = %v, %v", ok, err)
	}
	if err := p.Stroke(Signature, canvas.Pt(2, 10), canvas.Pt(38, 10)); err != nil {
		t.Fatal(err)
	}
	if err := p.SaveSignature(ctx); err != nil {
		t.Fatal(err)
	}
	q, _ := newPad(t)
	q.store = st
	if ok, err := q.LoadSignature(ctx); !ok || err != nil {
		t.Fatalf("LoadSignature = %v, %v", ok, err)
	}
	if !inked(q.SignatureImage().RGBAAt(20, 10)) {
		t.Fatal("signature not restored")
	}

	st.data[store.SignatureKey] = []byte("nope")
	if ok, err := q.LoadSignature(ctx); ok || !errors.Is(err, docfile.ErrImportParse) {
		t.Fatalf("LoadSignature of garbage = %v, %v", ok, err)
	}
	if !inked(q.SignatureImage().RGBAAt(20, 10)) {
		t.Fatal("signature replaced by garbage")
	}

	st.err = errors.New("disk full")
	if err := p.SaveSignature(ctx); !errors.Is(err, store.ErrPersistenceWrite) {
		t.Fatalf("SaveSignature failure = %v", err)
	}
}

func TestToolChangesApplyToNextStroke(t *testing.T) {
	p, _ := newPad(t)
	p.SetColor(color.RGBA{R: 255, A: 255})
	p.SetWidth(4)
	line(t, p, 10)
	p.SetTool(canvas.ToolEraser)
	line(t, p, 10)
	img, _ := p.PageImage(0)
	if got := img.RGBAAt(30, 10); got.A > 8 {
		t.Fatalf("eraser left %v", got)
	}
	if p.Tools().Tool != canvas.ToolEraser {
		t.Fatal("tool not recorded")
	}
}
