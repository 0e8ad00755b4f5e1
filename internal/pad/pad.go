// Package pad ties the drawing surfaces, the undo history and the page list
// into one explicit document context. A Pad is driven from a single event
// loop and is not safe for concurrent use.
package pad

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"time"

	"github.com/example/rxpad/internal/canvas"
	"github.com/example/rxpad/internal/docfile"
	"github.com/example/rxpad/internal/history"
	"github.com/example/rxpad/internal/pages"
	"github.com/example/rxpad/internal/store"
)

// Target selects which buffer a stroke lands on.
type Target int

const (
	Main Target = iota
	Signature
)

// Default buffer sizes: an A4 sheet at 96 DPI and a signature strip.
const (
	DefaultWidth           = 794
	DefaultHeight          = 1123
	DefaultSignatureWidth  = 400
	DefaultSignatureHeight = 150
)

// KeyValueStore persists the signature between sessions.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Config describes a new pad. Zero values select defaults.
type Config struct {
	Width, Height                   int
	SignatureWidth, SignatureHeight int
	Tools                           canvas.ToolState
	HistoryDepth                    int
	Store                           KeyValueStore
	Now                             func() time.Time
}

// Pad owns the main and signature buffers, the shared tool state, the main
// buffer's history, the page list and the form fields.
type Pad struct {
	tools   *canvas.ToolState
	main    *canvas.Surface
	sig     *canvas.Surface
	history *history.Stack
	pages   *pages.Collection
	meta    docfile.Metadata
	store   KeyValueStore
	now     func() time.Time
}

// New creates a pad with blank buffers and one blank page. The history is
// seeded with the blank state so every stroke can be undone.
func New(cfg Config) (*Pad, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = DefaultWidth, DefaultHeight
	}
	if cfg.SignatureWidth <= 0 || cfg.SignatureHeight <= 0 {
		cfg.SignatureWidth, cfg.SignatureHeight = DefaultSignatureWidth, DefaultSignatureHeight
	}
	if cfg.Tools == (canvas.ToolState{}) {
		cfg.Tools = canvas.DefaultToolState()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	tools := cfg.Tools
	p := &Pad{
		tools:   &tools,
		history: history.New(cfg.HistoryDepth),
		pages:   pages.New(),
		store:   cfg.Store,
		now:     cfg.Now,
	}
	p.main = canvas.NewSurface(cfg.Width, cfg.Height, p.tools)
	p.sig = canvas.NewSurface(cfg.SignatureWidth, cfg.SignatureHeight, p.tools)
	blank, err := p.main.Snapshot()
	if err != nil {
		return nil, err
	}
	p.history.Push(blank)
	p.meta.PrescriptionID = docfile.NewPrescriptionID(p.now())
	return p, nil
}

func (p *Pad) surface(t Target) *canvas.Surface {
	if t == Signature {
		return p.sig
	}
	return p.main
}

// Surface exposes a buffer for display.
func (p *Pad) Surface(t Target) *canvas.Surface { return p.surface(t) }

// BeginStroke starts a stroke on the target buffer.
func (p *Pad) BeginStroke(t Target, pt canvas.Point) { p.surface(t).BeginStroke(pt) }

// ExtendStroke continues the active stroke on the target buffer.
func (p *Pad) ExtendStroke(t Target, pt canvas.Point) { p.surface(t).ExtendStroke(pt) }

// EndStroke finishes the stroke. Completed strokes on the main buffer are
// recorded in the history; the signature buffer has no history.
func (p *Pad) EndStroke(t Target) error {
	if !p.surface(t).EndStroke() || t == Signature {
		return nil
	}
	return p.record()
}

// Stroke draws a complete stroke through pts.
func (p *Pad) Stroke(t Target, pts ...canvas.Point) error {
	if len(pts) == 0 {
		return nil
	}
	p.BeginStroke(t, pts[0])
	for _, pt := range pts[1:] {
		p.ExtendStroke(t, pt)
	}
	return p.EndStroke(t)
}

func (p *Pad) record() error {
	snap, err := p.main.Snapshot()
	if err != nil {
		return err
	}
	p.history.Push(snap)
	return nil
}

// Undo restores the previous history state into the main buffer.
func (p *Pad) Undo() error {
	snap, err := p.history.Undo()
	if err != nil {
		return err
	}
	return p.main.Load(snap)
}

// Redo restores the next history state into the main buffer.
func (p *Pad) Redo() error {
	snap, err := p.history.Redo()
	if err != nil {
		return err
	}
	return p.main.Load(snap)
}

// CanUndo reports whether an earlier history state exists.
func (p *Pad) CanUndo() bool { return p.history.CanUndo() }

// CanRedo reports whether an undone state can be restored.
func (p *Pad) CanRedo() bool { return p.history.CanRedo() }

// Clear blanks the main buffer as an undoable edit.
func (p *Pad) Clear() error {
	p.main.EndStroke()
	p.main.Clear()
	return p.record()
}

// ClearSignature blanks the signature buffer.
func (p *Pad) ClearSignature() {
	p.sig.EndStroke()
	p.sig.Clear()
}

func (p *Pad) flush() (canvas.Snapshot, error) {
	p.main.EndStroke()
	return p.main.Snapshot()
}

// AddPage stores the current page, appends a blank page and switches to it.
// The history is left untouched.
func (p *Pad) AddPage() error {
	cur, err := p.flush()
	if err != nil {
		return err
	}
	p.pages.Add(cur)
	p.main.Clear()
	return nil
}

// DeletePage removes the active page and loads the page that takes its place.
// The page list is untouched when that page cannot be decoded.
func (p *Pad) DeletePage() error {
	if p.pages.Len() <= 1 {
		return pages.ErrCannotDeleteLastPage
	}
	after := p.pages.Active() + 1
	if after == p.pages.Len() {
		after = p.pages.Active() - 1
	}
	snap, err := p.pages.Page(after)
	if err != nil {
		return err
	}
	img, err := decode(snap)
	if err != nil {
		return fmt.Errorf("%w: page %d: %v", docfile.ErrImportParse, after+1, err)
	}
	if _, err := p.pages.Delete(); err != nil {
		return err
	}
	show(p.main, img)
	return nil
}

// GoToPage switches to the zero-based page index.
func (p *Pad) GoToPage(i int) error {
	if i == p.pages.Active() {
		return nil
	}
	return p.navigate(func(cur canvas.Snapshot) (canvas.Snapshot, error) { return p.pages.GoTo(i, cur) })
}

// PreviousPage switches to the preceding page.
func (p *Pad) PreviousPage() error { return p.navigate(p.pages.Previous) }

// NextPage switches to the following page.
func (p *Pad) NextPage() error { return p.navigate(p.pages.Next) }

// navigate flushes the buffer and moves to another page. When the target
// page cannot be decoded the previous page is made active again, so the
// buffer and the active index never disagree.
func (p *Pad) navigate(move func(canvas.Snapshot) (canvas.Snapshot, error)) error {
	cur, err := p.flush()
	if err != nil {
		return err
	}
	prev := p.pages.Active()
	next, err := move(cur)
	if err != nil {
		return err
	}
	img, err := decode(next)
	if err != nil {
		target := p.pages.Active()
		if _, rerr := p.pages.GoTo(prev, next); rerr != nil {
			return rerr
		}
		return fmt.Errorf("%w: page %d: %v", docfile.ErrImportParse, target+1, err)
	}
	show(p.main, img)
	return nil
}

// decodeSnapshot is swapped in tests.
var decodeSnapshot = canvas.Snapshot.Decode

// decode returns nil for a blank snapshot.
func decode(snap canvas.Snapshot) (image.Image, error) {
	if snap.IsZero() {
		return nil, nil
	}
	return decodeSnapshot(snap)
}

// show replaces the buffer content with img, or blanks it for nil.
func show(s *canvas.Surface, img image.Image) {
	if img == nil {
		s.Clear()
		return
	}
	s.Draw(img)
}

// PageCount is the number of pages in the document.
func (p *Pad) PageCount() int { return p.pages.Len() }

// ActivePage is the zero-based index of the page in the main buffer.
func (p *Pad) ActivePage() int { return p.pages.Active() }

// Tools returns the current tool state.
func (p *Pad) Tools() canvas.ToolState { return *p.tools }

// SetTool selects the tool for the next stroke on either buffer.
func (p *Pad) SetTool(t canvas.Tool) { p.tools.Tool = t }

// SetColor sets the stroke colour.
func (p *Pad) SetColor(c color.RGBA) { p.tools.Color = c }

// SetWidth sets the stroke width in buffer pixels.
func (p *Pad) SetWidth(w float64) { p.tools.Width = w }

// Metadata returns the form fields.
func (p *Pad) Metadata() docfile.Metadata { return p.meta }

// SetMetadata replaces all form fields.
func (p *Pad) SetMetadata(m docfile.Metadata) { p.meta = m }

// SetField updates one form field by name.
func (p *Pad) SetField(name, value string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "id", "prescription", "prescription_id":
		p.meta.PrescriptionID = value
	case "doctor", "doctor_name":
		p.meta.DoctorName = value
	case "clinic", "clinic_name":
		p.meta.ClinicName = value
	case "patient", "patient_name":
		p.meta.PatientName = value
	case "age", "patient_age":
		p.meta.PatientAge = value
	case "gender", "patient_gender":
		p.meta.PatientGender = value
	case "date":
		p.meta.Date = value
	case "time":
		p.meta.Time = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// PageImage returns a copy of page i. The active page reflects the live
// buffer; pages never drawn on are blank.
func (p *Pad) PageImage(i int) (*image.RGBA, error) {
	if i == p.pages.Active() {
		return cloneRGBA(p.main.Image()), nil
	}
	snap, err := p.pages.Page(i)
	if err != nil {
		return nil, err
	}
	b := p.main.Bounds()
	tmp := canvas.NewSurface(b.Dx(), b.Dy(), p.tools)
	if err := tmp.Load(snap); err != nil {
		return nil, err
	}
	return tmp.Image(), nil
}

// SignatureImage returns a copy of the signature buffer.
func (p *Pad) SignatureImage() *image.RGBA { return cloneRGBA(p.sig.Image()) }

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// Document flushes the active page and captures the whole document.
func (p *Pad) Document() (docfile.Document, error) {
	cur, err := p.flush()
	if err != nil {
		return docfile.Document{}, err
	}
	p.pages.Flush(cur)
	sig, err := p.sig.Snapshot()
	if err != nil {
		return docfile.Document{}, err
	}
	return docfile.Document{
		Metadata:  p.meta,
		Pages:     p.pages.All(),
		Signature: sig,
		SavedAt:   p.now(),
	}, nil
}

// ApplyDocument replaces the page list, activates the first page, restores the
// form fields and reloads the signature. The history restarts from the first
// page. A document whose first page or signature does not decode leaves the
// pad unchanged.
func (p *Pad) ApplyDocument(doc docfile.Document) error {
	var first canvas.Snapshot
	if len(doc.Pages) > 0 {
		first = doc.Pages[0]
	}
	page, err := decode(first)
	if err != nil {
		return fmt.Errorf("%w: page 1: %v", docfile.ErrImportParse, err)
	}
	sig, err := decode(doc.Signature)
	if err != nil {
		return fmt.Errorf("%w: signature: %v", docfile.ErrImportParse, err)
	}
	p.main.EndStroke()
	p.sig.EndStroke()
	p.pages.Replace(doc.Pages)
	show(p.main, page)
	show(p.sig, sig)
	p.meta = doc.Metadata
	snap, err := p.main.Snapshot()
	if err != nil {
		return err
	}
	p.history.Reset(snap)
	return nil
}

// Import loads the document file at path.
func (p *Pad) Import(path string) error {
	doc, err := docfile.Load(path)
	if err != nil {
		if errors.Is(err, docfile.ErrImportParse) {
			return err
		}
		return fmt.Errorf("%w: %v", docfile.ErrImportParse, err)
	}
	return p.ApplyDocument(doc)
}

// Save writes the document to path and persists the signature. The file is
// written even when the signature cannot be persisted.
func (p *Pad) Save(ctx context.Context, path string) error {
	doc, err := p.Document()
	if err != nil {
		return err
	}
	if err := docfile.Save(path, doc); err != nil {
		return err
	}
	return p.SaveSignature(ctx)
}

// SaveSignature persists the signature buffer.
func (p *Pad) SaveSignature(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	snap, err := p.sig.Snapshot()
	if err != nil {
		return err
	}
	if err := p.store.Put(ctx, store.SignatureKey, snap.Bytes()); err != nil {
		if errors.Is(err, store.ErrPersistenceWrite) {
			return err
		}
		return fmt.Errorf("%w: %v", store.ErrPersistenceWrite, err)
	}
	return nil
}

// LoadSignature restores a persisted signature, if one exists. A stored
// signature that does not decode is reported as ErrImportParse and the buffer
// is left as it was; store read failures are returned as they are.
func (p *Pad) LoadSignature(ctx context.Context) (bool, error) {
	if p.store == nil {
		return false, nil
	}
	data, ok, err := p.store.Get(ctx, store.SignatureKey)
	if err != nil {
		return false, fmt.Errorf("read signature: %w", err)
	}
	if !ok {
		return false, nil
	}
	snap, err := canvas.FromPNG(data)
	if err != nil {
		return false, fmt.Errorf("%w: stored signature: %v", docfile.ErrImportParse, err)
	}
	img, err := decode(snap)
	if err != nil {
		return false, fmt.Errorf("%w: stored signature: %v", docfile.ErrImportParse, err)
	}
	p.sig.EndStroke()
	show(p.sig, img)
	return true, nil
}
