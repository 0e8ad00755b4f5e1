// Package canvas implements the raster drawing surface: fixed-size RGBA
// buffers, tool-driven stroke rendering and full-buffer snapshots.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

// Point is a location in buffer pixel space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) fixed() fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(math.Round(p.X * 64)), Y: fixed.Int26_6(math.Round(p.Y * 64))}
}

// Background is the colour new and cleared buffers are filled with.
var Background = color.RGBA{255, 255, 255, 255}

// Surface is a drawable buffer. Strokes are rasterized segment by segment and
// composited straight onto the buffer; there is no preview layer.
type Surface struct {
	img   *image.RGBA
	tools *ToolState

	// mask receives segment coverage before it is composited.
	mask   *image.Alpha
	dasher *rasterx.Dasher

	active bool
	last   Point
	mode   ToolMode
	src    image.Image
	width  float64
}

// NewSurface allocates a white w x h buffer drawing with the shared tool state.
func NewSurface(w, h int, tools *ToolState) *Surface {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if tools == nil {
		ts := DefaultToolState()
		tools = &ts
	}
	s := &Surface{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		tools: tools,
		mask:  image.NewAlpha(image.Rect(0, 0, w, h)),
	}
	scanner := rasterx.NewScannerGV(w, h, s.mask, s.mask.Bounds())
	s.dasher = rasterx.NewDasher(w, h, scanner)
	s.Clear()
	return s
}

// Image exposes the live buffer. Callers must not retain it across strokes.
func (s *Surface) Image() *image.RGBA { return s.img }

// Bounds is the buffer rectangle.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Active reports whether a stroke is in progress.
func (s *Surface) Active() bool { return s.active }

// BeginStroke starts a path at p using the tool state current at this moment.
func (s *Surface) BeginStroke(p Point) {
	ts := *s.tools
	s.mode = ts.Tool.Mode()
	s.width = ts.StrokeWidth()
	c := ts.Color
	s.src = image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(float64(c.A) * s.mode.Opacity))})
	if c.A == 255 && s.mode.Opacity == 1 {
		s.src = image.NewUniform(c)
	}
	s.last = p
	s.active = true
}

// ExtendStroke draws a straight segment from the previous point to p. It is a
// no-op when no stroke is active.
func (s *Surface) ExtendStroke(p Point) {
	if !s.active {
		return
	}
	s.segment(s.last, p)
	s.last = p
}

// EndStroke finishes the active stroke and reports whether one was active.
func (s *Surface) EndStroke() bool {
	was := s.active
	s.active = false
	s.src = nil
	return was
}

func (s *Surface) segment(a, b Point) {
	if a == b {
		return
	}
	pad := s.width/2 + 2
	r := image.Rect(
		int(math.Floor(math.Min(a.X, b.X)-pad)),
		int(math.Floor(math.Min(a.Y, b.Y)-pad)),
		int(math.Ceil(math.Max(a.X, b.X)+pad)),
		int(math.Ceil(math.Max(a.Y, b.Y)+pad)),
	).Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(s.mask, r, image.Transparent, image.Point{}, draw.Src)

	s.dasher.Clear()
	s.dasher.SetStroke(fixed.Int26_6(s.width*64), fixed.Int26_6(4*64),
		rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, nil, 0)
	s.dasher.SetColor(color.Opaque)
	s.dasher.Start(a.fixed())
	s.dasher.Line(b.fixed())
	s.dasher.Stop(false)
	s.dasher.Draw()

	switch s.mode.Composition {
	case CompositeErase:
		draw.DrawMask(s.img, r, image.Transparent, image.Point{}, s.mask, r.Min, draw.Src)
	default:
		draw.DrawMask(s.img, r, s.src, image.Point{}, s.mask, r.Min, draw.Over)
	}
}

// Clear fills the buffer with the background colour.
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
}

// Snapshot encodes the current buffer content.
func (s *Surface) Snapshot() (Snapshot, error) {
	return Encode(s.img)
}

// Load replaces the whole buffer with snap. A zero snapshot clears the buffer;
// snapshots of a different size are scaled to fit. Decoding completes before
// Load returns.
func (s *Surface) Load(snap Snapshot) error {
	if snap.IsZero() {
		s.Clear()
		return nil
	}
	src, err := snap.Decode()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	s.Draw(src)
	return nil
}

// Draw replaces the buffer with img, scaling when the sizes differ.
func (s *Surface) Draw(img image.Image) {
	b := s.img.Bounds()
	sb := img.Bounds()
	if sb.Dx() == b.Dx() && sb.Dy() == b.Dy() {
		draw.Draw(s.img, b, img, sb.Min, draw.Src)
		return
	}
	draw.Draw(s.img, b, image.Transparent, image.Point{}, draw.Src)
	xdraw.CatmullRom.Scale(s.img, b, img, sb, draw.Src, nil)
}
