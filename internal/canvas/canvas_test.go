package canvas

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestToolModes(t *testing.T) {
	cases := []struct {
		tool    Tool
		comp    Composition
		opacity float64
		scale   float64
	}{
		{ToolPen, CompositeNormal, 1.0, 1},
		{ToolBrush, CompositeNormal, 0.8, 1.5},
		{ToolHighlighter, CompositeNormal, 0.3, 3},
		{ToolEraser, CompositeErase, 1.0, 2},
	}
	for _, c := range cases {
		m := c.tool.Mode()
		if m.Composition != c.comp || m.Opacity != c.opacity || m.WidthScale != c.scale {
			t.Errorf("%s: got %+v", c.tool, m)
		}
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range Tools() {
		got, err := ParseTool(strings.ToUpper(tool.String()))
		if err != nil || got != tool {
			t.Fatalf("ParseTool(%q) = %v, %v", tool.String(), got, err)
		}
	}
	if _, err := ParseTool("spray"); err == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestStrokeWidthScalesByTool(t *testing.T) {
	ts := ToolState{Tool: ToolHighlighter, Width: 4}
	if got := ts.StrokeWidth(); got != 12 {
		t.Fatalf("highlighter width = %v, want 12", got)
	}
}

func TestPenStrokePaintsColour(t *testing.T) {
	ts := ToolState{Tool: ToolPen, Color: color.RGBA{R: 255, A: 255}, Width: 6}
	s := NewSurface(40, 40, &ts)
	s.BeginStroke(Pt(5, 20))
	s.ExtendStroke(Pt(35, 20))
	if !s.EndStroke() {
		t.Fatal("expected an active stroke to end")
	}
	got := s.Image().RGBAAt(20, 20)
	if got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("centre pixel = %+v, want opaque red", got)
	}
	if corner := s.Image().RGBAAt(0, 0); corner != Background {
		t.Fatalf("corner pixel = %+v, want background", corner)
	}
}

func TestHighlighterIsTranslucent(t *testing.T) {
	ts := ToolState{Tool: ToolHighlighter, Color: color.RGBA{A: 255}, Width: 2}
	s := NewSurface(40, 40, &ts)
	s.BeginStroke(Pt(5, 20))
	s.ExtendStroke(Pt(35, 20))
	s.EndStroke()
	got := s.Image().RGBAAt(20, 20)
	if got.R == 255 || got.R == 0 {
		t.Fatalf("expected a blended grey, got %+v", got)
	}
}

func TestEraserClearsToTransparency(t *testing.T) {
	ts := ToolState{Tool: ToolEraser, Color: color.RGBA{A: 255}, Width: 4}
	s := NewSurface(40, 40, &ts)
	s.BeginStroke(Pt(0, 20))
	s.ExtendStroke(Pt(40, 20))
	s.EndStroke()
	if a := s.Image().RGBAAt(20, 20).A; a != 0 {
		t.Fatalf("erased pixel alpha = %d, want 0", a)
	}
}

func TestExtendWithoutBeginIsNoop(t *testing.T) {
	s := NewSurface(20, 20, nil)
	before, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	s.ExtendStroke(Pt(1, 1))
	s.ExtendStroke(Pt(19, 19))
	if s.EndStroke() {
		t.Fatal("EndStroke reported an active stroke")
	}
	after, _ := s.Snapshot()
	if !before.Equal(after) {
		t.Fatal("buffer changed without an active stroke")
	}
}

func TestToolChangeAppliesToNextStroke(t *testing.T) {
	ts := DefaultToolState()
	s := NewSurface(40, 40, &ts)
	s.BeginStroke(Pt(0, 10))
	ts.Tool = ToolEraser
	s.ExtendStroke(Pt(40, 10))
	s.EndStroke()
	if a := s.Image().RGBAAt(20, 10).A; a != 255 {
		t.Fatalf("stroke should keep the tool it began with, alpha=%d", a)
	}
	s.BeginStroke(Pt(0, 30))
	s.ExtendStroke(Pt(40, 30))
	s.EndStroke()
	if a := s.Image().RGBAAt(20, 30).A; a != 0 {
		t.Fatalf("next stroke should erase, alpha=%d", a)
	}
}

func TestOutOfBoundsStrokeIsClipped(t *testing.T) {
	s := NewSurface(10, 10, nil)
	s.BeginStroke(Pt(-50, -50))
	s.ExtendStroke(Pt(-20, -40))
	s.EndStroke()
	if s.Image().Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatal("bounds changed")
	}
}

func TestLoadRestoresSnapshot(t *testing.T) {
	s := NewSurface(30, 30, nil)
	s.BeginStroke(Pt(0, 15))
	s.ExtendStroke(Pt(30, 15))
	s.EndStroke()
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	s.Clear()
	if err := s.Load(snap); err != nil {
		t.Fatalf("Load: %v", err)
	}
	again, _ := s.Snapshot()
	if !again.Equal(snap) {
		t.Fatal("reloaded buffer differs from snapshot")
	}
}

func TestLoadZeroSnapshotBlankFills(t *testing.T) {
	s := NewSurface(10, 10, nil)
	blank, _ := s.Snapshot()
	s.BeginStroke(Pt(0, 5))
	s.ExtendStroke(Pt(10, 5))
	s.EndStroke()
	if err := s.Load(Snapshot{}); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Snapshot()
	if !got.Equal(blank) {
		t.Fatal("zero snapshot should load as blank")
	}
}

func TestLoadScalesForeignSize(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 5, 5))
	for i := range small.Pix {
		small.Pix[i] = 0xff
	}
	snap, err := Encode(small)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSurface(20, 20, nil)
	if err := s.Load(snap); err != nil {
		t.Fatal(err)
	}
	if s.Bounds().Dx() != 20 {
		t.Fatalf("buffer resized to %v", s.Bounds())
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	s := NewSurface(4, 4, nil)
	err := s.Load(Snapshot{data: []byte("nope")})
	if !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestFromPNGRejectsTruncatedData(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	snap, err := Encode(img)
	if err != nil {
		t.Fatal(err)
	}
	data := snap.Bytes()
	if _, err := FromPNG(data); err != nil {
		t.Fatalf("FromPNG(full) = %v", err)
	}
	if _, err := FromPNG(data[:len(data)/2]); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	s := NewSurface(8, 8, nil)
	snap, _ := s.Snapshot()
	u := snap.DataURL()
	if !strings.HasPrefix(u, "data:image/png;base64,") {
		t.Fatalf("unexpected data URL prefix: %.30s", u)
	}
	back, err := ParseDataURL(u)
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}
	if !back.Equal(snap) {
		t.Fatal("round trip changed snapshot")
	}
	if z, err := ParseDataURL(""); err != nil || !z.IsZero() {
		t.Fatalf("empty data URL = %v, %v", z, err)
	}
	if _, err := ParseDataURL("data:image/png;base64,!!!"); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestViewportMap(t *testing.T) {
	b := image.Rect(0, 0, 800, 1000)
	v := Viewport{Origin: Pt(10, 20), Width: 400, Height: 500}
	p := v.Map(b, 110, 70)
	if p != Pt(200, 100) {
		t.Fatalf("Map = %+v, want {200 100}", p)
	}
	if !v.Contains(10, 20) || v.Contains(410, 20) {
		t.Fatal("Contains mismatch")
	}
	if got := (Viewport{}).Map(b, 3, 4); got != Pt(3, 4) {
		t.Fatalf("zero viewport should map 1:1, got %+v", got)
	}
}
