package appstate

import (
	"image"
	"math"
	"testing"

	"github.com/example/rxpad/internal/pad"
)

func TestComputeLayoutFitsWindow(t *testing.T) {
	win := image.Pt(900, 700)
	l := computeLayout(win, image.Pt(794, 1123), image.Pt(400, 150))
	if l.signature.Max.Y > win.Y-bottomHeight {
		t.Fatalf("signature %v overlaps the shortcut bar", l.signature)
	}
	if l.page.Min.X != toolbarWidth+sheetMargin || l.page.Min.Y != tabHeight+sheetMargin {
		t.Fatalf("page origin = %v", l.page.Min)
	}
	if l.signature.Max.X != l.page.Max.X {
		t.Fatalf("signature should align with the sheet's right edge: %v vs %v", l.signature, l.page)
	}
	ratio := float64(l.page.Dx()) / float64(l.page.Dy())
	if math.Abs(ratio-794.0/1123.0) > 0.01 {
		t.Fatalf("aspect ratio = %f", ratio)
	}
}

func TestLayoutHitMapsToBuffer(t *testing.T) {
	l := computeLayout(image.Pt(900, 700), image.Pt(794, 1123), image.Pt(400, 150))
	bounds := image.Rect(0, 0, 794, 1123)

	cx := float64(l.page.Min.X + l.page.Dx()/2)
	cy := float64(l.page.Min.Y + l.page.Dy()/2)
	target, vp, ok := l.hit(cx, cy)
	if !ok || target != pad.Main {
		t.Fatalf("centre of the sheet hit %v, %v", target, ok)
	}
	p := vp.Map(bounds, cx, cy)
	if math.Abs(p.X-397) > 3 || math.Abs(p.Y-561.5) > 3 {
		t.Fatalf("mapped centre = %+v", p)
	}

	sx := float64(l.signature.Min.X + 1)
	sy := float64(l.signature.Min.Y + 1)
	if target, _, ok := l.hit(sx, sy); !ok || target != pad.Signature {
		t.Fatalf("signature strip hit %v, %v", target, ok)
	}
	if _, _, ok := l.hit(2, 2); ok {
		t.Fatal("toolbar corner should not hit a buffer")
	}
}

func TestControls(t *testing.T) {
	win := image.Pt(1200, 700)
	cs := controls(win, 3)

	var tabs, tools, swatches int
	for _, c := range cs {
		switch c.kind {
		case kindTab:
			tabs++
		case kindTool:
			tools++
		case kindSwatch:
			swatches++
		}
	}
	if tabs != 4 || tools != 4 || swatches != len(palette) {
		t.Fatalf("tabs=%d tools=%d swatches=%d", tabs, tools, swatches)
	}

	c, ok := controlAt(cs, image.Pt(toolbarWidth+tabWidth+5, 5))
	if !ok || c.kind != kindTab || c.page != 1 {
		t.Fatalf("second tab = %+v, %v", c, ok)
	}
	c, ok = controlAt(cs, image.Pt(toolbarWidth+3*tabWidth+5, 5))
	if !ok || c.action != ActionPageAdd {
		t.Fatalf("plus tab = %+v, %v", c, ok)
	}
	c, ok = controlAt(cs, image.Pt(toolbarWidth+6, win.Y-bottomHeight/2))
	if !ok || c.action != ActionUndo {
		t.Fatalf("first shortcut = %+v, %v", c, ok)
	}
	c, ok = controlAt(cs, image.Pt(10, tabHeight+24+5))
	if !ok || c.action != ActionToolBrush {
		t.Fatalf("second tool = %+v, %v", c, ok)
	}
}
