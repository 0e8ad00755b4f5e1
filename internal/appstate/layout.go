package appstate

import (
	"fmt"
	"image"
	"image/color"

	"github.com/example/rxpad/internal/canvas"
	"github.com/example/rxpad/internal/pad"
)

const (
	tabHeight    = 24
	bottomHeight = 24
	toolbarWidth = 84
	sheetMargin  = 16
	tabWidth     = 40
	minZoom      = 0.05
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// PaletteColor is a named swatch in the toolbar.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var palette = []PaletteColor{
	{"Black", color.RGBA{0, 0, 0, 255}},
	{"Navy", color.RGBA{0, 0, 128, 255}},
	{"Blue", color.RGBA{0, 0, 255, 255}},
	{"Red", color.RGBA{200, 0, 0, 255}},
	{"Green", color.RGBA{0, 128, 0, 255}},
	{"Purple", color.RGBA{128, 0, 128, 255}},
	{"Gold", color.RGBA{255, 215, 0, 255}},
	{"Gray", color.RGBA{128, 128, 128, 255}},
}

var widths = []float64{1, 2, 4, 8, 12}

// layout places the sheet and signature strip inside the content area, scaled
// by a common zoom that fits both.
type layout struct {
	win       image.Point
	zoom      float64
	page      image.Rectangle
	signature image.Rectangle
}

func computeLayout(win, page, sig image.Point) layout {
	availW := float64(win.X - toolbarWidth - 2*sheetMargin)
	availH := float64(win.Y - tabHeight - bottomHeight - 3*sheetMargin)
	zoom := availW / float64(page.X)
	if zh := availH / float64(page.Y+sig.Y); zh < zoom {
		zoom = zh
	}
	if zoom < minZoom {
		zoom = minZoom
	}
	pw, ph := int(float64(page.X)*zoom), int(float64(page.Y)*zoom)
	sw, sh := int(float64(sig.X)*zoom), int(float64(sig.Y)*zoom)
	x0, y0 := toolbarWidth+sheetMargin, tabHeight+sheetMargin
	pr := image.Rect(x0, y0, x0+pw, y0+ph)
	sx := pr.Max.X - sw
	if sx < x0 {
		sx = x0
	}
	sr := image.Rect(sx, pr.Max.Y+sheetMargin, sx+sw, pr.Max.Y+sheetMargin+sh)
	return layout{win: win, zoom: zoom, page: pr, signature: sr}
}

func viewportOf(r image.Rectangle) canvas.Viewport {
	return canvas.Viewport{
		Origin: canvas.Pt(float64(r.Min.X), float64(r.Min.Y)),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}

// hit reports which buffer a device position falls on.
func (l layout) hit(x, y float64) (pad.Target, canvas.Viewport, bool) {
	if vp := viewportOf(l.page); vp.Contains(x, y) {
		return pad.Main, vp, true
	}
	if vp := viewportOf(l.signature); vp.Contains(x, y) {
		return pad.Signature, vp, true
	}
	return pad.Main, canvas.Viewport{}, false
}

func (l layout) viewport(t pad.Target) canvas.Viewport {
	if t == pad.Signature {
		return viewportOf(l.signature)
	}
	return viewportOf(l.page)
}

// controlKind selects how a control is drawn.
type controlKind int

const (
	kindTool controlKind = iota
	kindSwatch
	kindWidth
	kindTab
	kindShortcut
)

// control is a clickable region. Exactly one of action, page, colour or width
// is meaningful depending on kind.
type control struct {
	kind   controlKind
	rect   image.Rectangle
	label  string
	action string
	page   int
	colour color.RGBA
	width  float64
}

var toolControls = []struct {
	label  string
	action string
	tool   canvas.Tool
}{
	{"P:Pen", ActionToolPen, canvas.ToolPen},
	{"B:Brush", ActionToolBrush, canvas.ToolBrush},
	{"H:Highlight", ActionToolHighlight, canvas.ToolHighlighter},
	{"E:Eraser", ActionToolEraser, canvas.ToolEraser},
}

var shortcutControls = []struct {
	label  string
	action string
}{
	{"^Z:undo", ActionUndo},
	{"^Y:redo", ActionRedo},
	{"clear", ActionClear},
	{"^N:add page", ActionPageAdd},
	{"^D:delete page", ActionPageDelete},
	{"^S:save", ActionSave},
	{"^O:reopen", ActionOpen},
	{"^C:copy", ActionCopy},
	{"sign clear", ActionSigClear},
	{"sign save", ActionSigSave},
	{"Q:quit", ActionQuit},
}

// labelWidth approximates basicfont.Face7x13 advance.
func labelWidth(s string) int { return 7*len(s) + 8 }

// controls lays out the toolbar, page tabs and shortcut bar for a window.
func controls(win image.Point, pages int) []control {
	var out []control
	y := tabHeight
	for _, tc := range toolControls {
		out = append(out, control{kind: kindTool, rect: image.Rect(0, y, toolbarWidth, y+24), label: tc.label, action: tc.action})
		y += 24
	}
	y += 6
	for i, p := range palette {
		x := 6 + (i%4)*19
		out = append(out, control{kind: kindSwatch, rect: image.Rect(x, y, x+16, y+16), label: p.Name, colour: p.Color})
		if i%4 == 3 {
			y += 19
		}
	}
	y += 6
	for _, w := range widths {
		out = append(out, control{kind: kindWidth, rect: image.Rect(0, y, toolbarWidth, y+18), label: fmt.Sprintf("%g", w), width: w})
		y += 18
	}

	x := toolbarWidth
	for i := 0; i < pages; i++ {
		out = append(out, control{kind: kindTab, rect: image.Rect(x, 0, x+tabWidth, tabHeight), label: fmt.Sprintf("%d", i+1), page: i})
		x += tabWidth
	}
	out = append(out, control{kind: kindTab, rect: image.Rect(x, 0, x+tabWidth, tabHeight), label: "+", page: -1, action: ActionPageAdd})

	x = toolbarWidth + 4
	top := win.Y - bottomHeight
	for _, sc := range shortcutControls {
		w := labelWidth(sc.label)
		out = append(out, control{kind: kindShortcut, rect: image.Rect(x, top+3, x+w, win.Y-3), label: sc.label, action: sc.action})
		x += w + 6
	}
	return out
}

func controlAt(cs []control, p image.Point) (control, bool) {
	for _, c := range cs {
		if p.In(c.rect) {
			return c, true
		}
	}
	return control{}, false
}
