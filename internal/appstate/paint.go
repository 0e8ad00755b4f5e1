package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"

	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/rxpad/internal/render"
	"github.com/example/rxpad/internal/theme"
)

// ButtonState selects how a control is shaded.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StateSelected
)

type paintControl struct {
	control
	state ButtonState
}

// paintState is an immutable copy of everything a frame needs.
type paintState struct {
	theme     *theme.Theme
	layout    layout
	page      *image.RGBA
	signature *image.RGBA
	controls  []paintControl
	status    string
	message   string
}

func snapshotState(c *controller, th *theme.Theme, l layout, cs []control, hover image.Point) paintState {
	st := paintState{theme: th, layout: l, message: c.overlay()}
	img, err := c.pad.PageImage(c.pad.ActivePage())
	if err != nil {
		log.Printf("paint: %v", err)
	}
	st.page = img
	st.signature = c.pad.SignatureImage()
	for _, ctl := range cs {
		state := StateDefault
		switch {
		case c.selected(ctl):
			state = StateSelected
		case hover.In(ctl.rect):
			state = StateHover
		}
		st.controls = append(st.controls, paintControl{ctl, state})
	}
	ts := c.pad.Tools()
	st.status = fmt.Sprintf("page %d/%d  %s %gpx", c.pad.ActivePage()+1, c.pad.PageCount(), ts.Tool, ts.Width)
	return st
}

func drawRect(dst *image.RGBA, r image.Rectangle, col color.Color, width int) {
	u := image.NewUniform(col)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

func drawLabel(dst *image.RGBA, r image.Rectangle, label string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13,
		Dot: fixed.P(r.Min.X+4, r.Min.Y+(r.Dy()+10)/2)}
	d.DrawString(label)
}

func drawControl(dst *image.RGBA, th *theme.Theme, pc paintControl) {
	r := pc.rect
	switch pc.kind {
	case kindSwatch:
		draw.Draw(dst, r, image.NewUniform(pc.colour), image.Point{}, draw.Src)
		border := th.ButtonBorder
		width := 1
		if pc.state == StateSelected {
			border = th.ButtonActive
			width = 2
		}
		drawRect(dst, r, border, width)
		return
	case kindTab:
		bg := th.TabBackground
		if pc.state != StateDefault {
			bg = th.TabActive
		}
		draw.Draw(dst, r, image.NewUniform(bg), image.Point{}, draw.Src)
		drawRect(dst, r, th.ButtonBorder, 1)
		drawLabel(dst, r, pc.label, th.TabText)
		return
	}
	bg := th.ButtonBackground
	switch pc.state {
	case StateHover:
		bg = blend(th.ButtonBackground, th.ButtonActive)
	case StateSelected:
		bg = th.ButtonActive
	}
	draw.Draw(dst, r, image.NewUniform(bg), image.Point{}, draw.Src)
	if pc.kind == kindShortcut {
		drawRect(dst, r, th.ButtonBorder, 1)
	}
	if pc.kind == kindWidth {
		mid := r.Min.Y + r.Dy()/2
		h := int(pc.width)/2 + 1
		line := image.Rect(r.Min.X+30, mid-h/2, r.Max.X-6, mid-h/2+h)
		draw.Draw(dst, line, image.NewUniform(th.ButtonText), image.Point{}, draw.Src)
	}
	drawLabel(dst, r, pc.label, th.ButtonText)
}

func blend(a, b color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8((uint16(a.R) + uint16(b.R)) / 2),
		G: uint8((uint16(a.G) + uint16(b.G)) / 2),
		B: uint8((uint16(a.B) + uint16(b.B)) / 2),
		A: 255,
	}
}

// drawSheet paints a white sheet with its drop shadow and scales img onto it.
func drawSheet(dst *image.RGBA, th *theme.Theme, r image.Rectangle, img image.Image) {
	render.DrawSheetShadow(dst, r, render.DefaultShadowOptions(), image.NewUniform(th.Shadow))
	draw.Draw(dst, r, image.White, image.Point{}, draw.Src)
	if img != nil {
		xdraw.ApproxBiLinear.Scale(dst, r, img, img.Bounds(), draw.Over, nil)
	}
	drawRect(dst, r, th.ButtonBorder, 1)
}

func drawOverlay(dst *image.RGBA, th *theme.Theme, msg string) {
	face, err := render.Face(18, false)
	if err != nil {
		log.Printf("overlay font: %v", err)
		face = basicfont.Face7x13
	}
	wmsg, hmsg := render.MeasureText(face, msg)
	b := dst.Bounds()
	px := (b.Dx() - wmsg) / 2
	py := (b.Dy() - hmsg) / 2
	rect := image.Rect(px-12, py-8, px+wmsg+12, py+hmsg+8)
	draw.Draw(dst, rect, image.NewUniform(th.OverlayBackground), image.Point{}, draw.Over)
	render.DrawText(dst, face, image.Pt(px, py), msg, th.OverlayText)
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	win := st.layout.win
	b, err := s.NewBuffer(win)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()
	th := st.theme

	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)
	drawSheet(dst, th, st.layout.page, st.page)
	if ctx.Err() != nil {
		return
	}
	drawSheet(dst, th, st.layout.signature, st.signature)
	drawLabel(dst, image.Rect(st.layout.signature.Min.X-80, st.layout.signature.Min.Y, st.layout.signature.Min.X, st.layout.signature.Min.Y+20), "Signature", th.Foreground)
	if ctx.Err() != nil {
		return
	}

	draw.Draw(dst, image.Rect(0, 0, win.X, tabHeight), image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(0, tabHeight, toolbarWidth, win.Y), image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(toolbarWidth, win.Y-bottomHeight, win.X, win.Y), image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	drawLabel(dst, image.Rect(0, 0, toolbarWidth, tabHeight), "rxpad", th.Foreground)
	for _, pc := range st.controls {
		drawControl(dst, th, pc)
	}
	right := toolbarWidth
	for _, pc := range st.controls {
		if pc.kind == kindTab && pc.rect.Max.X > right {
			right = pc.rect.Max.X
		}
	}
	drawLabel(dst, image.Rect(right+8, 0, win.X, tabHeight), st.status, th.Foreground)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" {
		drawOverlay(dst, th, st.message)
	}
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
