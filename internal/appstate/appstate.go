// Package appstate runs the pad window: the prescription sheet with the
// signature strip beneath it, a toolbar on the left, page tabs along the top
// and a shortcut bar along the bottom.
package appstate

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/rxpad/internal/docfile"
	"github.com/example/rxpad/internal/notify"
	"github.com/example/rxpad/internal/pad"
	"github.com/example/rxpad/internal/theme"
)

// AppState holds the pad and settings shown by the window.
type AppState struct {
	Pad      *pad.Pad
	DocPath  string
	SaveDir  string
	Format   docfile.Format
	Theme    *theme.Theme
	Notifier *notify.Notifier

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithDocPath sets the file written by save. Without it a name is derived
// from the patient and date inside the save directory.
func WithDocPath(path string) Option { return func(a *AppState) { a.DocPath = path } }

// WithSaveDir sets the directory for derived document names.
func WithSaveDir(dir string) Option { return func(a *AppState) { a.SaveDir = dir } }

// WithFormat sets the encoding for derived document names.
func WithFormat(f docfile.Format) Option { return func(a *AppState) { a.Format = f } }

// WithTheme sets the window palette.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier routes save, copy and error events to desktop notifications.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState for p.
func New(p *pad.Pad, opts ...Option) *AppState {
	a := &AppState{Pad: p}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main drives the window on screen s until it is closed.
func (a *AppState) Main(s screen.Screen) {
	page := a.Pad.Surface(pad.Main).Bounds().Size()
	sig := a.Pad.Surface(pad.Signature).Bounds().Size()
	width := page.X/2 + toolbarWidth + 2*sheetMargin
	if width < 900 {
		width = 900
	}
	height := (page.Y+sig.Y)/2 + tabHeight + bottomHeight + 3*sheetMargin

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "rxpad"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	c := newController(a)
	lay := computeLayout(image.Pt(width, height), page, sig)
	cs := controls(lay.win, a.Pad.PageCount())
	hover := image.Pt(-1, -1)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	refresh := func() {
		if c.overlay() != "" {
			time.AfterFunc(messageDuration, func() { w.Send(paint.Event{}) })
		}
		w.Send(paint.Event{})
	}

	stop := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stop()
				return
			}
		case size.Event:
			lay = computeLayout(image.Pt(e.WidthPx, e.HeightPx), page, sig)
			cs = controls(lay.win, a.Pad.PageCount())
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := snapshotState(c, a.Theme, lay, cs, hover)
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if action, ok := c.keys.lookup(e); ok {
				c.perform(action)
				cs = controls(lay.win, a.Pad.PageCount())
				refresh()
			}
		case mouse.Event:
			hover = pointOf(float64(e.X), float64(e.Y))
			switch e.Direction {
			case mouse.DirPress:
				if e.Button == mouse.ButtonLeft {
					c.dismiss()
					c.press(lay, cs, float64(e.X), float64(e.Y))
					cs = controls(lay.win, a.Pad.PageCount())
				}
				refresh()
			case mouse.DirRelease:
				c.release()
				w.Send(paint.Event{})
			case mouse.DirNone:
				c.drag(lay, float64(e.X), float64(e.Y))
				w.Send(paint.Event{})
			}
		case error:
			log.Printf("window: %v", e)
		}
		if c.quit {
			stop()
			return
		}
	}
}
