package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"time"

	"github.com/example/rxpad/internal/clipboard"
	"github.com/example/rxpad/internal/docfile"
	"github.com/example/rxpad/internal/notify"
	"github.com/example/rxpad/internal/pad"
	"github.com/example/rxpad/internal/store"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteImage

const messageDuration = 2 * time.Second

// controller applies actions to the pad and keeps the transient message shown
// in the window. Every error stops here.
type controller struct {
	pad      *pad.Pad
	docPath  string
	saveDir  string
	format   docfile.Format
	notifier *notify.Notifier
	now      func() time.Time

	actions map[string]func() error
	keys    shortcutTable

	message       string
	messageUntil  time.Time
	confirmDelete bool
	quit          bool

	// active is the buffer receiving the current mouse stroke.
	active   pad.Target
	stroking bool
}

func newController(a *AppState) *controller {
	c := &controller{
		pad:      a.Pad,
		docPath:  a.DocPath,
		saveDir:  a.SaveDir,
		format:   a.Format,
		notifier: a.Notifier,
		now:      time.Now,
		actions:  map[string]func() error{},
	}
	bindings := map[string]KeyboardShortcuts{}
	register := func(name string, fn func() error) {
		c.actions[name] = fn
		if keys, ok := defaultShortcuts[name]; ok {
			bindings[name] = keys
		}
	}

	register(ActionUndo, c.pad.Undo)
	register(ActionRedo, c.pad.Redo)
	register(ActionClear, c.pad.Clear)
	register(ActionSave, c.save)
	register(ActionOpen, c.open)
	register(ActionCopy, c.copy)
	register(ActionPageAdd, c.pad.AddPage)
	register(ActionPageDelete, c.deletePage)
	register(ActionPagePrev, c.pad.PreviousPage)
	register(ActionPageNext, c.pad.NextPage)
	for _, tc := range toolControls {
		tool := tc.tool
		register(tc.action, func() error {
			c.pad.SetTool(tool)
			return nil
		})
	}
	register(ActionSigClear, func() error {
		c.pad.ClearSignature()
		c.notifier.Signature("cleared")
		return nil
	})
	register(ActionSigSave, func() error {
		if err := c.pad.SaveSignature(context.Background()); err != nil {
			return err
		}
		c.show("signature saved")
		c.notifier.Signature("saved")
		return nil
	})
	register(ActionQuit, func() error {
		c.quit = true
		return nil
	})
	c.keys = newShortcutTable(bindings)
	return c
}

// perform runs a named action. Any action other than a repeated delete
// disarms the delete confirmation.
func (c *controller) perform(name string) {
	fn, ok := c.actions[name]
	if !ok {
		return
	}
	if name != ActionPageDelete {
		c.confirmDelete = false
	}
	if err := fn(); err != nil {
		c.fail(name, err)
	}
}

func (c *controller) fail(name string, err error) {
	log.Printf("%s: %v", name, err)
	c.show(notify.Message(err))
	c.notifier.Error(err)
}

func (c *controller) show(msg string) {
	c.message = msg
	c.messageUntil = c.now().Add(messageDuration)
}

// overlay returns the message to draw, if it has not expired.
func (c *controller) overlay() string {
	if c.message == "" || !c.now().Before(c.messageUntil) {
		return ""
	}
	return c.message
}

func (c *controller) dismiss() { c.messageUntil = time.Time{} }

func (c *controller) deletePage() error {
	if c.pad.PageCount() > 1 && !c.confirmDelete {
		c.confirmDelete = true
		c.show("press delete again to remove the page")
		return nil
	}
	c.confirmDelete = false
	return c.pad.DeletePage()
}

func (c *controller) savePath() string {
	if c.docPath != "" {
		return c.docPath
	}
	return filepath.Join(c.saveDir, docfile.Filename(c.pad.Metadata(), c.format, c.now()))
}

func (c *controller) save() error {
	path := c.savePath()
	err := c.pad.Save(context.Background(), path)
	// The document is on disk even when only the signature failed.
	if err != nil && !errors.Is(err, store.ErrPersistenceWrite) {
		return err
	}
	c.docPath = path
	c.show(fmt.Sprintf("saved %s", path))
	log.Printf("saved %s", path)
	c.notifier.Save(path)
	return err
}

// open reloads the document file, replacing the pages and fields. A file
// that cannot be read leaves the pad as it was.
func (c *controller) open() error {
	if c.docPath == "" {
		return errors.New("no document file to reopen")
	}
	if err := c.pad.Import(c.docPath); err != nil {
		return err
	}
	c.show(fmt.Sprintf("opened %s", c.docPath))
	log.Printf("opened %s", c.docPath)
	c.notifier.Import(c.docPath)
	return nil
}

func (c *controller) copy() error {
	img, err := c.pad.PageImage(c.pad.ActivePage())
	if err != nil {
		return err
	}
	// Ownership lasts while the window is open.
	if _, err := writeClipboard(img); err != nil {
		return err
	}
	c.show("page copied to clipboard")
	c.notifier.Copy(fmt.Sprintf("page %d", c.pad.ActivePage()+1), img)
	return nil
}

// press handles a mouse press in device space.
func (c *controller) press(l layout, cs []control, x, y float64) {
	if ctl, ok := controlAt(cs, pointOf(x, y)); ok {
		c.click(ctl)
		return
	}
	target, vp, ok := l.hit(x, y)
	if !ok {
		return
	}
	c.active, c.stroking = target, true
	c.pad.BeginStroke(target, vp.Map(c.pad.Surface(target).Bounds(), x, y))
}

// drag extends the active stroke. Positions outside the buffer are clipped
// by the surface.
func (c *controller) drag(l layout, x, y float64) {
	if !c.stroking {
		return
	}
	vp := l.viewport(c.active)
	c.pad.ExtendStroke(c.active, vp.Map(c.pad.Surface(c.active).Bounds(), x, y))
}

func (c *controller) release() {
	if !c.stroking {
		return
	}
	c.stroking = false
	if err := c.pad.EndStroke(c.active); err != nil {
		c.fail("stroke", err)
	}
}

func (c *controller) click(ctl control) {
	switch ctl.kind {
	case kindSwatch:
		c.pad.SetColor(ctl.colour)
	case kindWidth:
		c.pad.SetWidth(ctl.width)
	case kindTab:
		if ctl.page >= 0 {
			c.confirmDelete = false
			if err := c.pad.GoToPage(ctl.page); err != nil {
				c.fail("page", err)
			}
			return
		}
		c.perform(ctl.action)
	default:
		c.perform(ctl.action)
	}
}

// selected reports whether a toolbar control reflects the current tool state.
func (c *controller) selected(ctl control) bool {
	ts := c.pad.Tools()
	switch ctl.kind {
	case kindTool:
		for _, tc := range toolControls {
			if tc.action == ctl.action {
				return tc.tool == ts.Tool
			}
		}
	case kindSwatch:
		return ctl.colour == ts.Color
	case kindWidth:
		return ctl.width == ts.Width
	case kindTab:
		return ctl.page == c.pad.ActivePage()
	}
	return false
}

func pointOf(x, y float64) image.Point { return image.Pt(int(x), int(y)) }
