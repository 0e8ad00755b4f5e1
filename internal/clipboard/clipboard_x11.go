//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	ownerMu sync.Mutex
	owner   *x11Owner
)

// publishPNG makes a hidden X11 window the CLIPBOARD owner serving image/png.
func publishPNG(data []byte) (<-chan struct{}, error) {
	if !hasDisplay() {
		return nil, errNoDisplay
	}
	ownerMu.Lock()
	defer ownerMu.Unlock()
	if owner != nil {
		owner.close()
		owner = nil
	}
	o, err := newX11Owner(data)
	if err != nil {
		return nil, fmt.Errorf("clipboard: x11: %w", err)
	}
	owner = o
	return o.lost, nil
}

type x11Owner struct {
	conn    *xgb.Conn
	window  xproto.Window
	atomClp xproto.Atom
	atomTgt xproto.Atom
	atomPNG xproto.Atom
	data    []byte
	lost    chan struct{}
	once    sync.Once
}

func newX11Owner(data []byte) (*x11Owner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	o := &x11Owner{conn: conn, data: data, lost: make(chan struct{})}
	for name, dst := range map[string]*xproto.Atom{"CLIPBOARD": &o.atomClp, "TARGETS": &o.atomTgt, "image/png": &o.atomPNG} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, err
		}
		*dst = reply.Atom
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	if o.window, err = xproto.NewWindowId(conn); err != nil {
		conn.Close()
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, o.window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, 0, nil).Check(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := xproto.SetSelectionOwnerChecked(conn, o.window, o.atomClp, xproto.TimeCurrentTime).Check(); err != nil {
		conn.Close()
		return nil, err
	}
	go o.serve()
	return o, nil
}

func (o *x11Owner) serve() {
	defer o.close()
	for {
		ev, err := o.conn.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			return
		}
	}
}

func (o *x11Owner) answer(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}
	switch e.Target {
	case o.atomTgt:
		buf := make([]byte, 8)
		xgb.Put32(buf, uint32(o.atomTgt))
		xgb.Put32(buf[4:], uint32(o.atomPNG))
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property, xproto.AtomAtom, 32, 2, buf)
	case o.atomPNG:
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property, o.atomPNG, 8, uint32(len(o.data)), o.data)
	default:
		property = xproto.AtomNone
	}
	ev := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	xproto.SendEvent(o.conn, false, e.Requestor, 0, string(ev.Bytes()))
}

func (o *x11Owner) close() {
	o.once.Do(func() {
		close(o.lost)
		o.conn.Close()
	})
}

func resetInit() {}
