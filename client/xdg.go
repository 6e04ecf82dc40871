package wl

import (
	"deedles.dev/wlframe/internal/debug"
	"deedles.dev/wlframe/wire"
)

const (
	wmBaseDestroy       = 0
	wmBaseGetXdgSurface = 2
	wmBasePong          = 3

	wmBaseEventPing = 0
)

// WmBase is the bound xdg_wm_base global.
type WmBase struct {
	display *Display
	id      uint32
}

func (wm *WmBase) Interface() string {
	return "xdg_wm_base"
}

func (wm *WmBase) bound(id uint32) {
	wm.id = id
}

func (wm *WmBase) Dispatch(msg *wire.Message) error {
	switch msg.Op {
	case wmBaseEventPing:
		serial := msg.ReadUint()
		if msg.Err() != nil {
			return nil
		}
		wm.display.request(wm, wm.id, wmBasePong, serial)
		return nil

	default:
		return wire.UnknownOpError{Interface: wm.Interface(), Type: "event", Op: msg.Op}
	}
}

func (wm *WmBase) GetXdgSurface(s *Surface, w *Window) *XdgSurface {
	xs := XdgSurface{display: wm.display, window: w}
	xs.id = wm.display.objects.Allocate(&xs)
	wm.display.request(wm, wm.id, wmBaseGetXdgSurface, xs.id, s.id)
	return &xs
}

const (
	xdgSurfaceDestroy      = 0
	xdgSurfaceGetToplevel  = 1
	xdgSurfaceAckConfigure = 4

	xdgSurfaceEventConfigure = 0
)

type XdgSurface struct {
	display *Display
	window  *Window
	id      uint32
}

func (xs *XdgSurface) Interface() string {
	return "xdg_surface"
}

func (xs *XdgSurface) Dispatch(msg *wire.Message) error {
	switch msg.Op {
	case xdgSurfaceEventConfigure:
		serial := msg.ReadUint()
		if msg.Err() != nil {
			return nil
		}
		xs.window.configure(serial)
		return nil

	default:
		return wire.UnknownOpError{Interface: xs.Interface(), Type: "event", Op: msg.Op}
	}
}

func (xs *XdgSurface) GetToplevel() *Toplevel {
	t := Toplevel{display: xs.display, window: xs.window}
	t.id = xs.display.objects.Allocate(&t)
	xs.display.request(xs, xs.id, xdgSurfaceGetToplevel, t.id)
	return &t
}

func (xs *XdgSurface) AckConfigure(serial uint32) {
	xs.display.request(xs, xs.id, xdgSurfaceAckConfigure, serial)
}

const (
	toplevelDestroy  = 0
	toplevelSetTitle = 2
	toplevelSetAppID = 3

	toplevelEventConfigure = 0
	toplevelEventClose     = 1
)

type Toplevel struct {
	display *Display
	window  *Window
	id      uint32
}

func (t *Toplevel) Interface() string {
	return "xdg_toplevel"
}

func (t *Toplevel) Dispatch(msg *wire.Message) error {
	switch msg.Op {
	case toplevelEventConfigure:
		width := msg.ReadInt()
		height := msg.ReadInt()
		states := msg.ReadArray()
		if msg.Err() != nil {
			return nil
		}
		debug.Debug().Int32("width", width).Int32("height", height).Int("states", len(states)/4).Msg("toplevel configure")
		return t.window.resize(int(width), int(height))

	case toplevelEventClose:
		t.window.state = Closed
		debug.Info().Msg("toplevel closed by compositor")
		return ErrClosed

	default:
		return wire.UnknownOpError{Interface: t.Interface(), Type: "event", Op: msg.Op}
	}
}

func (t *Toplevel) SetTitle(title string) {
	t.display.request(t, t.id, toplevelSetTitle, title)
}

func (t *Toplevel) SetAppID(id string) {
	t.display.request(t, t.id, toplevelSetAppID, id)
}
