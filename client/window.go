package wl

import (
	"fmt"

	"deedles.dev/wlframe/internal/debug"
	"deedles.dev/wlframe/shm"
)

// SurfaceState is the lifecycle state of a Window.
type SurfaceState int

const (
	Disconnected SurfaceState = iota
	AwaitingGlobals
	GlobalsBound
	SurfaceCreated
	ConfigureAcked
	FrameAttached
	AwaitingFrameCallback
	Closed
)

func (s SurfaceState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case AwaitingGlobals:
		return "awaiting globals"
	case GlobalsBound:
		return "globals bound"
	case SurfaceCreated:
		return "surface created"
	case ConfigureAcked:
		return "configure acked"
	case FrameAttached:
		return "frame attached"
	case AwaitingFrameCallback:
		return "awaiting frame callback"
	case Closed:
		return "closed"
	}

	return "unknown"
}

// Window is the client's single toplevel window. It is driven
// entirely by events: the first configure starts the render loop,
// which is then paced by frame callbacks and buffer releases.
type Window struct {
	display *Display
	state   SurfaceState

	width, height int

	surface    *Surface
	xdgSurface *XdgSurface
	toplevel   *Toplevel

	pool    *shm.Pool
	shmPool *ShmPool
	buffers [shm.Slots]*Buffer

	configured bool
	stalled    bool
}

func newWindow(d *Display) *Window {
	return &Window{
		display: d,
		state:   AwaitingGlobals,
		width:   d.cfg.Width,
		height:  d.cfg.Height,
	}
}

func (w *Window) State() SurfaceState {
	return w.state
}

// Size returns the current size of the window.
func (w *Window) Size() (width, height int) {
	return w.width, w.height
}

func (w *Window) advance() error {
	switch w.state {
	case AwaitingGlobals:
		d := w.display
		if d.shm == nil || d.compositor == nil || d.wmBase == nil {
			return nil
		}
		w.create()
		return nil

	case ConfigureAcked:
		return w.render()

	default:
		return nil
	}
}

func (w *Window) create() {
	d := w.display
	reg := d.registry

	w.surface = d.compositor.CreateSurface()
	reg.assign(RoleSurface, w.surface.id)
	w.state = SurfaceCreated

	w.xdgSurface = d.wmBase.GetXdgSurface(w.surface, w)
	reg.assign(RoleXdgSurface, w.xdgSurface.id)

	w.toplevel = w.xdgSurface.GetToplevel()
	reg.assign(RoleToplevel, w.toplevel.id)
	if d.cfg.Title != "" {
		w.toplevel.SetTitle(d.cfg.Title)
	}
	if d.cfg.AppID != "" {
		w.toplevel.SetAppID(d.cfg.AppID)
	}

	w.surface.Commit()
	w.state = GlobalsBound

	debug.Info().
		Uint32("surface", w.surface.id).
		Uint32("toplevel", w.toplevel.id).
		Msg("created window")
}

// configure acknowledges an xdg_surface.configure. Only the first one
// starts rendering; later ones take effect with the next frame.
func (w *Window) configure(serial uint32) {
	w.xdgSurface.AckConfigure(serial)
	if w.configured {
		return
	}

	w.configured = true
	w.state = ConfigureAcked
}

// resize handles the size suggested by an xdg_toplevel.configure. A
// zero dimension leaves the choice to the client.
func (w *Window) resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if width == w.width && height == w.height {
		return nil
	}

	w.width, w.height = width, height
	debug.Debug().Int("width", width).Int("height", height).Msg("window resized")
	if w.pool == nil {
		return nil
	}

	grew, err := w.pool.Resize(width, height)
	if err != nil {
		return err
	}
	if grew {
		w.shmPool.Sync()
		w.display.cfg.Metrics.PoolGrown(w.pool.Size())
		debug.Debug().Int("size", w.pool.Size()).Msg("grew shm pool")
	}
	return nil
}

func (w *Window) createPool() error {
	d := w.display
	if !d.shm.Supports(d.cfg.Format) {
		return fmt.Errorf("compositor does not support format %v (announced %v)", d.cfg.Format, d.shm.Formats())
	}

	pool, err := shm.NewPool(w.width, w.height, uint32(d.cfg.Format), d.cfg.PoolSize)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	w.pool = pool
	w.shmPool = d.shm.CreatePool(pool)
	d.cfg.Metrics.PoolCreated(pool.Size())
	return nil
}

// render paints and commits a frame into the next free slot. If
// every slot is still held by the compositor, the frame is deferred
// until one is released.
func (w *Window) render() error {
	d := w.display
	if w.pool == nil {
		err := w.createPool()
		if err != nil {
			return err
		}
	}

	i, slot, ok := w.pool.SlotForNextFrame()
	if !ok {
		if !w.stalled {
			debug.Debug().Msg("every buffer is in use, deferring frame")
			d.cfg.Metrics.FrameStalled()
		}
		w.stalled = true
		return nil
	}
	w.stalled = false

	buf := w.buffers[i]
	if buf == nil || buf.slot != slot {
		if buf != nil {
			buf.Destroy()
		}
		buf = w.shmPool.CreateBuffer(i, w)
		w.buffers[i] = buf
	}

	if d.cfg.Paint != nil {
		d.cfg.Paint(w.pool.Pixels(i), slot.Width, slot.Height, d.Pointer())
	}

	w.surface.Attach(buf, 0, 0)
	w.surface.Damage(0, 0, int32(slot.Width), int32(slot.Height))
	w.state = FrameAttached

	w.surface.Frame(w.frameDone)
	w.state = AwaitingFrameCallback
	w.surface.Commit()

	w.pool.MarkInFlight(i)
	d.cfg.Metrics.FramePresented()
	d.cfg.Metrics.SetSlotsInFlight(w.pool.InFlightCount())
	return nil
}

func (w *Window) frameDone(uint32) error {
	if w.state == Closed {
		return nil
	}
	return w.render()
}

// release handles a wl_buffer.release. A stalled frame is painted
// into the freed slot.
func (w *Window) release(buf *Buffer) error {
	if w.buffers[buf.index] != buf {
		return nil
	}

	w.pool.MarkReleased(buf.index)
	w.display.cfg.Metrics.SetSlotsInFlight(w.pool.InFlightCount())
	if !w.stalled {
		return nil
	}
	return w.render()
}
