package wl

import (
	"deedles.dev/wlframe/internal/debug"
	"deedles.dev/wlframe/internal/set"
	"deedles.dev/wlframe/pointer"
	"deedles.dev/wlframe/wire"
)

const (
	pointerRelease = 1

	pointerEventEnter        = 0
	pointerEventLeave        = 1
	pointerEventMotion       = 2
	pointerEventButton       = 3
	pointerEventAxis         = 4
	pointerEventFrame        = 5
	pointerEventAxisSource   = 6
	pointerEventAxisStop     = 7
	pointerEventAxisDiscrete = 8
)

// pointerReleaseVersion is the first wl_pointer version with the
// release request.
const pointerReleaseVersion = 3

// PointerState is the pointer's position and buttons relative to the
// window.
type PointerState struct {
	// X and Y are in surface coordinates.
	X, Y float32

	Buttons pointer.Buttons
	Inside  bool
}

// Pointer is a seat's wl_pointer.
type Pointer struct {
	display  *Display
	id       uint32
	version  uint32
	released bool
	state    PointerState

	// held is every button that is down, including ones that
	// PointerState.Buttons can't represent.
	held set.Set[pointer.Button]
}

func (p *Pointer) Interface() string {
	return "wl_pointer"
}

func (p *Pointer) Dispatch(msg *wire.Message) error {
	switch msg.Op {
	case pointerEventEnter:
		msg.ReadUint()
		surface := msg.ReadObject()
		x := msg.ReadFixed()
		y := msg.ReadFixed()
		if msg.Err() != nil {
			return nil
		}
		p.enter(surface, x, y)

	case pointerEventLeave:
		msg.ReadUint()
		surface := msg.ReadObject()
		if msg.Err() != nil {
			return nil
		}
		p.leave(surface)

	case pointerEventMotion:
		msg.ReadUint()
		x := msg.ReadFixed()
		y := msg.ReadFixed()
		if msg.Err() != nil {
			return nil
		}
		p.motion(x, y)

	case pointerEventButton:
		msg.ReadUint()
		msg.ReadUint()
		button := pointer.Button(msg.ReadUint())
		state := pointer.ButtonState(msg.ReadUint())
		if msg.Err() != nil {
			return nil
		}
		p.button(button, state)

	case pointerEventAxis:
		msg.ReadUint()
		msg.ReadUint()
		msg.ReadFixed()

	case pointerEventFrame:

	case pointerEventAxisSource:
		msg.ReadUint()

	case pointerEventAxisStop:
		msg.ReadUint()
		msg.ReadUint()

	case pointerEventAxisDiscrete:
		msg.ReadUint()
		msg.ReadInt()

	default:
		return wire.UnknownOpError{Interface: p.Interface(), Type: "event", Op: msg.Op}
	}

	return nil
}

func (p *Pointer) ours(surface uint32) bool {
	s := p.display.window.surface
	return !p.released && s != nil && s.id == surface
}

func (p *Pointer) enter(surface uint32, x, y wire.Fixed) {
	if !p.ours(surface) {
		return
	}

	p.state.Inside = true
	p.state.X = float32(x.Float())
	p.state.Y = float32(y.Float())
}

func (p *Pointer) leave(surface uint32) {
	if !p.ours(surface) {
		return
	}

	p.state.Inside = false
	p.state.Buttons = 0
	p.held = nil
}

func (p *Pointer) motion(x, y wire.Fixed) {
	if p.released || !p.state.Inside {
		return
	}

	p.state.X = float32(x.Float())
	p.state.Y = float32(y.Float())
	if p.held.Len() > 0 {
		p.notify()
	}
}

func (p *Pointer) button(button pointer.Button, state pointer.ButtonState) {
	if p.released || !p.state.Inside {
		return
	}

	p.state.Buttons = p.state.Buttons.Set(button, state)
	switch state {
	case pointer.Pressed:
		if p.held == nil {
			p.held = set.New[pointer.Button]()
		}
		p.held.Add(button)
	case pointer.Released:
		p.held.Delete(button)
	}
	debug.Debug().Stringer("button", button).Stringer("state", state).Msg("pointer button")
	if state == pointer.Pressed {
		p.notify()
	}
}

// notify calls the pointer hook with the position normalized to the
// window's size.
func (p *Pointer) notify() {
	hook := p.display.cfg.Pointer
	if hook == nil {
		return
	}

	w, h := p.display.window.Size()
	hook(
		clamp(p.state.X/float32(w)),
		clamp(p.state.Y/float32(h)),
	)
}

func clamp(v float32) float32 {
	return min(max(v, 0), 1)
}

// Release destroys the pointer if the compositor supports doing so.
// Events that arrive for it afterwards are ignored.
func (p *Pointer) Release() {
	p.released = true
	p.state = PointerState{}
	p.held = nil
	if p.version >= pointerReleaseVersion {
		p.display.request(p, p.id, pointerRelease)
	}
}
