package wl

import (
	"deedles.dev/wlframe/internal/debug"
	"deedles.dev/wlframe/wire"
)

const (
	seatGetPointer = 0
	seatRelease    = 3

	seatEventCapabilities = 0
	seatEventName         = 1
)

// seatReleaseVersion is the first wl_seat version with the release
// request.
const seatReleaseVersion = 5

// SeatCapability is a bit set of the input devices that a seat has.
type SeatCapability uint32

const (
	SeatCapabilityPointer  SeatCapability = 1
	SeatCapabilityKeyboard SeatCapability = 2
	SeatCapabilityTouch    SeatCapability = 4
)

// Seat is the bound wl_seat global.
type Seat struct {
	display *Display
	id      uint32
	version uint32
	caps    SeatCapability
	name    string
	pointer *Pointer
	removed bool
}

func (s *Seat) Interface() string {
	return "wl_seat"
}

func (s *Seat) bound(id uint32) {
	s.id = id
}

// Name returns the seat's name, if the compositor has sent one.
func (s *Seat) Name() string {
	return s.name
}

func (s *Seat) Dispatch(msg *wire.Message) error {
	switch msg.Op {
	case seatEventCapabilities:
		caps := SeatCapability(msg.ReadUint())
		if msg.Err() != nil {
			return nil
		}
		s.capabilities(caps)
		return nil

	case seatEventName:
		name := msg.ReadString()
		if msg.Err() != nil {
			return nil
		}
		s.name = name
		debug.Info().Str("seat", name).Msg("seat name")
		return nil

	default:
		return wire.UnknownOpError{Interface: s.Interface(), Type: "event", Op: msg.Op}
	}
}

func (s *Seat) capabilities(caps SeatCapability) {
	if s.removed {
		return
	}
	s.caps = caps
	reg := s.display.registry

	hasPointer := caps&SeatCapabilityPointer != 0
	switch {
	case hasPointer && s.pointer == nil:
		s.pointer = s.getPointer()
		reg.assign(RolePointer, s.pointer.id)

	case !hasPointer && s.pointer != nil:
		s.releasePointer()
	}
}

func (s *Seat) releasePointer() {
	s.pointer.Release()
	s.pointer = nil
	s.display.registry.clear(RolePointer)
}

// remove releases the seat and its pointer after the compositor has
// removed its global.
func (s *Seat) remove() {
	s.removed = true
	if s.pointer != nil {
		s.releasePointer()
	}
	if s.version >= seatReleaseVersion {
		s.display.request(s, s.id, seatRelease)
	}
}

func (s *Seat) getPointer() *Pointer {
	p := Pointer{display: s.display, version: s.version}
	p.id = s.display.objects.Allocate(&p)
	s.display.request(s, s.id, seatGetPointer, p.id)
	return &p
}
