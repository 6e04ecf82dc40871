package wl

import (
	"deedles.dev/wlframe/internal/debug"
	"deedles.dev/wlframe/wire"
)

const (
	surfaceDestroy      = 0
	surfaceAttach       = 1
	surfaceDamage       = 2
	surfaceFrame        = 3
	surfaceCommit       = 6
	surfaceDamageBuffer = 9

	surfaceEventEnter = 0
	surfaceEventLeave = 1
)

type Surface struct {
	display *Display
	id      uint32
	version uint32
}

func (s *Surface) Interface() string {
	return "wl_surface"
}

func (s *Surface) Dispatch(msg *wire.Message) error {
	switch msg.Op {
	case surfaceEventEnter:
		output := msg.ReadObject()
		debug.Debug().Uint32("output", output).Msg("surface entered output")
		return nil

	case surfaceEventLeave:
		output := msg.ReadObject()
		debug.Debug().Uint32("output", output).Msg("surface left output")
		return nil

	default:
		return wire.UnknownOpError{Interface: s.Interface(), Type: "event", Op: msg.Op}
	}
}

func (s *Surface) Attach(buf *Buffer, x, y int32) {
	s.display.request(s, s.id, surfaceAttach, buf.id, x, y)
}

// Damage marks a region of the surface as changed. The region is in
// buffer coordinates when the compositor supports it.
func (s *Surface) Damage(x, y, width, height int32) {
	op := uint16(surfaceDamageBuffer)
	if s.version < damageBufferVersion {
		op = surfaceDamage
	}
	s.display.request(s, s.id, op, x, y, width, height)
}

// Frame requests a callback for when the compositor is ready for
// the next frame. It applies to the next commit.
func (s *Surface) Frame(done func(time uint32) error) {
	cb := callback{done: done}
	id := s.display.objects.Allocate(&cb)
	s.display.request(s, s.id, surfaceFrame, id)
}

func (s *Surface) Commit() {
	s.display.request(s, s.id, surfaceCommit)
}

func (s *Surface) Destroy() {
	s.display.request(s, s.id, surfaceDestroy)
}
