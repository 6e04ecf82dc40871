package wl

import (
	"deedles.dev/wlframe/shm"
	"deedles.dev/wlframe/wire"
)

const (
	bufferDestroy = 0

	bufferEventRelease = 0
)

// Buffer is a wl_buffer that covers one slot of the window's pool.
type Buffer struct {
	display *Display
	window  *Window
	id      uint32
	index   int
	slot    shm.Slot
}

func (b *Buffer) Interface() string {
	return "wl_buffer"
}

func (b *Buffer) Dispatch(msg *wire.Message) error {
	switch msg.Op {
	case bufferEventRelease:
		return b.window.release(b)

	default:
		return wire.UnknownOpError{Interface: b.Interface(), Type: "event", Op: msg.Op}
	}
}

func (b *Buffer) Destroy() {
	b.display.request(b, b.id, bufferDestroy)
}
