package wl

import (
	"deedles.dev/wlframe/shm"
	"deedles.dev/wlframe/wire"
)

const (
	shmPoolCreateBuffer = 0
	shmPoolDestroy      = 1
	shmPoolResize       = 2
)

// ShmPool is the compositor's side of a shm.Pool.
type ShmPool struct {
	display *Display
	id      uint32
	pool    *shm.Pool
	size    int
}

func (p *ShmPool) Interface() string {
	return "wl_shm_pool"
}

func (p *ShmPool) Dispatch(msg *wire.Message) error {
	return wire.UnknownOpError{Interface: p.Interface(), Type: "event", Op: msg.Op}
}

// Sync tells the compositor about growth of the underlying pool. It
// reports whether a resize request was sent.
func (p *ShmPool) Sync() bool {
	size := p.pool.Size()
	if size == p.size {
		return false
	}

	p.display.request(p, p.id, shmPoolResize, int32(size))
	p.size = size
	return true
}

// CreateBuffer creates a buffer covering slot i of the pool.
func (p *ShmPool) CreateBuffer(i int, w *Window) *Buffer {
	slot := p.pool.Slot(i)
	buf := Buffer{display: p.display, window: w, index: i, slot: slot}
	buf.id = p.display.objects.Allocate(&buf)
	p.display.request(p, p.id, shmPoolCreateBuffer,
		buf.id,
		int32(slot.Offset),
		int32(slot.Width),
		int32(slot.Height),
		int32(slot.Stride),
		slot.Format,
	)
	return &buf
}

func (p *ShmPool) Destroy() {
	p.display.request(p, p.id, shmPoolDestroy)
}
