package wl

import "deedles.dev/wlframe/wire"

const compositorCreateSurface = 0

// damageBufferVersion is the first wl_compositor version whose surfaces
// support damage_buffer.
const damageBufferVersion = 4

// Compositor is the bound wl_compositor global.
type Compositor struct {
	display *Display
	id      uint32
	version uint32
}

func (c *Compositor) Interface() string {
	return "wl_compositor"
}

func (c *Compositor) bound(id uint32) {
	c.id = id
}

func (c *Compositor) Dispatch(msg *wire.Message) error {
	return wire.UnknownOpError{Interface: c.Interface(), Type: "event", Op: msg.Op}
}

func (c *Compositor) CreateSurface() *Surface {
	s := Surface{display: c.display, version: c.version}
	s.id = c.display.objects.Allocate(&s)
	c.display.request(c, c.id, compositorCreateSurface, s.id)
	return &s
}
