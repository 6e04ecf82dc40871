package wl

import (
	"fmt"

	"deedles.dev/wlframe/internal/debug"
	"deedles.dev/wlframe/internal/set"
	"deedles.dev/wlframe/shm"
	"deedles.dev/wlframe/wire"
)

const (
	shmCreatePool = 0

	shmEventFormat = 0
)

// Format is a wl_shm pixel format.
type Format uint32

const (
	FormatARGB8888 Format = 0
	FormatXRGB8888 Format = 1
)

func (f Format) String() string {
	switch f {
	case FormatARGB8888:
		return "argb8888"
	case FormatXRGB8888:
		return "xrgb8888"
	}
	return fmt.Sprintf("format(%#x)", uint32(f))
}

// ParseFormat returns the format with the given name, as returned by
// String.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "argb8888":
		return FormatARGB8888, nil
	case "xrgb8888":
		return FormatXRGB8888, nil
	}
	return 0, fmt.Errorf("unsupported pixel format %q", name)
}

// Shm is the bound wl_shm global.
type Shm struct {
	display *Display
	id      uint32
	version uint32
	formats set.Set[Format]
}

func (s *Shm) Interface() string {
	return "wl_shm"
}

func (s *Shm) bound(id uint32) {
	s.id = id
}

// Supports reports whether the compositor can use buffers in format f.
// ARGB8888 and XRGB8888 are always supported.
func (s *Shm) Supports(f Format) bool {
	return f == FormatARGB8888 || f == FormatXRGB8888 || s.formats.Has(f)
}

// Formats returns the formats that the compositor has announced, in
// ascending order.
func (s *Shm) Formats() []Format {
	return set.Sorted(s.formats)
}

func (s *Shm) Dispatch(msg *wire.Message) error {
	switch msg.Op {
	case shmEventFormat:
		f := Format(msg.ReadUint())
		if msg.Err() != nil {
			return nil
		}
		if s.formats == nil {
			s.formats = set.New[Format]()
		}
		s.formats.Add(f)
		return nil

	default:
		return wire.UnknownOpError{Interface: s.Interface(), Type: "event", Op: msg.Op}
	}
}

// CreatePool shares pool's memory with the compositor.
func (s *Shm) CreatePool(pool *shm.Pool) *ShmPool {
	d := s.display
	p := ShmPool{display: d, pool: pool, size: pool.Size()}
	p.id = d.objects.Allocate(&p)
	d.request(s, s.id, shmCreatePool, p.id, pool.Region().File(), int32(pool.Size()))

	debug.Debug().Int("size", pool.Size()).Uint32("id", p.id).Msg("created shm pool")
	return &p
}
