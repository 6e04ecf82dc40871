package shm

import (
	"fmt"
	"math"
)

// Slots is the number of buffers in a Pool.
const Slots = 2

// MaxSize is the largest pool that can be shared with the compositor,
// which receives sizes and offsets as 32-bit integers.
const MaxSize = math.MaxInt32

// BytesPerPixel is the pixel size of every format that a Pool
// supports.
const BytesPerPixel = 4

// Slot describes one buffer's worth of a pool.
type Slot struct {
	Offset int
	Width  int
	Height int
	Stride int
	Format uint32
}

// Len returns the number of bytes of the pool that the slot covers.
func (s Slot) Len() int {
	return s.Stride * s.Height
}

// Pool partitions a Region into Slots equally sized buffers so that
// one can be drawn into while the compositor reads from another.
//
// A slot is in flight from the time it is handed to the compositor
// until the compositor releases it. In-flight slots are never handed
// out and never moved.
type Pool struct {
	region   *Region
	format   uint32
	minSize  int
	capacity int
	slots    [Slots]Slot
	inFlight [Slots]bool
	last     int
}

// NewPool creates a pool for frames of the given size. The pool is
// at least minSize bytes so that small windows can grow without
// reallocating.
func NewPool(width, height int, format uint32, minSize int) (*Pool, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %vx%v", width, height)
	}

	p := Pool{
		format:  format,
		minSize: minSize,
		last:    Slots - 1,
	}
	p.capacity = max(width*BytesPerPixel*height, minSize/Slots)
	if p.capacity*Slots > MaxSize {
		return nil, fmt.Errorf("pool of %v bytes exceeds the maximum of %v", p.capacity*Slots, MaxSize)
	}

	region, err := Create(p.capacity * Slots)
	if err != nil {
		return nil, err
	}
	p.region = region
	p.layout(0, width, height)

	return &p, nil
}

func (p *Pool) layout(base, width, height int) {
	for i := range p.slots {
		p.slots[i] = Slot{
			Offset: base + i*p.capacity,
			Width:  width,
			Height: height,
			Stride: width * BytesPerPixel,
			Format: p.format,
		}
	}
}

// Region returns the pool's underlying memory.
func (p *Pool) Region() *Region {
	return p.region
}

// Size returns the size of the pool's memory in bytes.
func (p *Pool) Size() int {
	return p.region.Size()
}

// Capacity returns the number of bytes reserved for each slot.
func (p *Pool) Capacity() int {
	return p.capacity
}

// Slot returns the geometry of slot i.
func (p *Pool) Slot(i int) Slot {
	return p.slots[i]
}

// Pixels returns the memory of slot i.
func (p *Pool) Pixels(i int) []byte {
	s := p.slots[i]
	return p.region.Bytes()[s.Offset : s.Offset+s.Len() : s.Offset+s.Len()]
}

// SlotForNextFrame returns the first slot after the one it last
// returned that is not in flight. If every slot is in flight, it
// returns false and the caller has to wait for a release.
func (p *Pool) SlotForNextFrame() (int, Slot, bool) {
	for n := 1; n <= Slots; n++ {
		i := (p.last + n) % Slots
		if !p.inFlight[i] {
			p.last = i
			return i, p.slots[i], true
		}
	}
	return -1, Slot{}, false
}

func (p *Pool) MarkInFlight(i int) {
	p.inFlight[i] = true
}

func (p *Pool) MarkReleased(i int) {
	p.inFlight[i] = false
}

func (p *Pool) InFlight(i int) bool {
	return p.inFlight[i]
}

// InFlightCount returns the number of slots that are in flight.
func (p *Pool) InFlightCount() (n int) {
	for _, f := range p.inFlight {
		if f {
			n++
		}
	}
	return n
}

// Resize changes the frame size of every slot. If the new frame
// doesn't fit in the current slots, the slots are laid out again. With
// no slot in flight they start at the beginning of the region, which
// grows only if it is too small. Otherwise they move past the old end
// of the region, leaving any in-flight buffer's pixels untouched.
// grew reports whether the region grew, in which case the compositor
// has to be told the new size.
func (p *Pool) Resize(width, height int) (grew bool, err error) {
	if width <= 0 || height <= 0 {
		return false, fmt.Errorf("invalid frame size %vx%v", width, height)
	}

	frame := width * BytesPerPixel * height
	if frame <= p.capacity {
		for i := range p.slots {
			p.slots[i].Width = width
			p.slots[i].Height = height
			p.slots[i].Stride = width * BytesPerPixel
		}
		return false, nil
	}

	var base int
	if p.InFlightCount() > 0 {
		base = p.region.Size()
	}
	size := base + frame*Slots
	if size > MaxSize {
		return false, fmt.Errorf("pool of %v bytes exceeds the maximum of %v", size, MaxSize)
	}

	if size > p.region.Size() {
		err = p.region.Grow(size)
		if err != nil {
			return false, fmt.Errorf("grow pool: %w", err)
		}
		grew = true
	}
	p.capacity = frame
	p.layout(base, width, height)
	return grew, nil
}

// Close releases the pool's memory.
func (p *Pool) Close() error {
	return p.region.Close()
}
