// Package scene is the demo application shown by wlframe: a canvas
// that leaves a small square wherever the pointer is pressed or
// dragged.
package scene

import (
	"image"
	"image/color"

	"deedles.dev/wlframe/internal/debug"
	"deedles.dev/wlframe/shm"
	"golang.org/x/image/draw"
)

const (
	// EntitySize is the width and height, in pixels, of an entity's
	// square.
	EntitySize = 10

	// MaxEntities is the number of entities kept. Adding more than
	// this drops the oldest.
	MaxEntities = 1 << 16
)

// Entity is a point on the canvas, relative to its size. X and Y are
// both in [0, 1].
type Entity struct {
	X, Y float32
}

// Scene is a list of entities painted over a solid background. It is
// not safe for concurrent use, but the pointer and paint hooks that
// drive it are called from the same goroutine.
type Scene struct {
	Background color.Color
	Foreground color.Color

	entities []Entity
}

func New(bg, fg color.Color) *Scene {
	return &Scene{
		Background: bg,
		Foreground: fg,
	}
}

// Entities returns the entities in the order that they were added.
func (s *Scene) Entities() []Entity {
	return s.entities
}

// Add places an entity at (x, y). It has the signature of the
// window's pointer hook.
func (s *Scene) Add(x, y float32) {
	e := Entity{X: clamp(x), Y: clamp(y)}
	if len(s.entities) >= MaxEntities {
		s.entities = append(s.entities[:0], s.entities[1:]...)
	}
	s.entities = append(s.entities, e)

	debug.Debug().
		Int("n", len(s.entities)).
		Float32("x", e.X).
		Float32("y", e.Y).
		Msg("new entity")
}

// Paint draws the scene into pix, a width by height frame of 32-bit
// pixels.
func (s *Scene) Paint(pix []byte, width, height int) {
	img := shm.Image(pix, width, height)
	s.Draw(img)
}

// Draw draws the scene into img.
func (s *Scene) Draw(img draw.Image) {
	bounds := img.Bounds()
	draw.Draw(img, bounds, image.NewUniform(s.Background), image.Point{}, draw.Src)

	fg := image.NewUniform(s.Foreground)
	for _, e := range s.entities {
		r := entityRect(e, bounds)
		draw.Draw(img, r, fg, image.Point{}, draw.Src)
	}
}

// entityRect returns the square covered by e in bounds, clipped to
// bounds.
func entityRect(e Entity, bounds image.Rectangle) image.Rectangle {
	x := bounds.Min.X + int(float32(bounds.Dx())*e.X)
	y := bounds.Min.Y + int(float32(bounds.Dy())*e.Y)
	return image.Rect(x, y, x+EntitySize, y+EntitySize).Intersect(bounds)
}

func clamp(v float32) float32 {
	return min(max(v, 0), 1)
}
