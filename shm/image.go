package shm

import (
	"image"
	"image/draw"

	"deedles.dev/ximage/format"
)

// Image returns a draw.Image backed by pix, which holds a width by
// height frame of ARGB8888 pixels.
func Image(pix []byte, width, height int) draw.Image {
	return &format.Image{
		Format: format.ARGB8888,
		Rect:   image.Rect(0, 0, width, height),
		Pix:    pix,
	}
}
