// Package graphics draws indexed geometry with a shader program and drives
// the per-frame loop of a window.
package graphics

import (
	"image/color"
)

// ColorToFloat32 converts a color.Color to RGBA float32 values in the range [0, 1].
func ColorToFloat32(c color.Color) [4]float32 {
	r, g, b, a := c.RGBA()
	// RGBA() returns values in range [0, 0xffff], convert to [0, 1]
	return [4]float32{
		float32(r) / 0xffff,
		float32(g) / 0xffff,
		float32(b) / 0xffff,
		float32(a) / 0xffff,
	}
}

// Default colors using image/color types
var (
	ColorBlack = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	ColorWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)
