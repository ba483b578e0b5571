package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
)

// Frame is a float RGB image
type Frame struct {
	Width, Height int
	Pixels        []core.Vec3
}

// NewFrame creates a zeroed frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the pixel at (x, y)
func (f *Frame) At(x, y int) core.Vec3 {
	return f.Pixels[x+f.Width*y]
}

// Set stores the pixel at (x, y)
func (f *Frame) Set(x, y int, c core.Vec3) {
	f.Pixels[x+f.Width*y] = c
}

// Accumulate adds another frame of the same dimensions into this one
func (f *Frame) Accumulate(other *Frame) {
	for i := range f.Pixels {
		f.Pixels[i] = f.Pixels[i].Add(other.Pixels[i])
	}
}

// Scaled returns a copy of the frame with every pixel multiplied by scale
func (f *Frame) Scaled(scale float64) *Frame {
	out := NewFrame(f.Width, f.Height)
	for i, p := range f.Pixels {
		out.Pixels[i] = p.Multiply(scale)
	}
	return out
}

// ToRGBA converts the frame to an 8-bit image with gamma correction
func (f *Frame) ToRGBA(gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.At(x, y).Clamp(0, 1).GammaCorrect(gamma)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(math.Round(c.X * 255)),
				G: uint8(math.Round(c.Y * 255)),
				B: uint8(math.Round(c.Z * 255)),
				A: 255,
			})
		}
	}
	return img
}
