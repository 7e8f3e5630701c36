package lime

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Plane is a single-channel float64 buffer, row-major with no padding. An
// illumination map is a Plane whose samples lie in [0,1], 0 being fully
// dark and 1 fully lit.
type Plane struct {
	Width  int
	Height int
	Pix    []float64
}

// NewPlane returns a zeroed plane.
func NewPlane(width, height int) *Plane {
	return &Plane{Width: width, Height: height, Pix: make([]float64, width*height)}
}

// Clone returns a deep copy of p.
func (p *Plane) Clone() *Plane {
	pix := make([]float64, len(p.Pix))
	copy(pix, p.Pix)
	return &Plane{Width: p.Width, Height: p.Height, Pix: pix}
}

// Value returns the sample at (x, y).
func (p *Plane) Value(x, y int) float64 {
	return p.Pix[y*p.Width+x]
}

// Mean returns the average sample value.
func (p *Plane) Mean() float64 {
	if len(p.Pix) == 0 {
		return 0
	}
	return floats.Sum(p.Pix) / float64(len(p.Pix))
}

// Gray rescales the plane to 8 bits, mapping 0 to 0 and 1 to 255.
func (p *Plane) Gray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			out.Pix[out.PixOffset(x, y)] = toSample(p.Value(x, y))
		}
	}
	return out
}

func (p *Plane) matches(img *Image) bool {
	return p != nil && p.Width == img.Width && p.Height == img.Height && len(p.Pix) == img.Width*img.Height
}

func (p *Plane) finite() bool {
	if floats.HasNaN(p.Pix) {
		return false
	}
	for _, v := range p.Pix {
		if math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// clamp01 pulls every sample back into [0,1]. It must only be called on a
// plane the caller owns.
func (p *Plane) clamp01() {
	for i, v := range p.Pix {
		p.Pix[i] = clamp01(v)
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

func toSample(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
