package lime

import (
	"fmt"
	"math"
)

// MinIllumination is the floor applied to illumination values before
// dividing by them. A fully dark pixel therefore maps to itself instead of
// blowing up.
const MinIllumination = 1e-4

// Reconstruct divides every sample of img by the illumination at its pixel
// and clamps the result back into the 8-bit range.
func Reconstruct(img *Image, illumination *Plane) (*Image, error) {
	if err := img.validate(); err != nil {
		return nil, fmt.Errorf("reconstruct: %w", err)
	}
	if !illumination.matches(img) {
		return nil, fmt.Errorf("reconstruct: illumination map does not match %dx%d image: %w", img.Width, img.Height, ErrInvalidInput)
	}

	out := &Image{Width: img.Width, Height: img.Height, Pix: make([]uint8, len(img.Pix))}
	for i, t := range illumination.Pix {
		t = max(t, MinIllumination)
		if math.IsNaN(t) {
			return nil, fmt.Errorf("reconstruct: illumination at %d: %w", i, ErrNumericDivergence)
		}
		for c := range Channels {
			s := i*Channels + c
			out.Pix[s] = toSample(float64(img.Pix[s]) / 255 / t)
		}
	}
	return out, nil
}
