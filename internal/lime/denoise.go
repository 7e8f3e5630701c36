package lime

import (
	"fmt"

	"github.com/erinpentecost/lime/internal/filter"
	"github.com/erinpentecost/lime/internal/yuv"
)

// Denoise suppresses the noise that reconstruction amplified in dark areas.
// The luma of img is smoothed with a self-guided filter and recombined as
//
//	Y' = Y*T + smooth(Y)*(1-T)
//
// so well lit pixels (T near 1) keep their detail and dark pixels take the
// smoothed value. Chroma is left untouched.
func Denoise(img *Image, illumination *Plane, radius int, eps float64) (*Image, error) {
	if err := img.validate(); err != nil {
		return nil, fmt.Errorf("denoise: %w", err)
	}
	if !illumination.matches(img) {
		return nil, fmt.Errorf("denoise: illumination map does not match %dx%d image: %w", img.Width, img.Height, ErrInvalidInput)
	}
	if radius <= 0 || !positive(eps) {
		return nil, fmt.Errorf("denoise: radius %d epsilon %v: %w", radius, eps, ErrInvalidParameter)
	}

	ch := img.Split()
	y, cb, cr := yuv.FromRGB(ch[0].Pix, ch[1].Pix, ch[2].Pix)
	smooth := filter.Guided(y, y, img.Width, img.Height, radius, eps)
	for i, t := range illumination.Pix {
		t = clamp01(t)
		y[i] = y[i]*t + smooth[i]*(1-t)
	}
	r, g, b := yuv.ToRGB(y, cb, cr)
	return MergePlanes([Channels][]float64{r, g, b}, img.Width, img.Height), nil
}
