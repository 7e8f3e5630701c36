// Package dehaze removes haze and fog with the dark channel prior of He, Sun
// and Tang. In haze-free outdoor scenes almost every patch has some channel
// close to zero; haze lifts that minimum, and how much it lifts it tells how
// much of each pixel is scattered airlight.
package dehaze

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/erinpentecost/lime/internal/filter"
	"github.com/erinpentecost/lime/internal/lime"
	"github.com/erinpentecost/lime/internal/yuv"
)

// Dehazer holds the dark channel prior settings.
type Dehazer struct {
	// Patch is the side of the square window of the dark channel.
	Patch int `yaml:"patch"`
	// Omega is the fraction of haze removed; keeping a little preserves
	// depth cues.
	Omega float64 `yaml:"omega"`
	// Radius and Epsilon configure the guided filter refining the
	// transmission map.
	Radius  int     `yaml:"radius"`
	Epsilon float64 `yaml:"epsilon"`
	// MinTransmission bounds the division during recovery.
	MinTransmission float64 `yaml:"min_transmission"`
	// Percentile of the brightest dark-channel pixels averaged into the
	// atmospheric light.
	Percentile float64 `yaml:"percentile"`

	// Defog settings. FusionWeight is the share of the equalized brightness
	// in the blend; the rest comes from the wavelet cleaned one.
	FusionWeight float64 `yaml:"fusion_weight"`
	ClipLimit    float64 `yaml:"clip_limit"`
	Tiles        int     `yaml:"tiles"`
}

// New returns a Dehazer with the usual settings.
func New() *Dehazer {
	return &Dehazer{
		Patch:           15,
		Omega:           0.95,
		Radius:          30,
		Epsilon:         1e-4,
		MinTransmission: 0.1,
		Percentile:      0.001,
		FusionWeight:    0.5,
		ClipLimit:       2,
		Tiles:           10,
	}
}

// Validate reports settings the algorithm cannot run with.
func (d *Dehazer) Validate() error {
	switch {
	case d.Patch <= 0:
		return fmt.Errorf("dehaze patch %d: %w", d.Patch, lime.ErrInvalidParameter)
	case !(d.Omega >= 0 && d.Omega <= 1):
		return fmt.Errorf("dehaze omega %v: %w", d.Omega, lime.ErrInvalidParameter)
	case d.Radius <= 0:
		return fmt.Errorf("dehaze radius %d: %w", d.Radius, lime.ErrInvalidParameter)
	case !(d.Epsilon > 0):
		return fmt.Errorf("dehaze epsilon %v: %w", d.Epsilon, lime.ErrInvalidParameter)
	case !(d.MinTransmission > 0 && d.MinTransmission <= 1):
		return fmt.Errorf("dehaze min transmission %v: %w", d.MinTransmission, lime.ErrInvalidParameter)
	case !(d.Percentile > 0 && d.Percentile <= 1):
		return fmt.Errorf("dehaze percentile %v: %w", d.Percentile, lime.ErrInvalidParameter)
	case !(d.FusionWeight >= 0 && d.FusionWeight <= 1):
		return fmt.Errorf("dehaze fusion weight %v: %w", d.FusionWeight, lime.ErrInvalidParameter)
	case !(d.ClipLimit > 0):
		return fmt.Errorf("dehaze clip limit %v: %w", d.ClipLimit, lime.ErrInvalidParameter)
	case d.Tiles <= 0:
		return fmt.Errorf("dehaze tiles %d: %w", d.Tiles, lime.ErrInvalidParameter)
	}
	return nil
}

// Result carries the intermediate maps of one Dehaze call.
type Result struct {
	Image        *lime.Image
	Atmosphere   [lime.Channels]float64
	Transmission *lime.Plane
}

// Dehaze returns a haze-free version of img. img is not modified.
func (d *Dehazer) Dehaze(img *lime.Image) (*Result, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Pix) != img.Width*img.Height*lime.Channels {
		return nil, fmt.Errorf("dehaze: %w", lime.ErrInvalidInput)
	}
	w, h := img.Width, img.Height
	ch := img.Split()
	planes := [lime.Channels][]float64{ch[0].Pix, ch[1].Pix, ch[2].Pix}

	dark := d.darkChannel(planes, [lime.Channels]float64{1, 1, 1}, w, h)
	atmosphere := d.atmosphere(planes, dark)

	estimate := d.darkChannel(planes, atmosphere, w, h)
	for i, v := range estimate {
		estimate[i] = 1 - d.Omega*v
	}

	guide := yuv.Luma(planes[0], planes[1], planes[2])
	transmission := filter.Guided(guide, estimate, w, h, d.Radius, d.Epsilon)

	var out [lime.Channels][]float64
	for c := range out {
		out[c] = make([]float64, w*h)
		a := atmosphere[c]
		for i, v := range planes[c] {
			out[c][i] = (v-a)/max(transmission[i], d.MinTransmission) + a
		}
	}

	result := lime.MergePlanes(out, w, h)

	tmap := &lime.Plane{Width: w, Height: h, Pix: transmission}
	for i, v := range tmap.Pix {
		tmap.Pix[i] = min(max(v, 0), 1)
	}
	return &Result{Image: result, Atmosphere: atmosphere, Transmission: tmap}, nil
}

// darkChannel is the patch-wise minimum over all channels of planes, each
// first divided by its atmospheric light.
func (d *Dehazer) darkChannel(planes [lime.Channels][]float64, atmosphere [lime.Channels]float64, w, h int) []float64 {
	m := make([]float64, w*h)
	for i := range m {
		m[i] = planes[0][i] / atmosphere[0]
		for c := 1; c < lime.Channels; c++ {
			m[i] = min(m[i], planes[c][i]/atmosphere[c])
		}
	}
	return filter.Minimum(m, w, h, d.Patch/2)
}

// atmosphere averages the colors of the haziest pixels: those with the
// brightest dark channel.
func (d *Dehazer) atmosphere(planes [lime.Channels][]float64, dark []float64) [lime.Channels]float64 {
	n := max(1, int(float64(len(dark))*d.Percentile))
	order := make([]int, len(dark))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(dark[b], dark[a])
	})

	var a [lime.Channels]float64
	for _, i := range order[:n] {
		for c := range a {
			a[c] += planes[c][i]
		}
	}
	for c := range a {
		// keep the division in darkChannel finite for black scenes
		a[c] = max(a[c]/float64(n), lime.MinIllumination)
	}
	return a
}
