package lime

import (
	"fmt"
	"runtime"

	"github.com/erinpentecost/lime/internal/filter"
)

// Refiner turns the initial illumination map into one that follows the
// structure of the scene. Implementations never modify initial and always
// return a map of the same shape with samples in [0,1].
type Refiner interface {
	Refine(initial *Plane, img *Image) (*Plane, error)
}

// NewRefiner returns the Refiner selected by params.Mode.
func NewRefiner(params Parameters) (Refiner, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	switch params.Mode {
	case ModeFilter:
		return &FilterRefiner{
			Alpha:   params.Alpha,
			Radius:  params.Radius,
			Epsilon: params.Epsilon,
		}, nil
	default:
		workers := params.Workers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		return &OptimizationRefiner{
			Alpha:      params.Alpha,
			Iterations: params.Iterations,
			Tolerance:  params.Tolerance,
			Strategy:   params.Strategy,
			Radius:     params.Radius,
			Sigma:      params.Sigma,
			Epsilon:    params.Epsilon,
			Workers:    workers,
		}, nil
	}
}

func checkRefineInput(initial *Plane, img *Image) error {
	if err := img.validate(); err != nil {
		return err
	}
	if !initial.matches(img) {
		return fmt.Errorf("illumination map does not match %dx%d image: %w", img.Width, img.Height, ErrInvalidInput)
	}
	return nil
}

// FilterHalfStrength is the Alpha at which FilterRefiner weighs the
// filtered map and the initial map equally.
const FilterHalfStrength = 0.15

// FilterRefiner smooths the initial map with a self-guided filter. It is a
// single pass, so much cheaper than OptimizationRefiner, and keeps edges
// wherever the local variance of the map is large compared to Epsilon.
//
// The filtered map is blended with the initial one by
// Alpha/(Alpha+FilterHalfStrength): zero keeps the initial map, large values
// approach the plain guided filter.
type FilterRefiner struct {
	Alpha   float64
	Radius  int
	Epsilon float64
}

func (f *FilterRefiner) Refine(initial *Plane, img *Image) (*Plane, error) {
	if err := checkRefineInput(initial, img); err != nil {
		return nil, fmt.Errorf("filter refine: %w", err)
	}
	if f.Alpha == 0 {
		return initial.Clone(), nil
	}
	if f.Radius <= 0 {
		return nil, fmt.Errorf("filter refine: radius %d: %w", f.Radius, ErrInvalidParameter)
	}

	out := &Plane{
		Width:  initial.Width,
		Height: initial.Height,
		Pix:    filter.Guided(initial.Pix, initial.Pix, initial.Width, initial.Height, f.Radius, f.Epsilon),
	}
	if !out.finite() {
		return nil, fmt.Errorf("filter refine: %w", ErrNumericDivergence)
	}
	out.clamp01()

	lambda := f.Alpha / (f.Alpha + FilterHalfStrength)
	for i, v := range out.Pix {
		out.Pix[i] = initial.Pix[i] + lambda*(v-initial.Pix[i])
	}
	return out, nil
}
