package lime

import (
	"fmt"
	"sync"
)

// Pipeline runs the full enhancement with a fixed set of Parameters and
// keeps a snapshot of the intermediate buffers of its last successful run.
//
// Enhance may be called from several goroutines; the snapshot then holds
// whichever call finished last. Use one Pipeline per stream of work when the
// diagnostics matter.
type Pipeline struct {
	params  Parameters
	refiner Refiner

	mux  sync.Mutex
	last *Diagnostics
}

// NewPipeline validates params and returns a ready Pipeline.
func NewPipeline(params Parameters) (*Pipeline, error) {
	refiner, err := NewRefiner(params)
	if err != nil {
		return nil, fmt.Errorf("new pipeline: %w", err)
	}
	return &Pipeline{params: params, refiner: refiner}, nil
}

// Parameters returns the configuration p was built with.
func (p *Pipeline) Parameters() Parameters {
	return p.params
}

// Enhance returns the enhanced version of img. img is not modified. On
// error the previous diagnostics snapshot is kept as is.
func (p *Pipeline) Enhance(img *Image) (*Image, error) {
	if err := img.validate(); err != nil {
		return nil, fmt.Errorf("enhance: %w", err)
	}

	initial, err := EstimateIllumination(img)
	if err != nil {
		return nil, fmt.Errorf("enhance: %w", err)
	}
	refined, err := p.refiner.Refine(initial, img)
	if err != nil {
		return nil, fmt.Errorf("enhance: %w", err)
	}
	corrected, err := ToneCorrect(refined, p.params.Gamma)
	if err != nil {
		return nil, fmt.Errorf("enhance: %w", err)
	}
	out, err := Reconstruct(img, corrected)
	if err != nil {
		return nil, fmt.Errorf("enhance: %w", err)
	}
	if p.params.Denoise {
		out, err = Denoise(out, corrected, p.params.DenoiseRadius, p.params.DenoiseEpsilon)
		if err != nil {
			return nil, fmt.Errorf("enhance: %w", err)
		}
	}

	snapshot := &Diagnostics{
		Channels:  img.Split(),
		Initial:   initial,
		Refined:   refined,
		Corrected: corrected,
		Output:    out.Clone(),
	}
	p.mux.Lock()
	p.last = snapshot
	p.mux.Unlock()

	return out, nil
}

// Enhance runs a one-off Pipeline built from params on img.
func Enhance(img *Image, params Parameters) (*Image, error) {
	p, err := NewPipeline(params)
	if err != nil {
		return nil, err
	}
	return p.Enhance(img)
}

// EstimateIlluminationFiltered returns the initial illumination map of img
// refined in filter mode, whatever params.Mode says.
func EstimateIlluminationFiltered(img *Image, params Parameters) (*Plane, error) {
	params.Mode = ModeFilter
	refiner, err := NewRefiner(params)
	if err != nil {
		return nil, fmt.Errorf("estimate filtered illumination: %w", err)
	}
	initial, err := EstimateIllumination(img)
	if err != nil {
		return nil, err
	}
	return refiner.Refine(initial, img)
}
