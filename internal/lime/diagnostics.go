package lime

import "fmt"

// Diagnostics holds the intermediate buffers of one enhancement.
type Diagnostics struct {
	// Channels are the R, G and B planes of the input, normalized to [0,1].
	Channels [Channels]*Plane
	// Initial is the max-channel illumination estimate.
	Initial *Plane
	// Refined is Initial after structure-aware refinement.
	Refined *Plane
	// Corrected is Refined after tone correction; it is the map the input
	// was divided by.
	Corrected *Plane
	// Output is the enhanced image.
	Output *Image
}

func (d *Diagnostics) clone() *Diagnostics {
	out := &Diagnostics{
		Initial:   d.Initial.Clone(),
		Refined:   d.Refined.Clone(),
		Corrected: d.Corrected.Clone(),
		Output:    d.Output.Clone(),
	}
	for c, ch := range d.Channels {
		out.Channels[c] = ch.Clone()
	}
	return out
}

func (p *Pipeline) snapshot() (*Diagnostics, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	if p.last == nil {
		return nil, ErrNoDiagnostics
	}
	return p.last, nil
}

// Diagnostics returns a copy of everything recorded by the last successful
// Enhance, or ErrNoDiagnostics if there was none.
func (p *Pipeline) Diagnostics() (*Diagnostics, error) {
	d, err := p.snapshot()
	if err != nil {
		return nil, err
	}
	return d.clone(), nil
}

// Channel returns a copy of input channel c (0 = R, 1 = G, 2 = B) of the
// last successful Enhance.
func (p *Pipeline) Channel(c int) (*Plane, error) {
	if c < 0 || c >= Channels {
		return nil, fmt.Errorf("channel %d: %w", c, ErrInvalidInput)
	}
	d, err := p.snapshot()
	if err != nil {
		return nil, err
	}
	return d.Channels[c].Clone(), nil
}

// Illumination returns a copy of the tone-corrected illumination map of the
// last successful Enhance.
func (p *Pipeline) Illumination() (*Plane, error) {
	d, err := p.snapshot()
	if err != nil {
		return nil, err
	}
	return d.Corrected.Clone(), nil
}

// Output returns a copy of the image produced by the last successful
// Enhance.
func (p *Pipeline) Output() (*Image, error) {
	d, err := p.snapshot()
	if err != nil {
		return nil, err
	}
	return d.Output.Clone(), nil
}
