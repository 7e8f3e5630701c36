package lime

import (
	"math"

	"github.com/erinpentecost/lime/internal/filter"
)

// gradients returns the forward differences of p. The last column of dx and
// the last row of dy are zero: there is no neighbor past the border.
func gradients(p *Plane) (dx, dy []float64) {
	w, h := p.Width, p.Height
	dx = make([]float64, w*h)
	dy = make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if x+1 < w {
				dx[i] = p.Pix[i+1] - p.Pix[i]
			}
			if y+1 < h {
				dy[i] = p.Pix[i+w] - p.Pix[i]
			}
		}
	}
	return dx, dy
}

// edgeWeights derives the smoothing weight of every horizontal (wx) and
// vertical (wy) grid edge from the initial map. Strong gradients get small
// weights so the solver leaves those discontinuities alone.
func edgeWeights(initial *Plane, strategy WeightStrategy, radius int, sigma, eps float64) (wx, wy []float64) {
	n := len(initial.Pix)
	wx = make([]float64, n)
	wy = make([]float64, n)

	if strategy == WeightUniform {
		for i := range n {
			wx[i], wy[i] = 1, 1
		}
		return wx, wy
	}

	dx, dy := gradients(initial)
	if strategy == WeightGaussianGradient {
		dx = filter.Gaussian(dx, initial.Width, initial.Height, radius, sigma)
		dy = filter.Gaussian(dy, initial.Width, initial.Height, radius, sigma)
	}
	for i := range n {
		wx[i] = 1 / (math.Abs(dx[i]) + eps)
		wy[i] = 1 / (math.Abs(dy[i]) + eps)
	}
	return wx, wy
}
