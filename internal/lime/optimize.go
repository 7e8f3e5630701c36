package lime

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// OptimizationRefiner finds the map t minimizing
//
//	sum_x (t(x) - t0(x))^2 + Alpha * sum_{d in h,v} sum_x W_d(x) (d t(x))^2
//
// where t0 is the initial map, d t the forward difference along d, and W_d
// the edge weights chosen by Strategy. Setting the gradient to zero gives
// the sparse system (I + Alpha*D'WD) t = t0 over the 4-connected pixel grid.
// Its matrix is symmetric positive definite with unit row sums, so the
// solution is a weighted average of t0 and stays inside [0,1]. It is solved
// matrix-free with Jacobi-preconditioned conjugate gradients.
type OptimizationRefiner struct {
	Alpha      float64
	Iterations int
	Tolerance  float64
	Strategy   WeightStrategy
	Radius     int
	Sigma      float64
	Epsilon    float64
	Workers    int
}

// SolveStats describes how the last solve ended.
type SolveStats struct {
	Iterations int
	Residual   float64
	Converged  bool
}

func (o *OptimizationRefiner) Refine(initial *Plane, img *Image) (*Plane, error) {
	out, _, err := o.RefineStats(initial, img)
	return out, err
}

// RefineStats is Refine that also reports solver progress. Hitting the
// iteration cap is not an error; the result is then approximate.
func (o *OptimizationRefiner) RefineStats(initial *Plane, img *Image) (*Plane, SolveStats, error) {
	if err := checkRefineInput(initial, img); err != nil {
		return nil, SolveStats{}, fmt.Errorf("optimization refine: %w", err)
	}
	if o.Alpha == 0 {
		return initial.Clone(), SolveStats{Converged: true}, nil
	}
	if o.Iterations <= 0 {
		return nil, SolveStats{}, fmt.Errorf("optimization refine: iterations %d: %w", o.Iterations, ErrInvalidParameter)
	}

	wx, wy := edgeWeights(initial, o.Strategy, o.Radius, o.Sigma, o.Epsilon)
	op := &smoothness{
		width:   initial.Width,
		height:  initial.Height,
		alpha:   o.Alpha,
		wx:      wx,
		wy:      wy,
		workers: o.Workers,
	}
	t, stats := op.solve(initial.Pix, o.Iterations, o.Tolerance)

	out := &Plane{Width: initial.Width, Height: initial.Height, Pix: t}
	if !out.finite() {
		return nil, stats, fmt.Errorf("optimization refine after %d iterations: %w", stats.Iterations, ErrNumericDivergence)
	}
	// CG iterates may overshoot the exact solution slightly.
	out.clamp01()
	return out, stats, nil
}

// smoothness is the operator A = I + alpha*D'WD. wx[i] weighs the edge
// between pixel i and its right neighbor, wy[i] the edge to the pixel below.
type smoothness struct {
	width, height int
	alpha         float64
	wx, wy        []float64
	workers       int
}

func (s *smoothness) diagonal() []float64 {
	w, h := s.width, s.height
	d := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			sum := 0.0
			if x+1 < w {
				sum += s.wx[i]
			}
			if x > 0 {
				sum += s.wx[i-1]
			}
			if y+1 < h {
				sum += s.wy[i]
			}
			if y > 0 {
				sum += s.wy[i-w]
			}
			d[i] = 1 + s.alpha*sum
		}
	}
	return d
}

// apply writes A*v into dst.
func (s *smoothness) apply(dst, v []float64) {
	w, h := s.width, s.height
	forRows(h, s.workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				vi := v[i]
				acc := 0.0
				if x+1 < w {
					acc += s.wx[i] * (vi - v[i+1])
				}
				if x > 0 {
					acc += s.wx[i-1] * (vi - v[i-1])
				}
				if y+1 < h {
					acc += s.wy[i] * (vi - v[i+w])
				}
				if y > 0 {
					acc += s.wy[i-w] * (vi - v[i-w])
				}
				dst[i] = vi + s.alpha*acc
			}
		}
	})
}

// solve runs preconditioned conjugate gradients on A t = b starting from
// t = b, which is already the answer on flat regions.
func (s *smoothness) solve(b []float64, maxIter int, tol float64) ([]float64, SolveStats) {
	n := len(b)
	t := make([]float64, n)
	copy(t, b)

	bNorm := floats.Norm(b, 2)
	if bNorm == 0 {
		return t, SolveStats{Converged: true}
	}

	invDiag := s.diagonal()
	for i, d := range invDiag {
		invDiag[i] = 1 / d
	}

	r := make([]float64, n)
	s.apply(r, t)
	floats.SubTo(r, b, r)

	z := make([]float64, n)
	floats.MulTo(z, invDiag, r)
	p := make([]float64, n)
	copy(p, z)
	q := make([]float64, n)
	rz := floats.Dot(r, z)

	var stats SolveStats
	for stats.Iterations < maxIter {
		stats.Residual = floats.Norm(r, 2) / bNorm
		if stats.Residual < tol {
			stats.Converged = true
			break
		}

		s.apply(q, p)
		pq := floats.Dot(p, q)
		if pq <= 0 {
			// p is numerically zero; nothing left to descend along.
			stats.Converged = true
			break
		}
		step := rz / pq
		floats.AddScaled(t, step, p)
		floats.AddScaled(r, -step, q)

		floats.MulTo(z, invDiag, r)
		rzNext := floats.Dot(r, z)
		floats.AddScaledTo(p, z, rzNext/rz, p)
		rz = rzNext
		stats.Iterations++
	}
	if !stats.Converged {
		stats.Residual = floats.Norm(r, 2) / bNorm
		stats.Converged = stats.Residual < tol
	}
	return t, stats
}
