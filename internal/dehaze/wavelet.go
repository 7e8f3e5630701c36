package dehaze

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// sharpenAmount scales the Laplacian subtracted from the approximation band.
const sharpenAmount = 0.7

// padEven replicates the last column and row of v as needed so both sides
// are even.
func padEven(v []float64, w, h int) ([]float64, int, int) {
	pw, ph := w+w%2, h+h%2
	if pw == w && ph == h {
		return v, w, h
	}
	out := make([]float64, pw*ph)
	for y := range ph {
		sy := min(y, h-1)
		for x := range pw {
			out[y*pw+x] = v[sy*w+min(x, w-1)]
		}
	}
	return out, pw, ph
}

// haar is one level of the orthonormal 2D Haar transform of a plane with
// even sides. Each band is (w/2)×(h/2).
func haar(v []float64, w, h int) (approx, horiz, vert, diag []float64) {
	hw, hh := w/2, h/2
	approx = make([]float64, hw*hh)
	horiz = make([]float64, hw*hh)
	vert = make([]float64, hw*hh)
	diag = make([]float64, hw*hh)
	for y := range hh {
		for x := range hw {
			a := v[2*y*w+2*x]
			b := v[2*y*w+2*x+1]
			c := v[(2*y+1)*w+2*x]
			d := v[(2*y+1)*w+2*x+1]
			i := y*hw + x
			approx[i] = (a + b + c + d) / 2
			horiz[i] = (a + b - c - d) / 2
			vert[i] = (a - b + c - d) / 2
			diag[i] = (a - b - c + d) / 2
		}
	}
	return approx, horiz, vert, diag
}

// inverseHaar rebuilds the w×h plane haar was given.
func inverseHaar(approx, horiz, vert, diag []float64, w, h int) []float64 {
	hw, hh := w/2, h/2
	out := make([]float64, w*h)
	for y := range hh {
		for x := range hw {
			i := y*hw + x
			ll, lh, hl, dd := approx[i], horiz[i], vert[i], diag[i]
			out[2*y*w+2*x] = (ll + lh + hl + dd) / 2
			out[2*y*w+2*x+1] = (ll + lh - hl - dd) / 2
			out[(2*y+1)*w+2*x] = (ll - lh + hl - dd) / 2
			out[(2*y+1)*w+2*x+1] = (ll - lh - hl + dd) / 2
		}
	}
	return out
}

// sharpen subtracts a scaled 4-neighbor Laplacian from v, clamped to
// [0,hi].
func sharpen(v []float64, w, h int, hi float64) []float64 {
	out := make([]float64, len(v))
	for y := range h {
		up, down := max(y-1, 0), min(y+1, h-1)
		for x := range w {
			left, right := max(x-1, 0), min(x+1, w-1)
			c := v[y*w+x]
			lap := v[up*w+x] + v[down*w+x] + v[y*w+left] + v[y*w+right] - 4*c
			out[y*w+x] = min(max(c-sharpenAmount*lap, 0), hi)
		}
	}
	return out
}

func softThreshold(v, t float64) float64 {
	switch {
	case v > t:
		return v - t
	case v < -t:
		return v + t
	}
	return 0
}

// noiseLevel estimates the noise deviation from the diagonal detail band as
// its median absolute value over 0.6745.
func noiseLevel(diag []float64) float64 {
	abs := make([]float64, len(diag))
	for i, v := range diag {
		abs[i] = math.Abs(v)
	}
	slices.Sort(abs)
	return stat.Quantile(0.5, stat.Empirical, abs, nil) / 0.6745
}

// waveletClean sharpens the coarse structure of v and shrinks its fine
// detail by the universal threshold, so noise goes and edges stay.
func waveletClean(v []float64, w, h int) []float64 {
	padded, pw, ph := padEven(v, w, h)
	approx, horiz, vert, diag := haar(padded, pw, ph)

	// approximation samples of a [0,1] plane lie in [0,2]
	approx = sharpen(approx, pw/2, ph/2, 2)
	t := noiseLevel(diag) * math.Sqrt(2*math.Log(float64(w*h)))
	for _, band := range [][]float64{horiz, vert, diag} {
		for i, x := range band {
			band[i] = softThreshold(x, t)
		}
	}

	full := inverseHaar(approx, horiz, vert, diag, pw, ph)
	out := make([]float64, w*h)
	for y := range h {
		for x := range w {
			out[y*w+x] = min(max(full[y*pw+x], 0), 1)
		}
	}
	return out
}
