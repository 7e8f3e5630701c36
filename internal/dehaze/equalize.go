package dehaze

import "math"

const bins = 256

func bin(v float64) int {
	return int(min(max(v, 0), 1)*(bins-1) + 0.5)
}

// equalize is contrast limited adaptive histogram equalization of v, whose
// samples are in [0,1]. Each of the tiles×tiles regions gets its own clipped
// histogram mapping; pixels interpolate bilinearly between the mappings of
// the four nearest region centers.
func equalize(v []float64, w, h, tiles int, clipLimit float64) []float64 {
	tx, ty := min(tiles, w), min(tiles, h)
	luts := make([][bins]float64, tx*ty)
	for j := range ty {
		y0, y1 := j*h/ty, (j+1)*h/ty
		for i := range tx {
			x0, x1 := i*w/tx, (i+1)*w/tx

			var hist [bins]float64
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[bin(v[y*w+x])]++
				}
			}

			area := float64((x1 - x0) * (y1 - y0))
			limit := max(1, clipLimit*area/bins)
			excess := 0.0
			for k, c := range hist {
				if c > limit {
					excess += c - limit
					hist[k] = limit
				}
			}

			lut := &luts[j*tx+i]
			cdf := 0.0
			for k, c := range hist {
				cdf += c + excess/bins
				lut[k] = min(cdf/area, 1)
			}
		}
	}

	neighbors := func(p, size float64, n int) (lo, hi int, frac float64) {
		g := (p+0.5)/size - 0.5
		lo = int(math.Floor(g))
		frac = g - float64(lo)
		hi = min(lo+1, n-1)
		lo = max(lo, 0)
		return lo, hi, frac
	}

	tw, th := float64(w)/float64(tx), float64(h)/float64(ty)
	out := make([]float64, w*h)
	for y := range h {
		j0, j1, ay := neighbors(float64(y), th, ty)
		for x := range w {
			i0, i1, ax := neighbors(float64(x), tw, tx)
			k := bin(v[y*w+x])
			top := (1-ax)*luts[j0*tx+i0][k] + ax*luts[j0*tx+i1][k]
			bottom := (1-ax)*luts[j1*tx+i0][k] + ax*luts[j1*tx+i1][k]
			out[y*w+x] = (1-ay)*top + ay*bottom
		}
	}
	return out
}
