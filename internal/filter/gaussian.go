package filter

import "math"

// GaussianKernel returns the normalized 1-D Gaussian taps for a window of
// radius r.
func GaussianKernel(r int, sigma float64) []float64 {
	taps := make([]float64, 2*r+1)
	sum := 0.0
	for i := range taps {
		d := float64(i - r)
		taps[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += taps[i]
	}
	for i := range taps {
		taps[i] /= sum
	}
	return taps
}

// Gaussian blurs src with a separable Gaussian of radius r. Samples past the
// border repeat the nearest edge sample.
func Gaussian(src []float64, w, h, r int, sigma float64) []float64 {
	if r < 1 || sigma <= 0 {
		dst := make([]float64, len(src))
		copy(dst, src)
		return dst
	}
	taps := GaussianKernel(r, sigma)

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := src[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			acc := 0.0
			for k, t := range taps {
				sx := min(max(x+k-r, 0), w-1)
				acc += t * row[sx]
			}
			tmp[y*w+x] = acc
		}
	}

	dst := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for k, t := range taps {
				sy := min(max(y+k-r, 0), h-1)
				acc += t * tmp[sy*w+x]
			}
			dst[y*w+x] = acc
		}
	}
	return dst
}
