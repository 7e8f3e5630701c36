// Package filter holds the neighborhood kernels shared by the enhancement
// and dehazing stages. Every kernel works on a dense row-major float64 plane
// of w*h samples and returns a freshly allocated plane.
package filter

// integral builds a (w+1)*(h+1) summed-area table of src.
func integral(src []float64, w, h int) []float64 {
	stride := w + 1
	sums := make([]float64, stride*(h+1))
	for y := 0; y < h; y++ {
		rowSum := 0.0
		for x := 0; x < w; x++ {
			rowSum += src[y*w+x]
			sums[(y+1)*stride+x+1] = sums[y*stride+x+1] + rowSum
		}
	}
	return sums
}

// BoxMean returns the mean of src over the (2r+1)x(2r+1) window centered on
// each sample. Windows are clipped at the borders and averaged over the
// samples they actually cover, so a constant plane stays constant.
func BoxMean(src []float64, w, h, r int) []float64 {
	dst := make([]float64, w*h)
	if r < 1 {
		copy(dst, src)
		return dst
	}
	sums := integral(src, w, h)
	stride := w + 1

	for y := 0; y < h; y++ {
		y0 := max(0, y-r)
		y1 := min(h-1, y+r)

		for x := 0; x < w; x++ {
			x0 := max(0, x-r)
			x1 := min(w-1, x+r)

			sum := sums[(y1+1)*stride+x1+1] -
				sums[y0*stride+x1+1] -
				sums[(y1+1)*stride+x0] +
				sums[y0*stride+x0]

			area := float64((y1 - y0 + 1) * (x1 - x0 + 1))
			dst[y*w+x] = sum / area
		}
	}
	return dst
}
