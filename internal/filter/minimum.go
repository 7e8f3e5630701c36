package filter

// Minimum replaces every sample with the smallest sample in the
// (2r+1)x(2r+1) window around it, which is a grayscale erosion with a square
// structuring element. Windows are clipped at the borders.
func Minimum(src []float64, w, h, r int) []float64 {
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := src[y*w+x]
			for sx := max(0, x-r); sx <= min(w-1, x+r); sx++ {
				m = min(m, src[y*w+sx])
			}
			tmp[y*w+x] = m
		}
	}

	dst := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := tmp[y*w+x]
			for sy := max(0, y-r); sy <= min(h-1, y+r); sy++ {
				m = min(m, tmp[sy*w+x])
			}
			dst[y*w+x] = m
		}
	}
	return dst
}
