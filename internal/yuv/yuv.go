// Package yuv converts between RGB and full-range BT.601 YCbCr over
// normalized float planes. Y is in [0,1]; Cb and Cr are centered on zero.
package yuv

const (
	kr = 0.299
	kg = 0.587
	kb = 0.114
)

// Luma returns the Y plane of three equally sized planes.
func Luma(r, g, b []float64) []float64 {
	y := make([]float64, len(r))
	for i := range r {
		y[i] = kr*r[i] + kg*g[i] + kb*b[i]
	}
	return y
}

// FromRGB converts three equally sized planes to luma and chroma.
func FromRGB(r, g, b []float64) (y, cb, cr []float64) {
	y = Luma(r, g, b)
	cb = make([]float64, len(r))
	cr = make([]float64, len(r))
	for i := range r {
		cb[i] = (b[i] - y[i]) / (2 * (1 - kb))
		cr[i] = (r[i] - y[i]) / (2 * (1 - kr))
	}
	return y, cb, cr
}

// ToRGB is the inverse of FromRGB. Results are not clamped.
func ToRGB(y, cb, cr []float64) (r, g, b []float64) {
	r = make([]float64, len(y))
	g = make([]float64, len(y))
	b = make([]float64, len(y))
	for i := range y {
		r[i] = y[i] + 2*(1-kr)*cr[i]
		b[i] = y[i] + 2*(1-kb)*cb[i]
		g[i] = (y[i] - kr*r[i] - kb*b[i]) / kg
	}
	return r, g, b
}
