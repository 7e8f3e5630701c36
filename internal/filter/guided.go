package filter

// Guided applies the guided filter of He, Sun and Tang to src, steered by
// guide. Where guide varies a lot inside a window the output follows guide's
// edges; where it is flat the output is the local mean of src. eps is the
// regularizer on the local linear coefficient, in squared sample units.
//
// Passing the same plane as guide and src gives an edge-preserving
// smoothing of that plane.
func Guided(guide, src []float64, w, h, r int, eps float64) []float64 {
	n := w * h
	ip := make([]float64, n)
	ii := make([]float64, n)
	for i := range n {
		ip[i] = guide[i] * src[i]
		ii[i] = guide[i] * guide[i]
	}

	meanI := BoxMean(guide, w, h, r)
	meanP := BoxMean(src, w, h, r)
	meanIP := BoxMean(ip, w, h, r)
	meanII := BoxMean(ii, w, h, r)

	a := make([]float64, n)
	b := make([]float64, n)
	for i := range n {
		cov := meanIP[i] - meanI[i]*meanP[i]
		variance := meanII[i] - meanI[i]*meanI[i]
		if variance < 0 {
			// cancellation on flat windows
			variance = 0
		}
		a[i] = cov / (variance + eps)
		b[i] = meanP[i] - a[i]*meanI[i]
	}

	meanA := BoxMean(a, w, h, r)
	meanB := BoxMean(b, w, h, r)

	q := make([]float64, n)
	for i := range n {
		q[i] = meanA[i]*guide[i] + meanB[i]
	}
	return q
}
