// Package lime enhances images captured under poor lighting.
//
// The pipeline follows LIME (Guo, Li and Ling, "LIME: Low-light Image
// Enhancement via Illumination Map Estimation"): the illumination of each
// pixel is first estimated as its brightest channel, that map is refined so
// it follows strong edges and ignores texture and noise, a gamma curve is
// applied to it, and finally the input is divided by the corrected map.
//
//	Image -> EstimateIllumination -> Refiner -> ToneCorrect -> Reconstruct -> Image
//
// All interior arithmetic is done on float64 samples normalized to [0,1].
// Every stage returns a newly allocated buffer and never writes to its
// inputs.
package lime
