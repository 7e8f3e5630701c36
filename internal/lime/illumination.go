package lime

import "fmt"

// EstimateIllumination returns the initial illumination map of img: for
// each pixel the largest of its three samples, normalized to [0,1]. A pixel
// is only as dark as its brightest channel.
func EstimateIllumination(img *Image) (*Plane, error) {
	if err := img.validate(); err != nil {
		return nil, fmt.Errorf("estimate illumination: %w", err)
	}
	out := NewPlane(img.Width, img.Height)
	for i := range out.Pix {
		px := img.Pix[i*Channels : i*Channels+Channels]
		out.Pix[i] = float64(max(px[0], px[1], px[2])) / 255
	}
	return out, nil
}
