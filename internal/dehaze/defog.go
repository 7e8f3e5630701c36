package dehaze

import "github.com/erinpentecost/lime/internal/lime"

// Defog runs Dehaze and then restores local contrast. The brightness (HSV
// value) of the dehazed image is replaced by a blend of its equalized and
// wavelet cleaned versions; hue and saturation are kept.
func (d *Dehazer) Defog(img *lime.Image) (*Result, error) {
	res, err := d.Dehaze(img)
	if err != nil {
		return nil, err
	}
	w, h := res.Image.Width, res.Image.Height
	ch := res.Image.Split()

	value := make([]float64, w*h)
	for i := range value {
		value[i] = max(ch[0].Pix[i], ch[1].Pix[i], ch[2].Pix[i])
	}
	equalized := equalize(value, w, h, d.Tiles, d.ClipLimit)
	cleaned := waveletClean(value, w, h)

	out := [lime.Channels][]float64{ch[0].Pix, ch[1].Pix, ch[2].Pix}
	for i, v := range value {
		fused := d.FusionWeight*equalized[i] + (1-d.FusionWeight)*cleaned[i]
		if v == 0 {
			for c := range out {
				out[c][i] = fused
			}
			continue
		}
		scale := fused / v
		for c := range out {
			out[c][i] *= scale
		}
	}
	res.Image = lime.MergePlanes(out, w, h)
	return res, nil
}
