package lime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func meanSample(img *Image) float64 {
	sum := 0.0
	for _, v := range img.Pix {
		sum += float64(v)
	}
	return sum / float64(len(img.Pix))
}

func TestEnhanceKeepsShape(t *testing.T) {
	sizes := [][2]int{{1, 1}, {1, 7}, {7, 1}, {5, 3}, {32, 20}}
	configs := map[string]func(*Parameters){
		"optimization": func(p *Parameters) {},
		"filter":       func(p *Parameters) { p.Mode = ModeFilter },
		"denoise":      func(p *Parameters) { p.Denoise = true },
		"uniform":      func(p *Parameters) { p.Strategy = WeightUniform },
	}
	for name, edit := range configs {
		t.Run(name, func(t *testing.T) {
			params := DefaultParameters()
			edit(&params)
			for _, s := range sizes {
				img := noisyImage(t, s[0], s[1], uint64(s[0]*s[1]))
				out, err := Enhance(img, params)
				require.NoError(t, err)
				require.Equal(t, img.Width, out.Width)
				require.Equal(t, img.Height, out.Height)
				require.Len(t, out.Pix, len(img.Pix))
			}
		})
	}
}

func TestEnhanceBrightensDarkImage(t *testing.T) {
	img := noisyImage(t, 24, 16, 10)
	out, err := Enhance(img, DefaultParameters())
	require.NoError(t, err)
	require.Greater(t, meanSample(out), meanSample(img))
}

func TestEnhanceDoesNotModifyInput(t *testing.T) {
	img := noisyImage(t, 12, 12, 11)
	before := img.Clone()
	_, err := Enhance(img, DefaultParameters())
	require.NoError(t, err)
	require.Equal(t, before.Pix, img.Pix)
}

func TestEnhanceUniformGray(t *testing.T) {
	img := uniformImage(t, 4, 4, 128)

	for _, mode := range []RefineMode{ModeOptimization, ModeFilter} {
		t.Run(string(mode), func(t *testing.T) {
			params := DefaultParameters()
			params.Mode = mode
			out, err := Enhance(img, params)
			require.NoError(t, err)

			v := 128.0 / 255
			want := uint8(math.Round(255 * v / math.Pow(v, params.Gamma)))
			for i, s := range out.Pix {
				require.Equal(t, want, s, "sample %d", i)
			}
		})
	}
}

func TestEnhanceAllBlack(t *testing.T) {
	img := uniformImage(t, 6, 5, 0)

	m, err := EstimateIllumination(img)
	require.NoError(t, err)
	for _, v := range m.Pix {
		require.Zero(t, v)
	}

	for _, mode := range []RefineMode{ModeOptimization, ModeFilter} {
		params := DefaultParameters()
		params.Mode = mode
		params.Denoise = true
		out, err := Enhance(img, params)
		require.NoError(t, err)
		for _, s := range out.Pix {
			require.Zero(t, s)
		}
	}
}

func TestZeroAlphaRefinesToInitial(t *testing.T) {
	params := DefaultParameters()
	params.Alpha = 0
	p, err := NewPipeline(params)
	require.NoError(t, err)

	_, err = p.Enhance(noisyImage(t, 9, 9, 12))
	require.NoError(t, err)
	d, err := p.Diagnostics()
	require.NoError(t, err)
	require.InDeltaSlice(t, d.Initial.Pix, d.Refined.Pix, 1e-12)
}

func TestUnitGammaKeepsRefinedMap(t *testing.T) {
	params := DefaultParameters()
	params.Gamma = 1
	p, err := NewPipeline(params)
	require.NoError(t, err)

	_, err = p.Enhance(noisyImage(t, 9, 9, 13))
	require.NoError(t, err)
	d, err := p.Diagnostics()
	require.NoError(t, err)
	require.InDeltaSlice(t, d.Refined.Pix, d.Corrected.Pix, 1e-12)
}

// The output is the input divided by T^gamma, so a larger gamma lowers the
// corrected map and therefore raises the output. See DESIGN.md.
func TestGammaOrdering(t *testing.T) {
	img := noisyImage(t, 20, 20, 14)
	run := func(gamma float64) (*Image, *Plane) {
		params := DefaultParameters()
		params.Gamma = gamma
		p, err := NewPipeline(params)
		require.NoError(t, err)
		out, err := p.Enhance(img)
		require.NoError(t, err)
		m, err := p.Illumination()
		require.NoError(t, err)
		return out, m
	}

	lowOut, lowMap := run(0.6)
	highOut, highMap := run(1.5)

	require.LessOrEqual(t, highMap.Mean(), lowMap.Mean())
	require.GreaterOrEqual(t, meanSample(highOut), meanSample(lowOut))
}

func TestEnhanceIsNotIdempotent(t *testing.T) {
	img := noisyImage(t, 16, 16, 15)
	p, err := NewPipeline(DefaultParameters())
	require.NoError(t, err)

	once, err := p.Enhance(img)
	require.NoError(t, err)
	twice, err := p.Enhance(once)
	require.NoError(t, err)

	require.NotEqual(t, once.Pix, twice.Pix)
	require.Greater(t, meanSample(twice), meanSample(once))
}

func TestDiagnosticsBeforeEnhance(t *testing.T) {
	p, err := NewPipeline(DefaultParameters())
	require.NoError(t, err)

	_, err = p.Diagnostics()
	require.ErrorIs(t, err, ErrNoDiagnostics)
	_, err = p.Channel(0)
	require.ErrorIs(t, err, ErrNoDiagnostics)
	_, err = p.Illumination()
	require.ErrorIs(t, err, ErrNoDiagnostics)
	_, err = p.Output()
	require.ErrorIs(t, err, ErrNoDiagnostics)
}

func TestDiagnosticsAreCopies(t *testing.T) {
	img, err := ImageFromBuffer(1, 2, 3, []uint8{10, 20, 30, 40, 50, 60})
	require.NoError(t, err)
	p, err := NewPipeline(DefaultParameters())
	require.NoError(t, err)
	out, err := p.Enhance(img)
	require.NoError(t, err)

	green, err := p.Channel(1)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{20.0 / 255, 50.0 / 255}, green.Pix, 1e-12)
	green.Pix[0] = 1

	again, err := p.Channel(1)
	require.NoError(t, err)
	require.InDelta(t, 20.0/255, again.Pix[0], 1e-12)

	got, err := p.Output()
	require.NoError(t, err)
	require.Equal(t, out.Pix, got.Pix)
	got.Pix[0] = 0
	out.Pix[1] = 0
	got, err = p.Output()
	require.NoError(t, err)
	require.NotZero(t, got.Pix[0])
	require.NotZero(t, got.Pix[1])

	d, err := p.Diagnostics()
	require.NoError(t, err)
	d.Corrected.Pix[0] = -1
	m, err := p.Illumination()
	require.NoError(t, err)
	require.GreaterOrEqual(t, m.Pix[0], 0.0)

	_, err = p.Channel(3)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDiagnosticsFollowLatestCall(t *testing.T) {
	p, err := NewPipeline(DefaultParameters())
	require.NoError(t, err)

	_, err = p.Enhance(uniformImage(t, 3, 3, 40))
	require.NoError(t, err)
	first, err := p.Illumination()
	require.NoError(t, err)

	_, err = p.Enhance(uniformImage(t, 3, 3, 90))
	require.NoError(t, err)
	second, err := p.Illumination()
	require.NoError(t, err)
	require.NotEqual(t, first.Pix, second.Pix)
}

func TestFailedEnhanceKeepsDiagnostics(t *testing.T) {
	p, err := NewPipeline(DefaultParameters())
	require.NoError(t, err)
	out, err := p.Enhance(noisyImage(t, 5, 5, 16))
	require.NoError(t, err)

	_, err = p.Enhance(&Image{Width: 2, Height: 2, Pix: make([]uint8, 3)})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = p.Enhance(nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	kept, err := p.Output()
	require.NoError(t, err)
	require.Equal(t, out.Pix, kept.Pix)
}

func TestEstimateIlluminationFilteredIgnoresMode(t *testing.T) {
	img := noisyImage(t, 10, 10, 17)
	params := DefaultParameters()
	params.Mode = ModeOptimization

	got, err := EstimateIlluminationFiltered(img, params)
	require.NoError(t, err)

	initial, err := EstimateIllumination(img)
	require.NoError(t, err)
	want, err := (&FilterRefiner{Alpha: params.Alpha, Radius: params.Radius, Epsilon: params.Epsilon}).Refine(initial, img)
	require.NoError(t, err)
	require.Equal(t, want.Pix, got.Pix)

	params.Radius = 0
	_, err = EstimateIlluminationFiltered(img, params)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSeparatePipelinesRunConcurrently(t *testing.T) {
	img := noisyImage(t, 24, 24, 18)
	want, err := Enhance(img, DefaultParameters())
	require.NoError(t, err)

	results := make([]*Image, 8)
	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			p, err := NewPipeline(DefaultParameters())
			if err != nil {
				return err
			}
			results[i], err = p.Enhance(img)
			return err
		})
	}
	require.NoError(t, g.Wait())
	for _, got := range results {
		require.Equal(t, want.Pix, got.Pix)
	}
}

func BenchmarkEnhance(b *testing.B) {
	img := noisyImage(b, 256, 256, 19)
	for _, mode := range []RefineMode{ModeOptimization, ModeFilter} {
		b.Run(string(mode), func(b *testing.B) {
			params := DefaultParameters()
			params.Mode = mode
			params.Workers = 0
			p, err := NewPipeline(params)
			require.NoError(b, err)
			for b.Loop() {
				if _, err := p.Enhance(img); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
