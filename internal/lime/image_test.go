package lime

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImageFromBufferRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name                    string
		height, width, channels int
		pix                     []uint8
	}{
		{"four channels", 1, 1, 4, []uint8{1, 2, 3, 4}},
		{"one channel", 1, 2, 1, []uint8{1, 2}},
		{"zero width", 1, 0, 3, nil},
		{"zero height", 0, 1, 3, nil},
		{"short buffer", 2, 2, 3, make([]uint8, 11)},
		{"long buffer", 2, 2, 3, make([]uint8, 13)},
		{"nil buffer", 1, 1, 3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImageFromBuffer(tt.height, tt.width, tt.channels, tt.pix)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestImageFromBufferCopies(t *testing.T) {
	pix := []uint8{1, 2, 3, 4, 5, 6}
	img, err := ImageFromBuffer(1, 2, 3, pix)
	require.NoError(t, err)
	pix[0] = 99

	r, g, b := img.RGB(0, 0)
	require.Equal(t, [3]uint8{1, 2, 3}, [3]uint8{r, g, b})
	r, g, b = img.RGB(1, 0)
	require.Equal(t, [3]uint8{4, 5, 6}, [3]uint8{r, g, b})
}

func TestImageFromStd(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{10, 20, 30, 255})
	src.SetNRGBA(6, 5, color.NRGBA{200, 100, 0, 255})

	img, err := ImageFromStd(src)
	require.NoError(t, err)
	require.Equal(t, 2, img.Width)
	require.Equal(t, 1, img.Height)
	require.Equal(t, []uint8{10, 20, 30, 200, 100, 0}, img.Pix)
	require.Equal(t, color.RGBA{200, 100, 0, 255}, img.At(1, 0))
	require.Equal(t, color.RGBA{}, img.At(2, 0))
}

func TestImageFromStdIgnoresAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{200, 100, 50, 128})
	src.SetNRGBA(1, 0, color.NRGBA{7, 8, 9, 0})

	img, err := ImageFromStd(src)
	require.NoError(t, err)
	require.Equal(t, []uint8{200, 100, 50, 7, 8, 9}, img.Pix)

	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.Pix = []uint8{30, 240}
	img, err = ImageFromStd(gray)
	require.NoError(t, err)
	require.Equal(t, []uint8{30, 30, 30, 240, 240, 240}, img.Pix)
}

func TestImageFromStdRejectsEmpty(t *testing.T) {
	_, err := ImageFromStd(image.NewRGBA(image.Rect(0, 0, 0, 3)))
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = ImageFromStd(nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSplit(t *testing.T) {
	img, err := ImageFromBuffer(1, 2, 3, []uint8{255, 0, 51, 0, 102, 255})
	require.NoError(t, err)

	ch := img.Split()
	require.Equal(t, []float64{1, 0}, ch[0].Pix)
	require.InDeltaSlice(t, []float64{0, 0.4}, ch[1].Pix, 1e-12)
	require.InDeltaSlice(t, []float64{0.2, 1}, ch[2].Pix, 1e-12)

	back := MergePlanes([Channels][]float64{ch[0].Pix, ch[1].Pix, ch[2].Pix}, 2, 1)
	require.Equal(t, img.Pix, back.Pix)
}

func TestPlaneGray(t *testing.T) {
	p := planeFrom(3, 1, 0, 0.5, 1)
	g := p.Gray()
	require.Equal(t, []uint8{0, 128, 255}, g.Pix)
}
