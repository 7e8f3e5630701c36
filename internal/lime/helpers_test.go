package lime

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeImage(t testing.TB, w, h int, fn func(x, y int) (r, g, b uint8)) *Image {
	t.Helper()
	img, err := NewImage(w, h)
	require.NoError(t, err)
	for y := range h {
		for x := range w {
			r, g, b := fn(x, y)
			img.SetRGB(x, y, r, g, b)
		}
	}
	return img
}

func uniformImage(t testing.TB, w, h int, v uint8) *Image {
	return makeImage(t, w, h, func(int, int) (uint8, uint8, uint8) { return v, v, v })
}

// noisyImage is a dim scene: a horizontal ramp with per-channel noise.
func noisyImage(t testing.TB, w, h int, seed uint64) *Image {
	rng := rand.New(rand.NewPCG(seed, seed))
	return makeImage(t, w, h, func(x, y int) (uint8, uint8, uint8) {
		base := 20 + 40*x/max(1, w-1)
		n := func() uint8 { return uint8(base + rng.IntN(12)) }
		return n(), n(), n()
	})
}

func planeFrom(w, h int, pix ...float64) *Plane {
	return &Plane{Width: w, Height: h, Pix: pix}
}
