package lime

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Channels is the number of samples per pixel of an Image.
const Channels = 3

// Image is an 8-bit RGB buffer. Pix holds Height rows of Width pixels, each
// pixel being R, G, B in that order, with no padding between rows.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewImage returns a black image of the given size.
func NewImage(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new image %dx%d: %w", width, height, ErrInvalidInput)
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}, nil
}

// ImageFromBuffer copies a dense height x width x channels sample buffer
// into a new Image. Only 3-channel buffers are accepted.
func ImageFromBuffer(height, width, channels int, pix []uint8) (*Image, error) {
	if channels != Channels {
		return nil, fmt.Errorf("image from buffer: %d channels, want %d: %w", channels, Channels, ErrInvalidInput)
	}
	img, err := NewImage(width, height)
	if err != nil {
		return nil, err
	}
	if len(pix) != len(img.Pix) {
		return nil, fmt.Errorf("image from buffer: %d samples, want %d: %w", len(pix), len(img.Pix), ErrInvalidInput)
	}
	copy(img.Pix, pix)
	return img, nil
}

// ImageFromStd converts any image.Image to an Image. Colors are taken
// without alpha premultiplication, then alpha is dropped.
func ImageFromStd(src image.Image) (*Image, error) {
	if src == nil {
		return nil, fmt.Errorf("convert image: nil source: %w", ErrInvalidInput)
	}
	b := src.Bounds()
	out, err := NewImage(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	nrgba, ok := src.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
		b = nrgba.Bounds()
	}

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			si := nrgba.PixOffset(b.Min.X+x, b.Min.Y+y)
			copy(out.Pix[out.offset(x, y):], nrgba.Pix[si:si+Channels])
		}
	}
	return out, nil
}

func (m *Image) validate() error {
	if m == nil || m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("image is empty: %w", ErrInvalidInput)
	}
	if len(m.Pix) != m.Width*m.Height*Channels {
		return fmt.Errorf("image %dx%d has %d samples: %w", m.Width, m.Height, len(m.Pix), ErrInvalidInput)
	}
	return nil
}

func (m *Image) offset(x, y int) int {
	return (y*m.Width + x) * Channels
}

// Clone returns a deep copy of m.
func (m *Image) Clone() *Image {
	pix := make([]uint8, len(m.Pix))
	copy(pix, m.Pix)
	return &Image{Width: m.Width, Height: m.Height, Pix: pix}
}

// RGB returns the samples of the pixel at (x, y).
func (m *Image) RGB(x, y int) (r, g, b uint8) {
	i := m.offset(x, y)
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// SetRGB overwrites the pixel at (x, y).
func (m *Image) SetRGB(x, y int, r, g, b uint8) {
	i := m.offset(x, y)
	m.Pix[i], m.Pix[i+1], m.Pix[i+2] = r, g, b
}

func (m *Image) ColorModel() color.Model { return color.RGBAModel }

func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.Width, m.Height) }

func (m *Image) At(x, y int) color.Color {
	if !image.Pt(x, y).In(m.Bounds()) {
		return color.RGBA{}
	}
	r, g, b := m.RGB(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Split returns one normalized plane per channel, in R, G, B order.
func (m *Image) Split() [Channels]*Plane {
	var out [Channels]*Plane
	for c := range out {
		out[c] = NewPlane(m.Width, m.Height)
	}
	for i := 0; i < m.Width*m.Height; i++ {
		for c := range Channels {
			out[c].Pix[i] = float64(m.Pix[i*Channels+c]) / 255
		}
	}
	return out
}

// MergePlanes is the inverse of Split. Samples are clamped to [0,1] and
// rounded to the nearest 8-bit value.
func MergePlanes(planes [Channels][]float64, width, height int) *Image {
	out := &Image{Width: width, Height: height, Pix: make([]uint8, width*height*Channels)}
	for i := 0; i < width*height; i++ {
		for c := range Channels {
			out.Pix[i*Channels+c] = toSample(planes[c][i])
		}
	}
	return out
}
