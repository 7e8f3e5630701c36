package imageio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/mauserzjeh/dxt"
	"golang.org/x/image/draw"
)

const (
	ddsMagic      = "DDS "
	ddsHeaderSize = 124
	ddsPfOffset   = 72
	ddsDataOffset = 4 + ddsHeaderSize

	ddsdCaps        = 0x1
	ddsdHeight      = 0x2
	ddsdWidth       = 0x4
	ddsdPitch       = 0x8
	ddsdPixelFormat = 0x1000

	ddpfAlphaPixels = 0x1
	ddpfFourCC      = 0x4
	ddpfRGB         = 0x40

	ddsCapsTexture = 0x1000
)

// DecodeDDS parses a DirectDraw Surface. DXT1, DXT3, DXT5 and uncompressed
// 24/32-bit BGR(A) surfaces are supported; only the top mip level is read.
func DecodeDDS(raw []byte) (image.Image, error) {
	if len(raw) < ddsDataOffset {
		return nil, fmt.Errorf("dds: %d bytes is too short for a header", len(raw))
	}
	if string(raw[:4]) != ddsMagic {
		return nil, errors.New("dds: missing magic")
	}
	hdr := raw[4:ddsDataOffset]
	height := binary.LittleEndian.Uint32(hdr[8:12])
	width := binary.LittleEndian.Uint32(hdr[12:16])
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("dds: empty surface %dx%d", width, height)
	}

	pf := hdr[ddsPfOffset : ddsPfOffset+32]
	flags := binary.LittleEndian.Uint32(pf[4:8])
	fourCC := string(pf[8:12])
	bits := binary.LittleEndian.Uint32(pf[12:16])
	data := raw[ddsDataOffset:]

	var (
		pix []byte
		err error
	)
	switch {
	case flags&ddpfFourCC != 0 && fourCC == "DXT1":
		pix, err = dxt.DecodeDXT1(data, uint(width), uint(height))
	case flags&ddpfFourCC != 0 && fourCC == "DXT3":
		pix, err = dxt.DecodeDXT3(data, uint(width), uint(height))
	case flags&ddpfFourCC != 0 && fourCC == "DXT5":
		pix, err = dxt.DecodeDXT5(data, uint(width), uint(height))
	case flags&ddpfRGB != 0 && (bits == 24 || bits == 32):
		pix, err = decodeBGR(data, int(width), int(height), int(bits/8))
	default:
		return nil, fmt.Errorf("dds: unsupported pixel format %q with %d bits", fourCC, bits)
	}
	if err != nil {
		return nil, fmt.Errorf("dds: %w", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(width), int(height)))
	if len(pix) != len(img.Pix) {
		return nil, fmt.Errorf("dds: decoded %d bytes, want %d", len(pix), len(img.Pix))
	}
	copy(img.Pix, pix)
	return img, nil
}

func decodeBGR(data []byte, width, height, bpp int) ([]byte, error) {
	if len(data) < width*height*bpp {
		return nil, fmt.Errorf("surface needs %d bytes, have %d", width*height*bpp, len(data))
	}
	out := make([]byte, width*height*4)
	for i := range width * height {
		src := data[i*bpp:]
		dst := out[i*4:]
		dst[0], dst[1], dst[2], dst[3] = src[2], src[1], src[0], 255
		if bpp == 4 {
			dst[3] = src[3]
		}
	}
	return out, nil
}

// EncodeDDS writes img as an uncompressed 32-bit BGRA surface without mips.
func EncodeDDS(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return errors.New("dds: empty image")
	}
	src := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)

	var hdr [ddsDataOffset]byte
	copy(hdr[:4], ddsMagic)
	put := func(off int, v uint32) {
		binary.LittleEndian.PutUint32(hdr[4+off:], v)
	}
	put(0, ddsHeaderSize)
	put(4, ddsdCaps|ddsdHeight|ddsdWidth|ddsdPitch|ddsdPixelFormat)
	put(8, uint32(b.Dy()))
	put(12, uint32(b.Dx()))
	put(16, uint32(b.Dx()*4))
	put(ddsPfOffset, 32)
	put(ddsPfOffset+4, ddpfRGB|ddpfAlphaPixels)
	put(ddsPfOffset+12, 32)
	put(ddsPfOffset+16, 0x00FF0000)
	put(ddsPfOffset+20, 0x0000FF00)
	put(ddsPfOffset+24, 0x000000FF)
	put(ddsPfOffset+28, 0xFF000000)
	put(104, ddsCapsTexture)

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	row := make([]byte, b.Dx()*4)
	for y := 0; y < b.Dy(); y++ {
		line := src.Pix[y*src.Stride : y*src.Stride+len(row)]
		for x := 0; x < len(row); x += 4 {
			row[x], row[x+1], row[x+2], row[x+3] = line[x+2], line[x+1], line[x], line[x+3]
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
