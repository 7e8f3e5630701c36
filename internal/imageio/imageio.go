// Package imageio reads and writes image files, picking the codec from the
// file extension.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dblezek/tga"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// JPEGQuality is used whenever a JPEG is written.
const JPEGQuality = 95

// Extensions lists every extension Load understands, lower case.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".bmp", ".tga", ".dds"}

// Supported reports whether path has an extension Load understands.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Decode reads an image in the format named by ext (".png", ".dds", ...).
// JPEG orientation tags are applied.
func Decode(r io.Reader, ext string) (image.Image, error) {
	switch strings.ToLower(ext) {
	case ".dds":
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read dds: %w", err)
		}
		return DecodeDDS(raw)
	case ".tga":
		img, err := tga.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("decode tga: %w", err)
		}
		return img, nil
	default:
		img, err := imaging.Decode(r, imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", ext, err)
		}
		return img, nil
	}
}

// Encode writes img in the format named by ext.
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".dds":
		return EncodeDDS(w, img)
	case ".tga":
		return tga.Encode(w, img)
	default:
		format, err := imaging.FormatFromExtension(ext)
		if err != nil {
			return fmt.Errorf("encode %q: %w", ext, err)
		}
		return imaging.Encode(w, img, format, imaging.JPEGQuality(JPEGQuality))
	}
}

// Load reads the image at path.
func Load(path string) (image.Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	img, err := Decode(bytes.NewReader(raw), filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return img, nil
}

// Save writes img to path, replacing any existing file.
func Save(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := Encode(&buf, img, filepath.Ext(path)); err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0666)
}

// Shrink scales img down so neither side exceeds maxSide, keeping the aspect
// ratio. Images that already fit, and maxSide <= 0, are returned as is.
func Shrink(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	if maxSide <= 0 || longest <= maxSide {
		return img
	}
	w := max(1, b.Dx()*maxSide/longest)
	h := max(1, b.Dy()*maxSide/longest)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
