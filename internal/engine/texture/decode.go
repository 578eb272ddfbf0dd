// Package texture decodes image files into tightly packed RGBA8 pixels.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for data no registered decoder accepts.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Image is a decoded RGBA8 image with rows packed top to bottom.
type Image struct {
	Width  int
	Height int
	Pixels []byte
}

// DecodeFile reads and decodes the image at path.
func DecodeFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	img, err := Decode(bytes.NewReader(data), filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes r. ext (".tga", ".png", ...) selects the TGA decoder,
// which has no signature; other formats are sniffed.
func Decode(r io.Reader, ext string) (*Image, error) {
	if strings.EqualFold(ext, ".tga") {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		rgba, err := DecodeTGA(data)
		if err != nil {
			return nil, err
		}
		return fromRGBA(rgba), nil
	}

	src, _, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
		}
		return nil, err
	}
	return fromRGBA(ToRGBA(src)), nil
}

// ToRGBA converts img to a zero-origin *image.RGBA, returning it
// unchanged when it already is one.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func fromRGBA(rgba *image.RGBA) *Image {
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	if rgba.Stride == w*4 {
		return &Image{Width: w, Height: h, Pixels: rgba.Pix[:w*h*4]}
	}
	pix := make([]byte, 0, w*h*4)
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride:]
		pix = append(pix, row[:w*4]...)
	}
	return &Image{Width: w, Height: h, Pixels: pix}
}
