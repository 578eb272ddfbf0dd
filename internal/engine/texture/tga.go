package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("tga: pixel data truncated")

type tgaHeader struct {
	idLength    int
	colorMap    byte
	imageType   byte
	width       int
	height      int
	bytesPerPix int
	topDown     bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, errors.New("tga: header too short")
	}
	h := tgaHeader{
		idLength:    int(data[0]),
		colorMap:    data[1],
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		bytesPerPix: int(data[16]) / 8,
		topDown:     data[17]&0x20 != 0,
	}
	switch {
	case h.colorMap != 0:
		return h, errors.New("tga: color-mapped images are not supported")
	case h.imageType != tgaTrueColor && h.imageType != tgaTrueColorRLE:
		return h, fmt.Errorf("tga: unsupported image type %d", h.imageType)
	case h.bytesPerPix != 3 && h.bytesPerPix != 4:
		return h, fmt.Errorf("tga: unsupported bit depth %d", data[16])
	case h.width == 0 || h.height == 0:
		return h, errors.New("tga: empty image")
	}
	return h, nil
}

// DecodeTGA decodes uncompressed or RLE true-color TGA data (24 or 32 bpp).
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	w := tgaWriter{img: img, h: h}
	src := data[offset:]

	if h.imageType == tgaTrueColor {
		if len(src) < h.width*h.height*h.bytesPerPix {
			return nil, errTGATruncated
		}
		for !w.done() {
			w.put(src[:h.bytesPerPix])
			src = src[h.bytesPerPix:]
		}
		return img, nil
	}

	for !w.done() {
		if len(src) == 0 {
			return nil, errTGATruncated
		}
		packet := src[0]
		src = src[1:]
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			if len(src) < h.bytesPerPix {
				return nil, errTGATruncated
			}
			for i := 0; i < count && !w.done(); i++ {
				w.put(src[:h.bytesPerPix])
			}
			src = src[h.bytesPerPix:]
			continue
		}

		for i := 0; i < count && !w.done(); i++ {
			if len(src) < h.bytesPerPix {
				return nil, errTGATruncated
			}
			w.put(src[:h.bytesPerPix])
			src = src[h.bytesPerPix:]
		}
	}
	return img, nil
}

// tgaWriter stores BGR(A) pixels in file order, flipping rows for
// bottom-up images.
type tgaWriter struct {
	img *image.RGBA
	h   tgaHeader
	n   int
}

func (w *tgaWriter) done() bool {
	return w.n >= w.h.width*w.h.height
}

func (w *tgaWriter) put(bgra []byte) {
	x, y := w.n%w.h.width, w.n/w.h.width
	if !w.h.topDown {
		y = w.h.height - 1 - y
	}
	i := w.img.PixOffset(x, y)
	w.img.Pix[i+0] = bgra[2]
	w.img.Pix[i+1] = bgra[1]
	w.img.Pix[i+2] = bgra[0]
	w.img.Pix[i+3] = 0xff
	if len(bgra) == 4 {
		w.img.Pix[i+3] = bgra[3]
	}
	w.n++
}
