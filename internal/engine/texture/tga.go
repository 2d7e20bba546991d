package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types supported by DecodeTGA.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

const tgaHeaderSize = 18

// DecodeTGA decodes uncompressed or RLE true-color TGA images (24 or 32 bpp).
// TGA has no magic number, so it is picked by file extension rather than sniffed.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, errors.New("tga: data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, errors.New("tga: color-mapped images not supported")
	}
	if imageType != tgaTrueColor && imageType != tgaTrueColorRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, errors.New("tga: data truncated")
	}
	pix := data[offset:]
	stride := bpp / 8

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	total := width * height
	put := func(n int, c color.RGBA) {
		x, y := n%width, n/width
		if !topToBottom {
			y = height - 1 - y
		}
		img.SetRGBA(x, y, c)
	}

	if imageType == tgaTrueColor {
		if len(pix) < total*stride {
			return nil, errors.New("tga: pixel data truncated")
		}
		for n := 0; n < total; n++ {
			put(n, bgra(pix[n*stride:], stride))
		}
		return img, nil
	}

	n, i := 0, 0
	for n < total && i < len(pix) {
		header := pix[i]
		i++
		count := int(header&0x7F) + 1

		if header&0x80 != 0 {
			if i+stride > len(pix) {
				break
			}
			c := bgra(pix[i:], stride)
			i += stride
			for ; count > 0 && n < total; count-- {
				put(n, c)
				n++
			}
			continue
		}

		for ; count > 0 && n < total && i+stride <= len(pix); count-- {
			put(n, bgra(pix[i:], stride))
			i += stride
			n++
		}
	}
	return img, nil
}

func bgra(p []byte, stride int) color.RGBA {
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if stride == 4 {
		c.A = p[3]
	}
	return c
}
