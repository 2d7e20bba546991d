// Package texture decodes images and uploads them as OpenGL textures.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned for data that is not a decodable image.
var ErrUnsupported = errors.New("unsupported image format")

var decodable = map[string]bool{
	"png": true, "jpg": true, "gif": true, "bmp": true, "tif": true, "webp": true,
}

// Decode decodes image data. The format is sniffed from content;
// name is only consulted for TGA, which has no signature.
func Decode(data []byte, name string) (image.Image, error) {
	kind, _ := filetype.Image(data)
	switch {
	case decodable[kind.Extension]:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding %s as %s: %w", name, kind.Extension, err)
		}
		return img, nil
	case strings.EqualFold(filepath.Ext(name), ".tga"):
		return DecodeTGA(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
}

// ToRGBA converts img to tightly packed RGBA, downscaling so neither side exceeds maxSize.
// maxSize <= 0 disables scaling.
func ToRGBA(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	}
	return dst
}
