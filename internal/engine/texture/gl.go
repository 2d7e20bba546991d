package texture

import (
	"errors"
	"fmt"
	"image"
	"os"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/carousel-viewer/internal/logger"
)

// Wrap is the texture addressing mode.
type Wrap int

const (
	Repeat Wrap = iota
	Clamp
)

// Options controls 2D texture upload.
type Options struct {
	Wrap    Wrap
	Mipmaps bool
	MaxSize int // longest side after downscale; 0 keeps the source size
}

// ModelOptions is used for mesh diffuse and normal maps, and the ground.
func ModelOptions(maxSize int) Options {
	return Options{Wrap: Repeat, Mipmaps: true, MaxSize: maxSize}
}

// DecalOptions is used for the glow overlay.
func DecalOptions() Options {
	return Options{Wrap: Clamp}
}

// CubeFaces are the skybox face file names in GL face order (+X, -X, +Y, -Y, +Z, -Z).
var CubeFaces = [6]string{
	"skybox_right.png",
	"skybox_left.png",
	"skybox_top.png",
	"skybox_bottom.png",
	"skybox_front.png",
	"skybox_back.png",
}

// Load2D reads, decodes and uploads an image file. On error no GL object is created
// and the returned handle is 0, which samples as black.
func Load2D(path string, opts Options) (uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("texture %s: %w", path, err)
	}
	img, err := Decode(data, path)
	if err != nil {
		return 0, fmt.Errorf("texture %s: %w", path, err)
	}
	rgba := ToRGBA(img, opts.MaxSize)
	if len(rgba.Pix) == 0 {
		return 0, fmt.Errorf("texture %s: %w", path, errEmpty)
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	wrap := int32(gl.REPEAT)
	if opts.Wrap == Clamp {
		wrap = gl.CLAMP_TO_EDGE
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	minFilter := int32(gl.LINEAR)
	if opts.Mipmaps {
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	b := rgba.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba.Pix[0]))
	if opts.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	logger.Debug("texture loaded",
		zap.String("path", path),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
		zap.Uint32("id", tex),
	)
	return tex, nil
}

// LoadCubemap uploads six face images. A face that fails to load is logged and left empty;
// the cubemap is still returned. The error reports how many faces were missing.
func LoadCubemap(paths [6]string) (uint32, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, tex)

	missing := 0
	for i, path := range paths {
		rgba, err := readRGBA(path)
		if err != nil {
			logger.Warn("cubemap face failed to load", zap.String("path", path), zap.Error(err))
			missing++
			continue
		}
		b := rgba.Bounds()
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba.Pix[0]))
	}

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	if missing > 0 {
		return tex, fmt.Errorf("cubemap: %d of 6 faces missing", missing)
	}
	return tex, nil
}

// Delete releases textures; zero handles are skipped.
func Delete(textures ...uint32) {
	for _, t := range textures {
		if t != 0 {
			gl.DeleteTextures(1, &t)
		}
	}
}

func readRGBA(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data, path)
	if err != nil {
		return nil, err
	}
	rgba := ToRGBA(img, 0)
	if len(rgba.Pix) == 0 {
		return nil, errEmpty
	}
	return rgba, nil
}

var errEmpty = errors.New("empty image")
