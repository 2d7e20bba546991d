package debug

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// ReadBackBuffer reads the current back buffer as bottom-up RGBA rows.
func ReadBackBuffer(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
