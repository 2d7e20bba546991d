package lighting

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carousel-viewer/internal/engine/gfx"
)

// SunDir is the fixed directional light on the carousel, pointing from the sky down.
var SunDir = mgl32.Vec3{-0.5, -1.0, -0.3}

// UploadSun writes the directional light and the shader clock into the bound program.
func UploadSun(dev gfx.Device, dir mgl32.Vec3, seconds float32) {
	dev.SetVec3("lightDir", dir)
	dev.SetFloat("time", seconds)
}
