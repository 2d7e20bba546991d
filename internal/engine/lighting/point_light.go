// Package lighting uploads the carousel's point lights to shader programs.
package lighting

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carousel-viewer/internal/engine/gfx"
)

// MaxPointLights is the size of the pointLights array declared in the shaders.
// 64 lights of 15 components stay under the 1024 fragment uniform components GL 4.1 guarantees.
const MaxPointLights = 64

// Profile is the color and attenuation shared by every bulb in one pass.
type Profile struct {
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Constant  float32
	Linear    float32
	Quadratic float32
}

// ModelProfile is the warm bulb light cast on the carousel itself.
func ModelProfile() Profile {
	return Profile{
		Ambient:   mgl32.Vec3{0.4, 0.2, 0.1},
		Diffuse:   mgl32.Vec3{1.8, 1.0, 0.6},
		Specular:  mgl32.Vec3{2.0, 1.6, 1.0},
		Constant:  1.0,
		Linear:    0.045,
		Quadratic: 0.0075,
	}
}

// GroundProfile is the same bulb color with a shorter falloff for the ground plane.
func GroundProfile() Profile {
	p := ModelProfile()
	p.Linear = 0.14
	p.Quadratic = 0.07
	return p
}

// Uniform names per light index, built once.
type lightNames struct {
	position, ambient, diffuse, specular, constant, linear, quadratic string
}

var names = func() [MaxPointLights]lightNames {
	var n [MaxPointLights]lightNames
	for i := range n {
		n[i] = lightNames{
			position:  UniformName(i, "position"),
			ambient:   UniformName(i, "ambient"),
			diffuse:   UniformName(i, "diffuse"),
			specular:  UniformName(i, "specular"),
			constant:  UniformName(i, "constant"),
			linear:    UniformName(i, "linear"),
			quadratic: UniformName(i, "quadratic"),
		}
	}
	return n
}()

// UniformName returns the uniform name of field for light i.
func UniformName(i int, field string) string {
	return "pointLights[" + strconv.Itoa(i) + "]." + field
}

// Upload writes every light and numPointLights into the bound program.
// Positions beyond MaxPointLights are ignored. It returns the count uploaded.
func Upload(dev gfx.Device, positions []mgl32.Vec3, p Profile) int {
	n := len(positions)
	if n > MaxPointLights {
		n = MaxPointLights
	}
	for i := 0; i < n; i++ {
		un := &names[i]
		dev.SetVec3(un.position, positions[i])
		dev.SetVec3(un.ambient, p.Ambient)
		dev.SetVec3(un.diffuse, p.Diffuse)
		dev.SetVec3(un.specular, p.Specular)
		dev.SetFloat(un.constant, p.Constant)
		dev.SetFloat(un.linear, p.Linear)
		dev.SetFloat(un.quadratic, p.Quadratic)
	}
	dev.SetInt("numPointLights", int32(n))
	return n
}

// Clamp truncates anchors to MaxPointLights and reports how many were dropped.
func Clamp(anchors []mgl32.Vec3) ([]mgl32.Vec3, int) {
	if len(anchors) <= MaxPointLights {
		return anchors, 0
	}
	return anchors[:MaxPointLights], len(anchors) - MaxPointLights
}
