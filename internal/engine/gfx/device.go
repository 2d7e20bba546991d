// Package gfx is the narrow graphics device the scene draws through,
// with an OpenGL implementation and a call recorder for tests.
package gfx

import "github.com/go-gl/mathgl/mgl32"

// Target selects the texture binding point.
type Target int

const (
	Texture2D Target = iota
	TextureCube
)

func (t Target) String() string {
	if t == TextureCube {
		return "cube"
	}
	return "2d"
}

// DepthFunc is the depth comparison mode.
type DepthFunc int

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
)

func (f DepthFunc) String() string {
	if f == DepthLessEqual {
		return "lequal"
	}
	return "less"
}

// Geometry is an uploaded vertex array ready to draw as triangles.
type Geometry struct {
	VAO     uint32
	Count   int32 // index count when Indexed, vertex count otherwise
	Indexed bool
}

// Device is everything the scene needs from the graphics API.
// Uniform setters act on the program bound by the last UseProgram.
// Per-light fields are addressed by name, e.g. "pointLights[3].position".
type Device interface {
	UseProgram(program uint32)
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
	SetMat4(name string, m mgl32.Mat4)
	BindTexture(slot int, target Target, tex uint32)
	Draw(g Geometry)
	SetDepthFunc(f DepthFunc)
}
