// Package scene turns the simulation state into a frame plan and draws it in four passes.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carousel-viewer/internal/config"
	"github.com/Faultbox/carousel-viewer/internal/sim"
)

// Projection holds the perspective parameters.
type Projection struct {
	FOV  float32 // vertical, degrees
	Near float32
	Far  float32
}

// NewProjection reads the frustum from the graphics settings.
func NewProjection(g config.GraphicsConfig) Projection {
	return Projection{FOV: g.FOV, Near: g.Near, Far: g.Far}
}

// Matrix returns the projection for a viewport aspect ratio.
func (p Projection) Matrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(p.FOV), aspect, p.Near, p.Far)
}

// FramePlan is everything one frame draws with. It is built fresh each frame.
type FramePlan struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Model      mgl32.Mat4 // carousel model matrix before per-rider bob
	Eye        mgl32.Vec3
	Lights     []mgl32.Vec3 // bulb anchors in world space at the current rotation
	Bobs       []float32    // vertical offset per rider slot
	Time       float32      // wall-clock seconds, drives shader animation
}

// BuildPlan snapshots the simulation into a FramePlan.
// anchors are the model-space bulb anchors; they are rotated, not mutated.
func BuildPlan(s *sim.State, anchors []mgl32.Vec3, proj Projection, aspect, seconds float32) FramePlan {
	bobs := make([]float32, s.Riders.Count())
	for i := range bobs {
		bobs[i] = s.Riders.Offset(i)
	}
	return FramePlan{
		View:       s.View(),
		Projection: proj.Matrix(aspect),
		Model:      s.Carousel.ModelMatrix(),
		Eye:        s.Eye(),
		Lights:     s.Carousel.WorldAnchors(anchors),
		Bobs:       bobs,
		Time:       seconds,
	}
}

// MeshModel returns the model matrix of a mesh bound to rider slot (or -1 for none).
func (p *FramePlan) MeshModel(rider int) mgl32.Mat4 {
	if rider < 0 || rider >= len(p.Bobs) {
		return p.Model
	}
	return p.Model.Mul4(mgl32.Translate3D(0, 0, p.Bobs[rider]))
}
