// Package sim holds the per-frame simulation state of the carousel scene:
// carousel spin, rider bobbing and the two-mode camera.
package sim

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Intent is the spin input sampled for one frame.
type Intent int

const (
	Hold Intent = iota
	Accelerate
	Decelerate
)

// CarouselParams configures spin dynamics and the model placement transform.
type CarouselParams struct {
	Acceleration float32 // velocity step per Advance
	MaxVelocity  float32
	SpinRate     float32 // degrees per tick per unit of velocity
	Scale        float32 // model units to world units
	Flatten      float32 // degrees about X, turns the Z-up model upright
}

// Carousel owns the spin angle and angular velocity.
type Carousel struct {
	Rotation float32 // degrees, always in [0, 360)
	Velocity float32 // always in [0, MaxVelocity]

	params CarouselParams
}

// NewCarousel creates a stopped carousel.
func NewCarousel(p CarouselParams) *Carousel {
	return &Carousel{params: p}
}

// Advance applies one frame of spin input. The carousel never spins backward
// and never slows down on its own.
func (c *Carousel) Advance(in Intent) {
	switch in {
	case Accelerate:
		c.Velocity += c.params.Acceleration
	case Decelerate:
		c.Velocity -= c.params.Acceleration
	default:
		return
	}
	c.Velocity = clamp(c.Velocity, 0, c.params.MaxVelocity)
}

// Integrate advances the rotation by one fixed tick.
func (c *Carousel) Integrate() {
	c.Rotation = wrapDegrees(c.Rotation + c.Velocity*c.params.SpinRate)
}

// SpeedFraction returns velocity as a fraction of the maximum, in [0, 1].
func (c *Carousel) SpeedFraction() float32 {
	if c.params.MaxVelocity <= 0 {
		return 0
	}
	return c.Velocity / c.params.MaxVelocity
}

// ModelMatrix returns scale * flatten * spin, the transform used to draw the model.
func (c *Carousel) ModelMatrix() mgl32.Mat4 {
	s := c.params.Scale
	return mgl32.Scale3D(s, s, s).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(c.params.Flatten))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(c.Rotation)))
}

// LightMatrix returns the spin about the world vertical axis applied to light anchors.
func (c *Carousel) LightMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(mgl32.DegToRad(c.Rotation))
}

// WorldAnchors returns a fresh slice of anchors rotated by the current spin.
// The input is never modified.
func (c *Carousel) WorldAnchors(local []mgl32.Vec3) []mgl32.Vec3 {
	m := c.LightMatrix()
	out := make([]mgl32.Vec3, len(local))
	for i, a := range local {
		out[i] = m.Mul4x1(a.Vec4(1)).Vec3()
	}
	return out
}

func wrapDegrees(d float32) float32 {
	d = math32.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
