package sim

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Mode is the camera state.
type Mode int

const (
	Free Mode = iota
	Mounted
)

func (m Mode) String() string {
	if m == Mounted {
		return "mounted"
	}
	return "free"
}

// Pitch limit in degrees; keeps the view away from the up vector.
const maxPitch = 89

var worldUp = mgl32.Vec3{0, 1, 0}

// CameraParams configures handling and the exclusion cylinder around the carousel.
type CameraParams struct {
	Speed       float32 // units per Move call
	Sensitivity float32 // degrees per mouse unit
	Radius      float32 // exclusion cylinder radius
	MinY        float32
	MaxY        float32
}

// Camera is the free-fly / mounted camera state machine.
type Camera struct {
	Mode     Mode
	Position mgl32.Vec3 // free-mode eye; kept while mounted
	Yaw      float32    // degrees
	Pitch    float32    // degrees, in [-89, 89]
	Rider    int

	params    CameraParams
	skipMouse bool
}

// NewCamera creates a free camera at pos.
func NewCamera(pos mgl32.Vec3, yaw, pitch float32, p CameraParams) *Camera {
	return &Camera{
		Position: pos,
		Yaw:      yaw,
		Pitch:    clamp(pitch, -maxPitch, maxPitch),
		params:   p,
	}
}

// Look applies a mouse delta. Screen Y grows downward, so moving the mouse up raises pitch.
// The first sample after a mode switch is discarded.
func (c *Camera) Look(dx, dy float32) {
	if c.skipMouse {
		c.skipMouse = false
		return
	}
	c.Yaw += dx * c.params.Sensitivity
	c.Pitch = clamp(c.Pitch-dy*c.params.Sensitivity, -maxPitch, maxPitch)
}

// Front returns the unit look direction from yaw and pitch.
func (c *Camera) Front() mgl32.Vec3 {
	return direction(c.Yaw, c.Pitch)
}

// Move translates the free camera along the look direction and its horizontal right vector.
func (c *Camera) Move(forward, back, left, right bool) {
	front := c.Front()
	side := front.Cross(worldUp).Normalize()
	step := c.params.Speed

	if forward {
		c.Position = c.Position.Add(front.Mul(step))
	}
	if back {
		c.Position = c.Position.Sub(front.Mul(step))
	}
	if left {
		c.Position = c.Position.Sub(side.Mul(step))
	}
	if right {
		c.Position = c.Position.Add(side.Mul(step))
	}
}

// Constrain pushes the free camera out of the carousel cylinder and clamps its height.
// A camera exactly on the axis is pushed toward +Z.
func (c *Camera) Constrain() {
	x, z := c.Position.X(), c.Position.Z()
	r := c.params.Radius
	if d := math32.Hypot(x, z); d == 0 {
		x, z = 0, r
	} else if !outside(x, z, r) {
		// Rounding can land an ulp short of r; grow the scale until it does not.
		px, pz := x, z
		for k := r / d; ; k = math32.Nextafter(k, math32.Inf(1)) {
			x, z = px*k, pz*k
			if outside(x, z, r) {
				break
			}
		}
	}
	c.Position = mgl32.Vec3{x, clamp(c.Position.Y(), c.params.MinY, c.params.MaxY), z}
}

// outside reports whether (x, z) is at least r from the vertical axis.
func outside(x, z, r float32) bool {
	return math.Hypot(float64(x), float64(z)) >= float64(r)
}

// ToggleMode switches between free and mounted.
func (c *Camera) ToggleMode() {
	if c.Mode == Free {
		c.Mode = Mounted
	} else {
		c.Mode = Free
	}
	c.skipMouse = true
}

// NextRider cycles the mounted rider. It does nothing in free mode.
func (c *Camera) NextRider(riders int) bool {
	if c.Mode != Mounted || riders <= 0 {
		return false
	}
	c.Rider = (c.Rider + 1) % riders
	return true
}

// Eye returns the camera's world position. Mounted, it is the selected rider's
// mount point carried through the model transform.
func (c *Camera) Eye(car *Carousel, riders *RiderAnimator) mgl32.Vec3 {
	if c.Mode == Free {
		return c.Position
	}
	return car.ModelMatrix().Mul4x1(riders.Anchor(c.Rider).Vec4(1)).Vec3()
}

// LookDir returns the view direction. Mounted, yaw is taken relative to the saddle.
func (c *Camera) LookDir(car *Carousel) mgl32.Vec3 {
	if c.Mode == Free {
		return c.Front()
	}
	return direction(c.Yaw-car.Rotation, c.Pitch)
}

// View returns the view matrix for the current mode.
func (c *Camera) View(car *Carousel, riders *RiderAnimator) mgl32.Mat4 {
	eye := c.Eye(car, riders)
	return mgl32.LookAtV(eye, eye.Add(c.LookDir(car)), worldUp)
}

func direction(yaw, pitch float32) mgl32.Vec3 {
	y, p := mgl32.DegToRad(yaw), mgl32.DegToRad(pitch)
	return mgl32.Vec3{
		math32.Cos(y) * math32.Cos(p),
		math32.Sin(p),
		math32.Sin(y) * math32.Cos(p),
	}.Normalize()
}
