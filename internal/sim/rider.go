package sim

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// RiderSlot binds a model mesh to a rider.
type RiderSlot struct {
	Mesh   int
	Offset mgl32.Vec3 // mount point in model space, Z up
	Phase  float32    // radians
}

// RiderAnimator computes the vertical bob of each rider.
// Time advances by a fixed step per tick, so bob speed follows the frame rate.
type RiderAnimator struct {
	Amplitude float32
	Step      float32
	Time      float32

	slots []RiderSlot
}

// NewRiderAnimator creates an animator at time zero.
func NewRiderAnimator(amplitude, step float32, slots []RiderSlot) *RiderAnimator {
	return &RiderAnimator{
		Amplitude: amplitude,
		Step:      step,
		slots:     slots,
	}
}

// Count returns the number of riders.
func (a *RiderAnimator) Count() int {
	return len(a.slots)
}

// Tick advances the animation clock by one step.
func (a *RiderAnimator) Tick() {
	a.Time += a.Step
}

// Offset returns rider i's current bob.
func (a *RiderAnimator) Offset(i int) float32 {
	return a.OffsetAt(i, a.Time)
}

// OffsetAt returns rider i's bob at time t.
func (a *RiderAnimator) OffsetAt(i int, t float32) float32 {
	return math32.Sin(t+a.slots[i].Phase) * a.Amplitude
}

// Anchor returns rider i's mount point in model space including the current bob.
func (a *RiderAnimator) Anchor(i int) mgl32.Vec3 {
	p := a.slots[i].Offset
	p[2] += a.Offset(i)
	return p
}
