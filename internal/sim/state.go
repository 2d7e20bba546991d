package sim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carousel-viewer/internal/config"
	"github.com/Faultbox/carousel-viewer/pkg/edge"
)

// Controls is one frame's input snapshot: key levels and the mouse delta since the last poll.
type Controls struct {
	Forward, Back, Left, Right bool
	Accelerate, Decelerate     bool
	ToggleMode, NextRider      bool
	MouseDX, MouseDY           float32
}

// Intent maps the spin keys to an Intent. Accelerate wins when both are held.
func (c Controls) Intent() Intent {
	switch {
	case c.Accelerate:
		return Accelerate
	case c.Decelerate:
		return Decelerate
	default:
		return Hold
	}
}

// Changes reports discrete state transitions made by one Step.
type Changes struct {
	Mode  bool
	Rider bool
}

// Any reports whether anything changed.
func (c Changes) Any() bool {
	return c.Mode || c.Rider
}

// trigger names a debounced simulation key.
type trigger int

const (
	triggerMode trigger = iota
	triggerRider
)

// State is the whole simulation, owned and mutated by the frame loop only.
type State struct {
	Carousel *Carousel
	Riders   *RiderAnimator
	Camera   *Camera

	triggers *edge.Set[trigger]
}

// New assembles a State from its parts.
func New(car *Carousel, riders *RiderAnimator, cam *Camera) *State {
	return &State{
		Carousel: car,
		Riders:   riders,
		Camera:   cam,
		triggers: edge.NewSet(triggerMode, triggerRider),
	}
}

// FromConfig builds the initial simulation from configuration.
func FromConfig(cfg *config.Config) *State {
	slots := make([]RiderSlot, len(cfg.Riders.Slots))
	for i, s := range cfg.Riders.Slots {
		slots[i] = RiderSlot{Mesh: s.Mesh, Offset: mgl32.Vec3(s.Offset), Phase: s.Phase}
	}

	car := NewCarousel(CarouselParams{
		Acceleration: cfg.Carousel.Acceleration,
		MaxVelocity:  cfg.Carousel.MaxVelocity,
		SpinRate:     cfg.Carousel.SpinRate,
		Scale:        cfg.Carousel.ModelScale,
		Flatten:      cfg.Carousel.FlattenDegree,
	})
	riders := NewRiderAnimator(cfg.Riders.Amplitude, cfg.Riders.ClockStep, slots)
	cam := NewCamera(mgl32.Vec3(cfg.Camera.Position), cfg.Camera.Yaw, cfg.Camera.Pitch, CameraParams{
		Speed:       cfg.Camera.Speed,
		Sensitivity: cfg.Camera.Sensitivity,
		Radius:      cfg.Carousel.Radius,
		MinY:        cfg.Carousel.MinCameraY,
		MaxY:        cfg.Carousel.Height,
	})
	return New(car, riders, cam)
}

// Step advances the simulation by one frame.
func (s *State) Step(in Controls) Changes {
	var ch Changes

	s.Camera.Look(in.MouseDX, in.MouseDY)

	fired := s.triggers.Update(map[trigger]bool{
		triggerMode:  in.ToggleMode,
		triggerRider: in.NextRider,
	})
	if fired[triggerMode] {
		s.Camera.ToggleMode()
		ch.Mode = true
	}
	if fired[triggerRider] {
		ch.Rider = s.Camera.NextRider(s.Riders.Count())
	}

	if s.Camera.Mode == Free {
		s.Camera.Move(in.Forward, in.Back, in.Left, in.Right)
		s.Camera.Constrain()
	}

	s.Carousel.Advance(in.Intent())
	s.Carousel.Integrate()
	s.Riders.Tick()

	return ch
}

// Eye returns the current camera world position.
func (s *State) Eye() mgl32.Vec3 {
	return s.Camera.Eye(s.Carousel, s.Riders)
}

// View returns the current view matrix.
func (s *State) View() mgl32.Mat4 {
	return s.Camera.View(s.Carousel, s.Riders)
}
