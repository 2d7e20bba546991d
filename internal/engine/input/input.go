// Package input turns SDL2 events and keyboard state into one snapshot per frame.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/carousel-viewer/internal/sim"
)

// Action is a bindable viewer command.
type Action int

const (
	Forward Action = iota
	Back
	Left
	Right
	Accelerate
	Decelerate
	ToggleMode
	NextRider
	Screenshot
	ToggleMute
	Quit
	actionCount
)

var actionNames = [actionCount]string{
	"forward", "back", "left", "right",
	"accelerate", "decelerate", "toggle_mode", "next_rider",
	"screenshot", "toggle_mute", "quit",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "unknown"
	}
	return actionNames[a]
}

// Bindings maps each action to a physical key.
type Bindings map[Action]sdl.Scancode

// DefaultBindings: WASD to move, arrows to spin, C for camera mode, Tab for rider,
// F12 for a screenshot, M to mute music and Escape to quit.
func DefaultBindings() Bindings {
	return Bindings{
		Forward:    sdl.SCANCODE_W,
		Back:       sdl.SCANCODE_S,
		Left:       sdl.SCANCODE_A,
		Right:      sdl.SCANCODE_D,
		Accelerate: sdl.SCANCODE_RIGHT,
		Decelerate: sdl.SCANCODE_LEFT,
		ToggleMode: sdl.SCANCODE_C,
		NextRider:  sdl.SCANCODE_TAB,
		Screenshot: sdl.SCANCODE_F12,
		ToggleMute: sdl.SCANCODE_M,
		Quit:       sdl.SCANCODE_ESCAPE,
	}
}

// Frame is the input of one frame: held keys, accumulated mouse motion and window events.
type Frame struct {
	Held          [actionCount]bool
	MouseDX       float32
	MouseDY       float32
	Closed        bool
	Resized       bool
	Width, Height int
}

// Down reports whether the key bound to a is held.
func (f *Frame) Down(a Action) bool {
	if a < 0 || a >= actionCount {
		return false
	}
	return f.Held[a]
}

// Levels returns the held state of each listed action.
func (f *Frame) Levels(actions ...Action) map[Action]bool {
	out := make(map[Action]bool, len(actions))
	for _, a := range actions {
		out[a] = f.Down(a)
	}
	return out
}

// Controls converts the frame to the simulation's input.
func (f *Frame) Controls() sim.Controls {
	return sim.Controls{
		Forward:    f.Held[Forward],
		Back:       f.Held[Back],
		Left:       f.Held[Left],
		Right:      f.Held[Right],
		Accelerate: f.Held[Accelerate],
		Decelerate: f.Held[Decelerate],
		ToggleMode: f.Held[ToggleMode],
		NextRider:  f.Held[NextRider],
		MouseDX:    f.MouseDX,
		MouseDY:    f.MouseDY,
	}
}

// Input polls SDL once per frame.
type Input struct {
	bindings Bindings
	frame    Frame
}

// New creates an input poller with the given bindings, or the defaults when nil.
func New(b Bindings) *Input {
	if b == nil {
		b = DefaultBindings()
	}
	return &Input{bindings: b}
}

// Update drains the SDL event queue and samples the keyboard.
// Mouse motion is summed over every event since the previous Update.
func (i *Input) Update() *Frame {
	f := &i.frame
	*f = Frame{}

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			f.Closed = true
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED || e.Event == sdl.WINDOWEVENT_RESIZED {
				f.Resized = true
				f.Width, f.Height = int(e.Data1), int(e.Data2)
			}
		case *sdl.MouseMotionEvent:
			f.MouseDX += float32(e.XRel)
			f.MouseDY += float32(e.YRel)
		}
	}

	sample(f, sdl.GetKeyboardState(), i.bindings)
	return f
}

// sample fills Held from a keyboard state array indexed by scancode.
func sample(f *Frame, keys []uint8, b Bindings) {
	for a, sc := range b {
		if a < 0 || a >= actionCount {
			continue
		}
		f.Held[a] = int(sc) < len(keys) && keys[sc] != 0
	}
}
