package gfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded Device call.
type Call struct {
	Op      string // use, int, float, vec3, mat4, bind, draw, depth
	Program uint32 // program bound when the call was made
	Name    string
	Value   any
}

func (c Call) String() string {
	if c.Name != "" {
		return fmt.Sprintf("%s(%d) %s=%v", c.Op, c.Program, c.Name, c.Value)
	}
	return fmt.Sprintf("%s(%d) %v", c.Op, c.Program, c.Value)
}

// Binding is the value recorded for a BindTexture call.
type Binding struct {
	Slot    int
	Target  Target
	Texture uint32
}

// Recorder is a Device that records every call without touching a GPU.
type Recorder struct {
	Calls []Call

	program uint32
}

var _ Device = (*Recorder)(nil)

func (r *Recorder) add(op, name string, v any) {
	r.Calls = append(r.Calls, Call{Op: op, Program: r.program, Name: name, Value: v})
}

func (r *Recorder) UseProgram(program uint32) {
	r.program = program
	r.add("use", "", program)
}

func (r *Recorder) SetInt(name string, v int32) { r.add("int", name, v) }
func (r *Recorder) SetFloat(name string, v float32) { r.add("float", name, v) }
func (r *Recorder) SetVec3(name string, v mgl32.Vec3) { r.add("vec3", name, v) }
func (r *Recorder) SetMat4(name string, m mgl32.Mat4) { r.add("mat4", name, m) }

func (r *Recorder) BindTexture(slot int, target Target, tex uint32) {
	r.add("bind", "", Binding{Slot: slot, Target: target, Texture: tex})
}

func (r *Recorder) Draw(g Geometry) { r.add("draw", "", g) }
func (r *Recorder) SetDepthFunc(f DepthFunc) { r.add("depth", "", f) }

// Filter returns the calls with the given op, in order.
func (r *Recorder) Filter(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Uniform returns the last value set for name while program was bound.
func (r *Recorder) Uniform(program uint32, name string) (any, bool) {
	for i := len(r.Calls) - 1; i >= 0; i-- {
		c := r.Calls[i]
		if c.Program == program && c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// Segment returns the calls made while program was bound, across every UseProgram of it.
func (r *Recorder) Segment(program uint32) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Program == program && c.Op != "use" {
			out = append(out, c)
		}
	}
	return out
}
