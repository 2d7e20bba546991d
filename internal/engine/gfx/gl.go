package gfx

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/carousel-viewer/internal/logger"
)

// ClearColor is the background behind the skybox.
var ClearColor = mgl32.Vec4{0.1, 0.1, 0.15, 1.0}

// GL is the OpenGL Device. It must be created and used on the thread that owns the context.
type GL struct {
	program  uint32
	uniforms map[uint32]map[string]int32
	buffers  map[uint32][]uint32 // VAO -> VBO/EBO

	width, height int
}

var _ Device = (*GL)(nil)

// NewGL loads OpenGL entry points and sets the global state the scene relies on.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func NewGL() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])

	return &GL{
		uniforms: make(map[uint32]map[string]int32),
		buffers:  make(map[uint32][]uint32),
	}, nil
}

// Resize updates the viewport to the drawable size.
func (d *GL) Resize(width, height int) {
	if width == d.width && height == d.height {
		return
	}
	d.width, d.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// Begin clears the frame.
func (d *GL) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Forget drops cached uniform locations of a program that was deleted or relinked.
func (d *GL) Forget(program uint32) {
	delete(d.uniforms, program)
	if d.program == program {
		d.program = 0
	}
}

func (d *GL) UseProgram(program uint32) {
	d.program = program
	gl.UseProgram(program)
}

// location returns the cached location of name in the bound program; -1 when inactive.
func (d *GL) location(name string) int32 {
	locs, ok := d.uniforms[d.program]
	if !ok {
		locs = make(map[string]int32)
		d.uniforms[d.program] = locs
	}
	loc, ok := locs[name]
	if !ok {
		loc = gl.GetUniformLocation(d.program, gl.Str(name+"\x00"))
		locs[name] = loc
	}
	return loc
}

func (d *GL) SetInt(name string, v int32) {
	gl.Uniform1i(d.location(name), v)
}

func (d *GL) SetFloat(name string, v float32) {
	gl.Uniform1f(d.location(name), v)
}

func (d *GL) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3fv(d.location(name), 1, &v[0])
}

func (d *GL) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(d.location(name), 1, false, &m[0])
}

func (d *GL) BindTexture(slot int, target Target, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
	gl.BindTexture(glTarget(target), tex)
}

func (d *GL) Draw(g Geometry) {
	gl.BindVertexArray(g.VAO)
	if g.Indexed {
		gl.DrawElements(gl.TRIANGLES, g.Count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, g.Count)
	}
	gl.BindVertexArray(0)
}

func (d *GL) SetDepthFunc(f DepthFunc) {
	if f == DepthLessEqual {
		gl.DepthFunc(gl.LEQUAL)
		return
	}
	gl.DepthFunc(gl.LESS)
}

// Upload creates a VAO over interleaved float vertices. layout lists the component
// count of each attribute, bound to locations 0..n-1. indices may be nil.
func (d *GL) Upload(vertices []float32, layout []int32, indices []uint32) Geometry {
	var stride int32
	for _, n := range layout {
		stride += n
	}
	if stride == 0 || len(vertices) < int(stride) {
		return Geometry{}
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	owned := []uint32{vbo}

	var offset int32
	for i, n := range layout {
		gl.VertexAttribPointerWithOffset(uint32(i), n, gl.FLOAT, false, stride*4, uintptr(offset*4))
		gl.EnableVertexAttribArray(uint32(i))
		offset += n
	}

	g := Geometry{VAO: vao, Count: int32(len(vertices)) / stride}
	if len(indices) > 0 {
		var ebo uint32
		gl.GenBuffers(1, &ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
		owned = append(owned, ebo)
		g.Count = int32(len(indices))
		g.Indexed = true
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	d.buffers[vao] = owned
	logger.Debug("geometry uploaded",
		zap.Uint32("vao", vao),
		zap.Int32("count", g.Count),
		zap.Bool("indexed", g.Indexed),
	)
	return g
}

// Release deletes a geometry created by Upload.
func (d *GL) Release(g Geometry) {
	if g.VAO == 0 {
		return
	}
	if bufs, ok := d.buffers[g.VAO]; ok {
		gl.DeleteBuffers(int32(len(bufs)), &bufs[0])
		delete(d.buffers, g.VAO)
	}
	gl.DeleteVertexArrays(1, &g.VAO)
}

// Close releases all geometry still owned by the device.
func (d *GL) Close() {
	logger.Info("closing graphics device")
	for vao := range d.buffers {
		d.Release(Geometry{VAO: vao})
	}
}

func glTarget(t Target) uint32 {
	if t == TextureCube {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}
