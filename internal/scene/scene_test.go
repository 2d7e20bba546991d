package scene

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/carousel-viewer/internal/config"
	"github.com/Faultbox/carousel-viewer/internal/engine/gfx"
	"github.com/Faultbox/carousel-viewer/internal/engine/lighting"
	"github.com/Faultbox/carousel-viewer/internal/engine/shader"
	"github.com/Faultbox/carousel-viewer/internal/model"
	"github.com/Faultbox/carousel-viewer/internal/sim"
)

var testPrograms = Programs{Carousel: 1, Ground: 2, Glow: 3, Skybox: 4}

func testResources() Resources {
	return Resources{
		Meshes: []*model.Mesh{
			{Name: "horse_a", Rider: 0, Geometry: gfx.Geometry{VAO: 10, Count: 3, Indexed: true}, DiffuseTex: 100, NormalTex: 101},
			{Name: "horse_b", Rider: 1, Geometry: gfx.Geometry{VAO: 11, Count: 3, Indexed: true}, DiffuseTex: 100},
			{Name: "bulb_ring", Rider: -1, Emissive: true, Geometry: gfx.Geometry{VAO: 12, Count: 6, Indexed: true}},
			{Name: "empty", Rider: -1},
		},
		Ground:    gfx.Geometry{VAO: 20, Count: 6, Indexed: true},
		Glow:      gfx.Geometry{VAO: 21, Count: 6, Indexed: true},
		Sky:       gfx.Geometry{VAO: 22, Count: 36},
		GroundTex: 200,
		GlowTex:   201,
		SkyTex:    202,
	}
}

func testProjection() Projection {
	return NewProjection(config.Default().Graphics)
}

func testState() *sim.State {
	return sim.FromConfig(config.Default())
}

func render(t *testing.T, p FramePlan) *gfx.Recorder {
	t.Helper()
	rec := &gfx.Recorder{}
	NewRenderer(rec, testPrograms, testResources()).Render(&p)
	return rec
}

func TestBuildPlan(t *testing.T) {
	s := testState()
	s.Carousel.Rotation = 90
	for i := 0; i < 10; i++ {
		s.Riders.Tick()
	}

	anchors := []mgl32.Vec3{{1, 0, 0}}
	p := BuildPlan(s, anchors, testProjection(), 800.0/600.0, 3.5)

	assert.Equal(t, s.View(), p.View)
	assert.Equal(t, s.Eye(), p.Eye)
	assert.Equal(t, s.Carousel.ModelMatrix(), p.Model)
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(45), 800.0/600.0, 0.1, 100), p.Projection)
	assert.Equal(t, float32(3.5), p.Time)

	require.Len(t, p.Bobs, 2)
	assert.InDelta(t, s.Riders.Offset(0), p.Bobs[0], 1e-6)
	assert.InDelta(t, -p.Bobs[0], p.Bobs[1], 1e-5)

	require.Len(t, p.Lights, 1)
	assert.InDelta(t, 0, p.Lights[0].X(), 1e-5)
	assert.InDelta(t, -1, p.Lights[0].Z(), 1e-5)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, anchors[0], "local anchors are not mutated")
}

func TestBuildPlanRecomputesLights(t *testing.T) {
	s := testState()
	anchors := []mgl32.Vec3{{1, 0, 0}}

	first := BuildPlan(s, anchors, testProjection(), 1, 0)
	s.Carousel.Rotation = 180
	second := BuildPlan(s, anchors, testProjection(), 1, 0)

	assert.InDelta(t, 1, first.Lights[0].X(), 1e-5)
	assert.InDelta(t, -1, second.Lights[0].X(), 1e-5)
}

func TestProjectionZeroAspect(t *testing.T) {
	assert.Equal(t, testProjection().Matrix(1), testProjection().Matrix(0))
}

func TestMeshModel(t *testing.T) {
	p := FramePlan{Model: mgl32.Ident4(), Bobs: []float32{2, -2}}

	assert.Equal(t, mgl32.Ident4(), p.MeshModel(-1))
	assert.Equal(t, mgl32.Ident4(), p.MeshModel(5))
	assert.Equal(t, mgl32.Translate3D(0, 0, -2), p.MeshModel(1))
}

func TestRenderPassOrder(t *testing.T) {
	rec := render(t, BuildPlan(testState(), nil, testProjection(), 1, 0))

	var programs []uint32
	for _, c := range rec.Filter("use") {
		programs = append(programs, c.Value.(uint32))
	}
	assert.Equal(t, []uint32{1, 2, 3, 4}, programs)

	var vaos []uint32
	for _, c := range rec.Filter("draw") {
		vaos = append(vaos, c.Value.(gfx.Geometry).VAO)
	}
	assert.Equal(t, []uint32{10, 11, 12, 20, 21, 22}, vaos, "meshes without geometry are skipped")
}

func TestRenderDepthFunc(t *testing.T) {
	rec := render(t, BuildPlan(testState(), nil, testProjection(), 1, 0))

	var depth []gfx.DepthFunc
	for _, c := range rec.Filter("depth") {
		depth = append(depth, c.Value.(gfx.DepthFunc))
	}
	assert.Equal(t, []gfx.DepthFunc{gfx.DepthLess, gfx.DepthLessEqual, gfx.DepthLess}, depth)

	// LEQUAL is set before the sky draw and LESS restored after it.
	var sawLequal, drewSky bool
	for _, c := range rec.Calls {
		switch {
		case c.Op == "depth" && c.Value == gfx.DepthLessEqual:
			sawLequal = true
		case c.Op == "draw" && c.Value.(gfx.Geometry).VAO == 22:
			assert.True(t, sawLequal)
			drewSky = true
		case c.Op == "depth" && c.Value == gfx.DepthLess && drewSky:
			return
		}
	}
	t.Fatal("depth function not restored after skybox")
}

func TestRenderEachPassSetsCamera(t *testing.T) {
	s := testState()
	p := BuildPlan(s, nil, testProjection(), 1, 0)
	rec := render(t, p)

	for _, prog := range []uint32{1, 2, 3} {
		v, ok := rec.Uniform(prog, "view")
		require.True(t, ok, "program %d", prog)
		assert.Equal(t, p.View, v)
		proj, ok := rec.Uniform(prog, "projection")
		require.True(t, ok)
		assert.Equal(t, p.Projection, proj)
	}

	sky, ok := rec.Uniform(4, "view")
	require.True(t, ok)
	m := sky.(mgl32.Mat4)
	assert.Equal(t, mgl32.Vec3{}, m.Col(3).Vec3(), "skybox view has no translation")
	assert.Equal(t, p.View.Mat3(), m.Mat3())
}

func TestRenderModelPass(t *testing.T) {
	s := testState()
	s.Riders.Tick()
	p := BuildPlan(s, []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}}, testProjection(), 1, 2)
	rec := render(t, p)

	seg := rec.Segment(1)
	var models []mgl32.Mat4
	var bulb []int32
	var binds []gfx.Binding
	for _, c := range seg {
		switch {
		case c.Op == "mat4" && c.Name == "model":
			models = append(models, c.Value.(mgl32.Mat4))
		case c.Op == "int" && c.Name == "forceBulbColor":
			bulb = append(bulb, c.Value.(int32))
		case c.Op == "bind":
			binds = append(binds, c.Value.(gfx.Binding))
		}
	}

	require.Len(t, models, 3)
	assert.Equal(t, p.MeshModel(0), models[0])
	assert.Equal(t, p.MeshModel(1), models[1])
	assert.Equal(t, p.Model, models[2])
	assert.Equal(t, []int32{0, 0, 1}, bulb)

	assert.Equal(t, []gfx.Binding{
		{Slot: 0, Target: gfx.Texture2D, Texture: 100},
		{Slot: 1, Target: gfx.Texture2D, Texture: 101},
		{Slot: 0, Target: gfx.Texture2D, Texture: 100},
		{Slot: 1, Target: gfx.Texture2D, Texture: 0},
		{Slot: 0, Target: gfx.Texture2D, Texture: 0},
		{Slot: 1, Target: gfx.Texture2D, Texture: 0},
	}, binds)

	n, _ := rec.Uniform(1, "numPointLights")
	assert.Equal(t, int32(2), n)
	pos, _ := rec.Uniform(1, lighting.UniformName(1, "position"))
	assert.Equal(t, p.Lights[1], pos)
	lin, _ := rec.Uniform(1, lighting.UniformName(0, "linear"))
	assert.Equal(t, float32(0.045), lin)

	eye, _ := rec.Uniform(1, "viewPos")
	assert.Equal(t, p.Eye, eye)
	tm, _ := rec.Uniform(1, "time")
	assert.Equal(t, float32(2), tm)
	dir, _ := rec.Uniform(1, "lightDir")
	assert.Equal(t, lighting.SunDir, dir)
	dm, _ := rec.Uniform(1, "diffuseMap")
	assert.Equal(t, int32(0), dm)
	nm, _ := rec.Uniform(1, "normalMap")
	assert.Equal(t, int32(1), nm)
}

func TestRenderGroundPass(t *testing.T) {
	p := BuildPlan(testState(), []mgl32.Vec3{{1, 0, 0}}, testProjection(), 1, 0)
	rec := render(t, p)

	lin, _ := rec.Uniform(2, lighting.UniformName(0, "linear"))
	assert.Equal(t, float32(0.14), lin)
	quad, _ := rec.Uniform(2, lighting.UniformName(0, "quadratic"))
	assert.Equal(t, float32(0.07), quad)
	pos, _ := rec.Uniform(2, lighting.UniformName(0, "position"))
	assert.Equal(t, p.Lights[0], pos)

	bulb, _ := rec.Uniform(2, "forceBulbColor")
	assert.Equal(t, int32(0), bulb)
	model, _ := rec.Uniform(2, "model")
	assert.Equal(t, mgl32.Ident4(), model)

	var binds []gfx.Binding
	for _, c := range rec.Segment(2) {
		if c.Op == "bind" {
			binds = append(binds, c.Value.(gfx.Binding))
		}
	}
	assert.Equal(t, []gfx.Binding{
		{Slot: 0, Target: gfx.Texture2D, Texture: 200},
		{Slot: 1, Target: gfx.Texture2D, Texture: 0},
	}, binds)
}

func TestRenderGlowAndSky(t *testing.T) {
	rec := render(t, BuildPlan(testState(), nil, testProjection(), 1, 0))

	model, _ := rec.Uniform(3, "model")
	assert.Equal(t, GlowModel(), model)
	tex, _ := rec.Uniform(3, "glowTex")
	assert.Equal(t, int32(0), tex)

	sky, _ := rec.Uniform(4, "skybox")
	assert.Equal(t, int32(0), sky)
	var binds []gfx.Binding
	for _, c := range rec.Segment(4) {
		if c.Op == "bind" {
			binds = append(binds, c.Value.(gfx.Binding))
		}
	}
	assert.Equal(t, []gfx.Binding{{Slot: 0, Target: gfx.TextureCube, Texture: 202}}, binds)
}

func TestGlowModel(t *testing.T) {
	m := GlowModel()
	corner := m.Mul4x1(mgl32.Vec4{1, 0, 1, 1})
	assert.InDelta(t, 14, corner.X(), 1e-5)
	assert.InDelta(t, 0.01, corner.Y(), 1e-6)
	assert.InDelta(t, 14, corner.Z(), 1e-5)
}

func TestRenderCapsLights(t *testing.T) {
	anchors := make([]mgl32.Vec3, lighting.MaxPointLights+10)
	for i := range anchors {
		anchors[i] = mgl32.Vec3{float32(i), 0, 0}
	}
	rec := render(t, BuildPlan(testState(), anchors, testProjection(), 1, 0))

	for _, prog := range []uint32{1, 2} {
		n, _ := rec.Uniform(prog, "numPointLights")
		assert.Equal(t, int32(lighting.MaxPointLights), n)
	}
	_, ok := rec.Uniform(1, lighting.UniformName(lighting.MaxPointLights, "position"))
	assert.False(t, ok)
}

func TestShaderLightArrayMatchesUpload(t *testing.T) {
	define := fmt.Sprintf("#define MAX_POINT_LIGHTS %d\n", lighting.MaxPointLights)
	for _, name := range []string{shader.Carousel, shader.Ground} {
		src, err := shader.Builtin(name)
		require.NoError(t, err)
		assert.Contains(t, src.Fragment, define, name)
	}

	// position, ambient, diffuse, specular are vec3; constant, linear, quadratic are floats.
	assert.LessOrEqual(t, lighting.MaxPointLights*(4*3+3), 1024-64,
		"light array leaves room for the other fragment uniforms")
}

func TestProgramsSet(t *testing.T) {
	var p Programs
	for i, name := range shader.Names {
		assert.True(t, p.Set(name, uint32(i+1)))
	}
	assert.Equal(t, testPrograms, p)
	assert.False(t, p.Set("water", 9))
}
