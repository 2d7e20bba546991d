package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/carousel-viewer/internal/engine/gfx"
	"github.com/Faultbox/carousel-viewer/internal/engine/lighting"
	"github.com/Faultbox/carousel-viewer/internal/engine/shader"
	"github.com/Faultbox/carousel-viewer/internal/logger"
	"github.com/Faultbox/carousel-viewer/internal/model"
)

// Texture slots shared by the lit programs.
const (
	slotDiffuse = 0
	slotNormal  = 1
)

// Glow decal placement under the carousel.
var (
	glowLift  = mgl32.Vec3{0, 0.01, 0}
	glowScale = mgl32.Vec3{14, 1, 14}
)

// Programs are the linked shader programs, one per pass.
type Programs struct {
	Carousel uint32
	Ground   uint32
	Glow     uint32
	Skybox   uint32
}

// Set replaces the program registered under a shader library name.
// It reports false for unknown names.
func (p *Programs) Set(name string, program uint32) bool {
	switch name {
	case shader.Carousel:
		p.Carousel = program
	case shader.Ground:
		p.Ground = program
	case shader.Glow:
		p.Glow = program
	case shader.Skybox:
		p.Skybox = program
	default:
		return false
	}
	return true
}

// Resources are the GPU objects drawn by the passes. Zero handles are allowed.
type Resources struct {
	Meshes []*model.Mesh

	Ground gfx.Geometry
	Glow   gfx.Geometry
	Sky    gfx.Geometry

	GroundTex uint32
	GlowTex   uint32
	SkyTex    uint32 // cubemap
}

// Renderer issues the model, ground, glow and skybox passes in that order.
type Renderer struct {
	Programs Programs

	dev gfx.Device
	res Resources

	// Lights beyond MaxPointLights are dropped; warnedLights keeps the warning to one line.
	warnedLights bool
}

// NewRenderer creates a renderer drawing through dev.
func NewRenderer(dev gfx.Device, programs Programs, res Resources) *Renderer {
	return &Renderer{Programs: programs, dev: dev, res: res}
}

// Render draws one frame. No state is assumed to survive between passes.
func (r *Renderer) Render(p *FramePlan) {
	lights := r.clampLights(p.Lights)

	r.modelPass(p, lights)
	r.groundPass(p, lights)
	r.glowPass(p)
	r.skyboxPass(p)
}

func (r *Renderer) clampLights(lights []mgl32.Vec3) []mgl32.Vec3 {
	kept, dropped := lighting.Clamp(lights)
	if dropped > 0 && !r.warnedLights {
		logger.Warn("too many bulb lights, extra ignored",
			zap.Int("lights", len(lights)),
			zap.Int("max", lighting.MaxPointLights),
		)
		r.warnedLights = true
	}
	return kept
}

// camera binds the pass program with the shared view and projection.
func (r *Renderer) camera(program uint32, view, proj mgl32.Mat4) {
	r.dev.UseProgram(program)
	r.dev.SetMat4("view", view)
	r.dev.SetMat4("projection", proj)
}

func (r *Renderer) modelPass(p *FramePlan, lights []mgl32.Vec3) {
	d := r.dev
	d.SetDepthFunc(gfx.DepthLess)
	r.camera(r.Programs.Carousel, p.View, p.Projection)
	d.SetVec3("viewPos", p.Eye)
	lighting.UploadSun(d, lighting.SunDir, p.Time)
	d.SetInt("diffuseMap", slotDiffuse)
	d.SetInt("normalMap", slotNormal)
	lighting.Upload(d, lights, lighting.ModelProfile())

	for _, mesh := range r.res.Meshes {
		if mesh.Geometry.Count == 0 {
			continue
		}
		d.SetMat4("model", p.MeshModel(mesh.Rider))
		d.SetInt("forceBulbColor", boolInt(mesh.Emissive))
		d.BindTexture(slotDiffuse, gfx.Texture2D, mesh.DiffuseTex)
		d.BindTexture(slotNormal, gfx.Texture2D, mesh.NormalTex)
		d.Draw(mesh.Geometry)
	}
}

func (r *Renderer) groundPass(p *FramePlan, lights []mgl32.Vec3) {
	d := r.dev
	r.camera(r.Programs.Ground, p.View, p.Projection)
	d.SetMat4("model", mgl32.Ident4())
	d.SetVec3("viewPos", p.Eye)
	d.SetInt("diffuseMap", slotDiffuse)
	d.SetInt("normalMap", slotNormal)
	d.SetInt("forceBulbColor", 0)
	lighting.Upload(d, lights, lighting.GroundProfile())

	d.BindTexture(slotDiffuse, gfx.Texture2D, r.res.GroundTex)
	d.BindTexture(slotNormal, gfx.Texture2D, 0)
	d.Draw(r.res.Ground)
}

func (r *Renderer) glowPass(p *FramePlan) {
	d := r.dev
	r.camera(r.Programs.Glow, p.View, p.Projection)
	d.SetMat4("model", GlowModel())
	d.SetInt("glowTex", 0)
	d.BindTexture(0, gfx.Texture2D, r.res.GlowTex)
	d.Draw(r.res.Glow)
}

func (r *Renderer) skyboxPass(p *FramePlan) {
	d := r.dev
	d.SetDepthFunc(gfx.DepthLessEqual)
	r.camera(r.Programs.Skybox, SkyView(p.View), p.Projection)
	d.SetInt("skybox", 0)
	d.BindTexture(0, gfx.TextureCube, r.res.SkyTex)
	d.Draw(r.res.Sky)
	d.SetDepthFunc(gfx.DepthLess)
}

// GlowModel places the glow decal just above the ground, scaled to the carousel footprint.
func GlowModel() mgl32.Mat4 {
	return mgl32.Translate3D(glowLift.X(), glowLift.Y(), glowLift.Z()).
		Mul4(mgl32.Scale3D(glowScale.X(), glowScale.Y(), glowScale.Z()))
}

// SkyView strips translation from a view matrix.
func SkyView(view mgl32.Mat4) mgl32.Mat4 {
	return view.Mat3().Mat4()
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
