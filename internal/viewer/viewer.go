// Package viewer runs the carousel viewer: window, simulation and the frame loop.
package viewer

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/carousel-viewer/internal/assets"
	"github.com/Faultbox/carousel-viewer/internal/config"
	"github.com/Faultbox/carousel-viewer/internal/engine/audio"
	"github.com/Faultbox/carousel-viewer/internal/engine/debug"
	"github.com/Faultbox/carousel-viewer/internal/engine/gfx"
	"github.com/Faultbox/carousel-viewer/internal/engine/input"
	"github.com/Faultbox/carousel-viewer/internal/engine/shader"
	"github.com/Faultbox/carousel-viewer/internal/engine/texture"
	"github.com/Faultbox/carousel-viewer/internal/engine/window"
	"github.com/Faultbox/carousel-viewer/internal/logger"
	"github.com/Faultbox/carousel-viewer/internal/model"
	"github.com/Faultbox/carousel-viewer/internal/scene"
	"github.com/Faultbox/carousel-viewer/internal/sim"
	"github.com/Faultbox/carousel-viewer/pkg/edge"
)

// Static scene geometry.
const (
	groundExtent = 50
	groundRepeat = 25
	groundImage  = "ground.jpg"
	glowImage    = "glow.png"
)

var newAssetManager = assets.NewManager

// Viewer owns every resource of a running viewer. All methods must be called
// from the thread that created it.
type Viewer struct {
	cfg *config.Config
	log *zap.Logger

	assets  *assets.Manager
	win     *window.Window
	dev     *gfx.GL
	in      *input.Input
	shaders *shader.Library
	watcher *shader.Watcher
	music   *audio.Manager
	shots   *debug.Screenshots

	model    *model.Model
	state    *sim.State
	renderer *scene.Renderer
	res      scene.Resources
	proj     scene.Projection

	hotkeys *edge.Set[input.Action]
	start   time.Time
}

// New loads the model and creates the window, GL device and scene.
// It returns an error wrapping model.ErrModelNotFound when the model is missing.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:     cfg,
		log:     logger.Named("viewer"),
		state:   sim.FromConfig(cfg),
		proj:    scene.NewProjection(cfg.Graphics),
		shots:   debug.NewScreenshots(cfg.Screenshots.Dir, cfg.Screenshots.Prefix),
		hotkeys: edge.NewSet(input.Screenshot, input.ToggleMute),
		start:   time.Now(),
	}

	v.assets = newAssetManager()
	if err := v.assets.AddRoot(cfg.Assets.Root); err != nil {
		v.log.Warn("asset root unavailable", zap.Error(err))
	}

	// The model is checked before any window appears.
	m, err := model.Load(cfg.ResolveAsset(cfg.Assets.Model), loadOptions(cfg))
	if err != nil {
		v.assets.Close()
		return nil, err
	}
	v.model = m

	v.win, err = window.New(window.Config{
		Title:        Title(v.state.Camera),
		Width:        cfg.Graphics.Width,
		Height:       cfg.Graphics.Height,
		Fullscreen:   cfg.Graphics.Fullscreen,
		VSync:        cfg.Graphics.VSync,
		CaptureMouse: true,
	})
	if err != nil {
		v.assets.Close()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// GL entry points exist only after the context is current.
	v.dev, err = gfx.NewGL()
	if err != nil {
		v.win.Close()
		v.assets.Close()
		return nil, fmt.Errorf("failed to create graphics device: %w", err)
	}
	v.dev.Resize(v.win.DrawableSize())

	v.in = input.New(input.DefaultBindings())
	v.loadShaders()
	v.loadScene()
	v.startMusic()

	v.renderer = scene.NewRenderer(v.dev, scene.Programs{
		Carousel: v.shaders.Program(shader.Carousel),
		Ground:   v.shaders.Program(shader.Ground),
		Glow:     v.shaders.Program(shader.Glow),
		Skybox:   v.shaders.Program(shader.Skybox),
	}, v.res)

	v.log.Info("viewer ready",
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("lights", len(m.Anchors)),
		zap.Stringer("mode", v.state.Camera.Mode),
	)
	return v, nil
}

func loadOptions(cfg *config.Config) model.LoadOptions {
	opts := model.DefaultLoadOptions()
	opts.Lights = model.LightOptions{
		Keywords:  cfg.Lights.Keywords,
		Threshold: cfg.Lights.Threshold,
		Max:       cfg.Lights.MaxPerMesh,
	}
	opts.RiderMeshes = make([]int, len(cfg.Riders.Slots))
	for i, s := range cfg.Riders.Slots {
		opts.RiderMeshes[i] = s.Mesh
	}
	return opts
}

func (v *Viewer) loadShaders() {
	dir := v.cfg.ResolveAsset(v.cfg.Assets.Shaders)
	v.shaders = shader.NewLibrary(dir)
	v.shaders.LoadAll()

	if !v.cfg.Assets.WatchShaders {
		return
	}
	if dir == "" {
		v.log.Warn("shader watching needs a shader directory")
		return
	}
	w, err := shader.Watch(dir)
	if err != nil {
		v.log.Warn("shader watcher not started", zap.String("dir", dir), zap.Error(err))
		return
	}
	v.watcher = w
}

// loadScene uploads the model and the static ground, glow and sky resources.
// Missing textures degrade to handle 0.
func (v *Viewer) loadScene() {
	maxTex := v.cfg.Assets.MaxTexture
	v.model.Upload(v.dev, texture.Load2D, maxTex)

	v.res = scene.Resources{
		Meshes: v.model.Meshes,
		Ground: v.dev.Upload(gfx.GroundQuad(groundExtent, groundRepeat), gfx.LayoutTextured, gfx.QuadIndices),
		Glow:   v.dev.Upload(gfx.GlowQuad(), gfx.LayoutTextured, gfx.QuadIndices),
		Sky:    v.dev.Upload(gfx.SkyboxCube(), gfx.LayoutCube, nil),
	}
	v.res.GroundTex = v.texture(groundImage, texture.ModelOptions(maxTex))
	v.res.GlowTex = v.texture(glowImage, texture.DecalOptions())

	var faces [6]string
	for i, f := range texture.CubeFaces {
		faces[i] = v.cfg.ResolveAsset(filepath.Join(v.cfg.Assets.Skybox, f))
	}
	sky, err := texture.LoadCubemap(faces)
	if err != nil {
		v.log.Warn("skybox incomplete", zap.Error(err))
	}
	v.res.SkyTex = sky
}

func (v *Viewer) texture(name string, opts texture.Options) uint32 {
	path, err := v.assets.Resolve(filepath.Join(v.cfg.Assets.Textures, name))
	if err != nil {
		v.log.Warn("texture not found", zap.String("name", name), zap.Error(err))
		return 0
	}
	tex, err := texture.Load2D(path, opts)
	if err != nil {
		v.log.Warn("texture not loaded", zap.String("path", path), zap.Error(err))
	}
	return tex
}

func (v *Viewer) startMusic() {
	if !v.cfg.Audio.Enabled || v.cfg.Assets.Music == "" {
		return
	}
	data, err := v.assets.Load(v.cfg.Assets.Music)
	if err != nil {
		v.log.Warn("music not loaded", zap.Error(err))
		return
	}
	if kind := assets.Kind(data); kind.Extension != "wav" {
		v.log.Warn("music is not a WAV file", zap.String("path", v.cfg.Assets.Music), zap.String("kind", kind.MIME.Value))
		return
	}

	m := audio.New(v.cfg.Audio.Volume)
	m.SetMuted(v.cfg.Audio.Muted)
	if err := m.Init(); err != nil {
		v.log.Warn("audio unavailable", zap.Error(err))
		return
	}
	if err := m.PlayLoop(data, v.cfg.Assets.Music); err != nil {
		v.log.Warn("music not started", zap.Error(err))
		m.Close()
		return
	}
	v.music = m
}

// Run drives the frame loop until the window closes or Escape is pressed.
func (v *Viewer) Run() error {
	v.log.Info("starting frame loop")

	frames := 0
	fpsTimer := time.Now()

	for {
		frame := v.in.Update()
		if frame.Closed || frame.Down(input.Quit) {
			v.log.Info("quit requested")
			return nil
		}
		if frame.Resized {
			v.dev.Resize(v.win.DrawableSize())
		}

		v.reloadShaders()
		v.step(frame)

		plan := scene.BuildPlan(v.state, v.model.Anchors, v.proj, v.win.Aspect(), float32(time.Since(v.start).Seconds()))
		v.dev.Begin()
		v.renderer.Render(&plan)

		fired := v.hotkeys.Update(frame.Levels(input.Screenshot, input.ToggleMute))
		if fired[input.Screenshot] {
			v.captureScreenshot()
		}
		if fired[input.ToggleMute] {
			v.toggleMute()
		}
		v.win.SwapBuffers()

		frames++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			v.log.Debug("fps",
				zap.Float64("fps", float64(frames)/elapsed.Seconds()),
				zap.Float32("rotation", v.state.Carousel.Rotation),
				zap.Float32("velocity", v.state.Carousel.Velocity),
			)
			frames = 0
			fpsTimer = time.Now()
		}
	}
}

// step advances the simulation by one frame and reflects mode changes in the UI.
func (v *Viewer) step(frame *input.Frame) {
	ch := v.state.Step(frame.Controls())
	if ch.Any() {
		cam := v.state.Camera
		v.win.SetTitle(Title(cam))
		v.log.Info("camera changed", zap.Stringer("mode", cam.Mode), zap.Int("rider", cam.Rider))
	}
	if v.music != nil {
		v.music.SetSpeed(float64(v.state.Carousel.SpeedFraction()))
	}
}

// reloadShaders rebuilds programs whose sources changed on disk.
func (v *Viewer) reloadShaders() {
	if v.watcher == nil {
		return
	}
	for _, name := range v.watcher.Poll() {
		old, program, err := v.shaders.Reload(name)
		v.dev.Forget(old)
		v.renderer.Programs.Set(name, program)
		if err != nil {
			v.log.Warn("shader reload failed, continuing", zap.String("program", name), zap.Error(err))
		}
	}
}

func (v *Viewer) toggleMute() {
	if v.music == nil {
		return
	}
	v.music.SetMuted(!v.music.Muted())
	v.log.Info("music", zap.Bool("muted", v.music.Muted()), zap.Float64("level", v.music.Level()))
}

func (v *Viewer) captureScreenshot() {
	w, h := v.win.DrawableSize()
	path, err := v.shots.SavePixels(debug.ReadBackBuffer(w, h), w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases everything New created, in reverse order.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.music != nil {
		v.music.Close()
	}
	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			v.log.Warn("closing shader watcher", zap.Error(err))
		}
	}
	if v.dev != nil {
		texture.Delete(v.res.GroundTex, v.res.GlowTex, v.res.SkyTex)
		if v.model != nil {
			v.model.Release(v.dev, texture.Delete)
		}
		v.shaders.Close()
		v.dev.Close()
	}
	if v.win != nil {
		v.win.Close()
	}
	v.assets.Close()
}

// IsModelNotFound reports whether err means the model file is missing.
func IsModelNotFound(err error) bool {
	return errors.Is(err, model.ErrModelNotFound)
}
