// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// Config holds all viewer settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics" toml:"graphics"`
	Assets      AssetsConfig      `yaml:"assets" toml:"assets"`
	Carousel    CarouselConfig    `yaml:"carousel" toml:"carousel"`
	Camera      CameraConfig      `yaml:"camera" toml:"camera"`
	Riders      RidersConfig      `yaml:"riders" toml:"riders"`
	Lights      LightsConfig      `yaml:"lights" toml:"lights"`
	Audio       AudioConfig       `yaml:"audio" toml:"audio"`
	Screenshots ScreenshotsConfig `yaml:"screenshots" toml:"screenshots"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
}

// GraphicsConfig holds display and projection settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width" toml:"width"`
	Height     int     `yaml:"height" toml:"height"`
	Fullscreen bool    `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool    `yaml:"vsync" toml:"vsync"`
	FOV        float32 `yaml:"fov" toml:"fov"` // vertical, degrees
	Near       float32 `yaml:"near" toml:"near"`
	Far        float32 `yaml:"far" toml:"far"`
}

// AssetsConfig holds asset locations. Relative paths resolve against Root.
type AssetsConfig struct {
	Root         string `yaml:"root" toml:"root"`
	Model        string `yaml:"model" toml:"model"`
	Textures     string `yaml:"textures" toml:"textures"`
	Skybox       string `yaml:"skybox" toml:"skybox"`
	Shaders      string `yaml:"shaders" toml:"shaders"` // empty = built-in sources
	WatchShaders bool   `yaml:"watch_shaders" toml:"watch_shaders"`
	Music        string `yaml:"music" toml:"music"`
	MaxTexture   int    `yaml:"max_texture" toml:"max_texture"`
}

// CarouselConfig holds the carousel footprint and spin dynamics.
type CarouselConfig struct {
	Radius        float32 `yaml:"radius" toml:"radius"`
	Height        float32 `yaml:"height" toml:"height"`
	MinCameraY    float32 `yaml:"min_camera_y" toml:"min_camera_y"`
	Acceleration  float32 `yaml:"acceleration" toml:"acceleration"`
	MaxVelocity   float32 `yaml:"max_velocity" toml:"max_velocity"`
	SpinRate      float32 `yaml:"spin_rate" toml:"spin_rate"` // degrees per tick per unit of velocity
	ModelScale    float32 `yaml:"model_scale" toml:"model_scale"`
	FlattenDegree float32 `yaml:"flatten_degrees" toml:"flatten_degrees"`
}

// CameraConfig holds the free camera's initial pose and handling.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position" toml:"position"`
	Yaw         float32    `yaml:"yaw" toml:"yaw"`
	Pitch       float32    `yaml:"pitch" toml:"pitch"`
	Speed       float32    `yaml:"speed" toml:"speed"`
	Sensitivity float32    `yaml:"sensitivity" toml:"sensitivity"`
}

// RiderSlotConfig binds a model mesh to a rider.
type RiderSlotConfig struct {
	Mesh   int        `yaml:"mesh" toml:"mesh"`
	Offset [3]float32 `yaml:"offset" toml:"offset"` // model space, Z up
	Phase  float32    `yaml:"phase" toml:"phase"`   // radians
}

// RidersConfig holds the bobbing animation settings.
type RidersConfig struct {
	Amplitude float32           `yaml:"amplitude" toml:"amplitude"`
	ClockStep float32           `yaml:"clock_step" toml:"clock_step"`
	Slots     []RiderSlotConfig `yaml:"slots" toml:"slots"`
}

// LightsConfig holds bulb extraction settings.
type LightsConfig struct {
	Threshold  float32  `yaml:"threshold" toml:"threshold"`
	MaxPerMesh int      `yaml:"max_per_mesh" toml:"max_per_mesh"`
	Keywords   []string `yaml:"keywords" toml:"keywords"`
}

// AudioConfig holds organ music settings.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled" toml:"enabled"`
	Muted   bool    `yaml:"muted" toml:"muted"` // start silent; M toggles at runtime
	Volume  float64 `yaml:"volume" toml:"volume"`
}

// ScreenshotsConfig holds screenshot output settings.
type ScreenshotsConfig struct {
	Dir    string `yaml:"dir" toml:"dir"`
	Prefix string `yaml:"prefix" toml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// RiderCount is the fixed number of tracked riders.
const RiderCount = 2

// Default returns a Config matching the stock carousel scene.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  800,
			Height: 600,
			VSync:  true,
			FOV:    45,
			Near:   0.1,
			Far:    100,
		},
		Assets: AssetsConfig{
			Root:       "assets",
			Model:      "models/carousel.gltf",
			Textures:   "textures",
			Skybox:     "skybox",
			Music:      "audio/carousel.wav",
			MaxTexture: 4096,
		},
		Carousel: CarouselConfig{
			Radius:        3.0,
			Height:        4.0,
			MinCameraY:    0.2,
			Acceleration:  0.005,
			MaxVelocity:   1.5,
			SpinRate:      0.5,
			ModelScale:    0.01,
			FlattenDegree: -90,
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 2, 8},
			Yaw:         -90,
			Pitch:       0,
			Speed:       0.05,
			Sensitivity: 0.1,
		},
		Riders: RidersConfig{
			Amplitude: 2.8,
			ClockStep: 0.02,
			Slots: []RiderSlotConfig{
				{Mesh: 0, Offset: [3]float32{14, 182.5, 150}, Phase: 0},
				{Mesh: 1, Offset: [3]float32{14, 120.5, 150}, Phase: math32.Pi},
			},
		},
		Lights: LightsConfig{
			Threshold:  0.15,
			MaxPerMesh: 64,
			Keywords:   []string{"bulb", "light", "lit"},
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.8,
		},
		Screenshots: ScreenshotsConfig{
			Dir:    "screenshots",
			Prefix: "carousel",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: window size must be positive, got %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.Near <= 0 || c.Graphics.Far <= c.Graphics.Near {
		errs = append(errs, fmt.Errorf("graphics: need 0 < near < far, got near=%g far=%g", c.Graphics.Near, c.Graphics.Far))
	}
	if c.Assets.Model == "" {
		errs = append(errs, errors.New("assets: model path is empty"))
	}
	if c.Carousel.Radius <= 0 {
		errs = append(errs, fmt.Errorf("carousel: radius must be positive, got %g", c.Carousel.Radius))
	}
	if c.Carousel.Height <= 0 {
		errs = append(errs, fmt.Errorf("carousel: height must be positive, got %g", c.Carousel.Height))
	}
	if c.Carousel.MinCameraY > c.Carousel.Height {
		errs = append(errs, fmt.Errorf("carousel: min_camera_y %g above height %g", c.Carousel.MinCameraY, c.Carousel.Height))
	}
	if c.Carousel.Acceleration <= 0 || c.Carousel.MaxVelocity <= 0 {
		errs = append(errs, errors.New("carousel: acceleration and max_velocity must be positive"))
	}
	if c.Camera.Speed <= 0 {
		errs = append(errs, fmt.Errorf("camera: speed must be positive, got %g", c.Camera.Speed))
	}
	if len(c.Riders.Slots) != RiderCount {
		errs = append(errs, fmt.Errorf("riders: need exactly %d slots, got %d", RiderCount, len(c.Riders.Slots)))
	}
	for i, s := range c.Riders.Slots {
		if s.Mesh < 0 {
			errs = append(errs, fmt.Errorf("riders: slot %d has negative mesh index", i))
		}
	}
	if c.Lights.Threshold <= 0 || c.Lights.MaxPerMesh <= 0 {
		errs = append(errs, errors.New("lights: threshold and max_per_mesh must be positive"))
	}
	if len(c.Lights.Keywords) == 0 {
		errs = append(errs, errors.New("lights: no keywords"))
	}
	return errors.Join(errs...)
}
