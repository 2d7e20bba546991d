package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 800 {
		t.Errorf("expected width 800, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 600 {
		t.Errorf("expected height 600, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if cfg.Carousel.Radius != 3.0 {
		t.Errorf("expected radius 3.0, got %g", cfg.Carousel.Radius)
	}
	if cfg.Carousel.MaxVelocity != 1.5 {
		t.Errorf("expected max velocity 1.5, got %g", cfg.Carousel.MaxVelocity)
	}
	if cfg.Camera.Position != [3]float32{0, 2, 8} {
		t.Errorf("expected camera at (0,2,8), got %v", cfg.Camera.Position)
	}
	if len(cfg.Riders.Slots) != RiderCount {
		t.Errorf("expected %d rider slots, got %d", RiderCount, len(cfg.Riders.Slots))
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	require.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
carousel:
  max_velocity: 2.5
logging:
  level: "debug"
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	assert.Equal(t, 1920, cfg.Graphics.Width)
	assert.Equal(t, 1080, cfg.Graphics.Height)
	assert.True(t, cfg.Graphics.Fullscreen)
	assert.Equal(t, float32(2.5), cfg.Carousel.MaxVelocity)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset fields keep their defaults.
	assert.Equal(t, float32(3.0), cfg.Carousel.Radius)
	assert.Equal(t, float32(45), cfg.Graphics.FOV)
}

func TestLoadFromTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
[graphics]
width = 1024

[camera]
speed = 0.1
position = [1.0, 3.0, 9.0]

[lights]
keywords = ["lamp"]
`
	require.NoError(t, os.WriteFile(configPath, []byte(tomlContent), 0644))

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	assert.Equal(t, 1024, cfg.Graphics.Width)
	assert.Equal(t, float32(0.1), cfg.Camera.Speed)
	assert.Equal(t, [3]float32{1, 3, 9}, cfg.Camera.Position)
	assert.Equal(t, []string{"lamp"}, cfg.Lights.Keywords)
}

func TestLoadFromFileNotFound(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte("graphics: [invalid"), 0644))

	cfg := Default()
	assert.Error(t, loadFromFile(cfg, configPath))
}

func TestLoadOverridesWinOverFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("graphics:\n  width: 1920\n  fullscreen: true\n"), 0644))

	cfg, err := Load(Overrides{
		ConfigPath: configPath,
		Width:      640,
		Windowed:   true,
		Debug:      true,
		Model:      "/abs/model.gltf",
		Mute:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Graphics.Width)
	assert.False(t, cfg.Graphics.Fullscreen)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/abs/model.gltf", cfg.Assets.Model)
	assert.True(t, cfg.Audio.Enabled, "mute keeps the track loaded")
	assert.True(t, cfg.Audio.Muted)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("carousel:\n  radius: -1\n"), 0644))

	_, err := Load(Overrides{ConfigPath: configPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radius")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, "window size"},
		{"far before near", func(c *Config) { c.Graphics.Far = 0.01 }, "near < far"},
		{"empty model", func(c *Config) { c.Assets.Model = "" }, "model path"},
		{"floor above roof", func(c *Config) { c.Carousel.MinCameraY = 10 }, "min_camera_y"},
		{"one rider", func(c *Config) { c.Riders.Slots = c.Riders.Slots[:1] }, "slots"},
		{"no keywords", func(c *Config) { c.Lights.Keywords = nil }, "keywords"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolveAsset(t *testing.T) {
	cfg := Default()
	cfg.Assets.Root = "data"

	assert.Equal(t, filepath.Join("data", "models", "c.gltf"), cfg.ResolveAsset(filepath.Join("models", "c.gltf")))
	assert.Equal(t, "/abs/c.gltf", cfg.ResolveAsset("/abs/c.gltf"))
	assert.Equal(t, "", cfg.ResolveAsset(""))
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := Default()
	cfg.Graphics.Width = 1600
	cfg.Carousel.Acceleration = 0.01

	require.NoError(t, cfg.SaveTo(configPath))

	loaded := Default()
	require.NoError(t, loadFromFile(loaded, configPath))

	if loaded.Graphics.Width != 1600 {
		t.Errorf("expected width 1600, got %d", loaded.Graphics.Width)
	}
	if loaded.Carousel.Acceleration != 0.01 {
		t.Errorf("expected acceleration 0.01, got %g", loaded.Carousel.Acceleration)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
}

func TestSaveIsFoundByLoad(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only steers the config dir on linux")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Graphics.Width = 1440
	cfg.Audio.Muted = true
	require.NoError(t, cfg.Save())
	assert.FileExists(t, DefaultPath())

	loaded, err := Load(Overrides{ConfigPath: DefaultPath()})
	require.NoError(t, err)
	assert.Equal(t, 1440, loaded.Graphics.Width)
	assert.True(t, loaded.Audio.Muted)
}
