package viewer

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/carousel-viewer/internal/assets"
	"github.com/Faultbox/carousel-viewer/internal/config"
	"github.com/Faultbox/carousel-viewer/internal/model"
	"github.com/Faultbox/carousel-viewer/internal/sim"
)

func TestTitle(t *testing.T) {
	cam := sim.FromConfig(config.Default()).Camera
	assert.Equal(t, "Carousel Viewer - free", Title(cam))

	cam.ToggleMode()
	assert.Equal(t, "Carousel Viewer - mounted (rider 1)", Title(cam))

	cam.NextRider(2)
	assert.Equal(t, "Carousel Viewer - mounted (rider 2)", Title(cam))
}

func TestLoadOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Lights.Keywords = []string{"lamp"}
	cfg.Lights.MaxPerMesh = 8
	cfg.Riders.Slots[0].Mesh = 4
	cfg.Riders.Slots[1].Mesh = 9

	opts := loadOptions(cfg)
	assert.Equal(t, []string{"lamp"}, opts.Lights.Keywords)
	assert.Equal(t, 8, opts.Lights.Max)
	assert.Equal(t, float32(0.15), opts.Lights.Threshold)
	assert.Equal(t, []int{4, 9}, opts.RiderMeshes)
}

func TestNewMissingModel(t *testing.T) {
	cfg := config.Default()
	cfg.Assets.Root = t.TempDir()
	cfg.Assets.Model = filepath.Join("models", "missing.gltf")

	v, err := New(cfg)
	require.Error(t, err)
	assert.Nil(t, v)
	assert.True(t, IsModelNotFound(err))
	assert.False(t, IsModelNotFound(fmt.Errorf("other")))
	assert.ErrorIs(t, err, model.ErrModelNotFound)
}

func TestNewMissingModelReleasesAssets(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "organ.wav"), []byte("RIFF"), 0o644))

	var created *assets.Manager
	orig := newAssetManager
	newAssetManager = func() *assets.Manager {
		created = orig()
		return created
	}
	t.Cleanup(func() { newAssetManager = orig })

	cfg := config.Default()
	cfg.Assets.Root = root
	cfg.Assets.Model = filepath.Join("models", "missing.gltf")

	_, err := New(cfg)
	require.ErrorIs(t, err, model.ErrModelNotFound)
	require.NotNil(t, created)

	_, err = created.Resolve("organ.wav")
	assert.ErrorIs(t, err, assets.ErrNotFound, "asset roots dropped on the error path")
}
