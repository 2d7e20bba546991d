package assets

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestManagerLayering(t *testing.T) {
	base := t.TempDir()
	override := t.TempDir()
	writeFile(t, filepath.Join(base, "shaders", "ground.fs"), []byte("base"))
	writeFile(t, filepath.Join(base, "textures", "glow.png"), []byte("glow"))
	writeFile(t, filepath.Join(override, "shaders", "ground.fs"), []byte("override"))

	m := NewManager()
	defer m.Close()
	require.NoError(t, m.AddRoot(base))
	require.NoError(t, m.AddRoot(override))

	data, err := m.Load(filepath.Join("shaders", "ground.fs"))
	require.NoError(t, err)
	assert.Equal(t, "override", string(data))

	data, err = m.Load(filepath.Join("textures", "glow.png"))
	require.NoError(t, err)
	assert.Equal(t, "glow", string(data))
}

func TestManagerNotFound(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.AddRoot(t.TempDir()))

	_, err := m.Load("missing.gltf")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Resolve("/definitely/not/here.gltf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddRootRejectsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	writeFile(t, file, nil)

	m := NewManager()
	assert.Error(t, m.AddRoot(file))
	assert.Error(t, m.AddRoot(filepath.Join(dir, "nope")))
}

func TestLoadServesCachedCopy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	writeFile(t, path, []byte("one"))

	m := NewManager()
	require.NoError(t, m.AddRoot(dir))

	data, err := m.Load("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	writeFile(t, path, []byte("two"))
	data, _ = m.Load("a.txt")
	assert.Equal(t, "one", string(data), "first read stays cached")

	m.Close()
	require.NoError(t, m.AddRoot(dir))
	data, _ = m.Load("a.txt")
	assert.Equal(t, "two", string(data), "Close drops the cache")
}

func TestKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.bin")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png", Kind(data).Extension)
	assert.Equal(t, "unknown", Kind([]byte("not an image")).Extension)
}
