package shader

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/carousel-viewer/internal/logger"
)

// Program names used by the scene.
const (
	Carousel = "carousel"
	Ground   = "ground"
	Glow     = "glow"
	Skybox   = "skybox"
)

// Names lists every program the scene needs, in pass order.
var Names = []string{Carousel, Ground, Glow, Skybox}

const (
	vertexExt   = ".vert"
	fragmentExt = ".frag"
)

//go:embed sources/*.vert sources/*.frag
var builtin embed.FS

// Source is the GLSL text of one program.
type Source struct {
	Vertex   string
	Fragment string
}

// Builtin returns the embedded source of a named program.
func Builtin(name string) (Source, error) {
	vs, err := builtin.ReadFile("sources/" + name + vertexExt)
	if err != nil {
		return Source{}, fmt.Errorf("builtin shader %s: %w", name, err)
	}
	frag, err := builtin.ReadFile("sources/" + name + fragmentExt)
	if err != nil {
		return Source{}, fmt.Errorf("builtin shader %s: %w", name, err)
	}
	return Source{Vertex: string(vs), Fragment: string(frag)}, nil
}

// Library owns the scene's named programs.
type Library struct {
	dir      string
	programs map[string]uint32

	build   func(vs, fs string) (uint32, error)
	release func(program uint32)
}

// NewLibrary creates a library reading sources from dir, falling back to the
// built-in source for any stage missing there. An empty dir uses built-ins only.
func NewLibrary(dir string) *Library {
	return &Library{
		dir:      dir,
		programs: make(map[string]uint32),
		build:    Build,
		release:  gl.DeleteProgram,
	}
}

// Source resolves a program's GLSL text.
func (l *Library) Source(name string) (Source, error) {
	src, err := Builtin(name)
	if l.dir == "" {
		return src, err
	}

	disk := false
	if b, rerr := os.ReadFile(filepath.Join(l.dir, name+vertexExt)); rerr == nil {
		src.Vertex, disk = string(b), true
	} else if !errors.Is(rerr, fs.ErrNotExist) {
		return Source{}, rerr
	}
	if b, rerr := os.ReadFile(filepath.Join(l.dir, name+fragmentExt)); rerr == nil {
		src.Fragment, disk = string(b), true
	} else if !errors.Is(rerr, fs.ErrNotExist) {
		return Source{}, rerr
	}

	if src.Vertex == "" || src.Fragment == "" {
		return Source{}, fmt.Errorf("shader %s: no source in %s and no built-in", name, l.dir)
	}
	if disk {
		logger.Debug("shader source from disk", zap.String("program", name), zap.String("dir", l.dir))
	}
	return src, nil
}

// Load builds a named program. A non-nil error is a build warning: the returned
// program is still stored and handed out.
func (l *Library) Load(name string) (uint32, error) {
	src, err := l.Source(name)
	if err != nil {
		return l.programs[name], err
	}
	program, err := l.build(src.Vertex, src.Fragment)
	l.programs[name] = program
	if err != nil {
		return program, fmt.Errorf("shader %s: %w", name, err)
	}
	logger.Debug("shader program built", zap.String("program", name), zap.Uint32("id", program))
	return program, nil
}

// LoadAll builds every program in Names, logging warnings instead of failing.
func (l *Library) LoadAll() {
	for _, name := range Names {
		if _, err := l.Load(name); err != nil {
			logger.Warn("shader build failed, continuing", zap.String("program", name), zap.Error(err))
		}
	}
}

// Program returns the current program for name, 0 if never loaded.
func (l *Library) Program(name string) uint32 {
	return l.programs[name]
}

// Reload rebuilds a program from source and deletes the old one.
// It returns the replaced program so callers can drop cached state for it.
func (l *Library) Reload(name string) (old, program uint32, err error) {
	old = l.programs[name]
	src, err := l.Source(name)
	if err != nil {
		return old, old, err
	}
	program, err = l.build(src.Vertex, src.Fragment)
	l.programs[name] = program
	if old != 0 {
		l.release(old)
	}
	if err != nil {
		return old, program, fmt.Errorf("shader %s: %w", name, err)
	}
	logger.Info("shader reloaded", zap.String("program", name), zap.Uint32("id", program))
	return old, program, nil
}

// Close deletes every program.
func (l *Library) Close() {
	for name, p := range l.programs {
		if p != 0 {
			l.release(p)
		}
		delete(l.programs, name)
	}
}
