package shader

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/carousel-viewer/internal/logger"
)

// Watcher reports edited shader files. fsnotify delivers on its own goroutine;
// Poll drains on the caller's thread so GL work stays on the frame thread.
type Watcher struct {
	fw *fsnotify.Watcher
}

// Watch starts watching dir for shader edits.
func Watch(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	logger.Info("watching shaders", zap.String("dir", dir))
	return &Watcher{fw: fw}, nil
}

// Poll returns the sorted names of programs whose sources changed since the last call.
// It never blocks.
func (w *Watcher) Poll() []string {
	changed := make(map[string]bool)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return sortedKeys(changed)
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if name, ok := ProgramName(ev.Name); ok {
				changed[name] = true
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return sortedKeys(changed)
			}
			logger.Warn("shader watcher error", zap.Error(err))
		default:
			return sortedKeys(changed)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

// ProgramName maps a shader file path to its program name.
func ProgramName(path string) (string, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != vertexExt && ext != fragmentExt {
		return "", false
	}
	name := strings.TrimSuffix(base, ext)
	if !slices.Contains(Names, name) {
		return "", false
	}
	return name, true
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
