package resource

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch starts watching the files behind loaded and future textures.
// Changes are applied by Poll. Loaders that do not implement Resolver
// are watched by resource path.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	m.watcher = w
	m.watched = make(map[string]string)
	m.dirs = make(map[string]bool)

	for k := range m.resources {
		m.watchLocked(k)
	}
	return nil
}

func (m *Manager) resolve(k string) string {
	file := k
	if r, ok := m.loader.(Resolver); ok {
		file = r.Resolve(k)
	}
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	return file
}

// watchLocked watches the directory holding k. Directories are watched
// rather than files so editors that replace files are still seen.
func (m *Manager) watchLocked(k string) {
	file := m.resolve(k)
	m.watched[file] = k

	dir := filepath.Dir(file)
	if m.dirs[dir] {
		return
	}
	if err := m.watcher.Add(dir); err != nil {
		m.log.Warn("failed to watch directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	m.dirs[dir] = true
}

// Poll applies pending file changes without blocking and returns how
// many textures were reloaded. It must be called from the frame thread.
func (m *Manager) Poll() int {
	m.mu.RLock()
	w := m.watcher
	m.mu.RUnlock()
	if w == nil {
		return 0
	}

	changed := make(map[string]bool)
	for drained := false; !drained; {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				drained = true
				break
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				changed[ev.Name] = true
			}
		case err, ok := <-w.Errors:
			if !ok {
				drained = true
				break
			}
			m.log.Warn("file watcher error", zap.Error(err))
		default:
			drained = true
		}
	}

	reloaded := 0
	for file := range changed {
		if m.reload(file) {
			reloaded++
		}
	}
	return reloaded
}

func (m *Manager) reload(file string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	k, ok := m.watched[file]
	if !ok {
		return false
	}
	r, ok := m.resources[k]
	if !ok {
		return false
	}
	tex, err := r.Texture()
	if err != nil {
		return false
	}

	fresh, err := m.loader.Load(k)
	if err != nil {
		// Editors often write in several steps; the next event retries.
		m.log.Debug("texture reload failed", zap.String("path", k), zap.Error(err))
		return false
	}
	tex.Replace(fresh.Width, fresh.Height, fresh.Pixels)
	m.log.Info("texture reloaded", zap.String("path", k))
	return true
}

// Close stops watching files.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watcher == nil {
		return nil
	}
	err := m.watcher.Close()
	m.watcher = nil
	return err
}
