package resource

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/balala/internal/logger"
)

// Stats reports cache activity.
type Stats struct {
	Loaded int
	Hits   int
	Misses int
}

// Manager caches resources by path. Repeated requests for one path
// return the same *Resource. Entries live until Unload.
type Manager struct {
	loader Loader
	log    *zap.Logger

	mu        sync.RWMutex
	resources map[string]*Resource
	order     []*Resource
	hits      int
	misses    int

	watcher *fsnotify.Watcher
	watched map[string]string // filesystem path -> resource key
	dirs    map[string]bool
}

// NewManager creates a manager that loads through loader.
func NewManager(loader Loader) *Manager {
	return &Manager{
		loader:    loader,
		log:       logger.Named("resource"),
		resources: make(map[string]*Resource),
	}
}

func key(path string) string {
	return filepath.Clean(path)
}

// RequestTexture returns the cached texture for path, loading it on
// first request. A load failure is logged and reported as (nil, false);
// failures are not cached.
func (m *Manager) RequestTexture(path string) (*Resource, bool) {
	k := key(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.resources[k]; ok {
		m.hits++
		return r, true
	}
	m.misses++

	tex, err := m.loader.Load(k)
	if err != nil {
		m.log.Warn("failed to load texture", zap.String("path", k), zap.Error(err))
		return nil, false
	}

	r := NewTextureResource(k, tex)
	m.resources[k] = r
	m.order = append(m.order, r)
	m.log.Debug("texture loaded",
		zap.String("path", k),
		zap.Int("width", tex.Width),
		zap.Int("height", tex.Height),
	)

	if m.watcher != nil {
		m.watchLocked(k)
	}
	return r, true
}

// Resources returns live resources in load order.
func (m *Manager) Resources() []*Resource {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Resource, len(m.order))
	copy(out, m.order)
	return out
}

// Unload drops path from the cache and returns the evicted resource so
// its GPU texture can be released. Holders of the pointer keep it alive.
func (m *Manager) Unload(path string) (*Resource, bool) {
	k := key(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.resources[k]
	if !ok {
		return nil, false
	}
	delete(m.resources, k)
	for i, o := range m.order {
		if o == r {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	for file, rk := range m.watched {
		if rk == k {
			delete(m.watched, file)
		}
	}
	return r, true
}

// Stats returns cache statistics.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{Loaded: len(m.order), Hits: m.hits, Misses: m.misses}
}
