// Package engine ties scenes, resources and the renderer into a frame.
package engine

import (
	"go.uber.org/zap"

	"github.com/Faultbox/balala/internal/engine/renderer"
	"github.com/Faultbox/balala/internal/engine/resource"
	"github.com/Faultbox/balala/internal/engine/scene"
	"github.com/Faultbox/balala/internal/logger"
	"github.com/Faultbox/balala/pkg/pool"
)

// SceneHandle references a scene owned by an Engine.
type SceneHandle = pool.Handle[*scene.Scene]

// Engine owns the scenes and drives update, upload and render in order.
// All methods must be called from the thread owning the GPU context.
type Engine struct {
	renderer  *renderer.Renderer
	resources *resource.Manager
	scenes    pool.Pool[*scene.Scene]
	log       *zap.Logger

	// Reused by Render.
	live []*scene.Scene

	running bool
}

// New creates an engine drawing with r and loading through resources.
func New(r *renderer.Renderer, resources *resource.Manager) *Engine {
	return &Engine{
		renderer:  r,
		resources: resources,
		log:       logger.Named("engine"),
		running:   true,
	}
}

// AddScene takes ownership of s.
func (e *Engine) AddScene(s *scene.Scene) SceneHandle {
	return e.scenes.Spawn(s)
}

// Scene resolves h.
func (e *Engine) Scene(h SceneHandle) (*scene.Scene, bool) {
	s, ok := e.scenes.Borrow(h)
	if !ok {
		return nil, false
	}
	return *s, true
}

// RemoveScene destroys the scene's nodes and frees its slot. Geometry
// it held is released on the next Render.
func (e *Engine) RemoveScene(h SceneHandle) {
	s, ok := e.Scene(h)
	if !ok {
		return
	}
	s.Clear()
	e.scenes.Free(h)
}

// SceneCount returns the number of live scenes.
func (e *Engine) SceneCount() int {
	return e.scenes.Len()
}

// Resources returns the resource manager.
func (e *Engine) Resources() *resource.Manager {
	return e.resources
}

// Renderer returns the renderer.
func (e *Engine) Renderer() *renderer.Renderer {
	return e.renderer
}

// RequestTexture loads or returns the cached texture at path.
func (e *Engine) RequestTexture(path string) (*resource.Resource, bool) {
	return e.resources.RequestTexture(path)
}

// UnloadTexture evicts path from the cache and deletes its GPU texture.
// Meshes still using the texture get it uploaded again on a later frame.
func (e *Engine) UnloadTexture(path string) {
	res, ok := e.resources.Unload(path)
	if !ok {
		return
	}
	e.renderer.ReleaseTexture(res)
	e.log.Debug("texture unloaded", zap.String("path", path))
}

// Update applies pending resource changes and updates every scene for a
// framebuffer of the given size.
func (e *Engine) Update(width, height int) {
	e.resources.Poll()
	e.renderer.Resize(width, height)

	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	for i := 0; i < e.scenes.Capacity(); i++ {
		if s, ok := e.scenes.At(i); ok {
			(*s).Update(aspect)
		}
	}
}

// Render uploads dirty resources, then draws live scenes in slot order.
func (e *Engine) Render() error {
	if err := e.renderer.UploadResources(e.resources.Resources()); err != nil {
		return err
	}

	e.live = e.live[:0]
	for i := 0; i < e.scenes.Capacity(); i++ {
		if s, ok := e.scenes.At(i); ok {
			e.live = append(e.live, *s)
		}
	}
	return e.renderer.Render(e.live)
}

// Running reports whether Stop has not been called.
func (e *Engine) Running() bool {
	return e.running
}

// Stop asks the frame loop to exit.
func (e *Engine) Stop() {
	e.running = false
}

// Close releases GPU objects and stops watching resources.
func (e *Engine) Close() {
	for i := 0; i < e.scenes.Capacity(); i++ {
		if h, ok := e.scenes.HandleAt(i); ok {
			e.RemoveScene(h)
		}
	}
	e.renderer.Close()
	if err := e.resources.Close(); err != nil {
		e.log.Warn("failed to close resource manager", zap.Error(err))
	}
}
