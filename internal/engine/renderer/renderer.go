// Package renderer draws scenes through a gpu.Device.
package renderer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/balala/internal/engine/gpu"
	"github.com/Faultbox/balala/internal/engine/resource"
	"github.com/Faultbox/balala/internal/engine/scene"
	"github.com/Faultbox/balala/internal/engine/shader"
	"github.com/Faultbox/balala/internal/engine/surface"
	"github.com/Faultbox/balala/internal/logger"
)

// ErrTextureSize is returned when a texture's pixel buffer does not hold
// width*height RGBA8 pixels.
var ErrTextureSize = errors.New("pixel buffer does not match texture size")

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [3]float32
}

// Stats describes the last rendered frame.
type Stats struct {
	Scenes    int
	Cameras   int
	Lights    int
	Meshes    int
	DrawCalls int
}

// Renderer draws every mesh of a scene once per camera.
type Renderer struct {
	dev    gpu.Device
	config Config
	log    *zap.Logger

	program  gpu.Program
	fallback gpu.Texture

	// Reused every frame.
	cameras []scene.Handle
	lights  []scene.Handle
	meshes  []scene.Handle
	stack   []scene.Handle

	// Geometry with live GPU buffers.
	uploaded []*surface.SharedData

	// Texture resources bound by the last frame. Uploaded along with the
	// cached ones so evicted textures still in use come back.
	inUse    []*resource.Resource
	inUseSet map[*resource.Resource]struct{}

	stats Stats
}

// New creates a renderer drawing through dev.
// IMPORTANT: dev must be bound to a current context.
func New(dev gpu.Device, cfg Config) (*Renderer, error) {
	r := &Renderer{
		dev:    dev,
		config: cfg,
		log:    logger.Named("renderer"),

		inUseSet: make(map[*resource.Resource]struct{}),
	}

	var err error
	r.program, err = dev.CreateProgram(shader.FlatVertexShader, shader.FlatFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create flat program: %w", err)
	}

	if err := r.createFallbackTexture(); err != nil {
		dev.DeleteProgram(r.program)
		return nil, fmt.Errorf("failed to create fallback texture: %w", err)
	}

	r.log.Info("renderer initialized",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)
	return r, nil
}

// createFallbackTexture creates a 1x1 white texture bound for surfaces
// without a usable texture.
func (r *Renderer) createFallbackTexture() error {
	tex, err := r.dev.CreateTexture()
	if err != nil {
		return err
	}
	r.dev.UploadTexture(tex, 1, 1, []byte{255, 255, 255, 255})
	r.fallback = tex
	return nil
}

// Close releases GPU objects owned by the renderer. Textures owned by
// resources are released with ReleaseTexture.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, data := range r.uploaded {
		r.dev.DeleteGeometry(data.TakeGeometry())
	}
	r.uploaded = nil
	r.inUse = nil
	clear(r.inUseSet)
	if r.fallback != 0 {
		r.dev.DeleteTexture(r.fallback)
		r.fallback = 0
	}
	if r.program != 0 {
		r.dev.DeleteProgram(r.program)
		r.program = 0
	}
}

// Resize sets the framebuffer size used to place camera viewports.
func (r *Renderer) Resize(width, height int) {
	if width == r.config.Width && height == r.config.Height {
		return
	}
	r.config.Width = width
	r.config.Height = height
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the framebuffer size.
func (r *Renderer) Size() (width, height int) {
	return r.config.Width, r.config.Height
}

// LastFrame returns statistics for the most recent Render call.
func (r *Renderer) LastFrame() Stats {
	return r.stats
}

// UploadResources synchronizes resources with the GPU: textures flagged
// for upload are (re)uploaded and geometry no surface references any
// more is deleted. Textures bound during the previous frame are synced
// too, even if they are no longer in resources. Call once per frame
// before Render.
func (r *Renderer) UploadResources(resources []*resource.Resource) error {
	r.sweepGeometry()

	for _, res := range resources {
		if err := r.uploadTexture(res); err != nil {
			return err
		}
	}
	for _, res := range r.inUse {
		if err := r.uploadTexture(res); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) uploadTexture(res *resource.Resource) error {
	tex, err := res.Texture()
	if err != nil || !tex.NeedUpload {
		return nil
	}
	if tex.Width <= 0 || tex.Height <= 0 || len(tex.Pixels) != tex.Width*tex.Height*4 {
		return fmt.Errorf("texture %s: %w: %dx%d with %d bytes",
			res.Path(), ErrTextureSize, tex.Width, tex.Height, len(tex.Pixels))
	}
	if tex.GPU == 0 {
		id, err := r.dev.CreateTexture()
		if err != nil {
			return fmt.Errorf("creating texture for %s: %w", res.Path(), err)
		}
		tex.GPU = id
	}
	r.dev.UploadTexture(tex.GPU, tex.Width, tex.Height, tex.Pixels)
	tex.NeedUpload = false
	r.log.Debug("texture uploaded",
		zap.String("path", res.Path()),
		zap.Uint32("texture", uint32(tex.GPU)),
	)
	return nil
}

// ReleaseTexture deletes the GPU copy of res. If a surface still uses
// it, it is uploaded again by the next UploadResources after a frame
// that drew it.
func (r *Renderer) ReleaseTexture(res *resource.Resource) {
	tex, err := res.Texture()
	if err != nil || tex.GPU == 0 {
		return
	}
	r.dev.DeleteTexture(tex.GPU)
	tex.GPU = 0
	tex.NeedUpload = true
}

func (r *Renderer) sweepGeometry() {
	live := r.uploaded[:0]
	for _, data := range r.uploaded {
		if data.Released() {
			r.dev.DeleteGeometry(data.TakeGeometry())
			continue
		}
		live = append(live, data)
	}
	clear(r.uploaded[len(live):])
	r.uploaded = live
}
