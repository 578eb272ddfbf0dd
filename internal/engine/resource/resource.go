// Package resource manages shared, path-keyed engine resources such as
// textures.
package resource

import (
	"errors"

	"github.com/Faultbox/balala/internal/engine/gpu"
)

// ErrNotTexture is returned when texture data is requested from a
// resource of another kind.
var ErrNotTexture = errors.New("resource is not a texture")

// Kind identifies the payload of a Resource.
type Kind int

const (
	KindBase Kind = iota
	KindTexture
)

func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "texture"
	default:
		return "base"
	}
}

// Texture holds RGBA8 pixels and the lazily created GPU texture.
type Texture struct {
	Width  int
	Height int
	Pixels []byte

	// NeedUpload is set whenever Pixels changed since the last upload.
	NeedUpload bool
	// GPU is zero until the renderer uploads the texture.
	GPU gpu.Texture
}

// NewTexture returns a texture that still needs uploading.
func NewTexture(width, height int, pixels []byte) *Texture {
	return &Texture{Width: width, Height: height, Pixels: pixels, NeedUpload: true}
}

// Replace swaps in new pixel data, keeping the GPU texture.
func (t *Texture) Replace(width, height int, pixels []byte) {
	t.Width = width
	t.Height = height
	t.Pixels = pixels
	t.NeedUpload = true
}

// Resource is a shared cache entry. Holders keep the pointer; identity
// is pointer equality.
type Resource struct {
	path    string
	kind    Kind
	texture *Texture
}

// New returns a resource with no payload.
func New(path string) *Resource {
	return &Resource{path: path, kind: KindBase}
}

// NewTextureResource wraps tex as a texture resource.
func NewTextureResource(path string, tex *Texture) *Resource {
	return &Resource{path: path, kind: KindTexture, texture: tex}
}

func (r *Resource) Path() string { return r.path }
func (r *Resource) Kind() Kind { return r.kind }

// Texture returns the texture payload.
func (r *Resource) Texture() (*Texture, error) {
	if r.kind != KindTexture || r.texture == nil {
		return nil, ErrNotTexture
	}
	return r.texture, nil
}
