package resource

import (
	"path/filepath"

	"github.com/Faultbox/balala/internal/engine/texture"
)

// Loader produces decoded texture data for a resource path.
type Loader interface {
	Load(path string) (*Texture, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(path string) (*Texture, error)

func (f LoaderFunc) Load(path string) (*Texture, error) { return f(path) }

// Resolver is implemented by loaders backed by the filesystem, so the
// Manager can watch the files behind resource paths.
type Resolver interface {
	Resolve(path string) string
}

// FileLoader decodes image files, resolving relative paths against Root.
type FileLoader struct {
	Root string
}

// Resolve returns the filesystem path for a resource path.
func (l FileLoader) Resolve(path string) string {
	if l.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.Root, path)
}

func (l FileLoader) Load(path string) (*Texture, error) {
	img, err := texture.DecodeFile(l.Resolve(path))
	if err != nil {
		return nil, err
	}
	return NewTexture(img.Width, img.Height, img.Pixels), nil
}
