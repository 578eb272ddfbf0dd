package scene

import (
	"github.com/Faultbox/balala/internal/engine/resource"
	"github.com/Faultbox/balala/internal/engine/surface"
	"github.com/Faultbox/balala/pkg/math"
)

// Kind is the payload of a Node. The set is closed: Base, *Light,
// *Camera, *Mesh and *Custom. User extensions go through Custom.
type Kind interface {
	isKind()
}

// Base is a plain transform node.
type Base struct{}

func (Base) isKind() {}

// Light is a point light. It is collected by the renderer but not yet
// shaded.
type Light struct {
	Radius float32
	Color  math.Vec3
}

// NewLight returns a white light with radius 10.
func NewLight() *Light {
	return &Light{Radius: 10, Color: math.One3()}
}

func (*Light) isKind() {}

// Mesh draws a list of surfaces with the node's global transform.
type Mesh struct {
	surfaces []*surface.Surface
}

// NewMesh returns a mesh with no surfaces.
func NewMesh() *Mesh {
	return &Mesh{}
}

func (*Mesh) isKind() {}

// MakeCube replaces the surfaces with a single unit cube.
func (m *Mesh) MakeCube() {
	m.Release()
	m.surfaces = append(m.surfaces, surface.New(surface.MakeCube()))
}

// AddSurface appends s. The mesh takes over the caller's reference.
func (m *Mesh) AddSurface(s *surface.Surface) {
	m.surfaces = append(m.surfaces, s)
}

// ApplyTexture sets r on every surface.
func (m *Mesh) ApplyTexture(r *resource.Resource) {
	for _, s := range m.surfaces {
		s.SetTexture(r)
	}
}

// Surfaces returns the mesh surfaces in draw order.
func (m *Mesh) Surfaces() []*surface.Surface {
	return m.surfaces
}

// Release drops every surface and its geometry reference.
func (m *Mesh) Release() {
	for _, s := range m.surfaces {
		s.Release()
	}
	m.surfaces = m.surfaces[:0]
}

// Behavior is user logic attached to a Custom node.
type Behavior interface {
	Name() string
	// Update runs during Scene.Update once the node's global transform
	// is current.
	Update(n *Node)
}

// Custom carries a user Behavior.
type Custom struct {
	Behavior Behavior
}

func (*Custom) isKind() {}
