package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/balala/pkg/math"
	"github.com/Faultbox/balala/pkg/pool"
)

// ErrInvalidPivot is returned by SetPivots for values that would make
// the local transform impossible to compose.
var ErrInvalidPivot = errors.New("invalid pivot")

// Handle references a node in a Scene.
type Handle = pool.Handle[*Node]

// Pivots are the rotation and scaling pivot/offset terms used by
// imported assets. Each is a rotation vector (axis scaled by angle in
// radians). All zero collapses the local transform to T*R*S.
type Pivots struct {
	RotationOffset math.Vec3
	RotationPivot  math.Vec3
	ScalingOffset  math.Vec3
	ScalingPivot   math.Vec3
}

// Node is an element of the scene graph.
type Node struct {
	name string
	kind Kind

	position     math.Vec3
	scale        math.Vec3
	rotation     math.Quat
	preRotation  math.Quat
	postRotation math.Quat
	pivots       Pivots

	parent   Handle
	children []Handle

	local  math.Mat4
	global math.Mat4
}

// NewNode returns a detached node with an identity transform. A nil
// kind means Base.
func NewNode(kind Kind) *Node {
	if kind == nil {
		kind = Base{}
	}
	return &Node{
		name:         "Node",
		kind:         kind,
		scale:        math.One3(),
		rotation:     math.QuatIdentity(),
		preRotation:  math.QuatIdentity(),
		postRotation: math.QuatIdentity(),
		parent:       pool.None[*Node](),
		local:        math.Identity(),
		global:       math.Identity(),
	}
}

func (n *Node) Name() string { return n.name }
func (n *Node) SetName(name string) { n.name = name }
func (n *Node) Kind() Kind { return n.kind }

// Camera returns the camera payload, if the node is a camera.
func (n *Node) Camera() (*Camera, bool) {
	c, ok := n.kind.(*Camera)
	return c, ok
}

// Mesh returns the mesh payload, if the node is a mesh.
func (n *Node) Mesh() (*Mesh, bool) {
	m, ok := n.kind.(*Mesh)
	return m, ok
}

// Light returns the light payload, if the node is a light.
func (n *Node) Light() (*Light, bool) {
	l, ok := n.kind.(*Light)
	return l, ok
}

func (n *Node) LocalPosition() math.Vec3 { return n.position }
func (n *Node) SetLocalPosition(p math.Vec3) { n.position = p }
func (n *Node) LocalScale() math.Vec3 { return n.scale }
func (n *Node) SetLocalScale(s math.Vec3) { n.scale = s }
func (n *Node) LocalRotation() math.Quat { return n.rotation }
func (n *Node) SetLocalRotation(q math.Quat) { n.rotation = q.Normalize() }
func (n *Node) SetPreRotation(q math.Quat) { n.preRotation = q.Normalize() }
func (n *Node) SetPostRotation(q math.Quat) { n.postRotation = q.Normalize() }
func (n *Node) Pivots() Pivots { return n.pivots }
func (n *Node) Parent() Handle { return n.parent }
func (n *Node) LocalTransform() math.Mat4 { return n.local }
func (n *Node) GlobalTransform() math.Mat4 { return n.global }

// Offset moves the node by v in parent space.
func (n *Node) Offset(v math.Vec3) {
	n.position = n.position.Add(v)
}

// Children returns the child handles in link order. The slice must not
// be modified.
func (n *Node) Children() []Handle {
	return n.children
}

// SetPivots validates and sets the pivot/offset terms.
func (n *Node) SetPivots(p Pivots) error {
	for name, v := range map[string]math.Vec3{
		"rotation offset": p.RotationOffset,
		"rotation pivot":  p.RotationPivot,
		"scaling offset":  p.ScalingOffset,
		"scaling pivot":   p.ScalingPivot,
	} {
		if !v.IsFinite() {
			return fmt.Errorf("%w: %s %v is not finite", ErrInvalidPivot, name, v)
		}
	}
	n.pivots = p
	return nil
}

// GlobalPosition is the translation of the global transform.
func (n *Node) GlobalPosition() math.Vec3 { return n.global.Translation() }

// SideVector is the global X axis.
func (n *Node) SideVector() math.Vec3 { return n.global.Column(0) }

// UpVector is the global Y axis.
func (n *Node) UpVector() math.Vec3 { return n.global.Column(1) }

// LookVector is the global Z axis.
func (n *Node) LookVector() math.Vec3 { return n.global.Column(2) }

// calculateLocalTransform composes
//
//	T * Ro * Rp * Rpre * R * Rpost^-1 * Rp^-1 * So * Sp * S * Sp^-1
//
// Inverses are of pure rotations and cannot fail for validated pivots;
// MustInverse panics otherwise.
func (n *Node) calculateLocalTransform() {
	rotPivot := math.FromScaledAxis(n.pivots.RotationPivot)
	scalePivot := math.FromScaledAxis(n.pivots.ScalingPivot)

	n.local = math.Translate(n.position).
		Mul(math.FromScaledAxis(n.pivots.RotationOffset)).
		Mul(rotPivot).
		Mul(n.preRotation.ToMat4()).
		Mul(n.rotation.ToMat4()).
		Mul(n.postRotation.ToMat4().MustInverse()).
		Mul(rotPivot.MustInverse()).
		Mul(math.FromScaledAxis(n.pivots.ScalingOffset)).
		Mul(scalePivot).
		Mul(math.Scale(n.scale)).
		Mul(scalePivot.MustInverse())
}

func (n *Node) removeChild(h Handle) {
	for i, c := range n.children {
		if c == h {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}
