// Package scene implements the scene graph: a rooted tree of nodes stored
// in a generational pool, with per-frame transform propagation.
package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/balala/internal/logger"
	"github.com/Faultbox/balala/pkg/math"
	"github.com/Faultbox/balala/pkg/pool"
)

// Scene owns its nodes. Handles to removed nodes go stale and every
// operation given a stale handle does nothing.
type Scene struct {
	nodes pool.Pool[*Node]
	root  Handle
	stack []Handle
	log   *zap.Logger
}

// New creates a scene containing only its root node.
func New() *Scene {
	s := &Scene{log: logger.Named("scene")}
	root := NewNode(Base{})
	root.name = "Root"
	s.root = s.nodes.Spawn(root)
	return s
}

// Root returns the root handle. The root lives as long as the scene.
func (s *Scene) Root() Handle {
	return s.root
}

// Node resolves h.
func (s *Scene) Node(h Handle) (*Node, bool) {
	n, ok := s.nodes.Borrow(h)
	if !ok {
		return nil, false
	}
	return *n, true
}

func (s *Scene) node(h Handle) *Node {
	n, _ := s.Node(h)
	return n
}

// NodeCount returns the number of live nodes, root included.
func (s *Scene) NodeCount() int {
	return s.nodes.Len()
}

// AddNode takes ownership of n and links it under the root.
func (s *Scene) AddNode(n *Node) Handle {
	n.parent = pool.None[*Node]()
	n.children = nil
	h := s.nodes.Spawn(n)
	s.LinkNodes(h, s.root)
	return h
}

// RemoveNode detaches h from its parent and frees it together with its
// whole subtree. Mesh surfaces are released. Removing the root is
// refused.
func (s *Scene) RemoveNode(h Handle) {
	if h == s.root {
		s.log.Debug("refusing to remove scene root")
		return
	}
	if !s.nodes.Contains(h) {
		return
	}
	s.UnlinkNode(h)

	s.stack = append(s.stack[:0], h)
	for len(s.stack) > 0 {
		last := len(s.stack) - 1
		cur := s.stack[last]
		s.stack = s.stack[:last]

		n := s.node(cur)
		if n == nil {
			continue
		}
		s.stack = append(s.stack, n.children...)
		if mesh, ok := n.Mesh(); ok {
			mesh.Release()
		}
		s.nodes.Free(cur)
	}
}

// Clear removes every node except the root.
func (s *Scene) Clear() {
	root := s.node(s.root)
	for len(root.children) > 0 {
		s.RemoveNode(root.children[len(root.children)-1])
	}
}

// LinkNodes makes child the last child of parent, detaching it from its
// previous parent first. Stale handles, linking the root, and links that
// would form a cycle are ignored.
func (s *Scene) LinkNodes(child, parent Handle) {
	c := s.node(child)
	p := s.node(parent)
	if c == nil || p == nil {
		return
	}
	if child == s.root {
		s.log.Debug("refusing to link scene root", zap.Stringer("parent", parent))
		return
	}
	if s.isAncestor(child, parent) {
		s.log.Debug("refusing to link node under its own subtree",
			zap.Stringer("child", child),
			zap.Stringer("parent", parent),
		)
		return
	}

	s.UnlinkNode(child)
	c.parent = parent
	p.children = append(p.children, child)
}

// isAncestor reports whether a is h or one of h's ancestors.
func (s *Scene) isAncestor(a, h Handle) bool {
	for !h.IsNone() {
		if h == a {
			return true
		}
		n := s.node(h)
		if n == nil {
			return false
		}
		h = n.parent
	}
	return false
}

// UnlinkNode detaches h from its parent. The node stays alive but is no
// longer reachable from the root until linked again.
func (s *Scene) UnlinkNode(h Handle) {
	n := s.node(h)
	if n == nil {
		return
	}
	parent := n.parent
	n.parent = pool.None[*Node]()
	if p := s.node(parent); p != nil {
		p.removeChild(h)
	}
}

// Update recomputes local and global transforms for every node reachable
// from the root, parents before children, then refreshes camera matrices
// and runs custom behaviors. Siblings are visited in reverse link order.
func (s *Scene) Update(aspect float32) {
	s.stack = append(s.stack[:0], s.root)
	for len(s.stack) > 0 {
		last := len(s.stack) - 1
		h := s.stack[last]
		s.stack = s.stack[:last]

		n := s.node(h)
		if n == nil {
			continue
		}

		n.calculateLocalTransform()
		parentGlobal := math.Identity()
		if p := s.node(n.parent); p != nil {
			parentGlobal = p.global
		}
		// Parents are popped before children, so p.global is final here.
		n.global = parentGlobal.Mul(n.local)

		switch k := n.kind.(type) {
		case *Camera:
			k.CalculateMatrices(n.GlobalPosition(), n.LookVector(), n.UpVector(), aspect)
		case *Custom:
			if k.Behavior != nil {
				k.Behavior.Update(n)
			}
		}

		s.stack = append(s.stack, n.children...)
	}
}

// FindByName returns the first node named name in pre-order.
func (s *Scene) FindByName(name string) (Handle, bool) {
	var found Handle
	ok := false
	s.Walk(func(h Handle, n *Node) bool {
		if n.name == name {
			found, ok = h, true
			return false
		}
		return true
	})
	if !ok {
		return pool.None[*Node](), false
	}
	return found, true
}

// Walk visits every node reachable from the root, parents first and
// children in link order, until fn returns false.
func (s *Scene) Walk(fn func(h Handle, n *Node) bool) {
	stack := []Handle{s.root}
	for len(stack) > 0 {
		last := len(stack) - 1
		h := stack[last]
		stack = stack[:last]

		n := s.node(h)
		if n == nil {
			continue
		}
		if !fn(h, n) {
			return
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}
