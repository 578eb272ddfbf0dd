package level

import (
	"github.com/Faultbox/balala/internal/engine/scene"
	"github.com/Faultbox/balala/pkg/math"
)

// MoveSpeed is the player speed in units per second.
const MoveSpeed = 10

// Controller is the movement intent for one frame.
type Controller struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
}

// velocity returns the unit direction of travel, or false when the
// inputs cancel out.
func (c Controller) velocity() (math.Vec3, bool) {
	var v math.Vec3
	if c.Forward {
		v.Z -= 1
	}
	if c.Backward {
		v.Z += 1
	}
	if c.Left {
		v.X -= 1
	}
	if c.Right {
		v.X += 1
	}
	return v.TryNormalize(1e-6)
}

// Player is a movable pivot carrying a camera two units above it.
type Player struct {
	Pivot  scene.Handle
	Camera scene.Handle
}

// CameraSettings configure the player camera.
type CameraSettings struct {
	FOVDegrees float32
	Near       float32
	Far        float32
}

// NewPlayer adds the player nodes to s.
func NewPlayer(s *scene.Scene, cs CameraSettings) *Player {
	cam := scene.NewCamera()
	cam.FOV = cs.FOVDegrees
	cam.Near = cs.Near
	cam.Far = cs.Far

	camera := scene.NewNode(cam)
	camera.SetName("PlayerCamera")
	camera.SetLocalPosition(math.Vec3{Y: 2})

	pivot := scene.NewNode(nil)
	pivot.SetName("Player")
	pivot.SetLocalPosition(math.Vec3{Z: -20})

	p := &Player{
		Camera: s.AddNode(camera),
		Pivot:  s.AddNode(pivot),
	}
	s.LinkNodes(p.Camera, p.Pivot)
	return p
}

// Update moves the pivot along the controller direction.
func (p *Player) Update(s *scene.Scene, c Controller, dt float32) {
	pivot, ok := s.Node(p.Pivot)
	if !ok {
		return
	}
	if v, ok := c.velocity(); ok {
		pivot.Offset(v.Scale(MoveSpeed * dt))
	}
}
