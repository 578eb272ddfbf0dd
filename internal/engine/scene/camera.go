package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/balala/pkg/math"
)

// Camera renders the scene from its node's global transform. The node
// looks along its local +Z axis with +Y up.
type Camera struct {
	FOV  float32 // vertical, degrees
	Near float32
	Far  float32

	viewport   math.Rect[float32]
	view       math.Mat4
	projection math.Mat4
}

// NewCamera returns a 45 degree camera covering the whole framebuffer.
func NewCamera() *Camera {
	c := &Camera{
		FOV:      45,
		Near:     1,
		Far:      1000,
		viewport: math.Rect[float32]{Width: 1, Height: 1},
		view:     math.Identity(),
	}
	c.projection = math.Perspective(radians(c.FOV), 1, c.Near, c.Far)
	return c
}

func (*Camera) isKind() {}

func radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// CalculateMatrices rebuilds the view and projection matrices for a
// camera at eye facing look.
func (c *Camera) CalculateMatrices(eye, look, up math.Vec3, aspect float32) {
	c.view = math.LookAt(eye, eye.Add(look), up)
	c.projection = math.Perspective(radians(c.FOV), aspect, c.Near, c.Far)
}

// Viewport returns the normalized viewport rectangle.
func (c *Camera) Viewport() math.Rect[float32] { return c.viewport }

// SetViewport sets the viewport as fractions of the framebuffer.
func (c *Camera) SetViewport(r math.Rect[float32]) { c.viewport = r }

// ViewportPixels scales the viewport to a framebuffer of the given size.
func (c *Camera) ViewportPixels(width, height int32) math.Rect[int32] {
	w, h := float32(width), float32(height)
	return math.Rect[int32]{
		X:      int32(c.viewport.X * w),
		Y:      int32(c.viewport.Y * h),
		Width:  int32(c.viewport.Width * w),
		Height: int32(c.viewport.Height * h),
	}
}

func (c *Camera) View() math.Mat4 { return c.view }
func (c *Camera) Projection() math.Mat4 { return c.projection }

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.projection.Mul(c.view)
}
