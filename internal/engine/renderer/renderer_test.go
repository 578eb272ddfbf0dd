package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/balala/internal/engine/gpu/gputest"
	"github.com/Faultbox/balala/internal/engine/resource"
	"github.com/Faultbox/balala/internal/engine/scene"
	"github.com/Faultbox/balala/internal/engine/shader"
	"github.com/Faultbox/balala/internal/engine/surface"
	"github.com/Faultbox/balala/pkg/math"
)

func newDevice() *gputest.Device {
	return gputest.New(shader.UniformWorldViewProjection, shader.UniformDiffuseTexture)
}

func newRenderer(t *testing.T, dev *gputest.Device) *Renderer {
	t.Helper()
	r, err := New(dev, Config{Width: 800, Height: 600})
	require.NoError(t, err)
	dev.Reset()
	return r
}

func addCube(s *scene.Scene, pos math.Vec3) scene.Handle {
	mesh := scene.NewMesh()
	mesh.MakeCube()
	n := scene.NewNode(mesh)
	n.SetLocalPosition(pos)
	return s.AddNode(n)
}

func addCamera(s *scene.Scene) (*scene.Camera, scene.Handle) {
	cam := scene.NewCamera()
	n := scene.NewNode(cam)
	n.SetLocalPosition(math.Vec3{Z: -10})
	return cam, s.AddNode(n)
}

func TestNewCreatesProgramAndFallback(t *testing.T) {
	dev := newDevice()
	r, err := New(dev, Config{Width: 640, Height: 480})
	require.NoError(t, err)

	assert.Len(t, dev.Programs, 1)
	require.Len(t, dev.Uploads, 1)
	assert.Equal(t, gputest.TextureUpload{Texture: r.fallback, Width: 1, Height: 1, Pixels: []byte{255, 255, 255, 255}}, dev.Uploads[0])

	w, h := r.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestNewFailures(t *testing.T) {
	dev := newDevice()
	dev.FailProgram = true
	_, err := New(dev, Config{})
	assert.ErrorIs(t, err, gputest.ErrInjected)

	dev = newDevice()
	dev.FailTexture = true
	_, err = New(dev, Config{})
	assert.ErrorIs(t, err, gputest.ErrInjected)
	assert.Empty(t, dev.Programs, "program is released when construction fails")
}

func TestRenderDrawsEveryMeshPerCamera(t *testing.T) {
	dev := newDevice()
	r := newRenderer(t, dev)

	s := scene.New()
	cam, _ := addCamera(s)
	a := addCube(s, math.Vec3{X: 1})
	b := addCube(s, math.Vec3{X: -1})
	s.Update(800.0 / 600.0)

	require.NoError(t, r.Render([]*scene.Scene{s}))

	require.Len(t, dev.Draws, 2)
	assert.Equal(t, 1, dev.Clears)
	assert.Equal(t, 1, dev.Count("UseProgram"))

	// Children are discovered last-linked first.
	for i, h := range []scene.Handle{b, a} {
		node, _ := s.Node(h)
		want := cam.ViewProjection().Mul(node.GlobalTransform())
		assert.True(t, dev.Draws[i].MVP.ApproxEqual(want, 1e-5), "draw %d", i)
		assert.EqualValues(t, 36, dev.Draws[i].IndexCount)
		assert.Equal(t, math.Rect[int32]{Width: 800, Height: 600}, dev.Draws[i].Viewport)
		assert.Equal(t, r.fallback, dev.Draws[i].Texture)
	}

	assert.Equal(t, Stats{Scenes: 1, Cameras: 1, Meshes: 2, DrawCalls: 2}, r.LastFrame())
}

func TestRenderMultipleCameras(t *testing.T) {
	dev := newDevice()
	r := newRenderer(t, dev)

	s := scene.New()
	left, _ := addCamera(s)
	left.SetViewport(math.Rect[float32]{Width: 0.5, Height: 1})
	right, _ := addCamera(s)
	right.SetViewport(math.Rect[float32]{X: 0.5, Width: 0.5, Height: 1})
	addCube(s, math.Vec3{})
	s.AddNode(scene.NewNode(scene.NewLight()))
	s.Update(1)

	require.NoError(t, r.Render([]*scene.Scene{s}))

	require.Len(t, dev.Draws, 2)
	viewports := []math.Rect[int32]{dev.Draws[0].Viewport, dev.Draws[1].Viewport}
	assert.ElementsMatch(t, []math.Rect[int32]{
		{Width: 400, Height: 600},
		{X: 400, Width: 400, Height: 600},
	}, viewports)
	assert.Equal(t, 1, r.LastFrame().Lights)
}

func TestRenderWithoutCameraDrawsNothing(t *testing.T) {
	dev := newDevice()
	r := newRenderer(t, dev)

	s := scene.New()
	addCube(s, math.Vec3{})
	s.Update(1)

	require.NoError(t, r.Render([]*scene.Scene{s}))
	assert.Empty(t, dev.Draws)
	assert.Zero(t, dev.Count("CreateGeometry"))
}

func TestGeometryUploadedOnceAndShared(t *testing.T) {
	dev := newDevice()
	r := newRenderer(t, dev)

	s := scene.New()
	addCamera(s)
	data := surface.MakeCube()
	for i := 0; i < 3; i++ {
		mesh := scene.NewMesh()
		mesh.AddSurface(surface.New(data))
		s.AddNode(scene.NewNode(mesh))
	}
	s.Update(1)

	require.NoError(t, r.Render([]*scene.Scene{s}))
	require.NoError(t, r.Render([]*scene.Scene{s}))

	assert.Equal(t, 1, dev.Count("CreateGeometry"))
	assert.Equal(t, 1, dev.Count("UploadGeometry"))
	assert.Len(t, dev.Draws, 6)
	assert.False(t, data.NeedUpload())
	assert.Len(t, dev.Geometry[data.Geometry()].Positions, 24)

	data.MarkDirty()
	require.NoError(t, r.Render([]*scene.Scene{s}))
	assert.Equal(t, 1, dev.Count("CreateGeometry"))
	assert.Equal(t, 2, dev.Count("UploadGeometry"))
}

func TestRenderGeometryFailure(t *testing.T) {
	dev := newDevice()
	r := newRenderer(t, dev)
	dev.FailGeometry = true

	s := scene.New()
	addCamera(s)
	addCube(s, math.Vec3{})
	s.Update(1)

	assert.ErrorIs(t, r.Render([]*scene.Scene{s}), gputest.ErrInjected)
}

func TestMissingUniformPanics(t *testing.T) {
	dev := gputest.New(shader.UniformDiffuseTexture)
	r := newRenderer(t, dev)

	s := scene.New()
	s.Update(1)
	assert.Panics(t, func() { _ = r.Render([]*scene.Scene{s}) })
}

func TestUploadResources(t *testing.T) {
	dev := newDevice()
	r := newRenderer(t, dev)

	tex := resource.NewTexture(2, 2, make([]byte, 16))
	res := resource.NewTextureResource("floor.png", tex)
	base := resource.New("level.txt")

	require.NoError(t, r.UploadResources([]*resource.Resource{res, base}))
	assert.NotZero(t, tex.GPU)
	assert.False(t, tex.NeedUpload)
	require.Len(t, dev.Uploads, 1)
	assert.Equal(t, tex.GPU, dev.Uploads[0].Texture)

	require.NoError(t, r.UploadResources([]*resource.Resource{res}))
	assert.Len(t, dev.Uploads, 1, "clean textures are not uploaded again")

	id := tex.GPU
	tex.Replace(4, 4, make([]byte, 64))
	require.NoError(t, r.UploadResources([]*resource.Resource{res}))
	assert.Len(t, dev.Uploads, 2)
	assert.Equal(t, id, tex.GPU, "re-upload keeps the texture object")
	assert.Equal(t, 1, dev.Count("CreateTexture"))
}

func TestUploadResourcesFailure(t *testing.T) {
	dev := newDevice()
	r := newRenderer(t, dev)
	dev.FailTexture = true

	res := resource.NewTextureResource("a.png", resource.NewTexture(1, 1, make([]byte, 4)))
	assert.ErrorIs(t, r.UploadResources([]*resource.Resource{res}), gputest.ErrInjected)
}

func TestUploadResourcesRejectsShortPixelBuffer(t *testing.T) {
	dev := newDevice()
	r := newRenderer(t, dev)

	tex := &resource.Texture{Width: 2, Height: 2, Pixels: make([]byte, 4), NeedUpload: true}
	res := resource.NewTextureResource("short.png", tex)

	err := r.UploadResources([]*resource.Resource{res})
	assert.ErrorIs(t, err, ErrTextureSize)
	assert.Contains(t, err.Error(), "short.png")
	assert.Zero(t, dev.Count("CreateTexture"))
	assert.Empty(t, dev.Uploads)
	assert.True(t, tex.NeedUpload)
}

func TestReleasedTextureInUseIsUploadedAgain(t *testing.T) {
	dev := newDevice()
	r := newRenderer(t, dev)

	res := resource.NewTextureResource("crate.png", resource.NewTexture(1, 1, make([]byte, 4)))
	tex, _ := res.Texture()

	s := scene.New()
	addCamera(s)
	h := addCube(s, math.Vec3{})
	node, _ := s.Node(h)
	mesh, _ := node.Mesh()
	mesh.ApplyTexture(res)
	s.Update(1)

	require.NoError(t, r.UploadResources([]*resource.Resource{res}))
	require.NoError(t, r.Render([]*scene.Scene{s}))

	// Evicted from the cache but still applied to the cube.
	r.ReleaseTexture(res)
	require.NoError(t, r.UploadResources(nil))
	require.NotZero(t, tex.GPU)
	assert.False(t, tex.NeedUpload)

	require.NoError(t, r.Render([]*scene.Scene{s}))
	assert.Equal(t, tex.GPU, dev.Draws[len(dev.Draws)-1].Texture)

	// Once nothing draws it, a release sticks.
	s.RemoveNode(h)
	require.NoError(t, r.Render([]*scene.Scene{s}))
	r.ReleaseTexture(res)
	require.NoError(t, r.UploadResources(nil))
	assert.Zero(t, tex.GPU)
	assert.True(t, tex.NeedUpload)
}

func TestTexturedSurfaceBindsTexture(t *testing.T) {
	dev := newDevice()
	r := newRenderer(t, dev)

	res := resource.NewTextureResource("crate.png", resource.NewTexture(1, 1, make([]byte, 4)))

	s := scene.New()
	addCamera(s)
	h := addCube(s, math.Vec3{})
	node, _ := s.Node(h)
	mesh, _ := node.Mesh()
	mesh.ApplyTexture(res)
	s.Update(1)

	// Not uploaded yet: the fallback is bound.
	require.NoError(t, r.Render([]*scene.Scene{s}))
	assert.Equal(t, r.fallback, dev.Draws[0].Texture)

	require.NoError(t, r.UploadResources([]*resource.Resource{res}))
	require.NoError(t, r.Render([]*scene.Scene{s}))
	tex, _ := res.Texture()
	assert.Equal(t, tex.GPU, dev.Draws[1].Texture)

	r.ReleaseTexture(res)
	assert.Zero(t, tex.GPU)
	assert.True(t, tex.NeedUpload)
	assert.Equal(t, 1, dev.Count("DeleteTexture"))
}

func TestReleasedGeometryIsSwept(t *testing.T) {
	dev := newDevice()
	r := newRenderer(t, dev)

	s := scene.New()
	addCamera(s)
	h := addCube(s, math.Vec3{})
	s.Update(1)
	require.NoError(t, r.Render([]*scene.Scene{s}))
	require.Len(t, dev.Geometries, 1)

	s.RemoveNode(h)
	require.NoError(t, r.UploadResources(nil))

	assert.Empty(t, dev.Geometries)
	assert.Equal(t, 1, dev.Count("DeleteGeometry"))
	assert.Empty(t, r.uploaded)
}

func TestResize(t *testing.T) {
	dev := newDevice()
	r := newRenderer(t, dev)
	r.Resize(1024, 768)

	s := scene.New()
	addCamera(s)
	addCube(s, math.Vec3{})
	s.Update(1)
	require.NoError(t, r.Render([]*scene.Scene{s}))

	assert.Equal(t, math.Rect[int32]{Width: 1024, Height: 768}, dev.Draws[0].Viewport)
}

func TestClose(t *testing.T) {
	dev := newDevice()
	r := newRenderer(t, dev)

	s := scene.New()
	addCamera(s)
	addCube(s, math.Vec3{})
	s.Update(1)
	require.NoError(t, r.Render([]*scene.Scene{s}))

	r.Close()
	assert.Empty(t, dev.Programs)
	assert.Empty(t, dev.Textures)
	assert.Empty(t, dev.Geometries)
}
