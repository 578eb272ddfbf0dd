package surface

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/balala/internal/engine/gpu"
	"github.com/Faultbox/balala/internal/engine/resource"
	"github.com/Faultbox/balala/pkg/math"
)

func TestMakeCube(t *testing.T) {
	d := MakeCube()

	assert.Len(t, d.Positions, 24)
	assert.Len(t, d.Normals, 24)
	assert.Len(t, d.TexCoords, 24)
	assert.Len(t, d.Tangents, 24)
	assert.Len(t, d.Indices, 36)
	assert.EqualValues(t, 36, d.IndexCount())
	assert.True(t, d.NeedUpload())

	for _, i := range d.Indices {
		assert.Less(t, int(i), 24)
	}
	for _, p := range d.Positions {
		assert.InDelta(t, 0.5, math32.Abs(p.X), 1e-6)
		assert.InDelta(t, 0.5, math32.Abs(p.Y), 1e-6)
		assert.InDelta(t, 0.5, math32.Abs(p.Z), 1e-6)
	}
}

func TestCubeTangentsOrthogonalToNormals(t *testing.T) {
	d := MakeCube()
	for i, tan := range d.Tangents {
		v := math.Vec3{X: tan.X, Y: tan.Y, Z: tan.Z}
		assert.InDelta(t, 1, v.Length(), 1e-5, "tangent %d not unit length", i)
		assert.InDelta(t, 0, v.Dot(d.Normals[i]), 1e-5, "tangent %d not orthogonal", i)
		assert.Contains(t, []float32{-1, 1}, tan.W)
	}
}

func TestCalculateTangentsWithoutTexCoords(t *testing.T) {
	d := NewSharedData()
	d.Positions = []math.Vec3{{}, {X: 1}, {Y: 1}}
	d.Indices = []uint32{0, 1, 2}

	d.CalculateTangents()
	for _, tan := range d.Tangents {
		assert.Equal(t, math.Vec4{X: 1, W: 1}, tan)
	}
}

func TestCalculateTangentsPlanarQuad(t *testing.T) {
	d := NewSharedData()
	d.Positions = []math.Vec3{{}, {X: 1}, {X: 1, Y: 1}}
	d.Normals = []math.Vec3{{Z: 1}, {Z: 1}, {Z: 1}}
	d.TexCoords = []math.Vec2{{}, {X: 1}, {X: 1, Y: 1}}
	d.Indices = []uint32{0, 1, 2}

	d.CalculateTangents()
	for _, tan := range d.Tangents {
		assert.InDelta(t, 1, tan.X, 1e-6)
		assert.InDelta(t, 0, tan.Y, 1e-6)
		assert.Equal(t, float32(1), tan.W)
	}
}

func TestSharedDataRefcount(t *testing.T) {
	d := MakeCube()
	assert.True(t, d.Released())

	a := New(d)
	b := New(d)
	assert.Equal(t, 2, d.Refs())

	a.Release()
	a.Release()
	assert.Nil(t, a.Data())
	assert.Equal(t, 1, d.Refs())
	assert.False(t, d.Released())

	b.Release()
	assert.True(t, d.Released())
}

func TestUploadState(t *testing.T) {
	d := MakeCube()
	g := gpu.Geometry{VAO: 1, VBO: 2, EBO: 3}

	d.MarkUploaded(g)
	assert.False(t, d.NeedUpload())
	assert.Equal(t, g, d.Geometry())

	d.MarkDirty()
	assert.True(t, d.NeedUpload())

	assert.Equal(t, g, d.TakeGeometry())
	assert.True(t, d.Geometry().IsZero())
}

func TestStreams(t *testing.T) {
	d := MakeCube()
	s := d.Streams()
	assert.Len(t, s.Positions, 24)
	assert.Len(t, s.Tangents, 24)
	assert.Equal(t, d.Indices, s.Indices)
}

func TestSetTexture(t *testing.T) {
	s := New(MakeCube())

	tex := resource.NewTextureResource("crate.png", resource.NewTexture(1, 1, make([]byte, 4)))
	s.SetTexture(tex)
	require.Same(t, tex, s.Texture())

	s.SetTexture(resource.New("notes.txt"))
	assert.Nil(t, s.Texture(), "non-texture resources clear the texture")

	s.SetTexture(tex)
	s.SetTexture(nil)
	assert.Nil(t, s.Texture())
}
