package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/balala/pkg/math"
)

func TestPackLayout(t *testing.T) {
	streams := VertexStreams{
		Positions: []math.Vec3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}},
		TexCoords: []math.Vec2{{X: 0.5, Y: 1}, {X: 0, Y: 0}},
		Normals:   []math.Vec3{{Z: 1}, {Z: 1}},
	}

	data, layout := streams.Pack()

	assert.Len(t, data, 2*3+2*2+2*3)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, data[:6])
	assert.Equal(t, []float32{0.5, 1, 0, 0}, data[6:10])

	assert.Equal(t, Attribute{Components: 3, Offset: 0, Count: 2}, layout[0])
	assert.Equal(t, Attribute{Components: 2, Offset: 6, Count: 2}, layout[1])
	assert.Equal(t, Attribute{Components: 3, Offset: 10, Count: 2}, layout[2])
	assert.Zero(t, layout[3].Count, "missing tangents leave the attribute disabled")
}

func TestGeometryIsZero(t *testing.T) {
	assert.True(t, Geometry{}.IsZero())
	assert.False(t, Geometry{VAO: 1}.IsZero())
}
