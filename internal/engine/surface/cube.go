package surface

import "github.com/Faultbox/balala/pkg/math"

// MakeCube returns a unit cube centered at the origin with per-face
// normals, texture coordinates and tangents.
func MakeCube() *SharedData {
	d := NewSharedData()

	faces := []struct {
		normal  math.Vec3
		corners [4]math.Vec3
	}{
		{math.Vec3{Z: 1}, [4]math.Vec3{{X: -0.5, Y: -0.5, Z: 0.5}, {X: -0.5, Y: 0.5, Z: 0.5}, {X: 0.5, Y: 0.5, Z: 0.5}, {X: 0.5, Y: -0.5, Z: 0.5}}},
		{math.Vec3{Z: -1}, [4]math.Vec3{{X: -0.5, Y: -0.5, Z: -0.5}, {X: -0.5, Y: 0.5, Z: -0.5}, {X: 0.5, Y: 0.5, Z: -0.5}, {X: 0.5, Y: -0.5, Z: -0.5}}},
		{math.Vec3{X: -1}, [4]math.Vec3{{X: -0.5, Y: -0.5, Z: -0.5}, {X: -0.5, Y: 0.5, Z: -0.5}, {X: -0.5, Y: 0.5, Z: 0.5}, {X: -0.5, Y: -0.5, Z: 0.5}}},
		{math.Vec3{X: 1}, [4]math.Vec3{{X: 0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: 0.5, Z: -0.5}, {X: 0.5, Y: 0.5, Z: 0.5}, {X: 0.5, Y: -0.5, Z: 0.5}}},
		{math.Vec3{Y: 1}, [4]math.Vec3{{X: -0.5, Y: 0.5, Z: 0.5}, {X: -0.5, Y: 0.5, Z: -0.5}, {X: 0.5, Y: 0.5, Z: -0.5}, {X: 0.5, Y: 0.5, Z: 0.5}}},
		{math.Vec3{Y: -1}, [4]math.Vec3{{X: -0.5, Y: -0.5, Z: 0.5}, {X: -0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: -0.5, Z: 0.5}}},
	}
	uvs := [4]math.Vec2{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}

	for _, f := range faces {
		for i, c := range f.corners {
			d.Positions = append(d.Positions, c)
			d.Normals = append(d.Normals, f.normal)
			d.TexCoords = append(d.TexCoords, uvs[i])
		}
	}

	// Winding alternates so every face is counter-clockwise seen from outside.
	d.Indices = []uint32{
		2, 1, 0, 3, 2, 0,
		4, 5, 6, 4, 6, 7,
		10, 9, 8, 11, 10, 8,
		12, 13, 14, 12, 14, 15,
		18, 17, 16, 19, 18, 16,
		20, 21, 22, 20, 22, 23,
	}

	d.CalculateTangents()
	return d
}
