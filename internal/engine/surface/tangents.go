package surface

import "github.com/Faultbox/balala/pkg/math"

const tangentEpsilon = 1e-8

// CalculateTangents fills Tangents from positions, normals and texture
// coordinates. W holds the bitangent handedness (+1 or -1). Without
// texture coordinates every tangent is (1,0,0,1).
func (d *SharedData) CalculateTangents() {
	n := len(d.Positions)
	d.Tangents = make([]math.Vec4, n)

	if len(d.TexCoords) != n || len(d.Normals) != n {
		for i := range d.Tangents {
			d.Tangents[i] = math.Vec4{X: 1, W: 1}
		}
		d.needUpload = true
		return
	}

	tan := make([]math.Vec3, n)
	bitan := make([]math.Vec3, n)

	for i := 0; i+2 < len(d.Indices); i += 3 {
		a, b, c := d.Indices[i], d.Indices[i+1], d.Indices[i+2]
		if int(a) >= n || int(b) >= n || int(c) >= n {
			continue
		}

		e1 := d.Positions[b].Sub(d.Positions[a])
		e2 := d.Positions[c].Sub(d.Positions[a])
		duv1 := d.TexCoords[b].Sub(d.TexCoords[a])
		duv2 := d.TexCoords[c].Sub(d.TexCoords[a])

		det := duv1.X*duv2.Y - duv2.X*duv1.Y
		if det > -tangentEpsilon && det < tangentEpsilon {
			continue
		}
		r := 1 / det

		t := e1.Scale(duv2.Y).Sub(e2.Scale(duv1.Y)).Scale(r)
		bt := e2.Scale(duv1.X).Sub(e1.Scale(duv2.X)).Scale(r)

		for _, v := range [3]uint32{a, b, c} {
			tan[v] = tan[v].Add(t)
			bitan[v] = bitan[v].Add(bt)
		}
	}

	for i := range d.Tangents {
		nrm := d.Normals[i]
		// Gram-Schmidt against the normal.
		t, ok := tan[i].Sub(nrm.Scale(nrm.Dot(tan[i]))).TryNormalize(tangentEpsilon)
		if !ok {
			d.Tangents[i] = math.Vec4{X: 1, W: 1}
			continue
		}
		w := float32(1)
		if nrm.Cross(t).Dot(bitan[i]) < 0 {
			w = -1
		}
		d.Tangents[i] = math.Vec4{X: t.X, Y: t.Y, Z: t.Z, W: w}
	}
	d.needUpload = true
}
