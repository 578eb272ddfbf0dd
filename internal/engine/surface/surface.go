// Package surface holds drawable geometry shared between meshes.
package surface

import (
	"github.com/Faultbox/balala/internal/engine/gpu"
	"github.com/Faultbox/balala/internal/engine/resource"
	"github.com/Faultbox/balala/pkg/math"
)

// SharedData is CPU-side geometry that may back several surfaces. The
// GPU buffers are created on first draw and deleted once the last
// surface referencing the data is released.
type SharedData struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	TexCoords []math.Vec2
	Tangents  []math.Vec4
	Indices   []uint32

	needUpload bool
	geometry   gpu.Geometry
	refs       int
}

// NewSharedData returns empty geometry marked for upload.
func NewSharedData() *SharedData {
	return &SharedData{needUpload: true}
}

// MarkDirty schedules a re-upload after the vertex data changed.
func (d *SharedData) MarkDirty() { d.needUpload = true }

// NeedUpload reports whether CPU data differs from the GPU copy.
func (d *SharedData) NeedUpload() bool { return d.needUpload }

// Geometry returns the GPU buffers, zero if never uploaded.
func (d *SharedData) Geometry() gpu.Geometry { return d.geometry }

// MarkUploaded records the buffers holding the current data.
func (d *SharedData) MarkUploaded(g gpu.Geometry) {
	d.geometry = g
	d.needUpload = false
}

// TakeGeometry forgets the GPU buffers and returns them for deletion.
// The data needs uploading again if it is drawn later.
func (d *SharedData) TakeGeometry() gpu.Geometry {
	g := d.geometry
	d.geometry = gpu.Geometry{}
	d.needUpload = true
	return g
}

// Refs returns the number of surfaces holding the data.
func (d *SharedData) Refs() int { return d.refs }

// Released reports whether no surface holds the data any more.
func (d *SharedData) Released() bool { return d.refs <= 0 }

// IndexCount returns the number of indices to draw.
func (d *SharedData) IndexCount() int32 { return int32(len(d.Indices)) }

// Streams returns the vertex data in upload layout.
func (d *SharedData) Streams() gpu.VertexStreams {
	return gpu.VertexStreams{
		Positions: d.Positions,
		TexCoords: d.TexCoords,
		Normals:   d.Normals,
		Tangents:  d.Tangents,
		Indices:   d.Indices,
	}
}

// Surface draws shared geometry with an optional texture.
type Surface struct {
	data    *SharedData
	texture *resource.Resource
}

// New returns a surface holding a reference to data.
func New(data *SharedData) *Surface {
	data.refs++
	return &Surface{data: data}
}

// Data returns the shared geometry, nil after Release.
func (s *Surface) Data() *SharedData { return s.data }

// Texture returns the applied texture resource, if any.
func (s *Surface) Texture() *resource.Resource { return s.texture }

// SetTexture applies r. Resources that are not textures clear the
// texture instead.
func (s *Surface) SetTexture(r *resource.Resource) {
	if r == nil || r.Kind() != resource.KindTexture {
		s.texture = nil
		return
	}
	s.texture = r
}

// Release drops the reference to the shared data. It is safe to call
// more than once.
func (s *Surface) Release() {
	if s.data == nil {
		return
	}
	s.data.refs--
	s.data = nil
	s.texture = nil
}
