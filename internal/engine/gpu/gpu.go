// Package gpu defines the graphics context handle the renderer draws
// through. The opengl subpackage implements it over OpenGL 4.1 core and
// gputest records calls in memory.
package gpu

import (
	"errors"

	"github.com/Faultbox/balala/pkg/math"
)

// ErrUniformNotFound is returned when a program has no active uniform
// with the requested name.
var ErrUniformNotFound = errors.New("uniform not found")

// Program identifies a linked shader program. Zero is never a valid program.
type Program uint32

// Texture identifies a GPU texture object. Zero means "no texture".
type Texture uint32

// Uniform is a uniform location within a program.
type Uniform int32

// Geometry identifies the buffers backing one indexed mesh. The zero
// value means "not allocated".
type Geometry struct {
	VAO uint32
	VBO uint32
	EBO uint32
}

// IsZero reports whether no buffers are allocated.
func (g Geometry) IsZero() bool {
	return g == Geometry{}
}

// VertexStreams is CPU-side geometry laid out as separate attribute
// streams. Attribute locations are 0 position, 1 tex coord, 2 normal,
// 3 tangent.
type VertexStreams struct {
	Positions []math.Vec3
	TexCoords []math.Vec2
	Normals   []math.Vec3
	Tangents  []math.Vec4
	Indices   []uint32
}

// Attribute locates one attribute stream inside a packed vertex buffer.
type Attribute struct {
	Components int32
	Offset     int // in floats
	Count      int // in vertices
}

// Pack flattens the attribute streams back to back into one float
// slice, ordered by attribute location. Empty streams get Count 0.
func (s VertexStreams) Pack() ([]float32, [4]Attribute) {
	total := len(s.Positions)*3 + len(s.TexCoords)*2 + len(s.Normals)*3 + len(s.Tangents)*4
	data := make([]float32, 0, total)

	var layout [4]Attribute

	layout[0] = Attribute{Components: 3, Offset: len(data), Count: len(s.Positions)}
	for _, p := range s.Positions {
		data = append(data, p.X, p.Y, p.Z)
	}
	layout[1] = Attribute{Components: 2, Offset: len(data), Count: len(s.TexCoords)}
	for _, t := range s.TexCoords {
		data = append(data, t.X, t.Y)
	}
	layout[2] = Attribute{Components: 3, Offset: len(data), Count: len(s.Normals)}
	for _, n := range s.Normals {
		data = append(data, n.X, n.Y, n.Z)
	}
	layout[3] = Attribute{Components: 4, Offset: len(data), Count: len(s.Tangents)}
	for _, t := range s.Tangents {
		data = append(data, t.X, t.Y, t.Z, t.W)
	}

	return data, layout
}

// Device is an explicitly passed graphics context. All methods must be
// called from the thread that owns the context.
type Device interface {
	// CreateProgram compiles and links a vertex/fragment program.
	CreateProgram(vertexSrc, fragmentSrc string) (Program, error)
	DeleteProgram(p Program)
	UseProgram(p Program)
	// UniformLocation returns ErrUniformNotFound for unknown names.
	UniformLocation(p Program, name string) (Uniform, error)
	SetUniformMat4(u Uniform, m math.Mat4)
	SetUniformInt(u Uniform, v int32)

	Viewport(r math.Rect[int32])
	Clear(r, g, b, a float32)

	CreateTexture() (Texture, error)
	// UploadTexture uploads RGBA8 pixels, sets filtering and generates mipmaps.
	UploadTexture(t Texture, width, height int, pixels []byte)
	BindTexture(t Texture)
	DeleteTexture(t Texture)

	CreateGeometry() (Geometry, error)
	UploadGeometry(g Geometry, streams VertexStreams)
	DrawIndexed(g Geometry, indexCount int32)
	DeleteGeometry(g Geometry)
}
