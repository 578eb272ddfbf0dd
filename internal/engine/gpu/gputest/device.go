// Package gputest provides an in-memory gpu.Device that records every
// call, for tests that exercise rendering without a GPU.
package gputest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/balala/internal/engine/gpu"
	"github.com/Faultbox/balala/pkg/math"
)

// ErrInjected is returned by creation methods when failure is injected.
var ErrInjected = errors.New("gputest: injected failure")

// Draw is one recorded DrawIndexed call together with the state bound
// at the time.
type Draw struct {
	Geometry   gpu.Geometry
	IndexCount int32
	Program    gpu.Program
	Texture    gpu.Texture
	Viewport   math.Rect[int32]
	MVP        math.Mat4
}

// TextureUpload is one recorded UploadTexture call.
type TextureUpload struct {
	Texture gpu.Texture
	Width   int
	Height  int
	Pixels  []byte
}

// Device is a fake gpu.Device. The zero value is not usable; use New.
type Device struct {
	// Uniforms is the set of uniform names every program exposes.
	Uniforms map[string]bool

	// Fail* make the matching creation call return ErrInjected.
	FailProgram  bool
	FailTexture  bool
	FailGeometry bool

	Calls    []string
	Draws    []Draw
	Clears   int
	Uploads  []TextureUpload
	Geometry map[gpu.Geometry]gpu.VertexStreams

	Programs   map[gpu.Program]bool
	Textures   map[gpu.Texture]bool
	Geometries map[gpu.Geometry]bool

	nextID   uint32
	program  gpu.Program
	texture  gpu.Texture
	viewport math.Rect[int32]
	mvp      math.Mat4
	uniforms map[gpu.Uniform]string
}

var _ gpu.Device = (*Device)(nil)

// New returns a Device that exposes the given uniform names.
func New(uniforms ...string) *Device {
	d := &Device{
		Uniforms:   make(map[string]bool),
		Geometry:   make(map[gpu.Geometry]gpu.VertexStreams),
		Programs:   make(map[gpu.Program]bool),
		Textures:   make(map[gpu.Texture]bool),
		Geometries: make(map[gpu.Geometry]bool),
		uniforms:   make(map[gpu.Uniform]string),
	}
	for _, u := range uniforms {
		d.Uniforms[u] = true
	}
	return d
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) CreateProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	d.record("CreateProgram")
	if d.FailProgram {
		return 0, ErrInjected
	}
	p := gpu.Program(d.id())
	d.Programs[p] = true
	return p, nil
}

func (d *Device) DeleteProgram(p gpu.Program) {
	d.record("DeleteProgram %d", p)
	delete(d.Programs, p)
}

func (d *Device) UseProgram(p gpu.Program) {
	d.record("UseProgram %d", p)
	d.program = p
}

func (d *Device) UniformLocation(p gpu.Program, name string) (gpu.Uniform, error) {
	if !d.Uniforms[name] {
		return -1, fmt.Errorf("%w: %q", gpu.ErrUniformNotFound, name)
	}
	u := gpu.Uniform(d.id())
	d.uniforms[u] = name
	return u, nil
}

func (d *Device) SetUniformMat4(u gpu.Uniform, m math.Mat4) {
	if d.uniforms[u] == "worldViewProjection" {
		d.mvp = m
	}
}

func (d *Device) SetUniformInt(u gpu.Uniform, v int32) {
	d.record("SetUniformInt %s %d", d.uniforms[u], v)
}

func (d *Device) Viewport(r math.Rect[int32]) {
	d.record("Viewport %d %d %d %d", r.X, r.Y, r.Width, r.Height)
	d.viewport = r
}

func (d *Device) Clear(r, g, b, a float32) {
	d.record("Clear")
	d.Clears++
}

func (d *Device) CreateTexture() (gpu.Texture, error) {
	d.record("CreateTexture")
	if d.FailTexture {
		return 0, ErrInjected
	}
	t := gpu.Texture(d.id())
	d.Textures[t] = true
	return t, nil
}

func (d *Device) UploadTexture(t gpu.Texture, width, height int, pixels []byte) {
	d.record("UploadTexture %d %dx%d", t, width, height)
	d.Uploads = append(d.Uploads, TextureUpload{Texture: t, Width: width, Height: height, Pixels: pixels})
}

func (d *Device) BindTexture(t gpu.Texture) {
	d.texture = t
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	d.record("DeleteTexture %d", t)
	delete(d.Textures, t)
}

func (d *Device) CreateGeometry() (gpu.Geometry, error) {
	d.record("CreateGeometry")
	if d.FailGeometry {
		return gpu.Geometry{}, ErrInjected
	}
	g := gpu.Geometry{VAO: d.id(), VBO: d.id(), EBO: d.id()}
	d.Geometries[g] = true
	return g, nil
}

func (d *Device) UploadGeometry(g gpu.Geometry, streams gpu.VertexStreams) {
	d.record("UploadGeometry %d", g.VAO)
	d.Geometry[g] = streams
}

// DrawIndexed records the draw with the current program, texture,
// viewport and the last matrix set for "worldViewProjection".
func (d *Device) DrawIndexed(g gpu.Geometry, indexCount int32) {
	draw := Draw{
		Geometry:   g,
		IndexCount: indexCount,
		Program:    d.program,
		Texture:    d.texture,
		Viewport:   d.viewport,
		MVP:        d.mvp,
	}
	d.Draws = append(d.Draws, draw)
}

func (d *Device) DeleteGeometry(g gpu.Geometry) {
	d.record("DeleteGeometry %d", g.VAO)
	delete(d.Geometries, g)
	delete(d.Geometry, g)
}

// Count returns how many recorded calls start with prefix.
func (d *Device) Count(prefix string) int {
	n := 0
	for _, c := range d.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls and draws but keeps live objects.
func (d *Device) Reset() {
	d.Calls = nil
	d.Draws = nil
	d.Uploads = nil
	d.Clears = 0
}
