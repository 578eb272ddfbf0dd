// Package opengl implements gpu.Device on top of OpenGL 4.1 core.
package opengl

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/balala/internal/engine/gpu"
	"github.com/Faultbox/balala/internal/logger"
	"github.com/Faultbox/balala/pkg/math"
)

const floatSize = int(unsafe.Sizeof(float32(0)))

// Device issues OpenGL calls. It must only be used from the thread that
// owns the current context.
type Device struct {
	log *zap.Logger
}

var _ gpu.Device = (*Device)(nil)

// New loads OpenGL function pointers and sets default pipeline state.
// IMPORTANT: Must be called AFTER the OpenGL context is current.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &Device{log: logger.Named("gl")}
	d.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	return d, nil
}

// CreateProgram compiles and links a program.
func (d *Device) CreateProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	program, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return 0, err
	}
	d.log.Debug("shader program created", zap.Uint32("program", program))
	return gpu.Program(program), nil
}

// DeleteProgram deletes a program.
func (d *Device) DeleteProgram(p gpu.Program) {
	gl.DeleteProgram(uint32(p))
}

// UseProgram binds a program.
func (d *Device) UseProgram(p gpu.Program) {
	gl.UseProgram(uint32(p))
}

// UniformLocation looks up an active uniform.
func (d *Device) UniformLocation(p gpu.Program, name string) (gpu.Uniform, error) {
	loc, ok := uniformLocation(uint32(p), name)
	if !ok {
		return -1, fmt.Errorf("%w: %q in program %d", gpu.ErrUniformNotFound, name, p)
	}
	return gpu.Uniform(loc), nil
}

// SetUniformMat4 uploads a column-major matrix.
func (d *Device) SetUniformMat4(u gpu.Uniform, m math.Mat4) {
	gl.UniformMatrix4fv(int32(u), 1, false, m.Ptr())
}

// SetUniformInt uploads an integer (sampler unit) uniform.
func (d *Device) SetUniformInt(u gpu.Uniform, v int32) {
	gl.Uniform1i(int32(u), v)
}

// Viewport sets the viewport rectangle in pixels.
func (d *Device) Viewport(r math.Rect[int32]) {
	gl.Viewport(r.X, r.Y, r.Width, r.Height)
}

// Clear clears color and depth buffers.
func (d *Device) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// CreateTexture allocates a texture object.
func (d *Device) CreateTexture() (gpu.Texture, error) {
	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return 0, errors.New("glGenTextures returned no texture")
	}
	return gpu.Texture(id), nil
}

// UploadTexture uploads RGBA8 pixels with trilinear filtering and mipmaps.
func (d *Device) UploadTexture(t gpu.Texture, width, height int, pixels []byte) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
	var data unsafe.Pointer
	if len(pixels) > 0 {
		data = gl.Ptr(pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, data)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// BindTexture binds t to texture unit 0. Zero unbinds.
func (d *Device) BindTexture(t gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

// DeleteTexture deletes a texture object.
func (d *Device) DeleteTexture(t gpu.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

// CreateGeometry allocates a vertex array with a vertex and an index buffer.
func (d *Device) CreateGeometry() (gpu.Geometry, error) {
	var g gpu.Geometry
	gl.GenVertexArrays(1, &g.VAO)
	gl.GenBuffers(1, &g.VBO)
	gl.GenBuffers(1, &g.EBO)
	if g.VAO == 0 || g.VBO == 0 || g.EBO == 0 {
		d.DeleteGeometry(g)
		return gpu.Geometry{}, errors.New("failed to allocate vertex array or buffers")
	}
	return g, nil
}

// UploadGeometry uploads the attribute streams back to back into the
// vertex buffer and wires attribute pointers.
func (d *Device) UploadGeometry(g gpu.Geometry, streams gpu.VertexStreams) {
	data, layout := streams.Pack()

	gl.BindVertexArray(g.VAO)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.EBO)
	if len(streams.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(streams.Indices)*4, gl.Ptr(streams.Indices), gl.STATIC_DRAW)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, g.VBO)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*floatSize, gl.Ptr(data), gl.STATIC_DRAW)
	}

	for location, attr := range layout {
		if attr.Count == 0 {
			gl.DisableVertexAttribArray(uint32(location))
			continue
		}
		gl.VertexAttribPointerWithOffset(uint32(location), attr.Components, gl.FLOAT, false,
			attr.Components*int32(floatSize), uintptr(attr.Offset*floatSize))
		gl.EnableVertexAttribArray(uint32(location))
	}

	gl.BindVertexArray(0)
}

// DrawIndexed draws indexed triangles.
func (d *Device) DrawIndexed(g gpu.Geometry, indexCount int32) {
	gl.BindVertexArray(g.VAO)
	gl.DrawElements(gl.TRIANGLES, indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DeleteGeometry deletes the buffers behind g. Zero ids are ignored by GL.
func (d *Device) DeleteGeometry(g gpu.Geometry) {
	gl.DeleteBuffers(1, &g.VBO)
	gl.DeleteBuffers(1, &g.EBO)
	gl.DeleteVertexArrays(1, &g.VAO)
}
