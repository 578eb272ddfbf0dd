package renderer

import (
	"fmt"

	"github.com/Faultbox/balala/internal/engine/gpu"
	"github.com/Faultbox/balala/internal/engine/resource"
	"github.com/Faultbox/balala/internal/engine/scene"
	"github.com/Faultbox/balala/internal/engine/shader"
	"github.com/Faultbox/balala/internal/engine/surface"
)

// Render clears the framebuffer and draws each scene. For every camera,
// in discovery order, every mesh is drawn with
// mvp = projection * view * global.
//
// A missing shader uniform panics. GPU allocation failures are returned.
func (r *Renderer) Render(scenes []*scene.Scene) error {
	c := r.config.ClearColor
	r.dev.Clear(c[0], c[1], c[2], 1)

	r.stats = Stats{Scenes: len(scenes)}
	clear(r.inUseSet)
	clear(r.inUse)
	r.inUse = r.inUse[:0]
	for _, s := range scenes {
		if err := r.renderScene(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderScene(s *scene.Scene) error {
	r.collect(s)

	r.dev.UseProgram(r.program)
	wvp := r.mustUniform(shader.UniformWorldViewProjection)
	r.dev.SetUniformInt(r.mustUniform(shader.UniformDiffuseTexture), 0)

	width, height := int32(r.config.Width), int32(r.config.Height)
	for _, ch := range r.cameras {
		node, ok := s.Node(ch)
		if !ok {
			continue
		}
		cam, _ := node.Camera()
		r.dev.Viewport(cam.ViewportPixels(width, height))
		viewProjection := cam.ViewProjection()

		for _, mh := range r.meshes {
			node, ok := s.Node(mh)
			if !ok {
				continue
			}
			mesh, _ := node.Mesh()
			r.dev.SetUniformMat4(wvp, viewProjection.Mul(node.GlobalTransform()))
			for _, surf := range mesh.Surfaces() {
				if err := r.drawSurface(surf); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// collect sorts the nodes reachable from the root into the camera,
// light and mesh buckets.
func (r *Renderer) collect(s *scene.Scene) {
	r.cameras = r.cameras[:0]
	r.lights = r.lights[:0]
	r.meshes = r.meshes[:0]
	r.stack = append(r.stack[:0], s.Root())

	for len(r.stack) > 0 {
		last := len(r.stack) - 1
		h := r.stack[last]
		r.stack = r.stack[:last]

		node, ok := s.Node(h)
		if !ok {
			continue
		}
		switch node.Kind().(type) {
		case *scene.Camera:
			r.cameras = append(r.cameras, h)
		case *scene.Light:
			r.lights = append(r.lights, h)
		case *scene.Mesh:
			r.meshes = append(r.meshes, h)
		}
		r.stack = append(r.stack, node.Children()...)
	}

	r.stats.Cameras += len(r.cameras)
	r.stats.Lights += len(r.lights)
	r.stats.Meshes += len(r.meshes)
}

func (r *Renderer) mustUniform(name string) gpu.Uniform {
	u, err := r.dev.UniformLocation(r.program, name)
	if err != nil {
		panic(fmt.Sprintf("renderer: %v", err))
	}
	return u
}

// drawSurface uploads the surface geometry on first use, then draws it
// with its texture or the fallback.
func (r *Renderer) drawSurface(s *surface.Surface) error {
	data := s.Data()
	if data == nil {
		return nil
	}
	if data.NeedUpload() {
		g := data.Geometry()
		if g.IsZero() {
			var err error
			if g, err = r.dev.CreateGeometry(); err != nil {
				return fmt.Errorf("creating geometry: %w", err)
			}
			r.uploaded = append(r.uploaded, data)
		}
		r.dev.UploadGeometry(g, data.Streams())
		data.MarkUploaded(g)
	}

	tex := r.fallback
	if res := s.Texture(); res != nil {
		r.markInUse(res)
		if t, err := res.Texture(); err == nil && t.GPU != 0 {
			tex = t.GPU
		}
	}
	r.dev.BindTexture(tex)
	r.dev.DrawIndexed(data.Geometry(), data.IndexCount())
	r.stats.DrawCalls++
	return nil
}

func (r *Renderer) markInUse(res *resource.Resource) {
	if _, ok := r.inUseSet[res]; ok {
		return
	}
	r.inUseSet[res] = struct{}{}
	r.inUse = append(r.inUse, res)
}
