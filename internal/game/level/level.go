// Package level builds the demo scene: a floor, a grid of spinning
// cubes and a player-controlled camera.
package level

import (
	"go.uber.org/zap"

	"github.com/Faultbox/balala/internal/engine/engine"
	"github.com/Faultbox/balala/internal/engine/scene"
	"github.com/Faultbox/balala/internal/logger"
	"github.com/Faultbox/balala/pkg/math"
)

// SpinSpeed is the cube rotation speed in radians per second.
const SpinSpeed = 6

// Config selects level content.
type Config struct {
	FloorTexture string
	Cubes        int // per axis
	Camera       CameraSettings
}

// Level owns the demo scene inside an engine.
type Level struct {
	Scene  engine.SceneHandle
	Player *Player

	cubes []scene.Handle
	angle float32
}

// New builds the level and registers its scene with e.
func New(e *engine.Engine, cfg Config) *Level {
	s := scene.New()

	floorMesh := scene.NewMesh()
	floorMesh.MakeCube()
	if cfg.FloorTexture != "" {
		if tex, ok := e.RequestTexture(cfg.FloorTexture); ok {
			floorMesh.ApplyTexture(tex)
		}
	}
	floor := scene.NewNode(floorMesh)
	floor.SetName("Floor")
	floor.SetLocalScale(math.Vec3{X: 10, Y: 0.1, Z: 10})
	s.AddNode(floor)

	l := &Level{}
	for i := 0; i < cfg.Cubes; i++ {
		for j := 0; j < cfg.Cubes; j++ {
			for k := 0; k < cfg.Cubes; k++ {
				mesh := scene.NewMesh()
				mesh.MakeCube()
				cube := scene.NewNode(mesh)
				cube.SetName("Cube")
				cube.SetLocalPosition(math.Vec3{X: float32(i) * 2, Y: float32(j) * 2, Z: float32(k) * 2})
				l.cubes = append(l.cubes, s.AddNode(cube))
			}
		}
	}

	l.Player = NewPlayer(s, cfg.Camera)
	l.Scene = e.AddScene(s)

	logger.Debug("level created",
		zap.Int("cubes", len(l.cubes)),
		zap.Int("nodes", s.NodeCount()),
	)
	return l
}

// Cubes returns the spinning cube handles.
func (l *Level) Cubes() []scene.Handle {
	return l.cubes
}

// Update spins the cubes and moves the player.
func (l *Level) Update(e *engine.Engine, c Controller, dt float32) {
	s, ok := e.Scene(l.Scene)
	if !ok {
		return
	}

	l.angle += SpinSpeed * dt
	rotation := math.QuatFromAxisAngle(math.Vec3{Y: 1}, l.angle)
	for _, h := range l.cubes {
		if n, ok := s.Node(h); ok {
			n.SetLocalRotation(rotation)
		}
	}

	l.Player.Update(s, c, dt)
}
