// Package game runs the demo: window, engine and level in one frame loop.
package game

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/balala/internal/config"
	"github.com/Faultbox/balala/internal/engine/engine"
	"github.com/Faultbox/balala/internal/engine/gpu/opengl"
	"github.com/Faultbox/balala/internal/engine/input"
	"github.com/Faultbox/balala/internal/engine/renderer"
	"github.com/Faultbox/balala/internal/engine/resource"
	"github.com/Faultbox/balala/internal/engine/window"
	"github.com/Faultbox/balala/internal/game/level"
	"github.com/Faultbox/balala/internal/logger"
)

// statsInterval is how many frames are averaged per frame-time log line.
const statsInterval = 100

// Game is the demo instance.
type Game struct {
	config *config.Config
	window *window.Window
	engine *engine.Engine
	input  *input.Input
	level  *level.Level
}

// New opens the window and builds the engine and level.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	g := &Game{config: cfg}

	var err error
	g.window, err = window.New(window.Config{
		Title:      "Balala",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The device needs the context the window just made current.
	dev, err := opengl.New()
	if err != nil {
		g.window.Close()
		return nil, err
	}

	width, height := g.window.DrawableSize()
	r, err := renderer.New(dev, renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: cfg.Graphics.ClearColor,
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	resources := resource.NewManager(resource.FileLoader{Root: cfg.Resources.TextureDir})
	if cfg.Resources.Watch {
		if err := resources.Watch(); err != nil {
			logger.Warn("texture hot reload disabled", zap.Error(err))
		}
	}

	g.engine = engine.New(r, resources)
	g.input = input.New()
	g.level = level.New(g.engine, level.Config{
		FloorTexture: cfg.Demo.FloorTexture,
		Cubes:        cfg.Demo.Cubes,
		Camera: level.CameraSettings{
			FOVDegrees: cfg.Camera.FOVDegrees,
			Near:       cfg.Camera.Near,
			Far:        cfg.Camera.Far,
		},
	})

	logger.Info("game initialized successfully")
	return g, nil
}

// Run drives frames until the window closes or Escape is pressed.
func (g *Game) Run() error {
	logger.Info("starting game loop")

	lastFrame := time.Now()
	var frames int
	var accum time.Duration

	for g.engine.Running() {
		now := time.Now()
		dt := now.Sub(lastFrame)
		lastFrame = now

		if g.input.Update() || g.input.IsKeyPressed(sdl.SCANCODE_ESCAPE) {
			g.engine.Stop()
			break
		}

		g.level.Update(g.engine, g.controller(), float32(dt.Seconds()))

		width, height := g.window.DrawableSize()
		g.engine.Update(width, height)
		if err := g.engine.Render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		g.window.SwapBuffers()

		accum += dt
		frames++
		if frames == statsInterval {
			stats := g.engine.Renderer().LastFrame()
			logger.Debug("frame stats",
				zap.Duration("avg_frame", accum/statsInterval),
				zap.Int("draw_calls", stats.DrawCalls),
				zap.Int("meshes", stats.Meshes),
			)
			frames, accum = 0, 0
		}
	}

	return nil
}

func (g *Game) controller() level.Controller {
	return level.Controller{
		Forward:  g.input.IsKeyHeld(sdl.SCANCODE_W),
		Backward: g.input.IsKeyHeld(sdl.SCANCODE_S),
		Left:     g.input.IsKeyHeld(sdl.SCANCODE_A),
		Right:    g.input.IsKeyHeld(sdl.SCANCODE_D),
	}
}

// Close releases the engine and the window.
func (g *Game) Close() {
	logger.Info("closing game")

	if g.engine != nil {
		g.engine.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
