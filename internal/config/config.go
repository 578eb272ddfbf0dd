// Package config handles engine configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all engine settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Camera    CameraConfig    `yaml:"camera"`
	Resources ResourcesConfig `yaml:"resources"`
	Demo      DemoConfig      `yaml:"demo"`
	Logging   LoggingConfig   `yaml:"logging"`

	// Source is the file the config was read from, "" for defaults only.
	Source string `yaml:"-"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	ClearColor [3]float32 `yaml:"clear_color"`
}

// CameraConfig holds defaults applied to newly created camera nodes.
type CameraConfig struct {
	FOVDegrees float32 `yaml:"fov_degrees"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
}

// ResourcesConfig holds texture loading settings.
type ResourcesConfig struct {
	TextureDir string `yaml:"texture_dir"` // Relative texture paths resolve against this
	Watch      bool   `yaml:"watch"`       // Reload textures when their files change
}

// DemoConfig holds settings for the bundled demo level.
type DemoConfig struct {
	FloorTexture string `yaml:"floor_texture"`
	Cubes        int    `yaml:"cubes"` // Spinning cubes per axis
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      800,
			Height:     600,
			Fullscreen: false,
			VSync:      true,
			ClearColor: [3]float32{0.0, 0.63, 0.91},
		},
		Camera: CameraConfig{
			FOVDegrees: 45,
			Near:       1,
			Far:        1000,
		},
		Demo: DemoConfig{
			Cubes: 3,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the engine cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera: fov_degrees %v out of range (0, 180)", c.Camera.FOVDegrees))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera: need 0 < near < far, got near=%v far=%v", c.Camera.Near, c.Camera.Far))
	}
	if c.Demo.Cubes < 0 {
		errs = append(errs, fmt.Errorf("demo: cubes must not be negative, got %d", c.Demo.Cubes))
	}
	return errors.Join(errs...)
}
