package config

import "flag"

// Command-line overrides. Zero values mean "not set"; -cubes uses -1
// since zero cubes is a valid level.
var (
	flagConfig     = flag.String("config", "", "Path to config file (overrides $"+EnvConfig+")")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in a window")
	flagFullscreen = flag.Bool("fullscreen", false, "Run fullscreen")
	flagWidth      = flag.Int("width", 0, "Window width in pixels")
	flagHeight     = flag.Int("height", 0, "Window height in pixels")
	flagFOV        = flag.Float64("fov", 0, "Camera field of view in degrees")
	flagTextures   = flag.String("textures", "", "Directory relative texture paths resolve against")
	flagWatch      = flag.Bool("watch", false, "Reload textures when their files change")
	flagCubes      = flag.Int("cubes", -1, "Spinning cubes per axis in the demo level")
)

// ParseFlags parses the command line. Call it before Load.
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the -config path, or "" if none was given.
func ConfigPath() string {
	return *flagConfig
}

func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	switch {
	case *flagFullscreen:
		cfg.Graphics.Fullscreen = true
	case *flagWindowed:
		cfg.Graphics.Fullscreen = false
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagFOV > 0 {
		cfg.Camera.FOVDegrees = float32(*flagFOV)
	}
	if *flagTextures != "" {
		cfg.Resources.TextureDir = *flagTextures
	}
	if *flagWatch {
		cfg.Resources.Watch = true
	}
	if *flagCubes >= 0 {
		cfg.Demo.Cubes = *flagCubes
	}
}
