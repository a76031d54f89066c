package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	AssetPath string `json:"asset_path"`
	OutputDir string `json:"output_dir"`

	// Playback
	Animation string   `json:"animation"`
	Styles    []string `json:"styles"`
	Loop      bool     `json:"loop"`
	PingPong  bool     `json:"ping_pong"`
	Speed     float64  `json:"speed"`

	// Optional second animation mixed into the pose.
	BlendAnimation string  `json:"blend_animation"`
	BlendWeight    float64 `json:"blend_weight"`

	// Render settings
	FPS         float64 `json:"fps"`
	Frames      int     `json:"frames"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Supersample int     `json:"supersample"`
	Scale       float64 `json:"scale"`
	Workers     int     `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	AssetPath      string
	OutputDir      string
	Animation      string
	BlendAnimation string
	FPS            float64
	Frames         int
	Workers        int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.AssetPath != "" {
		c.AssetPath = flags.AssetPath
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Animation != "" {
		c.Animation = flags.Animation
	}
	if flags.BlendAnimation != "" {
		c.BlendAnimation = flags.BlendAnimation
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.OutputDir == "" && c.AssetPath != "" {
		stem := c.AssetPath[:len(c.AssetPath)-len(filepath.Ext(c.AssetPath))]
		c.OutputDir = stem + "-frames"
	}

	if c.Speed <= 0 {
		c.Speed = 1
	}
	if c.BlendAnimation != "" && c.BlendWeight <= 0 {
		c.BlendWeight = 0.5
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Width <= 0 {
		c.Width = 512
	}
	if c.Height <= 0 {
		c.Height = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Scale == 0 {
		c.Scale = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}
