package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.json")
	body := `{
  "asset_path": "knight.skf",
  "animation": "walk",
  "loop": true,
  "fps": 24,
  "width": 256,
  "height": 256
}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Resolve(Flags{})

	if cfg.Animation != "walk" || !cfg.Loop || cfg.FPS != 24 {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.OutputDir != "knight-frames" {
		t.Errorf("output dir = %q, want knight-frames", cfg.OutputDir)
	}
	if cfg.Speed != 1 || cfg.Supersample != 2 || cfg.Scale != 1 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Workers <= 0 {
		t.Errorf("workers = %d", cfg.Workers)
	}
}

func TestResolveFlagOverrides(t *testing.T) {
	cfg := Config{AssetPath: "a.skf", Animation: "idle", FPS: 24}
	cfg.Resolve(Flags{Animation: "run", FPS: 60, OutputDir: "out", Frames: 5})

	if cfg.Animation != "run" || cfg.FPS != 60 || cfg.OutputDir != "out" || cfg.Frames != 5 {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestResolveBlendWeightDefault(t *testing.T) {
	cfg := Config{AssetPath: "a.skf"}
	cfg.Resolve(Flags{BlendAnimation: "wave"})

	if cfg.BlendAnimation != "wave" || cfg.BlendWeight != 0.5 {
		t.Errorf("blend defaults not applied: %+v", cfg)
	}

	cfg = Config{AssetPath: "a.skf"}
	cfg.Resolve(Flags{})
	if cfg.BlendWeight != 0 {
		t.Errorf("blend weight set without a blend animation: %g", cfg.BlendWeight)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed config accepted")
	}
}
