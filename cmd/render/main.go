package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"skelform-renderer/internal/anim"
	"skelform-renderer/internal/config"
	"skelform-renderer/internal/mathutil"
	"skelform-renderer/internal/sequence"
	"skelform-renderer/internal/skelform"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	asset := flag.String("asset", "", "Path to .skf armature export")
	animation := flag.String("anim", "", "Animation name (default: first in the armature)")
	blend := flag.String("blend", "", "Second animation blended into the pose")
	outputDir := flag.String("output", "", "Output directory (default: <asset>-frames)")
	frames := flag.Int("frames", 0, "Number of frames to render (default: one full cycle)")
	fps := flag.Float64("fps", 0, "Output frame rate (default: 30)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	watch := flag.Bool("watch", false, "Re-render whenever the asset file changes")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	cfg.Resolve(config.Flags{
		AssetPath:      *asset,
		OutputDir:      *outputDir,
		Animation:      *animation,
		BlendAnimation: *blend,
		FPS:            *fps,
		Frames:         *frames,
		Workers:        *workers,
	})

	if cfg.AssetPath == "" {
		log.Fatal("no asset given; use -asset or config.json")
	}

	if err := render(cfg); err != nil {
		if !*watch {
			log.Fatalf("%v", err)
		}
		log.Errorf("%v", err)
	}

	if *watch {
		watchLoop(cfg)
	}
}

// render runs the full pipeline once: load, then frame sequence.
func render(cfg config.Config) error {
	arm, atlases, err := skelform.Load(cfg.AssetPath)
	if err != nil {
		return err
	}
	log.Infof("loaded %s: %d bones, %d animations, %d styles, %d atlases",
		filepath.Base(cfg.AssetPath), len(arm.Bones), len(arm.Animations), len(arm.Styles), len(atlases))

	name := cfg.Animation
	if name == "" {
		if len(arm.Animations) == 0 {
			return fmt.Errorf("%s has no animations", cfg.AssetPath)
		}
		name = arm.Animations[0].Name
	}

	layers := []sequence.LayerSpec{
		{Animation: name, Weight: 1, Loop: cfg.Loop, PingPong: cfg.PingPong},
	}
	if cfg.BlendAnimation != "" {
		layers = append(layers, sequence.LayerSpec{
			Animation: cfg.BlendAnimation,
			Weight:    cfg.BlendWeight,
			Loop:      cfg.Loop,
			PingPong:  cfg.PingPong,
		})
		log.Infof("blending %q at weight %g", cfg.BlendAnimation, cfg.BlendWeight)
	}

	seqCfg := sequence.Config{
		Armature: arm,
		Atlases:  atlases,
		Layers:   layers,
		Styles:      cfg.Styles,
		OutputDir:   cfg.OutputDir,
		FPS:         cfg.FPS,
		Frames:      cfg.Frames,
		Speed:       cfg.Speed,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		Options: anim.Options{
			Position: mathutil.Vec2{float64(cfg.Width) / 2, float64(cfg.Height) / 2},
			Scale:    mathutil.Vec2{cfg.Scale, cfg.Scale},
			FlipY:    true, // framebuffer origin is top-left
		},
	}

	log.Infof("rendering %q: %dx%d, output %s", name, cfg.Width, cfg.Height, cfg.OutputDir)
	start := time.Now()

	results, err := sequence.Run(seqCfg)
	if err != nil {
		return err
	}

	success, failed := 0, 0
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			if failed <= 20 {
				log.Errorf("frame %d: %s", r.Frame, r.Error)
			}
		}
	}
	log.Infof("rendered %d/%d frames in %.1fs", success, len(results), time.Since(start).Seconds())

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := sequence.WriteManifest(manifestPath, name, cfg.FPS, results); err != nil {
		log.Warnf("manifest write failed: %v", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d frames failed", failed, len(results))
	}
	return nil
}

// watchLoop re-renders whenever the asset file is rewritten. Editors
// often replace the file, so the watch sits on the directory and events
// are debounced.
func watchLoop(cfg config.Config) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("watch: %v", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(cfg.AssetPath)
	if err := watcher.Add(dir); err != nil {
		log.Fatalf("watch %s: %v", dir, err)
	}
	target := filepath.Clean(cfg.AssetPath)
	log.Infof("watching %s", target)

	var timer *time.Timer
	for {
		select {
		case e, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != target || e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(200*time.Millisecond, func() {
				log.Infof("%s changed, re-rendering", filepath.Base(target))
				if err := render(cfg); err != nil {
					log.Errorf("%v", err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("watch: %v", err)
		}
	}
}
