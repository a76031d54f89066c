// Package sequence renders an animation as a series of WebP frames
// through a worker pool. Each worker runs the full pipeline
// (time-frame, animate, construct, draw) on its own armature clone, so
// no bone state is shared between goroutines.
package sequence

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"skelform-renderer/internal/anim"
	"skelform-renderer/internal/armature"
	"skelform-renderer/internal/mathutil"
	"skelform-renderer/internal/postprocess"
	"skelform-renderer/internal/raster"
	"skelform-renderer/internal/style"

	"github.com/HugoSmits86/nativewebp"
	"github.com/charmbracelet/log"
)

// LayerSpec names one active animation with its mixing weight and
// playback policy.
type LayerSpec struct {
	Animation string
	Weight    float64
	Loop      bool
	PingPong  bool
}

// Config holds all shared resources for one sequence render.
type Config struct {
	Armature *armature.Armature
	Atlases  []*image.NRGBA
	Layers   []LayerSpec
	Styles   []string // style names in override order; empty = every style in armature order

	OutputDir   string
	FPS         float64 // output frame rate
	Frames      int     // frame count; 0 derives one full cycle of the first layer
	Speed       float64 // playback-rate multiplier, default 1
	Width       int
	Height      int
	Supersample int
	Workers     int

	Options anim.Options
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame   int    `json:"frame"`
	Image   string `json:"image"`
	Success bool   `json:"-"`
	Error   string `json:"-"`
}

// Run renders the configured frame sequence. Configuration-level
// problems (unknown animation or style names, no layers) fail up front;
// per-frame failures are reported in the results.
func Run(cfg Config) ([]Result, error) {
	if len(cfg.Layers) == 0 {
		return nil, fmt.Errorf("sequence: no animation layers given")
	}
	anims := make([]*armature.Animation, len(cfg.Layers))
	for i, l := range cfg.Layers {
		a := cfg.Armature.Animation(l.Animation)
		if a == nil {
			return nil, fmt.Errorf("sequence: unknown animation %q", l.Animation)
		}
		anims[i] = a
	}

	var styles []*armature.Style
	if len(cfg.Styles) == 0 {
		for i := range cfg.Armature.Styles {
			styles = append(styles, &cfg.Armature.Styles[i])
		}
	} else {
		for _, name := range cfg.Styles {
			s := cfg.Armature.Style(name)
			if s == nil {
				return nil, fmt.Errorf("sequence: unknown style %q", name)
			}
			styles = append(styles, s)
		}
	}

	speed := cfg.Speed
	if speed <= 0 {
		speed = 1
	}
	outFPS := cfg.FPS
	if outFPS <= 0 {
		outFPS = 30
	}
	total := cfg.Frames
	if total <= 0 {
		total = cycleFrames(anims[0], outFPS, speed)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	super := cfg.Supersample
	if super <= 0 {
		super = 1
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("sequence: output dir: %w", err)
	}

	results := make([]Result, total)
	var processed atomic.Int64
	start := time.Now()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Infof("[%d/%d] %.1f frames/sec", p, total, rate)
				}
			}
		}
	}()

	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			arm := cfg.Armature.Clone()
			canvas := raster.NewCanvas(cfg.Width*super, cfg.Height*super, cfg.Atlases)
			for idx := range frameChan {
				results[idx] = renderFrame(&cfg, arm, canvas, anims, styles, idx, outFPS, speed, super)
				processed.Add(1)
			}
		}()
	}

	for i := 0; i < total; i++ {
		frameChan <- i
	}
	close(frameChan)
	wg.Wait()
	close(done)

	return results, nil
}

// cycleFrames returns the output frame count covering one full cycle of
// the animation at the given output rate and speed.
func cycleFrames(a *armature.Animation, outFPS, speed float64) int {
	if a.Length <= 0 || a.FPS <= 0 {
		return 1
	}
	seconds := a.Length / a.FPS / speed
	n := int(math.Ceil(seconds * outFPS))
	if n < 1 {
		n = 1
	}
	return n
}

func renderFrame(
	cfg *Config,
	arm *armature.Armature,
	canvas *raster.Canvas,
	anims []*armature.Animation,
	styles []*armature.Style,
	frame int,
	outFPS, speed float64,
	super int,
) Result {
	name := fmt.Sprintf("frame_%04d.webp", frame)
	res := Result{Frame: frame, Image: name}

	elapsed := time.Duration(float64(frame) / outFPS * speed * float64(time.Second))
	layers := make([]anim.Layer, len(cfg.Layers))
	for i, spec := range cfg.Layers {
		layers[i] = anim.Layer{
			Anim:   anims[i],
			Frame:  anim.TimeFrame(elapsed, anims[i], spec.Loop, spec.PingPong),
			Weight: spec.Weight,
		}
	}

	if err := anim.AnimateLayers(arm.Bones, layers); err != nil {
		res.Error = err.Error()
		return res
	}
	resolved := anim.Construct(arm, scaled(cfg.Options, super))

	canvas.Clear()
	if err := style.Draw(resolved, styles, canvas); err != nil {
		res.Error = err.Error()
		return res
	}

	img := canvas.FB.Image()
	if super > 1 {
		img = postprocess.Downsample(img, cfg.Width, cfg.Height)
	}

	outPath := filepath.Join(cfg.OutputDir, name)
	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		res.Error = fmt.Sprintf("webp encode: %v", err)
		return res
	}

	res.Success = true
	return res
}

// scaled maps the construct options into the supersampled pixel grid.
func scaled(o anim.Options, super int) anim.Options {
	if super <= 1 {
		return o
	}
	s := float64(super)
	o.Position = o.Position.Scale(s)
	sc := o.Scale
	if sc == (mathutil.Vec2{}) {
		sc = mathutil.Vec2{1, 1}
	}
	o.Scale = sc.Scale(s)
	return o
}
