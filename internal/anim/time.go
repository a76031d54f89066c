package anim

import (
	"math"
	"time"

	"skelform-renderer/internal/armature"
)

// TimeFrame maps elapsed wall-clock time to a frame position within the
// animation. Pure function; call it once per active animation per tick.
//
// With loop false the position clamps to the animation's length (the pose
// freezes on the last frame). With loop true it wraps; with pingPong also
// true it folds into a triangle wave bounded by [0, length]. A zero-length
// animation always maps to frame 0.
func TimeFrame(elapsed time.Duration, a *armature.Animation, loop, pingPong bool) float64 {
	if a.Length <= 0 {
		return 0
	}
	raw := elapsed.Seconds() * a.FPS
	if raw <= 0 {
		return 0
	}
	if !loop {
		if raw > a.Length {
			return a.Length
		}
		return raw
	}
	if !pingPong {
		return math.Mod(raw, a.Length)
	}
	m := math.Mod(raw, 2*a.Length)
	if m > a.Length {
		return 2*a.Length - m
	}
	return m
}
