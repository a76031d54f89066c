package anim

import (
	"errors"
	"fmt"

	"skelform-renderer/internal/armature"
	"skelform-renderer/internal/mathutil"
)

var (
	// ErrLayerMismatch reports parallel input lists of different lengths.
	ErrLayerMismatch = errors.New("anim: animation, frame and weight lists differ in length")
	// ErrNegativeWeight reports a blend weight below zero.
	ErrNegativeWeight = errors.New("anim: negative blend weight")
)

// Layer pairs an active animation with its own frame position and mixing
// weight. Blending is a pure function of the layer list; there is no
// "currently playing" state in this package.
type Layer struct {
	Anim   *armature.Animation
	Frame  float64
	Weight float64
}

// Animate overwrites each bone's local transform with the pose blended
// from the given animations, each evaluated at its own frame position with
// its own weight. The three lists are parallel; mismatched lengths fail
// before any bone is touched.
func Animate(bones []armature.Bone, anims []*armature.Animation, frames, weights []float64) error {
	if len(anims) != len(frames) || len(anims) != len(weights) {
		return fmt.Errorf("%w: %d animations, %d frames, %d weights",
			ErrLayerMismatch, len(anims), len(frames), len(weights))
	}
	layers := make([]Layer, len(anims))
	for i := range anims {
		layers[i] = Layer{Anim: anims[i], Frame: frames[i], Weight: weights[i]}
	}
	return AnimateLayers(bones, layers)
}

// AnimateLayers is the tuple form of Animate.
//
// Blend policy: for each bone/channel, contributions from layers that
// define a track for that channel are combined as a weighted average
// normalized by the total contributing weight. Rotations average along
// the shortest arc. A channel with no contributing track, or only
// zero-weight contributions, keeps the bone's rest-pose value.
func AnimateLayers(bones []armature.Bone, layers []Layer) error {
	for i := range layers {
		if layers[i].Anim == nil {
			return fmt.Errorf("anim: layer %d: nil animation", i)
		}
		if layers[i].Weight < 0 {
			return fmt.Errorf("%w: layer %d weight %g", ErrNegativeWeight, i, layers[i].Weight)
		}
	}

	for bi := range bones {
		b := &bones[bi]
		b.Local = b.Rest
		for ch := armature.Channel(0); ch < armature.NumChannels; ch++ {
			var sum, mean, wsum float64
			for li := range layers {
				l := &layers[li]
				tr := l.Anim.Track(bi, ch)
				if tr == nil || l.Weight == 0 {
					continue
				}
				v := Evaluate(tr, l.Frame)
				if ch == armature.Rotation {
					// Running weighted circular mean: each contribution
					// pulls the mean along the shortest arc.
					if wsum == 0 {
						mean = v
					} else {
						mean += mathutil.AngleDiff(mean, v) * (l.Weight / (wsum + l.Weight))
					}
				} else {
					sum += v * l.Weight
				}
				wsum += l.Weight
			}
			if wsum == 0 {
				continue
			}
			if ch == armature.Rotation {
				b.Local.Set(ch, mean)
			} else {
				b.Local.Set(ch, sum/wsum)
			}
		}
	}
	return nil
}
