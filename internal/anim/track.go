package anim

import (
	"sort"

	"skelform-renderer/internal/armature"
	"skelform-renderer/internal/mathutil"
)

// Evaluate samples a track at the given frame position.
//
// Positions outside the keyed range hold the first/last key's value; there
// is no extrapolation. Between keys the value interpolates linearly, except
// that a leading Step key holds its value until the next key, and rotation
// channels interpolate along the shortest angular path.
func Evaluate(tr *armature.Track, frame float64) float64 {
	keys := tr.Keys
	if len(keys) == 0 {
		return 0
	}
	if frame <= keys[0].Frame {
		return keys[0].Value
	}
	if frame >= keys[len(keys)-1].Frame {
		return keys[len(keys)-1].Value
	}

	// First key strictly past frame; the bracketing pair is (i-1, i).
	i := sort.Search(len(keys), func(j int) bool { return keys[j].Frame > frame })
	k0, k1 := keys[i-1], keys[i]

	if k0.Interp == armature.Step {
		return k0.Value
	}
	span := k1.Frame - k0.Frame
	if span <= 0 {
		return k1.Value
	}
	t := (frame - k0.Frame) / span
	if tr.Channel == armature.Rotation {
		return mathutil.LerpAngle(k0.Value, k1.Value, t)
	}
	return mathutil.Lerp(k0.Value, k1.Value, t)
}
