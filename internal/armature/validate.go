package armature

import "fmt"

// Validate checks the invariants the evaluation pipeline relies on.
// It is called once at load time; the per-frame code assumes they hold
// and does not re-check.
//
//   - every non-root bone's parent index refers to an earlier bone in the
//     list (which also rules out cycles and self-references)
//   - keyframe positions within a track are non-decreasing and tracks are
//     non-empty
//   - animation FPS is positive and frame lengths are non-negative
//   - style texture entries reference existing atlases
func Validate(a *Armature) error {
	for i := range a.Bones {
		b := &a.Bones[i]
		if b.Parent < 0 {
			continue
		}
		if b.Parent >= i {
			return fmt.Errorf("armature: bone %q (index %d): parent index %d must refer to an earlier bone", b.Name, i, b.Parent)
		}
	}

	for ai := range a.Animations {
		an := &a.Animations[ai]
		if an.FPS <= 0 {
			return fmt.Errorf("armature: animation %q: fps %g must be positive", an.Name, an.FPS)
		}
		if an.Length < 0 {
			return fmt.Errorf("armature: animation %q: negative length %g", an.Name, an.Length)
		}
		for bone, tracks := range an.Tracks {
			if bone < 0 || bone >= len(a.Bones) {
				return fmt.Errorf("armature: animation %q: track for out-of-range bone index %d", an.Name, bone)
			}
			seen := [NumChannels]bool{}
			for ti := range tracks {
				tr := &tracks[ti]
				if tr.Channel >= NumChannels {
					return fmt.Errorf("armature: animation %q: bone %d: unknown channel %d", an.Name, bone, tr.Channel)
				}
				if seen[tr.Channel] {
					return fmt.Errorf("armature: animation %q: bone %d: duplicate %s track", an.Name, bone, tr.Channel)
				}
				seen[tr.Channel] = true
				if len(tr.Keys) == 0 {
					return fmt.Errorf("armature: animation %q: bone %d: empty %s track", an.Name, bone, tr.Channel)
				}
				for k := range tr.Keys {
					if k > 0 && tr.Keys[k].Frame < tr.Keys[k-1].Frame {
						return fmt.Errorf("armature: animation %q: bone %d: %s track: keyframe %d at frame %g precedes frame %g",
							an.Name, bone, tr.Channel, k, tr.Keys[k].Frame, tr.Keys[k-1].Frame)
					}
					if tr.Keys[k].Frame > an.Length {
						return fmt.Errorf("armature: animation %q: bone %d: %s track: keyframe at frame %g exceeds length %g",
							an.Name, bone, tr.Channel, tr.Keys[k].Frame, an.Length)
					}
				}
			}
		}
	}

	for si := range a.Styles {
		st := &a.Styles[si]
		for ti := range st.Textures {
			tex := &st.Textures[ti]
			if tex.Atlas < 0 || tex.Atlas >= a.AtlasCount {
				return fmt.Errorf("armature: style %q: texture %q references atlas %d of %d", st.Name, tex.Name, tex.Atlas, a.AtlasCount)
			}
		}
	}

	return nil
}
