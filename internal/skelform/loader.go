// Package skelform loads SkelForm exports (.skf archives) into the
// runtime armature model. All data-integrity checking happens here: the
// evaluation pipeline assumes a loaded armature is well-formed.
package skelform

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"io"

	"skelform-renderer/internal/armature"
	"skelform-renderer/internal/mathutil"
)

const armatureFile = "armature.json"

// Load reads an .skf archive and returns the armature plus its decoded
// atlas images, in atlas order. Malformed data (unknown bone references,
// forward or self parent references, non-monotonic keyframes, missing
// atlases) fails the whole load; nothing partial is returned.
func Load(path string) (*armature.Armature, []*image.NRGBA, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("skelform: open %s: %w", path, err)
	}
	defer zr.Close()

	f, err := zr.Open(armatureFile)
	if err != nil {
		return nil, nil, fmt.Errorf("skelform: %s: missing %s: %w", path, armatureFile, err)
	}
	raw, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("skelform: %s: read %s: %w", path, armatureFile, err)
	}

	var fa fileArmature
	if err := json.Unmarshal(raw, &fa); err != nil {
		return nil, nil, fmt.Errorf("skelform: %s: parse %s: %w", path, armatureFile, err)
	}

	arm, err := build(&fa)
	if err != nil {
		return nil, nil, fmt.Errorf("skelform: %s: %w", path, err)
	}

	atlases := make([]*image.NRGBA, len(fa.Atlases))
	for i, at := range fa.Atlases {
		img, err := decodeAtlas(&zr.Reader, at.Filename)
		if err != nil {
			return nil, nil, fmt.Errorf("skelform: %s: %w", path, err)
		}
		atlases[i] = img
	}

	return arm, atlases, nil
}

// build maps the wire format onto the runtime model and validates it.
func build(fa *fileArmature) (*armature.Armature, error) {
	arm := &armature.Armature{
		Bones:      make([]armature.Bone, len(fa.Bones)),
		Animations: make([]armature.Animation, len(fa.Animations)),
		Styles:     make([]armature.Style, len(fa.Styles)),
		AtlasCount: len(fa.Atlases),
	}

	// Bone ids are stable identifiers; the runtime works on list indices.
	index := make(map[int]int, len(fa.Bones))
	for i, fb := range fa.Bones {
		if _, dup := index[fb.ID]; dup {
			return nil, fmt.Errorf("duplicate bone id %d", fb.ID)
		}
		index[fb.ID] = i
	}
	for i, fb := range fa.Bones {
		parent := -1
		if fb.ParentID >= 0 {
			pi, ok := index[fb.ParentID]
			if !ok {
				return nil, fmt.Errorf("bone %q: unknown parent id %d", fb.Name, fb.ParentID)
			}
			parent = pi
		}
		scale := mathutil.Vec2{fb.Scale[0], fb.Scale[1]}
		if scale == (mathutil.Vec2{}) {
			scale = mathutil.Vec2{1, 1}
		}
		rest := armature.Transform{
			Pos:   mathutil.Vec2{fb.Pos[0], fb.Pos[1]},
			Rot:   fb.Rot,
			Scale: scale,
		}
		arm.Bones[i] = armature.Bone{
			ID:     fb.ID,
			Name:   fb.Name,
			Parent: parent,
			Rest:   rest,
			Local:  rest,
			ZIndex: fb.ZIndex,
			Tex:    fb.Tex,
		}
	}

	for ai, fan := range fa.Animations {
		an, err := buildAnimation(&fan, index)
		if err != nil {
			return nil, fmt.Errorf("animation %q: %w", fan.Name, err)
		}
		arm.Animations[ai] = an
	}

	for si, fs := range fa.Styles {
		st := armature.Style{Name: fs.Name, Textures: make([]armature.StyleTexture, len(fs.Textures))}
		for ti, ft := range fs.Textures {
			st.Textures[ti] = armature.StyleTexture{
				Name:   ft.Name,
				Atlas:  ft.Atlas,
				Offset: mathutil.Vec2{ft.Offset[0], ft.Offset[1]},
				Size:   mathutil.Vec2{ft.Size[0], ft.Size[1]},
				ZIndex: ft.ZIndex,
			}
			if ft.Tint != nil {
				t := *ft.Tint
				st.Textures[ti].Tint = &color.NRGBA{R: t[0], G: t[1], B: t[2], A: t[3]}
			}
		}
		arm.Styles[si] = st
	}

	if err := armature.Validate(arm); err != nil {
		return nil, err
	}
	return arm, nil
}

// buildAnimation buckets the flat keyframe list into per-bone per-channel
// tracks. File order within a track is preserved; Validate rejects
// non-monotonic positions rather than silently sorting them.
func buildAnimation(fan *fileAnimation, index map[int]int) (armature.Animation, error) {
	an := armature.Animation{
		Name:   fan.Name,
		FPS:    fan.FPS,
		Tracks: make(map[int][]armature.Track),
	}
	for ki, fk := range fan.Keyframes {
		bone, ok := index[fk.BoneID]
		if !ok {
			return an, fmt.Errorf("keyframe %d: unknown bone id %d", ki, fk.BoneID)
		}
		ch, err := parseChannel(fk.Element)
		if err != nil {
			return an, fmt.Errorf("keyframe %d: %w", ki, err)
		}
		interp, err := parseTransition(fk.Transition)
		if err != nil {
			return an, fmt.Errorf("keyframe %d: %w", ki, err)
		}
		key := armature.Keyframe{Frame: fk.Frame, Value: fk.Value, Interp: interp}

		tracks := an.Tracks[bone]
		found := false
		for ti := range tracks {
			if tracks[ti].Channel == ch {
				tracks[ti].Keys = append(tracks[ti].Keys, key)
				found = true
				break
			}
		}
		if !found {
			tracks = append(tracks, armature.Track{Channel: ch, Keys: []armature.Keyframe{key}})
		}
		an.Tracks[bone] = tracks

		if fk.Frame > an.Length {
			an.Length = fk.Frame
		}
	}
	return an, nil
}

func parseChannel(s string) (armature.Channel, error) {
	switch s {
	case "PositionX":
		return armature.PositionX, nil
	case "PositionY":
		return armature.PositionY, nil
	case "Rotation":
		return armature.Rotation, nil
	case "ScaleX":
		return armature.ScaleX, nil
	case "ScaleY":
		return armature.ScaleY, nil
	}
	return 0, fmt.Errorf("unknown element %q", s)
}

func parseTransition(s string) (armature.Interp, error) {
	switch s {
	case "", "Linear", "SineIn", "SineOut":
		// Sine easings render as linear for now; see DESIGN.md.
		return armature.Linear, nil
	case "Step":
		return armature.Step, nil
	}
	return 0, fmt.Errorf("unknown transition %q", s)
}
