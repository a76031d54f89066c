package anim

import (
	"skelform-renderer/internal/armature"
	"skelform-renderer/internal/mathutil"
)

// Options configures how Construct composes the root of the hierarchy.
// The zero value of Scale is treated as unit scale, so Options{} means
// no offset, no scaling, no mirroring.
type Options struct {
	Position mathutil.Vec2 // world-space offset applied at the root
	Scale    mathutil.Vec2 // multiplier applied at the root
	FlipX    bool          // mirror horizontally
	FlipY    bool          // mirror vertically (on for top-left-origin framebuffers)
}

// DefaultOptions returns no offset, unit scale, no flip.
func DefaultOptions() Options {
	return Options{Scale: mathutil.Vec2{1, 1}}
}

// ResolvedBone is one bone's world transform plus what the draw stage
// needs: the originating bone index, its texture name and draw order.
type ResolvedBone struct {
	Index  int
	Name   string
	Tex    string
	ZIndex float64
	Pos    mathutil.Vec2
	Rot    float64
	Scale  mathutil.Vec2
}

// Construct resolves every bone's local transform into world space and
// returns the result as a fresh list. The armature is read, never
// written: local transforms stay as the blender left them, and nothing is
// cached between calls.
//
// Bones are stored parent-before-child (Validate enforces it), so a single
// in-order pass sees each parent's world transform before its children.
// Composition order is scale, then rotate, then translate: a child's
// position is scaled by the parent, rotated into the parent's frame, and
// offset by the parent's position; rotation and scale inherit
// additively/multiplicatively.
func Construct(a *armature.Armature, opts Options) []ResolvedBone {
	rootScale := opts.Scale
	if rootScale == (mathutil.Vec2{}) {
		rootScale = mathutil.Vec2{1, 1}
	}
	if opts.FlipX {
		rootScale[0] = -rootScale[0]
	}
	if opts.FlipY {
		rootScale[1] = -rootScale[1]
	}
	root := armature.Transform{Pos: opts.Position, Scale: rootScale}

	world := make([]armature.Transform, len(a.Bones))
	out := make([]ResolvedBone, len(a.Bones))
	for i := range a.Bones {
		b := &a.Bones[i]
		parent := root
		if b.Parent >= 0 && b.Parent < i {
			parent = world[b.Parent]
		}
		w := armature.Transform{
			Pos:   parent.Pos.Add(b.Local.Pos.Mul(parent.Scale).Rotate(parent.Rot)),
			Rot:   parent.Rot + b.Local.Rot,
			Scale: parent.Scale.Mul(b.Local.Scale),
		}
		world[i] = w
		out[i] = ResolvedBone{
			Index:  i,
			Name:   b.Name,
			Tex:    b.Tex,
			ZIndex: b.ZIndex,
			Pos:    w.Pos,
			Rot:    w.Rot,
			Scale:  w.Scale,
		}
	}

	// A single mirrored axis reverses the sense of rotation on screen.
	if opts.FlipX != opts.FlipY {
		for i := range out {
			out[i].Rot = -out[i].Rot
		}
	}
	return out
}
