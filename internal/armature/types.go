package armature

import (
	"image/color"

	"skelform-renderer/internal/mathutil"
)

// Transform is a 2D local or world transform.
type Transform struct {
	Pos   mathutil.Vec2
	Rot   float64 // radians
	Scale mathutil.Vec2
}

// Channel identifies one animated component of a bone transform.
type Channel uint8

const (
	PositionX Channel = iota
	PositionY
	Rotation
	ScaleX
	ScaleY

	NumChannels
)

func (c Channel) String() string {
	switch c {
	case PositionX:
		return "PositionX"
	case PositionY:
		return "PositionY"
	case Rotation:
		return "Rotation"
	case ScaleX:
		return "ScaleX"
	case ScaleY:
		return "ScaleY"
	}
	return "Unknown"
}

// Get returns the channel's value from the transform.
func (t *Transform) Get(c Channel) float64 {
	switch c {
	case PositionX:
		return t.Pos[0]
	case PositionY:
		return t.Pos[1]
	case Rotation:
		return t.Rot
	case ScaleX:
		return t.Scale[0]
	case ScaleY:
		return t.Scale[1]
	}
	return 0
}

// Set writes the channel's value into the transform.
func (t *Transform) Set(c Channel, v float64) {
	switch c {
	case PositionX:
		t.Pos[0] = v
	case PositionY:
		t.Pos[1] = v
	case Rotation:
		t.Rot = v
	case ScaleX:
		t.Scale[0] = v
	case ScaleY:
		t.Scale[1] = v
	}
}

// Interp selects how a keyframe blends toward its successor.
type Interp uint8

const (
	Linear Interp = iota
	Step          // hold this key's value until the next key
)

// Keyframe is one sample on a track. Frame is a position on the
// animation's timeline, not wall-clock time.
type Keyframe struct {
	Frame  float64
	Value  float64
	Interp Interp
}

// Track drives one channel of one bone. Keys are ordered by frame,
// non-decreasing (enforced by Validate).
type Track struct {
	Channel Channel
	Keys    []Keyframe
}

// Animation is an immutable set of per-bone tracks with a frame length.
type Animation struct {
	Name   string
	FPS    float64
	Length float64         // in frames; max keyframe position
	Tracks map[int][]Track // bone index -> tracks, at most one per channel
}

// Track returns the track driving the given bone/channel, or nil.
func (a *Animation) Track(bone int, c Channel) *Track {
	for i := range a.Tracks[bone] {
		if a.Tracks[bone][i].Channel == c {
			return &a.Tracks[bone][i]
		}
	}
	return nil
}

// Bone is a node in the skeletal hierarchy. Parent indexes into the
// armature's bone list; -1 marks a root. Local is the working pose,
// overwritten every frame by the blender; Rest is the load-time pose.
type Bone struct {
	ID     int
	Name   string
	Parent int
	Rest   Transform
	Local  Transform
	ZIndex float64
	Tex    string // texture name resolved through the active styles; "" = not drawn
}

// StyleTexture binds a texture name to an atlas region, with optional
// tint and draw-order overrides.
type StyleTexture struct {
	Name   string
	Atlas  int
	Offset mathutil.Vec2 // top-left in atlas pixels
	Size   mathutil.Vec2
	Tint   *color.NRGBA // nil = white
	ZIndex *float64     // nil = bone's own z-index
}

// Style is one named layer of texture bindings. Styles are applied as an
// ordered chain at draw time; later styles override earlier ones.
type Style struct {
	Name     string
	Textures []StyleTexture
}

// Find returns the last binding for the given texture name, or nil.
func (s *Style) Find(name string) *StyleTexture {
	for i := len(s.Textures) - 1; i >= 0; i-- {
		if s.Textures[i].Name == name {
			return &s.Textures[i]
		}
	}
	return nil
}

// Armature is the complete skeletal structure for one asset: bones in
// parent-before-child order, plus its animations and styles. Bones are
// mutated in place by the blender; everything else is immutable after load.
type Armature struct {
	Bones      []Bone
	Animations []Animation
	Styles     []Style
	AtlasCount int
}

// Animation returns the named animation, or nil.
func (a *Armature) Animation(name string) *Animation {
	for i := range a.Animations {
		if a.Animations[i].Name == name {
			return &a.Animations[i]
		}
	}
	return nil
}

// Style returns the named style, or nil.
func (a *Armature) Style(name string) *Style {
	for i := range a.Styles {
		if a.Styles[i].Name == name {
			return &a.Styles[i]
		}
	}
	return nil
}

// ResetPose restores every bone's working pose to its rest pose.
func (a *Armature) ResetPose() {
	for i := range a.Bones {
		a.Bones[i].Local = a.Bones[i].Rest
	}
}

// Clone deep-copies the armature's mutable state (the bone list).
// Animations and styles are shared; they are read-only after load.
// Each concurrent pipeline must run on its own clone.
func (a *Armature) Clone() *Armature {
	c := *a
	c.Bones = make([]Bone, len(a.Bones))
	copy(c.Bones, a.Bones)
	return &c
}
