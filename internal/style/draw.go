// Package style resolves texture/tint overrides for resolved bones and
// emits draw primitives in draw order. It is the last stage of the
// pipeline; everything past the Emitter interface belongs to the host
// renderer.
package style

import (
	"errors"
	"image/color"
	"sort"

	"skelform-renderer/internal/anim"
	"skelform-renderer/internal/armature"
	"skelform-renderer/internal/mathutil"
)

// ErrNoStyles reports a draw call with an empty style chain; without at
// least one style no bone can resolve a texture.
var ErrNoStyles = errors.New("style: no styles given")

// Primitive is one draw submission: a textured quad with center origin.
type Primitive struct {
	Bone   int           // originating bone index
	Atlas  int           // atlas image index
	Src    mathutil.Vec2 // source top-left in atlas pixels
	Size   mathutil.Vec2 // source size in atlas pixels
	Pos    mathutil.Vec2 // world-space center
	Rot    float64       // radians
	Scale  mathutil.Vec2
	Tint   color.NRGBA
	ZIndex float64
}

// Emitter receives primitives in back-to-front draw order.
type Emitter interface {
	Emit(p Primitive)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(p Primitive)

func (f EmitterFunc) Emit(p Primitive) { f(p) }

// Resolve looks a texture name up through the style chain. Later styles
// override earlier ones; within a style the last binding wins. Returns
// nil when no style binds the name.
func Resolve(name string, styles []*armature.Style) *armature.StyleTexture {
	for i := len(styles) - 1; i >= 0; i-- {
		if t := styles[i].Find(name); t != nil {
			return t
		}
	}
	return nil
}

// Draw emits one primitive per drawable resolved bone, ordered by
// ascending z-index (higher z-index draws later, on top). A style entry's
// z-index override replaces the bone's own. Bones without a texture name,
// or whose name no style binds, are skipped. The input slice is only read.
func Draw(resolved []anim.ResolvedBone, styles []*armature.Style, em Emitter) error {
	if len(styles) == 0 {
		return ErrNoStyles
	}

	type drawable struct {
		rb  *anim.ResolvedBone
		tex *armature.StyleTexture
		z   float64
	}
	order := make([]drawable, 0, len(resolved))
	for i := range resolved {
		rb := &resolved[i]
		if rb.Tex == "" {
			continue
		}
		tex := Resolve(rb.Tex, styles)
		if tex == nil {
			continue
		}
		z := rb.ZIndex
		if tex.ZIndex != nil {
			z = *tex.ZIndex
		}
		order = append(order, drawable{rb: rb, tex: tex, z: z})
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].z < order[j].z })

	for _, d := range order {
		tint := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		if d.tex.Tint != nil {
			tint = *d.tex.Tint
		}
		em.Emit(Primitive{
			Bone:   d.rb.Index,
			Atlas:  d.tex.Atlas,
			Src:    d.tex.Offset,
			Size:   d.tex.Size,
			Pos:    d.rb.Pos,
			Rot:    d.rb.Rot,
			Scale:  d.rb.Scale,
			Tint:   tint,
			ZIndex: d.z,
		})
	}
	return nil
}
