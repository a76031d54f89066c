package raster

import (
	"image"
	"math"

	"skelform-renderer/internal/style"
)

// Canvas rasterizes emitted draw primitives into a framebuffer. It
// implements style.Emitter, which makes it the host-renderer side of the
// render boundary: the pipeline emits, the canvas draws.
type Canvas struct {
	FB      *FrameBuffer
	Atlases []*image.NRGBA
}

// NewCanvas allocates a canvas of the given size over the given atlases.
func NewCanvas(w, h int, atlases []*image.NRGBA) *Canvas {
	return &Canvas{FB: NewFrameBuffer(w, h), Atlases: atlases}
}

// Clear resets the framebuffer for the next frame.
func (c *Canvas) Clear() {
	c.FB.Clear()
}

// Emit draws one sprite quad: the primitive's atlas region, scaled and
// rotated about its center at the primitive's world position, tinted and
// alpha-composited over the current frame contents.
//
// This is the hot path. Each destination pixel inside the quad's bounding
// box is inverse-mapped into the source rectangle and bilinearly sampled;
// nothing allocates in the loop.
func (c *Canvas) Emit(p style.Primitive) {
	if p.Atlas < 0 || p.Atlas >= len(c.Atlases) {
		return
	}
	tex := c.Atlases[p.Atlas]
	sw, sh := p.Size[0], p.Size[1]
	sx, sy := p.Scale[0], p.Scale[1]
	if sw <= 0 || sh <= 0 || sx == 0 || sy == 0 {
		return
	}

	// Conservative bounding box: the quad's circumscribed circle.
	hx := sw * math.Abs(sx) / 2
	hy := sh * math.Abs(sy) / 2
	radius := math.Sqrt(hx*hx + hy*hy)
	minX := int(math.Floor(p.Pos[0] - radius))
	maxX := int(math.Ceil(p.Pos[0] + radius))
	minY := int(math.Floor(p.Pos[1] - radius))
	maxY := int(math.Ceil(p.Pos[1] + radius))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > c.FB.Width-1 {
		maxX = c.FB.Width - 1
	}
	if maxY > c.FB.Height-1 {
		maxY = c.FB.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	cos, sin := math.Cos(-p.Rot), math.Sin(-p.Rot)
	invSX, invSY := 1/sx, 1/sy
	srcMinX, srcMinY := p.Src[0], p.Src[1]
	srcMaxX, srcMaxY := p.Src[0]+sw, p.Src[1]+sh
	tintR := float64(p.Tint.R) / 255
	tintG := float64(p.Tint.G) / 255
	tintB := float64(p.Tint.B) / 255
	tintA := float64(p.Tint.A) / 255

	for py := minY; py <= maxY; py++ {
		dy := float64(py) + 0.5 - p.Pos[1]
		for px := minX; px <= maxX; px++ {
			dx := float64(px) + 0.5 - p.Pos[0]

			// Un-rotate, then un-scale into sprite-local space.
			lx := (dx*cos - dy*sin) * invSX
			ly := (dx*sin + dy*cos) * invSY
			u := lx + sw/2
			v := ly + sh/2
			if u < 0 || u >= sw || v < 0 || v >= sh {
				continue
			}

			r, g, b, a := SampleAtlas(tex, srcMinX+u, srcMinY+v, srcMinX, srcMinY, srcMaxX, srcMaxY)
			if a < 2 {
				continue
			}
			c.FB.blendPixel(px, py,
				uint8(float64(r)*tintR+0.5),
				uint8(float64(g)*tintG+0.5),
				uint8(float64(b)*tintB+0.5),
				uint8(float64(a)*tintA+0.5))
		}
	}
}
