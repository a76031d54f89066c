package raster

import "image"

// FrameBuffer holds the rendering target as a flat RGBA slice for cache
// locality. There is no depth buffer: primitives arrive back-to-front
// from the emitter and composite with the painter's algorithm.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8 // non-premultiplied RGBA interleaved, len = W*H*4
}

// NewFrameBuffer allocates a fully transparent buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*4),
	}
}

// Clear resets every pixel to transparent black.
func (fb *FrameBuffer) Clear() {
	for i := range fb.Color {
		fb.Color[i] = 0
	}
}

// Image copies the buffer into a standalone NRGBA image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}

// blendPixel composites src over dst at (x, y), non-premultiplied.
func (fb *FrameBuffer) blendPixel(x, y int, r, g, b, a uint8) {
	if a == 0 || x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	i := (y*fb.Width + x) * 4
	if a == 255 {
		fb.Color[i] = r
		fb.Color[i+1] = g
		fb.Color[i+2] = b
		fb.Color[i+3] = 255
		return
	}
	sa := float64(a) / 255
	da := float64(fb.Color[i+3]) / 255
	oa := sa + da*(1-sa)
	if oa <= 0 {
		return
	}
	inv := 1 / oa
	fb.Color[i] = uint8((float64(r)*sa+float64(fb.Color[i])*da*(1-sa))*inv + 0.5)
	fb.Color[i+1] = uint8((float64(g)*sa+float64(fb.Color[i+1])*da*(1-sa))*inv + 0.5)
	fb.Color[i+2] = uint8((float64(b)*sa+float64(fb.Color[i+2])*da*(1-sa))*inv + 0.5)
	fb.Color[i+3] = uint8(oa*255 + 0.5)
}
