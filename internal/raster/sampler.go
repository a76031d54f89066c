package raster

import "image"

// SampleAtlas performs bilinear filtering at atlas pixel coordinates,
// clamped to the sprite's source rectangle so a sprite never bleeds
// texels from its atlas neighbors. Accesses tex.Pix directly for
// performance.
func SampleAtlas(tex *image.NRGBA, x, y, minX, minY, maxX, maxY float64) (r, g, b, a uint8) {
	if x < minX {
		x = minX
	}
	if y < minY {
		y = minY
	}
	if x > maxX-1 {
		x = maxX - 1
	}
	if y > maxY-1 {
		y = maxY - 1
	}

	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1
	// Keep the second texel inside the source rectangle.
	if float64(x1) > maxX-1 {
		x1 = x0
	}
	if float64(y1) > maxY-1 {
		y1 = y0
	}
	if x0 < 0 || y0 < 0 || x1 >= tex.Rect.Dx() || y1 >= tex.Rect.Dy() {
		return 0, 0, 0, 0
	}
	dx := x - float64(x0)
	dy := y - float64(y0)

	stride := tex.Stride
	pix := tex.Pix

	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	fr := float64(pix[i00])*w00 + float64(pix[i10])*w10 + float64(pix[i01])*w01 + float64(pix[i11])*w11
	fg := float64(pix[i00+1])*w00 + float64(pix[i10+1])*w10 + float64(pix[i01+1])*w01 + float64(pix[i11+1])*w11
	fb := float64(pix[i00+2])*w00 + float64(pix[i10+2])*w10 + float64(pix[i01+2])*w01 + float64(pix[i11+2])*w11
	fa := float64(pix[i00+3])*w00 + float64(pix[i10+3])*w10 + float64(pix[i01+3])*w01 + float64(pix[i11+3])*w11

	return uint8(fr + 0.5), uint8(fg + 0.5), uint8(fb + 0.5), uint8(fa + 0.5)
}
