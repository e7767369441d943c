package imgproc

import "math"

// Resize scales src to w'×h' using bilinear interpolation, clamping sample
// coordinates to the source bounds so the right/bottom edge samples the
// nearest valid pixel instead of reading out of range. Mirrors the
// coordinate-mapping convention in the teacher's ResampleLanczos/
// sampleBilinear pair, simplified from Lanczos down to bilinear per spec.
func Resize(src *Gray, wPrime, hPrime int) *Gray {
	out := NewGray(wPrime, hPrime)
	if wPrime == 0 || hPrime == 0 || src.W == 0 || src.H == 0 {
		return out
	}
	xScale := float64(src.W) / float64(wPrime)
	yScale := float64(src.H) / float64(hPrime)
	for y := 0; y < hPrime; y++ {
		sy := (float64(y) + 0.5) * yScale
		for x := 0; x < wPrime; x++ {
			sx := (float64(x) + 0.5) * xScale
			out.Set(x, y, sampleBilinear(src, sx-0.5, sy-0.5))
		}
	}
	return out
}

// sampleBilinear samples src at floating coordinates, clamping both the
// integer neighbors and the final result to the valid byte range.
func sampleBilinear(src *Gray, x, y float64) uint8 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1

	xFrac := x - float64(x0)
	yFrac := y - float64(y0)

	c00 := float64(src.At(x0, y0))
	c10 := float64(src.At(x1, y0))
	c01 := float64(src.At(x0, y1))
	c11 := float64(src.At(x1, y1))

	top := c00*(1-xFrac) + c10*xFrac
	bot := c01*(1-xFrac) + c11*xFrac
	return clampU8(top*(1-yFrac) + bot*yFrac)
}
