package mnist

import (
	"math"
	"math/rand"
)

// Augment applies, in order: a rotation by a uniform angle in
// [-thetaDeg, thetaDeg] around the image center, an integer translation in
// [-d, d] per axis, then additive uniform noise clamped to [0,1].
// Resampling is nearest-neighbor throughout, matching spec.md §4.E.
func Augment(img []float32, w, h int, thetaDeg, translateD, noiseAmt float64, rng *rand.Rand) []float32 {
	angle := (rng.Float64()*2 - 1) * thetaDeg * math.Pi / 180.0
	d := int(translateD)
	dx := float64(rng.Intn(2*d+1) - d)
	dy := float64(rng.Intn(2*d+1) - d)

	cx, cy := float64(w)/2, float64(h)/2
	cosA, sinA := math.Cos(angle), math.Sin(angle)

	out := make([]float32, len(img))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// undo translation, then undo rotation, to find the source pixel.
			sxT := float64(x) - dx
			syT := float64(y) - dy
			relX := sxT - cx
			relY := syT - cy
			srcX := relX*cosA + relY*sinA + cx
			srcY := -relX*sinA + relY*cosA + cy
			ix := int(math.Round(srcX))
			iy := int(math.Round(srcY))
			var v float32
			if ix >= 0 && ix < w && iy >= 0 && iy < h {
				v = img[iy*w+ix]
			}
			out[y*w+x] = v
		}
	}

	for i := range out {
		n := (rng.Float64()*2 - 1) * noiseAmt
		v := float64(out[i]) + n
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		out[i] = float32(v)
	}
	return out
}
