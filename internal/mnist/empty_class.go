package mnist

import (
	"math/rand"

	"github.com/quillforge/sudoku-vision/internal/cnn"
)

// GenerateEmptySamples appends n synthetic class-0 ("empty cell") samples
// to d, grounded on the per-pixel rand.Rand-seeded noise generation in the
// teacher's AddNoise. The mixture matches spec.md §4.E: 70% near-black
// noise in [0,0.05], 20% uniform noise in [0,0.15], 10% near-black with
// 1-3 bright blob pixels.
func GenerateEmptySamples(d *cnn.Dataset, n int, rng *rand.Rand) {
	imgSize := d.ImageSize
	if imgSize == 0 {
		imgSize = 28 * 28
	}
	for i := 0; i < n; i++ {
		img := make([]float32, imgSize)
		roll := rng.Float64()
		switch {
		case roll < 0.70:
			for j := range img {
				img[j] = float32(rng.Float64() * 0.05)
			}
		case roll < 0.90:
			for j := range img {
				img[j] = float32(rng.Float64() * 0.15)
			}
		default:
			for j := range img {
				img[j] = float32(rng.Float64() * 0.05)
			}
			blobs := 1 + rng.Intn(3)
			for b := 0; b < blobs; b++ {
				idx := rng.Intn(imgSize)
				img[idx] = float32(0.8 + rng.Float64()*0.2)
			}
		}
		d.Append(img, 0)
	}
}
