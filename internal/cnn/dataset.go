package cnn

import "math/rand"

// Dataset owns a parallel set of normalized 784-float cell images and
// 8-bit labels. It is constructed by a loader, mutated only by shuffling
// and additive loaders, and destroyed as a unit.
type Dataset struct {
	Images    [][]float32
	Labels    []uint8
	ImageSize int
}

// Count returns the number of samples.
func (d *Dataset) Count() int { return len(d.Images) }

// Append adds one sample in place.
func (d *Dataset) Append(image []float32, label uint8) {
	d.Images = append(d.Images, image)
	d.Labels = append(d.Labels, label)
}

// Shuffle performs an in-place Fisher-Yates shuffle using the supplied
// PRNG, keeping images and labels in the same relative order. The caller
// owns rng, so training runs are reproducible given a seed.
func (d *Dataset) Shuffle(rng *rand.Rand) {
	for i := len(d.Images) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.Images[i], d.Images[j] = d.Images[j], d.Images[i]
		d.Labels[i], d.Labels[j] = d.Labels[j], d.Labels[i]
	}
}
