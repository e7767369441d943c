package imgproc

// Dilate grows foreground (bright) regions by taking, for every pixel, the
// max over a K×K square neighborhood. K must be odd. The pass reads from a
// pre-cloned source so the update is atomic with respect to the whole pass:
// no output pixel ever feeds into the computation of another.
func Dilate(src *Gray, k int) *Gray {
	return morphSquare(src, k, true)
}

// Erode shrinks foreground regions, taking the min over a K×K neighborhood.
func Erode(src *Gray, k int) *Gray {
	return morphSquare(src, k, false)
}

func morphSquare(src *Gray, k int, dilate bool) *Gray {
	must(k%2 == 1, "morphology kernel size must be odd")
	half := k / 2
	snapshot := src.Clone()
	out := NewGray(src.W, src.H)
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			var best uint8
			if dilate {
				best = 0
			} else {
				best = 255
			}
			for dy := -half; dy <= half; dy++ {
				for dx := -half; dx <= half; dx++ {
					v := snapshot.At(x+dx, y+dy)
					if dilate {
						if v > best {
							best = v
						}
					} else {
						if v < best {
							best = v
						}
					}
				}
			}
			out.Set(x, y, best)
		}
	}
	return out
}
