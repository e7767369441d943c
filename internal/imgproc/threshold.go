package imgproc

// ThresholdOtsu binarizes src using the threshold that maximizes
// between-class variance of the 256-bin histogram. Pixels strictly greater
// than the chosen threshold become 255, the rest 0.
func ThresholdOtsu(src *Gray) *Gray {
	t := OtsuThreshold(src)
	return ThresholdFixed(src, t)
}

// OtsuThreshold computes (without applying) the Otsu threshold for src.
func OtsuThreshold(src *Gray) uint8 {
	var hist [256]int
	for _, v := range src.Pix {
		hist[v]++
	}
	total := len(src.Pix)
	if total == 0 {
		return 0
	}

	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i) * float64(c)
	}

	var sumB, wB float64
	var best float64 = -1
	bestT := 0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sumAll - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			bestT = t
		}
	}
	return uint8(bestT)
}

// ThresholdFixed binarizes src against an explicit threshold t: pixels
// strictly greater than t become 255, the rest 0.
func ThresholdFixed(src *Gray, t uint8) *Gray {
	out := NewGray(src.W, src.H)
	for i, v := range src.Pix {
		if v > t {
			out.Pix[i] = 255
		}
	}
	return out
}

// Invert flips every pixel v to 255-v.
func Invert(src *Gray) *Gray {
	out := NewGray(src.W, src.H)
	for i, v := range src.Pix {
		out.Pix[i] = 255 - v
	}
	return out
}

// NormalizeToFloat maps src's 8-bit pixels into [0,1] float32 values, the
// representation the CNN and the dataset loaders consume.
func NormalizeToFloat(src *Gray) []float32 {
	out := make([]float32, len(src.Pix))
	for i, v := range src.Pix {
		out[i] = float32(v) / 255.0
	}
	return out
}
