package imgproc

import "math"

var sobelGx = [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
var sobelGy = [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

// Sobel computes 3×3 Gx/Gy gradients and returns the clamped gradient
// magnitude image.
func Sobel(src *Gray) *Gray {
	out := NewGray(src.W, src.H)
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := float64(src.At(x+kx, y+ky))
					gx += v * sobelGx[ky+1][kx+1]
					gy += v * sobelGy[ky+1][kx+1]
				}
			}
			mag := math.Sqrt(gx*gx + gy*gy)
			out.Set(x, y, clampU8(mag))
		}
	}
	return out
}

// Canny runs Sobel, double-thresholds the magnitude into {0,128,255}, then
// iterates hysteresis to a fixpoint: any 128-valued pixel touching a
// 255-valued 8-neighbor is promoted to 255. Surviving 128s are then
// demoted to 0.
func Canny(src *Gray, tlo, thi uint8) *Gray {
	mag := Sobel(src)
	cur := NewGray(src.W, src.H)
	for i, v := range mag.Pix {
		switch {
		case v >= thi:
			cur.Pix[i] = 255
		case v >= tlo:
			cur.Pix[i] = 128
		default:
			cur.Pix[i] = 0
		}
	}

	for {
		changed := false
		next := cur.Clone()
		for y := 0; y < cur.H; y++ {
			for x := 0; x < cur.W; x++ {
				if cur.At(x, y) != 128 {
					continue
				}
				promoted := false
				for dy := -1; dy <= 1 && !promoted; dy++ {
					for dx := -1; dx <= 1 && !promoted; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						if cur.At(x+dx, y+dy) == 255 {
							promoted = true
						}
					}
				}
				if promoted {
					next.Set(x, y, 255)
					changed = true
				}
			}
		}
		cur = next
		if !changed {
			break
		}
	}

	out := NewGray(cur.W, cur.H)
	for i, v := range cur.Pix {
		if v == 255 {
			out.Pix[i] = 255
		}
	}
	return out
}
