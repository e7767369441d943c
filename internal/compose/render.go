package compose

import (
	"github.com/quillforge/sudoku-vision/internal/imgproc"
)

// Red is the distinguishing color spec.md §4.G mandates for solved digits.
var Red = [3]uint8{255, 0, 0}

// Render converts the rectified gray grid to RGB by channel replication,
// then draws each non-fixed cell's solved digit at its geometric center in
// red. cellSize is the pixel width of one of the 9 cells (28 for the
// 252x252 rectified grid).
func Render(grid *imgproc.Gray, digits [9][9]uint8, fixed [9][9]bool, cellSize int) *imgproc.RGB {
	out := imgproc.FromGray(grid)
	scale := (cellSize * 2 / 3) / glyphRows
	if scale < 1 {
		scale = 1
	}
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if fixed[r][c] {
				continue
			}
			d := digits[r][c]
			if d == 0 || d > 9 {
				continue
			}
			cx := c*cellSize + cellSize/2
			cy := r*cellSize + cellSize/2
			drawDigit(out, d, cx, cy, scale, Red)
		}
	}
	return out
}

// drawDigit paints glyph d centered at (cx,cy), each font cell scaled by
// the given pixel multiplier.
func drawDigit(img *imgproc.RGB, d uint8, cx, cy, scale int, col [3]uint8) {
	if d > 9 {
		return
	}
	glyph := digitFont[d]
	w := glyphCols * scale
	h := glyphRows * scale
	x0 := cx - w/2
	y0 := cy - h/2
	for row := 0; row < glyphRows; row++ {
		bits := glyph[row]
		for colBit := 0; colBit < glyphCols; colBit++ {
			mask := uint8(1) << uint(glyphCols-1-colBit)
			if bits&mask == 0 {
				continue
			}
			for sy := 0; sy < scale; sy++ {
				for sx := 0; sx < scale; sx++ {
					px := x0 + colBit*scale + sx
					py := y0 + row*scale + sy
					setPixel(img, px, py, col)
				}
			}
		}
	}
}

func setPixel(img *imgproc.RGB, x, y int, col [3]uint8) {
	if x < 0 || x >= img.W || y < 0 || y >= img.H {
		return
	}
	off := img.PixOffset(x, y)
	img.Pix[off+0] = col[0]
	img.Pix[off+1] = col[1]
	img.Pix[off+2] = col[2]
}

// DrawLine draws a straight segment from (x0,y0) to (x1,y1) using
// Bresenham's algorithm, with the given thickness in pixels. Used for
// debug grid overlays, not for rendering solved digits.
func DrawLine(img *imgproc.RGB, x0, y0, x1, y1, thickness int, col [3]uint8) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		paintThick(img, x, y, thickness, col)
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func paintThick(img *imgproc.RGB, cx, cy, thickness int, col [3]uint8) {
	half := thickness / 2
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			setPixel(img, cx+dx, cy+dy, col)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
