package rectify

import (
	"math"

	"github.com/quillforge/sudoku-vision/internal/gridloc"
	"github.com/quillforge/sudoku-vision/internal/imgproc"
)

// GridSize is the rectified output's side length: 9 cells of 28px each, so
// cell extraction (internal/cells) divides exactly.
const GridSize = 9 * 28

// Warp computes the homography mapping src onto a GridSize×GridSize square
// and inverse-warps srcImg into it. Sampling is nearest-neighbor: the input
// has already been binarized, so bilinear would reintroduce gray pixels the
// downstream classifier never saw in training.
func Warp(srcImg *imgproc.Gray, quad gridloc.Quad) (*imgproc.Gray, error) {
	dst := [4]gridloc.Point{
		{X: 0, Y: 0},
		{X: GridSize - 1, Y: 0},
		{X: GridSize - 1, Y: GridSize - 1},
		{X: 0, Y: GridSize - 1},
	}
	src := [4]gridloc.Point{quad[0], quad[1], quad[2], quad[3]}
	h, err := Solve(src, dst)
	if err != nil {
		return nil, err
	}
	inv, err := h.Inverse()
	if err != nil {
		return nil, err
	}
	return WarpWithInverse(srcImg, inv, GridSize, GridSize), nil
}

// WarpWithInverse inverse-maps every destination pixel through inv to find
// its source coordinate, nearest-neighbor samples it, and writes 0 for
// destinations that map outside the source.
func WarpWithInverse(srcImg *imgproc.Gray, inv Homography, dstW, dstH int) *imgproc.Gray {
	out := imgproc.NewGray(dstW, dstH)
	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			sp := inv.Apply(gridloc.Point{X: float64(x), Y: float64(y)})
			sx := int(math.Round(sp.X))
			sy := int(math.Round(sp.Y))
			if sx < 0 || sx >= srcImg.W || sy < 0 || sy >= srcImg.H {
				continue
			}
			out.Set(x, y, srcImg.At(sx, sy))
		}
	}
	return out
}
