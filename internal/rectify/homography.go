// Package rectify solves for and applies the perspective homography that
// maps a detected grid quadrilateral onto a square output image.
package rectify

import (
	"math"

	"github.com/quillforge/sudoku-vision/internal/gridloc"
	"github.com/quillforge/sudoku-vision/internal/pipeline"
)

// Homography is a 3×3 matrix with H[2][2] normalized to 1.
type Homography [3][3]float64

// Solve computes the homography mapping src[i] -> dst[i] for four point
// correspondences, by forming the 8×8 linear system in unknowns h00..h21
// (h22=1) and solving it with Gaussian elimination with partial pivoting.
// Fails with KindDegeneracy if any pivot magnitude is below 1e-10.
func Solve(src, dst [4]gridloc.Point) (Homography, error) {
	var a [8][8]float64
	var b [8]float64
	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		r0 := 2 * i
		a[r0] = [8]float64{x, y, 1, 0, 0, 0, -u * x, -u * y}
		b[r0] = u
		r1 := 2*i + 1
		a[r1] = [8]float64{0, 0, 0, x, y, 1, -v * x, -v * y}
		b[r1] = v
	}

	h, err := gaussianEliminate(a, b)
	if err != nil {
		return Homography{}, pipeline.Wrap(pipeline.KindDegeneracy, "rectify.Solve", err)
	}

	return Homography{
		{h[0], h[1], h[2]},
		{h[3], h[4], h[5]},
		{h[6], h[7], 1},
	}, nil
}

// gaussianEliminate solves A·x = b for an 8×8 system with partial pivoting.
func gaussianEliminate(a [8][8]float64, b [8]float64) ([8]float64, error) {
	const n = 8
	var aug [n][n + 1]float64
	for i := 0; i < n; i++ {
		copy(aug[i][:n], a[i][:])
		aug[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		pivotRow := col
		pivotMag := math.Abs(aug[col][col])
		for r := col + 1; r < n; r++ {
			if m := math.Abs(aug[r][col]); m > pivotMag {
				pivotMag = m
				pivotRow = r
			}
		}
		if pivotMag < 1e-10 {
			return [8]float64{}, errSingular
		}
		aug[col], aug[pivotRow] = aug[pivotRow], aug[col]

		pivot := aug[col][col]
		for c := col; c <= n; c++ {
			aug[col][c] /= pivot
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for c := col; c <= n; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}

	var x [8]float64
	for i := 0; i < n; i++ {
		x[i] = aug[i][n]
	}
	return x, nil
}

type singularErr struct{}

func (singularErr) Error() string { return "homography system is singular (pivot below 1e-10)" }

var errSingular = singularErr{}

// Inverse computes the closed-form inverse of a 3×3 matrix, failing with
// KindDegeneracy if |det| < 1e-10.
func (h Homography) Inverse() (Homography, error) {
	a, b, c := h[0][0], h[0][1], h[0][2]
	d, e, f := h[1][0], h[1][1], h[1][2]
	g, i, j := h[2][0], h[2][1], h[2][2]

	det := a*(e*j-f*i) - b*(d*j-f*g) + c*(d*i-e*g)
	if math.Abs(det) < 1e-10 {
		return Homography{}, pipeline.New(pipeline.KindDegeneracy, "Homography.Inverse", "singular homography: |det| < 1e-10")
	}
	invDet := 1.0 / det

	var out Homography
	out[0][0] = (e*j - f*i) * invDet
	out[0][1] = (c*i - b*j) * invDet
	out[0][2] = (b*f - c*e) * invDet
	out[1][0] = (f*g - d*j) * invDet
	out[1][1] = (a*j - c*g) * invDet
	out[1][2] = (c*d - a*f) * invDet
	out[2][0] = (d*i - e*g) * invDet
	out[2][1] = (b*g - a*i) * invDet
	out[2][2] = (a*e - b*d) * invDet
	return out, nil
}

// Apply maps a point through the homography, dividing by the homogeneous
// coordinate.
func (h Homography) Apply(p gridloc.Point) gridloc.Point {
	x := h[0][0]*p.X + h[0][1]*p.Y + h[0][2]
	y := h[1][0]*p.X + h[1][1]*p.Y + h[1][2]
	w := h[2][0]*p.X + h[2][1]*p.Y + h[2][2]
	if w == 0 {
		return gridloc.Point{}
	}
	return gridloc.Point{X: x / w, Y: y / w}
}
