// Package gridloc locates the quadrilateral bounding a printed Sudoku grid
// within a binarized, inverted image (foreground=ink=255), primarily via the
// largest connected foreground component, falling back to Hough line
// intersection when that component is too small to trust.
package gridloc

// Point is an image-space coordinate; origin top-left, y grows downward.
type Point struct {
	X, Y float64
}

// Quad is an ordered quadrilateral: 0=TL, 1=TR, 2=BR, 3=BL.
type Quad [4]Point

// OrderCorners sorts four arbitrary corner points into the canonical
// TL/TR/BR/BL order by extremizing x+y (TL min, BR max) and y-x (TR min,
// BL max), independent of input order or initial quadrant.
func OrderCorners(pts []Point) Quad {
	tl, tr, br, bl := pts[0], pts[0], pts[0], pts[0]
	minSum, maxSum := sum(pts[0]), sum(pts[0])
	minDiff, maxDiff := diff(pts[0]), diff(pts[0])
	for _, p := range pts[1:] {
		if s := sum(p); s < minSum {
			minSum, tl = s, p
		} else if s > maxSum {
			maxSum, br = s, p
		}
		if d := diff(p); d < minDiff {
			minDiff, tr = d, p
		} else if d > maxDiff {
			maxDiff, bl = d, p
		}
	}
	return Quad{tl, tr, br, bl}
}

func sum(p Point) float64  { return p.X + p.Y }
func diff(p Point) float64 { return p.Y - p.X }
