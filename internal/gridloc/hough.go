package gridloc

import (
	"math"
	"sort"

	"github.com/quillforge/sudoku-vision/internal/imgproc"
)

// HoughLine is a polar-parameterized line with its accumulated vote count.
type HoughLine struct {
	Rho   float64
	Theta int // degrees, 0..179
	Votes int
}

// houghAccumulate votes every edge pixel in src (>128) into (rho, integer
// theta-degree) bins.
func houghAccumulate(src *imgproc.Gray) (acc map[[2]int]int, rhoMax float64) {
	rhoMax = math.Hypot(float64(src.W), float64(src.H))
	acc = make(map[[2]int]int)
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			if src.At(x, y) <= 128 {
				continue
			}
			for theta := 0; theta < 180; theta++ {
				rad := float64(theta) * math.Pi / 180.0
				rho := float64(x)*math.Cos(rad) + float64(y)*math.Sin(rad)
				key := [2]int{int(math.Round(rho)), theta}
				acc[key]++
			}
		}
	}
	return acc, rhoMax
}

// houghLocalMaxima keeps accumulator cells that are a local maximum within a
// 3×3 (rho,theta) window and whose vote count exceeds minVotes.
func houghLocalMaxima(acc map[[2]int]int, minVotes int) []HoughLine {
	var lines []HoughLine
	for k, v := range acc {
		if v <= minVotes {
			continue
		}
		isMax := true
		for dr := -1; dr <= 1 && isMax; dr++ {
			for dt := -1; dt <= 1 && isMax; dt++ {
				if dr == 0 && dt == 0 {
					continue
				}
				nk := [2]int{k[0] + dr, k[1] + dt}
				if nv, ok := acc[nk]; ok && nv > v {
					isMax = false
				}
			}
		}
		if isMax {
			lines = append(lines, HoughLine{Rho: float64(k[0]), Theta: k[1], Votes: v})
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Votes != lines[j].Votes {
			return lines[i].Votes > lines[j].Votes
		}
		// stable tie-break by (rho,theta) so output is deterministic.
		if lines[i].Rho != lines[j].Rho {
			return lines[i].Rho < lines[j].Rho
		}
		return lines[i].Theta < lines[j].Theta
	})
	return lines
}

func isVertical(theta int) bool {
	return theta < 30 || theta > 150
}

func isHorizontal(theta int) bool {
	return theta > 60 && theta < 120
}

// intersect computes the intersection of two lines given in polar form. A
// near-zero determinant (parallel lines) reports ok=false.
func intersect(a, b HoughLine) (Point, bool) {
	ra := float64(a.Theta) * math.Pi / 180.0
	rb := float64(b.Theta) * math.Pi / 180.0
	cosA, sinA := math.Cos(ra), math.Sin(ra)
	cosB, sinB := math.Cos(rb), math.Sin(rb)
	det := cosA*sinB - cosB*sinA
	if math.Abs(det) < 1e-9 {
		return Point{}, false
	}
	x := (a.Rho*sinB - b.Rho*sinA) / det
	y := (cosA*b.Rho - cosB*a.Rho) / det
	return Point{X: x, Y: y}, true
}

// HoughLocate finds the grid quadrilateral by intersecting the outermost
// vertical and horizontal Hough lines detected in an edge image. It returns
// ok=false if no candidate quadrilateral survives.
func HoughLocate(edges *imgproc.Gray, minVotes int) (Quad, bool) {
	acc, _ := houghAccumulate(edges)
	candidates := houghLocalMaxima(acc, minVotes)

	var verticals, horizontals []HoughLine
	for _, l := range candidates {
		switch {
		case isVertical(l.Theta):
			verticals = append(verticals, l)
		case isHorizontal(l.Theta):
			horizontals = append(horizontals, l)
		}
	}
	const topN = 20
	if len(verticals) > topN {
		verticals = verticals[:topN]
	}
	if len(horizontals) > topN {
		horizontals = horizontals[:topN]
	}
	if len(verticals) < 2 || len(horizontals) < 2 {
		return Quad{}, false
	}

	left := extremeByRho(verticals, false)
	right := extremeByRho(verticals, true)
	top := extremeByRho(horizontals, false)
	bottom := extremeByRho(horizontals, true)

	corners := make([]Point, 0, 4)
	for _, pair := range [][2]HoughLine{{left, top}, {right, top}, {right, bottom}, {left, bottom}} {
		p, ok := intersect(pair[0], pair[1])
		if !ok {
			return Quad{}, false
		}
		corners = append(corners, p)
	}

	halfW := float64(edges.W) / 2
	halfH := float64(edges.H) / 2
	for _, c := range corners {
		if c.X < -halfW || c.X > float64(edges.W)+halfW {
			return Quad{}, false
		}
		if c.Y < -halfH || c.Y > float64(edges.H)+halfH {
			return Quad{}, false
		}
	}

	return OrderCorners(corners), true
}

func extremeByRho(lines []HoughLine, max bool) HoughLine {
	best := lines[0]
	for _, l := range lines[1:] {
		if max && l.Rho > best.Rho {
			best = l
		} else if !max && l.Rho < best.Rho {
			best = l
		}
	}
	return best
}
