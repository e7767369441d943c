package gridloc

import (
	"github.com/quillforge/sudoku-vision/internal/imgproc"
	"github.com/quillforge/sudoku-vision/internal/pipeline"
)

// Strategy records which localization strategy produced a Result, so
// debug-mode CLIs can report (and dump intermediates for) whichever path
// actually fired.
type Strategy string

const (
	StrategyBlob  Strategy = "blob"
	StrategyHough Strategy = "hough"
)

// Result is the localizer's output: the ordered quadrilateral, which
// strategy produced it, and (for the blob strategy) the labeled mask, kept
// around for debug dumps.
type Result struct {
	Quad     Quad
	Strategy Strategy
	Labels   []int
}

// minVotesDefault is the Hough accumulator vote threshold used by Locate's
// fallback path.
const minVotesDefault = 40

// Locate finds the puzzle's bounding quadrilateral in a binarized+inverted
// image (foreground=ink=255). It first tries the largest connected
// foreground component, accepting it only if its bounding-box area is at
// least 1/16th of the image; otherwise it falls back to Hough line
// intersection on a Sobel/Canny edge map of the same image.
func Locate(binInverted *imgproc.Gray) (Result, error) {
	labels, largest, ok := LargestComponent(binInverted)
	imgArea := binInverted.W * binInverted.H
	if ok {
		bboxArea := (largest.MaxX - largest.MinX + 1) * (largest.MaxY - largest.MinY + 1)
		if bboxArea*16 >= imgArea {
			quad := cornersFromComponent(binInverted, labels, largest.Label)
			return Result{Quad: quad, Strategy: StrategyBlob, Labels: labels}, nil
		}
	}

	edges := imgproc.Canny(binInverted, 60, 150)
	quad, ok := HoughLocate(edges, minVotesDefault)
	if !ok {
		return Result{}, pipeline.New(pipeline.KindDegeneracy, "gridloc.Locate", "no grid found: blob too small and no Hough candidate survived")
	}
	return Result{Quad: quad, Strategy: StrategyHough}, nil
}

// cornersFromComponent extremizes x+y / y-x over every pixel belonging to
// the given component label to obtain the four ordered corners.
func cornersFromComponent(src *imgproc.Gray, labels []int, label int) Quad {
	var pts []Point
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			if labels[y*src.W+x] == label {
				pts = append(pts, Point{X: float64(x), Y: float64(y)})
			}
		}
	}
	return OrderCorners(pts)
}
