// Package cells tiles a rectified grid into 81 normalized 28×28 cell images
// ready for the classifier, and cleans per-cell noise left over from the
// margin crop.
package cells

import (
	"github.com/quillforge/sudoku-vision/internal/gridloc"
	"github.com/quillforge/sudoku-vision/internal/imgproc"
)

// CellSize is the classifier's expected input side.
const CellSize = 28

// TileSize is the size of one cell's slice of the rectified grid
// (rectify.GridSize / 9).
const TileSize = 28

// marginFrac is the fraction of each edge cropped away to discard grid-line
// residue before resizing back up to CellSize.
const marginFrac = 0.20

// emptyThresholdFrac is the fraction of pixels above 128 below which a cell
// is declared empty without consulting the classifier.
const emptyThresholdFrac = 0.05

// Extract tiles a rectified 252×252 grid into 81 cells in row-major order,
// each shrunk by a 20% margin, resized back to 28×28, recentered by
// intensity centroid, and noise-cleaned.
func Extract(grid *imgproc.Gray) [81]*imgproc.Gray {
	var out [81]*imgproc.Gray
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			tile := grid.SubImage(col*TileSize, row*TileSize, TileSize, TileSize)
			shrunk := shrinkMargin(tile, marginFrac)
			resized := imgproc.Resize(shrunk, CellSize, CellSize)
			centered := centerOfMass(resized)
			cleaned := CleanNoise(centered)
			out[row*9+col] = cleaned
		}
	}
	return out
}

// shrinkMargin crops a fraction of each edge and resizes back up to the
// original dimensions, discarding grid-line residue near the tile border.
func shrinkMargin(tile *imgproc.Gray, frac float64) *imgproc.Gray {
	mx := int(float64(tile.W) * frac)
	my := int(float64(tile.H) * frac)
	w := tile.W - 2*mx
	h := tile.H - 2*my
	if w <= 0 || h <= 0 {
		return tile.Clone()
	}
	cropped := tile.SubImage(mx, my, w, h)
	return imgproc.Resize(cropped, tile.W, tile.H)
}

// centerOfMass treats pixel intensity as mass, computes the centroid, and
// shifts the image so the centroid lands at the image center. Pixels
// shifted outside the frame are dropped; newly exposed pixels are 0.
func centerOfMass(img *imgproc.Gray) *imgproc.Gray {
	var sumX, sumY, sumM float64
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			m := float64(img.At(x, y))
			sumX += float64(x) * m
			sumY += float64(y) * m
			sumM += m
		}
	}
	if sumM == 0 {
		return img.Clone()
	}
	cx := sumX / sumM
	cy := sumY / sumM
	targetX := float64(img.W) / 2
	targetY := float64(img.H) / 2
	dx := int(targetX - cx)
	dy := int(targetY - cy)

	out := imgproc.NewGray(img.W, img.H)
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			v := img.At(x, y)
			if v == 0 {
				continue
			}
			out.Set(x+dx, y+dy, v)
		}
	}
	return out
}

// IsEmpty reports whether fewer than 5% of a thresholded cell's pixels
// exceed 128, meaning the classifier should not be consulted.
func IsEmpty(cell *imgproc.Gray) bool {
	bright := 0
	for _, v := range cell.Pix {
		if v > 128 {
			bright++
		}
	}
	total := len(cell.Pix)
	if total == 0 {
		return true
	}
	return float64(bright)/float64(total) < emptyThresholdFrac
}

// CleanNoise keeps only the largest 4-connected foreground component of a
// thresholded cell, zeroing everything else. This removes border-line
// artifacts that survive the margin crop. Reuses gridloc's flood-fill
// primitive rather than duplicating connected-component logic.
func CleanNoise(cell *imgproc.Gray) *imgproc.Gray {
	return gridloc.KeepOnlyLargest(cell)
}
