package cells

import (
	"testing"

	"github.com/quillforge/sudoku-vision/internal/imgproc"
)

func TestExtractProducesEightyOneNormalizedCells(t *testing.T) {
	grid := imgproc.NewGray(252, 252)
	out := Extract(grid)
	for i, c := range out {
		if c.W != CellSize || c.H != CellSize {
			t.Fatalf("cell %d has size %dx%d, want %dx%d", i, c.W, c.H, CellSize, CellSize)
		}
	}
}

func TestIsEmptyOnBlankCell(t *testing.T) {
	cell := imgproc.NewGray(CellSize, CellSize)
	if !IsEmpty(cell) {
		t.Fatalf("blank cell should be reported empty")
	}
}

func TestIsEmptyOnInkedCell(t *testing.T) {
	cell := imgproc.NewGray(CellSize, CellSize)
	for y := 10; y < 18; y++ {
		for x := 10; x < 18; x++ {
			cell.Set(x, y, 255)
		}
	}
	if IsEmpty(cell) {
		t.Fatalf("heavily inked cell should not be reported empty")
	}
}

func TestCleanNoiseKeepsOnlyLargestComponent(t *testing.T) {
	cell := imgproc.NewGray(CellSize, CellSize)
	cell.Set(0, 0, 255) // isolated speck
	for y := 10; y < 20; y++ {
		for x := 10; x < 20; x++ {
			cell.Set(x, y, 255)
		}
	}
	cleaned := CleanNoise(cell)
	if cleaned.At(0, 0) != 0 {
		t.Fatalf("isolated speck should have been removed")
	}
	if cleaned.At(15, 15) != 255 {
		t.Fatalf("largest component should survive")
	}
}

func TestCenterOfMassCentersBlob(t *testing.T) {
	img := imgproc.NewGray(CellSize, CellSize)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			img.Set(x, y, 255)
		}
	}
	out := centerOfMass(img)
	// The blob's centroid (~2.5,2.5) should move toward the frame center (14,14).
	var sumX, sumY, sumM float64
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			m := float64(out.At(x, y))
			sumX += float64(x) * m
			sumY += float64(y) * m
			sumM += m
		}
	}
	if sumM == 0 {
		t.Fatalf("expected surviving mass after recentering")
	}
	cx, cy := sumX/sumM, sumY/sumM
	if cx < 12 || cx > 16 || cy < 12 || cy > 16 {
		t.Fatalf("centroid not recentered: got (%f,%f)", cx, cy)
	}
}
