package compose

import (
	"testing"

	"github.com/quillforge/sudoku-vision/internal/imgproc"
)

func TestRenderSkipsFixedCells(t *testing.T) {
	grid := imgproc.NewGray(252, 252)
	var digits [9][9]uint8
	var fixed [9][9]bool
	digits[0][0] = 5
	fixed[0][0] = true
	digits[1][1] = 7

	out := Render(grid, digits, fixed, 28)
	if out.W != 252 || out.H != 252 {
		t.Fatalf("unexpected output size %dx%d", out.W, out.H)
	}

	foundRed := false
	for i := 0; i < len(out.Pix); i += 3 {
		if out.Pix[i] == 255 && out.Pix[i+1] == 0 && out.Pix[i+2] == 0 {
			foundRed = true
			break
		}
	}
	if !foundRed {
		t.Fatalf("expected at least one red pixel for the non-fixed cell's digit")
	}

	for y := 0; y < 28; y++ {
		for x := 0; x < 28; x++ {
			off := out.PixOffset(x, y)
			if out.Pix[off] == 255 && out.Pix[off+1] == 0 && out.Pix[off+2] == 0 {
				t.Fatalf("fixed cell (0,0) should not have its digit drawn")
			}
		}
	}
}

func TestRenderDrawsNothingWhenAllCellsFixed(t *testing.T) {
	grid := imgproc.NewGray(252, 252)
	var digits [9][9]uint8
	var fixed [9][9]bool
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			digits[r][c] = uint8(1 + (r+c)%9)
			fixed[r][c] = true
		}
	}
	out := Render(grid, digits, fixed, 28)
	for i := 0; i < len(out.Pix); i += 3 {
		if out.Pix[i] == 255 && out.Pix[i+1] == 0 && out.Pix[i+2] == 0 {
			t.Fatalf("expected no red pixels when every cell is fixed")
		}
	}
}

func TestDrawLineEndpointsPainted(t *testing.T) {
	img := imgproc.NewRGB(50, 50, 3)
	DrawLine(img, 5, 5, 40, 5, 1, [3]uint8{255, 0, 0})
	off := img.PixOffset(5, 5)
	if img.Pix[off] != 255 {
		t.Fatalf("expected line start pixel painted red")
	}
	off = img.PixOffset(40, 5)
	if img.Pix[off] != 255 {
		t.Fatalf("expected line end pixel painted red")
	}
}

func TestAnnotateDebugDoesNotPanicOrResize(t *testing.T) {
	img := imgproc.NewRGB(20, 20, 3)
	out := AnnotateDebug(img, "x", 2, 10, [3]uint8{0, 255, 0})
	if out.W != 20 || out.H != 20 {
		t.Fatalf("expected annotation to preserve dimensions, got %dx%d", out.W, out.H)
	}
}
