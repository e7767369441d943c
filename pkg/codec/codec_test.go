package codec

import (
	"path/filepath"
	"testing"

	"github.com/quillforge/sudoku-vision/internal/imgproc"
)

func TestSavePNGThenLoadRGBRoundTrip(t *testing.T) {
	img := imgproc.NewRGB(4, 3, 3)
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7 % 256)
	}
	path := filepath.Join(t.TempDir(), "out.png")
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	loaded, err := LoadRGB(path)
	if err != nil {
		t.Fatalf("LoadRGB failed: %v", err)
	}
	if loaded.W != img.W || loaded.H != img.H {
		t.Fatalf("dimension mismatch: got %dx%d want %dx%d", loaded.W, loaded.H, img.W, img.H)
	}
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			off := img.PixOffset(x, y)
			loff := loaded.PixOffset(x, y)
			if loaded.Pix[loff] != img.Pix[off] || loaded.Pix[loff+1] != img.Pix[off+1] || loaded.Pix[loff+2] != img.Pix[off+2] {
				t.Fatalf("pixel mismatch at (%d,%d)", x, y)
			}
		}
	}
}

func TestToGrayAverages(t *testing.T) {
	img := imgproc.NewRGB(1, 1, 3)
	img.Pix[0], img.Pix[1], img.Pix[2] = 10, 20, 30
	gray := ToGray(img)
	if gray.Pix[0] != 20 {
		t.Fatalf("expected average 20, got %d", gray.Pix[0])
	}
}

func TestLoadRGBMissingFileErrors(t *testing.T) {
	_, err := LoadRGB(filepath.Join(t.TempDir(), "does-not-exist.png"))
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
