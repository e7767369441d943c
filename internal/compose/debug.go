package compose

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/quillforge/sudoku-vision/internal/imgproc"
)

// AnnotateDebug draws a caption onto a debug dump of an intermediate
// pipeline buffer using golang.org/x/image's basic face; it is never used
// on the path that renders solved digits, which always uses the embedded
// bitmap font in render.go so its output stays pixel-stable regardless of
// whether debug dumps are enabled.
func AnnotateDebug(src *imgproc.RGB, text string, x, y int, col [3]uint8) *imgproc.RGB {
	out := &imgproc.RGB{W: src.W, H: src.H, Channels: src.Channels, Pix: append([]uint8(nil), src.Pix...)}
	img := rgbToNRGBA(out)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: col[0], G: col[1], B: col[2], A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
	nrgbaToRGB(img, out)
	return out
}

// CaptionStage formats a short label for a numbered debug stage dump, e.g.
// "stage 3: otsu threshold".
func CaptionStage(stage int, name string) string {
	return fmt.Sprintf("stage %d: %s", stage, name)
}

func rgbToNRGBA(r *imgproc.RGB) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.W, r.H))
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			off := r.PixOffset(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = r.Pix[off+0]
			img.Pix[i+1] = r.Pix[off+1]
			img.Pix[i+2] = r.Pix[off+2]
			img.Pix[i+3] = 255
		}
	}
	return img
}

func nrgbaToRGB(img *image.NRGBA, r *imgproc.RGB) {
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			off := r.PixOffset(x, y)
			i := img.PixOffset(x, y)
			r.Pix[off+0] = img.Pix[i+0]
			r.Pix[off+1] = img.Pix[i+1]
			r.Pix[off+2] = img.Pix[i+2]
		}
	}
}
