// Package codec is the opaque image codec boundary spec.md §1 calls for:
// LoadRGB decodes any PNG/JPEG/GIF the standard library understands into a
// flat RGB pixel buffer, and SavePNG writes one back out. Adapted from the
// teacher's pkg/cli.LoadImage/SaveImage format-sniffing and encode-by-
// extension logic.
package codec

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/quillforge/sudoku-vision/internal/imgproc"
	"github.com/quillforge/sudoku-vision/internal/pipeline"
)

// LoadRGB decodes the image at path and returns it as an owning RGB
// buffer with 3 channels, dropping alpha.
func LoadRGB(path string) (*imgproc.RGB, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindIO, "codec.LoadRGB", err)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindIO, "codec.LoadRGB", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := imgproc.NewRGB(w, h, 3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bch, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := out.PixOffset(x, y)
			out.Pix[off+0] = uint8(r >> 8)
			out.Pix[off+1] = uint8(g >> 8)
			out.Pix[off+2] = uint8(bch >> 8)
		}
	}
	return out, nil
}

// ToGray converts an RGB buffer to grayscale by averaging channels.
func ToGray(img *imgproc.RGB) *imgproc.Gray {
	out := imgproc.NewGray(img.W, img.H)
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			off := img.PixOffset(x, y)
			sum := int(img.Pix[off]) + int(img.Pix[off+1]) + int(img.Pix[off+2])
			out.Pix[y*img.W+x] = uint8(sum / 3)
		}
	}
	return out
}

// SavePNG writes img to path as a PNG file.
func SavePNG(path string, img *imgproc.RGB) error {
	f, err := os.Create(path)
	if err != nil {
		return pipeline.Wrap(pipeline.KindIO, "codec.SavePNG", err)
	}
	defer f.Close()

	rgba := image.NewRGBA(image.Rect(0, 0, img.W, img.H))
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			off := img.PixOffset(x, y)
			i := rgba.PixOffset(x, y)
			rgba.Pix[i+0] = img.Pix[off+0]
			rgba.Pix[i+1] = img.Pix[off+1]
			rgba.Pix[i+2] = img.Pix[off+2]
			rgba.Pix[i+3] = 255
		}
	}
	if err := png.Encode(f, rgba); err != nil {
		return pipeline.Wrap(pipeline.KindIO, "codec.SavePNG", err)
	}
	return nil
}
