package mnist

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/quillforge/sudoku-vision/internal/cnn"
	"github.com/quillforge/sudoku-vision/internal/pipeline"
)

// auxMagic is the big-endian magic prefixing the auxiliary printed-digit
// dataset format. Preserved as big-endian (unlike the little-endian CNN
// weights magic) per spec.md §9: this asymmetry exists in the original and
// is kept here for file-format compatibility rather than "fixed".
const auxMagic uint32 = 0xDEADBEEF

// LoadAuxiliary appends every non-zero-label record from an auxiliary
// dataset file to dst. Label 0 is skipped (see FilterZeroLabel). A
// width*height mismatch against dst.ImageSize is a format error.
func LoadAuxiliary(path string, dst *cnn.Dataset) error {
	f, err := os.Open(path)
	if err != nil {
		return pipeline.Wrap(pipeline.KindIO, "mnist.LoadAuxiliary", err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var magic, count, width, height uint32
	for _, v := range []*uint32{&magic, &count, &width, &height} {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return pipeline.Wrap(pipeline.KindIO, "mnist.LoadAuxiliary", err)
		}
	}
	if magic != auxMagic {
		return pipeline.New(pipeline.KindFormat, "mnist.LoadAuxiliary",
			fmt.Sprintf("unexpected auxiliary dataset magic %#x", magic))
	}
	imgSize := int(width * height)
	if dst.ImageSize != 0 && imgSize != dst.ImageSize {
		return pipeline.New(pipeline.KindFormat, "mnist.LoadAuxiliary",
			fmt.Sprintf("auxiliary image size %d does not match target dataset size %d", imgSize, dst.ImageSize))
	}
	if dst.ImageSize == 0 {
		dst.ImageSize = imgSize
	}

	raw := make([]byte, imgSize)
	for i := uint32(0); i < count; i++ {
		var label uint8
		if err := binary.Read(r, binary.BigEndian, &label); err != nil {
			return pipeline.Wrap(pipeline.KindIO, "mnist.LoadAuxiliary", err)
		}
		if _, err := readFull(r, raw); err != nil {
			return pipeline.Wrap(pipeline.KindIO, "mnist.LoadAuxiliary", err)
		}
		if label == 0 {
			continue
		}
		img := make([]float32, imgSize)
		for j, b := range raw {
			img[j] = float32(b) / 255.0
		}
		dst.Append(img, label)
	}
	return nil
}
