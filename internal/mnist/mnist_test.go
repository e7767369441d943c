package mnist

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/quillforge/sudoku-vision/internal/cnn"
)

func writeIDXImages(t *testing.T, path string, count, rows, cols int, fill uint8) {
	t.Helper()
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(idxImageMagic))
	binary.Write(&buf, binary.BigEndian, uint32(count))
	binary.Write(&buf, binary.BigEndian, uint32(rows))
	binary.Write(&buf, binary.BigEndian, uint32(cols))
	for i := 0; i < count*rows*cols; i++ {
		buf.WriteByte(fill)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func writeIDXLabels(t *testing.T, path string, labels []uint8) {
	t.Helper()
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(idxLabelMagic))
	binary.Write(&buf, binary.BigEndian, uint32(len(labels)))
	buf.Write(labels)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestLoadIDXRoundTrip(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "images.idx3-ubyte")
	lblPath := filepath.Join(dir, "labels.idx1-ubyte")
	writeIDXImages(t, imgPath, 3, 2, 2, 128)
	writeIDXLabels(t, lblPath, []uint8{1, 2, 3})

	d, err := LoadIDX(imgPath, lblPath)
	if err != nil {
		t.Fatalf("LoadIDX failed: %v", err)
	}
	if d.Count() != 3 {
		t.Fatalf("expected 3 samples, got %d", d.Count())
	}
	if d.Images[0][0] != 128.0/255.0 {
		t.Fatalf("pixel not normalized correctly: %f", d.Images[0][0])
	}
}

func TestLoadIDXRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "images.idx3-ubyte")
	lblPath := filepath.Join(dir, "labels.idx1-ubyte")
	os.WriteFile(imgPath, []byte{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0}, 0o644)
	writeIDXLabels(t, lblPath, []uint8{1})
	_, err := LoadIDX(imgPath, lblPath)
	if err == nil {
		t.Fatalf("expected format error on bad magic")
	}
}

func TestFilterZeroLabelDropsZeros(t *testing.T) {
	d := &cnn.Dataset{ImageSize: 1}
	d.Append([]float32{0}, 0)
	d.Append([]float32{1}, 5)
	out := FilterZeroLabel(d)
	if out.Count() != 1 || out.Labels[0] != 5 {
		t.Fatalf("expected only the non-zero label to survive, got %+v", out.Labels)
	}
}

func TestGenerateEmptySamplesAllLabelZero(t *testing.T) {
	d := &cnn.Dataset{ImageSize: 784}
	rng := rand.New(rand.NewSource(1))
	GenerateEmptySamples(d, 50, rng)
	if d.Count() != 50 {
		t.Fatalf("expected 50 samples, got %d", d.Count())
	}
	for _, l := range d.Labels {
		if l != 0 {
			t.Fatalf("synthetic empty samples must be label 0, got %d", l)
		}
	}
	for _, img := range d.Images {
		for _, v := range img {
			if v < 0 || v > 1 {
				t.Fatalf("synthetic pixel out of [0,1]: %f", v)
			}
		}
	}
}

func TestAugmentClampsToUnitRange(t *testing.T) {
	img := make([]float32, 28*28)
	for i := range img {
		img[i] = 1.0
	}
	rng := rand.New(rand.NewSource(2))
	out := Augment(img, 28, 28, 15, 2, 0.5, rng)
	for _, v := range out {
		if v < 0 || v > 1 {
			t.Fatalf("augmented pixel out of [0,1]: %f", v)
		}
	}
}
