// Package mnist loads the MNIST IDX training data, the auxiliary printed-
// digit dataset, and synthesizes the classifier's "empty cell" class,
// feeding internal/cnn.Dataset.
package mnist

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/quillforge/sudoku-vision/internal/cnn"
	"github.com/quillforge/sudoku-vision/internal/pipeline"
)

const (
	idxImageMagic = 2051
	idxLabelMagic = 2049
)

// LoadIDX reads a big-endian MNIST IDX image/label pair into a Dataset with
// images normalized to [0,1] float32.
func LoadIDX(imagesPath, labelsPath string) (*cnn.Dataset, error) {
	images, rows, cols, err := readIDXImages(imagesPath)
	if err != nil {
		return nil, err
	}
	labels, err := readIDXLabels(labelsPath)
	if err != nil {
		return nil, err
	}
	if len(images) != len(labels) {
		return nil, pipeline.New(pipeline.KindFormat, "mnist.LoadIDX",
			fmt.Sprintf("image count %d does not match label count %d", len(images), len(labels)))
	}
	return &cnn.Dataset{Images: images, Labels: labels, ImageSize: rows * cols}, nil
}

func readIDXImages(path string) ([][]float32, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, pipeline.Wrap(pipeline.KindIO, "mnist.readIDXImages", err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var magic, count, rows, cols uint32
	for _, dst := range []*uint32{&magic, &count, &rows, &cols} {
		if err := binary.Read(r, binary.BigEndian, dst); err != nil {
			return nil, 0, 0, pipeline.Wrap(pipeline.KindIO, "mnist.readIDXImages", err)
		}
	}
	if magic != idxImageMagic {
		return nil, 0, 0, pipeline.New(pipeline.KindFormat, "mnist.readIDXImages",
			fmt.Sprintf("unexpected IDX image magic %d", magic))
	}

	imgSize := int(rows * cols)
	images := make([][]float32, count)
	raw := make([]byte, imgSize)
	for i := range images {
		if _, err := readFull(r, raw); err != nil {
			return nil, 0, 0, pipeline.Wrap(pipeline.KindIO, "mnist.readIDXImages", err)
		}
		img := make([]float32, imgSize)
		for j, b := range raw {
			img[j] = float32(b) / 255.0
		}
		images[i] = img
	}
	return images, int(rows), int(cols), nil
}

func readIDXLabels(path string) ([]uint8, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindIO, "mnist.readIDXLabels", err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var magic, count uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, pipeline.Wrap(pipeline.KindIO, "mnist.readIDXLabels", err)
	}
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, pipeline.Wrap(pipeline.KindIO, "mnist.readIDXLabels", err)
	}
	if magic != idxLabelMagic {
		return nil, pipeline.New(pipeline.KindFormat, "mnist.readIDXLabels",
			fmt.Sprintf("unexpected IDX label magic %d", magic))
	}

	labels := make([]uint8, count)
	if _, err := readFull(r, labels); err != nil {
		return nil, pipeline.Wrap(pipeline.KindIO, "mnist.readIDXLabels", err)
	}
	return labels, nil
}

func readFull(r interface{ Read([]byte) (int, error) }, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// FilterZeroLabel drops every sample whose label is 0: the MNIST "0" digit
// is visually confusable with an empty cell, so it is excluded before the
// synthetic empty-class samples are generated.
func FilterZeroLabel(d *cnn.Dataset) *cnn.Dataset {
	out := &cnn.Dataset{ImageSize: d.ImageSize}
	for i, label := range d.Labels {
		if label == 0 {
			continue
		}
		out.Append(d.Images[i], label)
	}
	return out
}
