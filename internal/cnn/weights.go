package cnn

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/quillforge/sudoku-vision/internal/pipeline"
)

// weightsMagic is the 4-byte magic prefixed to a saved weights file. It is
// written and read little-endian, so the file begins with the ASCII bytes
// "WNNC".
const weightsMagic uint32 = 0x434E4E57

// Save writes the model's weights to path as a 4-byte magic followed by
// the raw float32 streams of (conv1 weights, conv1 bias, conv2 weights,
// conv2 bias, fc1 weights, fc1 bias, fc2 weights, fc2 bias), in that order.
func (m *Model) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return pipeline.Wrap(pipeline.KindIO, "cnn.Model.Save", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, weightsMagic); err != nil {
		return pipeline.Wrap(pipeline.KindIO, "cnn.Model.Save", err)
	}
	streams := [][]float64{
		m.Conv1.Weights, m.Conv1.Bias,
		m.Conv2.Weights, m.Conv2.Bias,
		m.FC1.Weights, m.FC1.Bias,
		m.FC2.Weights, m.FC2.Bias,
	}
	for _, s := range streams {
		if err := writeFloat32Stream(w, s); err != nil {
			return pipeline.Wrap(pipeline.KindIO, "cnn.Model.Save", err)
		}
	}
	if err := w.Flush(); err != nil {
		return pipeline.Wrap(pipeline.KindIO, "cnn.Model.Save", err)
	}
	return nil
}

func writeFloat32Stream(w io.Writer, vals []float64) error {
	buf := make([]float32, len(vals))
	for i, v := range vals {
		buf[i] = float32(v)
	}
	return binary.Write(w, binary.LittleEndian, buf)
}

func readFloat32Stream(r io.Reader, n int) ([]float64, error) {
	buf := make([]float32, n)
	if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, v := range buf {
		out[i] = float64(v)
	}
	return out, nil
}

// Load reads a weights file produced by Save into m, rejecting on magic
// mismatch without touching m's existing weights.
func (m *Model) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return pipeline.Wrap(pipeline.KindIO, "cnn.Model.Load", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return pipeline.Wrap(pipeline.KindIO, "cnn.Model.Load", err)
	}
	if magic != weightsMagic {
		return pipeline.New(pipeline.KindFormat, "cnn.Model.Load", "weights magic mismatch")
	}

	type target struct {
		dst *[]float64
		n   int
	}
	targets := []target{
		{&m.Conv1.Weights, len(m.Conv1.Weights)}, {&m.Conv1.Bias, len(m.Conv1.Bias)},
		{&m.Conv2.Weights, len(m.Conv2.Weights)}, {&m.Conv2.Bias, len(m.Conv2.Bias)},
		{&m.FC1.Weights, len(m.FC1.Weights)}, {&m.FC1.Bias, len(m.FC1.Bias)},
		{&m.FC2.Weights, len(m.FC2.Weights)}, {&m.FC2.Bias, len(m.FC2.Bias)},
	}
	loaded := make([][]float64, len(targets))
	for i, t := range targets {
		s, err := readFloat32Stream(r, t.n)
		if err != nil {
			return pipeline.Wrap(pipeline.KindFormat, "cnn.Model.Load", err)
		}
		loaded[i] = s
	}
	// Only commit once every stream has been read successfully, so a
	// truncated file never leaves the model half-updated.
	for i, t := range targets {
		*t.dst = loaded[i]
	}
	return nil
}
