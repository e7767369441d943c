package cnn

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestSoftmaxSumsToOne(t *testing.T) {
	logits := []float64{1.2, -0.3, 4.5, 0.1, 2.2}
	probs := Softmax(logits)
	sum := 0.0
	for _, p := range probs {
		if p < 0 || p > 1 {
			t.Fatalf("probability out of [0,1]: %f", p)
		}
		sum += p
	}
	if sum < 1-1e-5 || sum > 1+1e-5 {
		t.Fatalf("softmax sum %f not within 1e-5 of 1", sum)
	}
}

func TestForwardProducesValidSimplex(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := New(rng)
	input := make([]float32, 784)
	for i := range input {
		input[i] = rng.Float32()
	}
	probs := m.Forward(input)
	if len(probs) != numClasses {
		t.Fatalf("expected %d outputs, got %d", numClasses, len(probs))
	}
	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("forward softmax does not sum to 1: %f", sum)
	}
}

func TestSaveLoadRoundTripPreservesPredictions(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := New(rng)
	input := make([]float32, 784)
	for i := range input {
		input[i] = rng.Float32()
	}
	want := m.Forward(input)

	dir := t.TempDir()
	path := filepath.Join(dir, "weights.bin")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := New(rand.New(rand.NewSource(999))) // different init, must be overwritten by Load
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got := loaded.Forward(input)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("prediction %d mismatch after save/load: got %f want %f", i, got[i], want[i])
		}
	}
}

func TestLoadRejectsMagicMismatchWithoutTouchingModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.bin")
	if err := os.WriteFile(path, []byte{0, 0, 0, 0}, 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	rng := rand.New(rand.NewSource(3))
	m := New(rng)
	before := append([]float64(nil), m.Conv1.Weights...)

	err := m.Load(path)
	if err == nil {
		t.Fatalf("expected error on magic mismatch")
	}
	for i := range before {
		if m.Conv1.Weights[i] != before[i] {
			t.Fatalf("model weights mutated despite magic mismatch")
		}
	}
}

func TestTrainingImprovesOnTrivialDataset(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	train := &Dataset{ImageSize: 784}
	val := &Dataset{ImageSize: 784}
	// Two trivially separable classes: all-zero vs all-one images.
	for i := 0; i < 40; i++ {
		zeros := make([]float32, 784)
		ones := make([]float32, 784)
		for j := range ones {
			ones[j] = 1
		}
		train.Append(zeros, 0)
		train.Append(ones, 1)
	}
	for i := 0; i < 10; i++ {
		zeros := make([]float32, 784)
		ones := make([]float32, 784)
		for j := range ones {
			ones[j] = 1
		}
		val.Append(zeros, 0)
		val.Append(ones, 1)
	}

	m := New(rng)
	acc := m.Train(train, val, TrainConfig{Epochs: 3, BatchSize: 8, LearningRate: 0.1}, rng)
	if acc <= 0.5 {
		t.Fatalf("expected trivial two-class separation to exceed chance accuracy, got %f", acc)
	}
}

func TestFisherYatesShufflePreservesMultiset(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	d := &Dataset{}
	for i := 0; i < 20; i++ {
		d.Append([]float32{float32(i)}, uint8(i%10))
	}
	before := make(map[uint8]int)
	for _, l := range d.Labels {
		before[l]++
	}
	d.Shuffle(rng)
	after := make(map[uint8]int)
	for _, l := range d.Labels {
		after[l]++
	}
	for k, v := range before {
		if after[k] != v {
			t.Fatalf("label multiset changed after shuffle: %v vs %v", before, after)
		}
	}
}

func TestConfusionMatrixAndMetrics(t *testing.T) {
	var cm ConfusionMatrix
	cm[0][0] = 8
	cm[0][1] = 2
	cm[1][1] = 9
	cm[1][0] = 1
	metrics := ComputeClassMetrics(cm)
	if metrics.Precision[1] <= 0 || metrics.Recall[1] <= 0 {
		t.Fatalf("expected nonzero precision/recall for class 1: %+v", metrics)
	}
}
