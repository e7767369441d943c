package cnn

import (
	"math"
	"math/rand"
)

// Fixed topology per spec.md §9: generalizing to arbitrary shapes would
// break the 28x28 -> 24x24x6 -> 12x12x6 -> 8x8x16 -> 4x4x16 -> 120 -> 10
// pipeline the rest of the system depends on.
const (
	inputSize   = 28
	conv1Out    = 6
	conv1K      = 5
	conv2Out    = 16
	conv2K      = 5
	poolSize    = 2
	denseHidden = 120
	numClasses  = 10
	flattenSize = 4 * 4 * 16
)

// Model is the fixed LeNet-like graph: two conv+pool stages, two dense
// layers, and a softmax. Each layer owns its weights, biases, caches, and
// gradient accumulators for the model's entire lifetime.
type Model struct {
	Conv1 *Conv
	Pool1 *Pool
	Conv2 *Conv
	Pool2 *Pool
	FC1   *Dense
	FC2   *Dense
}

// New builds a freshly He-initialized model.
func New(rng *rand.Rand) *Model {
	conv1 := NewConv(conv1Out, conv1K, 1, inputSize, inputSize, rng)
	pool1 := NewPool(poolSize, conv1Out, conv1.OutW, conv1.OutH)
	conv2 := NewConv(conv2Out, conv2K, conv1Out, pool1.OutW, pool1.OutH, rng)
	pool2 := NewPool(poolSize, conv2Out, conv2.OutW, conv2.OutH)
	fc1 := NewDense(flattenSize, denseHidden, true, rng)
	fc2 := NewDense(denseHidden, numClasses, false, rng)
	return &Model{Conv1: conv1, Pool1: pool1, Conv2: conv2, Pool2: pool2, FC1: fc1, FC2: fc2}
}

// Forward runs a 784-float normalized cell image through the full network
// and returns the 10-way softmax probability simplex.
func (m *Model) Forward(input []float32) []float64 {
	in := make([]float64, len(input))
	for i, v := range input {
		in[i] = float64(v)
	}
	c1 := m.Conv1.Forward(in)
	p1 := m.Pool1.Forward(c1)
	c2 := m.Conv2.Forward(p1)
	p2 := m.Pool2.Forward(c2)
	h := m.FC1.Forward(p2)
	logits := m.FC2.Forward(h)
	return Softmax(logits)
}

// Backward runs the full backward pass given the one-hot target for the
// last Forward call, accumulating gradients into every layer. Per spec.md
// §9's resolved Open Question, gradients are propagated all the way
// through pool1 into conv1 rather than stopping after conv2.
func (m *Model) Backward(probs []float64, label int) {
	gradLogits := make([]float64, numClasses)
	for i := range gradLogits {
		target := 0.0
		if i == label {
			target = 1.0
		}
		gradLogits[i] = probs[i] - target
	}
	gradH := m.FC2.Backward(gradLogits)
	gradP2 := m.FC1.Backward(gradH)
	gradC2 := m.Pool2.Backward(gradP2)
	gradP1 := m.Conv2.Backward(gradC2)
	gradC1 := m.Pool1.Backward(gradP1)
	m.Conv1.Backward(gradC1)
}

// ZeroGrad resets every layer's gradient accumulators without touching
// weights.
func (m *Model) ZeroGrad() {
	zero := func(s []float64) {
		for i := range s {
			s[i] = 0
		}
	}
	zero(m.Conv1.GradWeights)
	zero(m.Conv1.GradBias)
	zero(m.Conv2.GradWeights)
	zero(m.Conv2.GradBias)
	zero(m.FC1.GradWeights)
	zero(m.FC1.GradBias)
	zero(m.FC2.GradWeights)
	zero(m.FC2.GradBias)
}

// ApplySGD applies lr/batchSize to every layer's accumulated gradients and
// zeroes them.
func (m *Model) ApplySGD(lr float64, batchSize int) {
	eff := lr / float64(batchSize)
	m.Conv1.ApplySGD(eff)
	m.Conv2.ApplySGD(eff)
	m.FC1.ApplySGD(eff)
	m.FC2.ApplySGD(eff)
}

// Predict returns the argmax class for a single normalized cell image.
func (m *Model) Predict(input []float32) int {
	probs := m.Forward(input)
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best
}

// Softmax subtracts the max logit before exponentiating for numerical
// stability, returning a probability simplex summing to 1.
func Softmax(logits []float64) []float64 {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	sum := 0.0
	out := make([]float64, len(logits))
	for i, v := range logits {
		e := math.Exp(v - max)
		out[i] = e
		sum += e
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
