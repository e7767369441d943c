package cnn

import (
	"math"
	"math/rand"
)

// Dense is a fully-connected layer with I inputs, O outputs, and an
// optional ReLU activation. Weights are He-initialized (±sqrt(2/I)). It
// owns its input cache, post-activation output cache, and gradient
// accumulators for its lifetime; the pre-activation sums are not kept.
type Dense struct {
	I, O   int
	ReLU   bool
	Weights []float64 // O*I
	Bias    []float64 // O

	GradWeights []float64
	GradBias    []float64

	velWeights []float64
	velBias    []float64

	lastInput []float64
	lastOut   []float64 // post-activation
}

// NewDense allocates a dense layer.
func NewDense(i, o int, relu bool, rng *rand.Rand) *Dense {
	l := &Dense{
		I: i, O: o, ReLU: relu,
		Weights:     make([]float64, o*i),
		Bias:        make([]float64, o),
		GradWeights: make([]float64, o*i),
		GradBias:    make([]float64, o),
	}
	bound := math.Sqrt(2.0 / float64(i))
	for k := range l.Weights {
		l.Weights[k] = (rng.Float64()*2 - 1) * bound
	}
	return l
}

// Forward computes bias_i + sum_j W_ij*x_j, applying ReLU if configured.
func (l *Dense) Forward(input []float64) []float64 {
	l.lastInput = input
	out := make([]float64, l.O)
	for o := 0; o < l.O; o++ {
		sum := l.Bias[o]
		row := l.Weights[o*l.I : o*l.I+l.I]
		for i, v := range input {
			sum += row[i] * v
		}
		if l.ReLU && sum < 0 {
			sum = 0
		}
		out[o] = sum
	}
	l.lastOut = out
	return out
}

// Backward accumulates weight/bias gradients and propagates the input
// gradient via the transpose matrix-vector product, gating by ReLU's sign
// first when this layer has one.
func (l *Dense) Backward(gradOut []float64) []float64 {
	gated := make([]float64, l.O)
	for o := range gradOut {
		g := gradOut[o]
		if l.ReLU && l.lastOut[o] <= 0 {
			g = 0
		}
		gated[o] = g
	}

	gradIn := make([]float64, l.I)
	for o := 0; o < l.O; o++ {
		g := gated[o]
		if g == 0 {
			continue
		}
		l.GradBias[o] += g
		row := l.Weights[o*l.I : o*l.I+l.I]
		gradRow := l.GradWeights[o*l.I : o*l.I+l.I]
		for i := 0; i < l.I; i++ {
			gradRow[i] += g * l.lastInput[i]
			gradIn[i] += g * row[i]
		}
	}
	return gradIn
}

// ApplySGD applies an SGD step and zeroes the gradient accumulators.
func (l *Dense) ApplySGD(lr float64) {
	for i := range l.Weights {
		l.Weights[i] -= lr * l.GradWeights[i]
		l.GradWeights[i] = 0
	}
	for i := range l.Bias {
		l.Bias[i] -= lr * l.GradBias[i]
		l.GradBias[i] = 0
	}
}

// applySGDMomentum applies a classical-momentum SGD step.
func (l *Dense) applySGDMomentum(lr, momentum float64) {
	if l.velWeights == nil {
		l.velWeights = make([]float64, len(l.Weights))
		l.velBias = make([]float64, len(l.Bias))
	}
	for i := range l.Weights {
		l.velWeights[i] = momentum*l.velWeights[i] - lr*l.GradWeights[i]
		l.Weights[i] += l.velWeights[i]
		l.GradWeights[i] = 0
	}
	for i := range l.Bias {
		l.velBias[i] = momentum*l.velBias[i] - lr*l.GradBias[i]
		l.Bias[i] += l.velBias[i]
		l.GradBias[i] = 0
	}
}
