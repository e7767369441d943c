// Package cnn implements the fixed LeNet-like classifier the pipeline uses
// to read cell digits: two convolution+pool stages feeding two dense
// layers and a softmax, with forward, backward, SGD training, and binary
// weight persistence.
package cnn

import (
	"math"
	"math/rand"
)

// Conv is a valid (no padding), stride-1 convolution layer with F filters
// of side K over C input channels, followed by ReLU. It owns its weights,
// biases, forward caches, and gradient accumulators for its lifetime.
type Conv struct {
	F, K, C    int
	InW, InH   int
	OutW, OutH int

	Weights []float64 // F*C*K*K
	Bias    []float64 // F

	GradWeights []float64
	GradBias    []float64

	velWeights []float64 // momentum velocity, lazily allocated
	velBias    []float64

	// caches populated by Forward, consumed by Backward.
	lastInput  []float64 // C*InW*InH
	lastOutput []float64 // F*OutW*OutH (post-ReLU)
}

// NewConv allocates a convolution layer with He-initialized weights
// (uniform on ±sqrt(2/(C*K*K))).
func NewConv(f, k, c, inW, inH int, rng *rand.Rand) *Conv {
	outW := inW - k + 1
	outH := inH - k + 1
	l := &Conv{
		F: f, K: k, C: c, InW: inW, InH: inH, OutW: outW, OutH: outH,
		Weights:     make([]float64, f*c*k*k),
		Bias:        make([]float64, f),
		GradWeights: make([]float64, f*c*k*k),
		GradBias:    make([]float64, f),
	}
	bound := math.Sqrt(2.0 / float64(c*k*k))
	for i := range l.Weights {
		l.Weights[i] = (rng.Float64()*2 - 1) * bound
	}
	return l
}

func (l *Conv) weightIdx(f, c, ky, kx int) int {
	return ((f*l.C+c)*l.K+ky)*l.K + kx
}

// Forward runs the convolution + ReLU over a C*InW*InH flattened input and
// returns the F*OutW*OutH flattened, post-ReLU output.
func (l *Conv) Forward(input []float64) []float64 {
	l.lastInput = input
	out := make([]float64, l.F*l.OutW*l.OutH)
	for f := 0; f < l.F; f++ {
		for oy := 0; oy < l.OutH; oy++ {
			for ox := 0; ox < l.OutW; ox++ {
				sum := l.Bias[f]
				for c := 0; c < l.C; c++ {
					for ky := 0; ky < l.K; ky++ {
						for kx := 0; kx < l.K; kx++ {
							iv := input[(c*l.InH+oy+ky)*l.InW+ox+kx]
							sum += iv * l.Weights[l.weightIdx(f, c, ky, kx)]
						}
					}
				}
				if sum < 0 {
					sum = 0
				}
				out[(f*l.OutH+oy)*l.OutW+ox] = sum
			}
		}
	}
	l.lastOutput = out
	return out
}

// Backward gates the incoming gradient by ReLU's sign, accumulates weight
// and bias gradients against the cached input, and returns the gradient
// with respect to this layer's input so it can propagate further back.
func (l *Conv) Backward(gradOut []float64) []float64 {
	gradIn := make([]float64, len(l.lastInput))
	for f := 0; f < l.F; f++ {
		for oy := 0; oy < l.OutH; oy++ {
			for ox := 0; ox < l.OutW; ox++ {
				outIdx := (f*l.OutH+oy)*l.OutW + ox
				g := gradOut[outIdx]
				if l.lastOutput[outIdx] <= 0 {
					g = 0
				}
				if g == 0 {
					continue
				}
				l.GradBias[f] += g
				for c := 0; c < l.C; c++ {
					for ky := 0; ky < l.K; ky++ {
						for kx := 0; kx < l.K; kx++ {
							inIdx := (c*l.InH+oy+ky)*l.InW + ox + kx
							wIdx := l.weightIdx(f, c, ky, kx)
							l.GradWeights[wIdx] += g * l.lastInput[inIdx]
							gradIn[inIdx] += g * l.Weights[wIdx]
						}
					}
				}
			}
		}
	}
	return gradIn
}

// ApplySGD applies an SGD step with the given effective learning rate and
// zeroes the gradient accumulators.
func (l *Conv) ApplySGD(lr float64) {
	for i := range l.Weights {
		l.Weights[i] -= lr * l.GradWeights[i]
		l.GradWeights[i] = 0
	}
	for i := range l.Bias {
		l.Bias[i] -= lr * l.GradBias[i]
		l.GradBias[i] = 0
	}
}

// applySGDMomentum applies a classical-momentum SGD step:
// v = momentum*v - lr*grad; w += v.
func (l *Conv) applySGDMomentum(lr, momentum float64) {
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
