package cnn

import "math/rand"

// TrainConfig bundles the hyperparameters read from models/best_params.txt
// or CLI flags.
type TrainConfig struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	// Momentum is applied only by the grid-search CLI, which is the one
	// caller that varies it; the base training loop defaults it to 0
	// (plain SGD), matching spec.md §4.E.
	Momentum float64
}

// Train runs the epoch loop described in spec.md §4.E: shuffle, mini-batch
// forward+backward accumulation, SGD step, validation-set early stopping
// with a best-checkpoint restore. Returns the best validation accuracy
// achieved.
func (m *Model) Train(train, val *Dataset, cfg TrainConfig, rng *rand.Rand) float64 {
	bestAcc := -1.0
	var bestWeights [][]float64
	staleEpochs := 0
	const patience = 5
	const minImprovement = 0.001

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		train.Shuffle(rng)
		for start := 0; start < train.Count(); start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > train.Count() {
				end = train.Count()
			}
			batchSize := end - start
			for i := start; i < end; i++ {
				probs := m.Forward(train.Images[i])
				m.Backward(probs, int(train.Labels[i]))
			}
			m.applySGDWithMomentum(cfg.LearningRate, batchSize, cfg.Momentum)
		}

		acc := m.Evaluate(val)
		if acc > bestAcc+minImprovement {
			bestAcc = acc
			bestWeights = m.snapshotWeights()
			staleEpochs = 0
		} else {
			staleEpochs++
			if staleEpochs >= patience {
				break
			}
		}
	}

	if bestWeights != nil {
		m.restoreWeights(bestWeights)
	}
	return bestAcc
}

// applySGDWithMomentum applies a classical-momentum SGD step when momentum
// is nonzero, else falls back to plain SGD (ApplySGD). Momentum is only
// exercised by the grid-search CLI (spec.md §4.E's base loop uses plain
// SGD); it is threaded through here so Model.Train serves both callers.
func (m *Model) applySGDWithMomentum(lr float64, batchSize int, momentum float64) {
	if momentum == 0 {
		m.ApplySGD(lr, batchSize)
		return
	}
	eff := lr / float64(batchSize)
	m.Conv1.applySGDMomentum(eff, momentum)
	m.Conv2.applySGDMomentum(eff, momentum)
	m.FC1.applySGDMomentum(eff, momentum)
	m.FC2.applySGDMomentum(eff, momentum)
}

// Evaluate returns classification accuracy over a dataset.
func (m *Model) Evaluate(d *Dataset) float64 {
	if d.Count() == 0 {
		return 0
	}
	correct := 0
	for i := 0; i < d.Count(); i++ {
		if m.Predict(d.Images[i]) == int(d.Labels[i]) {
			correct++
		}
	}
	return float64(correct) / float64(d.Count())
}

func (m *Model) snapshotWeights() [][]float64 {
	clone := func(s []float64) []float64 {
		c := make([]float64, len(s))
		copy(c, s)
		return c
	}
	return [][]float64{
		clone(m.Conv1.Weights), clone(m.Conv1.Bias),
		clone(m.Conv2.Weights), clone(m.Conv2.Bias),
		clone(m.FC1.Weights), clone(m.FC1.Bias),
		clone(m.FC2.Weights), clone(m.FC2.Bias),
	}
}

func (m *Model) restoreWeights(snap [][]float64) {
	copy(m.Conv1.Weights, snap[0])
	copy(m.Conv1.Bias, snap[1])
	copy(m.Conv2.Weights, snap[2])
	copy(m.Conv2.Bias, snap[3])
	copy(m.FC1.Weights, snap[4])
	copy(m.FC1.Bias, snap[5])
	copy(m.FC2.Weights, snap[6])
	copy(m.FC2.Bias, snap[7])
}
