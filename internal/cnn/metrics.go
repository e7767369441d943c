package cnn

// ConfusionMatrix is a 10x10 matrix: rows are actual class, columns are
// predicted class. Ported from original_source/src/evaluate_model.c and
// grid_search.c's compute_metrics.
type ConfusionMatrix [10][10]int

// ClassMetrics holds per-class precision/recall/F1 plus their average.
type ClassMetrics struct {
	Precision [10]float64
	Recall    [10]float64
	F1        [10]float64
	AvgF1     float64
	Accuracy  float64
}

// ComputeConfusionMatrix runs the model over the full dataset and tallies
// actual-vs-predicted class counts.
func ComputeConfusionMatrix(m *Model, d *Dataset) ConfusionMatrix {
	var cm ConfusionMatrix
	for i := 0; i < d.Count(); i++ {
		predicted := m.Predict(d.Images[i])
		actual := int(d.Labels[i])
		cm[actual][predicted]++
	}
	return cm
}

// ComputeClassMetrics derives accuracy, per-class precision/recall/F1, and
// the unweighted average F1 from a confusion matrix.
func ComputeClassMetrics(cm ConfusionMatrix) ClassMetrics {
	var metrics ClassMetrics
	correct := 0
	total := 0
	totalF1 := 0.0
	for digit := 0; digit < 10; digit++ {
		tp := cm[digit][digit]
		correct += tp
		var fp, fn int
		for j := 0; j < 10; j++ {
			if j != digit {
				fp += cm[j][digit]
				fn += cm[digit][j]
			}
			total += cm[digit][j]
		}
		var precision, recall float64
		if tp+fp > 0 {
			precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			recall = float64(tp) / float64(tp+fn)
		}
		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		metrics.Precision[digit] = precision
		metrics.Recall[digit] = recall
		metrics.F1[digit] = f1
		totalF1 += f1
	}
	metrics.AvgF1 = totalF1 / 10.0
	if total > 0 {
		metrics.Accuracy = float64(correct) / float64(total)
	}
	return metrics
}
