// Command sudoku-gridsearch sweeps a small grid of training hyperparameters
// and records validation metrics for each combination, per spec.md §6.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/quillforge/sudoku-vision/internal/cnn"
	"github.com/quillforge/sudoku-vision/internal/mnist"
	"github.com/quillforge/sudoku-vision/internal/pipeline"
	"github.com/quillforge/sudoku-vision/pkg/config"
	"github.com/quillforge/sudoku-vision/pkg/update"
)

var (
	epochsGrid   = []int{2, 5, 10}
	batchGrid    = []int{16, 32, 64}
	lrGrid       = []float64{0.001, 0.01, 0.1}
	momentumGrid = []float64{0.0, 0.9}
)

type result struct {
	epochs       int
	batchSize    int
	lr           float64
	momentum     float64
	accuracy     float64
	avgF1        float64
	trainingTime float64
	metrics      cnn.ClassMetrics
}

func main() {
	doUpdate := flag.Bool("update", false, "check for and install an update, then exit")
	envPath := flag.String("env", ".env", "path to an optional .env config file")
	flag.Parse()

	if err := config.LoadEnv(*envPath); err != nil {
		log.Printf("sudoku-gridsearch: warning: failed to load %s: %v", *envPath, err)
	}

	if *doUpdate {
		if err := update.Check(); err != nil {
			fmt.Fprintf(os.Stderr, "sudoku-gridsearch: update check failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: sudoku-gridsearch <mnist_dir> <out_dir>")
		os.Exit(1)
	}
	mnistDir, outDir := args[0], args[1]

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "sudoku-gridsearch: failed to create %s: %v\n", outDir, err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	train, val, err := loadTrainingData(mnistDir, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sudoku-gridsearch: %v\n", err)
		os.Exit(pipeline.ExitCode(err))
	}

	var results []result
	for _, epochs := range epochsGrid {
		for _, batchSize := range batchGrid {
			for _, lr := range lrGrid {
				for _, momentum := range momentumGrid {
					log.Printf("sudoku-gridsearch: trying epochs=%d batch_size=%d lr=%g momentum=%g",
						epochs, batchSize, lr, momentum)
					start := time.Now()
					model := cnn.New(rng)
					cfg := cnn.TrainConfig{Epochs: epochs, BatchSize: batchSize, LearningRate: lr, Momentum: momentum}
					model.Train(train, val, cfg, rng)
					elapsed := time.Since(start).Seconds()

					cm := cnn.ComputeConfusionMatrix(model, val)
					metrics := cnn.ComputeClassMetrics(cm)
					results = append(results, result{
						epochs: epochs, batchSize: batchSize, lr: lr, momentum: momentum,
						accuracy: metrics.Accuracy, avgF1: metrics.AvgF1,
						trainingTime: elapsed, metrics: metrics,
					})
				}
			}
		}
	}

	if err := writeResultsCSV(filepath.Join(outDir, "grid_search_results.csv"), results); err != nil {
		fmt.Fprintf(os.Stderr, "sudoku-gridsearch: %v\n", err)
		os.Exit(1)
	}

	best := bestResult(results)
	params := config.TrainParams{Epochs: best.epochs, BatchSize: best.batchSize, LearningRate: best.lr}
	if err := config.SaveBestParams(filepath.Join(outDir, "best_params.txt"), params); err != nil {
		fmt.Fprintf(os.Stderr, "sudoku-gridsearch: %v\n", err)
		os.Exit(1)
	}
	log.Printf("sudoku-gridsearch: best accuracy %.4f at epochs=%d batch_size=%d lr=%g momentum=%g",
		best.accuracy, best.epochs, best.batchSize, best.lr, best.momentum)
}

func bestResult(results []result) result {
	best := results[0]
	for _, r := range results[1:] {
		if r.accuracy > best.accuracy {
			best = r
		}
	}
	return best
}

func writeResultsCSV(path string, results []result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sudoku-gridsearch: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"epochs", "batch_size", "learning_rate", "momentum", "accuracy", "avg_f1_score", "training_time"}
	for d := 0; d < 10; d++ {
		header = append(header, fmt.Sprintf("precision_%d", d))
	}
	for d := 0; d < 10; d++ {
		header = append(header, fmt.Sprintf("recall_%d", d))
	}
	for d := 0; d < 10; d++ {
		header = append(header, fmt.Sprintf("f1_%d", d))
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("sudoku-gridsearch: %w", err)
	}

	for _, r := range results {
		row := []string{
			strconv.Itoa(r.epochs),
			strconv.Itoa(r.batchSize),
			strconv.FormatFloat(r.lr, 'g', -1, 64),
			strconv.FormatFloat(r.momentum, 'g', -1, 64),
			strconv.FormatFloat(r.accuracy, 'f', 6, 64),
			strconv.FormatFloat(r.avgF1, 'f', 6, 64),
			strconv.FormatFloat(r.trainingTime, 'f', 3, 64),
		}
		for d := 0; d < 10; d++ {
			row = append(row, strconv.FormatFloat(r.metrics.Precision[d], 'f', 6, 64))
		}
		for d := 0; d < 10; d++ {
			row = append(row, strconv.FormatFloat(r.metrics.Recall[d], 'f', 6, 64))
		}
		for d := 0; d < 10; d++ {
			row = append(row, strconv.FormatFloat(r.metrics.F1[d], 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("sudoku-gridsearch: %w", err)
		}
	}
	return nil
}

// loadTrainingData mirrors sudoku-train's loader: MNIST minus label-0,
// mixed with synthetic empty-class samples.
func loadTrainingData(mnistDir string, rng *rand.Rand) (train, val *cnn.Dataset, err error) {
	rawTrain, err := mnist.LoadIDX(filepath.Join(mnistDir, "train-images.idx3-ubyte"), filepath.Join(mnistDir, "train-labels.idx1-ubyte"))
	if err != nil {
		return nil, nil, err
	}
	rawVal, err := mnist.LoadIDX(filepath.Join(mnistDir, "t10k-images.idx3-ubyte"), filepath.Join(mnistDir, "t10k-labels.idx1-ubyte"))
	if err != nil {
		return nil, nil, err
	}

	train = mnist.FilterZeroLabel(rawTrain)
	val = mnist.FilterZeroLabel(rawVal)

	mnist.GenerateEmptySamples(train, train.Count()/9, rng)
	mnist.GenerateEmptySamples(val, val.Count()/9, rng)

	train.Shuffle(rng)
	val.Shuffle(rng)
	return train, val, nil
}
