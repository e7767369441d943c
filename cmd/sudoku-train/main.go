// Command sudoku-train trains the digit classifier on MNIST plus the
// synthetic empty-cell class, and optionally runs evaluation-only on an
// existing weights file.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/quillforge/sudoku-vision/internal/cnn"
	"github.com/quillforge/sudoku-vision/internal/mnist"
	"github.com/quillforge/sudoku-vision/internal/pipeline"
	"github.com/quillforge/sudoku-vision/pkg/config"
	"github.com/quillforge/sudoku-vision/pkg/update"
)

func main() {
	epochs := flag.Int("epochs", 0, "override the epoch count from best_params.txt/defaults")
	batchSize := flag.Int("batch-size", 0, "override the mini-batch size from best_params.txt/defaults")
	lr := flag.Float64("lr", 0, "override the learning rate from best_params.txt/defaults")
	evaluate := flag.String("evaluate", "", "evaluate an existing weights file instead of training")
	doUpdate := flag.Bool("update", false, "check for and install an update, then exit")
	envPath := flag.String("env", ".env", "path to an optional .env config file")
	flag.Parse()

	if err := config.LoadEnv(*envPath); err != nil {
		log.Printf("sudoku-train: warning: failed to load %s: %v", *envPath, err)
	}

	if *doUpdate {
		if err := update.Check(); err != nil {
			fmt.Fprintf(os.Stderr, "sudoku-train: update check failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: sudoku-train [flags] <mnist_dir> <output_weights.bin>")
		os.Exit(1)
	}
	mnistDir, outPath := args[0], args[1]

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if *evaluate != "" {
		runEvaluate(mnistDir, *evaluate)
		return
	}

	params, err := config.LoadBestParams(filepath.Join("models", "best_params.txt"))
	if err != nil {
		log.Printf("sudoku-train: warning: failed to load best_params.txt: %v", err)
	}
	if *epochs > 0 {
		params.Epochs = *epochs
	}
	if *batchSize > 0 {
		params.BatchSize = *batchSize
	}
	if *lr > 0 {
		params.LearningRate = *lr
	}

	train, val, err := loadTrainingData(mnistDir, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sudoku-train: %v\n", err)
		os.Exit(pipeline.ExitCode(err))
	}

	model := cnn.New(rng)
	cfg := cnn.TrainConfig{Epochs: params.Epochs, BatchSize: params.BatchSize, LearningRate: params.LearningRate}
	log.Printf("sudoku-train: training for up to %d epochs, batch %d, lr %g", cfg.Epochs, cfg.BatchSize, cfg.LearningRate)

	bestAcc := model.Train(train, val, cfg, rng)
	log.Printf("sudoku-train: best validation accuracy %.4f", bestAcc)

	if err := model.Save(outPath); err != nil {
		fmt.Fprintf(os.Stderr, "sudoku-train: failed to save weights to %s: %v\n", outPath, err)
		os.Exit(pipeline.ExitCode(err))
	}
}

// loadTrainingData loads MNIST train/test, drops label-0 samples (visually
// confusable with an empty cell), and mixes in synthetic empty-class
// samples per spec.md §4.E.
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

func runEvaluate(mnistDir, weightsPath string) {
	rng := rand.New(rand.NewSource(1))
	model := cnn.New(rng)
	if err := model.Load(weightsPath); err != nil {
		fmt.Fprintf(os.Stderr, "sudoku-train: failed to load weights from %s: %v\n", weightsPath, err)
		os.Exit(pipeline.ExitCode(err))
	}
	rawVal, err := mnist.LoadIDX(filepath.Join(mnistDir, "t10k-images.idx3-ubyte"), filepath.Join(mnistDir, "t10k-labels.idx1-ubyte"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "sudoku-train: %v\n", err)
		os.Exit(pipeline.ExitCode(err))
	}
	val := mnist.FilterZeroLabel(rawVal)
	mnist.GenerateEmptySamples(val, val.Count()/9, rng)

	cm := cnn.ComputeConfusionMatrix(model, val)
	metrics := cnn.ComputeClassMetrics(cm)
	fmt.Printf("accuracy: %.4f\n", metrics.Accuracy)
	fmt.Printf("avg f1: %.4f\n", metrics.AvgF1)
	for d := 0; d < 10; d++ {
		fmt.Printf("class %d: precision=%.4f recall=%.4f f1=%.4f\n", d, metrics.Precision[d], metrics.Recall[d], metrics.F1[d])
	}
}
