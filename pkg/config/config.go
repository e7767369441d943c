// Package config loads ambient configuration for the sudoku-vision
// binaries: an optional .env file for secrets/flags (self-update tokens,
// debug toggles) and the trainer's optional best_params.txt produced by
// the grid-search binary.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file into the process environment if present. A
// missing file is not an error: it is checked for here before calling
// godotenv.Load, which would otherwise report it.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// TrainParams holds the trainer hyperparameters that best_params.txt can
// override.
type TrainParams struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
}

// DefaultTrainParams mirrors the original's fallback constants.
func DefaultTrainParams() TrainParams {
	return TrainParams{Epochs: 20, BatchSize: 32, LearningRate: 0.01}
}

// LoadBestParams parses a best_params.txt file of EPOCHS=/BATCH_SIZE=/
// LEARNING_RATE= lines, starting from defaults and overwriting whichever
// keys are present. A missing file returns the defaults unchanged.
func LoadBestParams(path string) (TrainParams, error) {
	params := DefaultTrainParams()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return params, nil
	}
	if err != nil {
		return params, fmt.Errorf("config.LoadBestParams: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		switch key {
		case "EPOCHS":
			if v, err := strconv.Atoi(val); err == nil {
				params.Epochs = v
			}
		case "BATCH_SIZE":
			if v, err := strconv.Atoi(val); err == nil {
				params.BatchSize = v
			}
		case "LEARNING_RATE":
			if v, err := strconv.ParseFloat(val, 64); err == nil {
				params.LearningRate = v
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return params, fmt.Errorf("config.LoadBestParams: %w", err)
	}
	return params, nil
}

// SaveBestParams writes params in the EPOCHS=/BATCH_SIZE=/LEARNING_RATE=
// line format LoadBestParams reads, for the grid-search binary to persist
// its winning configuration.
func SaveBestParams(path string, params TrainParams) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config.SaveBestParams: %w", err)
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "EPOCHS=%d\nBATCH_SIZE=%d\nLEARNING_RATE=%g\n",
		params.Epochs, params.BatchSize, params.LearningRate)
	if err != nil {
		return fmt.Errorf("config.SaveBestParams: %w", err)
	}
	return nil
}
