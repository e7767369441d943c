package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBestParamsOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best_params.txt")
	content := "EPOCHS=7\nBATCH_SIZE=64\nLEARNING_RATE=0.0025\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	params, err := LoadBestParams(path)
	if err != nil {
		t.Fatalf("LoadBestParams failed: %v", err)
	}
	if params.Epochs != 7 || params.BatchSize != 64 || params.LearningRate != 0.0025 {
		t.Fatalf("unexpected params: %+v", params)
	}
}

func TestLoadBestParamsMissingFileReturnsDefaults(t *testing.T) {
	params, err := LoadBestParams(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("expected no error for a missing file, got %v", err)
	}
	def := DefaultTrainParams()
	if params != def {
		t.Fatalf("expected defaults %+v, got %+v", def, params)
	}
}

func TestLoadEnvMissingFileIsNotAnError(t *testing.T) {
	if err := LoadEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("expected no error for a missing .env file, got %v", err)
	}
}

func TestSaveBestParamsThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best_params.txt")
	want := TrainParams{Epochs: 10, BatchSize: 32, LearningRate: 0.05}
	if err := SaveBestParams(path, want); err != nil {
		t.Fatalf("SaveBestParams failed: %v", err)
	}
	got, err := LoadBestParams(path)
	if err != nil {
		t.Fatalf("LoadBestParams failed: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}
