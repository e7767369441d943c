// Command sudoku-solve reads a photo of a paper Sudoku puzzle and writes
// an image of the same puzzle with the missing digits filled in.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/quillforge/sudoku-vision/internal/cnn"
	"github.com/quillforge/sudoku-vision/internal/orchestrator"
	"github.com/quillforge/sudoku-vision/internal/pipeline"
	"github.com/quillforge/sudoku-vision/pkg/codec"
	"github.com/quillforge/sudoku-vision/pkg/config"
	"github.com/quillforge/sudoku-vision/pkg/update"
)

func main() {
	weightsPath := flag.String("weights", "models/weights.bin", "path to trained CNN weights")
	debugDir := flag.String("debug", "", "if set, dump intermediate pipeline buffers to this directory")
	doUpdate := flag.Bool("update", false, "check for and install an update, then exit")
	envPath := flag.String("env", ".env", "path to an optional .env config file")
	flag.Parse()

	if err := config.LoadEnv(*envPath); err != nil {
		log.Printf("sudoku-solve: warning: failed to load %s: %v", *envPath, err)
	}

	if *doUpdate {
		if err := update.Check(); err != nil {
			fmt.Fprintf(os.Stderr, "sudoku-solve: update check failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: sudoku-solve [flags] <input_image> <output_image>")
		os.Exit(1)
	}
	inputPath, outputPath := args[0], args[1]

	// Inference is deterministic: the random He init below is immediately
	// discarded by Load, which fills every weight from the trained file.
	model := cnn.New(rand.New(rand.NewSource(1)))
	if err := model.Load(*weightsPath); err != nil {
		fmt.Fprintf(os.Stderr, "sudoku-solve: failed to load weights from %s: %v\n", *weightsPath, err)
		os.Exit(pipeline.ExitCode(err))
	}

	input, err := codec.LoadRGB(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sudoku-solve: failed to read %s: %v\n", inputPath, err)
		os.Exit(pipeline.ExitCode(err))
	}

	var dbg *orchestrator.Debug
	if *debugDir != "" {
		if err := os.MkdirAll(*debugDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "sudoku-solve: failed to create debug dir %s: %v\n", *debugDir, err)
			os.Exit(1)
		}
		dbg = &orchestrator.Debug{Dir: *debugDir}
	}

	result, err := orchestrator.Run(input, model, dbg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sudoku-solve: %v\n", err)
		os.Exit(pipeline.ExitCode(err))
	}

	if dbg != nil {
		if err := orchestrator.SaveDebugStages(dbg, result.Stages); err != nil {
			log.Printf("sudoku-solve: warning: failed to save debug stages: %v", err)
		}
	}

	if err := codec.SavePNG(outputPath, result.Output); err != nil {
		fmt.Fprintf(os.Stderr, "sudoku-solve: failed to write %s: %v\n", outputPath, err)
		os.Exit(pipeline.ExitCode(err))
	}
}
