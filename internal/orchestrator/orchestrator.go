// Package orchestrator wires the seven pipeline components end to end:
// raw RGB -> gray -> blurred -> binarized+inverted -> grid localization ->
// rectification -> cell extraction -> classification -> solving ->
// compositing. It is the thin glue the CLIs call into, grounded on the
// teacher's RunCLI control flow (load -> apply -> save) in pkg/cli/cli.go.
package orchestrator

import (
	"log"

	"github.com/quillforge/sudoku-vision/internal/cells"
	"github.com/quillforge/sudoku-vision/internal/cnn"
	"github.com/quillforge/sudoku-vision/internal/compose"
	"github.com/quillforge/sudoku-vision/internal/gridloc"
	"github.com/quillforge/sudoku-vision/internal/imgproc"
	"github.com/quillforge/sudoku-vision/internal/pipeline"
	"github.com/quillforge/sudoku-vision/internal/rectify"
	"github.com/quillforge/sudoku-vision/internal/solver"
	"github.com/quillforge/sudoku-vision/pkg/codec"
)

// Debug, when non-nil, receives labeled intermediate buffers so a CLI's
// -debug flag can dump them to disk via pkg/codec.
type Debug struct {
	Dir string
}

// Stage is one labeled intermediate buffer a debug dump wants to save.
type Stage struct {
	Name  string
	Image *imgproc.Gray
}

// Result is the pipeline's output: the final composited RGB image plus the
// intermediate stages collected when dbg is non-nil.
type Result struct {
	Output *imgproc.RGB
	Stages []Stage
}

// Run executes the full pipeline on one input photo: locate and rectify
// the grid, extract and classify the 81 cells, solve, and render the
// solution back onto the rectified grid. dbg may be nil.
func Run(input *imgproc.RGB, model *cnn.Model, dbg *Debug) (*Result, error) {
	res := &Result{}
	record := func(name string, img *imgproc.Gray) {
		if dbg != nil {
			res.Stages = append(res.Stages, Stage{Name: name, Image: img})
		}
	}

	gray := codec.ToGray(input)
	record("gray", gray)

	blurred := imgproc.GaussianBlur(gray, 5, 1.0)
	record("blurred", blurred)

	binarized := imgproc.ThresholdOtsu(blurred)
	inverted := imgproc.Invert(binarized)
	record("binarized_inverted", inverted)

	dilated := imgproc.Dilate(inverted, 3)

	loc, err := gridloc.Locate(dilated)
	if err != nil {
		return nil, err
	}
	log.Printf("orchestrator: grid located via %s strategy", loc.Strategy)

	rectified, err := rectify.Warp(inverted, loc.Quad)
	if err != nil {
		return nil, err
	}
	record("rectified", rectified)

	cellImages := cells.Extract(rectified)

	var cands [81][]solver.Candidate
	for i, cell := range cellImages {
		if cells.IsEmpty(cell) {
			continue
		}
		flat := imgproc.NormalizeToFloat(cell)
		probs := model.Forward(flat)
		var p10 [10]float32
		for d := 0; d < 10; d++ {
			p10[d] = float32(probs[d])
		}
		cands[i] = solver.CellCandidates(p10)
	}

	grid, err := solver.Solve(cands)
	if err != nil {
		return nil, err
	}

	var fixed [9][9]bool
	for i, cell := range cellImages {
		r, c := i/9, i%9
		fixed[r][c] = !cells.IsEmpty(cell)
	}

	res.Output = compose.Render(rectified, grid.Digits, fixed, cells.CellSize)
	return res, nil
}

// SaveDebugStages writes every collected intermediate buffer to dbg.Dir as
// PNGs named after its stage.
func SaveDebugStages(dbg *Debug, stages []Stage) error {
	if dbg == nil {
		return nil
	}
	for _, s := range stages {
		rgb := imgproc.FromGray(s.Image)
		path := dbg.Dir + "/" + s.Name + ".png"
		if err := codec.SavePNG(path, rgb); err != nil {
			return pipeline.Wrap(pipeline.KindIO, "orchestrator.SaveDebugStages", err)
		}
	}
	return nil
}
