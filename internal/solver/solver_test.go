package solver

import (
	"testing"

	"github.com/quillforge/sudoku-vision/internal/pipeline"
)

func solvedReference() [9][9]uint8 {
	return [9][9]uint8{
		{5, 3, 4, 6, 7, 8, 9, 1, 2},
		{6, 7, 2, 1, 9, 5, 3, 4, 8},
		{1, 9, 8, 3, 4, 2, 5, 6, 7},
		{8, 5, 9, 7, 6, 1, 4, 2, 3},
		{4, 2, 6, 8, 5, 3, 7, 9, 1},
		{7, 1, 3, 9, 2, 4, 8, 5, 6},
		{9, 6, 1, 5, 3, 7, 2, 8, 4},
		{2, 8, 7, 4, 1, 9, 6, 3, 5},
		{3, 4, 5, 2, 8, 6, 1, 7, 9},
	}
}

func buildCandidates(sol [9][9]uint8, confidence func(r, c int) float32) [81][]Candidate {
	var out [81][]Candidate
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			idx := r*9 + c
			d := sol[r][c]
			conf := confidence(r, c)
			out[idx] = []Candidate{{Digit: d, Prob: conf}}
		}
	}
	return out
}

func TestSolveExactMatchWhenCandidatesAreGroundTruth(t *testing.T) {
	sol := solvedReference()
	cands := buildCandidates(sol, func(r, c int) float32 { return 0.9 })
	g, err := Solve(cands)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if g.Digits[r][c] != sol[r][c] {
				t.Fatalf("mismatch at (%d,%d): got %d want %d", r, c, g.Digits[r][c], sol[r][c])
			}
		}
	}
}

func TestSolvePicksLegalTop2WhenTop1Conflicts(t *testing.T) {
	sol := solvedReference()
	cands := buildCandidates(sol, func(r, c int) float32 { return 0.9 })
	// Row 0 already has a 3 at column 1; make column 0's top-1 candidate
	// also 3 (illegal), with the true digit 5 as top-2.
	cands[0] = []Candidate{
		{Digit: 3, Prob: 0.95},
		{Digit: 5, Prob: 0.80},
	}
	g, err := Solve(cands)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if g.Digits[0][0] != 5 {
		t.Fatalf("expected solver to fall back to the legal top-2 digit 5, got %d", g.Digits[0][0])
	}
}

func TestSolveUnsolvablePuzzleReportsDegeneracy(t *testing.T) {
	var cands [81][]Candidate
	// Two 5s forced in row 0, every other cell has no candidates (empty).
	cands[0] = []Candidate{{Digit: 5, Prob: 0.9}}
	cands[1] = []Candidate{{Digit: 3, Prob: 0.9}}
	cands[2] = []Candidate{{Digit: 5, Prob: 0.9}}
	_, err := Solve(cands)
	if err == nil {
		t.Fatalf("expected an error for an unsolvable clue set")
	}
	kind, ok := pipeline.KindOf(err)
	if !ok || (kind != pipeline.KindDegeneracy && kind != pipeline.KindInconsistency) {
		t.Fatalf("expected degeneracy or inconsistency error, got %v (kind=%v ok=%v)", err, kind, ok)
	}
}

func TestSolveMRVSolvesAlmostFullGrid(t *testing.T) {
	sol := solvedReference()
	g := &Grid{Digits: sol}
	g.Digits[0][0] = 0
	g.Fixed = [9][9]bool{}
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if r != 0 || c != 0 {
				g.Fixed[r][c] = true
			}
		}
	}
	if !SolveMRV(g) {
		t.Fatalf("expected MRV solve to succeed")
	}
	if g.Digits[0][0] != sol[0][0] {
		t.Fatalf("expected MRV to recover %d, got %d", sol[0][0], g.Digits[0][0])
	}
}

func TestSolvePositionOrderMatchesReference(t *testing.T) {
	sol := solvedReference()
	g := &Grid{Digits: sol}
	g.Digits[8][8] = 0
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			g.Fixed[r][c] = !(r == 8 && c == 8)
		}
	}
	if !SolvePositionOrder(g) {
		t.Fatalf("expected position-order solve to succeed")
	}
	if g.Digits[8][8] != sol[8][8] {
		t.Fatalf("expected %d, got %d", sol[8][8], g.Digits[8][8])
	}
}

func TestValidateDetectsRowViolation(t *testing.T) {
	sol := solvedReference()
	g := &Grid{Digits: sol}
	g.Digits[0][1] = g.Digits[0][0]
	if g.Validate() {
		t.Fatalf("expected Validate to reject a duplicated row digit")
	}
}

func TestCellCandidatesOrdersByProbabilityDescending(t *testing.T) {
	probs := [10]float32{0.01, 0.1, 0.05, 0.6, 0, 0, 0, 0, 0, 0.24}
	cands := CellCandidates(probs)
	if len(cands) != 9 {
		t.Fatalf("expected 9 candidates, got %d", len(cands))
	}
	if cands[0].Digit != 3 || cands[1].Digit != 9 {
		t.Fatalf("expected descending order by prob, got %+v", cands[:2])
	}
}

func TestCellCandidatesEmptyWhenClassZeroWins(t *testing.T) {
	probs := [10]float32{0.9, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.02}
	if cands := CellCandidates(probs); cands != nil {
		t.Fatalf("expected nil candidates for an empty-classified cell, got %+v", cands)
	}
}
