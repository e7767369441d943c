package solver

import (
	"sort"

	"github.com/quillforge/sudoku-vision/internal/pipeline"
)

// defaultBudget bounds the outer search's total recursive calls to
// guarantee termination on adversarial inputs.
const defaultBudget = 100000

// topCandidatesPerCell is how many ranked candidates the outer search
// tries per cell before giving up on that cell's branch.
const topCandidatesPerCell = 5

// BacktrackState is the explicit accumulator threaded through the outer
// clue-selection search, replacing a file-scope step counter so the search
// is reentrant. The inner Sudoku solvers do not take it and are not
// budgeted.
type BacktrackState struct {
	Steps  int
	Budget int
}

// NewBacktrackState returns a state with the default 100,000-step budget.
func NewBacktrackState() *BacktrackState {
	return &BacktrackState{Budget: defaultBudget}
}

func (s *BacktrackState) consume() bool {
	s.Steps++
	return s.Steps <= s.Budget
}

// cellOrder is a cell index (0..80) annotated with its classifier
// confidence, used to process cells in descending confidence order.
type cellOrder struct {
	index      int
	confidence float32
}

// Solve ranks each cell's candidates, then searches clue assignments in
// descending confidence order, trying the top 5 candidates per cell and
// pruning on row/column/box legality. When a full 81-cell assignment is
// reached, it is verified solvable via the Sudoku solver before being
// accepted. Returns a degeneracy error if the search exhausts without a
// legal and solvable assignment, or a capacity error if the step budget
// runs out first.
func Solve(candidates [81][]Candidate) (*Grid, error) {
	order := make([]cellOrder, 81)
	for i := 0; i < 81; i++ {
		order[i] = cellOrder{index: i, confidence: Confidence(candidates[i])}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].confidence > order[j].confidence })

	g := &Grid{}
	state := NewBacktrackState()

	ranked := make([][]Candidate, 81)
	for i := range candidates {
		ranked[i] = topK(candidates[i], topCandidatesPerCell)
	}

	ok, err := selectClues(g, order, ranked, 0, state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pipeline.New(pipeline.KindDegeneracy, "solver.Solve", "could not find a valid grid")
	}
	return g, nil
}

// selectClues assigns order[step]'s digit (if any), recursing until every
// cell has been visited, then verifies the resulting clue set is
// solvable. Returns false (not an error) when this branch of the search
// fails and an earlier candidate should be tried instead.
func selectClues(g *Grid, order []cellOrder, ranked [][]Candidate, step int, state *BacktrackState) (bool, error) {
	if !state.consume() {
		return false, pipeline.New(pipeline.KindCapacity, "solver.selectClues", "search budget exhausted")
	}
	if step == 81 {
		return verifySolvable(g)
	}

	idx := order[step].index
	r, c := idx/9, idx%9
	cands := ranked[idx]

	if len(cands) == 0 {
		g.Digits[r][c] = 0
		return selectClues(g, order, ranked, step+1, state)
	}

	for _, cand := range cands {
		if !legal(g, r, c, cand.Digit) {
			continue
		}
		g.Digits[r][c] = cand.Digit
		ok, err := selectClues(g, order, ranked, step+1, state)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		g.Digits[r][c] = 0
	}
	return false, nil
}

// verifySolvable marks every non-zero cell fixed on a copy and attempts
// the MRV Sudoku solve; on success it commits the filled copy back into
// g, leaving g's clue structure intact but all cells filled.
func verifySolvable(g *Grid) (bool, error) {
	copyGrid := g.Clone()
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			copyGrid.Fixed[r][c] = copyGrid.Digits[r][c] != 0
		}
	}
	if !SolveMRV(copyGrid) {
		return false, nil
	}
	if !copyGrid.Validate() {
		return false, pipeline.New(pipeline.KindInconsistency, "solver.verifySolvable", "solved grid violates Sudoku constraints")
	}
	g.Digits = copyGrid.Digits
	g.Fixed = copyGrid.Fixed
	return true, nil
}
