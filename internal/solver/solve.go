package solver

// SolvePositionOrder walks cells left-to-right, top-to-bottom, skipping
// fixed cells, trying digits 1-9 under row/column/box constraints. It
// mutates g in place and returns whether a solution was found.
func SolvePositionOrder(g *Grid) bool {
	r, c, ok := nextOpenPosition(g, 0, -1)
	if !ok {
		return g.IsComplete()
	}
	for d := uint8(1); d <= 9; d++ {
		if !legal(g, r, c, d) {
			continue
		}
		g.Digits[r][c] = d
		if solvePositionOrderFrom(g, r, c) {
			return true
		}
		g.Digits[r][c] = 0
	}
	return false
}

func solvePositionOrderFrom(g *Grid, r, c int) bool {
	nr, nc, ok := nextOpenPosition(g, r, c)
	if !ok {
		return true
	}
	for d := uint8(1); d <= 9; d++ {
		if !legal(g, nr, nc, d) {
			continue
		}
		g.Digits[nr][nc] = d
		if solvePositionOrderFrom(g, nr, nc) {
			return true
		}
		g.Digits[nr][nc] = 0
	}
	return false
}

// nextOpenPosition scans forward from just after (afterR, afterC) in
// row-major order for the next cell that is not fixed and not already
// filled.
func nextOpenPosition(g *Grid, afterR, afterC int) (int, int, bool) {
	idx := afterR*9 + afterC + 1
	for ; idx < 81; idx++ {
		r, c := idx/9, idx%9
		if !g.Fixed[r][c] && g.Digits[r][c] == 0 {
			return r, c, true
		}
	}
	return 0, 0, false
}

// SolveMRV picks, at each step, the empty non-fixed cell with the fewest
// legal digits, committing immediately if exactly one remains and
// declaring failure if any empty cell has zero. Ties are broken by scan
// order (row-major).
func SolveMRV(g *Grid) bool {
	r, c, legalDigits, found := minRemainingValuesCell(g)
	if !found {
		return g.IsComplete()
	}
	if len(legalDigits) == 0 {
		return false
	}
	for _, d := range legalDigits {
		g.Digits[r][c] = d
		if SolveMRV(g) {
			return true
		}
		g.Digits[r][c] = 0
	}
	return false
}

func minRemainingValuesCell(g *Grid) (int, int, []uint8, bool) {
	bestR, bestC := -1, -1
	var best []uint8
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if g.Fixed[r][c] || g.Digits[r][c] != 0 {
				continue
			}
			var legalDigits []uint8
			for d := uint8(1); d <= 9; d++ {
				if legal(g, r, c, d) {
					legalDigits = append(legalDigits, d)
				}
			}
			if bestR == -1 || len(legalDigits) < len(best) {
				bestR, bestC, best = r, c, legalDigits
				if len(best) == 0 {
					return bestR, bestC, best, true
				}
			}
		}
	}
	if bestR == -1 {
		return 0, 0, nil, false
	}
	return bestR, bestC, best, true
}
