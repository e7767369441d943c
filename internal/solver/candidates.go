package solver

import "sort"

// Candidate is one (digit, probability) pair for a cell.
type Candidate struct {
	Digit uint8
	Prob  float32
}

// CellCandidates builds the ordered candidate list for one cell from its
// 10-class softmax output. Class 0 (the "empty cell" class) never appears
// as a candidate digit; an empty cell's list is nil and its confidence is
// treated as 0 by the caller.
func CellCandidates(probs [10]float32) []Candidate {
	if probs[0] >= maxNonZero(probs) {
		return nil
	}
	out := make([]Candidate, 0, 9)
	for d := 1; d <= 9; d++ {
		out = append(out, Candidate{Digit: uint8(d), Prob: probs[d]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Prob > out[j].Prob })
	return out
}

func maxNonZero(probs [10]float32) float32 {
	m := probs[1]
	for d := 2; d <= 9; d++ {
		if probs[d] > m {
			m = probs[d]
		}
	}
	return m
}

// Confidence returns the top candidate's probability, or 0 for an empty
// cell's candidate list.
func Confidence(cands []Candidate) float32 {
	if len(cands) == 0 {
		return 0
	}
	return cands[0].Prob
}

// topK limits a candidate slice to at most k entries.
func topK(cands []Candidate, k int) []Candidate {
	if len(cands) <= k {
		return cands
	}
	return cands[:k]
}
