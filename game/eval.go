package game

import (
	"math"

	"github.com/samber/lo"
)

// Weights below this are treated as disabled and their sub-score is not computed
const weightEpsilon = 1e-7

// Evaluator scores leaf states as a weighted blend of three board features
type Evaluator struct {
	BoardWeight     float64
	FreeCellWeight  float64
	MatchableWeight float64
}

// Evaluate blends the board score (relative to the search root), the number of
// free cells and the number of mergeable neighbours, then scales the result by
// the branch probability of state so sibling branches can be summed.
func (e Evaluator) Evaluate(root, state State) float64 {
	boardScore := 0.0
	if e.BoardWeight >= weightEpsilon {
		boardScore = BoardScore(state.board)
		if rootScore := BoardScore(root.board); rootScore != 0 {
			boardScore /= rootScore
		}
	}
	freeCellScore := 0
	if e.FreeCellWeight >= weightEpsilon {
		freeCellScore = FreeCells(state.board)
	}
	matchableScore := 0
	if e.MatchableWeight >= weightEpsilon {
		matchableScore = MatchablePairs(state.board)
	}
	score := boardScore*e.BoardWeight +
		float64(freeCellScore)*e.FreeCellWeight +
		float64(matchableScore)*e.MatchableWeight
	return score * state.probability
}

// BoardScore sums the Threes rank score 3^(log2(c/3)+1) of every tile above 2
func BoardScore(b Board) float64 {
	score := 0.0
	for _, row := range b.cells {
		for _, cell := range row {
			if cell > 2 {
				score += math.Pow(3, math.Log2(float64(cell/3))+1)
			}
		}
	}
	return score
}

func FreeCells(b Board) int {
	return lo.SumBy(b.cells[:], func(row [Size]int) int {
		return lo.Count(row[:], 0)
	})
}

// MatchablePairs counts, for every cell, the in-bounds neighbours it could merge
// with. Each adjacent pair is therefore seen once from each side.
func MatchablePairs(b Board) int {
	score := 0
	for i := range Size {
		for j := range Size {
			cell := b.cells[i][j]
			if i > 0 && CanMerge(cell, b.cells[i-1][j]) {
				score++
			}
			if i < Size-1 && CanMerge(cell, b.cells[i+1][j]) {
				score++
			}
			if j > 0 && CanMerge(cell, b.cells[i][j-1]) {
				score++
			}
			if j < Size-1 && CanMerge(cell, b.cells[i][j+1]) {
				score++
			}
		}
	}
	return score
}
