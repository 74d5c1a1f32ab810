package searcher

import (
	"context"

	"golang.org/x/exp/rand"

	"threes/game"
)

// evaluateMove plays move from state and sums the values of the sampled
// successors. Evaluations are already scaled by branch probability, so the
// sum is the expected value of the move. moved is false when the move leaves
// the board unchanged.
func (s *search) evaluateMove(ctx context.Context, state game.State, move game.Move, rng *rand.Rand, depth, parallelDepth int) (float64, bool, error) {
	children, moved := move.EndStatesForSearch(state, rng)
	if !moved {
		return 0, false, nil
	}

	value := 0.0
	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return 0, true, err
		}
		choice, err := s.decide(ctx, child, rng, depth-1, parallelDepth-1)
		if err != nil {
			return 0, true, err
		}
		value += choice.Value
	}
	return value, true, nil
}
