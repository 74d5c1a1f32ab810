package searcher

import (
	"context"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"threes/game"
)

type moveResult struct {
	value float64
	moved bool
}

// decide picks the best move from state with depth moves left to look ahead.
// Nodes with parallelDepth left hand their moves to the pool.
func (s *search) decide(ctx context.Context, state game.State, rng *rand.Rand, depth, parallelDepth int) (Choice, error) {
	if depth == 0 {
		s.metrics.AddLeaf()
		return NewChoice(game.NoMove, s.evaluate(s.root, state)), nil
	}
	s.metrics.AddNode()

	var results []moveResult
	var err error
	if parallelDepth > 0 {
		results, err = s.evaluateParallel(ctx, state, rng, depth, parallelDepth)
	} else {
		results, err = s.evaluateSequential(ctx, state, rng, depth, parallelDepth)
	}
	if err != nil {
		return EmptyChoice(), err
	}

	choices := make([]Choice, 0, len(game.Directions))
	for i, move := range game.Directions {
		if !results[i].moved {
			s.metrics.AddIllegalMove()
			continue
		}
		choices = append(choices, NewChoice(move, results[i].value))
	}
	return bestChoice(choices), nil
}

func (s *search) evaluateSequential(ctx context.Context, state game.State, rng *rand.Rand, depth, parallelDepth int) ([]moveResult, error) {
	results := make([]moveResult, len(game.Directions))
	for i, move := range game.Directions {
		value, moved, err := s.evaluateMove(ctx, state, move, rng, depth, parallelDepth)
		if err != nil {
			return nil, err
		}
		results[i] = moveResult{value: value, moved: moved}
	}
	return results, nil
}

func (s *search) evaluateParallel(ctx context.Context, state game.State, rng *rand.Rand, depth, parallelDepth int) ([]moveResult, error) {
	// One generator per move, derived in move order before any task starts
	rngs := make([]*rand.Rand, len(game.Directions))
	for i := range rngs {
		rngs[i] = rand.New(rand.NewSource(rng.Uint64()))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	results := make([]moveResult, len(game.Directions))
	var inlineErr error
	for i, move := range game.Directions {
		err := s.pool.run(g, func() error {
			value, moved, err := s.evaluateMove(gctx, state, move, rngs[i], depth, parallelDepth)
			results[i] = moveResult{value: value, moved: moved}
			return err
		})
		if err != nil {
			inlineErr = err
			cancel()
			break
		}
	}

	waitErr := g.Wait()
	if inlineErr != nil {
		return nil, inlineErr
	}
	if waitErr != nil {
		return nil, waitErr
	}
	return results, nil
}
