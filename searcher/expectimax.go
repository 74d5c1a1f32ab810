package searcher

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"

	"threes/experiments/metrics"
	"threes/game"
	"threes/meta"
)

type Option func(e *Expectimax)

// Expectimax looks a fixed number of moves ahead and picks the move with the
// highest summed evaluation over the sampled successors. Configuration is
// fixed at construction, so an Expectimax may be shared between goroutines.
type Expectimax struct {
	depth         int
	parallelDepth int
	workers       int
	seed          uint64
	evaluate      game.Evaluate
	withMetrics   bool
}

func WithDepth(depth int) Option {
	return func(e *Expectimax) {
		if depth >= 0 {
			e.depth = depth
		}
	}
}

func WithParallelDepth(depth int) Option {
	return func(e *Expectimax) {
		if depth >= 0 {
			e.parallelDepth = depth
		}
	}
}

func WithWorkers(workers int) Option {
	return func(e *Expectimax) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(e *Expectimax) {
		e.seed = seed
	}
}

func WithWeights(board, freeCells, matchable float64) Option {
	return func(e *Expectimax) {
		e.evaluate = game.Evaluator{
			BoardWeight:     board,
			FreeCellWeight:  freeCells,
			MatchableWeight: matchable,
		}.Evaluate
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(e *Expectimax) {
		if evaluate != nil {
			e.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(e *Expectimax) {
		e.withMetrics = true
	}
}

func NewExpectimax(options ...Option) *Expectimax {
	e := &Expectimax{ // Default values
		depth:         meta.DEFAULT_DEPTH,
		parallelDepth: meta.PARALLEL_DEPTH,
		workers:       runtime.GOMAXPROCS(0),
		seed:          frand.Uint64n(math.MaxUint64),
		evaluate: game.Evaluator{
			BoardWeight:     meta.DEFAULT_WEIGHT,
			FreeCellWeight:  meta.DEFAULT_WEIGHT,
			MatchableWeight: meta.DEFAULT_WEIGHT,
		}.Evaluate,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// FindBestMove returns the best move from state, or an empty choice when no
// move changes the board. The same state always yields the same choice.
func (e *Expectimax) FindBestMove(state game.State) (Choice, error) {
	choice, _, err := e.Search(state)
	return choice, err
}

// Search is FindBestMove that also reports how the search went. Metrics are
// zero unless the engine was built WithMetrics.
func (e *Expectimax) Search(state game.State) (Choice, metrics.SearchMetric, error) {
	collector := metrics.NewDummyCollector()
	if e.withMetrics {
		collector = metrics.NewCollector()
	}
	collector.Start(e.depth, e.parallelDepth, e.workers)

	p := newPool(e.workers, collector)
	defer p.close()
	s := &search{
		root:     state,
		evaluate: e.evaluate,
		pool:     p,
		metrics:  collector,
	}
	rng := rand.New(rand.NewSource(e.seed))
	choice, err := s.decide(context.Background(), state, rng, e.depth, e.parallelDepth)
	metric := collector.Complete()
	if err != nil {
		return EmptyChoice(), metric, fmt.Errorf("failed to search for a move: %w", err)
	}

	log.Debug().Msgf("Search chose %s at depth %d", choice, e.depth)
	return choice, metric, nil
}

// search holds what stays fixed while exploring below one root
type search struct {
	root     game.State
	evaluate game.Evaluate
	pool     *pool
	metrics  metrics.Collector
}
