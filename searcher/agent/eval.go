package agent

import (
	"threes/experiments/metrics"
	"threes/game"
	"threes/searcher"
)

type evaluationAgent struct {
	expectimax *searcher.Expectimax
}

// NewEvaluationAgent returns an agent that always plays the best move found by the search.
func NewEvaluationAgent(expectimax *searcher.Expectimax) Agent {
	return evaluationAgent{expectimax: expectimax}
}

func (a evaluationAgent) FindMove(state game.State) (searcher.Choice, metrics.SearchMetric, error) {
	return a.expectimax.Search(state)
}
