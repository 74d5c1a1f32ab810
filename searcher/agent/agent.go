package agent

import (
	"threes/experiments/metrics"
	"threes/game"
	"threes/searcher"
)

type Agent interface {
	// FindMove returns the chosen move with its expected value and performance metrics (if collected) from the search
	FindMove(state game.State) (searcher.Choice, metrics.SearchMetric, error)
}
