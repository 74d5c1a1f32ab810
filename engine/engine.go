package engine

import "threes/experiments/metrics"

type Engine interface {
	// Run plays a game until no move is left or a max number of moves is reached
	Run() (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
