package experiments

import (
	"threes/experiments/metrics"
	"threes/meta"
)

// RunThroughputExperiment plays the same games with growing worker pools.
// Searches are seeded, so every agent plays identical moves and only the
// search durations in move_records.csv differ.
func RunThroughputExperiment(opts Options) ([]metrics.Summary, error) {
	w := meta.DEFAULT_WEIGHT
	configs := []metrics.AgentConfig{}
	for i, workers := range []int{1, 2, 4, 8, 16} {
		configs = append(configs, metrics.AgentConfig{
			ID:              i + 1,
			Depth:           4,
			ParallelDepth:   2,
			Workers:         workers,
			BoardWeight:     w,
			FreeCellWeight:  w,
			MatchableWeight: w,
		})
	}
	return runExperiment("throughput", configs, opts)
}
