package experiments

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"threes/engine"
	"threes/experiments/metrics"
	"threes/meta"
	"threes/searcher"
	"threes/searcher/agent"
)

// Options shared by every agent of one experiment run
type Options struct {
	OutDir   string
	Games    int // Per agent
	MaxTurns int
	Seed     uint64
}

func DefaultOptions(outDir string, seed uint64) Options {
	return Options{
		OutDir:   outDir,
		Games:    meta.GAMES,
		MaxTurns: meta.MAX_TURNS,
		Seed:     seed,
	}
}

// RunDepthExperiment compares how far ahead the search looks
func RunDepthExperiment(opts Options) ([]metrics.Summary, error) {
	configs := []metrics.AgentConfig{}
	for depth := 1; depth <= meta.DEFAULT_DEPTH; depth++ {
		configs = append(configs, metrics.AgentConfig{
			ID:              depth,
			Depth:           depth,
			ParallelDepth:   min(depth, meta.PARALLEL_DEPTH),
			BoardWeight:     meta.DEFAULT_WEIGHT,
			FreeCellWeight:  meta.DEFAULT_WEIGHT,
			MatchableWeight: meta.DEFAULT_WEIGHT,
		})
	}
	return runExperiment("depth", configs, opts)
}

// RunWeightsExperiment compares each evaluation sub-score on its own against the blend
func RunWeightsExperiment(opts Options) ([]metrics.Summary, error) {
	w := meta.DEFAULT_WEIGHT
	depth := 3
	parallelDepth := 2
	configs := []metrics.AgentConfig{
		{ID: 1, Depth: depth, ParallelDepth: parallelDepth, BoardWeight: w, FreeCellWeight: w, MatchableWeight: w}, // Baseline
		{ID: 2, Depth: depth, ParallelDepth: parallelDepth, BoardWeight: 1},
		{ID: 3, Depth: depth, ParallelDepth: parallelDepth, FreeCellWeight: 1},
		{ID: 4, Depth: depth, ParallelDepth: parallelDepth, MatchableWeight: 1},
		{ID: 5, Depth: depth, ParallelDepth: parallelDepth, BoardWeight: w, FreeCellWeight: 2 * w, MatchableWeight: w},
	}
	return runExperiment("weights", configs, opts)
}

func runExperiment(name string, configs []metrics.AgentConfig, opts Options) ([]metrics.Summary, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for ci, config := range configs {
		log.Info().Msgf("starting agent %d of %d with config=%+v...", ci+1, len(configs), config)

		for i := 0; i < opts.Games; i++ {
			// Every agent plays the same sequence of games
			gameSeed := opts.Seed + uint64(i)
			gameMetric, moveMetrics, err := runGame(config, gameSeed, opts.MaxTurns)
			if err != nil {
				return nil, fmt.Errorf("failed to run game %d for agent %d: %w", i+1, config.ID, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent:      config.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed agent %d game %d of %d with score %.0f", config.ID, i+1, opts.Games, gameMetric.FinalScore)
		}
	}

	summaries := lo.Map(configs, func(config metrics.AgentConfig, _ int) metrics.Summary {
		return summarize(config.ID, lo.Filter(gameRecords, func(r metrics.GameRecord, _ int) bool {
			return r.Agent == config.ID
		}))
	})
	for _, s := range summaries {
		log.Info().Msgf("agent %d: mean score %.1f (sd %.1f), median %.1f, max tile %d", s.Agent, s.MeanScore, s.StdDevScore, s.MedianScore, s.MaxTile)
	}
	log.Info().Msgf("completed %s experiment", name)

	return summaries, store(name, configs, opts, gameRecords, moveRecords, summaries)
}

func store(name string, configs []metrics.AgentConfig, opts Options, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord, summaries []metrics.Summary) error {
	writer, err := metrics.NewWriter(opts.OutDir, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	// Store experiment metadata
	err = writer.WriteSetup(metrics.Setup{
		Name:     name,
		Games:    opts.Games,
		MaxTurns: opts.MaxTurns,
		Seed:     opts.Seed,
		Agents:   configs,
	})
	if err != nil {
		return err
	}
	if err = writer.WriteAgentConfigs(configs); err != nil {
		return err
	}
	log.Info().Msg("stored agent configs")

	// Store experiment results
	if err = writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	if err = writer.WriteMoveRecords(moveRecords); err != nil {
		return err
	}
	if err = writer.WriteSummaries(summaries); err != nil {
		return err
	}
	log.Info().Msgf("stored results in %s", writer.Dir())
	return nil
}

// runGame plays one game with a fresh agent built from config
func runGame(config metrics.AgentConfig, seed uint64, maxTurns int) (metrics.GameMetric, []metrics.MoveMetric, error) {
	rng := rand.New(rand.NewSource(seed))
	start := engine.NewGame(rng)
	e := engine.LocalEngine(agent.NewEvaluationAgent(createExpectimax(config, seed)), start, rng, maxTurns)
	return e.Run()
}

func createExpectimax(config metrics.AgentConfig, seed uint64) *searcher.Expectimax {
	options := []searcher.Option{
		searcher.WithDepth(config.Depth),
		searcher.WithParallelDepth(config.ParallelDepth),
		searcher.WithWeights(config.BoardWeight, config.FreeCellWeight, config.MatchableWeight),
		searcher.WithSeed(seed),
		searcher.WithMetrics(),
	}
	if config.Workers > 0 {
		options = append(options, searcher.WithWorkers(config.Workers))
	}
	return searcher.NewExpectimax(options...)
}

func summarize(agentID int, records []metrics.GameRecord) metrics.Summary {
	if len(records) == 0 {
		return metrics.Summary{Agent: agentID}
	}
	scores := lo.Map(records, func(r metrics.GameRecord, _ int) float64 { return r.FinalScore })
	moves := lo.Map(records, func(r metrics.GameRecord, _ int) float64 { return float64(r.TotalMoves) })

	mean, std := stat.MeanStdDev(scores, nil)
	if len(scores) < 2 {
		std = 0
	}
	sorted := slices.Clone(scores)
	slices.Sort(sorted)
	return metrics.Summary{
		Agent:       agentID,
		Games:       len(records),
		MeanScore:   mean,
		StdDevScore: std,
		MedianScore: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		MeanMoves:   stat.Mean(moves, nil),
		MaxTile:     lo.Max(lo.Map(records, func(r metrics.GameRecord, _ int) int { return r.MaxTile })),
	}
}
