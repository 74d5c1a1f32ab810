package main

import (
	"flag"
	"math"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"

	"threes/engine"
	"threes/experiments"
	"threes/experiments/metrics"
	"threes/meta"
	"threes/searcher"
	"threes/searcher/agent"
)

func main() {
	depth := flag.Int("depth", meta.DEFAULT_DEPTH, "Number of moves to look ahead")
	parallelDepth := flag.Int("parallel", meta.PARALLEL_DEPTH, "Number of search levels that use the worker pool")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "Number of search workers")
	seed := flag.Uint64("seed", 0, "Seed for the search and the game (0 picks one at random)")
	turns := flag.Int("turns", meta.MAX_TURNS, "Max number of moves per game")
	games := flag.Int("games", meta.GAMES, "Number of games per agent in an experiment")
	experiment := flag.String("experiment", "", "Experiment to run: depth, weights or throughput")
	out := flag.String("out", "experiments/results", "Folder for experiment results")
	serve := flag.Bool("serve", false, "Serve moves over HTTP instead of playing")
	addr := flag.String("addr", meta.SERVER_ADDR, "Address of the agent server")
	remote := flag.String("remote", "", "Play a game against the agent server at this URL")
	boardWeight := flag.Float64("board-weight", meta.DEFAULT_WEIGHT, "Weight of the board score in the evaluation")
	freeWeight := flag.Float64("free-weight", meta.DEFAULT_WEIGHT, "Weight of the free cell count in the evaluation")
	matchWeight := flag.Float64("match-weight", meta.DEFAULT_WEIGHT, "Weight of the matchable pair count in the evaluation")
	debug := flag.Bool("debug", false, "Log every turn")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *seed == 0 {
		*seed = frand.Uint64n(math.MaxUint64) + 1
	}
	log.Info().Msgf("Using seed %d", *seed)

	options := []searcher.Option{
		searcher.WithDepth(*depth),
		searcher.WithParallelDepth(*parallelDepth),
		searcher.WithWorkers(*workers),
		searcher.WithSeed(*seed),
		searcher.WithWeights(*boardWeight, *freeWeight, *matchWeight),
	}

	switch {
	case *experiment != "":
		opts := experiments.DefaultOptions(*out, *seed)
		opts.Games = *games
		opts.MaxTurns = *turns
		runExperiment(*experiment, opts)
	case *serve:
		if err := agent.StartAgentServer(*addr, agent.NewEvaluationAgent(searcher.NewExpectimax(options...))); err != nil {
			log.Fatal().Err(err).Msg("Agent server stopped")
		}
	default:
		var a agent.Agent
		if *remote != "" {
			a = agent.NewRemoteAgent(*remote, &http.Client{Timeout: time.Minute})
		} else {
			a = agent.NewEvaluationAgent(searcher.NewExpectimax(options...))
		}
		playGame(a, *seed, *turns)
	}
}

func runExperiment(name string, opts experiments.Options) {
	run := map[string]func(experiments.Options) ([]metrics.Summary, error){
		"depth":      experiments.RunDepthExperiment,
		"weights":    experiments.RunWeightsExperiment,
		"throughput": experiments.RunThroughputExperiment,
	}[name]
	if run == nil {
		log.Fatal().Msgf("Unknown experiment %q", name)
	}
	if _, err := run(opts); err != nil {
		log.Fatal().Err(err).Msgf("Experiment %s failed", name)
	}
}

func playGame(a agent.Agent, seed uint64, turns int) {
	rng := rand.New(rand.NewSource(seed))
	e := engine.LocalEngine(a, engine.NewGame(rng), rng, turns)
	gameMetric, _, err := e.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Game failed")
	}
	log.Info().Msgf("Final position after %d moves in %s:%s", gameMetric.TotalMoves, gameMetric.Duration, e.Final())
}
