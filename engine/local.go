package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"threes/experiments/metrics"
	"threes/game"
	"threes/searcher/agent"
)

// Number of tiles on the board when a game starts
const openingTiles = 9

type Local struct {
	agent    agent.Agent
	start    game.State
	rng      *rand.Rand
	maxTurns int
	final    game.State
}

// LocalEngine plays a game from start, letting the agent choose every move
// and rng decide where new tiles land and which tile comes next.
func LocalEngine(a agent.Agent, start game.State, rng *rand.Rand, maxTurns int) *Local {
	if maxTurns <= 0 {
		panic("max turns must be positive")
	}
	return &Local{
		agent:    a,
		start:    start.AsRoot(),
		rng:      rng,
		maxTurns: maxTurns,
		final:    start.AsRoot(),
	}
}

// NewGame deals the opening position: nine tiles from a fresh deck at random
// cells of an empty board, and the next tile to play.
func NewGame(rng *rand.Rand) game.State {
	var board game.Board
	deck := game.GenerateDeck(board, rng)
	for range openingTiles {
		tile := deck.Draw(rng).(game.FixedTile)
		deck = deck.Remove(tile)
		empty := board.EmptyCells()
		cell := empty[rng.Intn(len(empty))]
		board = board.Set(cell[0], cell[1], tile.Value)
	}
	pending := deck.Draw(rng)
	return game.NewState(board, deck.Remove(pending), pending, 1.0, rng)
}

func (e *Local) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	startTime := time.Now()
	state := e.start
	var moveMetrics []metrics.MoveMetric

	turn := 0
	for turn < e.maxTurns {
		choice, searchMetric, err := e.agent.FindMove(state)
		if err != nil {
			return metrics.GameMetric{}, moveMetrics, fmt.Errorf("failed to find move at turn %d: %w", turn+1, err)
		}
		if choice.IsEmpty() {
			break
		}

		endStates, moved := choice.Move.EndStatesForSim(state, e.rng)
		if !moved {
			return metrics.GameMetric{}, moveMetrics, fmt.Errorf("agent chose %s at turn %d but it does not move the board", choice.Move, turn+1)
		}
		turn++
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Move:         choice.Move.String(),
			Value:        choice.Value,
			SearchMetric: searchMetric,
		})
		state = game.PickState(endStates, e.rng).AsRoot()
		log.Debug().Msgf("Turn %d: played %s%s", turn, choice, state)
	}
	e.final = state

	endTime := time.Now()
	gameMetric := metrics.GameMetric{
		StartTime:  startTime,
		EndTime:    endTime,
		Duration:   endTime.Sub(startTime),
		TotalMoves: turn,
		FinalScore: game.BoardScore(state.Board()),
		MaxTile:    state.Board().MaxCell(),
	}
	if turn == e.maxTurns {
		log.Info().Msgf("Stopped after %d turns with score %.0f", turn, gameMetric.FinalScore)
	} else {
		log.Info().Msgf("Game over after %d turns with score %.0f and max tile %d", turn, gameMetric.FinalScore, gameMetric.MaxTile)
	}
	return gameMetric, moveMetrics, nil
}

// Final returns the position reached by the last Run
func (e *Local) Final() game.State {
	return e.final
}
