package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"threes/experiments/metrics"
	"threes/game"
	"threes/searcher"
	"threes/searcher/agent"
)

type scriptedAgent struct {
	choice searcher.Choice
	err    error
}

func (a scriptedAgent) FindMove(state game.State) (searcher.Choice, metrics.SearchMetric, error) {
	return a.choice, metrics.SearchMetric{}, a.err
}

func searchAgent(seed uint64) agent.Agent {
	return agent.NewEvaluationAgent(searcher.NewExpectimax(
		searcher.WithDepth(1),
		searcher.WithParallelDepth(0),
		searcher.WithSeed(seed),
		searcher.WithMetrics(),
	))
}

func TestNewGame(t *testing.T) {
	t.Run("deals nine tiles and a pending tile from one deck", func(t *testing.T) {
		state := NewGame(rand.New(rand.NewSource(8)))

		counts := map[int]int{}
		for _, row := range state.Board().Rows() {
			for _, cell := range row {
				if cell != 0 {
					counts[cell]++
				}
			}
		}
		pending, ok := state.Pending().(game.FixedTile)
		require.True(t, ok, "Opening pending tile should be a fixed tile")
		counts[pending.Value]++
		for _, e := range state.Deck().Entries() {
			counts[e.Tile.(game.FixedTile).Value] += e.Count
		}

		require.Len(t, state.Board().EmptyCells(), game.Size*game.Size-9)
		require.Equal(t, 2, state.Deck().Total())
		require.Equal(t, map[int]int{1: 4, 2: 4, 3: 4}, counts, "Board, pending tile and deck should make one full deck")
		require.Equal(t, 1.0, state.Probability())
	})

	t.Run("same seed deals the same game", func(t *testing.T) {
		a := NewGame(rand.New(rand.NewSource(8)))
		b := NewGame(rand.New(rand.NewSource(8)))

		require.True(t, a.Equal(b))
	})
}

func TestLocalEngineRun(t *testing.T) {
	t.Run("plays until the turn limit or a dead end", func(t *testing.T) {
		start := NewGame(rand.New(rand.NewSource(2)))
		e := LocalEngine(searchAgent(2), start, rand.New(rand.NewSource(3)), 25)

		gameMetric, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.Len(t, moveMetrics, gameMetric.TotalMoves)
		require.LessOrEqual(t, gameMetric.TotalMoves, 25)
		require.Positive(t, gameMetric.TotalMoves)
		for i, m := range moveMetrics {
			require.Equal(t, i+1, m.Step)
			_, err := game.ParseMove(m.Move)
			require.NoError(t, err)
			require.Equal(t, 1, m.Depth, "Search metrics should be recorded per move")
		}
		require.Equal(t, game.BoardScore(e.Final().Board()), gameMetric.FinalScore)
		require.Equal(t, e.Final().Board().MaxCell(), gameMetric.MaxTile)
		require.Equal(t, 1.0, e.Final().Probability(), "Realized successors become new roots")
	})

	t.Run("same seeds replay the same game", func(t *testing.T) {
		start := NewGame(rand.New(rand.NewSource(2)))

		first := LocalEngine(searchAgent(2), start, rand.New(rand.NewSource(3)), 15)
		second := LocalEngine(searchAgent(2), start, rand.New(rand.NewSource(3)), 15)
		_, firstMoves, err := first.Run()
		require.NoError(t, err)
		_, secondMoves, err := second.Run()
		require.NoError(t, err)

		require.Equal(t, len(firstMoves), len(secondMoves))
		for i := range firstMoves {
			require.Equal(t, firstMoves[i].Move, secondMoves[i].Move)
		}
		require.True(t, first.Final().Equal(second.Final()))
	})

	t.Run("stops at once on a frozen board", func(t *testing.T) {
		start := game.NewState(game.BoardFromCells([game.Size][game.Size]int{
			{3, 6, 3, 6},
			{6, 3, 6, 3},
			{3, 6, 3, 6},
			{6, 3, 6, 3},
		}), game.NewDeck(map[game.Tile]int{game.FixedTile{Value: 1}: 1}), game.FixedTile{Value: 2}, 1.0, nil)
		e := LocalEngine(searchAgent(1), start, rand.New(rand.NewSource(1)), 10)

		gameMetric, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.Zero(t, gameMetric.TotalMoves)
		require.Empty(t, moveMetrics)
		require.Equal(t, 6, gameMetric.MaxTile)
	})

	t.Run("surfaces agent failures", func(t *testing.T) {
		start := NewGame(rand.New(rand.NewSource(2)))
		e := LocalEngine(scriptedAgent{choice: searcher.EmptyChoice(), err: errors.New("no agent")}, start, rand.New(rand.NewSource(1)), 10)

		_, _, err := e.Run()

		require.ErrorContains(t, err, "no agent")
	})

	t.Run("rejects a move that does not change the board", func(t *testing.T) {
		start := NewGame(rand.New(rand.NewSource(2)))
		e := LocalEngine(scriptedAgent{choice: searcher.NewChoice(game.NoMove, 1)}, start, rand.New(rand.NewSource(1)), 10)

		_, _, err := e.Run()

		require.Error(t, err)
	})
}
