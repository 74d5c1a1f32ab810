package agent

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"threes/experiments/metrics"
	"threes/game"
	"threes/searcher"
)

type failingAgent struct{}

func (failingAgent) FindMove(state game.State) (searcher.Choice, metrics.SearchMetric, error) {
	return searcher.EmptyChoice(), metrics.SearchMetric{}, errors.New("search exploded")
}

func testAgent() Agent {
	return NewEvaluationAgent(searcher.NewExpectimax(searcher.WithDepth(2), searcher.WithParallelDepth(1), searcher.WithSeed(4)))
}

const openRequest = `{
	"board": [[3, 3, 0, 0], [0, 0, 0, 0], [1, 2, 0, 0], [6, 12, 24, 48]],
	"tile": {"value": 2},
	"deck": [{"tile": {"value": 1}, "count": 3}, {"tile": {"value": 3}, "count": 2}, {"tile": {"bonus": [3, 6]}, "count": 1}]
}`

func post(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/findmove", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestFindMoveHandler(t *testing.T) {
	t.Run("answers with the agent's choice", func(t *testing.T) {
		agent := testAgent()
		board, err := game.NewBoard([][]int{{3, 3, 0, 0}, {0, 0, 0, 0}, {1, 2, 0, 0}, {6, 12, 24, 48}})
		require.NoError(t, err)
		bonus, err := game.NewBonusTile(3, 6)
		require.NoError(t, err)
		deck := game.NewDeck(map[game.Tile]int{game.FixedTile{Value: 1}: 3, game.FixedTile{Value: 3}: 2, bonus: 1})
		want, _, err := agent.FindMove(game.NewState(board, deck, game.FixedTile{Value: 2}, 1.0, nil))
		require.NoError(t, err)

		rec := post(t, NewServer(agent), openRequest)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.Contains(t, rec.Body.String(), `"move":"`+want.Move.String()+`"`)
		require.Contains(t, rec.Body.String(), `"legal":true`)
	})

	t.Run("deals a deck when the request has none", func(t *testing.T) {
		rec := post(t, NewServer(testAgent()), `{"board": [[3, 3, 0, 0], [0, 0, 0, 0], [1, 2, 0, 0], [6, 12, 24, 48]], "tile": {"value": 1}}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Contains(t, rec.Body.String(), `"legal":true`)
	})

	t.Run("reports a board with no legal move", func(t *testing.T) {
		body := `{"board": [[3, 6, 3, 6], [6, 3, 6, 3], [3, 6, 3, 6], [6, 3, 6, 3]], "tile": {"value": 1}}`

		rec := post(t, NewServer(testAgent()), body)

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"move": "-", "legal": false}`, rec.Body.String())
	})

	t.Run("rejects malformed requests", func(t *testing.T) {
		bodies := map[string]string{
			"not json":     `{"board":`,
			"short board":  `{"board": [[1, 2, 3]], "tile": {"value": 1}}`,
			"missing tile": `{"board": [[0,0,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,3]]}`,
			"bad tile":     `{"board": [[0,0,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,3]], "tile": {"value": 6}}`,
			"mixed tile":   `{"board": [[0,0,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,3]], "tile": {"value": 1, "bonus": [3]}}`,
			"bad bonus":    `{"board": [[0,0,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,3]], "tile": {"bonus": [5]}}`,
			"bad count":    `{"board": [[0,0,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,3]], "tile": {"value": 1}, "deck": [{"tile": {"value": 2}, "count": -1}]}`,
		}
		for name, body := range bodies {
			rec := post(t, NewServer(testAgent()), body)

			require.Equal(t, http.StatusBadRequest, rec.Code, "Request %q should be rejected", name)
		}
	})

	t.Run("maps search failures to 500", func(t *testing.T) {
		rec := post(t, NewServer(failingAgent{}), openRequest)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "search exploded")
	})

	t.Run("only accepts POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/findmove", nil)
		rec := httptest.NewRecorder()

		NewServer(testAgent()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestRemoteAgent(t *testing.T) {
	bonus, err := game.NewBonusTile(3)
	require.NoError(t, err)
	board, err := game.NewBoard([][]int{{3, 3, 0, 0}, {0, 0, 0, 0}, {1, 2, 0, 0}, {6, 12, 24, 48}})
	require.NoError(t, err)
	state := game.NewState(board, game.NewDeck(map[game.Tile]int{
		game.FixedTile{Value: 2}: 4,
		bonus:                    1,
	}), game.FixedTile{Value: 1}, 1.0, nil)

	t.Run("matches the agent it talks to", func(t *testing.T) {
		local := testAgent()
		server := httptest.NewServer(NewServer(local))
		defer server.Close()

		want, _, err := local.FindMove(state)
		require.NoError(t, err)
		got, _, err := NewRemoteAgent(server.URL, server.Client()).FindMove(state)
		require.NoError(t, err)

		require.Equal(t, want.Move, got.Move)
		require.InDelta(t, want.Value, got.Value, 1e-9)
	})

	t.Run("returns the empty choice for a frozen board", func(t *testing.T) {
		server := httptest.NewServer(NewServer(testAgent()))
		defer server.Close()
		frozen, err := game.NewBoard([][]int{{3, 6, 3, 6}, {6, 3, 6, 3}, {3, 6, 3, 6}, {6, 3, 6, 3}})
		require.NoError(t, err)

		got, _, err := NewRemoteAgent(server.URL, nil).FindMove(game.NewState(frozen, state.Deck(), game.FixedTile{Value: 2}, 1.0, nil))

		require.NoError(t, err)
		require.True(t, got.IsEmpty())
	})

	t.Run("surfaces server errors", func(t *testing.T) {
		server := httptest.NewServer(NewServer(failingAgent{}))
		defer server.Close()

		_, _, err := NewRemoteAgent(server.URL, server.Client()).FindMove(state)

		require.ErrorContains(t, err, "status 500")
	})
}
