package metrics

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, "depth")
	require.NoError(t, err)

	t.Run("creates a run folder under the experiment name", func(t *testing.T) {
		rel, err := filepath.Rel(root, w.Dir())

		require.NoError(t, err)
		require.Equal(t, "depth", filepath.Dir(rel))
		require.DirExists(t, w.Dir())
	})

	t.Run("writes setup as yaml", func(t *testing.T) {
		setup := Setup{
			Name:     "depth",
			Games:    3,
			MaxTurns: 50,
			Seed:     math.MaxUint64,
			Agents:   []AgentConfig{{ID: 1, Depth: 2, ParallelDepth: 1, BoardWeight: .33}},
		}

		require.NoError(t, w.WriteSetup(setup))

		out, err := os.ReadFile(filepath.Join(w.Dir(), "setup.yaml"))
		require.NoError(t, err)
		var got Setup
		require.NoError(t, yaml.Unmarshal(out, &got))
		require.Equal(t, setup, got)
		require.Contains(t, string(out), "parallel_depth: 1")
	})

	t.Run("writes one csv row per record", func(t *testing.T) {
		start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		require.NoError(t, w.WriteGameRecords([]GameRecord{
			{ID: 1, Agent: 2, GameMetric: GameMetric{StartTime: start, EndTime: start.Add(time.Second), Duration: time.Second, TotalMoves: 40, FinalScore: 123, MaxTile: 96}},
		}))
		require.NoError(t, w.WriteMoveRecords([]MoveRecord{
			{Game: 1, MoveMetric: MoveMetric{Step: 1, Move: "L", Value: 1.5, SearchMetric: SearchMetric{Nodes: 3, Leaves: 10}}},
			{Game: 1, MoveMetric: MoveMetric{Step: 2, Move: "D", Value: 2}},
		}))

		games := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		moves := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))

		require.Len(t, games, 2, "Header and one game")
		require.Equal(t, []string{"1", "2", "2024-01-02T03:04:05Z", "2024-01-02T03:04:06Z", "1s", "40", "123", "96"}, games[1])
		require.Len(t, moves, 3, "Header and two moves")
		require.Equal(t, []string{"1", "1", "L", "1.5", "0s", "3", "10", "0", "0", "0"}, moves[1])
	})

	t.Run("writes agent configs and summaries", func(t *testing.T) {
		require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Depth: 3, ParallelDepth: 2, Workers: 4, BoardWeight: 1, FreeCellWeight: .5, MatchableWeight: 0}}))
		require.NoError(t, w.WriteSummaries([]Summary{{Agent: 1, Games: 2, MeanScore: 10, MedianScore: 9, MaxTile: 48}}))

		configs := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		summaries := readCSV(t, filepath.Join(w.Dir(), "summary.csv"))

		require.Equal(t, []string{"1", "3", "2", "4", "1", "0.5", "0"}, configs[1])
		require.Equal(t, []string{"1", "2", "10", "0", "9", "0", "48"}, summaries[1])
	})
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(3, 2, 8)
	c.AddNode()
	c.AddLeaf()
	c.AddLeaf()
	c.AddIllegalMove()
	c.AddDispatched()
	c.AddInline()

	got := c.Complete()

	require.Equal(t, 3, got.Depth)
	require.Equal(t, 2, got.ParallelDepth)
	require.Equal(t, 8, got.Workers)
	require.Equal(t, 1, got.Nodes)
	require.Equal(t, 2, got.Leaves)
	require.Equal(t, 1, got.IllegalMoves)
	require.Equal(t, 1, got.Dispatched)
	require.Equal(t, 1, got.Inline)

	c.Start(1, 0, 1)
	require.Zero(t, c.Complete().Leaves, "Start should reset the counters")
	require.Equal(t, SearchMetric{}, NewDummyCollector().Complete())
}
