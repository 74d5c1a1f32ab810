package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type AgentConfig struct {
	ID              int     `yaml:"id"`
	Depth           int     `yaml:"depth"`
	ParallelDepth   int     `yaml:"parallel_depth"`
	Workers         int     `yaml:"workers,omitempty"`
	BoardWeight     float64 `yaml:"board_weight"`
	FreeCellWeight  float64 `yaml:"free_cell_weight"`
	MatchableWeight float64 `yaml:"matchable_weight"`
}

type Setup struct {
	Name     string        `yaml:"name"`
	Games    int           `yaml:"games"`
	MaxTurns int           `yaml:"max_turns"`
	Seed     uint64        `yaml:"seed"`
	Agents   []AgentConfig `yaml:"agents"`
}

type GameRecord struct {
	ID    int
	Agent int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Summary struct {
	Agent       int // AgentConfig.ID
	Games       int
	MeanScore   float64
	StdDevScore float64
	MedianScore float64
	MeanMoves   float64
	MaxTile     int
}

type Writer struct {
	baseDir string
}

// NewWriter creates a folder for one run of the named experiment under root
func NewWriter(root, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSetup(setup Setup) error {
	out, err := yaml.Marshal(setup)
	if err != nil {
		return fmt.Errorf("failed to encode setup: %w", err)
	}
	err = os.WriteFile(filepath.Join(w.baseDir, "setup.yaml"), out, 0644)
	if err != nil {
		return fmt.Errorf("failed to write setup file: %w", err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "depth", "parallel_depth", "workers", "board_weight", "free_cell_weight", "matchable_weight"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Depth),
			strconv.Itoa(config.ParallelDepth),
			strconv.Itoa(config.Workers),
			formatFloat(config.BoardWeight),
			formatFloat(config.FreeCellWeight),
			formatFloat(config.MatchableWeight),
		})
	}
	return w.writeCSV("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent", "start_time", "end_time", "duration", "total_moves", "final_score", "max_tile"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
			formatFloat(record.FinalScore),
			strconv.Itoa(record.MaxTile),
		})
	}
	return w.writeCSV("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "move", "value", "duration", "nodes", "leaves", "illegal_moves", "dispatched", "inline"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Move,
			formatFloat(record.Value),
			record.Duration.String(),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Leaves),
			strconv.Itoa(record.IllegalMoves),
			strconv.Itoa(record.Dispatched),
			strconv.Itoa(record.Inline),
		})
	}
	return w.writeCSV("move_records.csv", header, rows)
}

func (w *Writer) WriteSummaries(summaries []Summary) error {
	header := []string{"agent", "games", "mean_score", "std_dev_score", "median_score", "mean_moves", "max_tile"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.Agent),
			strconv.Itoa(s.Games),
			formatFloat(s.MeanScore),
			formatFloat(s.StdDevScore),
			formatFloat(s.MedianScore),
			formatFloat(s.MeanMoves),
			strconv.Itoa(s.MaxTile),
		})
	}
	return w.writeCSV("summary.csv", header, rows)
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
