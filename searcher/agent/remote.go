package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"

	"threes/experiments/metrics"
	"threes/game"
	"threes/searcher"
)

type remoteAgent struct {
	url    string
	client *http.Client
}

// NewRemoteAgent returns an agent that asks an agent server at baseURL for each move.
// Search metrics stay on the server, so the returned metrics are always empty.
func NewRemoteAgent(baseURL string, client *http.Client) Agent {
	if client == nil {
		client = http.DefaultClient
	}
	return remoteAgent{url: baseURL + "/findmove", client: client}
}

func (a remoteAgent) FindMove(state game.State) (searcher.Choice, metrics.SearchMetric, error) {
	payload := findMoveRequest{
		Board: state.Board().Rows(),
		Tile:  fromTile(state.Pending()),
		Deck:  fromDeck(state.Deck()),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return searcher.EmptyChoice(), metrics.SearchMetric{}, fmt.Errorf("failed to encode state: %w", err)
	}

	resp, err := a.client.Post(a.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return searcher.EmptyChoice(), metrics.SearchMetric{}, fmt.Errorf("failed to reach agent server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return searcher.EmptyChoice(), metrics.SearchMetric{}, fmt.Errorf("agent server returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var response findMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return searcher.EmptyChoice(), metrics.SearchMetric{}, fmt.Errorf("failed to decode move: %w", err)
	}
	if !response.Legal {
		return searcher.EmptyChoice(), metrics.SearchMetric{}, nil
	}
	move, err := game.ParseMove(response.Move)
	if err != nil {
		return searcher.EmptyChoice(), metrics.SearchMetric{}, err
	}
	value := math.Inf(-1)
	if response.Value != nil {
		value = *response.Value
	}
	return searcher.NewChoice(move, value), metrics.SearchMetric{}, nil
}
