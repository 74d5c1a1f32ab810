package agent

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"

	"threes/game"
)

type tilePayload struct {
	Value int   `json:"value,omitempty"`
	Bonus []int `json:"bonus,omitempty"`
}

type deckEntryPayload struct {
	Tile  tilePayload `json:"tile"`
	Count int         `json:"count"`
}

type findMoveRequest struct {
	Board [][]int            `json:"board"`
	Tile  tilePayload        `json:"tile"`
	Deck  []deckEntryPayload `json:"deck"`
}

type findMoveResponse struct {
	Move  string   `json:"move"`
	Value *float64 `json:"value,omitempty"` // Omitted when the move leads to a dead end
	Legal bool     `json:"legal"`
}

// NewServer returns a handler answering POST /findmove with the agent's move.
func NewServer(agent Agent) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /findmove", func(w http.ResponseWriter, r *http.Request) {
		handleFindMove(agent, w, r)
	})
	return mux
}

// StartAgentServer serves the agent on addr until the listener fails.
func StartAgentServer(addr string, agent Agent) error {
	log.Info().Msgf("[AgentServer] Starting agent server on %s ...", addr)
	return http.ListenAndServe(addr, NewServer(agent))
}

func handleFindMove(agent Agent, w http.ResponseWriter, r *http.Request) {
	var payload findMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	state, err := payload.toState()
	if err != nil {
		log.Debug().Err(err).Msg("Rejected find move request")
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}

	choice, _, err := agent.FindMove(state)
	if err != nil {
		log.Error().Err(err).Msg("Failed to find move")
		http.Error(w, "failed to find move: "+err.Error(), http.StatusInternalServerError)
		return
	}
	log.Info().Msgf("[AgentServer] Chose %s for tile %s", choice, state.Pending())

	response := findMoveResponse{
		Move:  choice.Move.String(),
		Legal: !choice.IsEmpty(),
	}
	if !math.IsInf(choice.Value, 0) && !math.IsNaN(choice.Value) {
		response.Value = &choice.Value
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "failed to encode move: "+err.Error(), http.StatusInternalServerError)
	}
}

func (p findMoveRequest) toState() (game.State, error) {
	board, err := game.NewBoard(p.Board)
	if err != nil {
		return game.State{}, err
	}
	pending, err := p.Tile.toTile()
	if err != nil {
		return game.State{}, fmt.Errorf("invalid tile: %w", err)
	}

	counts := make(map[game.Tile]int, len(p.Deck))
	for _, entry := range p.Deck {
		tile, err := entry.Tile.toTile()
		if err != nil {
			return game.State{}, fmt.Errorf("invalid deck tile: %w", err)
		}
		if entry.Count < 0 {
			return game.State{}, fmt.Errorf("negative count %d for deck tile %s", entry.Count, tile)
		}
		counts[tile] += entry.Count
	}

	// Only used to deal a fresh deck when the request carries none
	rng := rand.New(rand.NewSource(frand.Uint64n(math.MaxUint64)))
	return game.NewState(board, game.NewDeck(counts), pending, 1.0, rng), nil
}

func (p tilePayload) toTile() (game.Tile, error) {
	switch {
	case len(p.Bonus) > 0 && p.Value != 0:
		return nil, fmt.Errorf("tile cannot have both a value and bonus values")
	case len(p.Bonus) > 0:
		return game.NewBonusTile(p.Bonus...)
	case p.Value >= 1 && p.Value <= 3:
		return game.FixedTile{Value: p.Value}, nil
	default:
		return nil, fmt.Errorf("tile value %d must be 1, 2 or 3", p.Value)
	}
}

func fromDeck(deck game.Deck) []deckEntryPayload {
	return lo.Map(deck.Entries(), func(e game.DeckEntry, _ int) deckEntryPayload {
		return deckEntryPayload{Tile: fromTile(e.Tile), Count: e.Count}
	})
}

func fromTile(tile game.Tile) tilePayload {
	switch tile := tile.(type) {
	case game.FixedTile:
		return tilePayload{Value: tile.Value}
	case game.BonusTile:
		return tilePayload{Bonus: tile.Values()}
	default:
		panic(fmt.Sprintf("unexpected tile type %T", tile))
	}
}
