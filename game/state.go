package game

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// Relative tolerance when comparing branch probabilities
const probabilityEpsilon = 1e-8

// State is an immutable snapshot of a position: the board, the tiles left in
// the deck, the tile waiting to be inserted by the next move and the weight of
// this branch among its siblings.
type State struct {
	board       Board
	deck        Deck
	pending     Tile
	probability float64
}

// NewState builds a state. An empty deck is replaced by a freshly generated
// one, which is the only time rng is used; it may be nil otherwise.
// A non-nil pending tile must be valid.
func NewState(board Board, deck Deck, pending Tile, probability float64, rng *rand.Rand) State {
	if pending != nil {
		validTile(pending)
	}
	if probability <= 0 || probability > 1+probabilityEpsilon {
		panic(fmt.Sprintf("state probability %g outside (0,1]", probability))
	}
	if deck.IsEmpty() {
		if rng == nil {
			panic("regenerating an empty deck requires a random source")
		}
		deck = GenerateDeck(board, rng)
	}
	return State{
		board:       board,
		deck:        deck,
		pending:     pending,
		probability: probability,
	}
}

// NewRootState starts a position with certainty and a freshly generated deck
func NewRootState(board Board, pending Tile, rng *rand.Rand) State {
	return NewState(board, Deck{}, pending, 1.0, rng)
}

// AsRoot returns the same position with probability reset to 1, for use as
// the start of a new search once a successor has actually been played
func (s State) AsRoot() State {
	s.probability = 1.0
	return s
}

func (s State) Board() Board {
	return s.board
}

func (s State) Deck() Deck {
	return s.deck
}

// Pending returns the tile the next move will insert, nil if none
func (s State) Pending() Tile {
	return s.pending
}

func (s State) Probability() float64 {
	return s.probability
}

func (s State) Equal(other State) bool {
	return s.board == other.board &&
		s.deck.Equal(other.deck) &&
		s.pending == other.pending &&
		math.Abs((other.probability-s.probability)/s.probability) < probabilityEpsilon
}

func (s State) String() string {
	return s.board.String() + fmt.Sprintf("Tile: %v Deck: %s Prob: %3.2e\n", s.pending, s.deck, s.probability)
}
