package game

import (
	"fmt"
	"slices"

	"golang.org/x/exp/rand"
)

// Move is one of the four swipes, or NoMove which leaves the state alone
type Move int

const (
	NoMove Move = iota
	Left
	Right
	Up
	Down
)

// Directions lists the swipes in the order the search considers them
var Directions = [...]Move{Left, Right, Up, Down}

func (m Move) String() string {
	switch m {
	case NoMove:
		return "-"
	case Left:
		return "L"
	case Right:
		return "R"
	case Up:
		return "U"
	case Down:
		return "D"
	default:
		return fmt.Sprintf("Move(%d)", int(m))
	}
}

func ParseMove(s string) (Move, error) {
	for _, m := range []Move{NoMove, Left, Right, Up, Down} {
		if m.String() == s {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("unknown move %q", s)
}

func (m Move) vertical() bool {
	return m == Up || m == Down
}

// Merge applies the swipe to every line of the board and returns the result
// together with the indices of the lines (rows for Left/Right, columns for
// Up/Down) that changed. No tile is inserted.
func (m Move) Merge(b Board) (Board, []int) {
	if m == NoMove {
		return b, nil
	}
	combine := CombineLeft
	if m == Right || m == Down {
		combine = CombineRight
	}
	work := b
	if m.vertical() {
		work = b.Transpose()
	}

	var merged Board
	var modified []int
	for i := range Size {
		line := work.Row(i)
		newLine := combine(line)
		if !slices.Equal(line, newLine) {
			modified = append(modified, i)
		}
		copy(merged.cells[i][:], newLine)
	}

	if m.vertical() {
		merged = merged.Transpose()
	}
	return merged, modified
}

// trailingCell is where a new tile enters line i: the edge the tiles moved away from
func (m Move) trailingCell(i int) (row, col int) {
	switch m {
	case Left:
		return i, Size - 1
	case Right:
		return i, 0
	case Up:
		return Size - 1, i
	case Down:
		return 0, i
	default:
		panic(fmt.Sprintf("move %s has no trailing cell", m))
	}
}

// MergeStep performs the deterministic half of a move. When nothing moves it
// returns the input state and false. Otherwise it returns one candidate per
// changed line and per value the pending tile can take, with that value placed
// at the line's trailing cell. Candidates share the input's probability
// evenly and keep its deck; none has a pending tile yet.
func (m Move) MergeStep(s State) ([]State, bool) {
	merged, modified := m.Merge(s.board)
	if len(modified) == 0 {
		return []State{s}, false
	}
	if s.pending == nil {
		panic(fmt.Sprintf("move %s changed the board but the state has no pending tile", m))
	}

	values := TileValues(s.pending)
	probability := s.probability / float64(len(modified)*len(values))
	states := make([]State, 0, len(modified)*len(values))
	for _, value := range values {
		for _, line := range modified {
			row, col := m.trailingCell(line)
			states = append(states, State{
				board:       merged.Set(row, col, value),
				deck:        s.deck,
				probability: probability,
			})
		}
	}
	return states, true
}

// EndStatesForSearch completes the move by drawing exactly one tile from each
// candidate's deck to become its pending tile. Sampling a single draw keeps the
// branching factor of the search bounded.
func (m Move) EndStatesForSearch(s State, rng *rand.Rand) ([]State, bool) {
	candidates, moved := m.MergeStep(s)
	if !moved {
		return candidates, false
	}
	states := make([]State, 0, len(candidates))
	for _, c := range candidates {
		tile := c.deck.Draw(rng)
		states = append(states, NewState(c.board, c.deck.Remove(tile), tile, c.probability, rng))
	}
	return states, true
}

// EndStatesForSim completes the move by branching over every tile kind left in
// each candidate's deck, weighted by how many of that kind remain. The
// resulting probabilities add up to the input state's probability.
func (m Move) EndStatesForSim(s State, rng *rand.Rand) ([]State, bool) {
	candidates, moved := m.MergeStep(s)
	if !moved {
		return candidates, false
	}
	var states []State
	for _, c := range candidates {
		total := float64(c.deck.Total())
		for _, e := range c.deck.entries {
			probability := (c.probability * float64(e.Count)) / total
			states = append(states, NewState(c.board, c.deck.Remove(e.Tile), e.Tile, probability, rng))
		}
	}
	return states, true
}
