package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

// Number of each fixed tile in a freshly generated deck
const fixedTileCopies = 4

// Chance that a freshly generated deck carries a bonus tile
const bonusTileChance = 0.5

// DeckEntry is one tile kind and how many of it remain
type DeckEntry struct {
	Tile  Tile
	Count int
}

// Deck is the multiset of tiles left to draw. It is immutable: drawing
// returns a new Deck. Entries are kept in tile order so iterating and drawing
// are reproducible for a given random source, and every count is positive.
type Deck struct {
	entries []DeckEntry
}

// NewDeck builds a deck from tile counts. Zero counts are dropped and
// invalid tiles panic.
func NewDeck(counts map[Tile]int) Deck {
	entries := make([]DeckEntry, 0, len(counts))
	for tile, count := range counts {
		if tile == nil {
			panic("deck cannot hold a nil tile")
		}
		validTile(tile)
		if count < 0 {
			panic(fmt.Sprintf("negative count %d for tile %s", count, tile))
		}
		if count > 0 {
			entries = append(entries, DeckEntry{Tile: tile, Count: count})
		}
	}
	slices.SortFunc(entries, func(a, b DeckEntry) int {
		return compareTiles(a.Tile, b.Tile)
	})
	return Deck{entries: entries}
}

// Entries returns a copy of the deck contents in tile order
func (d Deck) Entries() []DeckEntry {
	return slices.Clone(d.entries)
}

func (d Deck) IsEmpty() bool {
	return len(d.entries) == 0
}

// Total returns the number of tile instances left
func (d Deck) Total() int {
	return lo.SumBy(d.entries, func(e DeckEntry) int { return e.Count })
}

func (d Deck) Count(t Tile) int {
	if i := d.index(t); i >= 0 {
		return d.entries[i].Count
	}
	return 0
}

func (d Deck) index(t Tile) int {
	return slices.IndexFunc(d.entries, func(e DeckEntry) bool { return e.Tile == t })
}

// Remove returns a copy of the deck with one instance of t taken out.
// The kind disappears when its last instance is removed.
func (d Deck) Remove(t Tile) Deck {
	i := d.index(t)
	if i < 0 {
		panic(fmt.Sprintf("cannot remove tile %s: not in deck", t))
	}
	entries := slices.Clone(d.entries)
	if entries[i].Count == 1 {
		entries = slices.Delete(entries, i, i+1)
	} else {
		entries[i].Count--
	}
	return Deck{entries: entries}
}

// Draw picks a tile kind at random, weighted by the number of instances of
// each kind. The deck itself is left untouched.
func (d Deck) Draw(rng *rand.Rand) Tile {
	total := d.Total()
	if total == 0 {
		panic("cannot draw from an empty deck")
	}
	pick := rng.Intn(total)
	for _, e := range d.entries {
		if pick < e.Count {
			return e.Tile
		}
		pick -= e.Count
	}
	panic("unreachable: draw walked past the deck")
}

func (d Deck) Equal(other Deck) bool {
	return slices.Equal(d.entries, other.entries)
}

func (d Deck) String() string {
	parts := lo.Map(d.entries, func(e DeckEntry, _ int) string {
		return fmt.Sprintf("%s:%d", e.Tile, e.Count)
	})
	return "[" + strings.Join(parts, " ") + "]"
}

// GenerateDeck deals a fresh deck for the board: four each of 1, 2 and 3, plus
// on a coin flip one bonus tile sized by the board's largest tile.
func GenerateDeck(board Board, rng *rand.Rand) Deck {
	counts := map[Tile]int{
		FixedTile{Value: 1}: fixedTileCopies,
		FixedTile{Value: 2}: fixedTileCopies,
		FixedTile{Value: 3}: fixedTileCopies,
	}
	if rng.Float64() < bonusTileChance {
		if candidates := BonusCandidates(board); len(candidates) > 0 {
			bonus, err := NewBonusTile(candidates...)
			if err != nil {
				panic(err)
			}
			counts[bonus] = 1
		}
	}
	return NewDeck(counts)
}

// BonusCandidates returns 3, 6, 12, ... up to an eighth of the largest tile
func BonusCandidates(board Board) []int {
	limit := board.MaxCell() / 8
	var candidates []int
	for v := 3; v <= limit; v *= 2 {
		candidates = append(candidates, v)
	}
	return candidates
}
