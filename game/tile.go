package game

import (
	"cmp"
	"fmt"
	"math/bits"
	"strings"
)

// Tile is a kind of card waiting in the deck. The set of variants is closed:
// FixedTile and BonusTile are the only implementations.
type Tile interface {
	fmt.Stringer
	isTile()
}

// FixedTile always lands with the same value (1, 2 or 3)
type FixedTile struct {
	Value int
}

func (FixedTile) isTile() {}

func (t FixedTile) String() string {
	return fmt.Sprintf("%d", t.Value)
}

// BonusTile lands with one of several values of the form 3*2^k, decided only
// when it is inserted. Bit k of the mask marks 3*2^k as a candidate, which
// keeps the type comparable so it can be used as a deck key.
type BonusTile struct {
	mask uint64
}

func (BonusTile) isTile() {}

// NewBonusTile builds a bonus tile from its candidate values
func NewBonusTile(values ...int) (BonusTile, error) {
	var b BonusTile
	if len(values) == 0 {
		return b, fmt.Errorf("bonus tile needs at least one candidate value")
	}
	for _, v := range values {
		k, ok := bonusExponent(v)
		if !ok {
			return b, fmt.Errorf("invalid bonus tile value %d: must be 3*2^k", v)
		}
		b.mask |= 1 << k
	}
	return b, nil
}

// Values returns the candidate values in increasing order
func (t BonusTile) Values() []int {
	values := make([]int, 0, bits.OnesCount64(t.mask))
	for k := range 64 {
		if t.mask&(1<<k) != 0 {
			values = append(values, 3<<k)
		}
	}
	return values
}

func (t BonusTile) String() string {
	parts := make([]string, 0, bits.OnesCount64(t.mask))
	for _, v := range t.Values() {
		parts = append(parts, fmt.Sprintf("%d", v))
	}
	return "+{" + strings.Join(parts, ",") + "}"
}

// bonusExponent returns k such that v == 3*2^k
func bonusExponent(v int) (int, bool) {
	if v < 3 || v > MaxCellValue || v%3 != 0 {
		return 0, false
	}
	q := uint64(v / 3)
	if q&(q-1) != 0 {
		return 0, false
	}
	return bits.TrailingZeros64(q), true
}

// validTile panics unless t is a fixed 1, 2 or 3 or a bonus tile with candidates
func validTile(t Tile) {
	switch t := t.(type) {
	case FixedTile:
		if t.Value < 1 || t.Value > 3 {
			panic(fmt.Sprintf("fixed tile value %d must be 1, 2 or 3", t.Value))
		}
	case BonusTile:
		if t.mask == 0 {
			panic("bonus tile has no candidate values")
		}
	default:
		panic(fmt.Sprintf("unexpected tile type %T", t))
	}
}

// TileValues returns every value the tile may take once inserted
func TileValues(t Tile) []int {
	switch t := t.(type) {
	case FixedTile:
		return []int{t.Value}
	case BonusTile:
		return t.Values()
	default:
		panic(fmt.Sprintf("unexpected tile type %T", t))
	}
}

// compareTiles orders fixed tiles by value before bonus tiles by candidate set
func compareTiles(a, b Tile) int {
	switch a := a.(type) {
	case FixedTile:
		if b, ok := b.(FixedTile); ok {
			return cmp.Compare(a.Value, b.Value)
		}
		return -1
	case BonusTile:
		if b, ok := b.(BonusTile); ok {
			return cmp.Compare(a.mask, b.mask)
		}
		return 1
	default:
		panic(fmt.Sprintf("unexpected tile type %T", a))
	}
}
