package searcher

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"threes/game"
)

// Choice is a move paired with its expected value
type Choice struct {
	Move  game.Move
	Value float64
}

func NewChoice(move game.Move, value float64) Choice {
	return Choice{Move: move, Value: value}
}

// EmptyChoice is returned when no move changes the board
func EmptyChoice() Choice {
	return Choice{Move: game.NoMove, Value: math.Inf(-1)}
}

func (c Choice) IsEmpty() bool {
	return c.Move == game.NoMove && math.IsInf(c.Value, -1)
}

func (c Choice) String() string {
	return fmt.Sprintf("%s(%.4f)", c.Move, c.Value)
}

func CompareChoices(a, b Choice) int {
	return cmp.Compare(a.Value, b.Value)
}

// bestChoice returns the highest valued choice. Among equal values the one
// listed last wins, so callers list choices in Directions order.
func bestChoice(choices []Choice) Choice {
	if len(choices) == 0 {
		return EmptyChoice()
	}
	sorted := slices.Clone(choices)
	slices.SortStableFunc(sorted, CompareChoices)
	return sorted[len(sorted)-1]
}
