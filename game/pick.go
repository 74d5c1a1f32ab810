package game

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"golang.org/x/exp/rand"
)

// Allowed deviation of a successor distribution from a total mass of 1
const massTolerance = 1e-3

// PickState realizes one successor out of a probability-weighted set: the most
// likely states come first, then a uniform draw walks the cumulative
// distribution.
func PickState(states []State, rng *rand.Rand) State {
	if len(states) == 0 {
		panic("cannot pick from an empty set of states")
	}
	mass := 0.0
	for _, s := range states {
		mass += s.probability
	}
	if math.Abs(mass-1) >= massTolerance {
		panic(fmt.Sprintf("successor probabilities sum to %g, expected 1", mass))
	}

	sorted := slices.Clone(states)
	slices.SortStableFunc(sorted, func(a, b State) int {
		return cmp.Compare(b.probability, a.probability)
	})

	r := rng.Float64()
	sum := 0.0
	i := -1
	for {
		i++
		sum += sorted[i].probability
		if r <= sum || i == len(sorted)-1 {
			return sorted[i]
		}
	}
}
