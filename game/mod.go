// Package game models a Threes position and how swipes turn it into a
// probability-weighted set of successor positions.
package game

// Evaluate scores state at the bottom of a search that started at root.
// Scores are expected to be scaled by state.Probability() so that the values
// of sibling branches can be summed.
type Evaluate func(root, state State) float64
