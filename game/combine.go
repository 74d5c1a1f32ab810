package game

// CombineLeft pushes a row toward index 0 and returns the new row.
// Only the leading edge moves: the first pair that can merge (or the first
// empty cell) collapses, every cell behind it shifts one step and a zero is
// appended. A leading cell that cannot move stays put and the rest of the row
// is combined on its own.
func CombineLeft(row []int) []int {
	if len(row) <= 1 {
		return row
	}
	newRow := make([]int, len(row))
	switch {
	case row[0] != 0 && row[0] == row[1] && row[0] > 2,
		row[0] != 0 && oneAndTwo(row[0], row[1]):
		newRow[0] = mergedValue(row[0], row[1])
		shiftLeft(row, newRow, 2)
	case row[0] == 0:
		shiftLeft(row, newRow, 1)
	default:
		newRow[0] = row[0]
		copy(newRow[1:], CombineLeft(row[1:]))
	}
	return newRow
}

// CombineRight pushes a row toward its last index
func CombineRight(row []int) []int {
	return reverse(CombineLeft(reverse(row)))
}

// shiftLeft copies row[start:] into newRow starting one cell left of start
// and zeroes the trailing cell
func shiftLeft(row, newRow []int, start int) {
	copy(newRow[start-1:], row[start:])
	newRow[len(row)-1] = 0
}

func reverse(row []int) []int {
	out := make([]int, len(row))
	for i, v := range row {
		out[len(row)-1-i] = v
	}
	return out
}
