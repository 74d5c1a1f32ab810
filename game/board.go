package game

import (
	"fmt"
	"math"
	"strings"
)

// Size is the side length of the square board
const Size = 4

// MaxCellValue is the largest tile a board accepts, so any merge still fits in an int
const MaxCellValue = math.MaxInt / 2

// Board is an immutable grid of tile values, 0 marks an empty cell.
// Boards are plain values: copying a Board copies the grid, and == compares contents.
type Board struct {
	cells [Size][Size]int
}

// NewBoard builds a board from a Size x Size slice grid, copying its contents
func NewBoard(rows [][]int) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("board must have %d rows, got %d", Size, len(rows))
	}
	for r, row := range rows {
		if len(row) != Size {
			return b, fmt.Errorf("board row %d must have %d cells, got %d", r, Size, len(row))
		}
		for c, v := range row {
			if v < 0 {
				return b, fmt.Errorf("board cell (%d,%d) is negative: %d", r, c, v)
			}
			if v > MaxCellValue {
				return b, fmt.Errorf("board cell (%d,%d) exceeds %d: %d", r, c, MaxCellValue, v)
			}
			b.cells[r][c] = v
		}
	}
	return b, nil
}

func BoardFromCells(cells [Size][Size]int) Board {
	return Board{cells: cells}
}

func (b Board) Get(row, col int) int {
	return b.cells[row][col]
}

// Set returns a copy of the board with one cell replaced
func (b Board) Set(row, col, value int) Board {
	b.cells[row][col] = value
	return b
}

// Row returns a copy of the given row
func (b Board) Row(row int) []int {
	out := make([]int, Size)
	copy(out, b.cells[row][:])
	return out
}

// Rows returns a deep copy of the grid
func (b Board) Rows() [][]int {
	rows := make([][]int, Size)
	for r := range Size {
		rows[r] = b.Row(r)
	}
	return rows
}

func (b Board) Transpose() Board {
	var t Board
	for r := range Size {
		for c := range Size {
			t.cells[c][r] = b.cells[r][c]
		}
	}
	return t
}

// MaxCell returns the largest tile value on the board, at least 1
func (b Board) MaxCell() int {
	maxCell := 1
	for _, row := range b.cells {
		for _, cell := range row {
			maxCell = max(maxCell, cell)
		}
	}
	return maxCell
}

// EmptyCells returns the (row, col) positions of all empty cells in row-major order
func (b Board) EmptyCells() [][2]int {
	cells := make([][2]int, 0, Size*Size)
	for r := range Size {
		for c := range Size {
			if b.cells[r][c] == 0 {
				cells = append(cells, [2]int{r, c})
			}
		}
	}
	return cells
}

func (b Board) String() string {
	var s strings.Builder
	s.WriteString("\n")
	for _, row := range b.cells {
		s.WriteString("|")
		for _, n := range row {
			fmt.Fprintf(&s, "%6d", n)
		}
		s.WriteString("|\n")
	}
	return s.String()
}
