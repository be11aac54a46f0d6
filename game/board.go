package game

import (
	"math/rand"

	"github.com/they4kman/sweepengine/util/collections"
)

// neighborOffsets lists the Moore neighbourhood, row delta first.
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

type Board struct {
	width, height int // in number of cells
	numMines      int
	cells         [][]Cell

	// Mines not yet accounted for by flags. Goes negative when over-flagged.
	flagBudget int
}

// NewBoard builds an empty width x height board. Mines are placed separately.
func NewBoard(width, height, numMines int) (*Board, error) {
	if err := validateConfig(width, height, numMines); err != nil {
		return nil, err
	}

	board := Board{
		width:      width,
		height:     height,
		numMines:   numMines,
		flagBudget: numMines,
		cells:      make([][]Cell, height),
	}

	for row := 0; row < height; row++ {
		board.cells[row] = make([]Cell, width)
		for col := 0; col < width; col++ {
			cell := &board.cells[row][col]
			cell.row, cell.col = row, col
			cell.state = Hidden
		}
	}

	return &board, nil
}

func (board *Board) Width() int {
	return board.width
}

func (board *Board) Height() int {
	return board.height
}

func (board *Board) NumMines() int {
	return board.numMines
}

func (board *Board) NumCells() int {
	return board.width * board.height
}

func (board *Board) FlagBudget() int {
	return board.flagBudget
}

// CellAt returns nil for coordinates outside the board.
func (board *Board) CellAt(row, col int) *Cell {
	if row >= 0 && col >= 0 && row < board.height && col < board.width {
		return &board.cells[row][col]
	}
	return nil
}

// Cells returns every cell in row-major order.
func (board *Board) Cells() []*Cell {
	out := make([]*Cell, 0, board.NumCells())
	for row := range board.cells {
		for col := range board.cells[row] {
			out = append(out, &board.cells[row][col])
		}
	}
	return out
}

// Neighbors returns the bounds-clipped Moore neighbourhood of cell.
func (board *Board) Neighbors(cell *Cell) []*Cell {
	neighbors := make([]*Cell, 0, len(neighborOffsets))
	for _, offset := range neighborOffsets {
		if neighbor := board.CellAt(cell.row+offset[0], cell.col+offset[1]); neighbor != nil {
			neighbors = append(neighbors, neighbor)
		}
	}
	return neighbors
}

// PlaceMines marks numMines distinct cells as mines, drawing coordinates until enough
// unique ones have been found. Any previous mines are cleared first.
func (board *Board) PlaceMines(rng *rand.Rand) {
	for _, cell := range board.Cells() {
		cell.isMine = false
	}

	positions := make(collections.Set[Coord], board.numMines)
	for len(positions) < board.numMines {
		positions.Add(Coord{Row: rng.Intn(board.height), Col: rng.Intn(board.width)})
	}

	for pos := range positions {
		board.CellAt(pos.Row, pos.Col).isMine = true
	}
}

// RelocateMine moves the mine under clicked to the first non-mine cell in row-major
// order. The board is left untouched when no such cell exists.
func (board *Board) RelocateMine(clicked *Cell) error {
	for _, cell := range board.Cells() {
		if cell != clicked && !cell.isMine {
			clicked.isMine = false
			cell.isMine = true
			board.ComputeAdjacency()
			return nil
		}
	}
	return ErrImpossibleRelocation
}

// ComputeAdjacency stores the neighbouring mine count in every non-mine cell.
func (board *Board) ComputeAdjacency() {
	for _, cell := range board.Cells() {
		if cell.isMine {
			cell.adjacentMines = 0
			continue
		}

		count := 0
		for _, neighbor := range board.Neighbors(cell) {
			if neighbor.isMine {
				count++
			}
		}
		cell.adjacentMines = count
	}
}

// CountMines counts the cells currently holding a mine.
func (board *Board) CountMines() int {
	count := 0
	for _, cell := range board.Cells() {
		if cell.isMine {
			count++
		}
	}
	return count
}

// toggleMark cycles a cell's mark and applies the accounted delta to the flag budget,
// returning the budget change.
func (board *Board) toggleMark(cell *Cell) int {
	change := -cell.ToggleMark()
	board.flagBudget += change
	return change
}

func (board *Board) clearMark(cell *Cell) int {
	change := -cell.ClearMark()
	board.flagBudget += change
	return change
}
