package game

import (
	"fmt"
)

// Coord addresses a cell by 0-indexed row and column.
type Coord struct {
	Row, Col int
}

func (coord Coord) String() string {
	return fmt.Sprintf("(%d, %d)", coord.Row, coord.Col)
}

type Cell struct {
	row, col      int
	adjacentMines int

	isMine bool
	state  CellState

	// Rendering tags only; neither affects the rules.
	isDetonated bool
	isPeeked    bool
}

func (cell *Cell) String() string {
	return fmt.Sprintf("Cell(%v, %v)", cell.row, cell.col)
}

func (cell *Cell) Row() int {
	return cell.row
}

func (cell *Cell) Col() int {
	return cell.col
}

func (cell *Cell) Coord() Coord {
	return Coord{Row: cell.row, Col: cell.col}
}

func (cell *Cell) IsMine() bool {
	return cell.isMine
}

func (cell *Cell) IsOpened() bool {
	return cell.state == Opened
}

func (cell *Cell) State() CellState {
	return cell.state
}

// AdjacentMines is only meaningful once the board's adjacency has been computed.
func (cell *Cell) AdjacentMines() int {
	return cell.adjacentMines
}

func (cell *Cell) IsDetonated() bool {
	return cell.isDetonated
}

// Open moves a Hidden cell to Opened. Marked and already opened cells are left alone.
// cascade reports that the cell is an opened non-mine with no adjacent mines, so its
// neighbourhood should be flood-opened by the caller.
func (cell *Cell) Open() (changed, cascade bool) {
	if cell.state != Hidden {
		return false, false
	}
	cell.state = Opened
	return true, !cell.isMine && cell.adjacentMines == 0
}

// ToggleMark advances Hidden -> Flagged -> Question -> Hidden and returns how many
// mines the transition accounts for: +1 on flagging, -1 when a flag becomes a
// question mark, 0 otherwise.
func (cell *Cell) ToggleMark() int {
	cell.isPeeked = false

	switch cell.state {
	case Hidden:
		cell.state = Flagged
		return 1
	case Flagged:
		cell.state = Question
		return -1
	case Question:
		cell.state = Hidden
	}
	return 0
}

// ClearMark drives a marked cell back to Hidden through the mark cycle, returning the
// net accounted delta.
func (cell *Cell) ClearMark() int {
	delta := 0
	if cell.state == Flagged {
		delta += cell.ToggleMark()
	}
	if cell.state == Question {
		delta += cell.ToggleMark()
	}
	return delta
}

// Visual derives what should be drawn for the cell.
func (cell *Cell) Visual() VisualState {
	switch cell.state {
	case Flagged:
		return Flag
	case Question:
		return QuestionMark
	case Opened:
		switch {
		case cell.isDetonated:
			return MineDetonated
		case cell.isMine:
			return Mine
		default:
			return VisualState(cell.adjacentMines)
		}
	}
	if cell.isPeeked {
		return MinePeek
	}
	return Unrevealed
}

func (cell *Cell) serialize() string {
	if cell.isMine {
		switch cell.state {
		case Opened:
			if cell.isDetonated {
				return "X"
			}
			return "*"
		case Flagged:
			return "F"
		case Question:
			return "Q"
		default:
			return "O"
		}
	}

	switch cell.state {
	case Opened:
		return "."
	case Flagged:
		return "f"
	case Question:
		return "q"
	default:
		return "#"
	}
}

// deserialize sets the mine bit and returns the state the cell should be brought to.
// The state itself is replayed by the caller.
func (cell *Cell) deserialize(c rune) (CellState, bool) {
	switch c {
	case 'X', '*', 'F', 'Q', 'O':
		cell.isMine = true
		cell.isDetonated = c == 'X'

		switch c {
		case 'X', '*':
			return Opened, true
		case 'F':
			return Flagged, true
		case 'Q':
			return Question, true
		default:
			return Hidden, true
		}
	case '.':
		return Opened, true
	case 'f':
		return Flagged, true
	case 'q':
		return Question, true
	case '#':
		return Hidden, true
	}

	return Hidden, false
}
