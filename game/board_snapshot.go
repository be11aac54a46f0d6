package game

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// BoardSnapshot is the persisted form of an engine. Rows of SerializedBoard hold one
// code per cell:
//
//	#  hidden       f  flagged       q  question       .  opened
//	O  hidden mine  F  flagged mine  Q  question mine  *  opened mine  X  detonated mine
//
// Adjacency holds the matching rows of adjacent-mine digits.
type BoardSnapshot struct {
	Width      int   `yaml:"width"`
	Height     int   `yaml:"height"`
	Mines      int   `yaml:"mines"`
	FlagBudget int   `yaml:"flag_budget"`
	Seed       int64 `yaml:"seed"`

	LeftHanded        bool `yaml:"left_handed"`
	FirstMoveNotTaken bool `yaml:"first_move_not_taken"`

	SerializedBoard string `yaml:"board"`
	Adjacency       string `yaml:"adjacency"`
}

func (snapshot *BoardSnapshot) Serialize() string {
	out, err := yaml.Marshal(snapshot)
	if err != nil {
		panic(err)
	}

	return string(out)
}

func LoadSnapshot(in string) (*BoardSnapshot, error) {
	var snapshot BoardSnapshot
	if err := yaml.Unmarshal([]byte(in), &snapshot); err != nil {
		return nil, errors.Wrap(err, "parse snapshot")
	}
	return &snapshot, nil
}

// Fresh returns a copy of the snapshot with the same mine layout and every cell
// hidden again, for replaying a recorded board from the start. First-move protection
// is armed as in a new game.
func (snapshot *BoardSnapshot) Fresh() *BoardSnapshot {
	fresh := *snapshot
	fresh.FlagBudget = snapshot.Mines
	fresh.FirstMoveNotTaken = true
	fresh.SerializedBoard = strings.Map(func(c rune) rune {
		switch c {
		case 'X', '*', 'F', 'Q', 'O':
			return 'O'
		case '\n':
			return c
		default:
			return '#'
		}
	}, snapshot.SerializedBoard)
	return &fresh
}

// Snapshot captures the full engine state.
func (engine *Engine) Snapshot() *BoardSnapshot {
	board := engine.board

	cellRows := make([]string, board.height)
	adjacencyRows := make([]string, board.height)
	for row := 0; row < board.height; row++ {
		var cells, adjacency strings.Builder
		for col := 0; col < board.width; col++ {
			cell := board.CellAt(row, col)
			cells.WriteString(cell.serialize())
			fmt.Fprintf(&adjacency, "%d", cell.adjacentMines)
		}
		cellRows[row] = cells.String()
		adjacencyRows[row] = adjacency.String()
	}

	return &BoardSnapshot{
		Width:             board.width,
		Height:            board.height,
		Mines:             board.numMines,
		FlagBudget:        board.flagBudget,
		Seed:              engine.config.Seed,
		LeftHanded:        engine.session.LeftHanded,
		FirstMoveNotTaken: engine.session.FirstMoveNotTaken,
		SerializedBoard:   strings.Join(cellRows, "\n"),
		Adjacency:         strings.Join(adjacencyRows, "\n"),
	}
}

// RestoreEngine rebuilds an engine from a snapshot. Cell states are replayed through
// Open and the mark cycle rather than assigned, so the flag budget is derived from
// the restored marks.
func RestoreEngine(snapshot *BoardSnapshot, config GameConfig) (*Engine, error) {
	config.Width = snapshot.Width
	config.Height = snapshot.Height
	config.NumMines = snapshot.Mines
	config.Seed = snapshot.Seed
	config.LeftHanded = snapshot.LeftHanded

	engine, err := NewEngine(config)
	if err != nil {
		return nil, err
	}
	board := engine.board

	cellRows := strings.Split(snapshot.SerializedBoard, "\n")
	adjacencyRows := strings.Split(snapshot.Adjacency, "\n")
	if len(cellRows) != board.height || len(adjacencyRows) != board.height {
		return nil, errors.Wrapf(ErrInvalidSnapshot, "expected %d rows", board.height)
	}

	states := make([]CellState, 0, board.NumCells())
	for row := 0; row < board.height; row++ {
		cellRow, adjacencyRow := []rune(cellRows[row]), []rune(adjacencyRows[row])
		if len(cellRow) != board.width || len(adjacencyRow) != board.width {
			return nil, errors.Wrapf(ErrInvalidSnapshot, "row %d: expected %d cells", row, board.width)
		}

		for col := 0; col < board.width; col++ {
			cell := board.CellAt(row, col)

			state, ok := cell.deserialize(cellRow[col])
			if !ok {
				return nil, errors.Wrapf(ErrInvalidSnapshot, "restore cell %v: unknown code %q", cell.Coord(), cellRow[col])
			}

			digit := adjacencyRow[col]
			if digit < '0' || digit > '8' {
				return nil, errors.Wrapf(ErrInvalidSnapshot, "restore cell %v: bad adjacency %q", cell.Coord(), digit)
			}
			cell.adjacentMines = int(digit - '0')

			states = append(states, state)
		}
	}

	if numMines := board.CountMines(); numMines != board.numMines {
		return nil, errors.Wrapf(ErrInvalidSnapshot, "board holds %d mines, expected %d", numMines, board.numMines)
	}

	stored := make([]int, 0, board.NumCells())
	for _, cell := range board.Cells() {
		stored = append(stored, cell.adjacentMines)
	}
	board.ComputeAdjacency()
	for i, cell := range board.Cells() {
		if !cell.isMine && stored[i] != cell.adjacentMines {
			return nil, errors.Wrapf(ErrInvalidSnapshot, "restore cell %v: adjacency %d, expected %d", cell.Coord(), stored[i], cell.adjacentMines)
		}
	}

	for i, cell := range board.Cells() {
		switch states[i] {
		case Opened:
			cell.Open()
		case Flagged:
			board.toggleMark(cell)
		case Question:
			board.toggleMark(cell)
			board.toggleMark(cell)
		}

		if cell.isDetonated {
			engine.detonated = cell
		}
	}

	if board.flagBudget != snapshot.FlagBudget {
		engine.log.WithFields(logrus.Fields{
			"stored":   snapshot.FlagBudget,
			"replayed": board.flagBudget,
		}).Warn("snapshot flag budget disagrees with its marks; using replayed value")
	}

	engine.session.FirstMoveNotTaken = snapshot.FirstMoveNotTaken
	engine.state = restoredState(engine)

	return engine, nil
}

func restoredState(engine *Engine) BoardState {
	if engine.detonated != nil {
		return Lost
	}
	for _, cell := range engine.board.Cells() {
		if !cell.isMine && !cell.IsOpened() {
			return Ongoing
		}
	}
	return Won
}
