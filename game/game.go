package game

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

type GameConfig struct {
	Width    int   `yaml:"width"`
	Height   int   `yaml:"height"`
	NumMines int   `yaml:"mines"`
	Seed     int64 `yaml:"seed"`

	// Swap primary and secondary clicks
	LeftHanded bool `yaml:"left_handed"`

	// How long a failed chord highlights its hidden neighbours
	HighlightDuration time.Duration `yaml:"highlight_duration"`

	WinMessage  string `yaml:"win_message"`
	LoseMessage string `yaml:"lose_message"`

	Logger logrus.FieldLogger `yaml:"-"`
}

func NewGameConfig() GameConfig {
	return GameConfig{
		Width:             30,
		Height:            16,
		NumMines:          99,
		HighlightDuration: DefaultHighlightDuration,
		WinMessage:        DefaultWinMessage,
		LoseMessage:       DefaultLoseMessage,
	}
}

func (config GameConfig) logger() logrus.FieldLogger {
	if config.Logger == nil {
		return logrus.StandardLogger()
	}
	return config.Logger
}

// Session holds the per-game toggles that change how clicks are interpreted.
type Session struct {
	FirstMoveNotTaken bool
	LeftHanded        bool
	DebugRevealMines  bool
}

// Engine owns a Board for the length of one game and is the single entry point for
// front ends. It is not safe for concurrent use.
type Engine struct {
	config  GameConfig
	board   *Board
	session Session
	state   BoardState

	detonated *Cell

	log logrus.FieldLogger
}

// NewEngine validates the configured dimensions and builds an empty board. Call
// PlaceMines before accepting clicks.
func NewEngine(config GameConfig) (*Engine, error) {
	board, err := NewBoard(config.Width, config.Height, config.NumMines)
	if err != nil {
		return nil, err
	}

	if config.HighlightDuration <= 0 {
		config.HighlightDuration = DefaultHighlightDuration
	}

	return &Engine{
		config:  config,
		board:   board,
		session: Session{LeftHanded: config.LeftHanded},
		state:   Ongoing,
		log:     config.logger(),
	}, nil
}

func (engine *Engine) Board() *Board {
	return engine.board
}

func (engine *Engine) State() BoardState {
	return engine.state
}

func (engine *Engine) Session() Session {
	return engine.session
}

func (engine *Engine) Config() GameConfig {
	return engine.config
}

func (engine *Engine) FlagBudget() int {
	return engine.board.flagBudget
}

func (engine *Engine) canPlay() bool {
	return engine.state == Ongoing
}

// VisualAt returns Unrevealed for coordinates outside the board.
func (engine *Engine) VisualAt(row, col int) VisualState {
	if cell := engine.board.CellAt(row, col); cell != nil {
		return cell.Visual()
	}
	return Unrevealed
}

func (engine *Engine) SetLeftHanded(leftHanded bool) {
	engine.session.LeftHanded = leftHanded
}

// PlaceMines seeds the board and arms first-move protection.
func (engine *Engine) PlaceMines(seed int64) {
	engine.config.Seed = seed
	engine.board.PlaceMines(rand.New(rand.NewSource(seed)))
	engine.board.ComputeAdjacency()
	engine.session.FirstMoveNotTaken = true

	engine.log.WithFields(logrus.Fields{
		"width":  engine.board.width,
		"height": engine.board.height,
		"mines":  engine.board.numMines,
		"seed":   seed,
	}).Debug("placed mines")
}

// Restart replaces the board with a fresh one of the same dimensions. The current
// game is kept if the board cannot be rebuilt.
func (engine *Engine) Restart(seed int64) error {
	board, err := NewBoard(engine.board.width, engine.board.height, engine.board.numMines)
	if err != nil {
		return err
	}
	engine.board = board
	engine.state = Ongoing
	engine.detonated = nil
	engine.PlaceMines(seed)
	return nil
}

func (engine *Engine) swapButton(button Button) Button {
	if !engine.session.LeftHanded {
		return button
	}
	switch button {
	case Primary:
		return Secondary
	case Secondary:
		return Primary
	}
	return button
}

// PhysicalButton returns the button a front end must report to request action under
// the current handedness.
func (engine *Engine) PhysicalButton(action Button) Button {
	return engine.swapButton(action)
}

// HandleClick applies a click and returns the resulting events. Clicks outside the
// board or after the game has ended are ignored.
func (engine *Engine) HandleClick(row, col int, button Button) []Event {
	cell := engine.board.CellAt(row, col)
	if cell == nil || !engine.canPlay() {
		return nil
	}

	var events eventLog
	switch engine.swapButton(button) {
	case Primary:
		engine.open(cell, &events)
	case Secondary:
		engine.mark(cell, &events)
	case Tertiary:
		engine.chord(cell, &events)
	}
	return events
}

// ToggleMark applies the mark action directly, without the left-handed swap.
func (engine *Engine) ToggleMark(row, col int) []Event {
	cell := engine.board.CellAt(row, col)
	if cell == nil || !engine.canPlay() {
		return nil
	}

	var events eventLog
	engine.mark(cell, &events)
	return events
}

func (engine *Engine) open(cell *Cell, events *eventLog) {
	if !engine.canPlay() {
		return
	}

	if engine.session.FirstMoveNotTaken {
		engine.session.FirstMoveNotTaken = false

		if cell.isMine {
			if err := engine.board.RelocateMine(cell); err != nil {
				engine.log.WithFields(logrus.Fields{
					"cell":  cell.Coord(),
					"mines": engine.board.numMines,
				}).Error(err)
				events.add(FatalError{Err: err})
				return
			}
			engine.log.WithField("cell", cell.Coord()).Debug("relocated first-click mine")
		}
	}

	if cell.state != Hidden {
		return
	}

	if cell.isMine {
		engine.lose(cell, events)
		return
	}

	_, cascade := cell.Open()
	events.cellChanged(cell)
	if cascade {
		engine.openAdjacentCells(cell, events)
	}
	engine.checkWinCondition(events)
}

func (engine *Engine) mark(cell *Cell, events *eventLog) {
	if cell.state == Opened {
		return
	}

	change := 0
	// Preserved quirk: with no flags left to place, a hidden cell skips straight to
	// the question mark.
	if engine.board.flagBudget == 0 && cell.state == Hidden {
		change += engine.board.toggleMark(cell)
	}
	change += engine.board.toggleMark(cell)

	events.cellChanged(cell)
	events.budgetChanged(change)
}

func (engine *Engine) chord(cell *Cell, events *eventLog) {
	if cell.state != Opened || cell.adjacentMines == 0 {
		return
	}

	var unopened []*Cell
	numFlagged := 0
	for _, neighbor := range engine.board.Neighbors(cell) {
		if neighbor.IsOpened() {
			continue
		}
		unopened = append(unopened, neighbor)
		if neighbor.state == Flagged {
			numFlagged++
		}
	}

	if numFlagged == cell.adjacentMines {
		for _, neighbor := range unopened {
			if neighbor.state != Flagged {
				engine.open(neighbor, events)
			}
		}
		return
	}

	if numFlagged < cell.adjacentMines {
		var hidden []Coord
		for _, neighbor := range unopened {
			if neighbor.state == Hidden {
				hidden = append(hidden, neighbor.Coord())
			}
		}
		if len(hidden) > 0 {
			events.add(HighlightTransient{Cells: hidden, Duration: engine.config.HighlightDuration})
		}
	}
}

// ExpireHighlight is called by a front end once a HighlightTransient has elapsed. It
// returns the cells whose highlight should be cleared: those still hidden.
func (engine *Engine) ExpireHighlight(cells []Coord) []Coord {
	var expired []Coord
	for _, coord := range cells {
		cell := engine.board.CellAt(coord.Row, coord.Col)
		if cell != nil && cell.state == Hidden {
			expired = append(expired, coord)
		}
	}
	return expired
}

// openAdjacentCells flood-opens outward from an opened empty cell, stopping at
// numbered cells and never re-entering opened or marked ones.
func (engine *Engine) openAdjacentCells(start *Cell, events *eventLog) {
	numVisited := flood(
		start,
		func(cell *Cell) bool {
			if cell != start {
				if cell.state != Hidden {
					return false
				}
				cell.Open()
				events.cellChanged(cell)
			}
			return !cell.isMine && cell.adjacentMines == 0
		},
		engine.board.Neighbors,
	)

	engine.log.WithFields(logrus.Fields{
		"cell":    start.Coord(),
		"visited": numVisited,
	}).Debug("flood opened")
}

// revealAllCells clears every mark and opens every cell. detonated, if set, is tagged
// as the mine that ended the game.
func (engine *Engine) revealAllCells(detonated *Cell, events *eventLog) {
	change := 0
	for _, cell := range engine.board.Cells() {
		before := cell.Visual()

		change += engine.board.clearMark(cell)
		cell.Open()
		cell.isPeeked = false
		if cell == detonated {
			cell.isDetonated = true
		}

		if cell.Visual() != before {
			events.cellChanged(cell)
		}
	}
	events.budgetChanged(change)
}

func (engine *Engine) lose(cell *Cell, events *eventLog) {
	engine.state = Lost
	engine.detonated = cell
	engine.revealAllCells(cell, events)

	coord := cell.Coord()
	events.add(GameEnded{Won: false, Detonated: &coord, Message: engine.config.LoseMessage})

	engine.log.WithField("cell", coord).Debug("game lost")
}

func (engine *Engine) checkWinCondition(events *eventLog) {
	numOpened, numSafe := 0, 0
	for _, cell := range engine.board.Cells() {
		if cell.isMine {
			continue
		}
		numSafe++
		if cell.IsOpened() {
			numOpened++
		}
	}

	if numOpened != numSafe {
		return
	}

	engine.state = Won
	engine.revealAllCells(nil, events)
	events.add(GameEnded{Won: true, Message: engine.config.WinMessage})

	engine.log.WithField("cells", numSafe).Debug("game won")
}

// PeekDebug toggles the debug label on hidden mines. It has no effect until the first
// move has been taken, since mine positions are not final before that.
func (engine *Engine) PeekDebug(on bool) []Event {
	engine.session.DebugRevealMines = on
	return engine.revealSilently()
}

func (engine *Engine) revealSilently() []Event {
	if engine.session.FirstMoveNotTaken {
		return nil
	}

	var events eventLog
	for _, cell := range engine.board.Cells() {
		if cell.isMine && cell.state == Hidden {
			cell.isPeeked = engine.session.DebugRevealMines
			events.cellChanged(cell)
		}
	}
	return events
}
