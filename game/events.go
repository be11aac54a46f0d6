package game

import "time"

// Event is an outcome a front end has to render.
type Event interface {
	isEvent()
}

type CellChanged struct {
	Coord
	Visual VisualState
}

// FlagBudgetChanged carries the change to the remaining-mines counter.
type FlagBudgetChanged struct {
	Delta int
}

type GameEnded struct {
	Won       bool
	Detonated *Coord
	Message   string
}

// HighlightTransient asks the front end to highlight cells for Duration and then call
// Engine.ExpireHighlight with the same cells.
type HighlightTransient struct {
	Cells    []Coord
	Duration time.Duration
}

// FatalError reports an internal consistency failure the caller should treat as a
// configuration problem.
type FatalError struct {
	Err error
}

func (CellChanged) isEvent()        {}
func (FlagBudgetChanged) isEvent()  {}
func (GameEnded) isEvent()          {}
func (HighlightTransient) isEvent() {}
func (FatalError) isEvent()         {}

type eventLog []Event

func (events *eventLog) cellChanged(cell *Cell) {
	*events = append(*events, CellChanged{Coord: cell.Coord(), Visual: cell.Visual()})
}

func (events *eventLog) budgetChanged(delta int) {
	if delta != 0 {
		*events = append(*events, FlagBudgetChanged{Delta: delta})
	}
}

func (events *eventLog) add(event Event) {
	*events = append(*events, event)
}
