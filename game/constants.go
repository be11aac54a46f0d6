package game

import "time"

// CellState is the logical state of a cell, independent of whether it holds a mine.
type CellState int

const (
	Hidden CellState = iota
	Opened
	Flagged
	Question
)

func (state CellState) String() string {
	switch state {
	case Hidden:
		return "hidden"
	case Opened:
		return "opened"
	case Flagged:
		return "flagged"
	case Question:
		return "question"
	default:
		return "unknown"
	}
}

// VisualState is what a front end should draw for a cell.
type VisualState int

const (
	Unrevealed VisualState = iota - 1
	Empty
	Number1
	Number2
	Number3
	Number4
	Number5
	Number6
	Number7
	Number8
	Flag
	QuestionMark
	Mine
	MineDetonated
	MinePeek
)

var VisualStates = []VisualState{
	Unrevealed,
	Empty,
	Number1,
	Number2,
	Number3,
	Number4,
	Number5,
	Number6,
	Number7,
	Number8,
	Flag,
	QuestionMark,
	Mine,
	MineDetonated,
	MinePeek,
}

type BoardState int

const (
	Lost BoardState = iota
	Won
	Ongoing
)

func (state BoardState) String() string {
	switch state {
	case Lost:
		return "loss"
	case Won:
		return "win"
	default:
		return "ongoing"
	}
}

// Button identifies which click action was requested, before any left-handed swap.
type Button int

const (
	Primary Button = iota
	Secondary
	Tertiary
)

const (
	DefaultHighlightDuration = 1000 * time.Millisecond

	DefaultWinMessage  = "You won!"
	DefaultLoseMessage = "You lost!"
)
