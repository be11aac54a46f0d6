// Package render draws engine state as plain text. The engine knows nothing about it.
package render

import (
	"fmt"
	"strings"

	"github.com/they4kman/sweepengine/game"
)

var glyphs = map[game.VisualState]rune{
	game.Unrevealed:    '#',
	game.Empty:         '.',
	game.Flag:          'F',
	game.QuestionMark:  '?',
	game.Mine:          '*',
	game.MineDetonated: 'X',
	game.MinePeek:      'M',
}

// Glyph returns the character drawn for a visual state.
func Glyph(visual game.VisualState) rune {
	if visual >= game.Number1 && visual <= game.Number8 {
		return rune('0' + int(visual))
	}
	if glyph, ok := glyphs[visual]; ok {
		return glyph
	}
	return ' '
}

// Text draws the board with column and row indexes, followed by a status line.
func Text(engine *game.Engine) string {
	board := engine.Board()
	width := len(fmt.Sprint(max(board.Width(), board.Height()) - 1))

	var out strings.Builder

	fmt.Fprintf(&out, "%*s ", width, "")
	for col := 0; col < board.Width(); col++ {
		fmt.Fprintf(&out, " %*d", width, col)
	}
	out.WriteString("\n")

	for row := 0; row < board.Height(); row++ {
		fmt.Fprintf(&out, "%*d ", width, row)
		for col := 0; col < board.Width(); col++ {
			fmt.Fprintf(&out, " %*c", width, Glyph(engine.VisualAt(row, col)))
		}
		out.WriteString("\n")
	}

	fmt.Fprintf(&out, "Mines left: %d", engine.FlagBudget())
	if engine.State() != game.Ongoing {
		fmt.Fprintf(&out, "   %s", strings.ToUpper(engine.State().String()))
	}
	out.WriteString("\n")

	return out.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
