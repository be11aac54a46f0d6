package random

import (
	"math/rand"

	"github.com/they4kman/sweepengine/game"
)

// Director opens unrevealed cells in a shuffled order.
type Director struct {
	engine *game.Engine
	order  []game.Coord
	rand   *rand.Rand
}

func New(seed int64) *Director {
	return &Director{rand: rand.New(rand.NewSource(seed))}
}

func (director *Director) Init(engine *game.Engine) {
	director.engine = engine
	if director.rand == nil {
		director.rand = rand.New(rand.NewSource(engine.Config().Seed))
	}

	board := engine.Board()
	director.order = make([]game.Coord, 0, board.NumCells())
	for _, cell := range board.Cells() {
		director.order = append(director.order, cell.Coord())
	}

	director.rand.Shuffle(len(director.order), func(i, j int) {
		director.order[i], director.order[j] = director.order[j], director.order[i]
	})
}

func (director *Director) Act() ([]game.Event, bool) {
	coord, ok := director.Pick()
	if !ok {
		return nil, false
	}
	return director.engine.HandleClick(coord.Row, coord.Col, director.engine.PhysicalButton(game.Primary)), true
}

// Pick returns the next cell in shuffled order that can still be opened.
func (director *Director) Pick() (game.Coord, bool) {
	for len(director.order) > 0 {
		coord := director.order[0]
		director.order = director.order[1:]

		if IsUnknown(director.engine.VisualAt(coord.Row, coord.Col)) {
			return coord, true
		}
	}
	return game.Coord{}, false
}

// IsUnknown reports whether a cell showing visual can still be opened by a click.
func IsUnknown(visual game.VisualState) bool {
	return visual == game.Unrevealed || visual == game.MinePeek
}
