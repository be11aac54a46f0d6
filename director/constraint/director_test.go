package constraint

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/they4kman/sweepengine/game"
	"github.com/they4kman/sweepengine/util/collections"
)

// restore builds an engine from a mid-game board, where (0, 0) is the only mine:
//
//	O . #
//	. . #
func restore(t *testing.T) *game.Engine {
	t.Helper()

	logger, _ := test.NewNullLogger()
	config := game.NewGameConfig()
	config.Logger = logger

	engine, err := game.RestoreEngine(&game.BoardSnapshot{
		Width:           3,
		Height:          2,
		Mines:           1,
		FlagBudget:      1,
		SerializedBoard: "O.#\n..#",
		Adjacency:       "010\n110",
	}, config)
	if err != nil {
		t.Fatalf("RestoreEngine() failed: %v", err)
	}
	return engine
}

func coordSet(coords ...game.Coord) collections.Set[game.Coord] {
	set := make(collections.Set[game.Coord])
	for _, coord := range coords {
		set.Add(coord)
	}
	return set
}

func TestActFlagsCertainMine(t *testing.T) {
	engine := restore(t)
	director := New(1)
	director.Init(engine)

	if _, ok := director.Act(); !ok {
		t.Fatal("Act() found nothing to do")
	}

	if engine.VisualAt(0, 0) != game.Flag {
		t.Errorf("(0, 0) = %v, want a flag", engine.VisualAt(0, 0))
	}

	// (1, 0) sees only (0, 0); splitting it from (0, 1) clears the right column.
	var split *Observation
	for _, observation := range director.Observations() {
		if observation.origin == nil {
			split = observation
		}
	}
	if split == nil {
		t.Fatalf("no derived observation in %v", director.Observations())
	}
	if split.numMines != 0 || len(split.cells) != 2 || !split.cells.Contains(game.Coord{Row: 0, Col: 2}) || !split.cells.Contains(game.Coord{Row: 1, Col: 2}) {
		t.Errorf("derived %v", split)
	}
}

func TestAutoplaySolvesByDeduction(t *testing.T) {
	engine := restore(t)

	steps := game.Autoplay(engine, New(1))

	if engine.State() != game.Won {
		t.Fatalf("State() = %v, want Won", engine.State())
	}
	// One flag, then one chord on (0, 1).
	if steps != 2 {
		t.Errorf("steps = %d, want 2", steps)
	}
}

func TestAutoplayFinishesSeededGames(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		logger, _ := test.NewNullLogger()
		config := game.NewGameConfig()
		config.Width, config.Height, config.NumMines = 9, 9, 10
		config.Seed = seed
		config.Logger = logger

		engine, err := game.NewEngine(config)
		if err != nil {
			t.Fatalf("NewEngine() failed: %v", err)
		}
		engine.PlaceMines(seed)

		steps := game.Autoplay(engine, New(seed))
		if engine.State() == game.Ongoing {
			t.Errorf("seed %d: game still ongoing after %d steps", seed, steps)
		}
	}
}

func TestActClearsQuestionMarks(t *testing.T) {
	engine := restore(t)
	engine.ToggleMark(1, 2)
	engine.ToggleMark(1, 2)
	if engine.VisualAt(1, 2) != game.QuestionMark {
		t.Fatalf("setup: (1, 2) = %v", engine.VisualAt(1, 2))
	}

	director := New(1)
	director.Init(engine)
	director.Act()

	if engine.VisualAt(1, 2) != game.Unrevealed {
		t.Errorf("(1, 2) = %v, want the question mark cleared", engine.VisualAt(1, 2))
	}
}

func TestSimplifyObservations(t *testing.T) {
	a, b, c := game.Coord{Row: 0, Col: 0}, game.Coord{Row: 0, Col: 1}, game.Coord{Row: 0, Col: 2}

	director := &Director{}
	director.addObservation(&Observation{numMines: 2, cells: coordSet(a, b, c)})
	director.addObservation(&Observation{numMines: 1, cells: coordSet(a)})

	if !director.simplifyObservations() {
		t.Fatal("expected a new observation")
	}
	if len(director.observations) != 3 {
		t.Fatalf("observations = %v", director.observations)
	}
	split := director.observations[2]
	if split.numMines != 1 || len(split.cells) != 2 || split.cells.Contains(a) {
		t.Errorf("split = %v, want 1 mine among %v and %v", split, b, c)
	}

	if director.simplifyObservations() {
		t.Errorf("second pass learned something new: %v", director.observations)
	}
}

func TestAddObservationSkipsVacuousAndDuplicates(t *testing.T) {
	director := &Director{}
	coord := game.Coord{Row: 1, Col: 1}

	if director.addObservation(&Observation{cells: coordSet()}) {
		t.Error("vacuous observation added")
	}
	if !director.addObservation(&Observation{numMines: 1, cells: coordSet(coord)}) {
		t.Error("first observation rejected")
	}
	if director.addObservation(&Observation{numMines: 1, cells: coordSet(coord)}) {
		t.Error("duplicate observation added")
	}
}

func TestMineProbability(t *testing.T) {
	observation := Observation{
		numMines: 1,
		cells:    coordSet(game.Coord{Row: 0, Col: 0}, game.Coord{Row: 0, Col: 1}, game.Coord{Row: 1, Col: 0}, game.Coord{Row: 1, Col: 1}),
	}
	if got := observation.MineProbability(); got != 0.25 {
		t.Errorf("MineProbability() = %v, want 0.25", got)
	}
}
