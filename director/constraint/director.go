package constraint

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/they4kman/sweepengine/director/random"
	"github.com/they4kman/sweepengine/game"
	"github.com/they4kman/sweepengine/util/collections"
)

// simplifyPasses bounds how many rounds of subset splitting run per step.
const simplifyPasses = 4

// Director reasons from the numbers on opened cells: every opened number yields an
// observation "numMines of these unknown cells are mines", and overlapping
// observations are split into smaller ones until something is certain.
type Director struct {
	engine *game.Engine
	random *random.Director

	observations []*Observation
}

type Observation struct {
	origin   *game.Coord
	numMines int
	cells    collections.Set[game.Coord]
}

func (observation Observation) String() string {
	coords := make([]string, 0, len(observation.cells))
	for cell := range observation.cells {
		coords = append(coords, cell.String())
	}
	sort.Strings(coords)

	originRepr := "?"
	if observation.origin != nil {
		originRepr = observation.origin.String()
	}

	return fmt.Sprintf("Obs[%8s, %d ε %s]", originRepr, observation.numMines, strings.Join(coords, ", "))
}

func (observation Observation) MineProbability() float64 {
	return float64(observation.numMines) / float64(len(observation.cells))
}

func New(seed int64) *Director {
	return &Director{random: random.New(seed)}
}

func (director *Director) Init(engine *game.Engine) {
	director.engine = engine
	if director.random == nil {
		director.random = random.New(engine.Config().Seed)
	}
	director.random.Init(engine)
}

func (director *Director) Act() ([]game.Event, bool) {
	if events, ok := director.clearQuestionMark(); ok {
		return events, true
	}

	director.observe()
	for i := 0; i < simplifyPasses; i++ {
		if !director.simplifyObservations() {
			break
		}
	}

	actors := []func() ([]game.Event, bool){
		director.actDeliberate,
		director.actLowestProbability,
		director.random.Act,
	}
	for _, actor := range actors {
		if events, ok := actor(); ok {
			return events, true
		}
	}
	return nil, false
}

// Observations returns the observations derived on the last step.
func (director *Director) Observations() []*Observation {
	return director.observations
}

func (director *Director) clearQuestionMark() ([]game.Event, bool) {
	board := director.engine.Board()
	for _, cell := range board.Cells() {
		if cell.State() == game.Question {
			return director.engine.ToggleMark(cell.Row(), cell.Col()), true
		}
	}
	return nil, false
}

func (director *Director) observe() {
	director.observations = nil

	board := director.engine.Board()
	for _, cell := range board.Cells() {
		visual := cell.Visual()
		if visual < game.Number1 || visual > game.Number8 {
			continue
		}

		origin := cell.Coord()
		observation := Observation{
			origin:   &origin,
			numMines: int(visual),
			cells:    make(collections.Set[game.Coord]),
		}

		for _, neighbor := range board.Neighbors(cell) {
			switch neighbor.Visual() {
			case game.Flag:
				observation.numMines--
			case game.Unrevealed, game.MinePeek:
				observation.cells.Add(neighbor.Coord())
			}
		}

		director.addObservation(&observation)
	}
}

// simplifyObservations splits every observation contained in another into the
// remainder, reporting whether anything new was learned.
func (director *Director) simplifyObservations() bool {
	added := false

	current := director.observations
	for _, observation := range current {
		for _, other := range current {
			if other == observation {
				continue
			}

			if _, isSubset := observation.cells.IntersectionEx(other.cells); !isSubset {
				continue
			}

			split := Observation{
				numMines: other.numMines - observation.numMines,
				cells:    other.cells.Difference(observation.cells),
			}
			if director.addObservation(&split) {
				added = true
			}
		}
	}

	return added
}

func (director *Director) addObservation(observation *Observation) bool {
	// Don't add vacuous observations
	if len(observation.cells) == 0 {
		return false
	}

	for _, other := range director.observations {
		// Don't add duplicates
		if reflect.DeepEqual(observation.cells, other.cells) {
			return false
		}
	}

	director.observations = append(director.observations, observation)
	return true
}

func (director *Director) actDeliberate() ([]game.Event, bool) {
	engine := director.engine

	for _, observation := range director.observations {
		switch {
		case observation.numMines == len(observation.cells) && engine.FlagBudget() > 0:
			cell := observation.first()
			return engine.ToggleMark(cell.Row, cell.Col), true

		case observation.numMines == 0:
			if observation.origin != nil {
				origin := *observation.origin
				return engine.HandleClick(origin.Row, origin.Col, game.Tertiary), true
			}
			cell := observation.first()
			return engine.HandleClick(cell.Row, cell.Col, engine.PhysicalButton(game.Primary)), true
		}
	}

	return nil, false
}

func (director *Director) actLowestProbability() ([]game.Event, bool) {
	lowestProbability := math.Inf(1)
	var lowest *game.Coord

	cellProbabilities := make(map[game.Coord]float64)
	for _, observation := range director.observations {
		probability := observation.MineProbability()
		for cell := range observation.cells {
			if past, ok := cellProbabilities[cell]; !ok || probability > past {
				cellProbabilities[cell] = probability
			}
		}
	}

	for _, cell := range sortedCoords(cellProbabilities) {
		if probability := cellProbabilities[cell]; probability < lowestProbability {
			lowestProbability = probability
			cell := cell
			lowest = &cell
		}
	}

	if lowest == nil {
		return nil, false
	}

	engine := director.engine
	return engine.HandleClick(lowest.Row, lowest.Col, engine.PhysicalButton(game.Primary)), true
}

// first returns the cell with the lowest row-major position, so steps are reproducible.
func (observation Observation) first() game.Coord {
	coords := make([]game.Coord, 0, len(observation.cells))
	for cell := range observation.cells {
		coords = append(coords, cell)
	}
	sortCoords(coords)
	return coords[0]
}

func sortedCoords(cells map[game.Coord]float64) []game.Coord {
	coords := make([]game.Coord, 0, len(cells))
	for cell := range cells {
		coords = append(coords, cell)
	}
	sortCoords(coords)
	return coords
}

func sortCoords(coords []game.Coord) {
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
}
