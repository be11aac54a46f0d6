package game

import "github.com/sirupsen/logrus"

// Director plays a game through the engine's public entry points.
type Director interface {
	/**
	 * Initialize the director
	 */
	Init(*Engine)

	/**
	 * Perform a single step of actions. ok is false when the director found nothing
	 * to do.
	 */
	Act() (events []Event, ok bool)
}

// Autoplay lets director act until the game ends or it runs out of moves, returning
// the number of steps taken.
func Autoplay(engine *Engine, director Director) int {
	director.Init(engine)

	steps := 0
	for engine.canPlay() {
		if _, ok := director.Act(); !ok {
			break
		}
		steps++
	}

	engine.log.WithFields(logrus.Fields{
		"steps": steps,
		"state": engine.state.String(),
	}).Debug("autoplay finished")

	return steps
}
