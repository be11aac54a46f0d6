package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/they4kman/sweepengine/game"
	"github.com/they4kman/sweepengine/render"
)

const helpText = `commands:
  l ROW COL   left click (open)
  r ROW COL   right click (cycle flag / question mark)
  m ROW COL   middle click (chord)
  f ROW COL   cycle the mark directly, ignoring handedness
  h           toggle left-handed mode
  d           toggle debug peek at mines
  s PATH      save a snapshot
  n           new game with the same parameters
  q           quit
`

var buttons = map[string]game.Button{
	"l": game.Primary,
	"r": game.Secondary,
	"m": game.Tertiary,
}

type pendingHighlight struct {
	cells    []game.Coord
	deadline time.Time
}

type player struct {
	engine *game.Engine
	out    io.Writer
	log    logrus.FieldLogger

	snapshotsDir string
	now          func() time.Time

	highlight *pendingHighlight
}

func newPlayer(engine *game.Engine, out io.Writer, log logrus.FieldLogger) *player {
	return &player{
		engine: engine,
		out:    out,
		log:    log,
		now:    time.Now,
	}
}

// run reads commands from in until it is exhausted or the player quits.
func (p *player) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	p.draw()
	for {
		fmt.Fprint(p.out, "> ")
		if !scanner.Scan() {
			break
		}

		p.expireHighlight()

		quit, err := p.exec(strings.Fields(scanner.Text()))
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

func (p *player) exec(args []string) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}

	switch command := args[0]; command {
	case "q", "quit":
		return true, nil

	case "l", "r", "m", "f":
		row, col, err := parseCoords(args[1:])
		if err != nil {
			fmt.Fprintln(p.out, err)
			return false, nil
		}

		var events []game.Event
		if command == "f" {
			events = p.engine.ToggleMark(row, col)
		} else {
			events = p.engine.HandleClick(row, col, buttons[command])
		}
		if err := p.handleEvents(events); err != nil {
			return true, err
		}
		// Mine positions are only final after the first move, so keep the peek current.
		if p.engine.Session().DebugRevealMines {
			p.engine.PeekDebug(true)
		}

	case "h":
		leftHanded := !p.engine.Session().LeftHanded
		p.engine.SetLeftHanded(leftHanded)
		fmt.Fprintf(p.out, "left-handed mode: %v\n", leftHanded)
		return false, nil

	case "d":
		if err := p.handleEvents(p.engine.PeekDebug(!p.engine.Session().DebugRevealMines)); err != nil {
			return true, err
		}

	case "s":
		if len(args) < 2 {
			fmt.Fprintln(p.out, "usage: s PATH")
			return false, nil
		}
		if err := saveSnapshot(args[1], p.engine); err != nil {
			fmt.Fprintln(p.out, err)
			return false, nil
		}
		fmt.Fprintf(p.out, "saved %s\n", args[1])
		return false, nil

	case "n":
		if err := p.engine.Restart(p.now().UnixNano()); err != nil {
			return true, err
		}
		p.highlight = nil

	default:
		fmt.Fprint(p.out, helpText)
		return false, nil
	}

	p.draw()
	return false, nil
}

func (p *player) handleEvents(events []game.Event) error {
	for _, event := range events {
		switch event := event.(type) {
		case game.GameEnded:
			fmt.Fprintln(p.out, event.Message)
			p.saveReplay()

		case game.HighlightTransient:
			p.highlight = &pendingHighlight{cells: event.Cells, deadline: p.now().Add(event.Duration)}
			coords := make([]string, len(event.Cells))
			for i, cell := range event.Cells {
				coords[i] = cell.String()
			}
			fmt.Fprintf(p.out, "unresolved around: %s\n", strings.Join(coords, " "))

		case game.FatalError:
			return event.Err
		}
	}
	return nil
}

func (p *player) expireHighlight() {
	if p.highlight == nil || p.now().Before(p.highlight.deadline) {
		return
	}

	cleared := p.engine.ExpireHighlight(p.highlight.cells)
	p.log.WithField("cells", len(cleared)).Debug("highlight expired")
	p.highlight = nil
}

func (p *player) saveReplay() {
	if p.snapshotsDir == "" {
		return
	}

	path, err := saveReplay(p.snapshotsDir, p.engine, p.now())
	if err != nil {
		p.log.WithError(err).Warn("could not save replay")
		return
	}
	p.log.WithField("path", path).Info("saved replay")
}

func (p *player) draw() {
	fmt.Fprint(p.out, render.Text(p.engine))
}

func parseCoords(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected ROW COL")
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid row %q", args[0])
	}
	col, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid column %q", args[1])
	}
	return row, col, nil
}
