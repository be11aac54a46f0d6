package game

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrImpossibleRelocation means no safe cell was left to move a first-click mine to.
	ErrImpossibleRelocation = errors.New("no safe cell available for mine relocation")

	ErrInvalidSnapshot = errors.New("invalid board snapshot")
)

// ConfigurationError rejects board dimensions or mine counts before any cell exists.
type ConfigurationError struct {
	Width, Height int
	Mines         int
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Width <= 0:
		return fmt.Sprintf("cannot create a board with width %d", e.Width)
	case e.Height <= 0:
		return fmt.Sprintf("cannot create a board with height %d", e.Height)
	case e.Mines <= 0:
		return fmt.Sprintf("cannot create a board with %d mines", e.Mines)
	case e.Mines >= e.Width*e.Height:
		return fmt.Sprintf("not enough space for %d mines (%d >= %d * %d)", e.Mines, e.Mines, e.Width, e.Height)
	default:
		return "invalid board configuration"
	}
}

func validateConfig(width, height, mines int) error {
	if width <= 0 || height <= 0 || mines <= 0 || mines >= width*height {
		return &ConfigurationError{Width: width, Height: height, Mines: mines}
	}
	return nil
}
