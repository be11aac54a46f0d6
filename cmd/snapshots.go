package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/they4kman/sweepengine/game"
)

// saveReplay writes the final snapshot of a finished game into dir, creating it if
// needed, and returns the written path.
func saveReplay(dir string, engine *game.Engine, now time.Time) (string, error) {
	stat, err := os.Stat(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		if err := os.MkdirAll(dir, 0777); err != nil {
			return "", err
		}
	} else if !stat.Mode().IsDir() {
		return "", fmt.Errorf("%s is not a directory; cannot save snapshots to it", dir)
	}

	// TODO: prevent duplicate filenames when two games end within the same second
	path := filepath.Join(dir, generateReplayFilename(engine, now))
	if err := saveSnapshot(path, engine); err != nil {
		return "", err
	}
	return path, nil
}

func generateReplayFilename(engine *game.Engine, t time.Time) string {
	filenameBuilder := strings.Builder{}

	filenameBuilder.WriteString(t.Format("20060102_150405_"))

	var stateStr string
	switch engine.State() {
	case game.Won:
		stateStr = "win"
	case game.Lost:
		stateStr = "loss"
	default:
		stateStr = "other"
	}
	filenameBuilder.WriteString(stateStr)

	filenameBuilder.WriteString(".yaml")

	return filenameBuilder.String()
}

func saveSnapshot(path string, engine *game.Engine) error {
	snapshot := engine.Snapshot()
	if err := ioutil.WriteFile(path, []byte(snapshot.Serialize()), 0666); err != nil {
		return errors.Wrapf(err, "write snapshot %s", path)
	}
	return nil
}

// loadSnapshotFile restores the engine saved at path. With fresh set, only the mine
// layout is kept and the game starts over.
func loadSnapshotFile(path string, config game.GameConfig, fresh bool) (*game.Engine, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read snapshot %s", path)
	}

	snapshot, err := game.LoadSnapshot(string(data))
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	if fresh {
		snapshot = snapshot.Fresh()
	}

	engine, err := game.RestoreEngine(snapshot, config)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return engine, nil
}
