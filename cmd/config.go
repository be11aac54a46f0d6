package cmd

import (
	"fmt"
	"io/ioutil"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/they4kman/sweepengine/director/constraint"
	"github.com/they4kman/sweepengine/director/random"
	"github.com/they4kman/sweepengine/game"
)

type preset struct {
	Width, Height, NumMines int
}

var presets = map[string]preset{
	"beginner":     {Width: 9, Height: 9, NumMines: 10},
	"intermediate": {Width: 16, Height: 16, NumMines: 40},
	"expert":       {Width: 30, Height: 16, NumMines: 99},
}

type presetValue string

func (value *presetValue) String() string {
	return string(*value)
}

func (value *presetValue) Set(name string) error {
	if _, isValid := presets[name]; !isValid {
		return fmt.Errorf("invalid preset %q (choose from %s)", name, choices(presets))
	}
	*value = presetValue(name)
	return nil
}

func (value *presetValue) Type() string {
	return "preset"
}

func (value presetValue) apply(config *game.GameConfig) {
	if p, ok := presets[string(value)]; ok {
		config.Width, config.Height, config.NumMines = p.Width, p.Height, p.NumMines
	}
}

var directors = map[string]func(seed int64) game.Director{
	"random":     func(seed int64) game.Director { return random.New(seed) },
	"constraint": func(seed int64) game.Director { return constraint.New(seed) },
}

type directorValue string

func (value *directorValue) String() string {
	return string(*value)
}

func (value *directorValue) Set(name string) error {
	if _, isValid := directors[name]; !isValid {
		return fmt.Errorf("invalid director %q (choose from %s)", name, choices(directors))
	}
	*value = directorValue(name)
	return nil
}

func (value *directorValue) Type() string {
	return "director"
}

func (value directorValue) create(seed int64) game.Director {
	if newDirector, ok := directors[string(value)]; ok {
		return newDirector(seed)
	}
	return nil
}

func choices[V any](options map[string]V) string {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// loadConfigFile overlays the YAML file at path onto config. Fields missing from the
// file keep their current values.
func loadConfigFile(path string, config *game.GameConfig) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}
	return nil
}
