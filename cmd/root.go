package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/they4kman/sweepengine/game"
	"github.com/they4kman/sweepengine/render"
)

type options struct {
	config game.GameConfig

	configPath   string
	preset       presetValue
	director     directorValue
	debug        bool
	loadPath     string
	fresh        bool
	snapshotsDir string
	logLevel     string
}

func newOptions() *options {
	return &options{config: game.NewGameConfig()}
}

func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Play Minesweeper in the terminal, or let the computer play",
		Long: `sweep is a Minesweeper game played on the command line.

Run with no arguments to play manually
	sweep

Use the director flag to make the computer play for you
	sweep --director constraint
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := rootCmd.Flags()

	// Define our root -help without a shorthand, as we'll use -h for --height
	// Ref: https://github.com/spf13/cobra/issues/291
	flags.Bool("help", false, "Help for this command")

	flags.IntVarP(&opts.config.Width, "width", "w", opts.config.Width, "Width of game board, in cells")
	flags.IntVarP(&opts.config.Height, "height", "h", opts.config.Height, "Height of game board, in cells")
	flags.IntVarP(&opts.config.NumMines, "mines", "m", opts.config.NumMines, "Number of mines to place in the game board")
	flags.Int64Var(&opts.config.Seed, "seed", 0, "Seed for mine placement (0 picks one from the clock)")
	flags.BoolVar(&opts.config.LeftHanded, "left-handed", false, "Swap left and right clicks")
	flags.BoolVar(&opts.debug, "debug", false, "Show hidden mines once the first move has been made")
	flags.Var(&opts.preset, "preset", "Board preset: "+choices(presets))
	flags.Var(&opts.director, "director", "Let the computer play: "+choices(directors))
	flags.StringVar(&opts.configPath, "config", "", "YAML file with game settings")
	flags.StringVar(&opts.loadPath, "load", "", "Resume a saved snapshot")
	flags.BoolVar(&opts.fresh, "fresh", false, "With --load, keep only the mine layout and start from an unrevealed board")
	flags.StringVar(&opts.snapshotsDir, "snapshots-dir", "", "Directory where final snapshots of boards are saved")
	flags.StringVar(&opts.logLevel, "log-level", "warning", "Log level (debug, info, warning, error)")

	return rootCmd
}

func run(cmd *cobra.Command, opts *options, in io.Reader, out io.Writer) error {
	log := logrus.New()
	log.Out = cmd.ErrOrStderr()
	level, err := logrus.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	config, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	config.Logger = log

	var engine *game.Engine
	if opts.loadPath != "" {
		engine, err = loadSnapshotFile(opts.loadPath, config, opts.fresh)
	} else {
		engine, err = newGame(config)
	}
	if err != nil {
		return err
	}

	if opts.director != "" {
		director := opts.director.create(engine.Config().Seed)
		steps := game.Autoplay(engine, director)
		fmt.Fprint(out, render.Text(engine))
		fmt.Fprintf(out, "%s after %d steps\n", engine.State(), steps)
		if opts.snapshotsDir != "" && engine.State() != game.Ongoing {
			if _, err := saveReplay(opts.snapshotsDir, engine, time.Now()); err != nil {
				return err
			}
		}
		return nil
	}

	p := newPlayer(engine, out, log)
	p.snapshotsDir = opts.snapshotsDir
	if opts.debug {
		engine.PeekDebug(true)
	}
	return p.run(in)
}

// resolveConfig layers the settings: defaults, then preset, then config file, then
// any flags given explicitly on the command line.
func resolveConfig(cmd *cobra.Command, opts *options) (game.GameConfig, error) {
	config := game.NewGameConfig()
	opts.preset.apply(&config)

	if opts.configPath != "" {
		if err := loadConfigFile(opts.configPath, &config); err != nil {
			return config, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		config.Width = opts.config.Width
	}
	if flags.Changed("height") {
		config.Height = opts.config.Height
	}
	if flags.Changed("mines") {
		config.NumMines = opts.config.NumMines
	}
	if flags.Changed("seed") {
		config.Seed = opts.config.Seed
	}
	if flags.Changed("left-handed") {
		config.LeftHanded = opts.config.LeftHanded
	}

	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	return config, nil
}

func newGame(config game.GameConfig) (*game.Engine, error) {
	engine, err := game.NewEngine(config)
	if err != nil {
		return nil, err
	}
	engine.PlaceMines(config.Seed)
	return engine, nil
}

func Execute() {
	if err := newRootCmd(newOptions()).Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
