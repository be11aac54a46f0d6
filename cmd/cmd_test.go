package cmd

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/they4kman/sweepengine/game"
)

// restore builds an engine from a mid-game board, where (0, 0) is the only mine:
//
//	O . #
//	. . #
func restore(t *testing.T, board string) *game.Engine {
	t.Helper()

	logger, _ := test.NewNullLogger()
	config := game.NewGameConfig()
	config.Logger = logger

	engine, err := game.RestoreEngine(&game.BoardSnapshot{
		Width:           3,
		Height:          2,
		Mines:           1,
		FlagBudget:      1,
		SerializedBoard: board,
		Adjacency:       "010\n110",
	}, config)
	if err != nil {
		t.Fatalf("RestoreEngine() failed: %v", err)
	}
	return engine
}

var fixedTime = time.Date(2020, 3, 4, 5, 6, 7, 0, time.UTC)

func TestGenerateReplayFilename(t *testing.T) {
	tests := []struct {
		board string
		want  string
	}{
		{"O.#\n..#", "20200304_050607_other.yaml"},
		{"X.#\n..#", "20200304_050607_loss.yaml"},
		{"O..\n...", "20200304_050607_win.yaml"},
	}

	for _, tt := range tests {
		engine := restore(t, tt.board)
		if got := generateReplayFilename(engine, fixedTime); got != tt.want {
			t.Errorf("generateReplayFilename(%v) = %q, want %q", engine.State(), got, tt.want)
		}
	}
}

func TestSaveReplayCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "replays")
	engine := restore(t, "X.#\n..#")

	path, err := saveReplay(dir, engine, fixedTime)
	if err != nil {
		t.Fatalf("saveReplay() failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("replay written to %s, want a file in %s", path, dir)
	}

	logger, _ := test.NewNullLogger()
	config := game.NewGameConfig()
	config.Logger = logger

	loaded, err := loadSnapshotFile(path, config, false)
	if err != nil {
		t.Fatalf("loadSnapshotFile() failed: %v", err)
	}
	if loaded.State() != game.Lost {
		t.Errorf("State() = %v, want Lost", loaded.State())
	}
}

func TestSaveReplayRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := ioutil.WriteFile(file, nil, 0666); err != nil {
		t.Fatal(err)
	}

	if _, err := saveReplay(file, restore(t, "X.#\n..#"), fixedTime); err == nil {
		t.Error("expected an error saving into a regular file")
	}
}

func TestLoadSnapshotFileMissing(t *testing.T) {
	_, err := loadSnapshotFile(filepath.Join(t.TempDir(), "missing.yaml"), game.NewGameConfig(), false)
	if err == nil || !strings.Contains(err.Error(), "missing.yaml") {
		t.Errorf("expected an error naming the file, got %v", err)
	}
}

func TestResolveConfigLayers(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sweep.yaml")
	contents := "width: 12\nmines: 20\nseed: 77\nhighlight_duration: 250ms\nwin_message: nice\n"
	if err := ioutil.WriteFile(configPath, []byte(contents), 0666); err != nil {
		t.Fatal(err)
	}

	opts := newOptions()
	cmd := newRootCmd(opts)
	if err := cmd.ParseFlags([]string{"--preset", "beginner", "--config", configPath, "-m", "15"}); err != nil {
		t.Fatalf("ParseFlags() failed: %v", err)
	}

	config, err := resolveConfig(cmd, opts)
	if err != nil {
		t.Fatalf("resolveConfig() failed: %v", err)
	}

	// Height from the preset, width from the file, mines from the flag.
	if config.Width != 12 || config.Height != 9 || config.NumMines != 15 {
		t.Errorf("dimensions = %dx%d with %d mines", config.Width, config.Height, config.NumMines)
	}
	if config.Seed != 77 {
		t.Errorf("Seed = %d, want 77", config.Seed)
	}
	if config.HighlightDuration != 250*time.Millisecond || config.WinMessage != "nice" {
		t.Errorf("file settings not applied: %+v", config)
	}
	if config.LoseMessage != game.DefaultLoseMessage {
		t.Errorf("LoseMessage = %q, want the default", config.LoseMessage)
	}
}

func TestResolveConfigPicksSeed(t *testing.T) {
	opts := newOptions()
	cmd := newRootCmd(opts)

	config, err := resolveConfig(cmd, opts)
	if err != nil {
		t.Fatalf("resolveConfig() failed: %v", err)
	}
	if config.Seed == 0 {
		t.Error("expected a seed to be picked from the clock")
	}
}

func TestInvalidChoices(t *testing.T) {
	var preset presetValue
	if err := preset.Set("impossible"); err == nil {
		t.Error("expected an invalid preset to be rejected")
	}

	var director directorValue
	if err := director.Set("psychic"); err == nil {
		t.Error("expected an invalid director to be rejected")
	}
	if err := director.Set("constraint"); err != nil || director.create(1) == nil {
		t.Errorf("constraint director unavailable: %v", err)
	}
}

func TestPlayerSession(t *testing.T) {
	dir := t.TempDir()
	engine := restore(t, "O.#\n..#")

	var out bytes.Buffer
	logger, _ := test.NewNullLogger()
	p := newPlayer(engine, &out, logger)
	p.snapshotsDir = dir
	p.now = func() time.Time { return fixedTime }

	input := strings.Join([]string{
		"bogus",
		"l x 1",
		"m 0 1",
		"l 1 2",
		"q",
	}, "\n")
	if err := p.run(strings.NewReader(input)); err != nil {
		t.Fatalf("run() failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{"commands:", `invalid row "x"`, "unresolved around:", "(0, 0)", "You won!", "WIN"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	if engine.State() != game.Won {
		t.Errorf("State() = %v, want Won", engine.State())
	}
	if _, err := os.Stat(filepath.Join(dir, "20200304_050607_win.yaml")); err != nil {
		t.Errorf("replay not saved: %v", err)
	}
}

func TestPlayerExpiresHighlight(t *testing.T) {
	engine := restore(t, "O.#\n..#")

	now := fixedTime
	logger, _ := test.NewNullLogger()
	p := newPlayer(engine, ioutil.Discard, logger)
	p.now = func() time.Time { return now }

	p.exec([]string{"m", "0", "1"})
	if p.highlight == nil {
		t.Fatal("expected a pending highlight")
	}

	p.expireHighlight()
	if p.highlight == nil {
		t.Fatal("highlight expired before its deadline")
	}

	now = now.Add(engine.Config().HighlightDuration)
	p.expireHighlight()
	if p.highlight != nil {
		t.Error("highlight still pending after its deadline")
	}
}

func TestPlayerSavesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	engine := restore(t, "O.#\n..#")

	logger, _ := test.NewNullLogger()
	p := newPlayer(engine, ioutil.Discard, logger)
	if err := p.run(strings.NewReader("f 0 0\ns " + path + "\n")); err != nil {
		t.Fatalf("run() failed: %v", err)
	}

	config := game.NewGameConfig()
	config.Logger = logger
	loaded, err := loadSnapshotFile(path, config, false)
	if err != nil {
		t.Fatalf("loadSnapshotFile() failed: %v", err)
	}
	if loaded.VisualAt(0, 0) != game.Flag || loaded.FlagBudget() != 0 {
		t.Errorf("snapshot lost the flag: %v, budget %d", loaded.VisualAt(0, 0), loaded.FlagBudget())
	}
}

func TestParseCoords(t *testing.T) {
	row, col, err := parseCoords([]string{"3", "14"})
	if err != nil || row != 3 || col != 14 {
		t.Errorf("parseCoords() = (%d, %d, %v)", row, col, err)
	}

	for _, args := range [][]string{nil, {"1"}, {"1", "b"}, {"1", "2", "3"}} {
		if _, _, err := parseCoords(args); err == nil {
			t.Errorf("parseCoords(%q) accepted", args)
		}
	}
}

func TestRootAutoplay(t *testing.T) {
	dir := t.TempDir()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(newOptions())
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"-w", "8", "-h", "6", "-m", "5", "--seed", "3", "--director", "constraint", "--snapshots-dir", dir})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, " after ") || !strings.Contains(text, "Mines left:") {
		t.Errorf("unexpected output:\n%s", text)
	}
	if !strings.Contains(text, " 7") || !strings.Contains(text, "\n5 ") {
		t.Errorf("board is not 8x6:\n%s", text)
	}

	files, err := ioutil.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("expected one replay in %s, found %d", dir, len(files))
	}
}

func TestRootRejectsBadLogLevel(t *testing.T) {
	cmd := newRootCmd(newOptions())
	cmd.SetOut(ioutil.Discard)
	cmd.SetArgs([]string{"--log-level", "loud", "--director", "random"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an invalid log level to fail")
	}
}

func TestRootLoadsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	if err := saveSnapshot(path, restore(t, "F.#\n..#")); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cmd := newRootCmd(newOptions())
	cmd.SetOut(&out)
	cmd.SetErr(ioutil.Discard)
	cmd.SetIn(strings.NewReader("q\n"))
	cmd.SetArgs([]string{"--load", path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !strings.Contains(out.String(), "0  F 1 #") {
		t.Errorf("loaded board not drawn:\n%s", out.String())
	}
}

func TestRootLoadsFreshSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	if err := saveSnapshot(path, restore(t, "F.#\n..#")); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cmd := newRootCmd(newOptions())
	cmd.SetOut(&out)
	cmd.SetErr(ioutil.Discard)
	cmd.SetIn(strings.NewReader("q\n"))
	cmd.SetArgs([]string{"--load", path, "--fresh"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !strings.Contains(out.String(), "0  # # #") || !strings.Contains(out.String(), "Mines left: 1") {
		t.Errorf("fresh board not drawn:\n%s", out.String())
	}
}

func TestPlayerTogglesPeek(t *testing.T) {
	engine := restore(t, "O.#\n..#")

	var out bytes.Buffer
	logger, _ := test.NewNullLogger()
	p := newPlayer(engine, &out, logger)

	if err := p.run(strings.NewReader("d\nn\nq\n")); err != nil {
		t.Fatalf("run() failed: %v", err)
	}
	if !strings.Contains(out.String(), "0  M 1 #") {
		t.Errorf("peeked mine not drawn:\n%s", out.String())
	}
	if engine.State() != game.Ongoing || !engine.Session().FirstMoveNotTaken {
		t.Error("restart should begin a new game")
	}
}
