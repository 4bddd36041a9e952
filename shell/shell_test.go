package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/domino14/slide2048/analyzer"
	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/config"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func newTestController(t *testing.T) (*ShellController, *bytes.Buffer) {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigMinSearchTime, 0)
	var buf bytes.Buffer
	sc, err := newController(&cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}
	return sc, &buf
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"best -budget 300",
			&shellcmd{"best", nil, CmdOptions{"budget": {"300"}}},
			nil},
		{"move left",
			&shellcmd{"move", []string{"left"}, CmdOptions{}},
			nil},
		{"board 2 2 . . / 4 . . . -x y ",
			&shellcmd{"board",
				[]string{"2", "2", ".", ".", "/", "4", ".", ".", "."},
				CmdOptions{"x": {"y"}}},
			nil,
		},
		{"best -depth",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestNoBoard(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	for _, line := range []string{"show", "best", "move left", "eval"} {
		_, err := sc.Execute(context.Background(), line)
		is.True(errors.Is(err, errNoBoard))
	}
}

func TestBoardMoveUndo(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	ctx := context.Background()

	out, err := sc.Execute(ctx, "board 0 0 0 0 / 0 0 0 0 / 0 0 0 0 / 2 2 0 0")
	is.NoErr(err)
	is.True(strings.Contains(out, "2"))
	is.Equal(sc.cur, board.BottomPair)

	out, err = sc.Execute(ctx, "show")
	is.NoErr(err)
	is.True(strings.Contains(out, "Legal moves: left, up, right"))

	_, err = sc.Execute(ctx, "move down")
	is.True(err != nil) // nothing moves down on the bottom row

	_, err = sc.Execute(ctx, "move left")
	is.NoErr(err)
	is.Equal(sc.cur[12], uint8(2))
	is.Equal(sc.cur[13], uint8(0))

	_, err = sc.Execute(ctx, "undo")
	is.NoErr(err)
	is.Equal(sc.cur, board.BottomPair)
	_, err = sc.Execute(ctx, "undo")
	is.True(err != nil)
}

func TestBestThenMove(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	ctx := context.Background()
	_, err := sc.Execute(ctx, "board 2 4 8 16 / . . . . / . . . . / . . . .")
	is.NoErr(err)

	out, err := sc.Execute(ctx, "best")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "Best: down (key 40)"))

	out, err = sc.Execute(ctx, "best -depth 2")
	is.NoErr(err)
	is.True(strings.Contains(out, "depth 2"))

	_, err = sc.Execute(ctx, "move")
	is.NoErr(err)
	is.Equal(sc.cur[12], uint8(1))

	_, err = sc.Execute(ctx, "best -depth -1")
	is.NoErr(err) // -1 means deepen
	_, err = sc.Execute(ctx, "best -depth x")
	is.True(err != nil)
}

func TestRandomAndEval(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	ctx := context.Background()
	_, err := sc.Execute(ctx, "random -tiles 5")
	is.NoErr(err)
	is.Equal(sc.cur.EmptyCount(), 11)
	for _, e := range sc.cur {
		is.True(e <= 2)
	}
	out, err := sc.Execute(ctx, "eval")
	is.NoErr(err)
	is.True(strings.Contains(out, "Monotonicity"))

	_, err = sc.Execute(ctx, "random -tiles 17")
	is.True(err != nil)
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	ctx := context.Background()

	out, err := sc.Execute(ctx, "set")
	is.NoErr(err)
	is.True(strings.Contains(out, "weights.empty"))

	_, err = sc.Execute(ctx, "set solver lookahead")
	is.NoErr(err)
	is.Equal(sc.player.SolverType(), config.SolverLookahead)

	_, err = sc.Execute(ctx, "set solver bogus")
	is.True(err != nil)
	is.Equal(sc.config.GetString(config.ConfigSolver), config.SolverLookahead)

	out, err = sc.Execute(ctx, "set solver")
	is.NoErr(err)
	is.Equal(out, config.SolverLookahead)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	out, err := sc.Execute(context.Background(), "help")
	is.NoErr(err)
	is.True(strings.Contains(out, "Commands:"))
	out, err = sc.Execute(context.Background(), "help best")
	is.NoErr(err)
	is.True(strings.Contains(out, "-budget"))
	out, err = sc.Execute(context.Background(), "help nope")
	is.NoErr(err)
	is.True(strings.Contains(out, "no help text"))
}

func TestAnalyze(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	path := filepath.Join(t.TempDir(), "positions.yaml")
	is.NoErr(os.WriteFile(path, analyzer.SampleYaml, 0o644))
	out, err := sc.Execute(context.Background(), "analyze "+path)
	is.NoErr(err)
	is.True(strings.Contains(out, "midgame"))
	is.True(strings.Contains(out, "3 positions, 0 failed"))
}

func TestStandardModeSwitch(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestController(t)
	sig := make(chan os.Signal, 1)

	is.NoErr(sc.standardModeSwitch("board 2 2 . . / . . . . / . . . . / . . . .", sig))
	is.NoErr(sc.standardModeSwitch("frobnicate", sig))
	is.True(strings.Contains(buf.String(), `Error: command "frobnicate" not found`))
	is.NoErr(sc.standardModeSwitch("", sig))

	err := sc.standardModeSwitch("exit", sig)
	is.Equal(err, errExit)
	is.Equal(<-sig, os.Signal(syscall.SIGINT))
}

func TestLuaCommands(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	L := sc.newLuaState()
	defer L.Close()

	err := L.DoString(`
slide_board("2 4 8 16 / . . . . / . . . . / . . . .")
best = slide_best("-depth 1")
moved = slide_move("")
bad = slide_move("down")
`)
	is.NoErr(err)
	is.True(strings.HasPrefix(L.GetGlobal("best").String(), "Best: down"))
	is.True(!strings.HasPrefix(L.GetGlobal("moved").String(), "ERROR"))
	is.True(strings.HasPrefix(L.GetGlobal("bad").String(), "ERROR: "))
	is.Equal(L.GetGlobal("slide_script"), lua.LNil)
}

func TestScriptFile(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	path := filepath.Join(t.TempDir(), "s.lua")
	is.NoErr(os.WriteFile(path, []byte(`slide_random("-tiles 3")`), 0o644))
	out, err := sc.Execute(context.Background(), "script "+path)
	is.NoErr(err)
	is.Equal(out, "script finished")
	is.Equal(sc.cur.EmptyCount(), 13)

	_, err = sc.Execute(context.Background(), "script")
	is.True(err != nil)
}

func TestLuaJSONModule(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	L := sc.newLuaState()
	defer L.Close()

	err := L.DoString(`
local json = require("json")
encoded = json.encode({move = "down"})
decoded = json.decode('{"depth": 3}').depth
`)
	is.NoErr(err)
	is.Equal(L.GetGlobal("encoded").String(), `{"move":"down"}`)
	is.Equal(L.GetGlobal("decoded").String(), "3")
}
