package shell

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"lukechampine.com/frand"

	aibot "github.com/domino14/slide2048/ai/bot"
	"github.com/domino14/slide2048/analyzer"
	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/config"
	"github.com/domino14/slide2048/equity"
	"github.com/domino14/slide2048/stats"
)

const defaultRandomTiles = 6

func (sc *ShellController) current() (board.Board, error) {
	if !sc.hasBoard {
		return board.Board{}, errNoBoard
	}
	return sc.cur, nil
}

func (sc *ShellController) setCurrent(b board.Board) {
	sc.cur = b
	sc.hasBoard = true
	sc.history = sc.history[:0]
	sc.lastDecision = nil
}

func (sc *ShellController) setBoard(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return sc.show(cmd)
	}
	b, err := board.FromString(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	sc.setCurrent(b)
	return msg(b.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	b, err := sc.current()
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(b.ToDisplayText())
	legal := b.LegalMoves(sc.player.Table())
	moves := make([]string, len(legal))
	for i, d := range legal {
		moves[i] = d.String()
	}
	fmt.Fprintf(&sb, "Legal moves: %s\n", strings.Join(moves, ", "))
	if b.IsWin() {
		sb.WriteString("This board has the 2048 tile.\n")
	}
	return msg(sb.String()), nil
}

var printer = message.NewPrinter(language.English)

func decisionText(d *aibot.Decision) string {
	return printer.Sprintf("Best: %s (key %d)  score %.3f  depth %d  nodes %d  %dms\nPV: %s",
		d.Move, d.KeyCode, d.Score, d.Depth, d.Nodes, d.ElapsedMS, strings.Join(d.PV, " "))
}

func (sc *ShellController) best(ctx context.Context, cmd *shellcmd) (*Response, error) {
	b, err := sc.current()
	if err != nil {
		return nil, err
	}
	depth, err := cmd.options.IntDefault("depth", -1)
	if err != nil {
		return nil, err
	}
	budgetMS, err := cmd.options.IntDefault("budget", -1)
	if err != nil {
		return nil, err
	}
	var d *aibot.Decision
	if depth >= 0 {
		d, err = sc.player.DecideAtDepth(b, depth)
	} else {
		budget := time.Duration(-1)
		if budgetMS >= 0 {
			budget = time.Duration(budgetMS) * time.Millisecond
		}
		d, err = sc.player.DecideWithin(ctx, b, budget)
	}
	if err != nil {
		return nil, err
	}
	sc.lastDecision = d
	return msg(decisionText(d)), nil
}

func (sc *ShellController) move(cmd *shellcmd) (*Response, error) {
	b, err := sc.current()
	if err != nil {
		return nil, err
	}
	var d board.Direction
	switch {
	case len(cmd.args) > 0:
		d, err = board.ParseDirection(cmd.args[0])
		if err != nil {
			return nil, err
		}
	case sc.lastDecision != nil:
		d = sc.lastDecision.Direction
	default:
		return nil, errors.New("need a direction; or run `best` first")
	}
	next, changed := b.Apply(sc.player.Table(), d)
	if !changed {
		return nil, fmt.Errorf("%s does not move anything", d)
	}
	sc.history = append(sc.history, b)
	sc.cur = next
	sc.lastDecision = nil
	return msg(next.ToDisplayText()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if len(sc.history) == 0 {
		return nil, errors.New("nothing to undo")
	}
	sc.cur = sc.history[len(sc.history)-1]
	sc.history = sc.history[:len(sc.history)-1]
	sc.lastDecision = nil
	return msg(sc.cur.ToDisplayText()), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	b, err := sc.current()
	if err != nil {
		return nil, err
	}
	return msg(equity.BreakdownText(sc.player.Evaluate(b))), nil
}

// randomBoard places n tiles on distinct cells; a tenth of them are 4s and
// the rest 2s, as the game spawns them.
func randomBoard(n int) board.Board {
	var b board.Board
	for _, idx := range frand.Perm(board.NumCells)[:n] {
		b[idx] = 1
		if frand.Intn(10) == 0 {
			b[idx] = 2
		}
	}
	return b
}

func (sc *ShellController) random(cmd *shellcmd) (*Response, error) {
	n, err := cmd.options.IntDefault("tiles", defaultRandomTiles)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > board.NumCells {
		return nil, fmt.Errorf("tiles must be between 0 and %d", board.NumCells)
	}
	sc.setCurrent(randomBoard(n))
	return msg(sc.cur.ToDisplayText()), nil
}

func (sc *ShellController) settingsText() string {
	keys := sc.config.AllKeys()
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%-22s %v\n", k, sc.config.Get(k))
	}
	return sb.String()
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	switch len(cmd.args) {
	case 0:
		return msg(sc.settingsText()), nil
	case 1:
		return msg(fmt.Sprintf("%v", sc.config.Get(cmd.args[0]))), nil
	}
	key, val := cmd.args[0], cmd.args[1]
	old := sc.config.Get(key)
	sc.config.Set(key, val)
	p, err := aibot.NewBotPlayer(sc.config)
	if err != nil {
		sc.config.Set(key, old)
		return nil, err
	}
	sc.player = p
	log.Debug().Str("key", key).Str("value", val).Msg("setting-changed")
	return msg(fmt.Sprintf("set %s to %s", key, val)), nil
}

func (sc *ShellController) analyze(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a positions file")
	}
	an := analyzer.NewAnalyzer(sc.player, sc.config.GetInt(config.ConfigAnalyzeThreads))
	br, err := an.AnalyzeFile(ctx, cmd.args[0])
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(br.Summary())
	var times []float64
	for _, r := range br.Results {
		if r.Decision != nil {
			times = append(times, float64(r.Decision.ElapsedMS))
		}
	}
	if len(times) > 1 {
		sb.WriteString("\nSearch time (ms):\n")
		if err := stats.Histogram(&sb, times, 8); err != nil {
			return nil, err
		}
	}
	return msg(sb.String()), nil
}
