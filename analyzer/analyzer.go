// Package analyzer runs the bot over a batch of positions and summarises
// how it did.
package analyzer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	aibot "github.com/domino14/slide2048/ai/bot"
	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/stats"
)

var SampleYaml = []byte(`positions:
  - name: bottom-pair
    board: ". . . . / . . . . / . . . . / 2 2 . ."
  - name: only-down
    board: "2 4 8 16 / . . . . / . . . . / . . . ."
    expect: down
  - name: midgame
    board: "128 64 32 8 / 16 16 4 2 / 4 2 . . / 2 . . ."
`)

// Position is one entry of a positions file.
type Position struct {
	Name   string `yaml:"name"`
	Board  string `yaml:"board"`
	Expect string `yaml:"expect,omitempty"`
}

type positionsFile struct {
	Positions []Position `yaml:"positions"`
}

// PositionResult is the analysis of a single position.
type PositionResult struct {
	Position Position
	Board    board.Board
	Decision *aibot.Decision
	Err      error
}

// Matches reports whether the decision agrees with the expected move. It
// is true when no move was expected.
func (r *PositionResult) Matches() bool {
	if r.Position.Expect == "" {
		return true
	}
	if r.Decision == nil {
		return false
	}
	exp, err := board.ParseDirection(r.Position.Expect)
	return err == nil && exp == r.Decision.Direction
}

// BatchResult collects every position's result, in file order.
type BatchResult struct {
	Results    []*PositionResult
	Latency    stats.Statistic
	Depth      stats.Statistic
	Total      int
	Failed     int
	Mismatched int
}

type Analyzer struct {
	player  *aibot.BotPlayer
	threads int
}

func NewAnalyzer(player *aibot.BotPlayer, threads int) *Analyzer {
	if threads < 1 {
		threads = 1
	}
	return &Analyzer{player: player, threads: threads}
}

// ParsePositions reads a YAML positions document.
func ParsePositions(data []byte) ([]Position, error) {
	var pf positionsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing positions: %w", err)
	}
	return pf.Positions, nil
}

func (an *Analyzer) AnalyzeFile(ctx context.Context, path string) (*BatchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	positions, err := ParsePositions(data)
	if err != nil {
		return nil, err
	}
	return an.Analyze(ctx, positions)
}

// Analyze decides every position, running up to an.threads searches at
// once. A position that fails to parse or has no move is recorded as
// failed; only a cancelled context aborts the batch.
func (an *Analyzer) Analyze(ctx context.Context, positions []Position) (*BatchResult, error) {
	results := make([]*PositionResult, len(positions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(an.threads)

	tstart := time.Now()
	for i, p := range positions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = an.analyzeOne(gctx, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	br := &BatchResult{Results: results, Total: len(results)}
	for _, r := range results {
		if r.Err != nil {
			br.Failed++
			continue
		}
		br.Latency.Push(float64(r.Decision.ElapsedMS))
		br.Depth.Push(float64(r.Decision.Depth))
		if !r.Matches() {
			br.Mismatched++
		}
	}
	log.Info().Int("positions", br.Total).Int("failed", br.Failed).
		Int("threads", an.threads).Dur("elapsed", time.Since(tstart)).Msg("batch-analyzed")
	return br, nil
}

func (an *Analyzer) analyzeOne(ctx context.Context, p Position) *PositionResult {
	r := &PositionResult{Position: p}
	b, err := board.FromString(p.Board)
	if err != nil {
		r.Err = err
		return r
	}
	r.Board = b
	r.Decision, r.Err = an.player.Decide(ctx, b)
	if r.Err != nil {
		log.Debug().Err(r.Err).Str("position", p.Name).Msg("analysis-failed")
	}
	return r
}

// Failures returns the results that could not be decided.
func (br *BatchResult) Failures() []*PositionResult {
	return lo.Filter(br.Results, func(r *PositionResult, _ int) bool { return r.Err != nil })
}

// Summary renders the batch as a table.
func (br *BatchResult) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-20s %-6s %8s %6s %9s  %s\n", "Position", "Move", "Score", "Depth", "Time(ms)", "Note")
	for _, r := range br.Results {
		if r.Err != nil {
			fmt.Fprintf(&sb, "%-20s %-6s %8s %6s %9s  %s\n", r.Position.Name, "-", "-", "-", "-", r.Err.Error())
			continue
		}
		note := ""
		if !r.Matches() {
			note = "expected " + r.Position.Expect
		}
		d := r.Decision
		fmt.Fprintf(&sb, "%-20s %-6s %8.2f %6d %9d  %s\n", r.Position.Name, d.Move, d.Score, d.Depth, d.ElapsedMS, note)
	}
	fmt.Fprintf(&sb, "\n%d positions, %d failed, %d mismatched\n", br.Total, br.Failed, br.Mismatched)
	if br.Latency.Iterations() > 0 {
		fmt.Fprintf(&sb, "time(ms): %s\n", br.Latency.String())
		fmt.Fprintf(&sb, "depth:    %s\n", br.Depth.String())
	}
	return sb.String()
}
