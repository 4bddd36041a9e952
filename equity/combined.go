package equity

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/config"
)

// Weights for the five heuristics. They were tuned by hand; the comments
// give the range that still plays reasonably.
type Weights struct {
	Smoothness   float64 // 0.1 - 0.3
	Monotonicity float64 // 0.6 - 1.5
	Empty        float64 // 2.5 - 3.5
	Duplication  float64 // 0.5 - 1.0
	MaxTile      float64 // 0.5 - 1.5
}

var DefaultWeights = Weights{
	Smoothness:   0.2,
	Monotonicity: 1.2,
	Empty:        2.8,
	Duplication:  0.2,
	MaxTile:      1.1,
}

// WeightsFromConfig reads the weights.* keys.
func WeightsFromConfig(cfg *config.Config) Weights {
	return Weights{
		Smoothness:   cfg.GetFloat64(config.ConfigWeightSmoothness),
		Monotonicity: cfg.GetFloat64(config.ConfigWeightMonotonicity),
		Empty:        cfg.GetFloat64(config.ConfigWeightEmpty),
		Duplication:  cfg.GetFloat64(config.ConfigWeightDuplication),
		MaxTile:      cfg.GetFloat64(config.ConfigWeightMaxTile),
	}
}

func (w Weights) vector() []float64 {
	return []float64{w.Smoothness, w.Monotonicity, w.Empty, w.Duplication, w.MaxTile}
}

// WeightedCalculator is the evaluation used by the search: a weighted sum of
// smoothness, monotonicity, empty cells, duplication and max tile.
type WeightedCalculator struct {
	calculators []Calculator
	weights     []float64
}

func NewWeightedCalculator(w Weights) *WeightedCalculator {
	return &WeightedCalculator{
		calculators: []Calculator{
			Smoothness{}, Monotonicity{}, EmptyCells{}, Duplication{}, MaxTile{},
		},
		weights: w.vector(),
	}
}

func (wc *WeightedCalculator) terms(b board.Board) []float64 {
	terms := make([]float64, len(wc.calculators))
	for i, c := range wc.calculators {
		terms[i] = c.Equity(b)
	}
	return terms
}

func (wc *WeightedCalculator) Equity(b board.Board) float64 {
	return floats.Dot(wc.weights, wc.terms(b))
}

func (wc *WeightedCalculator) Type() string {
	return "WeightedCalculator"
}

// Term is one heuristic's contribution to an evaluation.
type Term struct {
	Name     string
	Raw      float64
	Weight   float64
	Weighted float64
}

// Breakdown returns every heuristic's raw and weighted value.
func (wc *WeightedCalculator) Breakdown(b board.Board) []Term {
	raw := wc.terms(b)
	out := make([]Term, len(raw))
	for i := range raw {
		out[i] = Term{
			Name:     wc.calculators[i].Type(),
			Raw:      raw[i],
			Weight:   wc.weights[i],
			Weighted: raw[i] * wc.weights[i],
		}
	}
	return out
}

// BreakdownText renders a breakdown as a small table.
func BreakdownText(terms []Term) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-14s %9s %7s %9s\n", "Heuristic", "Raw", "Weight", "Weighted"))
	total := 0.0
	for _, t := range terms {
		sb.WriteString(fmt.Sprintf("%-14s %9.3f %7.2f %9.3f\n", t.Name, t.Raw, t.Weight, t.Weighted))
		total += t.Weighted
	}
	sb.WriteString(fmt.Sprintf("%-14s %9s %7s %9.3f\n", "Total", "", "", total))
	return sb.String()
}
