package stats

import (
	"errors"
	"io"

	"github.com/aybabtme/uniplot/histogram"
)

const histogramWidth = 50

var ErrNoSamples = errors.New("no samples")

// Histogram prints a horizontal bar histogram of vals.
func Histogram(w io.Writer, vals []float64, bins int) error {
	if len(vals) == 0 {
		return ErrNoSamples
	}
	if bins <= 0 {
		bins = 10
	}
	hist := histogram.Hist(bins, vals)
	return histogram.Fprint(w, hist, histogram.Linear(histogramWidth))
}
