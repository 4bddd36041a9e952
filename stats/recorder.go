package stats

import (
	"io"
	"sync"
)

// DefaultSampleCap is how many recent samples a Recorder keeps for its
// histogram.
const DefaultSampleCap = 1000

// Recorder is a Statistic that can be pushed to from several goroutines. It
// also keeps the most recent samples, oldest first once full.
type Recorder struct {
	mu      sync.Mutex
	stat    Statistic
	samples []float64
	next    int
	cap     int
}

func NewRecorder(sampleCap int) *Recorder {
	if sampleCap <= 0 {
		sampleCap = DefaultSampleCap
	}
	return &Recorder{cap: sampleCap, samples: make([]float64, 0, sampleCap)}
}

func (r *Recorder) Push(val float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stat.Push(val)
	if len(r.samples) < r.cap {
		r.samples = append(r.samples, val)
		return
	}
	r.samples[r.next] = val
	r.next = (r.next + 1) % r.cap
}

// Snapshot returns a copy of the running statistic.
func (r *Recorder) Snapshot() Statistic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stat
}

// Samples returns the retained samples, oldest first.
func (r *Recorder) Samples() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, 0, len(r.samples))
	out = append(out, r.samples[r.next:]...)
	out = append(out, r.samples[:r.next]...)
	return out
}

// Histogram writes a histogram of the retained samples.
func (r *Recorder) Histogram(w io.Writer, bins int) error {
	return Histogram(w, r.Samples(), bins)
}
