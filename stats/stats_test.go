package stats

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
	}
}

func TestMinMax(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	for _, v := range []float64{5, -2, 9, 3} {
		s.Push(v)
	}
	is.Equal(s.Min(), -2.0)
	is.Equal(s.Max(), 9.0)
	is.Equal(s.Last(), 3.0)
	is.Equal(s.Iterations(), 4)
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540054))
	is.True(FuzzyEqual(ZVal(99), 2.5758293035489))
}

func TestConfidenceInterval(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	is.Equal(s.ConfidenceInterval(95), 0.0)
	for _, v := range []float64{10, 12, 23, 23, 16, 23, 21, 16} {
		s.Push(v)
	}
	is.True(FuzzyEqual(s.ConfidenceInterval(95), ZVal(95)*s.Stdev()/2.8284271247461903))
}

func TestRecorderWraps(t *testing.T) {
	is := is.New(t)
	r := NewRecorder(3)
	for i := 1; i <= 5; i++ {
		r.Push(float64(i))
	}
	is.Equal(r.Samples(), []float64{3, 4, 5})
	snap := r.Snapshot()
	is.Equal(snap.Iterations(), 5)
	is.True(FuzzyEqual(snap.Mean(), 3))
}

func TestRecorderConcurrent(t *testing.T) {
	is := is.New(t)
	r := NewRecorder(0)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				r.Push(1)
			}
		}()
	}
	wg.Wait()
	snap := r.Snapshot()
	is.Equal(snap.Iterations(), 800)
	is.Equal(len(r.Samples()), 800)
}

func TestHistogram(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	err := Histogram(&buf, nil, 5)
	is.True(errors.Is(err, ErrNoSamples))

	r := NewRecorder(10)
	for _, v := range []float64{1, 2, 2, 3, 3, 3} {
		r.Push(v)
	}
	is.NoErr(r.Histogram(&buf, 3))
	is.True(buf.Len() > 0)
}
