package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/matryer/is"
)

func TestLoadBuildsOnce(t *testing.T) {
	is := is.New(t)
	calls := 0
	lf := func(key string) (any, error) {
		calls++
		return key + "-value", nil
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obj, err := Load("test:once", lf)
			is.NoErr(err)
			is.Equal(obj.(string), "test:once-value")
		}()
	}
	wg.Wait()
	is.Equal(calls, 1)
}

func TestLoadError(t *testing.T) {
	is := is.New(t)
	boom := errors.New("boom")
	_, err := Load("test:error", func(string) (any, error) { return nil, boom })
	is.Equal(err, boom)
	// a failed load is not remembered
	obj, err := Load("test:error", func(string) (any, error) { return 3, nil })
	is.NoErr(err)
	is.Equal(obj.(int), 3)
}
