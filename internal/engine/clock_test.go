package engine_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/wizard/internal/engine"
)

func TestClock(t *testing.T) {
	c := engine.NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())

	at := engine.NewClockAt(41)
	assert.Equal(t, int64(42), at.Next())
}

func TestClock_ConcurrentUnique(t *testing.T) {
	c := engine.NewClock()
	seen := make(chan int64, 1000)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				seen <- c.Next()
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[int64]bool{}
	for v := range seen {
		assert.False(t, unique[v], "duplicate seq %d", v)
		unique[v] = true
	}
	assert.Len(t, unique, 1000)
}
