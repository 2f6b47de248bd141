package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_StartsAtZero(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
}

func TestClock_ResumesAfterRecordedSeq(t *testing.T) {
	// A run log whose highest seq is 41 hands out 42 next.
	c := NewClockAt(41)
	require.Equal(t, int64(41), c.Current())

	assert.Equal(t, []int64{42, 43, 44}, []int64{c.Next(), c.Next(), c.Next()})
	assert.Equal(t, int64(44), c.Current())
}

func TestClock_CurrentIsReadOnly(t *testing.T) {
	c := NewClockAt(7)
	for range 3 {
		assert.Equal(t, int64(7), c.Current())
	}
}

func TestClock_ConcurrentRunsGetDistinctSeqs(t *testing.T) {
	c := NewClock()
	const workers, runsEach = 16, 250

	var (
		mu   sync.Mutex
		seen = make(map[int64]struct{}, workers*runsEach)
		wg   sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, runsEach)
			for range runsEach {
				local = append(local, c.Next())
			}
			mu.Lock()
			for _, seq := range local {
				seen[seq] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*runsEach)
	assert.Equal(t, int64(workers*runsEach), c.Current())
}
