package middleware

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheInvalidatorCoalescesBursts(t *testing.T) {
	var mu sync.Mutex
	var flushed []string

	inv := newCacheInvalidator(30*time.Millisecond, func(pattern string) {
		mu.Lock()
		flushed = append(flushed, pattern)
		mu.Unlock()
	})
	defer inv.Stop()

	for i := 0; i < 5; i++ {
		inv.Invalidate("cache:*")
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"cache:*"}, flushed)
}

func TestCacheInvalidatorStopDropsPendingFlush(t *testing.T) {
	var mu sync.Mutex
	count := 0

	inv := newCacheInvalidator(30*time.Millisecond, func(string) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	inv.Invalidate("cache:*")
	inv.Stop()

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Zero(t, count)
}
