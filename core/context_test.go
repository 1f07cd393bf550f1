package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely read concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	ctx = withSourceName(ctx, "diary.csv")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			assert.True(t, shouldSuppressHeader(ctx), "Goroutine %d: header should be suppressed", i)
			assert.Equal(t, "diary.csv", sourceName(ctx, "stdin"), "Goroutine %d", i)
		})
	}
	wg.Wait()
}

// TestContextIsolation tests that derived contexts do not leak into their parents.
func TestContextIsolation(t *testing.T) {
	base := context.Background()
	named := withSourceName(base, "watched.csv")
	suppressed := WithSuppressHeader(named)

	assert.False(t, shouldSuppressHeader(base))
	assert.False(t, shouldSuppressHeader(named))
	assert.True(t, shouldSuppressHeader(suppressed))

	assert.Equal(t, "stdin", sourceName(base, "stdin"))
	assert.Equal(t, "watched.csv", sourceName(suppressed, "stdin"))
	assert.Equal(t, "stdin", sourceName(withSourceName(base, ""), "stdin"))
}

func TestShouldSuppressHeaderWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), suppressHeaderKey, "yes")
	assert.False(t, shouldSuppressHeader(ctx))
}
