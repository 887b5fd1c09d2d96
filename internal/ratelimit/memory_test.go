package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCounter_Incr(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCounter()

	for want := int64(1); want <= 3; want++ {
		got, err := c.Incr(ctx, "k", time.Minute)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Independent keys have independent windows
	got, err := c.Incr(ctx, "other", time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestMemoryCounter_WindowReset(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCounter()

	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := c.Incr(ctx, "k", time.Minute)
	assert.NoError(t, err)
	got, err := c.Incr(ctx, "k", time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), got)

	// Advance past the window: the count starts over
	now = now.Add(time.Minute + time.Second)
	got, err = c.Incr(ctx, "k", time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), got)
}
