package ratelimiter

import (
	"context"
	"testing"
	"time"

	"anoa.com/yamdb/pkg/apperror"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb), mr
}

func TestEnforce(t *testing.T) {
	ctx := context.Background()
	l, mr := newLimiter(t)

	require.NoError(t, l.Enforce(ctx, "jane@example.com", "signup", time.Minute))

	err := l.Enforce(ctx, "jane@example.com", "signup", time.Minute)
	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)
	assert.Greater(t, rle.RetryAfter, time.Duration(0))

	// other subjects are independent
	assert.NoError(t, l.Enforce(ctx, "john@example.com", "signup", time.Minute))

	mr.FastForward(2 * time.Minute)
	assert.NoError(t, l.Enforce(ctx, "jane@example.com", "signup", time.Minute))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	l, _ := newLimiter(t)

	require.NoError(t, l.Enforce(ctx, "s", "a", time.Minute))
	require.NoError(t, l.Clear(ctx, "s", "a"))
	assert.NoError(t, l.Enforce(ctx, "s", "a", time.Minute))
}

func TestNilClientAllowsEverything(t *testing.T) {
	ctx := context.Background()
	l := New(nil)

	for i := 0; i < 3; i++ {
		assert.NoError(t, l.Enforce(ctx, "s", "a", time.Minute))
	}

	var missing *Limiter
	assert.NoError(t, missing.Enforce(ctx, "s", "a", time.Minute))
}
