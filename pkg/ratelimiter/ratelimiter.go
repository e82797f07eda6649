package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"anoa.com/yamdb/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

// Limiter keeps per-subject cooldowns in redis. A nil client disables limiting.
type Limiter struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

func key(subject, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", action, subject)
}

// CheckAndSet reports whether action is allowed for subject and, if so, starts
// its cooldown.
func (l *Limiter) CheckAndSet(ctx context.Context, subject, action string, limit time.Duration) (bool, error) {
	if l == nil || l.rdb == nil || limit <= 0 {
		return true, nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(subject, action), "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func (l *Limiter) TTL(ctx context.Context, subject, action string) (time.Duration, error) {
	if l == nil || l.rdb == nil {
		return 0, nil
	}
	return l.rdb.TTL(ctx, key(subject, action)).Result()
}

func (l *Limiter) Clear(ctx context.Context, subject, action string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	_, err := l.rdb.Del(ctx, key(subject, action)).Result()
	return err
}

// Enforce wraps CheckAndSet and turns a refusal into a RateLimitError.
func (l *Limiter) Enforce(ctx context.Context, subject, action string, limit time.Duration) error {
	allowed, err := l.CheckAndSet(ctx, subject, action, limit)
	if err != nil {
		return err
	}
	if allowed {
		return nil
	}

	ttl, _ := l.TTL(ctx, subject, action)
	return &RateLimitError{
		Message:    fmt.Sprintf("you are doing that too fast. Please wait %.0f seconds", ttl.Seconds()),
		RetryAfter: ttl,
	}
}
