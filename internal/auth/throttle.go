package auth

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle limits repeated login attempts for the same email.
type LoginThrottle interface {
	// Attempt counts one login attempt and reports whether it may proceed.
	// Counting and checking happen in one step so concurrent attempts cannot
	// slip past the limit.
	Attempt(ctx context.Context, email string) (bool, error)
	// Reset clears the count after a successful login.
	Reset(ctx context.Context, email string) error
}

// NopThrottle never limits.
type NopThrottle struct{}

// Attempt always allows.
func (NopThrottle) Attempt(context.Context, string) (bool, error) {
	return true, nil
}

// Reset does nothing.
func (NopThrottle) Reset(context.Context, string) error {
	return nil
}

// RedisThrottle keeps a per-email attempt counter that expires after window.
// Successful logins reset it, so in practice it counts failures.
type RedisThrottle struct {
	client      redis.Cmdable
	maxAttempts int
	window      time.Duration
}

// NewRedisThrottle builds a throttle. maxAttempts <= 0 disables limiting.
func NewRedisThrottle(client redis.Cmdable, maxAttempts int, window time.Duration) *RedisThrottle {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisThrottle{client: client, maxAttempts: maxAttempts, window: window}
}

// Attempt increments the counter with INCR and compares the value it returns.
// The window starts at the first attempt. Redis errors allow the attempt.
func (t *RedisThrottle) Attempt(ctx context.Context, email string) (bool, error) {
	if t.maxAttempts <= 0 {
		return true, nil
	}
	key := throttleKey(email)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return true, err
		}
	}
	return count <= int64(t.maxAttempts), nil
}

// Reset deletes the counter for email.
func (t *RedisThrottle) Reset(ctx context.Context, email string) error {
	if t.maxAttempts <= 0 {
		return nil
	}
	return t.client.Del(ctx, throttleKey(email)).Err()
}

func throttleKey(email string) string {
	return "login_failures:" + strings.ToLower(strings.TrimSpace(email))
}
