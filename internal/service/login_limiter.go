package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const loginFailureKeyPrefix = "login_failures:"

// LoginLimiter throttles repeated failed logins per email using Redis.
// Without a client (or with Redis down) it allows everything; the limiter
// is a brake, not a gate.
type LoginLimiter struct {
	client      *redis.Client
	maxFailures int
	window      time.Duration
	logger      *zap.Logger
}

// NewLoginLimiter builds a limiter. client may be nil to disable limiting.
func NewLoginLimiter(client *redis.Client, maxFailures int, window time.Duration, logger *zap.Logger) *LoginLimiter {
	return &LoginLimiter{client: client, maxFailures: maxFailures, window: window, logger: logger}
}

// TooManyFailures reports whether the email has exhausted its attempts.
func (l *LoginLimiter) TooManyFailures(ctx context.Context, email string) bool {
	if l == nil || l.client == nil || l.maxFailures <= 0 {
		return false
	}
	count, err := l.client.Get(ctx, failureKey(email)).Int64()
	if err != nil {
		if err != redis.Nil {
			l.logger.Warn("login limiter unavailable", zap.Error(err))
		}
		return false
	}
	return count >= int64(l.maxFailures)
}

// RecordFailure counts one failed attempt within the rolling window.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) {
	if l == nil || l.client == nil {
		return
	}
	key := failureKey(email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("login limiter unavailable", zap.Error(err))
		return
	}
	if count == 1 {
		l.client.Expire(ctx, key, l.window)
	}
}

// Reset clears the failure counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if l == nil || l.client == nil {
		return
	}
	if err := l.client.Del(ctx, failureKey(email)).Err(); err != nil {
		l.logger.Warn("login limiter unavailable", zap.Error(err))
	}
}

func failureKey(email string) string {
	return loginFailureKeyPrefix + strings.ToLower(email)
}
