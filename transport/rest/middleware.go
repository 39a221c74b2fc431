package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type requestObserver interface {
	ObserveHTTPRequest(method, path, status string, seconds float64)
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per caller identity, falling back to the
// remote address for anonymous requests.
type RateLimiter struct {
	logger *slog.Logger

	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

func NewRateLimiter(logger *slog.Logger, requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		logger:   logger.With("component", "rate_limiter"),
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		now:      time.Now,
	}
}

func (that *RateLimiter) limiter(key string) *rate.Limiter {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(that.rate, that.burst)}
		that.limiters[key] = entry
	}

	entry.lastSeen = that.now()

	return entry.limiter
}

// Cleanup drops limiters unused for longer than idle. A dropped caller
// starts again with a full burst.
func (that *RateLimiter) Cleanup(idle time.Duration) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	deadline := that.now().Add(-idle)

	removed := 0
	for key, entry := range that.limiters {
		if entry.lastSeen.Before(deadline) {
			delete(that.limiters, key)
			removed++
		}
	}

	return removed
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (that *RateLimiter) StartCleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := that.Cleanup(idle); removed > 0 {
					that.logger.Debug("evicted idle limiters", "count", removed)
				}
			}
		}
	}()
}

func (that *RateLimiter) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.limiters)
}

func (that *RateLimiter) Handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		key := identityOf(ctx)
		if key == "" {
			key = ctx.RealIP()
		}

		if !that.limiter(key).Allow() {
			that.logger.Warn("rate limit exceeded", "key", key, "path", ctx.Path())
			return ctx.JSON(http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		}

		return next(ctx)
	}
}

// observeRequests records every request under its route pattern.
func observeRequests(observer requestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()

			err := next(ctx)

			status := ctx.Response().Status
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				status = httpErr.Code
			}

			observer.ObserveHTTPRequest(
				ctx.Request().Method, ctx.Path(), strconv.Itoa(status), time.Since(start).Seconds(),
			)

			return err
		}
	}
}
