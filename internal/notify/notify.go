package notify

import (
	"context"
	"log/slog"
	"sync"
)

// LogNotifier writes notifications to the log instead of delivering them.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger.With("component", "notifier"),
	}
}

func (that *LogNotifier) Send(ctx context.Context, recipient, message string) error {
	that.logger.InfoContext(ctx, "notification", "recipient", recipient, "message", message)

	return nil
}

// Counter keeps per-user operation counters in process.
type Counter struct {
	mu     sync.Mutex
	counts map[string]map[string]int64
}

func NewCounter() *Counter {
	return &Counter{
		counts: make(map[string]map[string]int64),
	}
}

func (that *Counter) Increment(_ context.Context, user, kind string) (int64, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	userCounts, ok := that.counts[user]
	if !ok {
		userCounts = make(map[string]int64)
		that.counts[user] = userCounts
	}

	userCounts[kind]++

	return userCounts[kind], nil
}

func (that *Counter) Counts(_ context.Context, user string) (map[string]int64, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	counts := make(map[string]int64, len(that.counts[user]))
	for kind, count := range that.counts[user] {
		counts[kind] = count
	}

	return counts, nil
}
