package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event is the notification payload published to a recipient's channel.
type Event struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Message   string    `json:"message"`
	SentAt    time.Time `json:"sent_at"`
}

// Client delivers notifications over redis pub/sub and keeps per-user
// operation counters in redis hashes.
type Client struct {
	client *redis.Client
}

func New(client *redis.Client) *Client {
	return &Client{client: client}
}

func NotifyChannel(recipient string) string {
	return "notify:" + recipient
}

func counterKey(user string) string {
	return "counter:" + user
}

// Send publishes message on the recipient's channel.
func (that *Client) Send(ctx context.Context, recipient, message string) error {
	event := Event{
		ID:        uuid.NewString(),
		Recipient: recipient,
		Message:   message,
		SentAt:    time.Now().UTC(),
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, NotifyChannel(recipient), eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Increment bumps the user's counter for kind and returns the new value.
func (that *Client) Increment(ctx context.Context, user, kind string) (int64, error) {
	count, err := that.client.HIncrBy(ctx, counterKey(user), kind, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s counter: %w", kind, err)
	}

	return count, nil
}

// Counts returns every counter of the user.
func (that *Client) Counts(ctx context.Context, user string) (map[string]int64, error) {
	values, err := that.client.HGetAll(ctx, counterKey(user)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read counters: %w", err)
	}

	counts := make(map[string]int64, len(values))
	for kind, value := range values {
		count, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s counter: %w", kind, err)
		}

		counts[kind] = count
	}

	return counts, nil
}
