package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes events as JSON on redis pub/sub channels named
// after the event topic.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", e.Topic(), err)
	}
	if err := p.client.Publish(ctx, e.Topic(), payload).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", e.Topic(), err)
	}
	return nil
}
