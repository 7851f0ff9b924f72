package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisSink publishes notifications as JSON on a Redis pub/sub channel.
type RedisSink struct {
	client  publisher
	raw     *redis.Client
	channel string
}

// NewRedisSink connects to url and verifies the connection with PING.
func NewRedisSink(ctx context.Context, url, channel string) (*RedisSink, error) {
	if url == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisSink{client: raw, raw: raw, channel: channel}, nil
}

func (s *RedisSink) Notify(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, body).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", s.channel, err)
	}
	return nil
}

func (s *RedisSink) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
