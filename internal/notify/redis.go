package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const channelPrefix = "portfolio:changes:"

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// RedisBus fans change events out to every process subscribed to the same
// Redis, one channel per table.
type RedisBus struct {
	rdb *redis.Client
	log *logrus.Entry
}

func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb, log: logrus.WithField("component", "notify.redis")}
}

func Channel(table string) string {
	return channelPrefix + table
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, Channel(ev.Table), payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, table string, h Handler) (Subscription, error) {
	ps := b.rdb.Subscribe(ctx, Channel(table))
	// Wait for the subscription confirmation so no event published after
	// Subscribe returns can be missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", table, err)
	}

	go func() {
		for msg := range ps.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.WithError(err).WithField("channel", msg.Channel).Warn("dropping malformed change event")
				continue
			}
			h(ev)
		}
	}()
	return ps, nil
}
