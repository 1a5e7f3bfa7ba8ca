package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"market-chat/internal/infrastructure/bus/port"
)

// RedisBus implements the fanout port over Redis pub/sub. All instances share
// one named channel; PUBLISH reaches every SUBSCRIBEd instance, which is
// exactly the at-most-once broadcast the chat fanout needs.
type RedisBus struct {
	client  *redis.Client
	channel string
	sub     *redis.PubSub
}

// NewRedisBus connects to Redis at url and prepares a bus on the given channel.
func NewRedisBus(url, channel string) (*RedisBus, error) {
	if url == "" {
		return nil, errors.New("bus: empty redis URL")
	}
	if channel == "" {
		return nil, errors.New("bus: empty channel name")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("bus: parse url: %w", err)
	}
	c := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("bus: ping: %w", err)
	}
	return &RedisBus{client: c, channel: channel}, nil
}

var _ port.Bus = (*RedisBus)(nil)

func (b *RedisBus) Publish(ctx context.Context, payload []byte) error {
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("bus: publish to %s: %w", b.channel, err)
	}
	return nil
}

// Subscribe registers the single per-instance handler. Only one subscription
// per RedisBus is supported; a second call replaces nothing and errors.
func (b *RedisBus) Subscribe(ctx context.Context, h port.Handler) error {
	if b.sub != nil {
		return errors.New("bus: already subscribed")
	}
	sub := b.client.Subscribe(ctx, b.channel)
	// Force the SUBSCRIBE round-trip so a broken connection surfaces here
	// instead of silently dropping messages later.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("bus: subscribe to %s: %w", b.channel, err)
	}
	b.sub = sub

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				h(ctx, []byte(msg.Payload))
			}
		}
	}()

	slog.Info("bus subscribed", "channel", b.channel)
	return nil
}

func (b *RedisBus) Close() error {
	if b.sub != nil {
		_ = b.sub.Close()
	}
	return b.client.Close()
}
