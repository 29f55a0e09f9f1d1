package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
)

// redisPublisher mirrors each reading under a key and publishes it on a
// channel, so every instance subscribed to that channel can fan it out.
type redisPublisher struct {
	rdb     *redis.Client
	key     string
	channel string
}

func newRedisPublisher(rdb *redis.Client, key, channel string) *redisPublisher {
	return &redisPublisher{rdb: rdb, key: key, channel: channel}
}

// Publish stores payload under the key and then publishes it.
func (p *redisPublisher) Publish(ctx context.Context, payload []byte) error {
	if err := p.rdb.Set(ctx, p.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", p.key, err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}

// restoreLatestData recreates a missing slot from the reading mirrored in Redis.
// An existing slot is left alone: the file is authoritative.
func restoreLatestData(ctx context.Context, rdb *redis.Client, key string, s *slot) error {
	if _, err := os.Stat(s.Path()); err == nil {
		debugLog("Slot %s exists, skipping restore", s.Path())
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", s.Path(), err)
	}

	data, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		debugLog("No reading stored under %s", key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := s.Write(data); err != nil {
		return err
	}
	infoLog("Restored %d bytes from %s into %s", len(data), key, s.Path())
	return nil
}

// startRedisSubscriber subscribes to a Redis pub/sub channel and
// forwards incoming messages to the hub. It returns once the
// subscription is confirmed; forwarding continues in the background
// until ctx is cancelled.
func startRedisSubscriber(ctx context.Context, rdb *redis.Client, channel string, h *hub) error {
	pubsub := rdb.Subscribe(ctx, channel)

	// Wait for the subscription to be confirmed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}
	// Channel that delivers published messages.
	ch := pubsub.Channel()

	infoLog("Subscribed to %s", channel)

	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				debugLog("Received %d bytes on %s", len(msg.Payload), msg.Channel)
				h.enqueue([]byte(msg.Payload))
			}
		}
	}()
	return nil
}
