package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/autobot/roboplane/internal/logger"
)

// redisHeartbeatBus is a single-channel Redis pub/sub bus: publish on the
// actuator side, subscribe-with-no-filter on the aggregator side.
type redisHeartbeatBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewRedisHeartbeatBus(addr, channel string, log *logger.Logger) (*redisHeartbeatBus, error) {
	if channel == "" {
		channel = "roboplane.heartbeat"
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisHeartbeatBus{
		log:     log.With("component", "RedisHeartbeatBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *redisHeartbeatBus) Publish(ctx context.Context, hb HeartbeatEnvelope) error {
	raw, err := json.Marshal(hb)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *redisHeartbeatBus) Subscribe(ctx context.Context, onMsg func(HeartbeatEnvelope)) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			_ = sub.Close()
			return nil
		case m, ok := <-ch:
			if !ok || m == nil {
				_ = sub.Close()
				return nil
			}
			var hb HeartbeatEnvelope
			if err := json.Unmarshal([]byte(m.Payload), &hb); err != nil {
				b.log.Warn("bad heartbeat payload", "error", err)
				continue
			}
			onMsg(hb)
		}
	}
}

func (b *redisHeartbeatBus) Close() error {
	return b.rdb.Close()
}
