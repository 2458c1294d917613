package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
	"github.com/yungbote/tidyhome-backend/internal/realtime"
)

// DefaultChannel is the topic prefix; events go to "<prefix>.<channel>".
const DefaultChannel = "tidyhome.events"

var errRedisClosed = errors.New("redis event bus not initialized")

type redisBus struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewRedisBus(log *logger.Logger, addr, prefix string) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if addr = strings.TrimSpace(addr); addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &redisBus{
		log:    log.With("service", "RedisEventBus"),
		rdb:    rdb,
		prefix: topicPrefix(prefix),
	}, nil
}

func topicPrefix(raw string) string {
	p := strings.Trim(strings.TrimSpace(raw), ".")
	if p == "" {
		return DefaultChannel
	}
	return p
}

func topicFor(prefix string, ev realtime.Event) string {
	ch := ev.Channel
	if ch == "" {
		ch = realtime.ChannelFor(ev.Type)
	}
	return prefix + "." + ch
}

func (b *redisBus) Publish(ctx context.Context, ev realtime.Event) error {
	if b == nil || b.rdb == nil {
		return errRedisClosed
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Type, err)
	}
	return b.rdb.Publish(ctx, topicFor(b.prefix, ev), raw).Err()
}

// StartForwarder pattern-subscribes to every topic under the prefix and hands
// decoded events to onMsg until ctx ends.
func (b *redisBus) StartForwarder(ctx context.Context, onMsg func(ev realtime.Event)) error {
	if b == nil || b.rdb == nil {
		return errRedisClosed
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}
	pattern := b.prefix + ".*"
	sub := b.rdb.PSubscribe(ctx, pattern)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis psubscribe %s: %w", pattern, err)
	}
	b.log.Info("forwarding events", "pattern", pattern)

	go func() {
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var ev realtime.Event
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.log.Warn("dropping undecodable event", "topic", m.Channel, "error", err)
					continue
				}
				onMsg(ev)
			}
		}
	}()
	return nil
}

func (b *redisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
