package bus

import (
	"context"
	"sync"

	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
	"github.com/yungbote/tidyhome-backend/internal/realtime"
)

// localBus is the single-process fallback when no REDIS_ADDR is configured.
// Events are logged and handed straight to the registered forwarders.
type localBus struct {
	log *logger.Logger

	mu       sync.RWMutex
	handlers []func(ev realtime.Event)
}

func NewLocalBus(log *logger.Logger) Bus {
	return &localBus{log: log.With("service", "LocalEventBus")}
}

func (b *localBus) Publish(ctx context.Context, ev realtime.Event) error {
	b.log.Info("event published", "type", ev.Type, "event_id", ev.ID, "channel", ev.Channel)
	b.mu.RLock()
	handlers := append([]func(realtime.Event){}, b.handlers...)
	b.mu.RUnlock()
	for _, h := range handlers {
		h(ev)
	}
	return nil
}

func (b *localBus) StartForwarder(ctx context.Context, onMsg func(ev realtime.Event)) error {
	if onMsg == nil {
		return nil
	}
	b.mu.Lock()
	b.handlers = append(b.handlers, onMsg)
	idx := len(b.handlers) - 1
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		if idx < len(b.handlers) {
			b.handlers[idx] = func(realtime.Event) {}
		}
		b.mu.Unlock()
	}()
	return nil
}

func (b *localBus) Close() error {
	b.mu.Lock()
	b.handlers = nil
	b.mu.Unlock()
	return nil
}

// New picks the redis bus when addr is set and falls back to the local bus if redis is unreachable.
func New(log *logger.Logger, addr, channel string) Bus {
	if addr == "" {
		return NewLocalBus(log)
	}
	b, err := NewRedisBus(log, addr, channel)
	if err != nil {
		log.Warn("redis event bus unavailable; using local bus", "error", err)
		return NewLocalBus(log)
	}
	return b
}
