package realtime

import (
	"context"
	"time"

	"github.com/yungbote/tidyhome-backend/internal/observability"
	"github.com/yungbote/tidyhome-backend/internal/platform/ctxutil"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
)

// Sink is the publishing half of an event bus.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// Emitter publishes domain events after their write has committed. Publish failures
// are logged and counted; they never fail the operation that produced the event.
type Emitter struct {
	sink    Sink
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewEmitter(sink Sink, log *logger.Logger, metrics *observability.Metrics) *Emitter {
	return &Emitter{sink: sink, log: log.With("component", "EventEmitter"), metrics: metrics}
}

func (e *Emitter) Emit(ctx context.Context, typ EventType, at time.Time, data any) {
	if e == nil || e.sink == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ev := NewEvent(typ, at, data)
	if err := e.sink.Publish(ctx, ev); err != nil {
		kv := append([]interface{}{"type", typ, "error", err}, ctxutil.LogFields(ctx)...)
		e.log.Warn("event publish failed", kv...)
		e.metrics.IncEventPublished(string(typ), "error")
		return
	}
	e.metrics.IncEventPublished(string(typ), "ok")
}
