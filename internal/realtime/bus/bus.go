package bus

import (
	"context"

	"github.com/yungbote/tidyhome-backend/internal/realtime"
)

// Bus carries domain events between processes. Publish never blocks on subscribers.
type Bus interface {
	Publish(ctx context.Context, ev realtime.Event) error
	StartForwarder(ctx context.Context, onMsg func(ev realtime.Event)) error
	Close() error
}
