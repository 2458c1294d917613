package realtime

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventJobCreated            EventType = "job.created"
	EventJobCompleted          EventType = "job.completed"
	EventJobCancelled          EventType = "job.cancelled"
	EventSubscriptionCreated   EventType = "subscription.created"
	EventSubscriptionPaused    EventType = "subscription.paused"
	EventSubscriptionResumed   EventType = "subscription.resumed"
	EventSubscriptionCancelled EventType = "subscription.cancelled"
	EventTimeLogClockIn        EventType = "timelog.clock_in"
	EventTimeLogClockOut       EventType = "timelog.clock_out"
)

// Channels group events by the record they describe. ChannelAll receives everything.
const (
	ChannelAll           = "all"
	ChannelJobs          = "jobs"
	ChannelSubscriptions = "subscriptions"
	ChannelTimeLogs      = "timelogs"
)

type Event struct {
	ID      uuid.UUID `json:"id"`
	Type    EventType `json:"type"`
	Channel string    `json:"channel"`
	At      time.Time `json:"at"`
	Data    any       `json:"data,omitempty"`
}

func NewEvent(typ EventType, at time.Time, data any) Event {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return Event{
		ID:      uuid.New(),
		Type:    typ,
		Channel: ChannelFor(typ),
		At:      at.UTC(),
		Data:    data,
	}
}

func ChannelFor(typ EventType) string {
	prefix, _, _ := strings.Cut(string(typ), ".")
	switch prefix {
	case "job":
		return ChannelJobs
	case "subscription":
		return ChannelSubscriptions
	case "timelog":
		return ChannelTimeLogs
	default:
		return ChannelAll
	}
}

func IsKnownChannel(ch string) bool {
	switch ch {
	case ChannelAll, ChannelJobs, ChannelSubscriptions, ChannelTimeLogs:
		return true
	default:
		return false
	}
}
