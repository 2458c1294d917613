package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
)

func recvEvent(t *testing.T, ch <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
	}
	return Event{}
}

func TestChannelFor(t *testing.T) {
	cases := map[EventType]string{
		EventJobCreated:            ChannelJobs,
		EventSubscriptionCancelled: ChannelSubscriptions,
		EventTimeLogClockOut:       ChannelTimeLogs,
		EventType("other"):         ChannelAll,
	}
	for typ, want := range cases {
		if got := ChannelFor(typ); got != want {
			t.Fatalf("ChannelFor(%s): want=%s got=%s", typ, want, got)
		}
	}
}

func TestHubBroadcastOrderingAndAllChannel(t *testing.T) {
	hub := NewHub(logger.Nop())

	jobs := hub.NewClient()
	hub.AddChannel(jobs, ChannelJobs)
	all := hub.NewClient()
	hub.AddChannel(all, ChannelAll)
	hub.AddChannel(all, ChannelJobs)

	first := NewEvent(EventJobCreated, time.Time{}, map[string]any{"seq": 1})
	second := NewEvent(EventJobCompleted, time.Time{}, map[string]any{"seq": 2})
	hub.Broadcast(first)
	hub.Broadcast(second)
	hub.Broadcast(NewEvent(EventTimeLogClockIn, time.Time{}, nil))

	if got := recvEvent(t, jobs.Outbound, time.Second); got.ID != first.ID {
		t.Fatalf("first event: want=%s got=%s", first.ID, got.ID)
	}
	if got := recvEvent(t, jobs.Outbound, time.Second); got.ID != second.ID {
		t.Fatalf("second event: want=%s got=%s", second.ID, got.ID)
	}
	select {
	case ev := <-jobs.Outbound:
		t.Fatalf("jobs client should not see %s", ev.Type)
	default:
	}

	// Subscribed twice, delivered once.
	recvEvent(t, all.Outbound, time.Second)
	recvEvent(t, all.Outbound, time.Second)
	if got := recvEvent(t, all.Outbound, time.Second); got.Type != EventTimeLogClockIn {
		t.Fatalf("all client third event: got %s", got.Type)
	}
	if len(all.Outbound) != 0 {
		t.Fatalf("expected no duplicate deliveries, %d pending", len(all.Outbound))
	}

	hub.CloseClient(jobs)
	hub.CloseClient(jobs)
	if n := hub.Subscribers(ChannelJobs); n != 1 {
		t.Fatalf("subscribers after close: want=1 got=%d", n)
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(logger.Nop())
	c := hub.NewClient()
	hub.AddChannel(c, ChannelJobs)
	for i := 0; i < clientBuffer+5; i++ {
		hub.Broadcast(NewEvent(EventJobCreated, time.Time{}, nil))
	}
	if len(c.Outbound) != clientBuffer {
		t.Fatalf("buffer: want=%d got=%d", clientBuffer, len(c.Outbound))
	}
}

func TestHubServeHTTPStreamsEvents(t *testing.T) {
	hub := NewHub(logger.Nop())
	c := hub.NewClient()
	hub.AddChannel(c, ChannelJobs)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		hub.ServeHTTP(rec, req, c)
		close(done)
	}()

	hub.Broadcast(NewEvent(EventJobCancelled, time.Time{}, map[string]any{"job_id": "abc"}))
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event: job.cancelled") || !strings.Contains(body, `"job_id":"abc"`) {
		t.Fatalf("unexpected stream body: %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: %s", ct)
	}
}

type failingSink struct{ calls int }

func (s *failingSink) Publish(context.Context, Event) error {
	s.calls++
	return errors.New("down")
}

func TestEmitterSwallowsPublishErrors(t *testing.T) {
	sink := &failingSink{}
	e := NewEmitter(sink, logger.Nop(), nil)
	e.Emit(context.Background(), EventJobCreated, time.Now(), nil)
	if sink.calls != 1 {
		t.Fatalf("expected one publish attempt, got %d", sink.calls)
	}
	var nilEmitter *Emitter
	nilEmitter.Emit(context.Background(), EventJobCreated, time.Now(), nil)
}
