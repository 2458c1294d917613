package timeclock

import (
	"testing"
	"time"
)

func TestTimeLogOpenAndDuration(t *testing.T) {
	in := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	log := &TimeLog{ClockInAt: &in}
	if !log.IsOpen() {
		t.Fatalf("expected open log")
	}
	if log.Duration() != 0 {
		t.Fatalf("open log duration should be zero")
	}

	out := in.Add(95 * time.Minute)
	log.ClockOutAt = &out
	if log.IsOpen() {
		t.Fatalf("expected closed log")
	}
	if got := log.Duration(); got != 95*time.Minute {
		t.Fatalf("duration: want=95m got=%s", got)
	}

	skewed := in.Add(-time.Minute)
	log.ClockOutAt = &skewed
	if got := log.Duration(); got != 0 {
		t.Fatalf("negative duration should clamp to zero, got %s", got)
	}

	if (&TimeLog{}).IsOpen() {
		t.Fatalf("log without clock-in is not open")
	}
}
