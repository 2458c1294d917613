package envutil

import (
	"testing"
	"time"
)

func TestLookups(t *testing.T) {
	t.Setenv("TIDY_INT", "42")
	t.Setenv("TIDY_BAD_INT", "x")
	t.Setenv("TIDY_BOOL", "on")
	t.Setenv("TIDY_DUR", "90s")
	t.Setenv("TIDY_DUR_SECS", "5")
	t.Setenv("TIDY_FLOAT", "0.25")

	if got := Int("TIDY_INT", 1); got != 42 {
		t.Fatalf("Int: got %d", got)
	}
	if got := Int("TIDY_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback: got %d", got)
	}
	if !Bool("TIDY_BOOL", false) {
		t.Fatalf("Bool: expected true")
	}
	if Bool("TIDY_MISSING_BOOL", false) {
		t.Fatalf("Bool default: expected false")
	}
	if got := Duration("TIDY_DUR", time.Second); got != 90*time.Second {
		t.Fatalf("Duration: got %s", got)
	}
	if got := Duration("TIDY_DUR_SECS", time.Second); got != 5*time.Second {
		t.Fatalf("Duration secs: got %s", got)
	}
	if got := Float("TIDY_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float: got %v", got)
	}
	if got := String("TIDY_MISSING", "dflt"); got != "dflt" {
		t.Fatalf("String default: got %q", got)
	}
}
