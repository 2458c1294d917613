package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsAndHashes(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"customer_id", "c-1",
		"address", "742 Evergreen Terrace",
		"job_id", "j-1",
		"dangling",
	})
	if len(out) != 7 {
		t.Fatalf("len: want=7 got=%d (%v)", len(out), out)
	}
	if s, _ := out[1].(string); !strings.HasPrefix(s, "hash:") {
		t.Fatalf("customer_id should be hashed, got %v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("address should be redacted, got %v", out[3])
	}
	if out[5] != "j-1" {
		t.Fatalf("job_id should pass through, got %v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("odd trailing key should be kept, got %v", out[6])
	}
}

func TestHashValueStable(t *testing.T) {
	a := hashValue("abc")
	b := hashValue("abc")
	if a != b || a == "" {
		t.Fatalf("hash not stable: %q vs %q", a, b)
	}
	if hashValue("") != "" {
		t.Fatalf("empty input should hash to empty")
	}
}

func TestSanitizeNestedMap(t *testing.T) {
	got := sanitizeValue("payload", map[string]interface{}{"api_token": "x", "sqft": 900})
	m, ok := got.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map, got %T", got)
	}
	if m["api_token"] != "[REDACTED]" || m["sqft"] != 900 {
		t.Fatalf("unexpected nested sanitize: %v", m)
	}
}
