package aggregates

import (
	"testing"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/tidyhome-backend/internal/domain/aggregates"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
)

func TestRequireStatusAllowed(t *testing.T) {
	if err := RequireStatusAllowed("active", "active", "paused"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	err := RequireStatusAllowed("cancelled", "active", "paused")
	if err == nil {
		t.Fatalf("expected invariant error")
	}
	if !domainagg.IsCode(MapError("op", err), domainagg.CodeInvariantViolation) {
		t.Fatalf("expected invariant code, got %v", MapError("op", err))
	}
}

func TestRequireApplied(t *testing.T) {
	if err := RequireApplied(true, "job status"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	err := MapError("op", RequireApplied(false, "job status"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if domainagg.MessageOf(err) != "job status changed concurrently" {
		t.Fatalf("message: %q", domainagg.MessageOf(err))
	}
}

func TestStatusGuardRequiresConnection(t *testing.T) {
	_, err := StatusGuard{}.Advance(dbctx.Context{}, nil, uuid.New(), []string{"scheduled"}, nil)
	if !domainagg.IsCode(MapError("op", err), domainagg.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
