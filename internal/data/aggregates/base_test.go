package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	domainagg "github.com/yungbote/tidyhome-backend/internal/domain/aggregates"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

type passThroughRunner struct{}

func (passThroughRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}

type hookCalls struct {
	ops       map[string]string
	conflicts int
	retries   int
}

func (h *hookCalls) ObserveOperation(name, status string, _ time.Duration) {
	if h.ops == nil {
		h.ops = map[string]string{}
	}
	h.ops[name] = status
}
func (h *hookCalls) IncConflict(string) { h.conflicts++ }
func (h *hookCalls) IncRetry(string)    { h.retries++ }

func TestExecuteWriteClassifiesOutcome(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		code      domainagg.ErrorCode
		status    string
		conflicts int
		retries   int
	}{
		{name: "committed", status: "success"},
		{name: "cancel completed job", err: InvariantError("job is completed"), code: domainagg.CodeInvariantViolation, status: "invariant_violation"},
		{name: "status guard lost", err: ConflictError("job status changed"), code: domainagg.CodeConflict, status: "conflict", conflicts: 1},
		{name: "lock timeout", err: RetryableError("lock timeout"), code: domainagg.CodeRetryable, status: "retryable", retries: 1},
		{name: "missing row", err: gorm.ErrRecordNotFound, code: domainagg.CodeNotFound, status: "not_found"},
		{name: "unknown customer", err: ValidationError("customer not found"), code: domainagg.CodeValidation, status: "validation"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &hookCalls{}
			op := "Booking.Job.Test"
			err := executeWrite(context.Background(), BaseDeps{Runner: passThroughRunner{}, Hooks: hooks}, op,
				func(dbctx.Context) error { return tc.err })

			if tc.err == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else if !domainagg.IsCode(err, tc.code) {
				t.Fatalf("code: want=%s got=%v", tc.code, err)
			}
			if got := hooks.ops[op]; got != tc.status {
				t.Fatalf("status: want=%s got=%s", tc.status, got)
			}
			if hooks.conflicts != tc.conflicts || hooks.retries != tc.retries {
				t.Fatalf("conflicts=%d retries=%d", hooks.conflicts, hooks.retries)
			}
		})
	}
}

func TestExecuteWriteDefaultsOpName(t *testing.T) {
	hooks := &hookCalls{}
	_ = executeWrite(context.Background(), BaseDeps{Runner: passThroughRunner{}, Hooks: hooks}, "  ",
		func(dbctx.Context) error { return nil })
	if _, ok := hooks.ops["aggregate.write"]; !ok {
		t.Fatalf("expected default op name, got %v", hooks.ops)
	}
}

func TestAggregateErrorStatusFallbacks(t *testing.T) {
	if got := aggregateErrorStatus(nil); got != "success" {
		t.Fatalf("nil: got=%s", got)
	}
	if got := aggregateErrorStatus(context.DeadlineExceeded); got != string(domainagg.CodeRetryable) {
		t.Fatalf("deadline: got=%s", got)
	}
	if got := aggregateErrorStatus(errors.New("disk full")); got == "" || got == "success" {
		t.Fatalf("plain error: got=%s", got)
	}
}
