package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/tidyhome-backend/internal/data/aggregates"
	aggtestutil "github.com/yungbote/tidyhome-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/tidyhome-backend/internal/data/repos"
	"github.com/yungbote/tidyhome-backend/internal/data/repos/testutil"
	types "github.com/yungbote/tidyhome-backend/internal/domain"
	domainagg "github.com/yungbote/tidyhome-backend/internal/domain/aggregates"
	"github.com/yungbote/tidyhome-backend/internal/modules/pricing"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

func newSubscriptionAggregate(t *testing.T, db *gorm.DB, runner aggregates.TxRunner) domainagg.SubscriptionAggregate {
	t.Helper()
	log := testutil.Logger(t)
	return aggregates.NewSubscriptionAggregate(aggregates.SubscriptionAggregateDeps{
		Base:          aggregates.BaseDeps{DB: db, Log: log, Runner: runner},
		Subscriptions: repos.NewSubscriptionRepo(db, log),
		Jobs:          repos.NewJobRepo(db, log),
	})
}

func statuses(t *testing.T, db *gorm.DB, ids ...uuid.UUID) []string {
	t.Helper()
	jobs := repos.NewJobRepo(db, testutil.Logger(t))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		j, err := jobs.GetByID(dbctx.New(context.Background()), id)
		if err != nil || j == nil {
			t.Fatalf("GetByID(%s): row=%v err=%v", id, j, err)
		}
		out = append(out, j.Status)
	}
	return out
}

func TestSubscriptionAggregateCancel_Cascade(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	agg := newSubscriptionAggregate(t, db, nil)
	subsRepo := repos.NewSubscriptionRepo(db, testutil.Logger(t))

	cust := testutil.SeedCustomer(t, ctx, db, "Sarah Johnson")
	sub := testutil.SeedSubscription(t, ctx, db, cust.ID, types.FrequencyWeekly, types.SubscriptionStatusActive)
	other := testutil.SeedSubscription(t, ctx, db, cust.ID, types.FrequencyMonthly, types.SubscriptionStatusActive)

	c1 := testutil.SeedJob(t, ctx, db, cust.ID, &sub.ID, "2026-01-05", types.JobStatusCompleted)
	c2 := testutil.SeedJob(t, ctx, db, cust.ID, &sub.ID, "2026-01-12", types.JobStatusCompleted)
	s1 := testutil.SeedJob(t, ctx, db, cust.ID, &sub.ID, "2026-01-19", types.JobStatusScheduled)
	s2 := testutil.SeedJob(t, ctx, db, cust.ID, &sub.ID, "2026-01-26", types.JobStatusScheduled)
	s3 := testutil.SeedJob(t, ctx, db, cust.ID, &sub.ID, "2026-02-02", types.JobStatusScheduled)
	keep := testutil.SeedJob(t, ctx, db, cust.ID, &other.ID, "2026-02-02", types.JobStatusScheduled)

	res, err := agg.Cancel(ctx, domainagg.CancelSubscriptionInput{SubscriptionID: sub.ID})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if res.CancelledJobs != 3 || res.Status != types.SubscriptionStatusCancelled {
		t.Fatalf("Cancel result: %+v", res)
	}

	got := statuses(t, db, c1.ID, c2.ID, s1.ID, s2.ID, s3.ID, keep.ID)
	want := []string{"completed", "completed", "cancelled", "cancelled", "cancelled", "scheduled"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("job %d status: want=%s got=%s", i, want[i], got[i])
		}
	}
	stored, _ := subsRepo.GetByID(dbctx.New(ctx), sub.ID)
	if stored.Status != types.SubscriptionStatusCancelled {
		t.Fatalf("subscription status: %s", stored.Status)
	}

	again, err := agg.Cancel(ctx, domainagg.CancelSubscriptionInput{SubscriptionID: sub.ID})
	if err != nil || again.CancelledJobs != 0 {
		t.Fatalf("repeat cancel should be a no-op: res=%+v err=%v", again, err)
	}

	_, err = agg.Cancel(ctx, domainagg.CancelSubscriptionInput{SubscriptionID: uuid.New()})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unknown subscription: expected not_found, got %v", err)
	}
}

func TestSubscriptionAggregateCancel_AllOrNothing(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	cust := testutil.SeedCustomer(t, ctx, db, "Michael Martinez")
	sub := testutil.SeedSubscription(t, ctx, db, cust.ID, types.FrequencyBiweekly, types.SubscriptionStatusActive)
	j1 := testutil.SeedJob(t, ctx, db, cust.ID, &sub.ID, "2026-01-19", types.JobStatusScheduled)
	j2 := testutil.SeedJob(t, ctx, db, cust.ID, &sub.ID, "2026-02-02", types.JobStatusScheduled)

	commitErr := errors.New("connection reset during commit")
	runner := &aggtestutil.InjectedTxRunner{DB: db, FailCommit: commitErr}
	_, err := newSubscriptionAggregate(t, db, runner).Cancel(ctx, domainagg.CancelSubscriptionInput{SubscriptionID: sub.ID})
	if err == nil || !errors.Is(err, commitErr) {
		t.Fatalf("expected injected commit failure, got %v", err)
	}
	if runner.RollbackCalls != 1 {
		t.Fatalf("expected rollback, counters=%+v", runner)
	}

	stored, _ := repos.NewSubscriptionRepo(db, testutil.Logger(t)).GetByID(dbctx.New(ctx), sub.ID)
	if stored.Status != types.SubscriptionStatusActive {
		t.Fatalf("subscription should remain active after rollback, got %s", stored.Status)
	}
	for i, st := range statuses(t, db, j1.ID, j2.ID) {
		if st != types.JobStatusScheduled {
			t.Fatalf("job %d should remain scheduled after rollback, got %s", i, st)
		}
	}
}

func TestSubscriptionAggregateSetPaused(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	agg := newSubscriptionAggregate(t, db, nil)

	cust := testutil.SeedCustomer(t, ctx, db, "Jennifer Taylor")
	sub := testutil.SeedSubscription(t, ctx, db, cust.ID, types.FrequencyMonthly, types.SubscriptionStatusActive)

	res, err := agg.SetPaused(ctx, domainagg.PauseSubscriptionInput{SubscriptionID: sub.ID, Paused: true})
	if err != nil || !res.Changed || res.Status != types.SubscriptionStatusPaused {
		t.Fatalf("pause: res=%+v err=%v", res, err)
	}
	res, err = agg.SetPaused(ctx, domainagg.PauseSubscriptionInput{SubscriptionID: sub.ID, Paused: true})
	if err != nil || res.Changed {
		t.Fatalf("repeat pause should be a no-op: res=%+v err=%v", res, err)
	}
	res, err = agg.SetPaused(ctx, domainagg.PauseSubscriptionInput{SubscriptionID: sub.ID, Paused: false})
	if err != nil || res.Status != types.SubscriptionStatusActive {
		t.Fatalf("resume: res=%+v err=%v", res, err)
	}

	if _, err := agg.Cancel(ctx, domainagg.CancelSubscriptionInput{SubscriptionID: sub.ID}); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	_, err = agg.SetPaused(ctx, domainagg.PauseSubscriptionInput{SubscriptionID: sub.ID, Paused: false})
	if !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("resume cancelled: expected invariant violation, got %v", err)
	}
}

func TestBookThenCancelSubscription_KeepsPrice(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	cust := testutil.SeedCustomer(t, ctx, db, "Christopher Thomas")
	sub := testutil.SeedSubscription(t, ctx, db, cust.ID, types.FrequencyBiweekly, types.SubscriptionStatusActive)

	in := validJobInput(cust.ID)
	in.SubscriptionID = &sub.ID
	created, err := newJobAggregate(t, db, pricing.Default(), nil, nil).Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.PriceSnapshot != 166.5 {
		t.Fatalf("price: want=166.5 got=%v", created.PriceSnapshot)
	}

	if _, err := newSubscriptionAggregate(t, db, nil).Cancel(ctx, domainagg.CancelSubscriptionInput{SubscriptionID: sub.ID}); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	job, err := repos.NewJobRepo(db, testutil.Logger(t)).GetByID(dbctx.New(ctx), created.JobID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if job.Status != types.JobStatusCancelled || job.PriceSnapshot != 166.5 {
		t.Fatalf("after cascade: status=%s price=%v", job.Status, job.PriceSnapshot)
	}
}
