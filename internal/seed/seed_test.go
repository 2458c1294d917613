package seed

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/tidyhome-backend/internal/data/aggregates"
	"github.com/yungbote/tidyhome-backend/internal/data/repos"
	"github.com/yungbote/tidyhome-backend/internal/data/repos/testutil"
	types "github.com/yungbote/tidyhome-backend/internal/domain"
	"github.com/yungbote/tidyhome-backend/internal/modules/pricing"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/services"
)

func TestSeederRunsOnceOnEmptyDatabase(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	customerRepo := repos.NewCustomerRepo(db, log)
	subRepo := repos.NewSubscriptionRepo(db, log)
	jobRepo := repos.NewJobRepo(db, log)
	timeLogRepo := repos.NewTimeLogRepo(db, log)
	base := aggregates.BaseDeps{DB: db, Log: log}
	jobAgg := aggregates.NewJobAggregate(aggregates.JobAggregateDeps{
		Base: base, Customers: customerRepo, Subscriptions: subRepo, Jobs: jobRepo, Pricer: pricing.Default(),
	})
	subAgg := aggregates.NewSubscriptionAggregate(aggregates.SubscriptionAggregateDeps{
		Base: base, Subscriptions: subRepo, Jobs: jobRepo,
	})

	s := NewSeeder(log, customerRepo, timeLogRepo,
		services.NewCustomerService(db, log, customerRepo),
		services.NewSubscriptionService(db, log, customerRepo, subRepo, jobRepo, subAgg, nil, nil),
		services.NewJobService(log, jobRepo, jobAgg, nil, nil),
	)
	s.now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }

	seeded, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !seeded {
		t.Fatalf("expected seed on empty database")
	}

	dbc := dbctx.New(ctx)
	if n, _ := customerRepo.Count(dbc); n != 5 {
		t.Fatalf("customers: want=5 got=%d", n)
	}
	jobs, err := jobRepo.List(dbc)
	if err != nil {
		t.Fatalf("List jobs: %v", err)
	}
	if len(jobs) != 18 {
		t.Fatalf("jobs: want=18 got=%d", len(jobs))
	}
	counts := map[string]int{}
	for _, j := range jobs {
		counts[j.Status]++
	}
	// 2 past weekly + 1 past biweekly completed; 3 monthly cancelled by the cascade.
	if counts[types.JobStatusCompleted] != 3 || counts[types.JobStatusCancelled] != 3 || counts[types.JobStatusScheduled] != 12 {
		t.Fatalf("status counts: %v", counts)
	}

	today, _ := jobRepo.ListByDate(dbc, "2026-03-02")
	if len(today) != 3 {
		t.Fatalf("jobs today: want=3 got=%d", len(today))
	}
	for _, j := range today {
		if j.Frequency == types.FrequencyWeekly && j.PriceSnapshot != 260 {
			t.Fatalf("weekly snapshot: want=260 got=%v", j.PriceSnapshot)
		}
	}

	logs, _ := timeLogRepo.List(dbc)
	if len(logs) != 1 || logs[0].IsOpen() || logs[0].Duration() != 2*time.Hour {
		t.Fatalf("time logs: %+v", logs)
	}

	again, err := s.Run(ctx)
	if err != nil || again {
		t.Fatalf("second run should be a no-op: seeded=%v err=%v", again, err)
	}
}
