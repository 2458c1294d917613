package scheduler

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/tidyhome-backend/internal/data/aggregates"
	"github.com/yungbote/tidyhome-backend/internal/data/repos"
	"github.com/yungbote/tidyhome-backend/internal/data/repos/testutil"
	types "github.com/yungbote/tidyhome-backend/internal/domain"
	"github.com/yungbote/tidyhome-backend/internal/modules/pricing"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/services"
)

type plannerFixture struct {
	db      *gorm.DB
	jobs    repos.JobRepo
	booker  services.JobService
	planner *Planner
}

func newPlannerFixture(t *testing.T, now time.Time, horizonDays int) *plannerFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	customerRepo := repos.NewCustomerRepo(db, log)
	subRepo := repos.NewSubscriptionRepo(db, log)
	jobRepo := repos.NewJobRepo(db, log)
	jobAgg := aggregates.NewJobAggregate(aggregates.JobAggregateDeps{
		Base:          aggregates.BaseDeps{DB: db, Log: log},
		Customers:     customerRepo,
		Subscriptions: subRepo,
		Jobs:          jobRepo,
		Pricer:        pricing.Default(),
	})
	booker := services.NewJobService(log, jobRepo, jobAgg, nil, nil)

	p := NewPlanner(Config{Enabled: true, HorizonDays: horizonDays, Concurrency: 2}, log, subRepo, jobRepo, booker, nil)
	p.now = func() time.Time { return now }
	return &plannerFixture{db: db, jobs: jobRepo, booker: booker, planner: p}
}

func (f *plannerFixture) book(t *testing.T, sub *types.Subscription, date string, extras ...string) *types.Job {
	t.Helper()
	subID := sub.ID
	job, err := f.booker.Create(context.Background(), services.CreateJobInput{
		CustomerID:     sub.CustomerID,
		SubscriptionID: &subID,
		ScheduledDate:  date,
		ArrivalWindow:  "9:00 AM - 11:00 AM",
		Bedrooms:       3,
		Bathrooms:      2,
		Sqft:           1500,
		Frequency:      sub.Frequency,
		ExtraIDs:       extras,
	})
	if err != nil {
		t.Fatalf("book %s: %v", date, err)
	}
	return job
}

func scheduledDates(t *testing.T, f *plannerFixture, sub *types.Subscription) []string {
	t.Helper()
	jobs, err := f.jobs.ListBySubscription(dbctx.New(context.Background()), sub.ID)
	if err != nil {
		t.Fatalf("ListBySubscription: %v", err)
	}
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.ScheduledDate)
	}
	return out
}

func TestPlannerBooksUpToHorizon(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	f := newPlannerFixture(t, now, 21)
	ctx := context.Background()

	cust := testutil.SeedCustomer(t, ctx, f.db, "Sarah Johnson")
	sub := testutil.SeedSubscription(t, ctx, f.db, cust.ID, types.FrequencyWeekly, types.SubscriptionStatusActive)
	f.book(t, sub, "2026-03-02", "deep-clean")

	res, err := f.planner.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if res.Booked != 2 || res.Subscriptions != 1 || res.Failed != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	dates := scheduledDates(t, f, sub)
	if len(dates) != 3 {
		t.Fatalf("dates: %v", dates)
	}

	jobs, _ := f.jobs.ListByDate(dbctx.New(ctx), "2026-03-16")
	if len(jobs) != 1 {
		t.Fatalf("expected a job on 2026-03-16, got %d", len(jobs))
	}
	planned := jobs[0]
	// (105 + 50 + 120 + 50) * 0.8, priced fresh with the template's extras.
	if planned.PriceSnapshot != 260 || planned.ArrivalWindow != "9:00 AM - 11:00 AM" {
		t.Fatalf("planned job: %+v", planned)
	}

	again, err := f.planner.RunOnce(ctx)
	if err != nil || again.Booked != 0 {
		t.Fatalf("second run should book nothing: %+v %v", again, err)
	}
}

func TestPlannerSkipsPastOccurrences(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	f := newPlannerFixture(t, now, 15)
	ctx := context.Background()

	cust := testutil.SeedCustomer(t, ctx, f.db, "Robert Chen")
	sub := testutil.SeedSubscription(t, ctx, f.db, cust.ID, types.FrequencyWeekly, types.SubscriptionStatusActive)
	f.book(t, sub, "2026-01-05")

	res, err := f.planner.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	// 2026-03-02, 03-09, 03-16; nothing in February is back-filled.
	if res.Booked != 3 {
		t.Fatalf("booked: want=3 got=%d (%v)", res.Booked, scheduledDates(t, f, sub))
	}
	for _, d := range scheduledDates(t, f, sub) {
		if d > "2026-01-05" && d < "2026-03-01" {
			t.Fatalf("past date booked: %s", d)
		}
	}
}

func TestPlannerResumesAfterLongGap(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	f := newPlannerFixture(t, now, 21)
	ctx := context.Background()

	cust := testutil.SeedCustomer(t, ctx, f.db, "Lisa Martinez")
	sub := testutil.SeedSubscription(t, ctx, f.db, cust.ID, types.FrequencyWeekly, types.SubscriptionStatusActive)
	// More than maxOccurrencesPerRun weeks before now.
	f.book(t, sub, "2024-06-03")

	res, err := f.planner.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if res.Booked != 3 {
		t.Fatalf("booked: want=3 got=%d (%v)", res.Booked, scheduledDates(t, f, sub))
	}
	want := map[string]bool{"2024-06-03": true, "2026-03-02": true, "2026-03-09": true, "2026-03-16": true}
	for _, d := range scheduledDates(t, f, sub) {
		if !want[d] {
			t.Fatalf("unexpected date %s", d)
		}
	}
}

func TestSkipPast(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	last := skipPast(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), today, types.FrequencyWeekly)
	if want := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC); !last.Equal(want) {
		t.Fatalf("weekly: want %s got %s", want, last)
	}
	future := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if got := skipPast(future, today, types.FrequencyWeekly); !got.Equal(future) {
		t.Fatalf("future template should be kept, got %s", got)
	}
}

func TestPlannerIgnoresInactiveSubscriptions(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	f := newPlannerFixture(t, now, 28)
	ctx := context.Background()

	cust := testutil.SeedCustomer(t, ctx, f.db, "Emily Davis")
	paused := testutil.SeedSubscription(t, ctx, f.db, cust.ID, types.FrequencyBiweekly, types.SubscriptionStatusActive)
	f.book(t, paused, "2026-03-02")
	if err := f.db.Model(&types.Subscription{}).Where("id = ?", paused.ID).Update("status", types.SubscriptionStatusPaused).Error; err != nil {
		t.Fatalf("pause: %v", err)
	}
	noTemplate := testutil.SeedSubscription(t, ctx, f.db, cust.ID, types.FrequencyMonthly, types.SubscriptionStatusActive)

	res, err := f.planner.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if res.Subscriptions != 1 || res.Booked != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got := scheduledDates(t, f, noTemplate); len(got) != 0 {
		t.Fatalf("subscription without template should stay empty: %v", got)
	}
}

func TestPlannerRunDisabledReturnsOnCancel(t *testing.T) {
	p := NewPlanner(Config{}, testutil.Logger(t), nil, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestValidateSpec(t *testing.T) {
	for _, spec := range []string{"@every 1h", "0 */6 * * *", "30 0 3 * * *", "@daily"} {
		if err := ValidateSpec(spec); err != nil {
			t.Fatalf("ValidateSpec(%q): %v", spec, err)
		}
	}
	if err := ValidateSpec("every hour"); err == nil {
		t.Fatalf("expected an invalid cron expression error")
	}
}
