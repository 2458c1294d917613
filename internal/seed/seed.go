// Package seed inserts demo data into an empty database.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/tidyhome-backend/internal/data/repos"
	types "github.com/yungbote/tidyhome-backend/internal/domain"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
	"github.com/yungbote/tidyhome-backend/internal/services"
)

type Seeder struct {
	log           *logger.Logger
	customerRepo  repos.CustomerRepo
	timeLogRepo   repos.TimeLogRepo
	customers     services.CustomerService
	subscriptions services.SubscriptionService
	jobs          services.JobService
	now           func() time.Time
}

func NewSeeder(
	baseLog *logger.Logger,
	customerRepo repos.CustomerRepo,
	timeLogRepo repos.TimeLogRepo,
	customers services.CustomerService,
	subscriptions services.SubscriptionService,
	jobs services.JobService,
) *Seeder {
	return &Seeder{
		log:           baseLog.With("service", "DemoSeeder"),
		customerRepo:  customerRepo,
		timeLogRepo:   timeLogRepo,
		customers:     customers,
		subscriptions: subscriptions,
		jobs:          jobs,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

type jobPlan struct {
	window    string
	bedrooms  int
	bathrooms int
	sqft      int
	extras    []string
}

// Run seeds demo customers, subscriptions, jobs and a time log when no customer exists yet.
// It reports whether anything was inserted.
func (s *Seeder) Run(ctx context.Context) (bool, error) {
	n, err := s.customerRepo.Count(dbctx.New(ctx))
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.log.Debug("seed skipped; customers already present", "count", n)
		return false, nil
	}
	s.log.Info("seeding demo data")

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := func(days int) string { return today.AddDate(0, 0, days).Format(types.DateLayout) }

	people := []services.CreateCustomerInput{
		{Name: "Sarah Johnson", Address: "123 Oak Lane, Austin, TX 78701"},
		{Name: "Mike Chen", Address: "456 Elm Street, Austin, TX 78704"},
		{Name: "Lisa Martinez", Address: "789 Pine Ave, Austin, TX 78731"},
		{Name: "David Wilson", Address: "321 Maple Drive, Austin, TX 78745"},
		{Name: "Emma Brown", Address: "654 Cedar Blvd, Austin, TX 78757"},
	}
	custs := make([]*types.Customer, 0, len(people))
	for _, p := range people {
		c, err := s.customers.Create(ctx, p)
		if err != nil {
			return false, fmt.Errorf("seed customer %s: %w", p.Name, err)
		}
		custs = append(custs, c)
	}

	weekly, err := s.subscription(ctx, custs[0].ID, types.FrequencyWeekly, offset(-14))
	if err != nil {
		return false, err
	}
	biweekly, err := s.subscription(ctx, custs[1].ID, types.FrequencyBiweekly, offset(-28))
	if err != nil {
		return false, err
	}
	monthly, err := s.subscription(ctx, custs[2].ID, types.FrequencyMonthly, offset(-60))
	if err != nil {
		return false, err
	}

	var firstCompleted *types.Job
	weeklyPlan := jobPlan{window: "9:00 AM - 11:00 AM", bedrooms: 3, bathrooms: 2, sqft: 1500, extras: []string{"deep-clean"}}
	for i := -2; i <= 5; i++ {
		job, err := s.book(ctx, custs[0].ID, weekly, offset(i*7), types.FrequencyWeekly, weeklyPlan, i < 0)
		if err != nil {
			return false, err
		}
		if firstCompleted == nil && job.Status == types.JobStatusCompleted {
			firstCompleted = job
		}
	}

	biweeklyPlan := jobPlan{window: "1:00 PM - 3:00 PM", bedrooms: 2, bathrooms: 1, sqft: 900}
	for i := -1; i <= 3; i++ {
		if _, err := s.book(ctx, custs[1].ID, biweekly, offset(i*14+1), types.FrequencyBiweekly, biweeklyPlan, i < 0); err != nil {
			return false, err
		}
	}

	monthlyPlan := jobPlan{window: "10:00 AM - 12:00 PM", bedrooms: 4, bathrooms: 3, sqft: 2200, extras: []string{"inside-fridge", "inside-oven"}}
	for i := 0; i < 3; i++ {
		if _, err := s.book(ctx, custs[2].ID, monthly, offset(i*30+2), types.FrequencyMonthly, monthlyPlan, false); err != nil {
			return false, err
		}
	}
	if _, _, err := s.subscriptions.Cancel(ctx, monthly.ID); err != nil {
		return false, fmt.Errorf("seed cancel monthly: %w", err)
	}

	oneTime := []struct {
		customer uuid.UUID
		plan     jobPlan
	}{
		{custs[3].ID, jobPlan{window: "2:00 PM - 4:00 PM", bedrooms: 2, bathrooms: 2, sqft: 1200, extras: []string{"windows"}}},
		{custs[4].ID, jobPlan{window: "9:00 AM - 11:00 AM", bedrooms: 3, bathrooms: 1, sqft: 1000}},
	}
	for _, o := range oneTime {
		if _, err := s.book(ctx, o.customer, nil, offset(0), types.FrequencyOneTime, o.plan, false); err != nil {
			return false, err
		}
	}

	if firstCompleted != nil {
		in := now.Add(-7 * 24 * time.Hour)
		out := in.Add(2 * time.Hour)
		lat, lng := 30.2672, -97.7431
		if _, err := s.timeLogRepo.Create(dbctx.New(ctx), []*types.TimeLog{{
			ID:         uuid.New(),
			JobID:      firstCompleted.ID,
			ClockInAt:  &in,
			ClockOutAt: &out,
			Lat:        &lat,
			Lng:        &lng,
		}}); err != nil {
			return false, fmt.Errorf("seed time log: %w", err)
		}
	}

	s.log.Info("demo data seeded", "customers", len(custs))
	return true, nil
}

func (s *Seeder) subscription(ctx context.Context, customerID uuid.UUID, frequency, start string) (*types.Subscription, error) {
	sub, err := s.subscriptions.Create(ctx, services.CreateSubscriptionInput{
		CustomerID: customerID,
		Frequency:  frequency,
		StartDate:  start,
	})
	if err != nil {
		return nil, fmt.Errorf("seed %s subscription: %w", frequency, err)
	}
	return sub, nil
}

func (s *Seeder) book(ctx context.Context, customerID uuid.UUID, sub *types.Subscription, date, frequency string, plan jobPlan, completed bool) (*types.Job, error) {
	var subID *uuid.UUID
	if sub != nil {
		id := sub.ID
		subID = &id
	}
	job, err := s.jobs.Create(ctx, services.CreateJobInput{
		CustomerID:     customerID,
		SubscriptionID: subID,
		ScheduledDate:  date,
		ArrivalWindow:  plan.window,
		Bedrooms:       plan.bedrooms,
		Bathrooms:      plan.bathrooms,
		Sqft:           plan.sqft,
		Frequency:      frequency,
		ExtraIDs:       plan.extras,
		Source:         services.SourceSeed,
	})
	if err != nil {
		return nil, fmt.Errorf("seed job %s: %w", date, err)
	}
	if completed {
		return s.jobs.Complete(ctx, job.ID)
	}
	return job, nil
}
