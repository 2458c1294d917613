// Package scheduler books upcoming occurrences of recurring subscriptions on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/tidyhome-backend/internal/data/repos"
	types "github.com/yungbote/tidyhome-backend/internal/domain"
	domainagg "github.com/yungbote/tidyhome-backend/internal/domain/aggregates"
	"github.com/yungbote/tidyhome-backend/internal/domain/booking"
	"github.com/yungbote/tidyhome-backend/internal/observability"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
	"github.com/yungbote/tidyhome-backend/internal/services"
)

const maxOccurrencesPerRun = 64

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Config struct {
	Enabled     bool
	Spec        string
	HorizonDays int
	Concurrency int
}

func (c Config) withDefaults() Config {
	if c.Spec == "" {
		c.Spec = "@every 1h"
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = 28
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	return c
}

// Booker is the job creation path the planner books through.
type Booker interface {
	Create(ctx context.Context, in services.CreateJobInput) (*types.Job, error)
}

type RunResult struct {
	Subscriptions int
	Booked        int
	Failed        int
}

type Planner struct {
	cfg           Config
	log           *logger.Logger
	subscriptions repos.SubscriptionRepo
	jobs          repos.JobRepo
	booker        Booker
	metrics       *observability.Metrics
	now           func() time.Time
}

func NewPlanner(cfg Config, baseLog *logger.Logger, subscriptions repos.SubscriptionRepo, jobs repos.JobRepo, booker Booker, metrics *observability.Metrics) *Planner {
	return &Planner{
		cfg:           cfg.withDefaults(),
		log:           baseLog.With("service", "RecurringPlanner"),
		subscriptions: subscriptions,
		jobs:          jobs,
		booker:        booker,
		metrics:       metrics,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ValidateSpec reports whether spec is a schedule the planner accepts.
func ValidateSpec(spec string) error {
	_, err := cronParser.Parse(spec)
	return err
}

// Run schedules RunOnce on the configured cron spec and blocks until ctx is done.
// Overlapping runs are skipped.
func (p *Planner) Run(ctx context.Context) error {
	if !p.cfg.Enabled {
		p.log.Info("recurring planner disabled")
		<-ctx.Done()
		return nil
	}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithParser(cronParser),
		cron.WithLogger(cronLogger{log: p.log}),
		cron.WithChain(cron.Recover(cronLogger{log: p.log}), cron.SkipIfStillRunning(cronLogger{log: p.log})),
	)
	if _, err := c.AddFunc(p.cfg.Spec, func() {
		if _, err := p.RunOnce(ctx); err != nil && ctx.Err() == nil {
			p.log.Warn("planner run failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("planner schedule %q: %w", p.cfg.Spec, err)
	}
	p.log.Info("recurring planner started", "spec", p.cfg.Spec, "horizon_days", p.cfg.HorizonDays)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// RunOnce books every missing occurrence up to the horizon for all active subscriptions.
// A failure on one subscription is logged and counted; the others still run.
func (p *Planner) RunOnce(ctx context.Context) (RunResult, error) {
	start := p.now()
	var out RunResult
	subs, err := p.subscriptions.ListByStatus(dbctx.New(ctx), []string{types.SubscriptionStatusActive})
	if err != nil {
		p.metrics.ObservePlannerRun("error", 0)
		return out, err
	}
	out.Subscriptions = len(subs)

	today := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	horizon := today.AddDate(0, 0, p.cfg.HorizonDays)

	var booked, failed int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for _, sub := range subs {
		sub := sub
		g.Go(func() error {
			n, err := p.planSubscription(gctx, sub, today, horizon)
			atomic.AddInt64(&booked, int64(n))
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				atomic.AddInt64(&failed, 1)
				p.log.Warn("planner: subscription skipped", "subscription_id", sub.ID, "error", err)
			}
			return nil
		})
	}
	err = g.Wait()
	out.Booked = int(booked)
	out.Failed = int(failed)

	status := "ok"
	if err != nil {
		status = "cancelled"
	} else if out.Failed > 0 {
		status = "partial"
	}
	p.metrics.ObservePlannerRun(status, out.Booked)
	p.log.Info("planner run finished",
		"subscriptions", out.Subscriptions,
		"booked", out.Booked,
		"failed", out.Failed,
		"duration_ms", p.now().Sub(start).Milliseconds(),
	)
	return out, err
}

func (p *Planner) planSubscription(ctx context.Context, sub *types.Subscription, today, horizon time.Time) (int, error) {
	dbc := dbctx.New(ctx)
	template, err := p.jobs.LatestBySubscription(dbc, sub.ID)
	if err != nil {
		return 0, err
	}
	if template == nil {
		p.log.Debug("planner: no template job", "subscription_id", sub.ID)
		return 0, nil
	}
	last, err := booking.ParseDate(template.ScheduledDate)
	if err != nil {
		return 0, fmt.Errorf("template job %s: %w", template.ID, err)
	}
	extras, err := template.Extras()
	if err != nil {
		return 0, fmt.Errorf("template job %s extras: %w", template.ID, err)
	}
	extraIDs := make([]string, 0, len(extras))
	for _, e := range extras {
		extraIDs = append(extraIDs, e.ID)
	}

	booked := 0
	last = skipPast(last, today, sub.Frequency)
	for i := 0; i < maxOccurrencesPerRun; i++ {
		next, ok := booking.NextOccurrence(last, sub.Frequency)
		if !ok || next.After(horizon) {
			break
		}
		last = next
		date := next.Format(types.DateLayout)
		exists, err := p.jobs.ExistsForSubscriptionOnDate(dbc, sub.ID, date)
		if err != nil {
			return booked, err
		}
		if exists {
			continue
		}
		subID := sub.ID
		_, err = p.booker.Create(ctx, services.CreateJobInput{
			CustomerID:     sub.CustomerID,
			SubscriptionID: &subID,
			ScheduledDate:  date,
			ArrivalWindow:  template.ArrivalWindow,
			Bedrooms:       template.Bedrooms,
			Bathrooms:      template.Bathrooms,
			Sqft:           template.Sqft,
			Frequency:      sub.Frequency,
			ExtraIDs:       extraIDs,
			Source:         services.SourcePlanner,
		})
		if err != nil {
			// Cancelled between listing and booking: nothing left to plan.
			if domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
				return booked, nil
			}
			return booked, err
		}
		booked++
	}
	return booked, nil
}

// skipPast walks from the template date to the last occurrence before today,
// so the per-run cap only counts dates that can still be booked.
func skipPast(last, today time.Time, frequency string) time.Time {
	for {
		next, ok := booking.NextOccurrence(last, frequency)
		if !ok || !next.Before(today) {
			return last
		}
		last = next
	}
}

type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	if err == nil {
		err = errors.New("unknown")
	}
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
