package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/tidyhome-backend/internal/data/repos"
	types "github.com/yungbote/tidyhome-backend/internal/domain"
	domainagg "github.com/yungbote/tidyhome-backend/internal/domain/aggregates"
	"github.com/yungbote/tidyhome-backend/internal/domain/booking"
	"github.com/yungbote/tidyhome-backend/internal/observability"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
	"github.com/yungbote/tidyhome-backend/internal/realtime"
)

type SubscriptionService interface {
	List(dbc dbctx.Context) ([]*types.Subscription, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Subscription, error)
	ListJobs(dbc dbctx.Context, id uuid.UUID) ([]*types.Job, error)
	Create(ctx context.Context, in CreateSubscriptionInput) (*types.Subscription, error)
	// Cancel returns the cancelled subscription and how many scheduled jobs were cancelled with it.
	Cancel(ctx context.Context, id uuid.UUID) (*types.Subscription, int64, error)
	Pause(ctx context.Context, id uuid.UUID) (*types.Subscription, error)
	Resume(ctx context.Context, id uuid.UUID) (*types.Subscription, error)
}

type CreateSubscriptionInput struct {
	CustomerID uuid.UUID
	Frequency  string
	StartDate  string
}

type subscriptionService struct {
	db            *gorm.DB
	log           *logger.Logger
	customers     repos.CustomerRepo
	subscriptions repos.SubscriptionRepo
	jobs          repos.JobRepo
	aggregate     domainagg.SubscriptionAggregate
	events        *realtime.Emitter
	metrics       *observability.Metrics
}

func NewSubscriptionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	customers repos.CustomerRepo,
	subscriptions repos.SubscriptionRepo,
	jobs repos.JobRepo,
	aggregate domainagg.SubscriptionAggregate,
	events *realtime.Emitter,
	metrics *observability.Metrics,
) SubscriptionService {
	return &subscriptionService{
		db:            db,
		log:           baseLog.With("service", "SubscriptionService"),
		customers:     customers,
		subscriptions: subscriptions,
		jobs:          jobs,
		aggregate:     aggregate,
		events:        events,
		metrics:       metrics,
	}
}

func (s *subscriptionService) List(dbc dbctx.Context) ([]*types.Subscription, error) {
	return s.subscriptions.List(dbc)
}

func (s *subscriptionService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Subscription, error) {
	sub, err := s.subscriptions.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, notFound("Booking.Subscription.Get", "subscription")
	}
	return sub, nil
}

func (s *subscriptionService) ListJobs(dbc dbctx.Context, id uuid.UUID) ([]*types.Job, error) {
	if _, err := s.Get(dbc, id); err != nil {
		return nil, err
	}
	return s.jobs.ListBySubscription(dbc, id)
}

func (s *subscriptionService) Create(ctx context.Context, in CreateSubscriptionInput) (*types.Subscription, error) {
	const op = "Booking.Subscription.Create"
	var problems []string
	if in.CustomerID == uuid.Nil {
		problems = append(problems, "customer_id is required")
	}
	if !booking.IsSubscriptionFrequency(in.Frequency) {
		problems = append(problems, fmt.Sprintf("frequency %q must be one of weekly, biweekly, monthly", in.Frequency))
	}
	startDate := strings.TrimSpace(in.StartDate)
	if _, err := booking.ParseDate(startDate); err != nil {
		problems = append(problems, "start_date: "+err.Error())
	}
	if len(problems) > 0 {
		return nil, invalid(op, strings.Join(problems, "; "))
	}

	var created *types.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		cust, err := s.customers.GetByID(inner, in.CustomerID)
		if err != nil {
			return err
		}
		if cust == nil {
			return invalid(op, "customer not found")
		}
		row := &types.Subscription{
			ID:         uuid.New(),
			CustomerID: cust.ID,
			Frequency:  booking.NormalizeFrequency(in.Frequency),
			StartDate:  startDate,
			Status:     types.SubscriptionStatusActive,
		}
		if _, err := s.subscriptions.Create(inner, []*types.Subscription{row}); err != nil {
			return err
		}
		created = row
		return nil
	})
	if err != nil {
		if domainagg.CodeOf(err) != "" {
			return nil, err
		}
		s.log.Error("create subscription failed", "error", err)
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}

	s.metrics.IncSubscriptionChange("created")
	s.events.Emit(ctx, realtime.EventSubscriptionCreated, created.CreatedAt, created)
	return created, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, id uuid.UUID) (*types.Subscription, int64, error) {
	ctx, span := observability.StartSpan(ctx, "SubscriptionService.Cancel",
		attribute.String("subscription_id", id.String()),
	)
	defer span.End()

	res, err := s.aggregate.Cancel(ctx, domainagg.CancelSubscriptionInput{
		SubscriptionID: id,
		CancelledAt:    time.Now().UTC(),
	})
	if err != nil {
		span.RecordError(err)
		return nil, 0, err
	}
	span.SetAttributes(attribute.Int64("cancelled_jobs", res.CancelledJobs))

	sub, err := s.Get(dbctx.New(ctx), res.SubscriptionID)
	if err != nil {
		return nil, 0, err
	}
	s.metrics.IncSubscriptionChange("cancelled")
	s.metrics.AddCascadeCancelled(res.CancelledJobs)
	s.log.Info("subscription cancelled", "subscription_id", sub.ID, "cancelled_jobs", res.CancelledJobs)
	s.events.Emit(ctx, realtime.EventSubscriptionCancelled, res.CancelledAt, map[string]any{
		"subscription":   sub,
		"cancelled_jobs": res.CancelledJobs,
	})
	return sub, res.CancelledJobs, nil
}

func (s *subscriptionService) Pause(ctx context.Context, id uuid.UUID) (*types.Subscription, error) {
	return s.setPaused(ctx, id, true)
}

func (s *subscriptionService) Resume(ctx context.Context, id uuid.UUID) (*types.Subscription, error) {
	return s.setPaused(ctx, id, false)
}

func (s *subscriptionService) setPaused(ctx context.Context, id uuid.UUID, paused bool) (*types.Subscription, error) {
	at := time.Now().UTC()
	res, err := s.aggregate.SetPaused(ctx, domainagg.PauseSubscriptionInput{
		SubscriptionID: id,
		Paused:         paused,
		ChangedAt:      at,
	})
	if err != nil {
		return nil, err
	}
	sub, err := s.Get(dbctx.New(ctx), res.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if res.Changed {
		action, event := "resumed", realtime.EventSubscriptionResumed
		if paused {
			action, event = "paused", realtime.EventSubscriptionPaused
		}
		s.metrics.IncSubscriptionChange(action)
		s.events.Emit(ctx, event, at, sub)
	}
	return sub, nil
}
