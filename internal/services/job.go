package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/tidyhome-backend/internal/data/repos"
	types "github.com/yungbote/tidyhome-backend/internal/domain"
	domainagg "github.com/yungbote/tidyhome-backend/internal/domain/aggregates"
	"github.com/yungbote/tidyhome-backend/internal/domain/booking"
	"github.com/yungbote/tidyhome-backend/internal/observability"
	"github.com/yungbote/tidyhome-backend/internal/platform/ctxutil"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
	"github.com/yungbote/tidyhome-backend/internal/realtime"
)

// Booking sources, recorded on metrics.
const (
	SourceAPI     = "api"
	SourcePlanner = "planner"
	SourceSeed    = "seed"
)

type JobService interface {
	List(dbc dbctx.Context) ([]*types.Job, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Job, error)
	ListByDate(dbc dbctx.Context, date string) ([]*types.Job, error)
	Create(ctx context.Context, in CreateJobInput) (*types.Job, error)
	Complete(ctx context.Context, id uuid.UUID) (*types.Job, error)
	Cancel(ctx context.Context, id uuid.UUID) (*types.Job, error)
}

type CreateJobInput struct {
	CustomerID     uuid.UUID
	SubscriptionID *uuid.UUID
	ScheduledDate  string
	ArrivalWindow  string
	Bedrooms       int
	Bathrooms      int
	Sqft           int
	Frequency      string
	ExtraIDs       []string
	// Source labels who booked the job (api, planner, seed).
	Source string
}

type jobService struct {
	log       *logger.Logger
	jobs      repos.JobRepo
	aggregate domainagg.JobAggregate
	events    *realtime.Emitter
	metrics   *observability.Metrics
}

func NewJobService(
	baseLog *logger.Logger,
	jobs repos.JobRepo,
	aggregate domainagg.JobAggregate,
	events *realtime.Emitter,
	metrics *observability.Metrics,
) JobService {
	return &jobService{
		log:       baseLog.With("service", "JobService"),
		jobs:      jobs,
		aggregate: aggregate,
		events:    events,
		metrics:   metrics,
	}
}

func (s *jobService) List(dbc dbctx.Context) ([]*types.Job, error) {
	return s.jobs.List(dbc)
}

func (s *jobService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Job, error) {
	job, err := s.jobs.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, notFound("Booking.Job.Get", "job")
	}
	return job, nil
}

func (s *jobService) ListByDate(dbc dbctx.Context, date string) ([]*types.Job, error) {
	date = strings.TrimSpace(date)
	if _, err := booking.ParseDate(date); err != nil {
		return nil, invalid("Booking.Job.ListByDate", "date: "+err.Error())
	}
	return s.jobs.ListByDate(dbc, date)
}

func (s *jobService) Create(ctx context.Context, in CreateJobInput) (*types.Job, error) {
	ctx, span := observability.StartSpan(ctx, "JobService.Create",
		attribute.String("frequency", in.Frequency),
		attribute.String("source", in.Source),
	)
	defer span.End()

	res, err := s.aggregate.Create(ctx, domainagg.CreateJobInput{
		CustomerID:     in.CustomerID,
		SubscriptionID: in.SubscriptionID,
		ScheduledDate:  in.ScheduledDate,
		ArrivalWindow:  in.ArrivalWindow,
		Bedrooms:       in.Bedrooms,
		Bathrooms:      in.Bathrooms,
		Sqft:           in.Sqft,
		Frequency:      in.Frequency,
		ExtraIDs:       in.ExtraIDs,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	job, err := s.jobs.GetByID(dbctx.New(ctx), res.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, "Booking.Job.Create", "created job not readable", nil)
	}

	source := in.Source
	if source == "" {
		source = SourceAPI
	}
	s.metrics.IncJobBooked(job.Frequency, source)
	s.log.Info("job booked",
		append([]interface{}{
			"job_id", job.ID,
			"customer_id", job.CustomerID,
			"scheduled_date", job.ScheduledDate,
			"price_snapshot", job.PriceSnapshot,
			"source", source,
		}, ctxutil.LogFields(ctx)...)...,
	)
	s.events.Emit(ctx, realtime.EventJobCreated, res.CreatedAt, job)
	return job, nil
}

func (s *jobService) Complete(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	return s.transition(ctx, id, types.JobStatusCompleted, realtime.EventJobCompleted)
}

func (s *jobService) Cancel(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	return s.transition(ctx, id, types.JobStatusCancelled, realtime.EventJobCancelled)
}

func (s *jobService) transition(ctx context.Context, id uuid.UUID, to string, event realtime.EventType) (*types.Job, error) {
	res, err := s.aggregate.Transition(ctx, domainagg.TransitionJobInput{
		JobID:        id,
		ToStatus:     to,
		TransitionAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(dbctx.New(ctx), res.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, notFound("Booking.Job.Transition", "job")
	}
	if res.Changed {
		s.metrics.IncJobTransition(to)
		s.events.Emit(ctx, event, res.TransitionAt, job)
	}
	return job, nil
}
