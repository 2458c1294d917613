package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/tidyhome-backend/internal/data/repos"
	types "github.com/yungbote/tidyhome-backend/internal/domain"
	domainagg "github.com/yungbote/tidyhome-backend/internal/domain/aggregates"
	"github.com/yungbote/tidyhome-backend/internal/observability"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
	"github.com/yungbote/tidyhome-backend/internal/realtime"
)

type TimeClockService interface {
	List(dbc dbctx.Context, openOnly bool) ([]*types.TimeLog, error)
	ClockIn(ctx context.Context, in ClockInInput) (*types.TimeLog, error)
	// ClockOut closes an open log. A log that is already closed is returned unchanged.
	ClockOut(ctx context.Context, id uuid.UUID) (*types.TimeLog, error)
}

// ClockInInput carries optional device coordinates. They are stored only when
// both are present and inside valid ranges.
type ClockInInput struct {
	JobID uuid.UUID
	Lat   *float64
	Lng   *float64
}

type timeClockService struct {
	db       *gorm.DB
	log      *logger.Logger
	jobs     repos.JobRepo
	timeLogs repos.TimeLogRepo
	events   *realtime.Emitter
	metrics  *observability.Metrics
	now      func() time.Time
}

func NewTimeClockService(
	db *gorm.DB,
	baseLog *logger.Logger,
	jobs repos.JobRepo,
	timeLogs repos.TimeLogRepo,
	events *realtime.Emitter,
	metrics *observability.Metrics,
) TimeClockService {
	return &timeClockService{
		db:       db,
		log:      baseLog.With("service", "TimeClockService"),
		jobs:     jobs,
		timeLogs: timeLogs,
		events:   events,
		metrics:  metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *timeClockService) List(dbc dbctx.Context, openOnly bool) ([]*types.TimeLog, error) {
	if openOnly {
		return s.timeLogs.ListOpen(dbc)
	}
	return s.timeLogs.List(dbc)
}

func (s *timeClockService) ClockIn(ctx context.Context, in ClockInInput) (*types.TimeLog, error) {
	const op = "TimeClock.ClockIn"
	if in.JobID == uuid.Nil {
		return nil, invalid(op, "job_id is required")
	}
	at := s.now()
	lat, lng := validCoordinates(in.Lat, in.Lng)
	if (in.Lat != nil || in.Lng != nil) && lat == nil {
		s.log.Debug("discarding unusable coordinates", "job_id", in.JobID)
	}

	var created *types.TimeLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		job, err := s.jobs.GetByID(inner, in.JobID)
		if err != nil {
			return err
		}
		if job == nil {
			return invalid(op, "job not found")
		}
		row := &types.TimeLog{
			ID:        uuid.New(),
			JobID:     job.ID,
			ClockInAt: &at,
			Lat:       lat,
			Lng:       lng,
		}
		if _, err := s.timeLogs.Create(inner, []*types.TimeLog{row}); err != nil {
			return err
		}
		created = row
		return nil
	})
	if err != nil {
		if domainagg.CodeOf(err) != "" {
			return nil, err
		}
		s.log.Error("clock in failed", "error", err, "job_id", in.JobID)
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}

	s.metrics.IncTimeLogEvent("clock_in")
	s.events.Emit(ctx, realtime.EventTimeLogClockIn, at, created)
	return created, nil
}

func (s *timeClockService) ClockOut(ctx context.Context, id uuid.UUID) (*types.TimeLog, error) {
	const op = "TimeClock.ClockOut"
	dbc := dbctx.New(ctx)
	existing, err := s.timeLogs.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, notFound(op, "time log")
	}
	if existing.ClockOutAt != nil {
		return existing, nil
	}

	at := s.now()
	closed, err := s.timeLogs.CloseIfOpen(dbc, id, at)
	if err != nil {
		s.log.Error("clock out failed", "error", err, "time_log_id", id)
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	updated, err := s.timeLogs.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, notFound(op, "time log")
	}
	if closed {
		s.metrics.IncTimeLogEvent("clock_out")
		s.events.Emit(ctx, realtime.EventTimeLogClockOut, at, updated)
	}
	return updated, nil
}

func validCoordinates(lat, lng *float64) (*float64, *float64) {
	if lat == nil || lng == nil {
		return nil, nil
	}
	la, ln := *lat, *lng
	if math.IsNaN(la) || math.IsNaN(ln) || la < -90 || la > 90 || ln < -180 || ln > 180 {
		return nil, nil
	}
	return &la, &ln
}
