package booking

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/tidyhome-backend/internal/domain"
	schedule "github.com/yungbote/tidyhome-backend/internal/domain/booking"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
)

// JobRepo is the table repo for jobs. It deliberately has no method that
// writes price_snapshot or extras_snapshot after insert.
type JobRepo interface {
	Create(dbc dbctx.Context, jobs []*types.Job) ([]*types.Job, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Job, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Job, error)
	List(dbc dbctx.Context) ([]*types.Job, error)
	ListByDate(dbc dbctx.Context, date string) ([]*types.Job, error)
	ListBySubscription(dbc dbctx.Context, subscriptionID uuid.UUID) ([]*types.Job, error)
	LatestBySubscription(dbc dbctx.Context, subscriptionID uuid.UUID) (*types.Job, error)
	ExistsForSubscriptionOnDate(dbc dbctx.Context, subscriptionID uuid.UUID, date string) (bool, error)
	CancelScheduledBySubscription(dbc dbctx.Context, subscriptionID uuid.UUID, at time.Time) (int64, error)
}

type jobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
	return &jobRepo{
		db:  db,
		log: baseLog.With("repo", "JobRepo"),
	}
}

func (r *jobRepo) Create(dbc dbctx.Context, jobs []*types.Job) ([]*types.Job, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(jobs) == 0 {
		return []*types.Job{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Job, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return firstJob(transaction.WithContext(dbc.Ctx), id)
}

func (r *jobRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Job, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return firstJob(forUpdate(transaction.WithContext(dbc.Ctx)), id)
}

func firstJob(q *gorm.DB, id uuid.UUID) (*types.Job, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var job types.Job
	if err := q.Where("id = ?", id).Limit(1).Find(&job).Error; err != nil {
		return nil, err
	}
	if job.ID == uuid.Nil {
		return nil, nil
	}
	return &job, nil
}

// List returns every job, newest scheduled date first. ISO dates sort
// lexicographically.
func (r *jobRepo) List(dbc dbctx.Context) ([]*types.Job, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Job
	if err := transaction.WithContext(dbc.Ctx).
		Order("scheduled_date DESC").
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *jobRepo) ListByDate(dbc dbctx.Context, date string) ([]*types.Job, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Job
	if date == "" {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("scheduled_date = ?", date).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	// Window strings do not sort as text ("10:00 AM" < "9:00 AM").
	schedule.SortByArrival(out)
	return out, nil
}

func (r *jobRepo) ListBySubscription(dbc dbctx.Context, subscriptionID uuid.UUID) ([]*types.Job, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Job
	if subscriptionID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("scheduled_date DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *jobRepo) LatestBySubscription(dbc dbctx.Context, subscriptionID uuid.UUID) (*types.Job, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if subscriptionID == uuid.Nil {
		return nil, nil
	}
	var job types.Job
	if err := transaction.WithContext(dbc.Ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("scheduled_date DESC").
		Order("created_at DESC").
		Limit(1).
		Find(&job).Error; err != nil {
		return nil, err
	}
	if job.ID == uuid.Nil {
		return nil, nil
	}
	return &job, nil
}

func (r *jobRepo) ExistsForSubscriptionOnDate(dbc dbctx.Context, subscriptionID uuid.UUID, date string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if subscriptionID == uuid.Nil || date == "" {
		return false, nil
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Job{}).
		Where("subscription_id = ? AND scheduled_date = ?", subscriptionID, date).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CancelScheduledBySubscription moves every scheduled job of the subscription
// to cancelled. Completed and already-cancelled jobs are not touched.
func (r *jobRepo) CancelScheduledBySubscription(dbc dbctx.Context, subscriptionID uuid.UUID, at time.Time) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if subscriptionID == uuid.Nil {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Job{}).
		Where("subscription_id = ? AND status = ?", subscriptionID, types.JobStatusScheduled).
		Updates(map[string]interface{}{
			"status":     types.JobStatusCancelled,
			"updated_at": at,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
