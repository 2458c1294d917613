package booking

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/tidyhome-backend/internal/domain"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
)

type SubscriptionRepo interface {
	Create(dbc dbctx.Context, subs []*types.Subscription) ([]*types.Subscription, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subscription, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Subscription, error)
	List(dbc dbctx.Context) ([]*types.Subscription, error)
	ListByStatus(dbc dbctx.Context, statuses []string) ([]*types.Subscription, error)
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string, at time.Time) error
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (r *subscriptionRepo) Create(dbc dbctx.Context, subs []*types.Subscription) ([]*types.Subscription, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(subs) == 0 {
		return []*types.Subscription{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *subscriptionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subscription, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return r.first(t.WithContext(dbc.Ctx), id)
}

// LockByID reads the row for update; callers must hold a transaction.
func (r *subscriptionRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Subscription, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return r.first(forUpdate(t.WithContext(dbc.Ctx)), id)
}

func (r *subscriptionRepo) first(q *gorm.DB, id uuid.UUID) (*types.Subscription, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Subscription
	if err := q.Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *subscriptionRepo) List(dbc dbctx.Context) ([]*types.Subscription, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Subscription
	if err := t.WithContext(dbc.Ctx).
		Order("start_date DESC").
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subscriptionRepo) ListByStatus(dbc dbctx.Context, statuses []string) ([]*types.Subscription, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Subscription
	if len(statuses) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("status IN ?", statuses).
		Order("start_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subscriptionRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string, at time.Time) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Subscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": at,
		}).Error
}
