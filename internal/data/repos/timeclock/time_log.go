package timeclock

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/tidyhome-backend/internal/domain"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
)

type TimeLogRepo interface {
	Create(dbc dbctx.Context, logs []*types.TimeLog) ([]*types.TimeLog, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.TimeLog, error)
	List(dbc dbctx.Context) ([]*types.TimeLog, error)
	ListOpen(dbc dbctx.Context) ([]*types.TimeLog, error)
	ListByJob(dbc dbctx.Context, jobID uuid.UUID) ([]*types.TimeLog, error)
	// CloseIfOpen sets clock_out_at only when it is still null.
	CloseIfOpen(dbc dbctx.Context, id uuid.UUID, at time.Time) (bool, error)
}

type timeLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTimeLogRepo(db *gorm.DB, baseLog *logger.Logger) TimeLogRepo {
	return &timeLogRepo{db: db, log: baseLog.With("repo", "TimeLogRepo")}
}

func (r *timeLogRepo) Create(dbc dbctx.Context, logs []*types.TimeLog) ([]*types.TimeLog, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(logs) == 0 {
		return []*types.TimeLog{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *timeLogRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.TimeLog, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.TimeLog
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// List returns logs newest clock-in first; logs never clocked in sort last.
func (r *timeLogRepo) List(dbc dbctx.Context) ([]*types.TimeLog, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.TimeLog
	if err := t.WithContext(dbc.Ctx).
		Order("CASE WHEN clock_in_at IS NULL THEN 1 ELSE 0 END").
		Order("clock_in_at DESC").
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *timeLogRepo) ListOpen(dbc dbctx.Context) ([]*types.TimeLog, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.TimeLog
	if err := t.WithContext(dbc.Ctx).
		Where("clock_in_at IS NOT NULL AND clock_out_at IS NULL").
		Order("clock_in_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *timeLogRepo) ListByJob(dbc dbctx.Context, jobID uuid.UUID) ([]*types.TimeLog, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.TimeLog
	if jobID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("job_id = ?", jobID).
		Order("clock_in_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *timeLogRepo) CloseIfOpen(dbc dbctx.Context, id uuid.UUID, at time.Time) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.TimeLog{}).
		Where("id = ? AND clock_out_at IS NULL", id).
		Updates(map[string]interface{}{
			"clock_out_at": at,
			"updated_at":   at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
