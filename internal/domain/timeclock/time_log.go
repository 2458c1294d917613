package timeclock

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeLog is one technician work session on a job.
type TimeLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	JobID      uuid.UUID  `gorm:"type:uuid;column:job_id;not null;index" json:"job_id"`
	ClockInAt  *time.Time `gorm:"column:clock_in_at;index" json:"clock_in_at,omitempty"`
	ClockOutAt *time.Time `gorm:"column:clock_out_at;index" json:"clock_out_at,omitempty"`
	Lat        *float64   `gorm:"column:lat" json:"lat,omitempty"`
	Lng        *float64   `gorm:"column:lng" json:"lng,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

func (TimeLog) TableName() string { return "time_log" }

func (t *TimeLog) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsOpen reports whether the session was started and not yet stopped.
func (t *TimeLog) IsOpen() bool {
	return t != nil && t.ClockInAt != nil && t.ClockOutAt == nil
}

// Duration is zero for open logs and never negative.
func (t *TimeLog) Duration() time.Duration {
	if t == nil || t.ClockInAt == nil || t.ClockOutAt == nil {
		return 0
	}
	d := t.ClockOutAt.Sub(*t.ClockInAt)
	if d < 0 {
		return 0
	}
	return d
}
