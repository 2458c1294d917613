package booking

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	JobStatusScheduled = "scheduled"
	JobStatusCompleted = "completed"
	JobStatusCancelled = "cancelled"
)

// DateLayout is the calendar-date form used for scheduled and start dates.
const DateLayout = "2006-01-02"

// ExtraLine is one resolved add-on frozen into a job's extras snapshot.
type ExtraLine struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Job is a single booked cleaning. PriceSnapshot and ExtrasSnapshot are written
// once at creation and never updated.
type Job struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID     uuid.UUID      `gorm:"type:uuid;column:customer_id;not null;index" json:"customer_id"`
	SubscriptionID *uuid.UUID     `gorm:"type:uuid;column:subscription_id;index" json:"subscription_id,omitempty"`
	ScheduledDate  string         `gorm:"column:scheduled_date;not null;index" json:"scheduled_date"`
	ArrivalWindow  string         `gorm:"column:arrival_window;not null" json:"arrival_window"`
	PriceSnapshot  float64        `gorm:"column:price_snapshot;type:numeric(10,2);not null" json:"price_snapshot"`
	ExtrasSnapshot datatypes.JSON `gorm:"column:extras_snapshot;type:jsonb;not null" json:"extras_snapshot"`
	Bedrooms       int            `gorm:"column:bedrooms;not null" json:"bedrooms"`
	Bathrooms      int            `gorm:"column:bathrooms;not null" json:"bathrooms"`
	Sqft           int            `gorm:"column:sqft;not null" json:"sqft"`
	Frequency      string         `gorm:"column:frequency;not null" json:"frequency"`
	Status         string         `gorm:"column:status;not null;index" json:"status"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (Job) TableName() string { return "job" }

func (j *Job) BeforeCreate(*gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// Extras decodes the extras snapshot.
func (j *Job) Extras() ([]ExtraLine, error) {
	if j == nil || len(j.ExtrasSnapshot) == 0 {
		return []ExtraLine{}, nil
	}
	var out []ExtraLine
	if err := json.Unmarshal(j.ExtrasSnapshot, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func IsTerminalJobStatus(status string) bool {
	return status == JobStatusCompleted || status == JobStatusCancelled
}
