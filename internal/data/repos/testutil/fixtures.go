package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/tidyhome-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedCustomer(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Customer {
	tb.Helper()
	c := &types.Customer{
		ID:      uuid.New(),
		Name:    name,
		Address: "100 Congress Ave, Austin, TX 78701",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed customer: %v", err)
	}
	return c
}

func SeedSubscription(tb testing.TB, ctx context.Context, tx *gorm.DB, customerID uuid.UUID, frequency, status string) *types.Subscription {
	tb.Helper()
	s := &types.Subscription{
		ID:         uuid.New(),
		CustomerID: customerID,
		Frequency:  frequency,
		StartDate:  "2026-01-05",
		Status:     status,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subscription: %v", err)
	}
	return s
}

// SeedJob inserts a job row directly, bypassing pricing. Use the job aggregate
// when the snapshot itself is under test.
func SeedJob(tb testing.TB, ctx context.Context, tx *gorm.DB, customerID uuid.UUID, subscriptionID *uuid.UUID, date, status string) *types.Job {
	tb.Helper()
	j := &types.Job{
		ID:             uuid.New(),
		CustomerID:     customerID,
		SubscriptionID: subscriptionID,
		ScheduledDate:  date,
		ArrivalWindow:  "8:00 AM - 10:00 AM",
		PriceSnapshot:  166.5,
		ExtrasSnapshot: datatypes.JSON([]byte("[]")),
		Bedrooms:       2,
		Bathrooms:      1,
		Sqft:           900,
		Frequency:      types.FrequencyBiweekly,
		Status:         status,
	}
	if err := tx.WithContext(ctx).Create(j).Error; err != nil {
		tb.Fatalf("seed job: %v", err)
	}
	return j
}

func SeedTimeLog(tb testing.TB, ctx context.Context, tx *gorm.DB, jobID uuid.UUID, clockIn time.Time, clockOut *time.Time) *types.TimeLog {
	tb.Helper()
	in := clockIn.UTC()
	tl := &types.TimeLog{
		ID:         uuid.New(),
		JobID:      jobID,
		ClockInAt:  &in,
		ClockOutAt: clockOut,
	}
	if err := tx.WithContext(ctx).Create(tl).Error; err != nil {
		tb.Fatalf("seed time log: %v", err)
	}
	return tl
}

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }
