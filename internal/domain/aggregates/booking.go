package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var JobAggregateContract = Contract{
	Name:             "Booking.JobAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Sole producer of price/extras snapshots; owns scheduled -> completed|cancelled transitions.",
}

var SubscriptionAggregateContract = Contract{
	Name:             "Booking.SubscriptionAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns subscription status and the cancellation cascade onto scheduled jobs.",
}

// JobAggregate owns job creation and status transitions.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeInvariantViolation, CodeInternal.
type JobAggregate interface {
	Aggregate

	// Create validates references, prices the booking and persists it as scheduled.
	Create(ctx context.Context, in CreateJobInput) (CreateJobResult, error)

	// Transition moves a scheduled job into a terminal status.
	// Repeating the current terminal status is a no-op.
	Transition(ctx context.Context, in TransitionJobInput) (TransitionJobResult, error)
}

// SubscriptionAggregate owns subscription status changes.
type SubscriptionAggregate interface {
	Aggregate

	// Cancel marks the subscription cancelled and cancels its scheduled jobs in the same transaction.
	Cancel(ctx context.Context, in CancelSubscriptionInput) (CancelSubscriptionResult, error)

	// SetPaused toggles active <-> paused. Cancelled subscriptions are rejected.
	SetPaused(ctx context.Context, in PauseSubscriptionInput) (PauseSubscriptionResult, error)
}

type CreateJobInput struct {
	JobID          uuid.UUID
	CustomerID     uuid.UUID
	SubscriptionID *uuid.UUID
	ScheduledDate  string
	ArrivalWindow  string
	Bedrooms       int
	Bathrooms      int
	Sqft           int
	Frequency      string
	ExtraIDs       []string
	CreatedAt      time.Time
}

type CreateJobResult struct {
	JobID         uuid.UUID
	PriceSnapshot float64
	ExtrasCount   int
	CreatedAt     time.Time
}

type TransitionJobInput struct {
	JobID        uuid.UUID
	ToStatus     string
	TransitionAt time.Time
}

type TransitionJobResult struct {
	JobID        uuid.UUID
	Status       string
	Changed      bool
	TransitionAt time.Time
}

type CancelSubscriptionInput struct {
	SubscriptionID uuid.UUID
	CancelledAt    time.Time
}

type CancelSubscriptionResult struct {
	SubscriptionID uuid.UUID
	Status         string
	CancelledJobs  int64
	CancelledAt    time.Time
}

type PauseSubscriptionInput struct {
	SubscriptionID uuid.UUID
	Paused         bool
	ChangedAt      time.Time
}

type PauseSubscriptionResult struct {
	SubscriptionID uuid.UUID
	Status         string
	Changed        bool
}
