package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yungbote/tidyhome-backend/internal/data/repos"
	types "github.com/yungbote/tidyhome-backend/internal/domain"
	domainagg "github.com/yungbote/tidyhome-backend/internal/domain/aggregates"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
)

type SubscriptionAggregateDeps struct {
	Base BaseDeps

	Subscriptions repos.SubscriptionRepo
	Jobs          repos.JobRepo
}

type subscriptionAggregate struct {
	deps SubscriptionAggregateDeps
}

func NewSubscriptionAggregate(deps SubscriptionAggregateDeps) domainagg.SubscriptionAggregate {
	deps.Base = deps.Base.withDefaults()
	return &subscriptionAggregate{deps: deps}
}

func (a *subscriptionAggregate) Contract() domainagg.Contract {
	return domainagg.SubscriptionAggregateContract
}

// Cancel marks the subscription cancelled and then cancels its scheduled jobs.
// Both writes share one transaction, so no reader sees a cancelled
// subscription with a job still scheduled. Re-cancelling re-runs the cascade.
func (a *subscriptionAggregate) Cancel(ctx context.Context, in domainagg.CancelSubscriptionInput) (domainagg.CancelSubscriptionResult, error) {
	const op = "Booking.Subscription.Cancel"
	var out domainagg.CancelSubscriptionResult

	if in.SubscriptionID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing subscription_id", nil)
	}
	if a.deps.Subscriptions == nil || a.deps.Jobs == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "subscription aggregate repos not configured", nil)
	}
	cancelledAt := in.CancelledAt.UTC()
	if in.CancelledAt.IsZero() {
		cancelledAt = a.deps.Base.Now()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		sub, err := a.deps.Subscriptions.LockByID(dbc, in.SubscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "subscription not found", nil)
		}

		if sub.Status != types.SubscriptionStatusCancelled {
			if err := a.deps.Subscriptions.UpdateStatus(dbc, sub.ID, types.SubscriptionStatusCancelled, cancelledAt); err != nil {
				return err
			}
		}
		n, err := a.deps.Jobs.CancelScheduledBySubscription(dbc, sub.ID, cancelledAt)
		if err != nil {
			return err
		}

		out = domainagg.CancelSubscriptionResult{
			SubscriptionID: sub.ID,
			Status:         types.SubscriptionStatusCancelled,
			CancelledJobs:  n,
			CancelledAt:    cancelledAt,
		}
		return nil
	})
	return out, err
}

func (a *subscriptionAggregate) SetPaused(ctx context.Context, in domainagg.PauseSubscriptionInput) (domainagg.PauseSubscriptionResult, error) {
	const op = "Booking.Subscription.SetPaused"
	var out domainagg.PauseSubscriptionResult

	if in.SubscriptionID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing subscription_id", nil)
	}
	if a.deps.Subscriptions == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "subscription repo not configured", nil)
	}
	to := types.SubscriptionStatusActive
	if in.Paused {
		to = types.SubscriptionStatusPaused
	}
	changedAt := in.ChangedAt.UTC()
	if in.ChangedAt.IsZero() {
		changedAt = a.deps.Base.Now()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		sub, err := a.deps.Subscriptions.LockByID(dbc, in.SubscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "subscription not found", nil)
		}
		if sub.Status == to {
			out = domainagg.PauseSubscriptionResult{SubscriptionID: sub.ID, Status: to}
			return nil
		}
		if err := RequireStatusAllowed(sub.Status, types.SubscriptionStatusActive, types.SubscriptionStatusPaused); err != nil {
			return InvariantError(fmt.Sprintf("subscription is %s and cannot become %s", sub.Status, to))
		}
		if err := a.deps.Subscriptions.UpdateStatus(dbc, sub.ID, to, changedAt); err != nil {
			return err
		}
		out = domainagg.PauseSubscriptionResult{SubscriptionID: sub.ID, Status: to, Changed: true}
		return nil
	})
	return out, err
}
