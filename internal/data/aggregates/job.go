package aggregates

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yungbote/tidyhome-backend/internal/data/repos"
	types "github.com/yungbote/tidyhome-backend/internal/domain"
	domainagg "github.com/yungbote/tidyhome-backend/internal/domain/aggregates"
	"github.com/yungbote/tidyhome-backend/internal/domain/booking"
	"github.com/yungbote/tidyhome-backend/internal/modules/pricing"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
)

// Pricer prices a booking against the catalog in effect.
type Pricer interface {
	Quote(bedrooms, bathrooms, sqft int, frequency string, extraIDs []string) pricing.Quote
}

type JobAggregateDeps struct {
	Base BaseDeps

	Customers     repos.CustomerRepo
	Subscriptions repos.SubscriptionRepo
	Jobs          repos.JobRepo
	Pricer        Pricer
}

type jobAggregate struct {
	deps JobAggregateDeps
}

func NewJobAggregate(deps JobAggregateDeps) domainagg.JobAggregate {
	deps.Base = deps.Base.withDefaults()
	return &jobAggregate{deps: deps}
}

func (a *jobAggregate) Contract() domainagg.Contract {
	return domainagg.JobAggregateContract
}

func (a *jobAggregate) Create(ctx context.Context, in domainagg.CreateJobInput) (domainagg.CreateJobResult, error) {
	const op = "Booking.Job.Create"
	var out domainagg.CreateJobResult

	if a.deps.Customers == nil || a.deps.Subscriptions == nil || a.deps.Jobs == nil || a.deps.Pricer == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "job aggregate deps not configured", nil)
	}
	if msg := validateCreateJob(in); msg != "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, msg, nil)
	}

	frequency := booking.NormalizeFrequency(in.Frequency)
	extraIDs := normalizeExtraIDs(in.ExtraIDs)
	jobID := in.JobID
	if jobID == uuid.Nil {
		jobID = uuid.New()
	}
	createdAt := in.CreatedAt.UTC()
	if in.CreatedAt.IsZero() {
		createdAt = a.deps.Base.Now()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		cust, err := a.deps.Customers.GetByID(dbc, in.CustomerID)
		if err != nil {
			return err
		}
		if cust == nil {
			return domainagg.NewError(domainagg.CodeValidation, op, "customer not found", nil)
		}

		if in.SubscriptionID != nil {
			sub, err := a.deps.Subscriptions.LockByID(dbc, *in.SubscriptionID)
			if err != nil {
				return err
			}
			if sub == nil {
				return domainagg.NewError(domainagg.CodeValidation, op, "subscription not found", nil)
			}
			if sub.CustomerID != cust.ID {
				return domainagg.NewError(domainagg.CodeValidation, op, "subscription belongs to a different customer", nil)
			}
			if sub.Status == types.SubscriptionStatusCancelled {
				return InvariantError(fmt.Sprintf("subscription %s is cancelled", sub.ID))
			}
		}

		quote := a.deps.Pricer.Quote(in.Bedrooms, in.Bathrooms, in.Sqft, frequency, extraIDs)
		snapshot, err := extrasSnapshot(quote.Extras)
		if err != nil {
			return err
		}

		row := &types.Job{
			ID:             jobID,
			CustomerID:     cust.ID,
			SubscriptionID: in.SubscriptionID,
			ScheduledDate:  strings.TrimSpace(in.ScheduledDate),
			ArrivalWindow:  strings.TrimSpace(in.ArrivalWindow),
			PriceSnapshot:  quote.Total,
			ExtrasSnapshot: snapshot,
			Bedrooms:       in.Bedrooms,
			Bathrooms:      in.Bathrooms,
			Sqft:           in.Sqft,
			Frequency:      frequency,
			Status:         types.JobStatusScheduled,
			CreatedAt:      createdAt,
			UpdatedAt:      createdAt,
		}
		if _, err := a.deps.Jobs.Create(dbc, []*types.Job{row}); err != nil {
			return err
		}

		out = domainagg.CreateJobResult{
			JobID:         row.ID,
			PriceSnapshot: row.PriceSnapshot,
			ExtrasCount:   len(quote.Extras),
			CreatedAt:     createdAt,
		}
		return nil
	})
	return out, err
}

func (a *jobAggregate) Transition(ctx context.Context, in domainagg.TransitionJobInput) (domainagg.TransitionJobResult, error) {
	const op = "Booking.Job.Transition"
	var out domainagg.TransitionJobResult

	if in.JobID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing job_id", nil)
	}
	if a.deps.Jobs == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "job repo not configured", nil)
	}
	to := strings.ToLower(strings.TrimSpace(in.ToStatus))
	if !booking.IsTerminalJobStatus(to) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "target status must be completed or cancelled", nil)
	}
	transitionAt := in.TransitionAt.UTC()
	if in.TransitionAt.IsZero() {
		transitionAt = a.deps.Base.Now()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		job, err := a.deps.Jobs.LockByID(dbc, in.JobID)
		if err != nil {
			return err
		}
		if job == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "job not found", nil)
		}

		if job.Status == to {
			out = domainagg.TransitionJobResult{JobID: job.ID, Status: to, TransitionAt: job.UpdatedAt}
			return nil
		}
		if job.Status != types.JobStatusScheduled {
			return InvariantError(fmt.Sprintf("job is %s and cannot become %s", job.Status, to))
		}

		applied, err := a.deps.Base.Guard.Advance(dbc, types.Job{}, job.ID,
			[]string{types.JobStatusScheduled},
			map[string]any{"status": to, "updated_at": transitionAt},
		)
		if err != nil {
			return err
		}
		if err := RequireApplied(applied, "job status"); err != nil {
			return err
		}

		out = domainagg.TransitionJobResult{JobID: job.ID, Status: to, Changed: true, TransitionAt: transitionAt}
		return nil
	})
	return out, err
}

// Upper bounds keep a quote well inside the numeric(10,2) price column.
const (
	maxRooms = 50
	maxSqft  = 99999
)

func validateCreateJob(in domainagg.CreateJobInput) string {
	var problems []string
	if in.CustomerID == uuid.Nil {
		problems = append(problems, "customer_id is required")
	}
	if in.SubscriptionID != nil && *in.SubscriptionID == uuid.Nil {
		problems = append(problems, "subscription_id must not be empty")
	}
	if _, err := booking.ParseDate(in.ScheduledDate); err != nil {
		problems = append(problems, "scheduled_date: "+err.Error())
	}
	if _, err := booking.ParseArrivalWindow(in.ArrivalWindow); err != nil {
		problems = append(problems, "arrival_window: "+err.Error())
	}
	for _, f := range []struct {
		name string
		v    int
		max  int
	}{
		{"bedrooms", in.Bedrooms, maxRooms},
		{"bathrooms", in.Bathrooms, maxRooms},
		{"sqft", in.Sqft, maxSqft},
	} {
		if f.v < 0 || f.v > f.max {
			problems = append(problems, fmt.Sprintf("%s must be between 0 and %d", f.name, f.max))
		}
	}
	if !booking.IsJobFrequency(in.Frequency) {
		problems = append(problems, fmt.Sprintf("frequency %q must be one of one-time, weekly, biweekly, monthly", in.Frequency))
	}
	return strings.Join(problems, "; ")
}

func normalizeExtraIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func extrasSnapshot(extras []pricing.Extra) (datatypes.JSON, error) {
	lines := make([]types.ExtraLine, 0, len(extras))
	for _, e := range extras {
		lines = append(lines, types.ExtraLine{ID: e.ID, Name: e.Name, Price: e.Price})
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
