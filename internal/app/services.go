package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/tidyhome-backend/internal/data/aggregates"
	"github.com/yungbote/tidyhome-backend/internal/modules/pricing"
	"github.com/yungbote/tidyhome-backend/internal/observability"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
	"github.com/yungbote/tidyhome-backend/internal/realtime"
	"github.com/yungbote/tidyhome-backend/internal/scheduler"
	"github.com/yungbote/tidyhome-backend/internal/seed"
	"github.com/yungbote/tidyhome-backend/internal/services"
)

type Services struct {
	Pricing      services.PricingService
	Customer     services.CustomerService
	Job          services.JobService
	Subscription services.SubscriptionService
	TimeClock    services.TimeClockService

	Planner *scheduler.Planner
	Seeder  *seed.Seeder
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	reposet Repos,
	catalog *pricing.Catalog,
	events *realtime.Emitter,
	metrics *observability.Metrics,
) Services {
	log.Info("Wiring services...")

	base := aggregates.BaseDeps{
		DB:    db,
		Log:   log,
		Hooks: aggregates.NewObservabilityHooks(metrics),
	}
	jobAgg := aggregates.NewJobAggregate(aggregates.JobAggregateDeps{
		Base:          base,
		Customers:     reposet.Customer,
		Subscriptions: reposet.Subscription,
		Jobs:          reposet.Job,
		Pricer:        catalog,
	})
	subAgg := aggregates.NewSubscriptionAggregate(aggregates.SubscriptionAggregateDeps{
		Base:          base,
		Subscriptions: reposet.Subscription,
		Jobs:          reposet.Job,
	})

	pricingService := services.NewPricingService(log, catalog, metrics)
	customerService := services.NewCustomerService(db, log, reposet.Customer)
	jobService := services.NewJobService(log, reposet.Job, jobAgg, events, metrics)
	subscriptionService := services.NewSubscriptionService(db, log, reposet.Customer, reposet.Subscription, reposet.Job, subAgg, events, metrics)
	timeClockService := services.NewTimeClockService(db, log, reposet.Job, reposet.TimeLog, events, metrics)

	return Services{
		Pricing:      pricingService,
		Customer:     customerService,
		Job:          jobService,
		Subscription: subscriptionService,
		TimeClock:    timeClockService,
		Planner:      scheduler.NewPlanner(cfg.Scheduler, log, reposet.Subscription, reposet.Job, jobService, metrics),
		Seeder:       seed.NewSeeder(log, reposet.Customer, reposet.TimeLog, customerService, subscriptionService, jobService),
	}
}
