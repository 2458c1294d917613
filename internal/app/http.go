package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/tidyhome-backend/internal/http"
	httpH "github.com/yungbote/tidyhome-backend/internal/http/handlers"
	"github.com/yungbote/tidyhome-backend/internal/observability"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
	"github.com/yungbote/tidyhome-backend/internal/realtime"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	Pricing      *httpH.PricingHandler
	Customer     *httpH.CustomerHandler
	Job          *httpH.JobHandler
	Subscription *httpH.SubscriptionHandler
	TimeLog      *httpH.TimeLogHandler
	Event        *httpH.EventHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(),
		Pricing:      httpH.NewPricingHandler(services.Pricing),
		Customer:     httpH.NewCustomerHandler(services.Customer),
		Job:          httpH.NewJobHandler(services.Job),
		Subscription: httpH.NewSubscriptionHandler(services.Subscription),
		TimeLog:      httpH.NewTimeLogHandler(services.TimeClock),
		Event:        httpH.NewEventHandler(log, hub),
	}
}

func wireRouter(cfg Config, log *logger.Logger, metrics *observability.Metrics, handlers Handlers) *http.Server {
	if cfg.LogMode == "production" || cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	return http.NewServer(http.RouterConfig{
		Log:                 log,
		Metrics:             metrics,
		ServiceName:         cfg.ServiceName,
		CORSOrigins:         cfg.CORSOrigins,
		HealthHandler:       handlers.Health,
		PricingHandler:      handlers.Pricing,
		CustomerHandler:     handlers.Customer,
		JobHandler:          handlers.Job,
		SubscriptionHandler: handlers.Subscription,
		TimeLogHandler:      handlers.TimeLog,
		EventHandler:        handlers.Event,
	})
}
