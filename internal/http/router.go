package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/tidyhome-backend/internal/http/handlers"
	httpMW "github.com/yungbote/tidyhome-backend/internal/http/middleware"
	"github.com/yungbote/tidyhome-backend/internal/observability"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	HealthHandler       *httpH.HealthHandler
	PricingHandler      *httpH.PricingHandler
	CustomerHandler     *httpH.CustomerHandler
	JobHandler          *httpH.JobHandler
	SubscriptionHandler *httpH.SubscriptionHandler
	TimeLogHandler      *httpH.TimeLogHandler
	EventHandler        *httpH.EventHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(httpMW.Tracing(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Pricing
		if cfg.PricingHandler != nil {
			api.GET("/pricing/catalog", cfg.PricingHandler.GetCatalog)
			api.POST("/pricing/quote", cfg.PricingHandler.Quote)
		}

		// Customers
		if cfg.CustomerHandler != nil {
			api.GET("/customers", cfg.CustomerHandler.ListCustomers)
			api.GET("/customers/:id", cfg.CustomerHandler.GetCustomer)
			api.POST("/customers", cfg.CustomerHandler.CreateCustomer)
		}

		// Jobs
		if cfg.JobHandler != nil {
			api.GET("/jobs", cfg.JobHandler.ListJobs)
			api.GET("/jobs/today", cfg.JobHandler.ListToday)
			api.GET("/jobs/:id", cfg.JobHandler.GetJob)
			api.POST("/jobs", cfg.JobHandler.CreateJob)
			api.POST("/jobs/:id/complete", cfg.JobHandler.CompleteJob)
			api.POST("/jobs/:id/cancel", cfg.JobHandler.CancelJob)
		}

		// Subscriptions
		if cfg.SubscriptionHandler != nil {
			api.GET("/subscriptions", cfg.SubscriptionHandler.ListSubscriptions)
			api.GET("/subscriptions/:id", cfg.SubscriptionHandler.GetSubscription)
			api.GET("/subscriptions/:id/jobs", cfg.SubscriptionHandler.ListSubscriptionJobs)
			api.POST("/subscriptions", cfg.SubscriptionHandler.CreateSubscription)
			api.POST("/subscriptions/:id/cancel", cfg.SubscriptionHandler.CancelSubscription)
			api.POST("/subscriptions/:id/pause", cfg.SubscriptionHandler.PauseSubscription)
			api.POST("/subscriptions/:id/resume", cfg.SubscriptionHandler.ResumeSubscription)
		}

		// Time tracking
		if cfg.TimeLogHandler != nil {
			api.GET("/timelogs", cfg.TimeLogHandler.ListTimeLogs)
			api.POST("/timelogs/clock-in", cfg.TimeLogHandler.ClockIn)
			api.POST("/timelogs/:id/clock-out", cfg.TimeLogHandler.ClockOut)
		}

		// Events (SSE)
		if cfg.EventHandler != nil {
			api.GET("/events", cfg.EventHandler.Stream)
		}
	}

	return r
}
