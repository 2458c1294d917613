package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/tidyhome-backend/internal/platform/envutil"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiReqTotal *Counter
	apiReqError *Counter

	aggregateOps      *CounterVec
	aggregateLatency  *HistogramVec
	aggregateConflict *CounterVec
	aggregateRetry    *CounterVec

	jobsBooked          *CounterVec
	jobTransitions      *CounterVec
	cascadeCancelled    *Counter
	subscriptionChanges *CounterVec
	timeLogEvents       *CounterVec
	quotes              *CounterVec
	plannerRuns         *CounterVec
	plannerBooked       *Counter
	eventsPublished     *CounterVec

	pgStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

func scrapeInterval() time.Duration {
	d := envutil.Duration("METRICS_SCRAPE_INTERVAL", 10*time.Second)
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Init builds the process-wide registry. It returns nil unless METRICS_ENABLED is set;
// every method on a nil *Metrics is a no-op.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

// NewMetrics returns an unregistered set of collectors. Tests use it directly.
func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("th_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"th_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("th_api_inflight_requests", "In-flight API requests."),
		apiReqTotal: NewCounter("th_api_requests_total_all", "Total API requests (all)."),
		apiReqError: NewCounter("th_api_requests_error_total", "Total API requests with 5xx status."),

		aggregateOps: NewCounterVec("th_aggregate_operations_total", "Aggregate write operations by operation/status.", []string{"operation", "status"}),
		aggregateLatency: NewHistogramVec(
			"th_aggregate_operation_duration_seconds",
			"Aggregate write latency in seconds by operation/status.",
			[]string{"operation", "status"},
			nil,
		),
		aggregateConflict: NewCounterVec("th_aggregate_conflicts_total", "Aggregate conflicts by operation.", []string{"operation"}),
		aggregateRetry:    NewCounterVec("th_aggregate_retries_total", "Aggregate retryable failures by operation.", []string{"operation"}),

		jobsBooked:          NewCounterVec("th_jobs_booked_total", "Jobs booked by frequency/source.", []string{"frequency", "source"}),
		jobTransitions:      NewCounterVec("th_job_transitions_total", "Job status transitions by target status.", []string{"status"}),
		cascadeCancelled:    NewCounter("th_subscription_cascade_cancelled_jobs_total", "Scheduled jobs cancelled by subscription cancellation."),
		subscriptionChanges: NewCounterVec("th_subscription_changes_total", "Subscription lifecycle changes by action.", []string{"action"}),
		timeLogEvents:       NewCounterVec("th_time_log_events_total", "Time clock events by action.", []string{"action"}),
		quotes:              NewCounterVec("th_price_quotes_total", "Price quotes computed by frequency.", []string{"frequency"}),
		plannerRuns:         NewCounterVec("th_planner_runs_total", "Recurring planner runs by status.", []string{"status"}),
		plannerBooked:       NewCounter("th_planner_booked_jobs_total", "Jobs booked by the recurring planner."),
		eventsPublished:     NewCounterVec("th_events_published_total", "Domain events published by type/status.", []string{"type", "status"}),

		pgStats:   NewGaugeVec("th_db_pool", "Database connection pool stats.", []string{"stat"}),
		redisUp:   NewGauge("th_redis_up", "Redis reachability (1 = up)."),
		redisPing: NewGauge("th_redis_ping_seconds", "Redis ping latency in seconds."),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	all := []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiReqTotal, m.apiReqError,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflict, m.aggregateRetry,
		m.jobsBooked, m.jobTransitions, m.cascadeCancelled, m.subscriptionChanges,
		m.timeLogEvents, m.quotes, m.plannerRuns, m.plannerBooked, m.eventsPublished,
		m.pgStats, m.redisUp, m.redisPing,
	}
	for _, c := range all {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	m.apiReqTotal.Inc()
	if isServerErrorStatus(status) {
		m.apiReqError.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	name = orUnknown(name)
	status = orUnknown(status)
	m.aggregateOps.Inc(name, status)
	m.aggregateLatency.Observe(dur.Seconds(), name, status)
}

func (m *Metrics) IncAggregateConflict(name string) {
	if m == nil {
		return
	}
	m.aggregateConflict.Inc(orUnknown(name))
}

func (m *Metrics) IncAggregateRetry(name string) {
	if m == nil {
		return
	}
	m.aggregateRetry.Inc(orUnknown(name))
}

func (m *Metrics) IncJobBooked(frequency, source string) {
	if m == nil {
		return
	}
	m.jobsBooked.Inc(orUnknown(frequency), orUnknown(source))
}

func (m *Metrics) IncJobTransition(status string) {
	if m == nil {
		return
	}
	m.jobTransitions.Inc(orUnknown(status))
}

func (m *Metrics) AddCascadeCancelled(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.cascadeCancelled.Add(float64(n))
}

func (m *Metrics) IncSubscriptionChange(action string) {
	if m == nil {
		return
	}
	m.subscriptionChanges.Inc(orUnknown(action))
}

func (m *Metrics) IncTimeLogEvent(action string) {
	if m == nil {
		return
	}
	m.timeLogEvents.Inc(orUnknown(action))
}

func (m *Metrics) IncQuote(frequency string) {
	if m == nil {
		return
	}
	m.quotes.Inc(orUnknown(frequency))
}

func (m *Metrics) ObservePlannerRun(status string, booked int) {
	if m == nil {
		return
	}
	m.plannerRuns.Inc(orUnknown(status))
	if booked > 0 {
		m.plannerBooked.Add(float64(booked))
	}
}

func (m *Metrics) IncEventPublished(eventType, status string) {
	if m == nil {
		return
	}
	m.eventsPublished.Inc(orUnknown(eventType), orUnknown(status))
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.pgStats.Set(float64(stats.OpenConnections), "open_connections")
				m.pgStats.Set(float64(stats.InUse), "in_use")
				m.pgStats.Set(float64(stats.Idle), "idle")
				m.pgStats.Set(float64(stats.WaitCount), "wait_count")
				m.pgStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.pgStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	interval := scrapeInterval()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func isServerErrorStatus(status string) bool {
	status = strings.TrimSpace(status)
	if len(status) < 3 {
		return false
	}
	return status[0] == '5'
}

func orUnknown(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}
