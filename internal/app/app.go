package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/tidyhome-backend/internal/data/db"
	"github.com/yungbote/tidyhome-backend/internal/http"
	"github.com/yungbote/tidyhome-backend/internal/modules/pricing"
	"github.com/yungbote/tidyhome-backend/internal/observability"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
	"github.com/yungbote/tidyhome-backend/internal/realtime"
	"github.com/yungbote/tidyhome-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Hub      *realtime.Hub
	Bus      bus.Bus
	Metrics  *observability.Metrics

	server       *http.Server
	store        *db.PostgresService
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg := LoadConfig()

	log, err := logger.NewWithFile(cfg.LogMode, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Configuration loaded", "port", cfg.Port, "db_driver", cfg.DB.Driver, "scheduler", cfg.Scheduler.Enabled)

	store, err := db.NewPostgresService(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(store.DB()); err != nil {
		_ = store.Close()
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := store.DB()

	metrics := observability.Init(log)
	tracing := cfg.Tracing
	tracing.ServiceName, tracing.Environment, tracing.Version = cfg.ServiceName, cfg.Environment, cfg.Version
	otelShutdown := observability.InitOTel(ctx, log, tracing)

	catalog := pricing.Load(log)

	hub := realtime.NewHub(log)
	eventBus := bus.New(log, cfg.RedisAddr, cfg.RedisChannel)
	emitter := realtime.NewEmitter(eventBus, log, metrics)

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, catalog, emitter, metrics)
	handlerset := wireHandlers(log, serviceset, hub)
	server := wireRouter(cfg, log, metrics, handlerset)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       server.Engine,
		server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Hub:          hub,
		Bus:          eventBus,
		Metrics:      metrics,
		store:        store,
		otelShutdown: otelShutdown,
	}, nil
}

// Run seeds demo data when configured, then serves HTTP and runs the planner
// until ctx is done or one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Cfg.SeedDemo {
		if _, err := a.Services.Seeder.Run(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	// Events reach stream clients through the bus so every instance sees them.
	if err := a.Bus.StartForwarder(gctx, a.Hub.Broadcast); err != nil {
		return fmt.Errorf("start event forwarder: %w", err)
	}
	a.Metrics.StartServer(gctx, a.Log, a.Cfg.MetricsAddr)
	a.Metrics.StartPostgresCollector(gctx, a.Log, a.DB)
	a.Metrics.StartRedisCollector(gctx, a.Log, a.Cfg.RedisAddr)

	g.Go(func() error {
		return a.Services.Planner.Run(gctx)
	})
	g.Go(func() error {
		addr := ":" + a.Cfg.Port
		a.Log.Info("Server listening", "addr", addr)
		return a.server.Run(gctx, addr)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("event bus close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
