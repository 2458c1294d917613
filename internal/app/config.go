package app

import (
	"strings"
	"time"

	"github.com/yungbote/tidyhome-backend/internal/data/db"
	"github.com/yungbote/tidyhome-backend/internal/observability"
	"github.com/yungbote/tidyhome-backend/internal/platform/envutil"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
	"github.com/yungbote/tidyhome-backend/internal/realtime/bus"
	"github.com/yungbote/tidyhome-backend/internal/scheduler"
)

type Config struct {
	Port        string
	ServiceName string
	Environment string
	Version     string
	CORSOrigins []string

	LogMode string
	LogFile logger.FileOptions

	DB db.Config

	RedisAddr    string
	RedisChannel string

	MetricsAddr string
	Tracing     observability.OtelConfig

	Scheduler scheduler.Config
	SeedDemo  bool
}

func LoadConfig() Config {
	return Config{
		Port:        envutil.String("PORT", "8080"),
		ServiceName: envutil.String("SERVICE_NAME", "tidyhome"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
		CORSOrigins: splitList(envutil.String("CORS_ORIGINS", "")),

		LogMode: envutil.String("LOG_MODE", "development"),
		LogFile: logger.FileOptions{
			Path:       envutil.String("LOG_FILE", ""),
			MaxSizeMB:  envutil.Int("LOG_FILE_MAX_SIZE_MB", 100),
			MaxBackups: envutil.Int("LOG_FILE_MAX_BACKUPS", 5),
			MaxAgeDays: envutil.Int("LOG_FILE_MAX_AGE_DAYS", 14),
			Compress:   envutil.Bool("LOG_FILE_COMPRESS", true),
		},

		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverPostgres),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "tidyhome"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", "tidyhome.db"),
			MaxOpenConns:     envutil.Int("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:     envutil.Int("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  envutil.Duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},

		RedisAddr:    envutil.String("REDIS_ADDR", ""),
		RedisChannel: envutil.String("REDIS_CHANNEL", bus.DefaultChannel),

		MetricsAddr: envutil.String("METRICS_ADDR", ":9090"),
		Tracing: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
		},

		Scheduler: scheduler.Config{
			Enabled:     envutil.Bool("SCHEDULER_ENABLED", false),
			Spec:        envutil.String("SCHEDULER_CRON", "@every 1h"),
			HorizonDays: envutil.Int("SCHEDULER_HORIZON_DAYS", 28),
			Concurrency: envutil.Int("SCHEDULER_CONCURRENCY", 4),
		},
		SeedDemo: envutil.Bool("SEED_DEMO", false),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
