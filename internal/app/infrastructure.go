package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"

	"github.com/heapsdsa/heapsauth/internal/config"
	"github.com/heapsdsa/heapsauth/internal/queue"
	"github.com/heapsdsa/heapsauth/pkg/database"
	"github.com/heapsdsa/heapsauth/pkg/observability"
)

type Infrastructure interface {
	Postgres() *database.Postgres
	Redis() *database.Redis
	Mongo() *database.Mongo
	Publisher() queue.Publisher
	Logger() *zap.Logger
	MetricsHandler() http.Handler
	MeterProvider() *metric.MeterProvider

	Shutdown(ctx context.Context) error
}

type infrastructure struct {
	postgres       *database.Postgres
	redis          *database.Redis
	mongo          *database.Mongo
	publisher      queue.Publisher
	logger         *zap.Logger
	metricsHandler http.Handler
	meterProvider  *metric.MeterProvider
}

var _ Infrastructure = &infrastructure{}

func NewInfrastructure(ctx context.Context, cfg config.Config) (*infrastructure, error) {
	i := &infrastructure{}

	logger, err := observability.InitLogger(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	i.logger = logger

	postgres, err := database.NewPostgres(cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	i.postgres = postgres

	redis, err := database.NewRedis(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		_ = i.postgres.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	i.redis = redis

	mongo, err := database.NewMongo(ctx, cfg.Mongo.URI, cfg.Mongo.DBName)
	if err != nil {
		_ = i.postgres.Close()
		_ = i.redis.Close()
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	i.mongo = mongo

	// No AMQP URL means mail events are dropped, which is fine for local runs
	if cfg.AMQP.URL != "" {
		publisher, err := queue.NewRabbit(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			_ = i.postgres.Close()
			_ = i.redis.Close()
			_ = i.mongo.Close()
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		i.publisher = publisher
	} else {
		logger.Warn("AMQP_URL is empty, verification mail events will not be published")
		i.publisher = queue.NewNoop()
	}

	meterProvider, metricsHandler, err := observability.InitTelemetry("heapsauth")
	if err != nil {
		_ = i.postgres.Close()
		_ = i.redis.Close()
		_ = i.mongo.Close()
		_ = i.publisher.Close()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	i.meterProvider = meterProvider
	i.metricsHandler = metricsHandler

	return i, nil
}

func (i *infrastructure) Postgres() *database.Postgres {
	return i.postgres
}

func (i *infrastructure) Redis() *database.Redis {
	return i.redis
}

func (i *infrastructure) Mongo() *database.Mongo {
	return i.mongo
}

func (i *infrastructure) Publisher() queue.Publisher {
	return i.publisher
}

func (i *infrastructure) Logger() *zap.Logger {
	return i.logger
}

func (i *infrastructure) MetricsHandler() http.Handler {
	return i.metricsHandler
}

func (i *infrastructure) MeterProvider() *metric.MeterProvider {
	return i.meterProvider
}

func (i *infrastructure) Shutdown(ctx context.Context) error {
	errs := make(chan error, 6)

	go func() { errs <- i.postgres.Close() }()
	go func() { errs <- i.redis.Close() }()
	go func() { errs <- i.mongo.Close() }()
	go func() { errs <- i.publisher.Close() }()
	go func() { errs <- i.logger.Sync() }()
	go func() { errs <- observability.Shutdown(ctx, i.meterProvider, i.logger) }()

	return errors.Join(<-errs, <-errs, <-errs, <-errs, <-errs, <-errs)
}
