package infra

import (
	"context"
	"errors"

	"github.com/tnqbao/gau-bucket-list/config"
	"github.com/tnqbao/gau-bucket-list/infra/produce"
)

type Infra struct {
	Database  *DatabaseClient
	Redis     *RedisClient
	Logger    *LoggerClient
	RabbitMQ  *RabbitMQClient
	Produce   *produce.Produce
	Activity  *ActivityFeed
	Telemetry *TelemetryClient
}

// InitInfra connects every backing service. Redis and RabbitMQ are skipped when the activity feed is disabled.
func InitInfra(cfg *config.Config) *Infra {
	telemetry, err := InitTelemetryClient(cfg.EnvConfig)
	if err != nil {
		panic("Failed to initialize Telemetry service: " + err.Error())
	}

	logger := InitLoggerClient(cfg.EnvConfig)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	database := InitDatabaseClient(cfg.EnvConfig)
	if database == nil && cfg.EnvConfig.Database.Driver != config.DriverMemory {
		panic("Failed to initialize Database service")
	}

	infra := &Infra{
		Database:  database,
		Logger:    logger,
		Telemetry: telemetry,
	}

	if !cfg.EnvConfig.Activity.Enabled {
		logger.WarningWithContextf(context.Background(), "[Infra] Activity feed disabled, skipping Redis and RabbitMQ")
		return infra
	}

	redis := InitRedisClient(cfg.EnvConfig)
	if redis == nil {
		panic("Failed to initialize Redis service")
	}

	rabbitMQ := InitRabbitMQClient(cfg.EnvConfig)
	if rabbitMQ == nil {
		panic("Failed to initialize RabbitMQ service")
	}

	produceService := produce.InitProduce(rabbitMQ.Channel)
	if produceService == nil {
		panic("Failed to initialize Produce service")
	}

	infra.Redis = redis
	infra.RabbitMQ = rabbitMQ
	infra.Produce = produceService
	infra.Activity = NewActivityFeed(redis, cfg.EnvConfig.Activity.Limit)

	return infra
}

// Close releases connections and flushes telemetry, logger last.
func (i *Infra) Close(ctx context.Context) error {
	var errs []error
	if i.RabbitMQ != nil {
		errs = append(errs, i.RabbitMQ.Close())
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.Database != nil {
		errs = append(errs, i.Database.Close())
	}
	if i.Telemetry != nil {
		errs = append(errs, i.Telemetry.Shutdown(ctx))
	}
	if i.Logger != nil {
		errs = append(errs, i.Logger.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
