package server

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/po-extractor/internal/common"
	"github.com/joseph-ayodele/po-extractor/internal/repository"
)

// ConnectDB opens the results database selected by cfg and returns its
// repository and a close func. DB_DRIVER=none yields a no-op repository.
func ConnectDB(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (repository.ResultRepository, func(), error) {
	logger = common.LoggerOrDefault(logger)
	if cfg.Driver == common.DriverNone {
		logger.Info("result persistence disabled")
		return repository.NopRepository{}, func() {}, nil
	}

	db, err := repository.Open(ctx, repository.Config{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		MaxConns:        cfg.MaxConns,
		MinConns:        cfg.MinConns,
		MaxConnLifetime: cfg.MaxConnLifetime,
		MaxConnIdleTime: cfg.MaxConnIdleTime,
		DialTimeout:     cfg.DialTimeout,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := db.HealthCheck(ctx, cfg.DialTimeout); err != nil {
		db.Close(logger)
		logger.Error("database health check failed", "error", err)
		return nil, nil, err
	}
	return repository.NewResultRepository(db, logger), func() { db.Close(logger) }, nil
}
