package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/po-extractor/internal/common"
)

type Config struct {
	Driver          string // "postgres" | "sqlite"
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// DB is an ent SQL driver over either a pgx pool or a SQLite database.
type DB struct {
	drv     *entsql.Driver
	pool    *pgxpool.Pool
	dialect string
}

// Open connects, wraps the connection for ent, and creates missing tables.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	logger = common.LoggerOrDefault(logger)
	logger.Info("connecting to database", "driver", cfg.Driver)

	var db *DB
	var err error
	switch cfg.Driver {
	case common.DriverPostgres:
		db, err = openPostgres(ctx, cfg)
	case common.DriverSQLite:
		db, err = openSQLite(cfg)
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, common.NewAppError("DB_ERROR", "open database", fmt.Errorf("%w: %w", common.ErrDatabase, err))
	}

	if err := db.migrate(ctx); err != nil {
		db.Close(logger)
		logger.Error("failed to create tables", "error", err)
		return nil, common.NewAppError("DB_ERROR", "create tables", fmt.Errorf("%w: %w", common.ErrDatabase, err))
	}

	logger.Info("successfully connected to database")
	return db, nil
}

func openPostgres(ctx context.Context, cfg Config) (*DB, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "po-extractor"

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}

	// Wrap pool as *sql.DB for Ent
	sqldb := stdlib.OpenDBFromPool(pool)
	return &DB{drv: entsql.OpenDB(dialect.Postgres, sqldb), pool: pool, dialect: dialect.Postgres}, nil
}

func openSQLite(cfg Config) (*DB, error) {
	sqldb, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	// single writer; concurrent writers only contend on the file lock
	sqldb.SetMaxOpenConns(1)
	if cfg.MaxConnLifetime > 0 {
		sqldb.SetConnMaxLifetime(cfg.MaxConnLifetime)
	}
	return &DB{drv: entsql.OpenDB(dialect.SQLite, sqldb), dialect: dialect.SQLite}, nil
}

// Dialect returns the ent dialect name.
func (db *DB) Dialect() string { return db.dialect }

// Close closes the database connections gracefully
func (db *DB) Close(logger *slog.Logger) {
	logger = common.LoggerOrDefault(logger)
	logger.Info("closing database connections")
	if err := db.drv.Close(); err != nil {
		logger.Error("failed to close ent driver", "error", err)
	}
	if db.pool != nil {
		db.pool.Close()
	}
	logger.Info("database connections closed")
}

// HealthCheck pings using database/sql to catch DSN issues early.
func (db *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if db.pool != nil {
		return db.pool.Ping(ctx)
	}
	return db.drv.DB().PingContext(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS batches (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		total_files INTEGER NOT NULL,
		processed_files INTEGER NOT NULL,
		error_count INTEGER NOT NULL,
		csv_name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS result_rows (
		result_key TEXT PRIMARY KEY,
		batch_id TEXT NOT NULL,
		order_number TEXT NOT NULL,
		item_number TEXT NOT NULL DEFAULT '',
		order_date TEXT NOT NULL DEFAULT '',
		ship_to TEXT NOT NULL DEFAULT '',
		invoice_to TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		delivery_date TEXT NOT NULL DEFAULT '',
		quantity TEXT NOT NULL DEFAULT '',
		unit TEXT NOT NULL DEFAULT '',
		unit_price TEXT NOT NULL DEFAULT '',
		total_price TEXT NOT NULL DEFAULT '',
		tax TEXT NOT NULL DEFAULT '',
		total_with_tax TEXT NOT NULL DEFAULT '',
		consultant TEXT NOT NULL DEFAULT '',
		repse_folio TEXT NOT NULL DEFAULT '',
		period TEXT NOT NULL DEFAULT '',
		provider TEXT NOT NULL DEFAULT '',
		project TEXT NOT NULL DEFAULT '',
		discount TEXT NOT NULL DEFAULT '',
		consultant_type TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS result_rows_order_idx ON result_rows (order_number)`,
}

func (db *DB) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if err := db.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return err
		}
	}
	return nil
}
