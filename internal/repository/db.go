package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/joseph-ayodele/finpro/internal/common"
)

// Dialect names the SQL flavour behind a DB.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

type Config struct {
	// DSN is postgres://… / postgresql://… for PostgreSQL, and sqlite://path
	// or a bare file path for SQLite.
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// DB is a database/sql handle plus what the repositories need to know about it.
type DB struct {
	SQL     *sql.DB
	Dialect Dialect
	pool    *pgxpool.Pool
	logger  *slog.Logger
}

// Open connects to the configured database and makes sure the schema exists.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dialect, target, err := parseDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	var db *DB
	switch dialect {
	case DialectPostgres:
		db, err = openPostgres(ctx, cfg, logger)
	default:
		db, err = openSQLite(target, logger)
	}
	if err != nil {
		logger.Error("failed to connect to database", "dialect", dialect, "error", err)
		return nil, err
	}

	if err := db.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("successfully connected to database", "dialect", dialect)
	return db, nil
}

func parseDSN(dsn string) (Dialect, string, error) {
	switch {
	case dsn == "":
		return "", "", common.NewAppError(common.CodeStore, "empty store DSN", common.ErrInvalidInput)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.Contains(dsn, "://"):
		return "", "", common.NewAppError(common.CodeStore, "unsupported store DSN scheme", common.ErrInvalidInput)
	default:
		return DialectSQLite, dsn, nil
	}
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "finpro"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}

	dialCtx, cancel := common.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return &DB{SQL: stdlib.OpenDBFromPool(pool), Dialect: DialectPostgres, pool: pool, logger: logger}, nil
}

func openSQLite(path string, logger *slog.Logger) (*DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
	}
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// one writer; also keeps :memory: on a single connection
	sqlDB.SetMaxOpenConns(1)
	return &DB{SQL: sqlDB, Dialect: DialectSQLite, logger: logger}, nil
}

// Close closes the database connections gracefully.
func (db *DB) Close() {
	db.logger.Info("closing database connections")
	if err := db.SQL.Close(); err != nil {
		db.logger.Error("failed to close database", "error", err)
	}
	if db.pool != nil {
		db.pool.Close()
	}
}

// HealthCheck pings the database.
func (db *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := common.WithTimeout(ctx, timeout)
	defer cancel()
	db.logger.Debug("pinging database")
	return db.SQL.PingContext(ctx)
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (db *DB) rebind(query string) string {
	if db.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id           TEXT PRIMARY KEY,
	label        TEXT NOT NULL,
	path         TEXT NOT NULL,
	format       TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	pages        INTEGER NOT NULL,
	images       INTEGER NOT NULL,
	status       TEXT NOT NULL,
	metrics      TEXT NOT NULL,
	diagnostics  TEXT NOT NULL,
	summary      TEXT NOT NULL,
	warnings     TEXT NOT NULL,
	started_at   TEXT NOT NULL,
	duration_ms  BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_hash ON analyses (content_hash, started_at);
CREATE INDEX IF NOT EXISTS idx_analyses_started ON analyses (started_at);
`

func (db *DB) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.SQL.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
