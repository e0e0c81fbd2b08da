package postgres

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/jwalitptl/push-api/internal/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// NewDB opens the pooled store handle. The pool is bounded by
// cfg.MaxOpenConns; an in-memory sqlite database is pinned to a single
// connection so every caller sees the same data.
func NewDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverPostgres
	}

	var dsn string
	switch driver {
	case DriverPostgres:
		dsn = cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf(
				"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				cfg.Host,
				cfg.Port,
				cfg.User,
				cfg.Password,
				cfg.Name,
				cfg.SSLMode,
			)
		}
	case DriverSQLite:
		dsn = sqliteDSN(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	if driver == DriverSQLite && strings.Contains(dsn, ":memory:") {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// sqliteDSN makes sure every pooled connection enforces foreign keys and
// waits on a locked database instead of failing, and that timestamps are
// written in a sortable layout.
func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "file:fanout.db"
	}
	if !strings.Contains(dsn, "busy_timeout") {
		dsn = appendParam(dsn, "_pragma=busy_timeout(5000)")
	}
	if !strings.Contains(dsn, "foreign_keys") {
		dsn = appendParam(dsn, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "_time_format") {
		dsn = appendParam(dsn, "_time_format=sqlite")
	}
	return dsn
}

func appendParam(dsn, param string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}
