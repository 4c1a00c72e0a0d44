package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const (
	// DriverSQLite selects the pure-Go SQLite driver; the DSN is a file path.
	DriverSQLite = "sqlite"
	// DriverMySQL selects the MySQL driver; the DSN is a go-sql-driver DSN.
	DriverMySQL = "mysql"
)

// ErrStorageUnavailable is returned when a connection to the database cannot be acquired.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Config locates the database backing the store.
type Config struct {
	Driver string
	DSN    string
}

// Store is the storage gateway for the books table. Every operation acquires
// its own connection and releases it before returning.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the configured database and verifies it is reachable.
// It does not create the schema; call EnsureSchema once at startup.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverSQLite
	}

	dsn, err := dataSourceName(driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	// No idle connections: a released connection is really closed, so each
	// operation runs on a connection of its own.
	db.SetMaxIdleConns(0)
	db.SetMaxOpenConns(20)
	db.SetConnMaxLifetime(60 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s database: %v", ErrStorageUnavailable, driver, err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver reports which SQL dialect the store speaks.
func (s *Store) Driver() string {
	return s.driver
}

// withConn acquires a dedicated connection, runs fn on it and always releases it.
func (s *Store) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: acquire connection: %v", ErrStorageUnavailable, err)
	}
	defer conn.Close()

	return fn(conn)
}

func dataSourceName(driver, dsn string) (string, error) {
	switch driver {
	case DriverSQLite:
		path := strings.TrimSpace(dsn)
		if path == "" {
			return "", fmt.Errorf("sqlite database path is required")
		}
		// Each connection to an in-memory database is a separate empty database,
		// and no connection outlives an operation here.
		if isSQLiteMemory(path) {
			return "", fmt.Errorf("in-memory sqlite database is not supported: %s", path)
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + "_pragma=busy_timeout(5000)", nil
	case DriverMySQL:
		mc, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		// Report matched rather than changed rows so an update that rewrites
		// identical values still counts as finding the book.
		mc.ClientFoundRows = true
		return mc.FormatDSN(), nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func isSQLiteMemory(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, ":memory:") ||
		strings.HasPrefix(lower, "file::memory:") ||
		strings.Contains(lower, "mode=memory")
}
