package storage

import (
	"context"
	"database/sql"
	"fmt"
)

var createBooksTable = map[string]string{
	DriverSQLite: `CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		publication_year INTEGER NOT NULL
	)`,
	DriverMySQL: `CREATE TABLE IF NOT EXISTS books (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		publication_year BIGINT NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the books table if it does not exist. It is idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl, ok := createBooksTable[s.driver]
	if !ok {
		return fmt.Errorf("no schema for driver %s", s.driver)
	}

	return s.withConn(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create books table: %w", err)
		}
		return nil
	})
}
