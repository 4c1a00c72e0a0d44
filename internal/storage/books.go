package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dhima/bookshelf-api/internal/models"
)

// ErrBookNotFound is returned when a book is not found.
var ErrBookNotFound = errors.New("book not found")

// InsertBook appends a row and returns the identifier the database assigned.
func (s *Store) InsertBook(ctx context.Context, title, author string, publicationYear int64) (int64, error) {
	var id int64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(
			ctx,
			`INSERT INTO books (title, author, publication_year) VALUES (?, ?, ?)`,
			title,
			author,
			publicationYear,
		)
		if err != nil {
			return fmt.Errorf("insert book: %w", err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListBooks returns every row ordered by id.
func (s *Store) ListBooks(ctx context.Context) ([]models.Book, error) {
	books := make([]models.Book, 0)
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(
			ctx,
			`SELECT id, title, author, publication_year FROM books ORDER BY id ASC`,
		)
		if err != nil {
			return fmt.Errorf("query books: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var b models.Book
			if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.PublicationYear); err != nil {
				return fmt.Errorf("scan book row: %w", err)
			}
			books = append(books, b)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate books: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook fetches a single book by primary key.
func (s *Store) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		row := conn.QueryRowContext(
			ctx,
			`SELECT id, title, author, publication_year FROM books WHERE id = ?`,
			id,
		)
		if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.PublicationYear); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookNotFound
			}
			return fmt.Errorf("scan book: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBook replaces the three mutable fields of a book and reports whether the row existed.
func (s *Store) UpdateBook(ctx context.Context, id int64, title, author string, publicationYear int64) (bool, error) {
	return s.execAffecting(ctx, "update book",
		`UPDATE books SET title = ?, author = ?, publication_year = ? WHERE id = ?`,
		title, author, publicationYear, id,
	)
}

// DeleteBook removes a book and reports whether the row existed.
func (s *Store) DeleteBook(ctx context.Context, id int64) (bool, error) {
	return s.execAffecting(ctx, "delete book", `DELETE FROM books WHERE id = ?`, id)
}

// CountBooks returns the number of stored books.
func (s *Store) CountBooks(ctx context.Context) (int64, error) {
	var total int64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
			return fmt.Errorf("count books: %w", err)
		}
		return nil
	})
	return total, err
}

func (s *Store) execAffecting(ctx context.Context, op, query string, args ...interface{}) (bool, error) {
	var found bool
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}

		found = rows > 0
		return nil
	})
	return found, err
}
