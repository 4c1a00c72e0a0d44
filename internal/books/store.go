package books

import (
	"context"

	"github.com/dhima/bookshelf-api/internal/models"
)

// BookStore defines the storage methods required by the book service.
// UpdateBook and DeleteBook report whether the row existed.
type BookStore interface {
	InsertBook(ctx context.Context, title, author string, publicationYear int64) (int64, error)
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id int64) (*models.Book, error)
	UpdateBook(ctx context.Context, id int64, title, author string, publicationYear int64) (bool, error)
	DeleteBook(ctx context.Context, id int64) (bool, error)
	CountBooks(ctx context.Context) (int64, error)
}
