package books

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dhima/bookshelf-api/internal/logging"
	"github.com/dhima/bookshelf-api/internal/models"
	"github.com/dhima/bookshelf-api/internal/storage"
	"github.com/dhima/bookshelf-api/pkg/clock"
	"github.com/dhima/bookshelf-api/platform/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// Service encapsulates book business logic.
type Service struct {
	store     BookStore
	publisher events.Publisher
	logger    logging.Logger
	clock     clock.Clock
}

// NewService creates a book service using the real clock.
func NewService(store BookStore, publisher events.Publisher, logger logging.Logger) *Service {
	return NewServiceWithClock(store, publisher, logger, clock.RealClock{})
}

// NewServiceWithClock creates a book service with an explicit clock for event timestamps.
func NewServiceWithClock(store BookStore, publisher events.Publisher, logger logging.Logger, clk clock.Clock) *Service {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger.With(zap.String("component", "book-service")),
		clock:     clk,
	}
}

// CreateBook persists a new book and returns it with its assigned id.
func (s *Service) CreateBook(ctx context.Context, in models.BookInput) (*models.Book, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	id, err := s.store.InsertBook(ctx, in.Title, in.Author, in.PublicationYear)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	book := in.WithID(id)
	s.publish(ctx, models.BookEventCreated, id, &book)
	return &book, nil
}

// ListBooks returns every stored book. The result is never nil.
func (s *Service) ListBooks(ctx context.Context) ([]models.Book, error) {
	list, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if list == nil {
		list = []models.Book{}
	}
	return list, nil
}

// GetBook fetches a single book.
func (s *Service) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.store.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrBookNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// UpdateBook replaces all three mutable fields of an existing book.
func (s *Service) UpdateBook(ctx context.Context, id int64, in models.BookInput) (*models.Book, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	found, err := s.store.UpdateBook(ctx, id, in.Title, in.Author, in.PublicationYear)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	if !found {
		return nil, storage.ErrBookNotFound
	}

	book := in.WithID(id)
	s.publish(ctx, models.BookEventUpdated, id, &book)
	return &book, nil
}

// DeleteBook removes a book.
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	found, err := s.store.DeleteBook(ctx, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if !found {
		return storage.ErrBookNotFound
	}

	s.publish(ctx, models.BookEventDeleted, id, nil)
	return nil
}

// CountBooks returns the number of stored books.
func (s *Service) CountBooks(ctx context.Context) (int64, error) {
	total, err := s.store.CountBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return total, nil
}

// publish emits a change event for a committed write. Failures are logged only:
// the row is already stored and the request must still succeed.
func (s *Service) publish(ctx context.Context, eventType models.BookEventType, id int64, book *models.Book) {
	event := models.BookEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		BookID:     id,
		Book:       book,
		OccurredAt: s.clock.Now(),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, event); err != nil {
		s.logger.Warn("book event publish failed",
			zap.Error(err),
			zap.String("event_id", event.EventID),
			zap.String("type", string(eventType)),
			zap.Int64("book_id", id),
		)
	}
}
