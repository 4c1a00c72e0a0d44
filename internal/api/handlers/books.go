package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dhima/bookshelf-api/internal/api/response"
	"github.com/dhima/bookshelf-api/internal/books"
	"github.com/dhima/bookshelf-api/internal/logging"
	"github.com/dhima/bookshelf-api/internal/models"
	"github.com/dhima/bookshelf-api/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxBookBodyBytes caps the size of a create/update request body.
const maxBookBodyBytes = 1 << 20

// BookService is the subset of the book service the handler depends on.
type BookService interface {
	CreateBook(ctx context.Context, in models.BookInput) (*models.Book, error)
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id int64) (*models.Book, error)
	UpdateBook(ctx context.Context, id int64, in models.BookInput) (*models.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

// BookHandler handles book resource requests.
type BookHandler struct {
	logger  logging.Logger
	service BookService
}

// NewBookHandler creates a new book handler.
func NewBookHandler(logger logging.Logger, service BookService) *BookHandler {
	return &BookHandler{
		logger:  logger.With(zap.String("handler", "book")),
		service: service,
	}
}

// CreateBook godoc
// @Summary Create a book
// @Description Stores a new book. title and author must be non-blank strings, publication_year an integer.
// @Tags Books
// @Accept json
// @Produce json
// @Param book body models.BookInput true "Book fields"
// @Success 201 {object} models.Book
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 413 {object} response.ErrorResponse "Request body too large"
// @Failure 503 {object} response.ErrorResponse "Storage unavailable"
// @Router /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	in, ok := h.bindBookInput(c)
	if !ok {
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), in)
	if h.handleServiceError(c, err, "create book") {
		return
	}

	h.logger.Info("book created",
		zap.Int64("book_id", book.ID),
		zap.String("request_id", response.GetRequestID(c)),
	)

	response.Created(c, book)
}

// ListBooks godoc
// @Summary List books
// @Description Returns every stored book ordered by id.
// @Tags Books
// @Produce json
// @Success 200 {array} models.Book
// @Failure 503 {object} response.ErrorResponse "Storage unavailable"
// @Router /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	list, err := h.service.ListBooks(c.Request.Context())
	if h.handleServiceError(c, err, "list books") {
		return
	}

	response.OK(c, list)
}

// GetBook godoc
// @Summary Get a book
// @Tags Books
// @Produce json
// @Param id path int true "Book ID" minimum(0)
// @Success 200 {object} models.Book
// @Failure 404 {object} response.ErrorResponse "Book not found"
// @Router /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), id)
	if h.handleServiceError(c, err, "get book") {
		return
	}

	response.OK(c, book)
}

// UpdateBook godoc
// @Summary Replace a book
// @Description Replaces title, author and publication_year. All three fields are required.
// @Tags Books
// @Accept json
// @Produce json
// @Param id path int true "Book ID" minimum(0)
// @Param book body models.BookInput true "New book fields"
// @Success 200 {object} models.Book
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 413 {object} response.ErrorResponse "Request body too large"
// @Failure 404 {object} response.ErrorResponse "Book not found"
// @Router /books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	in, ok := h.bindBookInput(c)
	if !ok {
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, in)
	if h.handleServiceError(c, err, "update book") {
		return
	}

	h.logger.Info("book updated",
		zap.Int64("book_id", id),
		zap.String("request_id", response.GetRequestID(c)),
	)

	response.OK(c, book)
}

// DeleteBook godoc
// @Summary Delete a book
// @Tags Books
// @Produce json
// @Param id path int true "Book ID" minimum(0)
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse "Book not found"
// @Router /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	if h.handleServiceError(c, h.service.DeleteBook(c.Request.Context(), id), "delete book") {
		return
	}

	h.logger.Info("book deleted",
		zap.Int64("book_id", id),
		zap.String("request_id", response.GetRequestID(c)),
	)

	response.Message(c, http.StatusOK, fmt.Sprintf("Book with ID %d deleted successfully", id))
}

// bindBookInput reads and validates the request body, answering 400 on failure.
func (h *BookHandler) bindBookInput(c *gin.Context) (models.BookInput, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBookBodyBytes)
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(c)
			return models.BookInput{}, false
		}
		h.logger.Warn("failed to read request body",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.BadRequest(c)
		return models.BookInput{}, false
	}

	in, err := books.DecodeBookInput(raw)
	if err != nil {
		h.handleServiceError(c, err, "decode book input")
		return models.BookInput{}, false
	}
	return in, true
}

func (h *BookHandler) handleServiceError(c *gin.Context, err error, operation string) bool {
	if err == nil {
		return false
	}

	var validationErr books.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.logger.Debug("invalid book input",
			zap.String("operation", operation),
			zap.String("reason", validationErr.Error()),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.BadRequest(c)
	case errors.Is(err, storage.ErrBookNotFound):
		response.NotFound(c, response.MsgBookNotFound)
	case errors.Is(err, storage.ErrStorageUnavailable):
		h.logger.Error(operation+" failed: storage unavailable",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.ServiceUnavailable(c)
	default:
		h.logger.Error(operation+" failed",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.InternalServerError(c)
	}
	return true
}

// bookID parses the :id path segment. Anything other than a non-negative decimal
// integer is answered like an unmatched route.
func bookID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	for _, r := range raw {
		if r < '0' || r > '9' {
			response.NotFound(c, response.MsgRouteNotFound)
			return 0, false
		}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.NotFound(c, response.MsgRouteNotFound)
		return 0, false
	}
	return id, true
}
