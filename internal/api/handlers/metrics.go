package handlers

import (
	"context"

	"github.com/dhima/bookshelf-api/internal/api/response"
	"github.com/dhima/bookshelf-api/internal/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookCounter reports how many books are stored.
type BookCounter interface {
	CountBooks(ctx context.Context) (int64, error)
}

// MetricsHandler handles metrics requests.
type MetricsHandler struct {
	logger  logging.Logger
	counter BookCounter
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(logger logging.Logger, counter BookCounter) *MetricsHandler {
	return &MetricsHandler{logger: logger, counter: counter}
}

// MetricsResponse represents the metrics response.
type MetricsResponse struct {
	BooksTotal int64 `json:"books_total" example:"42"`
} // @name MetricsResponse

// Metrics godoc
// @Summary Get service metrics
// @Description Returns the number of stored books
// @Tags System
// @Produce json
// @Success 200 {object} MetricsResponse
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /metrics [get]
func (h *MetricsHandler) Metrics(c *gin.Context) {
	total, err := h.counter.CountBooks(c.Request.Context())
	if err != nil {
		h.logger.Error("count books failed",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.InternalServerError(c)
		return
	}

	response.OK(c, MetricsResponse{BooksTotal: total})
}
