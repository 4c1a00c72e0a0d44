package response

import (
	"net/http"

	"github.com/dhima/bookshelf-api/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// Fixed client-facing error messages.
const (
	MsgInvalidInput       = "Invalid input"
	MsgBookNotFound       = "Book not found"
	MsgRouteNotFound      = "Not Found"
	MsgMethodNotAllowed   = "Method Not Allowed"
	MsgPayloadTooLarge    = "Request body too large"
	MsgStorageUnavailable = "storage unavailable"
	MsgInternal           = "internal server error"
)

// ErrorResponse represents an error API response.
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid input"`
} // @name ErrorResponse

// MessageResponse represents an informational API response.
type MessageResponse struct {
	Message string `json:"message"`
} // @name MessageResponse

// JSON writes data as the response body unchanged; the resource is never wrapped in an envelope.
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// OK sends a 200 OK response.
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Created sends a 201 Created response.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Message sends {"message": msg}.
func Message(c *gin.Context, statusCode int, msg string) {
	JSON(c, statusCode, MessageResponse{Message: msg})
}

// Error sends {"error": msg} and stops the handler chain.
func Error(c *gin.Context, statusCode int, msg string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: msg})
}

// BadRequest sends a 400 Bad Request response with the fixed invalid-input message.
func BadRequest(c *gin.Context) {
	Error(c, http.StatusBadRequest, MsgInvalidInput)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, msg)
}

// MethodNotAllowed sends a 405 Method Not Allowed response.
func MethodNotAllowed(c *gin.Context) {
	Error(c, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}

// PayloadTooLarge sends a 413 when a request body exceeds the allowed size.
func PayloadTooLarge(c *gin.Context) {
	Error(c, http.StatusRequestEntityTooLarge, MsgPayloadTooLarge)
}

// ServiceUnavailable sends a 503 Service Unavailable response.
func ServiceUnavailable(c *gin.Context) {
	Error(c, http.StatusServiceUnavailable, MsgStorageUnavailable)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, MsgInternal)
}

// GetRequestID retrieves the request ID set by the RequestID middleware.
func GetRequestID(c *gin.Context) string {
	return middleware.GetRequestID(c)
}
