package handlers

import (
	"net/http"

	"github.com/dhima/bookshelf-api/internal/api/response"
	"github.com/gin-gonic/gin"
)

// HomeMessage points clients at the book collection.
const HomeMessage = "Please Visit '/books' to get all the api you need as per your requirement"

// Home godoc
// @Summary API entry point
// @Description Returns a usage hint pointing at the /books collection
// @Tags System
// @Produce json
// @Success 200 {object} response.MessageResponse
// @Router / [get]
func Home(c *gin.Context) {
	response.Message(c, http.StatusOK, HomeMessage)
}

// RouteNotFound answers unmatched routes with a JSON 404.
func RouteNotFound(c *gin.Context) {
	response.NotFound(c, response.MsgRouteNotFound)
}

// MethodNotAllowed answers a known path requested with an unsupported method.
func MethodNotAllowed(c *gin.Context) {
	response.MethodNotAllowed(c)
}
