package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// --- Parameter Parsing ---

// requireBookIDParam extracts the book ID from URL parameters.
// Responds with a 400 error and returns "", false when it is missing.
func requireBookIDParam(c *gin.Context) (string, bool) {
	id := c.Param("bookId")
	if id == "" {
		respondBadRequest(c, "bookId is required")
		return "", false
	}
	return id, true
}

// requireUserIDQuery extracts the user ID from query parameters.
// Responds with a 400 error and returns "", false when it is missing.
func requireUserIDQuery(c *gin.Context) (string, bool) {
	id := c.Query("userId")
	if id == "" {
		respondBadRequest(c, "userId is required")
		return "", false
	}
	return id, true
}
