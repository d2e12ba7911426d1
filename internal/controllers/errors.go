package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"shorter/internal/middleware"
	"shorter/internal/service"
)

const invalidCodeMessage = "Short codes may only contain letters and digits, up to 23 characters, and cannot be a reserved name."

// respondError maps a service error to a status code and JSON body.
// Unexpected errors are logged and hidden behind a 500.
func respondError(c *gin.Context, logger *slog.Logger, err error, longURL string) {
	switch {
	case errors.Is(err, service.ErrOwnLink):
		c.JSON(http.StatusBadRequest, gin.H{"error": "That is already a Shorter link."})
	case errors.Is(err, service.ErrInvalidURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This URL is malformed: " + longURL})
	case errors.Is(err, service.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidCodeMessage})
	case errors.Is(err, service.ErrCodeTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "That short code is already taken."})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found"})
	default:
		_ = c.Error(err)
		logger.Error("request failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("request_id", c.GetString(middleware.RequestIDKey)),
			slog.Any("error", err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
