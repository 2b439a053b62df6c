package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Error writes an error JSON response in the API's {message} shape.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Fail classifies err against the sentinel taxonomy and responds with the
// matching status. Unclassified errors are logged server-side with full
// detail and surface only as a generic 500.
func Fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, "Invalid credentials.")
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrExpiredToken):
		Error(c, http.StatusUnauthorized, "Authentication failed")
	case errors.Is(err, ErrForbidden):
		Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrBoardNotFound), errors.Is(err, ErrPostNotFound),
		errors.Is(err, ErrPlanNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicate), IsUniqueViolation(err):
		// Driver errors carry constraint names; clients get a fixed message.
		log.Warn().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("duplicate resource")
		Error(c, http.StatusConflict, "Duplicate resource.")
	default:
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unhandled error")
		Error(c, http.StatusInternalServerError, "Server error occurred.")
	}
}
