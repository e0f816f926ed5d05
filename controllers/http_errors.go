package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/haimult/pulse-survey-server/auth"
	"github.com/haimult/pulse-survey-server/repository"
	"github.com/haimult/pulse-survey-server/services"
)

// respondError maps domain errors onto HTTP statuses. Validation
// errors ship their message to the client; anything unknown stays
// opaque.
func respondError(c *gin.Context, err error) {
	var dup *services.DuplicateOrderError
	switch {
	case errors.Is(err, services.ErrInvalidCustomID),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, services.ErrEmptyImport),
		errors.As(err, &dup):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrCustomIDTaken):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrInactive):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, repository.ErrSchemaMissing):
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
