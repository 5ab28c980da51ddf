package handlers

import (
	"errors"
	"net/http"

	"risk-predictor-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Bad request / input validation errors
	case errors.Is(err, domain.ErrMissingFeature),
		errors.Is(err, domain.ErrOutOfDomain),
		errors.Is(err, domain.ErrTypeMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Artifact load failures: no predictions possible this session
	case errors.Is(err, domain.ErrArtifactNotFound),
		errors.Is(err, domain.ErrArtifactInvalid):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrPredictionFailure):
		c.JSON(http.StatusInternalServerError, gin.H{"error": domain.ErrPredictionFailure.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
