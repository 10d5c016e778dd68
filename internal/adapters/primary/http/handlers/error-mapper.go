package handlers

import (
	"errors"
	"net/http"

	"artifact-registry-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrFactoryNotFound),
		errors.Is(err, domain.ErrAlgorithmNotFound),
		errors.Is(err, domain.ErrModelNotFound),
		errors.Is(err, domain.ErrVersionNotFound),
		errors.Is(err, domain.ErrArtifactNotFound),
		errors.Is(err, domain.ErrDeltaNotFound),
		errors.Is(err, domain.ErrBlobMissing):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrFactoryNameConflict),
		errors.Is(err, domain.ErrModelNameConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrMetricOutOfRange),
		errors.Is(err, domain.ErrInvalidParams),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidEditMode),
		errors.Is(err, domain.ErrEmptySelection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Storage failures
	case errors.Is(err, domain.ErrStorageIO):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
