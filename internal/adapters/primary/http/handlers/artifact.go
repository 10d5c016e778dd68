package handlers

import (
	"fmt"
	"net/http"

	"artifact-registry-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) GetArtifact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("artifact_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artifact id"})
		return
	}

	artifact, err := h.artifactSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToArtifactResponse(artifact))
}

func (h *Handler) DownloadArtifact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("artifact_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artifact id"})
		return
	}

	artifact, rc, err := h.artifactSvc.Open(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Error("download artifact failed")
		mapDomainError(c, err)
		return
	}
	defer rc.Close()

	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", artifact.Name),
	}
	c.DataFromReader(http.StatusOK, artifact.Size, "application/octet-stream", rc, headers)
}
