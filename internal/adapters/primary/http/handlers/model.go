package handlers

import (
	"net/http"

	"artifact-registry-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListModels(c *gin.Context) {
	_, algorithmID, ok := algorithmScope(c)
	if !ok {
		return
	}

	models, err := h.modelSvc.List(c.Request.Context(), algorithmID)
	if err != nil {
		log.WithError(err).Error("list models failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ModelResponse, 0, len(models))
	for _, m := range models {
		items = append(items, dto.ToModelResponse(m))
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetModel(c *gin.Context) {
	algorithmID, modelID, ok := modelScope(c)
	if !ok {
		return
	}

	model, err := h.modelSvc.Get(c.Request.Context(), algorithmID, modelID)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToModelResponse(model))
}

func (h *Handler) CreateModel(c *gin.Context) {
	factoryID, algorithmID, ok := algorithmScope(c)
	if !ok {
		return
	}

	var req dto.CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model, err := h.modelSvc.Create(c.Request.Context(), factoryID, algorithmID, req.Name, req.Description)
	if err != nil {
		log.WithError(err).Error("create model failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToModelResponse(model))
}

func (h *Handler) UpdateModel(c *gin.Context) {
	algorithmID, modelID, ok := modelScope(c)
	if !ok {
		return
	}

	var req dto.UpdateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model, err := h.modelSvc.Update(c.Request.Context(), algorithmID, modelID, req.Name, req.Description)
	if err != nil {
		log.WithError(err).Error("update model failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToModelResponse(model))
}

func (h *Handler) DeleteModel(c *gin.Context) {
	algorithmID, modelID, ok := modelScope(c)
	if !ok {
		return
	}

	if err := h.modelSvc.Delete(c.Request.Context(), algorithmID, modelID); err != nil {
		log.WithError(err).Error("delete model failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func modelScope(c *gin.Context) (algorithmID, modelID uuid.UUID, ok bool) {
	algorithmID, err := uuid.Parse(c.Param("algorithm_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid algorithm id"})
		return uuid.Nil, uuid.Nil, false
	}
	modelID, err = uuid.Parse(c.Param("model_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return uuid.Nil, uuid.Nil, false
	}
	return algorithmID, modelID, true
}
