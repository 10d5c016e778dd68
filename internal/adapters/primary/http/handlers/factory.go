package handlers

import (
	"net/http"

	"artifact-registry-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListFactories(c *gin.Context) {
	factories, err := h.factorySvc.List(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list factories failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.FactoryResponse, 0, len(factories))
	for _, f := range factories {
		items = append(items, dto.ToFactoryResponse(f))
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetFactory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("factory_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid factory id"})
		return
	}

	factory, err := h.factorySvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFactoryResponse(factory))
}

func (h *Handler) CreateFactory(c *gin.Context) {
	var req dto.CreateFactoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	factory, err := h.factorySvc.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		log.WithError(err).Error("create factory failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToFactoryResponse(factory))
}

func (h *Handler) UpdateFactory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("factory_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid factory id"})
		return
	}

	var req dto.UpdateFactoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	factory, err := h.factorySvc.Update(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		log.WithError(err).Error("update factory failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFactoryResponse(factory))
}

func (h *Handler) DeleteFactory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("factory_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid factory id"})
		return
	}

	if err := h.factorySvc.Delete(c.Request.Context(), id); err != nil {
		log.WithError(err).Error("delete factory failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
