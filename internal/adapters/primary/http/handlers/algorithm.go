package handlers

import (
	"net/http"

	"artifact-registry-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListAlgorithms(c *gin.Context) {
	factoryID, err := uuid.Parse(c.Param("factory_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid factory id"})
		return
	}

	algorithms, err := h.algorithmSvc.List(c.Request.Context(), factoryID)
	if err != nil {
		log.WithError(err).Error("list algorithms failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.AlgorithmResponse, 0, len(algorithms))
	for _, a := range algorithms {
		items = append(items, dto.ToAlgorithmResponse(a))
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetAlgorithm(c *gin.Context) {
	factoryID, algorithmID, ok := algorithmScope(c)
	if !ok {
		return
	}

	algorithm, err := h.algorithmSvc.Get(c.Request.Context(), factoryID, algorithmID)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAlgorithmResponse(algorithm))
}

func (h *Handler) CreateAlgorithm(c *gin.Context) {
	factoryID, err := uuid.Parse(c.Param("factory_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid factory id"})
		return
	}

	var req dto.CreateAlgorithmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	algorithm, err := h.algorithmSvc.Create(c.Request.Context(), factoryID, req.Name, req.Description)
	if err != nil {
		log.WithError(err).Error("create algorithm failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToAlgorithmResponse(algorithm))
}

func (h *Handler) UpdateAlgorithm(c *gin.Context) {
	factoryID, algorithmID, ok := algorithmScope(c)
	if !ok {
		return
	}

	var req dto.UpdateAlgorithmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	algorithm, err := h.algorithmSvc.Update(c.Request.Context(), factoryID, algorithmID, req.Name, req.Description)
	if err != nil {
		log.WithError(err).Error("update algorithm failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAlgorithmResponse(algorithm))
}

func (h *Handler) DeleteAlgorithm(c *gin.Context) {
	factoryID, algorithmID, ok := algorithmScope(c)
	if !ok {
		return
	}

	if err := h.algorithmSvc.Delete(c.Request.Context(), factoryID, algorithmID); err != nil {
		log.WithError(err).Error("delete algorithm failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func algorithmScope(c *gin.Context) (factoryID, algorithmID uuid.UUID, ok bool) {
	factoryID, err := uuid.Parse(c.Param("factory_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid factory id"})
		return uuid.Nil, uuid.Nil, false
	}
	algorithmID, err = uuid.Parse(c.Param("algorithm_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid algorithm id"})
		return uuid.Nil, uuid.Nil, false
	}
	return factoryID, algorithmID, true
}
