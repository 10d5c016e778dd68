package dto

import (
	"time"

	"github.com/google/uuid"

	"artifact-registry-service/internal/core/domain"
)

type CreateFactoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type UpdateFactoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type FactoryResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	CreatedAt       string    `json:"created_at"`
	AlgorithmsCount int       `json:"algorithms_count"`
	ModelsCount     int       `json:"models_count"`
}

func ToFactoryResponse(f *domain.Factory) FactoryResponse {
	return FactoryResponse{
		ID:              f.ID,
		Name:            f.Name,
		Description:     f.Description,
		CreatedAt:       f.CreatedAt.Format(time.RFC3339),
		AlgorithmsCount: f.AlgorithmsCount,
		ModelsCount:     f.ModelsCount,
	}
}

type CreateAlgorithmRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type UpdateAlgorithmRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type AlgorithmResponse struct {
	ID          uuid.UUID `json:"id"`
	FactoryID   uuid.UUID `json:"factory_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   string    `json:"created_at"`
	ModelsCount int       `json:"models_count"`
}

func ToAlgorithmResponse(a *domain.Algorithm) AlgorithmResponse {
	return AlgorithmResponse{
		ID:          a.ID,
		FactoryID:   a.FactoryID,
		Name:        a.Name,
		Description: a.Description,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		ModelsCount: a.ModelsCount,
	}
}

type CreateModelRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type UpdateModelRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ModelResponse struct {
	ID            uuid.UUID `json:"id"`
	AlgorithmID   uuid.UUID `json:"algorithm_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CreatedAt     string    `json:"created_at"`
	VersionsCount int       `json:"versions_count"`
}

func ToModelResponse(m *domain.Model) ModelResponse {
	return ModelResponse{
		ID:            m.ID,
		AlgorithmID:   m.AlgorithmID,
		Name:          m.Name,
		Description:   m.Description,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		VersionsCount: m.VersionsCount,
	}
}
