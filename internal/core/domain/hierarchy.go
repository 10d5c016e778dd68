package domain

import (
	"time"

	"github.com/google/uuid"
)

type Factory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Computed on list
	AlgorithmsCount int `json:"algorithms_count,omitempty"`
	ModelsCount     int `json:"models_count,omitempty"`
}

type Algorithm struct {
	ID          uuid.UUID `json:"id"`
	FactoryID   uuid.UUID `json:"factory_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Computed on list
	ModelsCount int `json:"models_count,omitempty"`
}

type Model struct {
	ID          uuid.UUID `json:"id"`
	AlgorithmID uuid.UUID `json:"algorithm_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Computed on list
	VersionsCount int `json:"versions_count,omitempty"`
}
