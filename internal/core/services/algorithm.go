package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/core/ports/output"
)

// AlgorithmService manages algorithms under a factory.
type AlgorithmService struct {
	factories  ports.FactoryRepository
	algorithms ports.AlgorithmRepository
}

func NewAlgorithmService(factories ports.FactoryRepository, algorithms ports.AlgorithmRepository) *AlgorithmService {
	return &AlgorithmService{factories: factories, algorithms: algorithms}
}

func (s *AlgorithmService) Create(ctx context.Context, factoryID uuid.UUID, name, description string) (*domain.Algorithm, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if _, err := s.factories.GetByID(ctx, factoryID); err != nil {
		return nil, err
	}

	algorithm := &domain.Algorithm{
		ID:          uuid.New(),
		FactoryID:   factoryID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.algorithms.Create(ctx, algorithm); err != nil {
		return nil, err
	}
	return algorithm, nil
}

func (s *AlgorithmService) Get(ctx context.Context, factoryID, id uuid.UUID) (*domain.Algorithm, error) {
	return s.algorithms.GetByID(ctx, factoryID, id)
}

func (s *AlgorithmService) Update(ctx context.Context, factoryID, id uuid.UUID, name, description *string) (*domain.Algorithm, error) {
	algorithm, err := s.algorithms.GetByID(ctx, factoryID, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, domain.ErrInvalidName
		}
		algorithm.Name = trimmed
	}
	if description != nil {
		algorithm.Description = *description
	}

	if err := s.algorithms.Update(ctx, algorithm); err != nil {
		return nil, err
	}
	return algorithm, nil
}

func (s *AlgorithmService) Delete(ctx context.Context, factoryID, id uuid.UUID) error {
	if _, err := s.algorithms.GetByID(ctx, factoryID, id); err != nil {
		return err
	}
	return s.algorithms.Delete(ctx, id)
}

func (s *AlgorithmService) List(ctx context.Context, factoryID uuid.UUID) ([]*domain.Algorithm, error) {
	if _, err := s.factories.GetByID(ctx, factoryID); err != nil {
		return nil, err
	}
	return s.algorithms.ListByFactory(ctx, factoryID)
}
