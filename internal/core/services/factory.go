package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/core/ports/output"
)

// FactoryService manages the top level of the hierarchy. Factory names are
// unique case-insensitively.
type FactoryService struct {
	factories ports.FactoryRepository
}

func NewFactoryService(factories ports.FactoryRepository) *FactoryService {
	return &FactoryService{factories: factories}
}

func (s *FactoryService) Create(ctx context.Context, name, description string) (*domain.Factory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	_, err := s.factories.GetByName(ctx, name)
	if err == nil {
		return nil, domain.ErrFactoryNameConflict
	}
	if !errors.Is(err, domain.ErrFactoryNotFound) {
		return nil, err
	}

	factory := &domain.Factory{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.factories.Create(ctx, factory); err != nil {
		return nil, err
	}
	return factory, nil
}

func (s *FactoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Factory, error) {
	return s.factories.GetByID(ctx, id)
}

func (s *FactoryService) Update(ctx context.Context, id uuid.UUID, name, description *string) (*domain.Factory, error) {
	factory, err := s.factories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, domain.ErrInvalidName
		}
		if !strings.EqualFold(trimmed, factory.Name) {
			if _, err := s.factories.GetByName(ctx, trimmed); err == nil {
				return nil, domain.ErrFactoryNameConflict
			} else if !errors.Is(err, domain.ErrFactoryNotFound) {
				return nil, err
			}
		}
		factory.Name = trimmed
	}
	if description != nil {
		factory.Description = *description
	}

	if err := s.factories.Update(ctx, factory); err != nil {
		return nil, err
	}
	return factory, nil
}

func (s *FactoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.factories.GetByID(ctx, id); err != nil {
		return err
	}
	return s.factories.Delete(ctx, id)
}

func (s *FactoryService) List(ctx context.Context) ([]*domain.Factory, error) {
	return s.factories.List(ctx)
}
