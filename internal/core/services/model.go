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

// ModelService manages models under an algorithm. Model names are unique
// case-insensitively within their algorithm. Deleting a model hands every
// blob referenced by any of its versions to the garbage collector.
type ModelService struct {
	tx         ports.TxManager
	algorithms ports.AlgorithmRepository
	models     ports.ModelRepository
	artifacts  ports.ArtifactRepository
	gc         *Collector
}

func NewModelService(
	tx ports.TxManager,
	algorithms ports.AlgorithmRepository,
	models ports.ModelRepository,
	artifacts ports.ArtifactRepository,
	gc *Collector,
) *ModelService {
	return &ModelService{
		tx:         tx,
		algorithms: algorithms,
		models:     models,
		artifacts:  artifacts,
		gc:         gc,
	}
}

func (s *ModelService) Create(ctx context.Context, factoryID, algorithmID uuid.UUID, name, description string) (*domain.Model, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if _, err := s.algorithms.GetByID(ctx, factoryID, algorithmID); err != nil {
		return nil, err
	}

	_, err := s.models.GetByName(ctx, algorithmID, name)
	if err == nil {
		return nil, domain.ErrModelNameConflict
	}
	if !errors.Is(err, domain.ErrModelNotFound) {
		return nil, err
	}

	model := &domain.Model{
		ID:          uuid.New(),
		AlgorithmID: algorithmID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.models.Create(ctx, model); err != nil {
		return nil, err
	}
	return model, nil
}

func (s *ModelService) Get(ctx context.Context, algorithmID, id uuid.UUID) (*domain.Model, error) {
	return s.models.GetByID(ctx, algorithmID, id)
}

func (s *ModelService) Update(ctx context.Context, algorithmID, id uuid.UUID, name, description *string) (*domain.Model, error) {
	model, err := s.models.GetByID(ctx, algorithmID, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, domain.ErrInvalidName
		}
		if !strings.EqualFold(trimmed, model.Name) {
			if _, err := s.models.GetByName(ctx, algorithmID, trimmed); err == nil {
				return nil, domain.ErrModelNameConflict
			} else if !errors.Is(err, domain.ErrModelNotFound) {
				return nil, err
			}
		}
		model.Name = trimmed
	}
	if description != nil {
		model.Description = *description
	}

	if err := s.models.Update(ctx, model); err != nil {
		return nil, err
	}
	return model, nil
}

// Delete removes the model and all of its versions. Blob references are
// captured before the cascade so orphaned blobs can be reclaimed after
// commit.
func (s *ModelService) Delete(ctx context.Context, algorithmID, id uuid.UUID) error {
	var refs []domain.BlobRef

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.models.GetByID(ctx, algorithmID, id); err != nil {
			return err
		}
		var err error
		refs, err = s.artifacts.BlobRefsByModel(ctx, id)
		if err != nil {
			return err
		}
		return s.models.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.gc.Collect(refs)
	return nil
}

func (s *ModelService) List(ctx context.Context, algorithmID uuid.UUID) ([]*domain.Model, error) {
	return s.models.ListByAlgorithm(ctx, algorithmID)
}
