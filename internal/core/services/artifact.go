package services

import (
	"context"
	"io"

	"github.com/google/uuid"

	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/core/ports/output"
)

// ArtifactService serves artifact metadata and blob downloads.
type ArtifactService struct {
	artifacts ports.ArtifactRepository
	store     ports.BlobStore
}

func NewArtifactService(artifacts ports.ArtifactRepository, store ports.BlobStore) *ArtifactService {
	return &ArtifactService{artifacts: artifacts, store: store}
}

func (s *ArtifactService) Get(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	return s.artifacts.GetByID(ctx, id)
}

// Open returns the artifact's metadata and a stream over its blob. The caller
// closes the reader.
func (s *ArtifactService) Open(ctx context.Context, id uuid.UUID) (*domain.Artifact, io.ReadCloser, error) {
	artifact, err := s.artifacts.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(artifact.Checksum)
	if err != nil {
		return nil, nil, err
	}
	return artifact, rc, nil
}
