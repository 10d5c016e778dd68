package ports

import (
	"context"

	"github.com/google/uuid"

	"artifact-registry-service/internal/core/domain"
)

type FactoryRepository interface {
	Create(ctx context.Context, factory *domain.Factory) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Factory, error)
	GetByName(ctx context.Context, name string) (*domain.Factory, error)
	Update(ctx context.Context, factory *domain.Factory) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Factory, error)
}

type AlgorithmRepository interface {
	Create(ctx context.Context, algorithm *domain.Algorithm) error
	GetByID(ctx context.Context, factoryID uuid.UUID, id uuid.UUID) (*domain.Algorithm, error)
	Update(ctx context.Context, algorithm *domain.Algorithm) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByFactory(ctx context.Context, factoryID uuid.UUID) ([]*domain.Algorithm, error)
}

type ModelRepository interface {
	Create(ctx context.Context, model *domain.Model) error
	GetByID(ctx context.Context, algorithmID uuid.UUID, id uuid.UUID) (*domain.Model, error)
	GetByName(ctx context.Context, algorithmID uuid.UUID, name string) (*domain.Model, error)
	Update(ctx context.Context, model *domain.Model) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByAlgorithm(ctx context.Context, algorithmID uuid.UUID) ([]*domain.Model, error)
	// Lock takes a row-level lock on the model inside the current transaction,
	// serializing version creation and checkout for that model.
	Lock(ctx context.Context, id uuid.UUID) error
}

type VersionRepository interface {
	Create(ctx context.Context, version *domain.Version) error
	GetByID(ctx context.Context, modelID uuid.UUID, id uuid.UUID) (*domain.Version, error)
	GetByNumber(ctx context.Context, modelID uuid.UUID, number int) (*domain.Version, error)
	// GetLatest returns the version with the highest version number for the
	// model, or domain.ErrVersionNotFound when the model has none.
	GetLatest(ctx context.Context, modelID uuid.UUID) (*domain.Version, error)
	MaxVersionNumber(ctx context.Context, modelID uuid.UUID) (int, error)
	DeactivateAll(ctx context.Context, modelID uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) error
	Update(ctx context.Context, version *domain.Version) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByModel(ctx context.Context, modelID uuid.UUID) ([]*domain.Version, error)
}

type ArtifactRepository interface {
	BulkInsert(ctx context.Context, artifacts []*domain.Artifact) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error)
	ListByVersion(ctx context.Context, versionID uuid.UUID) ([]*domain.Artifact, error)
	// ChecksumsByVersion returns the distinct checksum set of one category of a
	// version's artifacts.
	ChecksumsByVersion(ctx context.Context, versionID uuid.UUID, category domain.Category) (map[string]struct{}, error)
	// FindByChecksums resolves which of the given checksums already have an
	// artifact row of the given category, mapping checksum to one such row.
	// Callers batch the checksum list; implementations must not scan the table.
	FindByChecksums(ctx context.Context, category domain.Category, checksums []string) (map[string]*domain.Artifact, error)
	// ChecksumOrigins maps every checksum ever attached to the model to the
	// smallest version number that contained it (its origin in the lineage).
	ChecksumOrigins(ctx context.Context, modelID uuid.UUID) (map[string]int, error)
	// CountByChecksum counts artifact rows system-wide referencing a checksum.
	CountByChecksum(ctx context.Context, checksum string) (int, error)
	DeleteByVersionAndCategory(ctx context.Context, versionID uuid.UUID, category domain.Category) error
	// BlobRefsByModel captures the (checksum, path) pairs of every artifact
	// under any version of the model, for GC handoff on model deletion.
	BlobRefsByModel(ctx context.Context, modelID uuid.UUID) ([]domain.BlobRef, error)
}

type DeltaRepository interface {
	Create(ctx context.Context, delta *domain.VersionDelta) error
	GetByVersion(ctx context.Context, versionID uuid.UUID) (*domain.VersionDelta, error)
	Update(ctx context.Context, delta *domain.VersionDelta) error
}
