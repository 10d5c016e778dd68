package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"artifact-registry-service/internal/core/domain"
)

// PassthroughTx satisfies ports.TxManager without a database: fn runs with
// the caller's context, so repository mocks see every call directly.
type PassthroughTx struct{}

func (PassthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockFactoryRepo is a mock of FactoryRepository.
type MockFactoryRepo struct {
	mock.Mock
}

func (m *MockFactoryRepo) Create(ctx context.Context, factory *domain.Factory) error {
	args := m.Called(ctx, factory)
	return args.Error(0)
}

func (m *MockFactoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Factory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Factory), args.Error(1)
}

func (m *MockFactoryRepo) GetByName(ctx context.Context, name string) (*domain.Factory, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Factory), args.Error(1)
}

func (m *MockFactoryRepo) Update(ctx context.Context, factory *domain.Factory) error {
	args := m.Called(ctx, factory)
	return args.Error(0)
}

func (m *MockFactoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFactoryRepo) List(ctx context.Context) ([]*domain.Factory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Factory), args.Error(1)
}

// MockAlgorithmRepo is a mock of AlgorithmRepository.
type MockAlgorithmRepo struct {
	mock.Mock
}

func (m *MockAlgorithmRepo) Create(ctx context.Context, algorithm *domain.Algorithm) error {
	args := m.Called(ctx, algorithm)
	return args.Error(0)
}

func (m *MockAlgorithmRepo) GetByID(ctx context.Context, factoryID uuid.UUID, id uuid.UUID) (*domain.Algorithm, error) {
	args := m.Called(ctx, factoryID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Algorithm), args.Error(1)
}

func (m *MockAlgorithmRepo) Update(ctx context.Context, algorithm *domain.Algorithm) error {
	args := m.Called(ctx, algorithm)
	return args.Error(0)
}

func (m *MockAlgorithmRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAlgorithmRepo) ListByFactory(ctx context.Context, factoryID uuid.UUID) ([]*domain.Algorithm, error) {
	args := m.Called(ctx, factoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Algorithm), args.Error(1)
}

// MockModelRepo is a mock of ModelRepository.
type MockModelRepo struct {
	mock.Mock
}

func (m *MockModelRepo) Create(ctx context.Context, model *domain.Model) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockModelRepo) GetByID(ctx context.Context, algorithmID uuid.UUID, id uuid.UUID) (*domain.Model, error) {
	args := m.Called(ctx, algorithmID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Model), args.Error(1)
}

func (m *MockModelRepo) GetByName(ctx context.Context, algorithmID uuid.UUID, name string) (*domain.Model, error) {
	args := m.Called(ctx, algorithmID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Model), args.Error(1)
}

func (m *MockModelRepo) Update(ctx context.Context, model *domain.Model) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockModelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockModelRepo) ListByAlgorithm(ctx context.Context, algorithmID uuid.UUID) ([]*domain.Model, error) {
	args := m.Called(ctx, algorithmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Model), args.Error(1)
}

func (m *MockModelRepo) Lock(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVersionRepo is a mock of VersionRepository.
type MockVersionRepo struct {
	mock.Mock
}

func (m *MockVersionRepo) Create(ctx context.Context, version *domain.Version) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockVersionRepo) GetByID(ctx context.Context, modelID uuid.UUID, id uuid.UUID) (*domain.Version, error) {
	args := m.Called(ctx, modelID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Version), args.Error(1)
}

func (m *MockVersionRepo) GetByNumber(ctx context.Context, modelID uuid.UUID, number int) (*domain.Version, error) {
	args := m.Called(ctx, modelID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Version), args.Error(1)
}

func (m *MockVersionRepo) GetLatest(ctx context.Context, modelID uuid.UUID) (*domain.Version, error) {
	args := m.Called(ctx, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Version), args.Error(1)
}

func (m *MockVersionRepo) MaxVersionNumber(ctx context.Context, modelID uuid.UUID) (int, error) {
	args := m.Called(ctx, modelID)
	return args.Int(0), args.Error(1)
}

func (m *MockVersionRepo) DeactivateAll(ctx context.Context, modelID uuid.UUID) error {
	args := m.Called(ctx, modelID)
	return args.Error(0)
}

func (m *MockVersionRepo) Activate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVersionRepo) Update(ctx context.Context, version *domain.Version) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockVersionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVersionRepo) ListByModel(ctx context.Context, modelID uuid.UUID) ([]*domain.Version, error) {
	args := m.Called(ctx, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Version), args.Error(1)
}

// MockArtifactRepo is a mock of ArtifactRepository.
type MockArtifactRepo struct {
	mock.Mock
}

func (m *MockArtifactRepo) BulkInsert(ctx context.Context, artifacts []*domain.Artifact) error {
	args := m.Called(ctx, artifacts)
	return args.Error(0)
}

func (m *MockArtifactRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRepo) ListByVersion(ctx context.Context, versionID uuid.UUID) ([]*domain.Artifact, error) {
	args := m.Called(ctx, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRepo) ChecksumsByVersion(ctx context.Context, versionID uuid.UUID, category domain.Category) (map[string]struct{}, error) {
	args := m.Called(ctx, versionID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockArtifactRepo) FindByChecksums(ctx context.Context, category domain.Category, checksums []string) (map[string]*domain.Artifact, error) {
	args := m.Called(ctx, category, checksums)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRepo) ChecksumOrigins(ctx context.Context, modelID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockArtifactRepo) CountByChecksum(ctx context.Context, checksum string) (int, error) {
	args := m.Called(ctx, checksum)
	return args.Int(0), args.Error(1)
}

func (m *MockArtifactRepo) DeleteByVersionAndCategory(ctx context.Context, versionID uuid.UUID, category domain.Category) error {
	args := m.Called(ctx, versionID, category)
	return args.Error(0)
}

func (m *MockArtifactRepo) BlobRefsByModel(ctx context.Context, modelID uuid.UUID) ([]domain.BlobRef, error) {
	args := m.Called(ctx, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BlobRef), args.Error(1)
}

// MockDeltaRepo is a mock of DeltaRepository.
type MockDeltaRepo struct {
	mock.Mock
}

func (m *MockDeltaRepo) Create(ctx context.Context, delta *domain.VersionDelta) error {
	args := m.Called(ctx, delta)
	return args.Error(0)
}

func (m *MockDeltaRepo) GetByVersion(ctx context.Context, versionID uuid.UUID) (*domain.VersionDelta, error) {
	args := m.Called(ctx, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VersionDelta), args.Error(1)
}

func (m *MockDeltaRepo) Update(ctx context.Context, delta *domain.VersionDelta) error {
	args := m.Called(ctx, delta)
	return args.Error(0)
}
