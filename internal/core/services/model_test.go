package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/testutil"
)

type modelFixture struct {
	algorithms *testutil.MockAlgorithmRepo
	models     *testutil.MockModelRepo
	artifacts  *testutil.MockArtifactRepo
	collector  *Collector
	svc        *ModelService
}

func newModelFixture(t *testing.T) *modelFixture {
	t.Helper()
	f := &modelFixture{
		algorithms: new(testutil.MockAlgorithmRepo),
		models:     new(testutil.MockModelRepo),
		artifacts:  new(testutil.MockArtifactRepo),
	}
	f.collector = NewCollector(f.artifacts, newTestStore(t))
	f.svc = NewModelService(testutil.PassthroughTx{}, f.algorithms, f.models, f.artifacts, f.collector)
	return f
}

func TestModelService_Create(t *testing.T) {
	f := newModelFixture(t)
	factoryID := uuid.New()
	algorithmID := uuid.New()

	f.algorithms.On("GetByID", mock.Anything, factoryID, algorithmID).
		Return(&domain.Algorithm{ID: algorithmID, FactoryID: factoryID}, nil)
	f.models.On("GetByName", mock.Anything, algorithmID, "scratch-detector").
		Return(nil, domain.ErrModelNotFound)
	f.models.On("Create", mock.Anything, mock.AnythingOfType("*domain.Model")).Return(nil)

	model, err := f.svc.Create(context.Background(), factoryID, algorithmID, "scratch-detector", "")
	require.NoError(t, err)
	assert.Equal(t, algorithmID, model.AlgorithmID)
}

func TestModelService_Create_NameConflict(t *testing.T) {
	f := newModelFixture(t)
	factoryID := uuid.New()
	algorithmID := uuid.New()

	f.algorithms.On("GetByID", mock.Anything, factoryID, algorithmID).
		Return(&domain.Algorithm{ID: algorithmID}, nil)
	f.models.On("GetByName", mock.Anything, algorithmID, "dup").
		Return(&domain.Model{ID: uuid.New(), Name: "DUP"}, nil)

	_, err := f.svc.Create(context.Background(), factoryID, algorithmID, "dup", "")
	assert.ErrorIs(t, err, domain.ErrModelNameConflict)
	f.models.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestModelService_Delete_SchedulesBlobReclamation(t *testing.T) {
	f := newModelFixture(t)
	algorithmID := uuid.New()
	modelID := uuid.New()

	f.models.On("GetByID", mock.Anything, algorithmID, modelID).
		Return(&domain.Model{ID: modelID}, nil)
	f.artifacts.On("BlobRefsByModel", mock.Anything, modelID).Return([]domain.BlobRef{
		{Checksum: "sum-1", Path: "/cache/su/m1/sum-1"},
	}, nil)
	f.models.On("Delete", mock.Anything, modelID).Return(nil)
	f.artifacts.On("CountByChecksum", mock.Anything, "sum-1").Return(0, nil)

	err := f.svc.Delete(context.Background(), algorithmID, modelID)
	require.NoError(t, err)

	f.collector.Wait()
	f.artifacts.AssertCalled(t, "CountByChecksum", mock.Anything, "sum-1")
}

func TestModelService_Delete_NotFound(t *testing.T) {
	f := newModelFixture(t)
	algorithmID := uuid.New()
	modelID := uuid.New()

	f.models.On("GetByID", mock.Anything, algorithmID, modelID).
		Return(nil, domain.ErrModelNotFound)

	err := f.svc.Delete(context.Background(), algorithmID, modelID)
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
	f.models.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
