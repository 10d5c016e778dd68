package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"artifact-registry-service/internal/core/domain"
)

func TestVersionService_AppendChunk_AdvancesDeltaCounters(t *testing.T) {
	f := newVersionFixture(t)
	modelID := uuid.New()
	versionID := uuid.New()

	f.models.On("Lock", mock.Anything, modelID).Return(nil)
	f.versions.On("GetByID", mock.Anything, modelID, versionID).
		Return(&domain.Version{ID: versionID, ModelID: modelID, VersionNumber: 1}, nil)
	f.artifacts.On("FindByChecksums", mock.Anything, domain.CategoryDataset, mock.Anything).
		Return(map[string]*domain.Artifact{}, nil)
	f.artifacts.On("BulkInsert", mock.Anything, mock.Anything).Return(nil)
	f.deltas.On("GetByVersion", mock.Anything, versionID).Return(&domain.VersionDelta{
		VersionID:    versionID,
		DatasetCount: 5,
		DatasetNew:   5,
		NewCount:     5,
	}, nil)

	var updated *domain.VersionDelta
	f.deltas.On("Update", mock.Anything, mock.AnythingOfType("*domain.VersionDelta")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(*domain.VersionDelta)
		}).Return(nil)

	uploaded, err := f.svc.AppendChunk(context.Background(), modelID, versionID, domain.CategoryDataset, []Upload{
		textUpload("chunk-1.png", "chunk one"),
		textUpload("chunk-2.png", "chunk two"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, uploaded)

	require.NotNil(t, updated)
	assert.Equal(t, 7, updated.DatasetCount)
	assert.Equal(t, 7, updated.DatasetNew)
	assert.Equal(t, 7, updated.NewCount)

	// The counter update runs under the same model row lock as creation and
	// checkout, so concurrent chunks cannot lose increments.
	f.models.AssertCalled(t, "Lock", mock.Anything, modelID)
}

func TestVersionService_AppendChunk_ReusedFilesCountReused(t *testing.T) {
	f := newVersionFixture(t)
	modelID := uuid.New()
	versionID := uuid.New()

	checksum := sumOf("already stored")
	f.models.On("Lock", mock.Anything, modelID).Return(nil)
	f.versions.On("GetByID", mock.Anything, modelID, versionID).
		Return(&domain.Version{ID: versionID, ModelID: modelID, VersionNumber: 2}, nil)
	f.artifacts.On("FindByChecksums", mock.Anything, domain.CategoryLabel, mock.Anything).
		Return(map[string]*domain.Artifact{checksum: {Checksum: checksum, Path: "/cache/x", Size: 14}}, nil)
	f.artifacts.On("BulkInsert", mock.Anything, mock.Anything).Return(nil)
	f.deltas.On("GetByVersion", mock.Anything, versionID).Return(&domain.VersionDelta{VersionID: versionID}, nil)

	var updated *domain.VersionDelta
	f.deltas.On("Update", mock.Anything, mock.AnythingOfType("*domain.VersionDelta")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(*domain.VersionDelta)
		}).Return(nil)

	uploaded, err := f.svc.AppendChunk(context.Background(), modelID, versionID, domain.CategoryLabel, []Upload{
		textUpload("dup.txt", "already stored"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, uploaded)
	assert.Equal(t, 1, updated.LabelReused)
	assert.Equal(t, 0, updated.LabelNew)
	assert.Equal(t, 1, updated.ReusedCount)
}

func TestVersionService_AppendChunk_ModelFilesSkipDelta(t *testing.T) {
	f := newVersionFixture(t)
	modelID := uuid.New()
	versionID := uuid.New()

	f.models.On("Lock", mock.Anything, modelID).Return(nil)
	f.versions.On("GetByID", mock.Anything, modelID, versionID).
		Return(&domain.Version{ID: versionID, ModelID: modelID, VersionNumber: 1}, nil)
	f.artifacts.On("FindByChecksums", mock.Anything, domain.CategoryModel, mock.Anything).
		Return(map[string]*domain.Artifact{}, nil)
	f.artifacts.On("BulkInsert", mock.Anything, mock.Anything).Return(nil)

	uploaded, err := f.svc.AppendChunk(context.Background(), modelID, versionID, domain.CategoryModel, []Upload{
		textUpload("weights.pt", "binary weights"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, uploaded)
	f.deltas.AssertNotCalled(t, "GetByVersion", mock.Anything, mock.Anything)
}

func TestVersionService_AppendChunk_VersionNotFound(t *testing.T) {
	f := newVersionFixture(t)
	modelID := uuid.New()
	versionID := uuid.New()

	f.models.On("Lock", mock.Anything, modelID).Return(nil)
	f.versions.On("GetByID", mock.Anything, modelID, versionID).
		Return(nil, domain.ErrVersionNotFound)

	_, err := f.svc.AppendChunk(context.Background(), modelID, versionID, domain.CategoryDataset, []Upload{
		textUpload("late.png", "too late"),
	})
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)
}

func TestVersionService_AppendChunk_MissingDeltaStillStoresFiles(t *testing.T) {
	f := newVersionFixture(t)
	modelID := uuid.New()
	versionID := uuid.New()

	f.models.On("Lock", mock.Anything, modelID).Return(nil)
	f.versions.On("GetByID", mock.Anything, modelID, versionID).
		Return(&domain.Version{ID: versionID, ModelID: modelID, VersionNumber: 1}, nil)
	f.artifacts.On("FindByChecksums", mock.Anything, domain.CategoryDataset, mock.Anything).
		Return(map[string]*domain.Artifact{}, nil)
	f.artifacts.On("BulkInsert", mock.Anything, mock.Anything).Return(nil)
	f.deltas.On("GetByVersion", mock.Anything, versionID).Return(nil, domain.ErrDeltaNotFound)

	uploaded, err := f.svc.AppendChunk(context.Background(), modelID, versionID, domain.CategoryDataset, []Upload{
		textUpload("orphan.png", "no delta row"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, uploaded)

	// Rows landed, only the counter bookkeeping was skipped.
	f.artifacts.AssertCalled(t, "BulkInsert", mock.Anything, mock.Anything)
	f.deltas.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
