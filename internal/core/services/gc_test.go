package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/testutil"
)

func commitBlob(t *testing.T, ing *Ingestor, store interface{ Exists(string) bool }, content string) string {
	t.Helper()
	sf, err := ing.stageOne(textUpload("blob", content))
	require.NoError(t, err)
	require.NoError(t, ing.store.Commit(sf.tempPath, sf.checksum))
	require.True(t, store.Exists(sf.checksum))
	return sf.checksum
}

func TestCollector_SweepRemovesUnreferencedBlobs(t *testing.T) {
	store := newTestStore(t)
	repo := new(testutil.MockArtifactRepo)
	ing := NewIngestor(store, repo, 1, 500)
	collector := NewCollector(repo, store)

	checksum := commitBlob(t, ing, store, "orphaned bytes")
	repo.On("CountByChecksum", mock.Anything, checksum).Return(0, nil)

	collector.Sweep(context.Background(), []domain.BlobRef{
		{Checksum: checksum, Path: store.Locate(checksum)},
	})
	assert.False(t, store.Exists(checksum))
}

func TestCollector_SweepKeepsReferencedBlobs(t *testing.T) {
	store := newTestStore(t)
	repo := new(testutil.MockArtifactRepo)
	ing := NewIngestor(store, repo, 1, 500)
	collector := NewCollector(repo, store)

	checksum := commitBlob(t, ing, store, "still referenced")
	repo.On("CountByChecksum", mock.Anything, checksum).Return(2, nil)

	collector.Sweep(context.Background(), []domain.BlobRef{
		{Checksum: checksum, Path: store.Locate(checksum)},
	})
	assert.True(t, store.Exists(checksum))
}

func TestCollector_SweepToleratesMissingFiles(t *testing.T) {
	store := newTestStore(t)
	repo := new(testutil.MockArtifactRepo)
	collector := NewCollector(repo, store)

	checksum := sumOf("never committed")
	repo.On("CountByChecksum", mock.Anything, checksum).Return(0, nil)

	// Must not panic or error out; the sweep simply moves on.
	collector.Sweep(context.Background(), []domain.BlobRef{
		{Checksum: checksum, Path: store.Locate(checksum)},
	})
}

func TestCollector_SweepDeduplicatesChecksums(t *testing.T) {
	store := newTestStore(t)
	repo := new(testutil.MockArtifactRepo)
	ing := NewIngestor(store, repo, 1, 500)
	collector := NewCollector(repo, store)

	checksum := commitBlob(t, ing, store, "shared across rows")
	repo.On("CountByChecksum", mock.Anything, checksum).Return(0, nil)

	// Two artifact rows referenced the same blob; one reference check suffices.
	collector.Sweep(context.Background(), []domain.BlobRef{
		{Checksum: checksum, Path: store.Locate(checksum)},
		{Checksum: checksum, Path: store.Locate(checksum)},
	})
	repo.AssertNumberOfCalls(t, "CountByChecksum", 1)
}

func TestCollector_CollectRunsAsync(t *testing.T) {
	store := newTestStore(t)
	repo := new(testutil.MockArtifactRepo)
	ing := NewIngestor(store, repo, 1, 500)
	collector := NewCollector(repo, store)

	checksum := commitBlob(t, ing, store, "async orphan")
	repo.On("CountByChecksum", mock.Anything, checksum).Return(0, nil)

	collector.Collect([]domain.BlobRef{{Checksum: checksum, Path: store.Locate(checksum)}})
	collector.Wait()
	assert.False(t, store.Exists(checksum))
}
