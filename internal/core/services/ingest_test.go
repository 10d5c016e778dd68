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

func TestIngestor_AllNewFiles(t *testing.T) {
	store := newTestStore(t)
	repo := new(testutil.MockArtifactRepo)
	ing := NewIngestor(store, repo, 4, 500)

	repo.On("FindByChecksums", mock.Anything, domain.CategoryDataset, mock.Anything).
		Return(map[string]*domain.Artifact{}, nil)

	versionID := uuid.New()
	res, err := ing.Ingest(context.Background(), versionID, domain.CategoryDataset, []Upload{
		textUpload("a.png", "image-a"),
		textUpload("b.png", "image-b"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.New)
	assert.Equal(t, 0, res.Reused)
	assert.Len(t, res.Artifacts, 2)
	assert.Len(t, res.NewBlobs, 2)

	for _, a := range res.Artifacts {
		assert.Equal(t, versionID, a.VersionID)
		assert.Equal(t, domain.CategoryDataset, a.Category)
		assert.True(t, store.Exists(a.Checksum))
		assert.Equal(t, store.Locate(a.Checksum), a.Path)
	}
	assert.Equal(t, int64(len("image-a")), res.Artifacts[0].Size)
}

func TestIngestor_ReusesExistingBlob(t *testing.T) {
	store := newTestStore(t)
	repo := new(testutil.MockArtifactRepo)
	ing := NewIngestor(store, repo, 4, 500)

	checksum := sumOf("shared content")
	existing := &domain.Artifact{
		ID:       uuid.New(),
		Name:     "original.png",
		Category: domain.CategoryDataset,
		Path:     "/data/blobs/cache/ab/cd/" + checksum,
		Size:     14,
		Checksum: checksum,
	}
	repo.On("FindByChecksums", mock.Anything, domain.CategoryDataset, mock.Anything).
		Return(map[string]*domain.Artifact{checksum: existing}, nil)

	res, err := ing.Ingest(context.Background(), uuid.New(), domain.CategoryDataset, []Upload{
		textUpload("renamed.png", "shared content"),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.New)
	assert.Equal(t, 1, res.Reused)
	assert.Empty(t, res.NewBlobs)
	require.Len(t, res.Artifacts, 1)

	// New row keeps its own name but points at the existing blob.
	assert.Equal(t, "renamed.png", res.Artifacts[0].Name)
	assert.Equal(t, existing.Path, res.Artifacts[0].Path)
	assert.Equal(t, existing.Size, res.Artifacts[0].Size)

	// The staged copy was discarded, nothing committed.
	assert.False(t, store.Exists(checksum))
}

func TestIngestor_InBatchDuplicates(t *testing.T) {
	store := newTestStore(t)
	repo := new(testutil.MockArtifactRepo)
	ing := NewIngestor(store, repo, 4, 500)

	repo.On("FindByChecksums", mock.Anything, domain.CategoryLabel, mock.Anything).
		Return(map[string]*domain.Artifact{}, nil)

	res, err := ing.Ingest(context.Background(), uuid.New(), domain.CategoryLabel, []Upload{
		textUpload("one.txt", "same bytes"),
		textUpload("two.txt", "same bytes"),
	})
	require.NoError(t, err)

	// Second occurrence counts as reused and shares the first one's blob.
	assert.Equal(t, 1, res.New)
	assert.Equal(t, 1, res.Reused)
	assert.Len(t, res.Artifacts, 2)
	assert.Len(t, res.NewBlobs, 1)
	assert.Len(t, res.Checksums, 1)
	assert.Equal(t, res.Artifacts[0].Checksum, res.Artifacts[1].Checksum)
}

func TestIngestor_ChecksumLookupIsBatched(t *testing.T) {
	store := newTestStore(t)
	repo := new(testutil.MockArtifactRepo)
	ing := NewIngestor(store, repo, 4, 2)

	repo.On("FindByChecksums", mock.Anything, domain.CategoryDataset, mock.Anything).
		Return(map[string]*domain.Artifact{}, nil)

	_, err := ing.Ingest(context.Background(), uuid.New(), domain.CategoryDataset, []Upload{
		textUpload("a", "aa"), textUpload("b", "bb"), textUpload("c", "cc"),
	})
	require.NoError(t, err)

	// Three unique checksums with a batch size of two means two queries.
	repo.AssertNumberOfCalls(t, "FindByChecksums", 2)
	for _, call := range repo.Calls {
		if call.Method == "FindByChecksums" {
			assert.LessOrEqual(t, len(call.Arguments.Get(2).([]string)), 2)
		}
	}
}

func TestIngestor_CleanupBlobs(t *testing.T) {
	store := newTestStore(t)
	repo := new(testutil.MockArtifactRepo)
	ing := NewIngestor(store, repo, 4, 500)

	repo.On("FindByChecksums", mock.Anything, domain.CategoryDataset, mock.Anything).
		Return(map[string]*domain.Artifact{}, nil)

	res, err := ing.Ingest(context.Background(), uuid.New(), domain.CategoryDataset, []Upload{
		textUpload("a.png", "rollback me"),
	})
	require.NoError(t, err)
	require.Len(t, res.NewBlobs, 1)
	require.True(t, store.Exists(res.NewBlobs[0]))

	ing.CleanupBlobs(res.NewBlobs)
	assert.False(t, store.Exists(res.NewBlobs[0]))
}

func TestIngestor_EmptyBatch(t *testing.T) {
	store := newTestStore(t)
	repo := new(testutil.MockArtifactRepo)
	ing := NewIngestor(store, repo, 4, 500)

	res, err := ing.Ingest(context.Background(), uuid.New(), domain.CategoryDataset, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Artifacts)
	repo.AssertNotCalled(t, "FindByChecksums")
}
