package services

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"artifact-registry-service/internal/core/domain"
)

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	files := make(map[string]string, len(zr.File))
	for _, zf := range zr.File {
		rc, err := zf.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[zf.Name] = string(content)
	}
	return files
}

func TestVersionService_Archive_LineageFolders(t *testing.T) {
	f := newVersionFixture(t)
	modelID := uuid.New()
	versionID := uuid.New()

	inheritedImg := seedBlob(t, f.store, "inherited image")
	freshImg := seedBlob(t, f.store, "fresh image")
	inheritedLbl := seedBlob(t, f.store, "inherited label")
	weights := seedBlob(t, f.store, "binary weights")
	script := seedBlob(t, f.store, "train script")

	f.versions.On("GetByID", mock.Anything, modelID, versionID).
		Return(&domain.Version{ID: versionID, ModelID: modelID, VersionNumber: 3}, nil)
	f.artifacts.On("ListByVersion", mock.Anything, versionID).Return([]*domain.Artifact{
		{Name: "old.png", Category: domain.CategoryDataset, Checksum: inheritedImg},
		{Name: "new.png", Category: domain.CategoryDataset, Checksum: freshImg},
		{Name: "old.txt", Category: domain.CategoryLabel, Checksum: inheritedLbl},
		{Name: "weights.pt", Category: domain.CategoryModel, Checksum: weights},
		{Name: "train.py", Category: domain.CategoryCode, Checksum: script},
	}, nil)
	f.artifacts.On("ChecksumOrigins", mock.Anything, modelID).Return(map[string]int{
		inheritedImg: 1,
		freshImg:     3,
		inheritedLbl: 2,
		weights:      3,
		script:       3,
	}, nil)

	archive, err := f.svc.Archive(context.Background(), modelID, versionID,
		ArchiveSelection{Dataset: true, Label: true, Model: true, Code: true})
	require.NoError(t, err)
	assert.Equal(t, "version_v3.zip", archive.Filename())

	var buf bytes.Buffer
	require.NoError(t, archive.Stream(&buf))
	files := readZip(t, buf.Bytes())

	// Inherited files are foldered by the version that introduced them;
	// everything this version brought sits in its plain category folder.
	assert.Equal(t, map[string]string{
		"version_1_images/old.png": "inherited image",
		"dataset/new.png":          "fresh image",
		"version_2_labels/old.txt": "inherited label",
		"model/weights.pt":         "binary weights",
		"code/train.py":            "train script",
	}, files)
}

func TestVersionService_Archive_SelectionFiltersCategories(t *testing.T) {
	f := newVersionFixture(t)
	modelID := uuid.New()
	versionID := uuid.New()

	img := seedBlob(t, f.store, "only image")
	lbl := seedBlob(t, f.store, "unwanted label")

	f.versions.On("GetByID", mock.Anything, modelID, versionID).
		Return(&domain.Version{ID: versionID, ModelID: modelID, VersionNumber: 1}, nil)
	f.artifacts.On("ListByVersion", mock.Anything, versionID).Return([]*domain.Artifact{
		{Name: "a.png", Category: domain.CategoryDataset, Checksum: img},
		{Name: "a.txt", Category: domain.CategoryLabel, Checksum: lbl},
	}, nil)
	f.artifacts.On("ChecksumOrigins", mock.Anything, modelID).
		Return(map[string]int{img: 1, lbl: 1}, nil)

	archive, err := f.svc.Archive(context.Background(), modelID, versionID,
		ArchiveSelection{Dataset: true})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, archive.Stream(&buf))
	files := readZip(t, buf.Bytes())

	assert.Equal(t, map[string]string{"dataset/a.png": "only image"}, files)
}

func TestVersionService_Archive_SkipsMissingBlobs(t *testing.T) {
	f := newVersionFixture(t)
	modelID := uuid.New()
	versionID := uuid.New()

	present := seedBlob(t, f.store, "still here")
	gone := sumOf("vanished from disk")

	f.versions.On("GetByID", mock.Anything, modelID, versionID).
		Return(&domain.Version{ID: versionID, ModelID: modelID, VersionNumber: 1}, nil)
	f.artifacts.On("ListByVersion", mock.Anything, versionID).Return([]*domain.Artifact{
		{Name: "here.png", Category: domain.CategoryDataset, Checksum: present},
		{Name: "gone.png", Category: domain.CategoryDataset, Checksum: gone},
	}, nil)
	f.artifacts.On("ChecksumOrigins", mock.Anything, modelID).
		Return(map[string]int{present: 1, gone: 1}, nil)

	archive, err := f.svc.Archive(context.Background(), modelID, versionID,
		ArchiveSelection{Dataset: true})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, archive.Stream(&buf))
	files := readZip(t, buf.Bytes())

	assert.Equal(t, map[string]string{"dataset/here.png": "still here"}, files)
}

func TestVersionService_Archive_EmptySelection(t *testing.T) {
	f := newVersionFixture(t)

	_, err := f.svc.Archive(context.Background(), uuid.New(), uuid.New(), ArchiveSelection{})
	assert.ErrorIs(t, err, domain.ErrEmptySelection)
	f.versions.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestVersionService_Archive_NoArtifactsForSelection(t *testing.T) {
	f := newVersionFixture(t)
	modelID := uuid.New()
	versionID := uuid.New()

	f.versions.On("GetByID", mock.Anything, modelID, versionID).
		Return(&domain.Version{ID: versionID, ModelID: modelID, VersionNumber: 1}, nil)
	f.artifacts.On("ListByVersion", mock.Anything, versionID).Return([]*domain.Artifact{
		{Name: "a.png", Category: domain.CategoryDataset, Checksum: sumOf("image only")},
	}, nil)

	_, err := f.svc.Archive(context.Background(), modelID, versionID,
		ArchiveSelection{Code: true})
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}
