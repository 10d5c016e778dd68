package blobstore

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artifact-registry-service/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	store, err := New(filepath.Join(root, "cache"), filepath.Join(root, "tmp"))
	require.NoError(t, err)
	return store
}

func stage(t *testing.T, store *Store, content string) (tempPath, checksum string) {
	t.Helper()
	f, err := store.TempFile()
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	sum := sha256.Sum256([]byte(content))
	return f.Name(), hex.EncodeToString(sum[:])
}

func TestStore_CommitAndLocate(t *testing.T) {
	store := newTestStore(t)

	tempPath, checksum := stage(t, store, "hello blobs")
	require.NoError(t, store.Commit(tempPath, checksum))

	assert.True(t, store.Exists(checksum))

	// Sharded path: first two hex pairs become directories.
	path := store.Locate(checksum)
	assert.Equal(t, checksum[:2], filepath.Base(filepath.Dir(filepath.Dir(path))))
	assert.Equal(t, checksum[2:4], filepath.Base(filepath.Dir(path)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello blobs", string(data))

	// Staged file is gone after commit.
	_, err = os.Stat(tempPath)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_CommitDuplicateKeepsFirstWriter(t *testing.T) {
	store := newTestStore(t)

	first, checksum := stage(t, store, "same content")
	require.NoError(t, store.Commit(first, checksum))

	info, err := os.Stat(store.Locate(checksum))
	require.NoError(t, err)
	firstMod := info.ModTime()

	second, checksum2 := stage(t, store, "same content")
	require.Equal(t, checksum, checksum2)
	require.NoError(t, store.Commit(second, checksum2))

	info, err = os.Stat(store.Locate(checksum))
	require.NoError(t, err)
	assert.Equal(t, firstMod, info.ModTime())

	_, err = os.Stat(second)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_RemoveMissingIsNoop(t *testing.T) {
	store := newTestStore(t)
	sum := sha256.Sum256([]byte("never written"))
	assert.NoError(t, store.Remove(hex.EncodeToString(sum[:])))
}

func TestStore_OpenMissingBlob(t *testing.T) {
	store := newTestStore(t)
	sum := sha256.Sum256([]byte("gone"))
	_, err := store.Open(hex.EncodeToString(sum[:]))
	assert.ErrorIs(t, err, domain.ErrBlobMissing)
}

func TestStore_OpenRoundTrip(t *testing.T) {
	store := newTestStore(t)

	tempPath, checksum := stage(t, store, "download me")
	require.NoError(t, store.Commit(tempPath, checksum))

	rc, err := store.Open(checksum)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "download me", string(data))
}

func TestStore_TempRootDisjointFromCache(t *testing.T) {
	store := newTestStore(t)

	f, err := store.TempFile()
	require.NoError(t, err)
	defer f.Close()

	rel, err := filepath.Rel(store.cacheRoot, f.Name())
	require.NoError(t, err)
	assert.Contains(t, rel, "..")
}
