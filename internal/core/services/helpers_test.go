package services

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"artifact-registry-service/internal/adapters/secondary/blobstore"
)

func newTestStore(t *testing.T) *blobstore.Store {
	t.Helper()
	root := t.TempDir()
	store, err := blobstore.New(filepath.Join(root, "cache"), filepath.Join(root, "tmp"))
	require.NoError(t, err)
	return store
}

func textUpload(name, content string) Upload {
	return Upload{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func seedBlob(t *testing.T, store *blobstore.Store, content string) string {
	t.Helper()
	tmp, err := store.TempFile()
	require.NoError(t, err)
	_, err = tmp.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmp.Close())
	sum := sumOf(content)
	require.NoError(t, store.Commit(tmp.Name(), sum))
	return sum
}

func sumOf(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func set(sums ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(sums))
	for _, sum := range sums {
		s[sum] = struct{}{}
	}
	return s
}
