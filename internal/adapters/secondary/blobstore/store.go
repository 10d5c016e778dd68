// Package blobstore implements the content-addressed on-disk cache. A blob
// lives at <cacheRoot>/<sum[0:2]>/<sum[2:4]>/<sum> and is written exactly once;
// uploads are staged under a separate temp root and renamed in on commit.
package blobstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"artifact-registry-service/internal/core/domain"
)

type Store struct {
	cacheRoot string
	tempRoot  string
}

// New prepares the cache and temp roots. The temp root is kept disjoint from
// the cache root so a partially written upload can never be mistaken for a
// committed blob.
func New(cacheRoot, tempRoot string) (*Store, error) {
	if err := os.MkdirAll(cacheRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}
	if err := os.MkdirAll(tempRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create temp root: %w", err)
	}
	return &Store{cacheRoot: cacheRoot, tempRoot: tempRoot}, nil
}

// Locate derives the sharded blob path for a checksum. Pure; no I/O.
func (s *Store) Locate(checksum string) string {
	return filepath.Join(s.cacheRoot, checksum[:2], checksum[2:4], checksum)
}

func (s *Store) Exists(checksum string) bool {
	_, err := os.Stat(s.Locate(checksum))
	return err == nil
}

func (s *Store) TempFile() (*os.File, error) {
	f, err := os.CreateTemp(s.tempRoot, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}
	return f, nil
}

// Commit moves a staged file into its content-addressed location. First
// writer wins: if a blob with this checksum already exists, the staged file
// is discarded and Commit succeeds, since checksum-equal implies byte-equal.
func (s *Store) Commit(tempPath, checksum string) error {
	dest := s.Locate(checksum)
	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(tempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).WithField("path", tempPath).Warn("discard staged duplicate failed")
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create shard dir: %w", err)
	}
	if err := os.Rename(tempPath, dest); err != nil {
		// A concurrent writer may have won the rename race; checksum equality
		// makes that a success.
		if s.Exists(checksum) {
			_ = os.Remove(tempPath)
			return nil
		}
		return fmt.Errorf("commit blob %s: %w", checksum, err)
	}
	return nil
}

// Remove unlinks the blob file. The caller must already have verified that no
// artifact row references the checksum; the store keeps no reference counts.
// A missing file is a no-op.
func (s *Store) Remove(checksum string) error {
	if err := os.Remove(s.Locate(checksum)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove blob %s: %w", checksum, err)
	}
	return nil
}

// Open returns a reader over a committed blob for artifact downloads.
func (s *Store) Open(checksum string) (io.ReadCloser, error) {
	f, err := os.Open(s.Locate(checksum))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrBlobMissing
		}
		return nil, fmt.Errorf("open blob %s: %w", checksum, err)
	}
	return f, nil
}
