package ports

import (
	"context"
	"io"
	"os"
)

// BlobStore is the content-addressed on-disk cache. Blobs are write-once:
// Commit with an already-present checksum discards the staged file and
// succeeds. The store performs no reference counting; Remove callers must
// have verified zero remaining references themselves.
type BlobStore interface {
	// Locate derives the blob path for a checksum. Pure; no I/O.
	Locate(checksum string) string
	Exists(checksum string) bool
	// TempFile creates a staging file in the temp root, which is disjoint from
	// the cache root so partial writes are never visible as committed blobs.
	TempFile() (*os.File, error)
	// Commit atomically moves a staged file into its content-addressed
	// location, creating shard directories as needed. First writer wins.
	Commit(tempPath, checksum string) error
	Remove(checksum string) error
	// Open returns a reader over a committed blob, or domain.ErrBlobMissing
	// when the file is gone.
	Open(checksum string) (io.ReadCloser, error)
}

// TxManager runs fn inside one database transaction. Repository calls made
// with the ctx passed to fn join that transaction; fn returning an error
// rolls everything back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
