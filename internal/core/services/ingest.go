package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/core/ports/output"
)

const (
	// DefaultHashWorkers bounds the parallel hashing pool per request.
	DefaultHashWorkers = 32
	// DefaultChecksumBatch bounds the number of checksums per existence query.
	DefaultChecksumBatch = 500

	copyBufferSize = 1 << 20 // 1 MiB streaming reads, files never fully in memory
)

// Upload is one incoming file. Open must return an independent reader so
// uploads can be hashed in parallel.
type Upload struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// IngestResult is the outcome of deduplicating one category batch.
type IngestResult struct {
	Artifacts []*domain.Artifact
	// Checksums is the distinct checksum set of the batch.
	Checksums map[string]struct{}
	New       int
	Reused    int
	// NewBlobs lists the checksums of blobs this batch physically wrote, for
	// best-effort cleanup if the owning transaction later fails. Blobs that
	// pre-existed and were merely reused are never listed.
	NewBlobs []string
}

// Ingestor hashes uploaded files into staged temp files, resolves which
// checksums the system already stores, and commits only the genuinely new
// blobs into the content-addressed store.
type Ingestor struct {
	store     ports.BlobStore
	artifacts ports.ArtifactRepository
	workers   int
	batchSize int
}

func NewIngestor(store ports.BlobStore, artifacts ports.ArtifactRepository, workers, batchSize int) *Ingestor {
	if workers <= 0 {
		workers = DefaultHashWorkers
	}
	if batchSize <= 0 {
		batchSize = DefaultChecksumBatch
	}
	return &Ingestor{store: store, artifacts: artifacts, workers: workers, batchSize: batchSize}
}

type stagedFile struct {
	name     string
	tempPath string
	size     int64
	checksum string
}

// Ingest runs the full hash → batched-existence-check → commit-or-reuse
// pipeline for one category of uploads and returns the artifact rows to
// persist. The caller owns the transaction; on any later failure it must
// discard result.NewBlobs via CleanupBlobs.
func (ing *Ingestor) Ingest(ctx context.Context, versionID uuid.UUID, category domain.Category, files []Upload) (*IngestResult, error) {
	result := &IngestResult{Checksums: make(map[string]struct{})}
	if len(files) == 0 {
		return result, nil
	}

	staged, err := ing.stageAll(ctx, files)
	if err != nil {
		return nil, err
	}

	existing, err := ing.lookupExisting(ctx, category, staged)
	if err != nil {
		discardStaged(staged)
		return nil, err
	}

	for _, sf := range staged {
		result.Checksums[sf.checksum] = struct{}{}

		if old, ok := existing[sf.checksum]; ok {
			// Blob already stored; the new row points at the existing path and
			// the staged copy is discarded.
			if err := os.Remove(sf.tempPath); err != nil {
				log.WithError(err).WithField("path", sf.tempPath).Warn("discard staged duplicate failed")
			}
			result.Artifacts = append(result.Artifacts, &domain.Artifact{
				ID:        uuid.New(),
				VersionID: versionID,
				Name:      sf.name,
				Category:  category,
				Path:      old.Path,
				Size:      old.Size,
				Checksum:  old.Checksum,
			})
			result.Reused++
			continue
		}

		existed := ing.store.Exists(sf.checksum)
		if err := ing.store.Commit(sf.tempPath, sf.checksum); err != nil {
			discardStaged(staged)
			ing.CleanupBlobs(result.NewBlobs)
			return nil, fmt.Errorf("%w: %v", domain.ErrStorageIO, err)
		}
		if !existed {
			result.NewBlobs = append(result.NewBlobs, sf.checksum)
		}

		artifact := &domain.Artifact{
			ID:        uuid.New(),
			VersionID: versionID,
			Name:      sf.name,
			Category:  category,
			Path:      ing.store.Locate(sf.checksum),
			Size:      sf.size,
			Checksum:  sf.checksum,
		}
		result.Artifacts = append(result.Artifacts, artifact)
		result.New++

		// Later duplicates within this batch reuse the row we just built.
		existing[sf.checksum] = artifact
	}

	return result, nil
}

// stageAll streams every upload into a temp file while hashing it, with a
// bounded worker pool. Workers share nothing; each fills its own slot in the
// results slice and the coordinator merges after Wait.
func (ing *Ingestor) stageAll(ctx context.Context, files []Upload) ([]stagedFile, error) {
	staged := make([]stagedFile, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ing.workers)

	for i, f := range files {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			sf, err := ing.stageOne(f)
			if err != nil {
				return err
			}
			staged[i] = sf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		discardStaged(staged)
		return nil, err
	}
	return staged, nil
}

func (ing *Ingestor) stageOne(f Upload) (stagedFile, error) {
	src, err := f.Open()
	if err != nil {
		return stagedFile{}, fmt.Errorf("open upload %s: %w", f.Name, err)
	}
	defer src.Close()

	tmp, err := ing.store.TempFile()
	if err != nil {
		return stagedFile{}, fmt.Errorf("%w: %v", domain.ErrStorageIO, err)
	}

	hasher := sha256.New()
	buf := make([]byte, copyBufferSize)
	size, err := io.CopyBuffer(io.MultiWriter(tmp, hasher), src, buf)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return stagedFile{}, fmt.Errorf("stage upload %s: %w", f.Name, err)
	}

	return stagedFile{
		name:     f.Name,
		tempPath: tmp.Name(),
		size:     size,
		checksum: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// lookupExisting batch-queries artifact rows matching the staged checksums and
// category, capped at batchSize checksums per query.
func (ing *Ingestor) lookupExisting(ctx context.Context, category domain.Category, staged []stagedFile) (map[string]*domain.Artifact, error) {
	seen := make(map[string]struct{}, len(staged))
	unique := make([]string, 0, len(staged))
	for _, sf := range staged {
		if _, ok := seen[sf.checksum]; ok {
			continue
		}
		seen[sf.checksum] = struct{}{}
		unique = append(unique, sf.checksum)
	}

	existing := make(map[string]*domain.Artifact, len(unique))
	for start := 0; start < len(unique); start += ing.batchSize {
		end := min(start+ing.batchSize, len(unique))
		batch, err := ing.artifacts.FindByChecksums(ctx, category, unique[start:end])
		if err != nil {
			return nil, err
		}
		for sum, a := range batch {
			existing[sum] = a
		}
	}
	return existing, nil
}

// CleanupBlobs best-effort deletes blobs this request newly wrote, after its
// transaction failed. Reused blobs are never passed in.
func (ing *Ingestor) CleanupBlobs(checksums []string) {
	for _, sum := range checksums {
		if err := ing.store.Remove(sum); err != nil {
			log.WithError(err).WithField("checksum", sum).Warn("cleanup of new blob failed")
		}
	}
}

func discardStaged(staged []stagedFile) {
	for _, sf := range staged {
		if sf.tempPath == "" {
			continue
		}
		_ = os.Remove(sf.tempPath)
	}
}
