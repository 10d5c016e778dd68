package services

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/core/ports/output"
)

// Collector reclaims blobs orphaned by version deletion. It runs after the
// deleting transaction has committed and never blocks the deletion response.
// Reference checks are fresh queries, so a concurrent re-ingestion of the
// same checksum keeps its blob alive.
type Collector struct {
	artifacts ports.ArtifactRepository
	store     ports.BlobStore

	wg sync.WaitGroup
}

func NewCollector(artifacts ports.ArtifactRepository, store ports.BlobStore) *Collector {
	return &Collector{artifacts: artifacts, store: store}
}

// Collect schedules an asynchronous sweep over the captured (checksum, path)
// pairs of a deleted version.
func (c *Collector) Collect(refs []domain.BlobRef) {
	if len(refs) == 0 {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.Sweep(context.Background(), refs)
	}()
}

// Sweep deletes every blob in refs that no artifact row references anymore.
// Failures are logged and skipped; a sweep is never fatal.
func (c *Collector) Sweep(ctx context.Context, refs []domain.BlobRef) {
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.Checksum]; ok {
			continue
		}
		seen[ref.Checksum] = struct{}{}

		count, err := c.artifacts.CountByChecksum(ctx, ref.Checksum)
		if err != nil {
			log.WithError(err).WithField("checksum", ref.Checksum).Warn("gc reference check failed")
			continue
		}
		if count > 0 {
			continue
		}

		if err := c.store.Remove(ref.Checksum); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"checksum": ref.Checksum,
				"path":     ref.Path,
			}).Warn("gc blob removal failed")
			continue
		}
		log.WithField("checksum", ref.Checksum).Info("gc removed orphaned blob")
	}
}

// Wait blocks until all scheduled sweeps finish. Used on shutdown and in
// tests.
func (c *Collector) Wait() {
	c.wg.Wait()
}
