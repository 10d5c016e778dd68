package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"artifact-registry-service/internal/core/domain"
)

// AppendChunk ingests one more batch of files into an existing version, for
// clients that split large uploads across requests. Each chunk runs the same
// dedup pipeline as creation and advances the stored delta counters for
// dataset and label categories; removed and unchanged tallies are fixed at
// creation time and left untouched.
func (s *VersionService) AppendChunk(ctx context.Context, modelID, versionID uuid.UUID, category domain.Category, files []Upload) (int, error) {
	var uploaded int
	var newBlobs []string

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Row lock on the model serializes concurrent chunks so the counter
		// read-modify-write below cannot lose increments.
		if err := s.models.Lock(ctx, modelID); err != nil {
			return err
		}
		v, err := s.versions.GetByID(ctx, modelID, versionID)
		if err != nil {
			return err
		}

		res, err := s.ingestor.Ingest(ctx, v.ID, category, files)
		if err != nil {
			return err
		}
		newBlobs = res.NewBlobs
		if len(res.Artifacts) == 0 {
			return nil
		}

		if err := s.artifacts.BulkInsert(ctx, res.Artifacts); err != nil {
			return err
		}
		uploaded = len(res.Artifacts)

		if category != domain.CategoryDataset && category != domain.CategoryLabel {
			return nil
		}

		delta, err := s.deltas.GetByVersion(ctx, v.ID)
		if err != nil {
			// A version without a delta row still accepts files; the rows are
			// kept and only the counter bookkeeping is skipped.
			if errors.Is(err, domain.ErrDeltaNotFound) {
				return nil
			}
			return err
		}
		switch category {
		case domain.CategoryDataset:
			delta.DatasetCount += uploaded
			delta.DatasetNew += res.New
			delta.DatasetReused += res.Reused
		case domain.CategoryLabel:
			delta.LabelCount += uploaded
			delta.LabelNew += res.New
			delta.LabelReused += res.Reused
		}
		delta.NewCount += res.New
		delta.ReusedCount += res.Reused
		return s.deltas.Update(ctx, delta)
	})
	if err != nil {
		s.ingestor.CleanupBlobs(newBlobs)
		return 0, err
	}

	log.WithFields(log.Fields{
		"version_id": versionID,
		"category":   category,
		"uploaded":   uploaded,
	}).Debug("chunk appended")
	return uploaded, nil
}
