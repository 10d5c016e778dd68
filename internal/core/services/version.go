package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/core/ports/output"
)

// EditMode controls how resubmitted dataset or label files combine with the
// files a version already holds.
type EditMode string

const (
	// EditModeReplace drops the category's existing artifacts before ingesting
	// the new batch.
	EditModeReplace EditMode = "replace"
	// EditModeAppend keeps existing artifacts and adds the new batch.
	EditModeAppend EditMode = "append"
)

func ParseEditMode(s string) (EditMode, error) {
	switch EditMode(s) {
	case EditModeReplace, EditModeAppend:
		return EditMode(s), nil
	case "":
		return EditModeReplace, nil
	}
	return "", domain.ErrInvalidEditMode
}

// VersionInput carries everything needed to create a version. Files maps
// category to uploads; absent categories are simply empty.
type VersionInput struct {
	Note    string
	Metrics domain.Metrics
	Params  domain.Params
	Files   map[domain.Category][]Upload
}

// EditInput carries a partial update. Only present map keys touch their
// category; DatasetMode and LabelMode choose replace or append for those two,
// while code always replaces and model files always append.
type EditInput struct {
	Note        *string
	Metrics     domain.Metrics
	Params      domain.Params
	Files       map[domain.Category][]Upload
	DatasetMode EditMode
	LabelMode   EditMode
}

// VersionService owns the version lifecycle: creation with deduplicated
// ingestion and delta capture, activation handoff, edits, chunked appends and
// deletion with asynchronous blob reclamation.
type VersionService struct {
	tx        ports.TxManager
	models    ports.ModelRepository
	versions  ports.VersionRepository
	artifacts ports.ArtifactRepository
	deltas    ports.DeltaRepository
	store     ports.BlobStore
	ingestor  *Ingestor
	engine    *DeltaEngine
	gc        *Collector
}

func NewVersionService(
	tx ports.TxManager,
	models ports.ModelRepository,
	versions ports.VersionRepository,
	artifacts ports.ArtifactRepository,
	deltas ports.DeltaRepository,
	store ports.BlobStore,
	ingestor *Ingestor,
	engine *DeltaEngine,
	gc *Collector,
) *VersionService {
	return &VersionService{
		tx:        tx,
		models:    models,
		versions:  versions,
		artifacts: artifacts,
		deltas:    deltas,
		store:     store,
		ingestor:  ingestor,
		engine:    engine,
		gc:        gc,
	}
}

// Create ingests a new version for the model. The whole operation runs in one
// transaction under a row lock on the model: number assignment, sibling
// deactivation, artifact rows and the delta summary land together or not at
// all. Blobs written for this request are removed again if the transaction
// fails; blobs that were merely reused are left alone.
func (s *VersionService) Create(ctx context.Context, algorithmID, modelID uuid.UUID, in VersionInput) (*domain.Version, error) {
	if err := in.Metrics.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.models.GetByID(ctx, algorithmID, modelID); err != nil {
		return nil, err
	}

	var version *domain.Version
	var newBlobs []string

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.models.Lock(ctx, modelID); err != nil {
			return err
		}

		max, err := s.versions.MaxVersionNumber(ctx, modelID)
		if err != nil {
			return err
		}
		number := max + 1

		if err := s.versions.DeactivateAll(ctx, modelID); err != nil {
			return err
		}

		version = &domain.Version{
			ID:            uuid.New(),
			ModelID:       modelID,
			VersionNumber: number,
			Note:          in.Note,
			IsActive:      true,
			CreatedAt:     time.Now().UTC(),
			Metrics:       in.Metrics,
			Params:        in.Params,
		}
		if err := s.versions.Create(ctx, version); err != nil {
			return err
		}

		var datasetCounts, labelCounts categoryCounts
		curDataset := make(map[string]struct{})
		curLabel := make(map[string]struct{})

		for _, category := range []domain.Category{
			domain.CategoryDataset, domain.CategoryLabel,
			domain.CategoryModel, domain.CategoryCode,
		} {
			files := in.Files[category]
			if len(files) == 0 {
				continue
			}
			res, err := s.ingestor.Ingest(ctx, version.ID, category, files)
			if err != nil {
				return err
			}
			newBlobs = append(newBlobs, res.NewBlobs...)
			if err := s.artifacts.BulkInsert(ctx, res.Artifacts); err != nil {
				return err
			}
			switch category {
			case domain.CategoryDataset:
				datasetCounts = categoryCounts{Count: len(res.Artifacts), New: res.New, Reused: res.Reused}
				curDataset = res.Checksums
			case domain.CategoryLabel:
				labelCounts = categoryCounts{Count: len(res.Artifacts), New: res.New, Reused: res.Reused}
				curLabel = res.Checksums
			}
		}

		prevDataset, prevLabel, err := s.engine.snapshotSets(ctx, modelID, number-1)
		if err != nil {
			return err
		}

		delta := s.engine.Build(version.ID, datasetCounts, labelCounts,
			curDataset, curLabel, prevDataset, prevLabel)
		return s.deltas.Create(ctx, delta)
	})
	if err != nil {
		s.ingestor.CleanupBlobs(newBlobs)
		return nil, err
	}

	log.WithFields(log.Fields{
		"model_id":       modelID,
		"version_id":     version.ID,
		"version_number": version.VersionNumber,
	}).Info("version created")
	return version, nil
}

// Checkout activates the given version, deactivating whichever sibling was
// active. Checking out the already-active version is a no-op that succeeds.
func (s *VersionService) Checkout(ctx context.Context, modelID, versionID uuid.UUID) (*domain.Version, error) {
	var version *domain.Version
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.models.Lock(ctx, modelID); err != nil {
			return err
		}
		v, err := s.versions.GetByID(ctx, modelID, versionID)
		if err != nil {
			return err
		}
		if err := s.versions.DeactivateAll(ctx, modelID); err != nil {
			return err
		}
		if err := s.versions.Activate(ctx, versionID); err != nil {
			return err
		}
		v.IsActive = true
		version = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

// Edit applies a partial update to a version's metadata and files. Metrics
// and known params overwrite field by field; custom params replace wholesale.
// Dataset and label files honor their edit mode, code files replace the
// category, model files append. New blobs written by a failed edit are
// removed again.
func (s *VersionService) Edit(ctx context.Context, modelID, versionID uuid.UUID, in EditInput) (*domain.Version, error) {
	if err := in.Metrics.Validate(); err != nil {
		return nil, err
	}

	var version *domain.Version
	var newBlobs []string

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		v, err := s.versions.GetByID(ctx, modelID, versionID)
		if err != nil {
			return err
		}

		v.Metrics = v.Metrics.Merge(in.Metrics)
		v.Params = v.Params.Merge(in.Params)
		if in.Note != nil {
			v.Note = *in.Note
		}

		ingest := func(category domain.Category, files []Upload, replace bool) error {
			if replace {
				if err := s.artifacts.DeleteByVersionAndCategory(ctx, v.ID, category); err != nil {
					return err
				}
			}
			res, err := s.ingestor.Ingest(ctx, v.ID, category, files)
			if err != nil {
				return err
			}
			newBlobs = append(newBlobs, res.NewBlobs...)
			return s.artifacts.BulkInsert(ctx, res.Artifacts)
		}

		if files, ok := in.Files[domain.CategoryDataset]; ok {
			if err := ingest(domain.CategoryDataset, files, in.DatasetMode != EditModeAppend); err != nil {
				return err
			}
		}
		if files, ok := in.Files[domain.CategoryLabel]; ok {
			if err := ingest(domain.CategoryLabel, files, in.LabelMode != EditModeAppend); err != nil {
				return err
			}
		}
		if files, ok := in.Files[domain.CategoryCode]; ok {
			if err := ingest(domain.CategoryCode, files, true); err != nil {
				return err
			}
		}
		if files, ok := in.Files[domain.CategoryModel]; ok {
			if err := ingest(domain.CategoryModel, files, false); err != nil {
				return err
			}
		}

		if err := s.versions.Update(ctx, v); err != nil {
			return err
		}
		version = v
		return nil
	})
	if err != nil {
		s.ingestor.CleanupBlobs(newBlobs)
		return nil, err
	}
	return version, nil
}

// Delete removes a version and all its artifact rows, then hands the captured
// blob references to the garbage collector once the transaction has
// committed. If the deleted version was active, the highest-numbered
// survivor is activated in its place.
func (s *VersionService) Delete(ctx context.Context, modelID, versionID uuid.UUID) error {
	var refs []domain.BlobRef

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.models.Lock(ctx, modelID); err != nil {
			return err
		}
		v, err := s.versions.GetByID(ctx, modelID, versionID)
		if err != nil {
			return err
		}

		artifacts, err := s.artifacts.ListByVersion(ctx, v.ID)
		if err != nil {
			return err
		}
		for _, a := range artifacts {
			refs = append(refs, domain.BlobRef{Checksum: a.Checksum, Path: a.Path})
		}

		if err := s.versions.Delete(ctx, v.ID); err != nil {
			return err
		}

		if v.IsActive {
			next, err := s.versions.GetLatest(ctx, modelID)
			switch {
			case err == nil:
				if err := s.versions.Activate(ctx, next.ID); err != nil {
					return err
				}
			case errors.Is(err, domain.ErrVersionNotFound):
				// Last version gone, nothing to activate.
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.gc.Collect(refs)
	log.WithFields(log.Fields{
		"model_id":   modelID,
		"version_id": versionID,
	}).Info("version deleted")
	return nil
}

// Get returns the version, scoped to the model.
func (s *VersionService) Get(ctx context.Context, modelID, versionID uuid.UUID) (*domain.Version, error) {
	return s.versions.GetByID(ctx, modelID, versionID)
}

// List returns the model's versions, newest first.
func (s *VersionService) List(ctx context.Context, modelID uuid.UUID) ([]*domain.Version, error) {
	return s.versions.ListByModel(ctx, modelID)
}

// GetDelta recomputes the version's delta from artifact history rather than
// returning the stored summary, so numbers stay truthful after siblings have
// been deleted.
func (s *VersionService) GetDelta(ctx context.Context, modelID, versionID uuid.UUID) (*domain.VersionDelta, error) {
	v, err := s.versions.GetByID(ctx, modelID, versionID)
	if err != nil {
		return nil, err
	}
	return s.engine.Recompute(ctx, modelID, v)
}

// ListArtifacts returns the version's artifact rows.
func (s *VersionService) ListArtifacts(ctx context.Context, modelID, versionID uuid.UUID) ([]*domain.Artifact, error) {
	if _, err := s.versions.GetByID(ctx, modelID, versionID); err != nil {
		return nil, err
	}
	return s.artifacts.ListByVersion(ctx, versionID)
}
