package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/core/ports/output"
)

// DeltaEngine derives per-version ingestion statistics. "Removed" is always
// measured against the immediate predecessor snapshot, while "new" vs
// "reused" is measured against the model's full lineage: a checksum counts as
// new only when this version is its origin, so a file re-introduced from two
// versions back still counts as reused.
type DeltaEngine struct {
	versions  ports.VersionRepository
	artifacts ports.ArtifactRepository
}

func NewDeltaEngine(versions ports.VersionRepository, artifacts ports.ArtifactRepository) *DeltaEngine {
	return &DeltaEngine{versions: versions, artifacts: artifacts}
}

// categoryCounts carries the pipeline's per-category tallies into Build.
type categoryCounts struct {
	Count  int
	New    int
	Reused int
}

// Build assembles the delta stored at version-creation time. The new/reused
// tallies come from the ingestion pipeline's global dedup check; removed and
// unchanged are set comparisons against the predecessor's checksum sets.
func (e *DeltaEngine) Build(versionID uuid.UUID,
	dataset, label categoryCounts,
	curDataset, curLabel, prevDataset, prevLabel map[string]struct{},
) *domain.VersionDelta {
	datasetRemoved := countMissing(prevDataset, curDataset)
	labelRemoved := countMissing(prevLabel, curLabel)
	unchanged := countCommon(curDataset, prevDataset) + countCommon(curLabel, prevLabel)

	return &domain.VersionDelta{
		ID:        uuid.New(),
		VersionID: versionID,

		DatasetCount:   dataset.Count,
		DatasetNew:     dataset.New,
		DatasetReused:  dataset.Reused,
		DatasetRemoved: datasetRemoved,

		LabelCount:   label.Count,
		LabelNew:     label.New,
		LabelReused:  label.Reused,
		LabelRemoved: labelRemoved,

		NewCount:       dataset.New + label.New,
		ReusedCount:    dataset.Reused + label.Reused,
		RemovedCount:   datasetRemoved + labelRemoved,
		UnchangedCount: unchanged,
	}
}

// Recompute rebuilds the delta for a version straight from artifact history,
// ignoring the stored summary. The origin of each checksum is the smallest
// version number of the model that ever contained it; the predecessor is the
// closest surviving version below the current number.
func (e *DeltaEngine) Recompute(ctx context.Context, modelID uuid.UUID, version *domain.Version) (*domain.VersionDelta, error) {
	artifacts, err := e.artifacts.ListByVersion(ctx, version.ID)
	if err != nil {
		return nil, err
	}

	origins, err := e.artifacts.ChecksumOrigins(ctx, modelID)
	if err != nil {
		return nil, err
	}

	delta := &domain.VersionDelta{VersionID: version.ID}
	curDataset := make(map[string]struct{})
	curLabel := make(map[string]struct{})

	for _, a := range artifacts {
		switch a.Category {
		case domain.CategoryDataset:
			delta.DatasetCount++
			curDataset[a.Checksum] = struct{}{}
			if origins[a.Checksum] == version.VersionNumber {
				delta.DatasetNew++
			} else {
				delta.DatasetReused++
			}
		case domain.CategoryLabel:
			delta.LabelCount++
			curLabel[a.Checksum] = struct{}{}
			if origins[a.Checksum] == version.VersionNumber {
				delta.LabelNew++
			} else {
				delta.LabelReused++
			}
		}
	}

	prevDataset, prevLabel, err := e.predecessorSets(ctx, modelID, version.VersionNumber)
	if err != nil {
		return nil, err
	}

	delta.DatasetRemoved = countMissing(prevDataset, curDataset)
	delta.LabelRemoved = countMissing(prevLabel, curLabel)
	delta.UnchangedCount = countCommon(curDataset, prevDataset) + countCommon(curLabel, prevLabel)

	delta.NewCount = delta.DatasetNew + delta.LabelNew
	delta.ReusedCount = delta.DatasetReused + delta.LabelReused
	delta.RemovedCount = delta.DatasetRemoved + delta.LabelRemoved

	return delta, nil
}

// predecessorSets resolves the closest surviving version below number and
// returns its dataset and label checksum sets. A first version has none.
func (e *DeltaEngine) predecessorSets(ctx context.Context, modelID uuid.UUID, number int) (map[string]struct{}, map[string]struct{}, error) {
	versions, err := e.versions.ListByModel(ctx, modelID)
	if err != nil {
		return nil, nil, err
	}

	var prev *domain.Version
	for _, v := range versions { // newest first
		if v.VersionNumber < number {
			prev = v
			break
		}
	}
	if prev == nil {
		return nil, nil, nil
	}

	prevDataset, err := e.artifacts.ChecksumsByVersion(ctx, prev.ID, domain.CategoryDataset)
	if err != nil {
		return nil, nil, err
	}
	prevLabel, err := e.artifacts.ChecksumsByVersion(ctx, prev.ID, domain.CategoryLabel)
	if err != nil {
		return nil, nil, err
	}
	return prevDataset, prevLabel, nil
}

// snapshotSets loads the checksum sets of the version numbered exactly
// number, for the create path's predecessor comparison. Missing predecessor
// yields empty sets.
func (e *DeltaEngine) snapshotSets(ctx context.Context, modelID uuid.UUID, number int) (map[string]struct{}, map[string]struct{}, error) {
	prev, err := e.versions.GetByNumber(ctx, modelID, number)
	if err != nil {
		if errors.Is(err, domain.ErrVersionNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	prevDataset, err := e.artifacts.ChecksumsByVersion(ctx, prev.ID, domain.CategoryDataset)
	if err != nil {
		return nil, nil, err
	}
	prevLabel, err := e.artifacts.ChecksumsByVersion(ctx, prev.ID, domain.CategoryLabel)
	if err != nil {
		return nil, nil, err
	}
	return prevDataset, prevLabel, nil
}

func countMissing(prev, cur map[string]struct{}) int {
	n := 0
	for sum := range prev {
		if _, ok := cur[sum]; !ok {
			n++
		}
	}
	return n
}

func countCommon(a, b map[string]struct{}) int {
	n := 0
	for sum := range a {
		if _, ok := b[sum]; ok {
			n++
		}
	}
	return n
}
