package dto

import (
	"time"

	"github.com/google/uuid"

	"artifact-registry-service/internal/core/domain"
)

type VersionResponse struct {
	ID            uuid.UUID      `json:"id"`
	ModelID       uuid.UUID      `json:"model_id"`
	VersionNumber int            `json:"version_number"`
	Note          string         `json:"note"`
	IsActive      bool           `json:"is_active"`
	CreatedAt     string         `json:"created_at"`
	Metrics       domain.Metrics `json:"metrics"`
	Params        domain.Params  `json:"params"`
}

func ToVersionResponse(v *domain.Version) VersionResponse {
	return VersionResponse{
		ID:            v.ID,
		ModelID:       v.ModelID,
		VersionNumber: v.VersionNumber,
		Note:          v.Note,
		IsActive:      v.IsActive,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
		Metrics:       v.Metrics,
		Params:        v.Params,
	}
}

type DeltaResponse struct {
	VersionID uuid.UUID `json:"version_id"`

	DatasetCount   int `json:"dataset_count"`
	DatasetNew     int `json:"dataset_new"`
	DatasetReused  int `json:"dataset_reused"`
	DatasetRemoved int `json:"dataset_removed"`

	LabelCount   int `json:"label_count"`
	LabelNew     int `json:"label_new"`
	LabelReused  int `json:"label_reused"`
	LabelRemoved int `json:"label_removed"`

	NewCount       int `json:"new_count"`
	ReusedCount    int `json:"reused_count"`
	RemovedCount   int `json:"removed_count"`
	UnchangedCount int `json:"unchanged_count"`
}

func ToDeltaResponse(d *domain.VersionDelta) DeltaResponse {
	return DeltaResponse{
		VersionID:      d.VersionID,
		DatasetCount:   d.DatasetCount,
		DatasetNew:     d.DatasetNew,
		DatasetReused:  d.DatasetReused,
		DatasetRemoved: d.DatasetRemoved,
		LabelCount:     d.LabelCount,
		LabelNew:       d.LabelNew,
		LabelReused:    d.LabelReused,
		LabelRemoved:   d.LabelRemoved,
		NewCount:       d.NewCount,
		ReusedCount:    d.ReusedCount,
		RemovedCount:   d.RemovedCount,
		UnchangedCount: d.UnchangedCount,
	}
}

type ArtifactResponse struct {
	ID        uuid.UUID `json:"id"`
	VersionID uuid.UUID `json:"version_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
}

func ToArtifactResponse(a *domain.Artifact) ArtifactResponse {
	return ArtifactResponse{
		ID:        a.ID,
		VersionID: a.VersionID,
		Name:      a.Name,
		Category:  string(a.Category),
		Size:      a.Size,
		Checksum:  a.Checksum,
	}
}

type ChunkResponse struct {
	Uploaded int `json:"uploaded"`
}
