package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Version is one immutable snapshot of a model's artifacts. Version numbers are
// scoped to the model, start at 1 and are never reused, even after deletion.
// At most one version per model carries IsActive at any time.
type Version struct {
	ID            uuid.UUID `json:"id"`
	ModelID       uuid.UUID `json:"model_id"`
	VersionNumber int       `json:"version_number"`
	Note          string    `json:"note"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`

	Metrics Metrics `json:"metrics"`
	Params  Params  `json:"params"`
}

// Metrics holds optional evaluation results. Percentage metrics are validated
// to lie in [0, 100]; confusion-matrix counts are free non-negative ints.
type Metrics struct {
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Precision *float64 `json:"precision,omitempty"`
	Recall    *float64 `json:"recall,omitempty"`
	F1Score   *float64 `json:"f1_score,omitempty"`
	TP        *int     `json:"tp,omitempty"`
	TN        *int     `json:"tn,omitempty"`
	FP        *int     `json:"fp,omitempty"`
	FN        *int     `json:"fn,omitempty"`
}

// Validate rejects any percentage metric outside [0, 100].
func (m Metrics) Validate() error {
	for _, v := range []*float64{m.Accuracy, m.Precision, m.Recall, m.F1Score} {
		if v != nil && (*v < 0 || *v > 100) {
			return ErrMetricOutOfRange
		}
	}
	return nil
}

// Merge overlays the non-nil fields of in onto m.
func (m Metrics) Merge(in Metrics) Metrics {
	out := m
	if in.Accuracy != nil {
		out.Accuracy = in.Accuracy
	}
	if in.Precision != nil {
		out.Precision = in.Precision
	}
	if in.Recall != nil {
		out.Recall = in.Recall
	}
	if in.F1Score != nil {
		out.F1Score = in.F1Score
	}
	if in.TP != nil {
		out.TP = in.TP
	}
	if in.TN != nil {
		out.TN = in.TN
	}
	if in.FP != nil {
		out.FP = in.FP
	}
	if in.FN != nil {
		out.FN = in.FN
	}
	return out
}

// Params is the training-parameter map: a fixed record of well-known optional
// fields plus an open map of arbitrary user-supplied keys. On edit the fixed
// fields overwrite individually when present while Extra fully replaces the
// previous custom-key set.
type Params struct {
	BatchSize    *int           `json:"batch_size,omitempty"`
	Epochs       *int           `json:"epochs,omitempty"`
	LearningRate *float64       `json:"learning_rate,omitempty"`
	Optimizer    string         `json:"optimizer,omitempty"`
	ImageSize    *int           `json:"image_size,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// Merge applies incoming params onto p: known fields overwrite if present,
// a non-nil Extra replaces the existing custom keys wholesale.
func (p Params) Merge(in Params) Params {
	out := p
	if in.BatchSize != nil {
		out.BatchSize = in.BatchSize
	}
	if in.Epochs != nil {
		out.Epochs = in.Epochs
	}
	if in.LearningRate != nil {
		out.LearningRate = in.LearningRate
	}
	if in.Optimizer != "" {
		out.Optimizer = in.Optimizer
	}
	if in.ImageSize != nil {
		out.ImageSize = in.ImageSize
	}
	if in.Extra != nil {
		out.Extra = in.Extra
	}
	return out
}

// ParseCustomParams decodes the caller-supplied JSON object of arbitrary
// training parameters. Anything other than a JSON object is rejected.
func ParseCustomParams(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, ErrInvalidParams
	}
	return m, nil
}

// VersionDelta is the per-version ingestion summary, computed at create time
// and advanced incrementally by chunked uploads.
type VersionDelta struct {
	ID        uuid.UUID `json:"id"`
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
