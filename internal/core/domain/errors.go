package domain

import "errors"

// ============================================================================
// Hierarchy Errors
// ============================================================================

var (
	ErrFactoryNotFound     = errors.New("factory not found")
	ErrAlgorithmNotFound   = errors.New("algorithm not found")
	ErrModelNotFound       = errors.New("model not found")
	ErrFactoryNameConflict = errors.New("factory with this name already exists")
	ErrModelNameConflict   = errors.New("model with this name already exists for this algorithm")
	ErrInvalidName         = errors.New("name is required")
)

// ============================================================================
// Version Errors
// ============================================================================

// Not found errors
var (
	ErrVersionNotFound  = errors.New("version not found")
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrDeltaNotFound    = errors.New("version delta not found")
)

// Validation errors
var (
	ErrMetricOutOfRange = errors.New("metric must be between 0 and 100")
	ErrInvalidParams    = errors.New("custom params must be a JSON object")
	ErrInvalidCategory  = errors.New("unknown artifact category")
	ErrInvalidEditMode  = errors.New("edit mode must be replace or append")
	ErrEmptySelection   = errors.New("no artifact categories selected")
)

// ============================================================================
// Storage Errors
// ============================================================================

var (
	ErrBlobMissing = errors.New("blob file missing on disk")
	ErrStorageIO   = errors.New("artifact storage I/O failure")
)
