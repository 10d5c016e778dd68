package domain

import (
	"github.com/google/uuid"
)

type Category string

const (
	CategoryDataset Category = "dataset"
	CategoryLabel   Category = "label"
	CategoryModel   Category = "model"
	CategoryCode    Category = "code"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryDataset, CategoryLabel, CategoryModel, CategoryCode:
		return Category(s), nil
	}
	return "", ErrInvalidCategory
}

// Artifact ties a version to a blob. Many artifacts, across any number of
// versions and under any display name, may reference the same checksum; the
// physical file exists once. Path, size and checksum never change once set.
type Artifact struct {
	ID        uuid.UUID `json:"id"`
	VersionID uuid.UUID `json:"version_id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
}

// BlobRef is the (checksum, path) pair captured at version-deletion time and
// handed to the garbage collector after the deleting transaction commits.
type BlobRef struct {
	Checksum string
	Path     string
}
