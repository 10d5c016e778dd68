package services

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/core/ports/output"
)

// ArchiveSelection picks which artifact categories go into a version bundle.
type ArchiveSelection struct {
	Dataset bool
	Label   bool
	Model   bool
	Code    bool
}

func (s ArchiveSelection) empty() bool {
	return !s.Dataset && !s.Label && !s.Model && !s.Code
}

func (s ArchiveSelection) contains(c domain.Category) bool {
	switch c {
	case domain.CategoryDataset:
		return s.Dataset
	case domain.CategoryLabel:
		return s.Label
	case domain.CategoryModel:
		return s.Model
	case domain.CategoryCode:
		return s.Code
	}
	return false
}

type archiveEntry struct {
	name     string
	checksum string
}

// VersionArchive is a planned bundle: the resolved version plus the zip
// entries to stream for it. Planning and streaming are split so callers can
// turn planning failures into proper error responses before any bytes of the
// body have been written.
type VersionArchive struct {
	Version *domain.Version
	entries []archiveEntry
	store   ports.BlobStore
}

// Archive plans a zip bundle of the version's artifacts for the selected
// categories. Dataset and label files inherited from an earlier version are
// foldered under their origin version so the bundle shows where each file
// first appeared; files the version introduced itself sit in plain
// dataset/ and labels/ folders, model and code files under their category.
func (s *VersionService) Archive(ctx context.Context, modelID, versionID uuid.UUID, sel ArchiveSelection) (*VersionArchive, error) {
	if sel.empty() {
		return nil, domain.ErrEmptySelection
	}

	v, err := s.versions.GetByID(ctx, modelID, versionID)
	if err != nil {
		return nil, err
	}

	artifacts, err := s.artifacts.ListByVersion(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	picked := artifacts[:0]
	for _, a := range artifacts {
		if sel.contains(a.Category) {
			picked = append(picked, a)
		}
	}
	if len(picked) == 0 {
		return nil, domain.ErrArtifactNotFound
	}

	origins, err := s.artifacts.ChecksumOrigins(ctx, modelID)
	if err != nil {
		return nil, err
	}

	entries := make([]archiveEntry, 0, len(picked))
	for _, a := range picked {
		entries = append(entries, archiveEntry{
			name:     archivePath(a, origins[a.Checksum], v.VersionNumber),
			checksum: a.Checksum,
		})
	}
	return &VersionArchive{Version: v, entries: entries, store: s.store}, nil
}

func archivePath(a *domain.Artifact, origin, current int) string {
	switch a.Category {
	case domain.CategoryDataset:
		if origin > 0 && origin < current {
			return fmt.Sprintf("version_%d_images/%s", origin, a.Name)
		}
		return "dataset/" + a.Name
	case domain.CategoryLabel:
		if origin > 0 && origin < current {
			return fmt.Sprintf("version_%d_labels/%s", origin, a.Name)
		}
		return "labels/" + a.Name
	}
	return string(a.Category) + "/" + a.Name
}

// Filename is the suggested download name for the bundle.
func (a *VersionArchive) Filename() string {
	return fmt.Sprintf("version_v%d.zip", a.Version.VersionNumber)
}

// Stream writes the bundle to w as a deflated zip. An entry whose blob has
// gone missing on disk is skipped with a warning rather than failing the
// whole download.
func (a *VersionArchive) Stream(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range a.entries {
		rc, err := a.store.Open(e.checksum)
		if err != nil {
			if errors.Is(err, domain.ErrBlobMissing) {
				log.WithFields(log.Fields{
					"checksum": e.checksum,
					"entry":    e.name,
				}).Warn("blob missing, entry left out of archive")
				continue
			}
			return err
		}
		dst, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Deflate})
		if err != nil {
			rc.Close()
			return err
		}
		if _, err := io.Copy(dst, rc); err != nil {
			rc.Close()
			return err
		}
		rc.Close()
	}
	return zw.Close()
}
