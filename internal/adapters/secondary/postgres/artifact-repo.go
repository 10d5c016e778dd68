package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/core/ports/output"
)

type artifactRepo struct {
	pool *pgxpool.Pool
}

func NewArtifactRepository(pool *pgxpool.Pool) ports.ArtifactRepository {
	return &artifactRepo{pool: pool}
}

func (r *artifactRepo) BulkInsert(ctx context.Context, artifacts []*domain.Artifact) error {
	if len(artifacts) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(artifacts))
	for _, a := range artifacts {
		rows = append(rows, []any{a.ID, a.VersionID, a.Name, string(a.Category), a.Path, a.Size, a.Checksum})
	}

	db := querier(ctx, r.pool)
	if tx, ok := db.(pgx.Tx); ok {
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"artifact"},
			[]string{"id", "version_id", "name", "category", "path", "size", "checksum"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("bulk insert artifacts: %w", err)
		}
		return nil
	}

	// Outside a transaction fall back to row-at-a-time inserts.
	query := `
		INSERT INTO artifact (id, version_id, name, category, path, size, checksum)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, a := range artifacts {
		if _, err := db.Exec(ctx, query,
			a.ID, a.VersionID, a.Name, string(a.Category), a.Path, a.Size, a.Checksum); err != nil {
			return fmt.Errorf("insert artifact: %w", err)
		}
	}
	return nil
}

func (r *artifactRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	query := `
		SELECT id, version_id, name, category, path, size, checksum
		FROM artifact
		WHERE id = $1
	`
	a := &domain.Artifact{}
	err := querier(ctx, r.pool).QueryRow(ctx, query, id).
		Scan(&a.ID, &a.VersionID, &a.Name, &a.Category, &a.Path, &a.Size, &a.Checksum)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get artifact by id: %w", err)
	}
	return a, nil
}

func (r *artifactRepo) ListByVersion(ctx context.Context, versionID uuid.UUID) ([]*domain.Artifact, error) {
	query := `
		SELECT id, version_id, name, category, path, size, checksum
		FROM artifact
		WHERE version_id = $1
		ORDER BY name
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query, versionID)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	return collectArtifacts(rows)
}

func (r *artifactRepo) ChecksumsByVersion(ctx context.Context, versionID uuid.UUID, category domain.Category) (map[string]struct{}, error) {
	query := `
		SELECT DISTINCT checksum
		FROM artifact
		WHERE version_id = $1 AND category = $2
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query, versionID, string(category))
	if err != nil {
		return nil, fmt.Errorf("checksums by version: %w", err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var sum string
		if err := rows.Scan(&sum); err != nil {
			return nil, fmt.Errorf("scan checksum row: %w", err)
		}
		set[sum] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checksum rows: %w", err)
	}
	return set, nil
}

func (r *artifactRepo) FindByChecksums(ctx context.Context, category domain.Category, checksums []string) (map[string]*domain.Artifact, error) {
	found := make(map[string]*domain.Artifact, len(checksums))
	if len(checksums) == 0 {
		return found, nil
	}

	query := `
		SELECT DISTINCT ON (checksum) id, version_id, name, category, path, size, checksum
		FROM artifact
		WHERE category = $1 AND checksum = ANY($2)
		ORDER BY checksum
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query, string(category), checksums)
	if err != nil {
		return nil, fmt.Errorf("find artifacts by checksums: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a := &domain.Artifact{}
		if err := rows.Scan(&a.ID, &a.VersionID, &a.Name, &a.Category, &a.Path, &a.Size, &a.Checksum); err != nil {
			return nil, fmt.Errorf("scan artifact row: %w", err)
		}
		found[a.Checksum] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifact rows: %w", err)
	}
	return found, nil
}

func (r *artifactRepo) ChecksumOrigins(ctx context.Context, modelID uuid.UUID) (map[string]int, error) {
	query := `
		SELECT a.checksum, MIN(v.version_number)
		FROM artifact a
		JOIN model_version v ON v.id = a.version_id
		WHERE v.model_id = $1
		GROUP BY a.checksum
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query, modelID)
	if err != nil {
		return nil, fmt.Errorf("checksum origins: %w", err)
	}
	defer rows.Close()

	origins := make(map[string]int)
	for rows.Next() {
		var sum string
		var number int
		if err := rows.Scan(&sum, &number); err != nil {
			return nil, fmt.Errorf("scan origin row: %w", err)
		}
		origins[sum] = number
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate origin rows: %w", err)
	}
	return origins, nil
}

func (r *artifactRepo) CountByChecksum(ctx context.Context, checksum string) (int, error) {
	var count int
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM artifact WHERE checksum = $1`, checksum).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count artifacts by checksum: %w", err)
	}
	return count, nil
}

func (r *artifactRepo) DeleteByVersionAndCategory(ctx context.Context, versionID uuid.UUID, category domain.Category) error {
	_, err := querier(ctx, r.pool).Exec(ctx,
		`DELETE FROM artifact WHERE version_id = $1 AND category = $2`,
		versionID, string(category))
	if err != nil {
		return fmt.Errorf("delete artifacts by category: %w", err)
	}
	return nil
}

func (r *artifactRepo) BlobRefsByModel(ctx context.Context, modelID uuid.UUID) ([]domain.BlobRef, error) {
	query := `
		SELECT DISTINCT a.checksum, a.path
		FROM artifact a
		JOIN model_version v ON v.id = a.version_id
		WHERE v.model_id = $1
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query, modelID)
	if err != nil {
		return nil, fmt.Errorf("blob refs by model: %w", err)
	}
	defer rows.Close()

	var refs []domain.BlobRef
	for rows.Next() {
		var ref domain.BlobRef
		if err := rows.Scan(&ref.Checksum, &ref.Path); err != nil {
			return nil, fmt.Errorf("scan blob ref row: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blob ref rows: %w", err)
	}
	return refs, nil
}

func collectArtifacts(rows pgx.Rows) ([]*domain.Artifact, error) {
	var artifacts []*domain.Artifact
	for rows.Next() {
		a := &domain.Artifact{}
		if err := rows.Scan(&a.ID, &a.VersionID, &a.Name, &a.Category, &a.Path, &a.Size, &a.Checksum); err != nil {
			return nil, fmt.Errorf("scan artifact row: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifact rows: %w", err)
	}
	return artifacts, nil
}
