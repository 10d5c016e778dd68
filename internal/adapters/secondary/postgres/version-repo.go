package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/core/ports/output"
)

const versionColumns = `
	id, model_id, version_number, note, is_active, created_at,
	accuracy, "precision", recall, f1_score, tp, tn, fp, fn, params`

type versionRepo struct {
	pool *pgxpool.Pool
}

func NewVersionRepository(pool *pgxpool.Pool) ports.VersionRepository {
	return &versionRepo{pool: pool}
}

func (r *versionRepo) Create(ctx context.Context, version *domain.Version) error {
	paramsJSON, err := json.Marshal(version.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}

	query := `
		INSERT INTO model_version
			(id, model_id, version_number, note, is_active, created_at,
			 accuracy, "precision", recall, f1_score, tp, tn, fp, fn, params)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`
	_, err = querier(ctx, r.pool).Exec(ctx, query,
		version.ID, version.ModelID, version.VersionNumber, version.Note,
		version.IsActive, version.CreatedAt,
		version.Metrics.Accuracy, version.Metrics.Precision, version.Metrics.Recall,
		version.Metrics.F1Score, version.Metrics.TP, version.Metrics.TN,
		version.Metrics.FP, version.Metrics.FN, paramsJSON,
	)
	if err != nil {
		return fmt.Errorf("create version: %w", err)
	}
	return nil
}

func (r *versionRepo) GetByID(ctx context.Context, modelID uuid.UUID, id uuid.UUID) (*domain.Version, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM model_version
		WHERE id = $1 AND model_id = $2
	`, versionColumns)
	v, err := scanVersion(querier(ctx, r.pool).QueryRow(ctx, query, id, modelID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get version by id: %w", err)
	}
	return v, nil
}

func (r *versionRepo) GetByNumber(ctx context.Context, modelID uuid.UUID, number int) (*domain.Version, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM model_version
		WHERE model_id = $1 AND version_number = $2
	`, versionColumns)
	v, err := scanVersion(querier(ctx, r.pool).QueryRow(ctx, query, modelID, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get version by number: %w", err)
	}
	return v, nil
}

func (r *versionRepo) GetLatest(ctx context.Context, modelID uuid.UUID) (*domain.Version, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM model_version
		WHERE model_id = $1
		ORDER BY version_number DESC
		LIMIT 1
	`, versionColumns)
	v, err := scanVersion(querier(ctx, r.pool).QueryRow(ctx, query, modelID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get latest version: %w", err)
	}
	return v, nil
}

func (r *versionRepo) MaxVersionNumber(ctx context.Context, modelID uuid.UUID) (int, error) {
	var max int
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT COALESCE(MAX(version_number), 0) FROM model_version WHERE model_id = $1`,
		modelID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max version number: %w", err)
	}
	return max, nil
}

func (r *versionRepo) DeactivateAll(ctx context.Context, modelID uuid.UUID) error {
	_, err := querier(ctx, r.pool).Exec(ctx,
		`UPDATE model_version SET is_active = FALSE WHERE model_id = $1 AND is_active`,
		modelID)
	if err != nil {
		return fmt.Errorf("deactivate versions: %w", err)
	}
	return nil
}

func (r *versionRepo) Activate(ctx context.Context, id uuid.UUID) error {
	result, err := querier(ctx, r.pool).Exec(ctx,
		`UPDATE model_version SET is_active = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("activate version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func (r *versionRepo) Update(ctx context.Context, version *domain.Version) error {
	paramsJSON, err := json.Marshal(version.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}

	query := `
		UPDATE model_version
		SET note = $1, accuracy = $2, "precision" = $3, recall = $4, f1_score = $5,
			tp = $6, tn = $7, fp = $8, fn = $9, params = $10
		WHERE id = $11
	`
	result, err := querier(ctx, r.pool).Exec(ctx, query,
		version.Note, version.Metrics.Accuracy, version.Metrics.Precision,
		version.Metrics.Recall, version.Metrics.F1Score,
		version.Metrics.TP, version.Metrics.TN, version.Metrics.FP, version.Metrics.FN,
		paramsJSON, version.ID,
	)
	if err != nil {
		return fmt.Errorf("update version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func (r *versionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := querier(ctx, r.pool).Exec(ctx,
		`DELETE FROM model_version WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func (r *versionRepo) ListByModel(ctx context.Context, modelID uuid.UUID) ([]*domain.Version, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM model_version
		WHERE model_id = $1
		ORDER BY version_number DESC
	`, versionColumns)
	rows, err := querier(ctx, r.pool).Query(ctx, query, modelID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []*domain.Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan version row: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate version rows: %w", err)
	}
	return versions, nil
}

func scanVersion(row pgx.Row) (*domain.Version, error) {
	v := &domain.Version{}
	var paramsJSON []byte

	err := row.Scan(
		&v.ID, &v.ModelID, &v.VersionNumber, &v.Note, &v.IsActive, &v.CreatedAt,
		&v.Metrics.Accuracy, &v.Metrics.Precision, &v.Metrics.Recall, &v.Metrics.F1Score,
		&v.Metrics.TP, &v.Metrics.TN, &v.Metrics.FP, &v.Metrics.FN, &paramsJSON,
	)
	if err != nil {
		return nil, err
	}

	if len(paramsJSON) > 0 {
		if err := json.Unmarshal(paramsJSON, &v.Params); err != nil {
			return nil, fmt.Errorf("unmarshal params: %w", err)
		}
	}
	return v, nil
}
