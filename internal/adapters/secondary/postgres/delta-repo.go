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

type deltaRepo struct {
	pool *pgxpool.Pool
}

func NewDeltaRepository(pool *pgxpool.Pool) ports.DeltaRepository {
	return &deltaRepo{pool: pool}
}

func (r *deltaRepo) Create(ctx context.Context, delta *domain.VersionDelta) error {
	query := `
		INSERT INTO version_delta
			(id, version_id,
			 dataset_count, dataset_new, dataset_reused, dataset_removed,
			 label_count, label_new, label_reused, label_removed,
			 new_count, reused_count, removed_count, unchanged_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`
	_, err := querier(ctx, r.pool).Exec(ctx, query,
		delta.ID, delta.VersionID,
		delta.DatasetCount, delta.DatasetNew, delta.DatasetReused, delta.DatasetRemoved,
		delta.LabelCount, delta.LabelNew, delta.LabelReused, delta.LabelRemoved,
		delta.NewCount, delta.ReusedCount, delta.RemovedCount, delta.UnchangedCount,
	)
	if err != nil {
		return fmt.Errorf("create version delta: %w", err)
	}
	return nil
}

func (r *deltaRepo) GetByVersion(ctx context.Context, versionID uuid.UUID) (*domain.VersionDelta, error) {
	query := `
		SELECT id, version_id,
			   dataset_count, dataset_new, dataset_reused, dataset_removed,
			   label_count, label_new, label_reused, label_removed,
			   new_count, reused_count, removed_count, unchanged_count
		FROM version_delta
		WHERE version_id = $1
	`
	d := &domain.VersionDelta{}
	err := querier(ctx, r.pool).QueryRow(ctx, query, versionID).Scan(
		&d.ID, &d.VersionID,
		&d.DatasetCount, &d.DatasetNew, &d.DatasetReused, &d.DatasetRemoved,
		&d.LabelCount, &d.LabelNew, &d.LabelReused, &d.LabelRemoved,
		&d.NewCount, &d.ReusedCount, &d.RemovedCount, &d.UnchangedCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeltaNotFound
		}
		return nil, fmt.Errorf("get version delta: %w", err)
	}
	return d, nil
}

func (r *deltaRepo) Update(ctx context.Context, delta *domain.VersionDelta) error {
	query := `
		UPDATE version_delta
		SET dataset_count = $1, dataset_new = $2, dataset_reused = $3, dataset_removed = $4,
			label_count = $5, label_new = $6, label_reused = $7, label_removed = $8,
			new_count = $9, reused_count = $10, removed_count = $11, unchanged_count = $12
		WHERE version_id = $13
	`
	result, err := querier(ctx, r.pool).Exec(ctx, query,
		delta.DatasetCount, delta.DatasetNew, delta.DatasetReused, delta.DatasetRemoved,
		delta.LabelCount, delta.LabelNew, delta.LabelReused, delta.LabelRemoved,
		delta.NewCount, delta.ReusedCount, delta.RemovedCount, delta.UnchangedCount,
		delta.VersionID,
	)
	if err != nil {
		return fmt.Errorf("update version delta: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrDeltaNotFound
	}
	return nil
}
