package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"artifact-registry-service/internal/core/domain"
	"artifact-registry-service/internal/core/ports/output"
)

type modelRepo struct {
	pool *pgxpool.Pool
}

func NewModelRepository(pool *pgxpool.Pool) ports.ModelRepository {
	return &modelRepo{pool: pool}
}

func (r *modelRepo) Create(ctx context.Context, model *domain.Model) error {
	query := `
		INSERT INTO model (id, algorithm_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := querier(ctx, r.pool).Exec(ctx, query,
		model.ID, model.AlgorithmID, model.Name, model.Description, model.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrModelNameConflict
		}
		return fmt.Errorf("create model: %w", err)
	}
	return nil
}

func (r *modelRepo) GetByID(ctx context.Context, algorithmID uuid.UUID, id uuid.UUID) (*domain.Model, error) {
	query := `
		SELECT id, algorithm_id, name, description, created_at
		FROM model
		WHERE id = $1 AND algorithm_id = $2
	`
	m := &domain.Model{}
	err := querier(ctx, r.pool).QueryRow(ctx, query, id, algorithmID).
		Scan(&m.ID, &m.AlgorithmID, &m.Name, &m.Description, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get model by id: %w", err)
	}
	return m, nil
}

func (r *modelRepo) GetByName(ctx context.Context, algorithmID uuid.UUID, name string) (*domain.Model, error) {
	query := `
		SELECT id, algorithm_id, name, description, created_at
		FROM model
		WHERE algorithm_id = $1 AND LOWER(name) = LOWER($2)
	`
	m := &domain.Model{}
	err := querier(ctx, r.pool).QueryRow(ctx, query, algorithmID, name).
		Scan(&m.ID, &m.AlgorithmID, &m.Name, &m.Description, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get model by name: %w", err)
	}
	return m, nil
}

func (r *modelRepo) Update(ctx context.Context, model *domain.Model) error {
	query := `
		UPDATE model
		SET name = $1, description = $2
		WHERE id = $3
	`
	result, err := querier(ctx, r.pool).Exec(ctx, query,
		model.Name, model.Description, model.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrModelNameConflict
		}
		return fmt.Errorf("update model: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func (r *modelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM model WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func (r *modelRepo) ListByAlgorithm(ctx context.Context, algorithmID uuid.UUID) ([]*domain.Model, error) {
	query := `
		SELECT m.id, m.algorithm_id, m.name, m.description, m.created_at,
			   COUNT(v.id) AS versions_count
		FROM model m
		LEFT JOIN model_version v ON v.model_id = m.id
		WHERE m.algorithm_id = $1
		GROUP BY m.id
		ORDER BY m.created_at DESC
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query, algorithmID)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var models []*domain.Model
	for rows.Next() {
		m := &domain.Model{}
		if err := rows.Scan(&m.ID, &m.AlgorithmID, &m.Name, &m.Description, &m.CreatedAt,
			&m.VersionsCount); err != nil {
			return nil, fmt.Errorf("scan model row: %w", err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model rows: %w", err)
	}
	return models, nil
}

// Lock takes a row-level lock on the model, serializing concurrent version
// creation and checkout for the same model within their transactions.
func (r *modelRepo) Lock(ctx context.Context, id uuid.UUID) error {
	var locked uuid.UUID
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT id FROM model WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrModelNotFound
		}
		return fmt.Errorf("lock model: %w", err)
	}
	return nil
}
