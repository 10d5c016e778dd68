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

type algorithmRepo struct {
	pool *pgxpool.Pool
}

func NewAlgorithmRepository(pool *pgxpool.Pool) ports.AlgorithmRepository {
	return &algorithmRepo{pool: pool}
}

func (r *algorithmRepo) Create(ctx context.Context, algorithm *domain.Algorithm) error {
	query := `
		INSERT INTO algorithm (id, factory_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := querier(ctx, r.pool).Exec(ctx, query,
		algorithm.ID, algorithm.FactoryID, algorithm.Name, algorithm.Description, algorithm.CreatedAt)
	if err != nil {
		return fmt.Errorf("create algorithm: %w", err)
	}
	return nil
}

func (r *algorithmRepo) GetByID(ctx context.Context, factoryID uuid.UUID, id uuid.UUID) (*domain.Algorithm, error) {
	query := `
		SELECT id, factory_id, name, description, created_at
		FROM algorithm
		WHERE id = $1 AND factory_id = $2
	`
	a := &domain.Algorithm{}
	err := querier(ctx, r.pool).QueryRow(ctx, query, id, factoryID).
		Scan(&a.ID, &a.FactoryID, &a.Name, &a.Description, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAlgorithmNotFound
		}
		return nil, fmt.Errorf("get algorithm by id: %w", err)
	}
	return a, nil
}

func (r *algorithmRepo) Update(ctx context.Context, algorithm *domain.Algorithm) error {
	query := `
		UPDATE algorithm
		SET name = $1, description = $2
		WHERE id = $3
	`
	result, err := querier(ctx, r.pool).Exec(ctx, query,
		algorithm.Name, algorithm.Description, algorithm.ID)
	if err != nil {
		return fmt.Errorf("update algorithm: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAlgorithmNotFound
	}
	return nil
}

func (r *algorithmRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM algorithm WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete algorithm: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAlgorithmNotFound
	}
	return nil
}

func (r *algorithmRepo) ListByFactory(ctx context.Context, factoryID uuid.UUID) ([]*domain.Algorithm, error) {
	query := `
		SELECT a.id, a.factory_id, a.name, a.description, a.created_at,
			   COUNT(m.id) AS models_count
		FROM algorithm a
		LEFT JOIN model m ON m.algorithm_id = a.id
		WHERE a.factory_id = $1
		GROUP BY a.id
		ORDER BY a.created_at DESC
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query, factoryID)
	if err != nil {
		return nil, fmt.Errorf("list algorithms: %w", err)
	}
	defer rows.Close()

	var algorithms []*domain.Algorithm
	for rows.Next() {
		a := &domain.Algorithm{}
		if err := rows.Scan(&a.ID, &a.FactoryID, &a.Name, &a.Description, &a.CreatedAt,
			&a.ModelsCount); err != nil {
			return nil, fmt.Errorf("scan algorithm row: %w", err)
		}
		algorithms = append(algorithms, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate algorithm rows: %w", err)
	}
	return algorithms, nil
}
