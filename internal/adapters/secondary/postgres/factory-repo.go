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

type factoryRepo struct {
	pool *pgxpool.Pool
}

func NewFactoryRepository(pool *pgxpool.Pool) ports.FactoryRepository {
	return &factoryRepo{pool: pool}
}

func (r *factoryRepo) Create(ctx context.Context, factory *domain.Factory) error {
	query := `
		INSERT INTO factory (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := querier(ctx, r.pool).Exec(ctx, query,
		factory.ID, factory.Name, factory.Description, factory.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrFactoryNameConflict
		}
		return fmt.Errorf("create factory: %w", err)
	}
	return nil
}

func (r *factoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Factory, error) {
	query := `
		SELECT id, name, description, created_at
		FROM factory
		WHERE id = $1
	`
	f := &domain.Factory{}
	err := querier(ctx, r.pool).QueryRow(ctx, query, id).
		Scan(&f.ID, &f.Name, &f.Description, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFactoryNotFound
		}
		return nil, fmt.Errorf("get factory by id: %w", err)
	}
	return f, nil
}

func (r *factoryRepo) GetByName(ctx context.Context, name string) (*domain.Factory, error) {
	query := `
		SELECT id, name, description, created_at
		FROM factory
		WHERE LOWER(name) = LOWER($1)
	`
	f := &domain.Factory{}
	err := querier(ctx, r.pool).QueryRow(ctx, query, name).
		Scan(&f.ID, &f.Name, &f.Description, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFactoryNotFound
		}
		return nil, fmt.Errorf("get factory by name: %w", err)
	}
	return f, nil
}

func (r *factoryRepo) Update(ctx context.Context, factory *domain.Factory) error {
	query := `
		UPDATE factory
		SET name = $1, description = $2
		WHERE id = $3
	`
	result, err := querier(ctx, r.pool).Exec(ctx, query,
		factory.Name, factory.Description, factory.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrFactoryNameConflict
		}
		return fmt.Errorf("update factory: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrFactoryNotFound
	}
	return nil
}

func (r *factoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM factory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete factory: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrFactoryNotFound
	}
	return nil
}

func (r *factoryRepo) List(ctx context.Context) ([]*domain.Factory, error) {
	query := `
		SELECT f.id, f.name, f.description, f.created_at,
			   COUNT(DISTINCT a.id) AS algorithms_count,
			   COUNT(DISTINCT m.id) AS models_count
		FROM factory f
		LEFT JOIN algorithm a ON a.factory_id = f.id
		LEFT JOIN model m ON m.algorithm_id = a.id
		GROUP BY f.id
		ORDER BY f.created_at DESC
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list factories: %w", err)
	}
	defer rows.Close()

	var factories []*domain.Factory
	for rows.Next() {
		f := &domain.Factory{}
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.CreatedAt,
			&f.AlgorithmsCount, &f.ModelsCount); err != nil {
			return nil, fmt.Errorf("scan factory row: %w", err)
		}
		factories = append(factories, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate factory rows: %w", err)
	}
	return factories, nil
}
