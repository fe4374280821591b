package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

type postgresStoreRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresStoreRepository(db *sql.DB, logger *logrus.Logger) domain.StoreRepository {
	return &postgresStoreRepository{db: db, log: logger}
}

func (r *postgresStoreRepository) CreateStore(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	query := `
        INSERT INTO stores (owner_id, name, username, description)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRowContext(ctx, query,
		store.OwnerID, store.Name, store.Username, store.Description,
	).Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			r.log.Warnf("Store username %s already taken", store.Username)
			return nil, fmt.Errorf("store username %q already taken: %w", store.Username, domain.ErrConflict)
		}
		r.log.Errorf("Failed to insert store %s: %v", store.Username, err)
		return nil, fmt.Errorf("could not create store: %w", err)
	}
	return store, nil
}

func (r *postgresStoreRepository) GetStoreByID(ctx context.Context, id int64) (*domain.Store, error) {
	store := &domain.Store{}
	query := `
        SELECT id, owner_id, name, username, description, created_at, updated_at
        FROM stores
        WHERE id = $1
    `
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&store.ID, &store.OwnerID, &store.Name, &store.Username,
		&store.Description, &store.CreatedAt, &store.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store %d: %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get store by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve store: %w", err)
	}
	return store, nil
}

func (r *postgresStoreRepository) ListStores(ctx context.Context, limit, offset int) ([]domain.Store, error) {
	query := `
        SELECT id, owner_id, name, username, description, created_at, updated_at
        FROM stores
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list stores: %v", err)
		return nil, fmt.Errorf("could not retrieve stores: %w", err)
	}
	defer rows.Close()

	stores := []domain.Store{}
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Username, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning store: %w", err)
		}
		stores = append(stores, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stores: %w", err)
	}
	return stores, nil
}

func (r *postgresStoreRepository) UpdateStore(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	query := `
        UPDATE stores
        SET name = $1, description = $2, updated_at = NOW()
        WHERE id = $3
        RETURNING owner_id, username, created_at, updated_at
    `
	err := r.db.QueryRowContext(ctx, query, store.Name, store.Description, store.ID).Scan(
		&store.OwnerID, &store.Username, &store.CreatedAt, &store.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store %d: %w", store.ID, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to update store %d: %v", store.ID, err)
		return nil, fmt.Errorf("could not update store: %w", err)
	}
	return store, nil
}

func (r *postgresStoreRepository) DeleteStore(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete store %d: %v", id, err)
		return fmt.Errorf("could not delete store: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
