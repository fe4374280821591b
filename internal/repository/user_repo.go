package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

// isUniqueViolation reports whether err is a postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

type postgresUserRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresUserRepository(db *sql.DB, logger *logrus.Logger) domain.UserRepository {
	return &postgresUserRepository{db: db, log: logger}
}

func (r *postgresUserRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO users (name, email, password_hash, role, verified, cart)
        VALUES ($1, $2, $3, $4, $5, '[]')
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role, user.Verified,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			r.log.Warnf("User with email %s already exists", user.Email)
			return nil, fmt.Errorf("user with email %s already exists: %w", user.Email, domain.ErrConflict)
		}
		r.log.Errorf("Failed to insert user %s: %v", user.Email, err)
		return nil, fmt.Errorf("could not create user: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	user := &domain.User{}
	query := `
        SELECT id, name, email, password_hash, role, verified, created_at, updated_at
        FROM users
        WHERE id = $1
    `
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Role, &user.Verified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get user by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve user: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}
	query := `
        SELECT id, name, email, password_hash, role, verified, created_at, updated_at
        FROM users
        WHERE email = $1
    `
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Role, &user.Verified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s: %w", email, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get user by email %s: %v", email, err)
		return nil, fmt.Errorf("could not retrieve user: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
        UPDATE users
        SET name = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING name, email, role, verified, created_at, updated_at
    `
	err := r.db.QueryRowContext(ctx, query, user.Name, user.ID).Scan(
		&user.Name, &user.Email, &user.Role, &user.Verified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", user.ID, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to update user %d: %v", user.ID, err)
		return nil, fmt.Errorf("could not update user: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) SetRole(ctx context.Context, id int64, role domain.Role) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, id)
	if err != nil {
		r.log.Errorf("Failed to set role %s for user %d: %v", role, id, err)
		return fmt.Errorf("could not update user role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *postgresUserRepository) SetVerified(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to mark user %d verified: %v", id, err)
		return fmt.Errorf("could not update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *postgresUserRepository) GetCart(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT cart FROM users WHERE id = $1`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to read cart for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve cart: %w", err)
	}

	var items []domain.CartItem
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			r.log.Errorf("Failed to decode cart for user %d: %v", userID, err)
			return nil, fmt.Errorf("could not decode cart: %w", err)
		}
	}
	return items, nil
}

func (r *postgresUserRepository) SaveCart(ctx context.Context, userID int64, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("could not encode cart: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `UPDATE users SET cart = $1, updated_at = NOW() WHERE id = $2`, raw, userID)
	if err != nil {
		r.log.Errorf("Failed to save cart for user %d: %v", userID, err)
		return fmt.Errorf("could not save cart: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return nil
}
