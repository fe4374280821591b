package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

type postgresReviewRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresReviewRepository(db *sql.DB, logger *logrus.Logger) domain.ReviewRepository {
	return &postgresReviewRepository{db: db, log: logger}
}

// refreshProductRating recomputes the product's rating aggregate from the
// reviews table inside the caller's transaction.
func (r *postgresReviewRepository) refreshProductRating(ctx context.Context, tx *sql.Tx, productID int64) error {
	query := `
        UPDATE products
        SET rating_avg   = COALESCE((SELECT AVG(rating) FROM reviews WHERE product_id = $1), 0),
            rating_count = (SELECT COUNT(*) FROM reviews WHERE product_id = $1),
            updated_at   = NOW()
        WHERE id = $1
    `
	if _, err := tx.ExecContext(ctx, query, productID); err != nil {
		return fmt.Errorf("could not refresh product rating: %w", err)
	}
	return nil
}

func (r *postgresReviewRepository) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
        INSERT INTO reviews (user_id, product_id, rating, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `
	err = tx.QueryRowContext(ctx, query,
		review.UserID, review.ProductID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %d already reviewed product %d: %w", review.UserID, review.ProductID, domain.ErrConflict)
		}
		r.log.Errorf("Failed to insert review for product %d: %v", review.ProductID, err)
		return nil, fmt.Errorf("could not create review: %w", err)
	}

	if err = r.refreshProductRating(ctx, tx, review.ProductID); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return review, nil
}

func (r *postgresReviewRepository) GetReviewByID(ctx context.Context, id int64) (*domain.Review, error) {
	review := &domain.Review{}
	query := `
        SELECT id, user_id, product_id, rating, comment, created_at, updated_at
        FROM reviews
        WHERE id = $1
    `
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&review.ID, &review.UserID, &review.ProductID, &review.Rating,
		&review.Comment, &review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("review %d: %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get review %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve review: %w", err)
	}
	return review, nil
}

func (r *postgresReviewRepository) UpdateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
        UPDATE reviews
        SET rating = $1, comment = $2, updated_at = NOW()
        WHERE id = $3
        RETURNING user_id, product_id, created_at, updated_at
    `
	err = tx.QueryRowContext(ctx, query, review.Rating, review.Comment, review.ID).Scan(
		&review.UserID, &review.ProductID, &review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("review %d: %w", review.ID, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to update review %d: %v", review.ID, err)
		return nil, fmt.Errorf("could not update review: %w", err)
	}

	if err = r.refreshProductRating(ctx, tx, review.ProductID); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return review, nil
}

func (r *postgresReviewRepository) DeleteReview(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var productID int64
	err = tx.QueryRowContext(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING product_id`, id).Scan(&productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("review %d: %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to delete review %d: %v", id, err)
		return fmt.Errorf("could not delete review: %w", err)
	}

	if err = r.refreshProductRating(ctx, tx, productID); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *postgresReviewRepository) ListReviewsByProduct(ctx context.Context, productID int64, limit, offset int) ([]domain.Review, error) {
	query := `
        SELECT id, user_id, product_id, rating, comment, created_at, updated_at
        FROM reviews
        WHERE product_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.QueryContext(ctx, query, productID, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list reviews for product %d: %v", productID, err)
		return nil, fmt.Errorf("could not retrieve reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}
