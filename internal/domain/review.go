package domain

import (
	"context"
	"time"
)

type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReviewRepository interface {
	// CreateReview inserts the review and refreshes the product's rating
	// aggregate in the same transaction.
	CreateReview(ctx context.Context, review *Review) (*Review, error)
	GetReviewByID(ctx context.Context, id int64) (*Review, error)
	UpdateReview(ctx context.Context, review *Review) (*Review, error)
	DeleteReview(ctx context.Context, id int64) error
	ListReviewsByProduct(ctx context.Context, productID int64, limit, offset int) ([]Review, error)
}

type ReviewUseCase interface {
	CreateReview(ctx context.Context, userID int64, productID int64, rating int, comment string) (*Review, error)
	UpdateReview(ctx context.Context, actorID int64, actorRole Role, id int64, rating int, comment string) (*Review, error)
	DeleteReview(ctx context.Context, actorID int64, actorRole Role, id int64) error
	ListReviewsByProduct(ctx context.Context, productID int64, limit, offset int) ([]Review, error)
}
