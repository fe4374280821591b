package domain

import (
	"context"
	"time"
)

type Product struct {
	ID          int64     `json:"id"`
	StoreID     int64     `json:"store_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	InStock     bool      `json:"in_stock"`
	ImageURL    string    `json:"image_url"`
	RatingAvg   float64   `json:"rating_avg"`
	RatingCount int       `json:"rating_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	// storeID == 0 lists across all stores.
	ListProducts(ctx context.Context, storeID int64, limit, offset int) ([]Product, error)
	UpdateProduct(ctx context.Context, product *Product) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type ProductUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	InStock     *bool    `json:"in_stock"`
	ImageURL    *string  `json:"image_url"`
}

type ProductUseCase interface {
	CreateProduct(ctx context.Context, actorID int64, actorRole Role, product *Product) (*Product, error)
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context, storeID int64, limit, offset int) ([]Product, error)
	UpdateProduct(ctx context.Context, actorID int64, actorRole Role, id int64, update ProductUpdate) (*Product, error)
	DeleteProduct(ctx context.Context, actorID int64, actorRole Role, id int64) error
}
