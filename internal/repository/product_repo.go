package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{db: db, log: logger}
}

const productColumns = `id, store_id, name, description, price, in_stock, image_url, rating_avg, rating_count, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }, p *domain.Product) error {
	return row.Scan(
		&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.InStock,
		&p.ImageURL, &p.RatingAvg, &p.RatingCount, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (store_id, name, description, price, in_stock, image_url)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, rating_avg, rating_count, created_at, updated_at
    `
	err := r.db.QueryRowContext(ctx, query,
		product.StoreID, product.Name, product.Description, product.Price, product.InStock, product.ImageURL,
	).Scan(&product.ID, &product.RatingAvg, &product.RatingCount, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		r.log.Errorf("Failed to insert product %s for store %d: %v", product.Name, product.StoreID, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	product := &domain.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if err := scanProduct(r.db.QueryRowContext(ctx, query, id), product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve product: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, storeID int64, limit, offset int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
        FROM products
        WHERE ($1 = 0 OR store_id = $1)
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, storeID, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list products (store %d): %v", storeID, err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        UPDATE products
        SET name = $1, description = $2, price = $3, in_stock = $4, image_url = $5, updated_at = NOW()
        WHERE id = $6
        RETURNING store_id, rating_avg, rating_count, created_at, updated_at
    `
	err := r.db.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.InStock, product.ImageURL, product.ID,
	).Scan(&product.StoreID, &product.RatingAvg, &product.RatingCount, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", product.ID, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to update product %d: %v", product.ID, err)
		return nil, fmt.Errorf("could not update product: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete product %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
