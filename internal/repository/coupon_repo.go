package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

type postgresCouponRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCouponRepository(db *sql.DB, logger *logrus.Logger) domain.CouponRepository {
	return &postgresCouponRepository{db: db, log: logger}
}

const couponColumns = `id, code, discount, discount_type, is_active, expires_at, usage_limit, usage_count, created_at, updated_at`

func scanCoupon(row interface{ Scan(...interface{}) error }, c *domain.Coupon) error {
	return row.Scan(
		&c.ID, &c.Code, &c.Discount, &c.DiscountType, &c.IsActive,
		&c.ExpiresAt, &c.UsageLimit, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *postgresCouponRepository) CreateCoupon(ctx context.Context, coupon *domain.Coupon) (*domain.Coupon, error) {
	query := `
        INSERT INTO coupons (code, discount, discount_type, is_active, expires_at, usage_limit)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, usage_count, created_at, updated_at
    `
	err := r.db.QueryRowContext(ctx, query,
		coupon.Code, coupon.Discount, coupon.DiscountType, coupon.IsActive, coupon.ExpiresAt, coupon.UsageLimit,
	).Scan(&coupon.ID, &coupon.UsageCount, &coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			r.log.Warnf("Coupon code %s already exists", coupon.Code)
			return nil, fmt.Errorf("coupon code %q already exists: %w", coupon.Code, domain.ErrConflict)
		}
		r.log.Errorf("Failed to insert coupon %s: %v", coupon.Code, err)
		return nil, fmt.Errorf("could not create coupon: %w", err)
	}
	return coupon, nil
}

func (r *postgresCouponRepository) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	coupon := &domain.Coupon{}
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`
	if err := scanCoupon(r.db.QueryRowContext(ctx, query, code), coupon); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("coupon %q: %w", code, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get coupon %s: %v", code, err)
		return nil, fmt.Errorf("could not retrieve coupon: %w", err)
	}
	return coupon, nil
}

func (r *postgresCouponRepository) ListCoupons(ctx context.Context, limit, offset int) ([]domain.Coupon, error) {
	query := `SELECT ` + couponColumns + `
        FROM coupons
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list coupons: %v", err)
		return nil, fmt.Errorf("could not retrieve coupons: %w", err)
	}
	defer rows.Close()

	coupons := []domain.Coupon{}
	for rows.Next() {
		var c domain.Coupon
		if err := scanCoupon(rows, &c); err != nil {
			return nil, fmt.Errorf("error scanning coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}
	return coupons, nil
}

func (r *postgresCouponRepository) UpdateCoupon(ctx context.Context, coupon *domain.Coupon) (*domain.Coupon, error) {
	query := `
        UPDATE coupons
        SET discount = $1, discount_type = $2, is_active = $3, expires_at = $4, usage_limit = $5, updated_at = NOW()
        WHERE code = $6
        RETURNING id, usage_count, created_at, updated_at
    `
	err := r.db.QueryRowContext(ctx, query,
		coupon.Discount, coupon.DiscountType, coupon.IsActive, coupon.ExpiresAt, coupon.UsageLimit, coupon.Code,
	).Scan(&coupon.ID, &coupon.UsageCount, &coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("coupon %q: %w", coupon.Code, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to update coupon %s: %v", coupon.Code, err)
		return nil, fmt.Errorf("could not update coupon: %w", err)
	}
	return coupon, nil
}

func (r *postgresCouponRepository) DeleteCoupon(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE code = $1`, code)
	if err != nil {
		r.log.Errorf("Failed to delete coupon %s: %v", code, err)
		return fmt.Errorf("could not delete coupon: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("coupon %q: %w", code, domain.ErrNotFound)
	}
	return nil
}

// IncrementUsage performs the increment and the limit check in one statement
// so concurrent applications can never push usage_count past usage_limit.
func (r *postgresCouponRepository) IncrementUsage(ctx context.Context, code string) error {
	query := `
        UPDATE coupons
        SET usage_count = usage_count + 1, updated_at = NOW()
        WHERE code = $1 AND (usage_limit = 0 OR usage_count < usage_limit)
    `
	res, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		r.log.Errorf("Failed to increment usage for coupon %s: %v", code, err)
		return fmt.Errorf("could not increment coupon usage: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("coupon %q usage limit reached: %w", code, domain.ErrInvalidState)
	}
	return nil
}
