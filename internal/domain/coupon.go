package domain

import (
	"context"
	"time"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

type Coupon struct {
	ID           int64        `json:"id"`
	Code         string       `json:"code"`
	Discount     float64      `json:"discount"`
	DiscountType DiscountType `json:"discount_type"`
	IsActive     bool         `json:"is_active"`
	ExpiresAt    time.Time    `json:"expires_at"`
	// UsageLimit 0 means unlimited. UsageCount never exceeds UsageLimit
	// when a limit is set; the repository enforces that in SQL.
	UsageLimit int       `json:"usage_limit"`
	UsageCount int       `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Apply returns the subtotal after the discount. Percentage multiplies the
// remaining fraction; fixed subtracts and floors at zero.
func (c *Coupon) Apply(subtotal float64) float64 {
	switch c.DiscountType {
	case DiscountPercentage:
		return subtotal * (1 - c.Discount/100)
	case DiscountFixed:
		if c.Discount >= subtotal {
			return 0
		}
		return subtotal - c.Discount
	}
	return subtotal
}

// Usable reports whether the coupon can still be applied at the given time.
func (c *Coupon) Usable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ExpiresAt.Before(now) {
		return false
	}
	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		return false
	}
	return true
}

type CouponRepository interface {
	CreateCoupon(ctx context.Context, coupon *Coupon) (*Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (*Coupon, error)
	ListCoupons(ctx context.Context, limit, offset int) ([]Coupon, error)
	UpdateCoupon(ctx context.Context, coupon *Coupon) (*Coupon, error)
	DeleteCoupon(ctx context.Context, code string) error
	// IncrementUsage bumps usage_count by one atomically at the store layer,
	// guarded by the usage limit. Returns ErrInvalidState when the limit is
	// already exhausted.
	IncrementUsage(ctx context.Context, code string) error
}

type CouponUseCase interface {
	CreateCoupon(ctx context.Context, actorRole Role, coupon *Coupon) (*Coupon, error)
	GetCouponByCode(ctx context.Context, actorRole Role, code string) (*Coupon, error)
	ListCoupons(ctx context.Context, actorRole Role, limit, offset int) ([]Coupon, error)
	UpdateCoupon(ctx context.Context, actorRole Role, coupon *Coupon) (*Coupon, error)
	DeleteCoupon(ctx context.Context, actorRole Role, code string) error
	// PreviewCoupon validates a code against a subtotal without consuming usage.
	PreviewCoupon(ctx context.Context, code string, subtotal float64) (float64, error)
}
