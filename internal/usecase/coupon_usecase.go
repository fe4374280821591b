package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

var _ domain.CouponUseCase = (*couponUseCase)(nil)

type couponUseCase struct {
	couponRepo domain.CouponRepository
	log        *logrus.Logger
}

func NewCouponUseCase(repo domain.CouponRepository, logger *logrus.Logger) domain.CouponUseCase {
	return &couponUseCase{couponRepo: repo, log: logger}
}

func requireAdmin(actorRole domain.Role) error {
	if actorRole != domain.RoleAdmin {
		return fmt.Errorf("coupon management requires admin: %w", domain.ErrAccessDenied)
	}
	return nil
}

func validateCoupon(coupon *domain.Coupon) error {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	if coupon.Code == "" {
		return fmt.Errorf("coupon code cannot be empty: %w", domain.ErrInvalidState)
	}
	if coupon.Discount <= 0 {
		return fmt.Errorf("discount must be positive: %w", domain.ErrInvalidState)
	}
	switch coupon.DiscountType {
	case domain.DiscountPercentage:
		if coupon.Discount > 100 {
			return fmt.Errorf("percentage discount cannot exceed 100: %w", domain.ErrInvalidState)
		}
	case domain.DiscountFixed:
	default:
		return fmt.Errorf("unknown discount type %q: %w", coupon.DiscountType, domain.ErrInvalidState)
	}
	if coupon.UsageLimit < 0 {
		return fmt.Errorf("usage limit cannot be negative: %w", domain.ErrInvalidState)
	}
	return nil
}

func (uc *couponUseCase) CreateCoupon(ctx context.Context, actorRole domain.Role, coupon *domain.Coupon) (*domain.Coupon, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}
	if err := validateCoupon(coupon); err != nil {
		return nil, err
	}
	created, err := uc.couponRepo.CreateCoupon(ctx, coupon)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Coupon %s created", created.Code)
	return created, nil
}

func (uc *couponUseCase) GetCouponByCode(ctx context.Context, actorRole domain.Role, code string) (*domain.Coupon, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}
	return uc.couponRepo.GetCouponByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

func (uc *couponUseCase) ListCoupons(ctx context.Context, actorRole domain.Role, limit, offset int) ([]domain.Coupon, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return uc.couponRepo.ListCoupons(ctx, limit, offset)
}

func (uc *couponUseCase) UpdateCoupon(ctx context.Context, actorRole domain.Role, coupon *domain.Coupon) (*domain.Coupon, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}
	if err := validateCoupon(coupon); err != nil {
		return nil, err
	}
	return uc.couponRepo.UpdateCoupon(ctx, coupon)
}

func (uc *couponUseCase) DeleteCoupon(ctx context.Context, actorRole domain.Role, code string) error {
	if err := requireAdmin(actorRole); err != nil {
		return err
	}
	return uc.couponRepo.DeleteCoupon(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// PreviewCoupon reports the discounted subtotal without consuming usage.
func (uc *couponUseCase) PreviewCoupon(ctx context.Context, code string, subtotal float64) (float64, error) {
	coupon, err := uc.couponRepo.GetCouponByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return 0, err
	}
	if !coupon.Usable(time.Now()) {
		return 0, fmt.Errorf("coupon %q is inactive, expired or exhausted: %w", coupon.Code, domain.ErrInvalidState)
	}
	return coupon.Apply(subtotal), nil
}
