package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

var _ domain.ReviewUseCase = (*reviewUseCase)(nil)

type reviewUseCase struct {
	reviewRepo  domain.ReviewRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewReviewUseCase(reviewRepo domain.ReviewRepository, productRepo domain.ProductRepository, logger *logrus.Logger) domain.ReviewUseCase {
	return &reviewUseCase{reviewRepo: reviewRepo, productRepo: productRepo, log: logger}
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5: %w", domain.ErrInvalidState)
	}
	return nil
}

func (uc *reviewUseCase) CreateReview(ctx context.Context, userID int64, productID int64, rating int, comment string) (*domain.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if _, err := uc.productRepo.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	review, err := uc.reviewRepo.CreateReview(ctx, &domain.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Review %d created for product %d by user %d", review.ID, productID, userID)
	return review, nil
}

func (uc *reviewUseCase) UpdateReview(ctx context.Context, actorID int64, actorRole domain.Role, id int64, rating int, comment string) (*domain.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}

	review, err := uc.reviewRepo.GetReviewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorRole != domain.RoleAdmin && review.UserID != actorID {
		return nil, fmt.Errorf("only the author or an admin may update review %d: %w", id, domain.ErrAccessDenied)
	}

	review.Rating = rating
	review.Comment = comment
	return uc.reviewRepo.UpdateReview(ctx, review)
}

func (uc *reviewUseCase) DeleteReview(ctx context.Context, actorID int64, actorRole domain.Role, id int64) error {
	review, err := uc.reviewRepo.GetReviewByID(ctx, id)
	if err != nil {
		return err
	}
	if actorRole != domain.RoleAdmin && review.UserID != actorID {
		return fmt.Errorf("only the author or an admin may delete review %d: %w", id, domain.ErrAccessDenied)
	}
	return uc.reviewRepo.DeleteReview(ctx, id)
}

func (uc *reviewUseCase) ListReviewsByProduct(ctx context.Context, productID int64, limit, offset int) ([]domain.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return uc.reviewRepo.ListReviewsByProduct(ctx, productID, limit, offset)
}
