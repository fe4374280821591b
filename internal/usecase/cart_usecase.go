package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

type CartUseCase interface {
	GetCart(ctx context.Context, userID int64) ([]domain.CartItem, error)
	// PutItem adds the product to the cart or replaces its quantity,
	// snapshotting the product's current price.
	PutItem(ctx context.Context, userID, productID int64, quantity int) ([]domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, productID int64) ([]domain.CartItem, error)
	ClearCart(ctx context.Context, userID int64) error
}

type cartUseCase struct {
	userRepo    domain.UserRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewCartUseCase(userRepo domain.UserRepository, productRepo domain.ProductRepository, logger *logrus.Logger) CartUseCase {
	return &cartUseCase{userRepo: userRepo, productRepo: productRepo, log: logger}
}

func (uc *cartUseCase) GetCart(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	items, err := uc.userRepo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

func (uc *cartUseCase) PutItem(ctx context.Context, userID, productID int64, quantity int) ([]domain.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", domain.ErrInvalidState)
	}

	product, err := uc.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock {
		return nil, fmt.Errorf("product %q is out of stock: %w", product.Name, domain.ErrInvalidState)
	}

	items, err := uc.userRepo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			items[i].Price = product.Price
			updated = true
			break
		}
	}
	if !updated {
		items = append(items, domain.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
		})
	}

	if err := uc.userRepo.SaveCart(ctx, userID, items); err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Cart updated for user %d (product %d, qty %d)", userID, productID, quantity)
	return items, nil
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, userID, productID int64) ([]domain.CartItem, error) {
	items, err := uc.userRepo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := items[:0]
	found := false
	for _, item := range items {
		if item.ProductID == productID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return nil, fmt.Errorf("product %d not in cart: %w", productID, domain.ErrNotFound)
	}

	if err := uc.userRepo.SaveCart(ctx, userID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

func (uc *cartUseCase) ClearCart(ctx context.Context, userID int64) error {
	return uc.userRepo.SaveCart(ctx, userID, nil)
}
