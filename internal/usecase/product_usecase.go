package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/cache"
	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

var _ domain.ProductUseCase = (*productUseCase)(nil)

const productCacheTTL = 5 * time.Minute

type productUseCase struct {
	productRepo domain.ProductRepository
	storeRepo   domain.StoreRepository
	cache       cache.Cache
	log         *logrus.Logger
}

func NewProductUseCase(productRepo domain.ProductRepository, storeRepo domain.StoreRepository, c cache.Cache, logger *logrus.Logger) domain.ProductUseCase {
	return &productUseCase{productRepo: productRepo, storeRepo: storeRepo, cache: c, log: logger}
}

func (uc *productUseCase) cacheKey(id int64) string {
	return uc.cache.GenerateKey("product", strconv.FormatInt(id, 10))
}

// authorizeStoreWrite admits admins and the owner of the product's store.
func (uc *productUseCase) authorizeStoreWrite(ctx context.Context, actorID int64, actorRole domain.Role, storeID int64) error {
	if actorRole == domain.RoleAdmin {
		return nil
	}
	store, err := uc.storeRepo.GetStoreByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store.OwnerID != actorID {
		return fmt.Errorf("only the store owner or an admin may manage products of store %d: %w", storeID, domain.ErrAccessDenied)
	}
	return nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, actorID int64, actorRole domain.Role, product *domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("product name cannot be empty: %w", domain.ErrInvalidState)
	}
	if product.Price <= 0 {
		return nil, fmt.Errorf("product price must be positive: %w", domain.ErrInvalidState)
	}
	if err := uc.authorizeStoreWrite(ctx, actorID, actorRole, product.StoreID); err != nil {
		return nil, err
	}

	created, err := uc.productRepo.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Product %d created in store %d", created.ID, created.StoreID)
	return created, nil
}

// GetProductByID reads through the cache. Cache failures are logged and
// ignored; the database stays authoritative.
func (uc *productUseCase) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	key := uc.cacheKey(id)
	if cached, err := uc.cache.Get(ctx, key); err != nil {
		uc.log.Warnf("Use Case: Product cache read failed for %d: %v", id, err)
	} else if cached != "" {
		var product domain.Product
		if err := json.Unmarshal([]byte(cached), &product); err == nil {
			return &product, nil
		}
	}

	product, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(product); err == nil {
		if err := uc.cache.Set(ctx, key, raw, productCacheTTL); err != nil {
			uc.log.Warnf("Use Case: Product cache write failed for %d: %v", id, err)
		}
	}
	return product, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, storeID int64, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return uc.productRepo.ListProducts(ctx, storeID, limit, offset)
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, actorID int64, actorRole domain.Role, id int64, update domain.ProductUpdate) (*domain.Product, error) {
	product, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeStoreWrite(ctx, actorID, actorRole, product.StoreID); err != nil {
		return nil, err
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, fmt.Errorf("product name cannot be empty: %w", domain.ErrInvalidState)
		}
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Price != nil {
		if *update.Price <= 0 {
			return nil, fmt.Errorf("product price must be positive: %w", domain.ErrInvalidState)
		}
		product.Price = *update.Price
	}
	if update.InStock != nil {
		product.InStock = *update.InStock
	}
	if update.ImageURL != nil {
		product.ImageURL = *update.ImageURL
	}

	updated, err := uc.productRepo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Del(ctx, uc.cacheKey(id)); err != nil {
		uc.log.Warnf("Use Case: Product cache invalidation failed for %d: %v", id, err)
	}
	return updated, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, actorID int64, actorRole domain.Role, id int64) error {
	product, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.authorizeStoreWrite(ctx, actorID, actorRole, product.StoreID); err != nil {
		return err
	}
	if err := uc.productRepo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	if err := uc.cache.Del(ctx, uc.cacheKey(id)); err != nil {
		uc.log.Warnf("Use Case: Product cache invalidation failed for %d: %v", id, err)
	}
	return nil
}
