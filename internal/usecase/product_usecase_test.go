package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

// fakeCache is an in-memory stand-in for the redis cache, TTLs ignored.
type fakeCache struct {
	data map[string]string
	sets int
	gets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	default:
		c.data[key] = fmt.Sprint(v)
	}
	c.sets++
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.gets++
	return c.data[key], nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) GenerateKey(operation, key string) string {
	return "test:" + operation + ":" + key
}

func newProductTestEnv(t *testing.T) (domain.ProductUseCase, *fakeProductRepo, *fakeStoreRepo, *fakeCache, *domain.Store) {
	t.Helper()
	products := newFakeProductRepo()
	stores := newFakeStoreRepo()
	c := newFakeCache()
	uc := NewProductUseCase(products, stores, c, testLogger())

	store, err := stores.CreateStore(context.Background(), &domain.Store{
		OwnerID: 1, Name: "Shop", Username: "shop",
	})
	require.NoError(t, err)
	return uc, products, stores, c, store
}

func TestCreateProductAuthorization(t *testing.T) {
	uc, _, _, _, store := newProductTestEnv(t)
	ctx := context.Background()

	product := &domain.Product{StoreID: store.ID, Name: "Lamp", Price: 40, InStock: true}

	_, err := uc.CreateProduct(ctx, 99, domain.RoleSeller, product)
	assert.ErrorIs(t, err, domain.ErrAccessDenied, "non-owner seller rejected")

	created, err := uc.CreateProduct(ctx, store.OwnerID, domain.RoleSeller, product)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = uc.CreateProduct(ctx, 99, domain.RoleAdmin, &domain.Product{StoreID: store.ID, Name: "Desk", Price: 90})
	assert.NoError(t, err, "admin may write any store")
}

func TestCreateProductValidation(t *testing.T) {
	uc, _, _, _, store := newProductTestEnv(t)
	ctx := context.Background()

	_, err := uc.CreateProduct(ctx, store.OwnerID, domain.RoleSeller, &domain.Product{StoreID: store.ID, Name: " ", Price: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = uc.CreateProduct(ctx, store.OwnerID, domain.RoleSeller, &domain.Product{StoreID: store.ID, Name: "Lamp", Price: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestGetProductByIDReadThrough(t *testing.T) {
	uc, products, _, c, store := newProductTestEnv(t)
	ctx := context.Background()

	created, err := products.CreateProduct(ctx, &domain.Product{StoreID: store.ID, Name: "Lamp", Price: 40, InStock: true})
	require.NoError(t, err)

	got, err := uc.GetProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 1, c.sets, "miss populates the cache")

	// Second read is served from cache even after the row changes underneath.
	products.products[created.ID].Name = "Changed"
	got, err = uc.GetProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Name)
	assert.Equal(t, 1, c.sets)
}

func TestUpdateProductInvalidatesCache(t *testing.T) {
	uc, products, _, c, store := newProductTestEnv(t)
	ctx := context.Background()

	created, err := products.CreateProduct(ctx, &domain.Product{StoreID: store.ID, Name: "Lamp", Price: 40, InStock: true})
	require.NoError(t, err)

	_, err = uc.GetProductByID(ctx, created.ID)
	require.NoError(t, err)

	newPrice := 55.0
	updated, err := uc.UpdateProduct(ctx, store.OwnerID, domain.RoleSeller, created.ID, domain.ProductUpdate{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 55.0, updated.Price)
	assert.Empty(t, c.data, "update drops the cached entry")

	got, err := uc.GetProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 55.0, got.Price)
}

func TestDeleteProduct(t *testing.T) {
	uc, products, _, c, store := newProductTestEnv(t)
	ctx := context.Background()

	created, err := products.CreateProduct(ctx, &domain.Product{StoreID: store.ID, Name: "Lamp", Price: 40, InStock: true})
	require.NoError(t, err)
	_, err = uc.GetProductByID(ctx, created.ID)
	require.NoError(t, err)

	err = uc.DeleteProduct(ctx, 99, domain.RoleSeller, created.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	require.NoError(t, uc.DeleteProduct(ctx, store.OwnerID, domain.RoleSeller, created.ID))
	assert.Empty(t, c.data)

	_, err = uc.GetProductByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
