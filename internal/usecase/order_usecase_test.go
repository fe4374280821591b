package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

type orderTestEnv struct {
	users    *fakeUserRepo
	products *fakeProductRepo
	stores   *fakeStoreRepo
	coupons  *fakeCouponRepo
	orders   *fakeOrderRepo
	uc       domain.OrderUseCase
}

func newOrderTestEnv() *orderTestEnv {
	env := &orderTestEnv{
		users:    newFakeUserRepo(),
		products: newFakeProductRepo(),
		stores:   newFakeStoreRepo(),
		coupons:  newFakeCouponRepo(),
		orders:   newFakeOrderRepo(),
	}
	env.uc = NewOrderUseCase(env.orders, env.users, env.products, env.coupons, env.stores, testLogger())
	return env
}

func (env *orderTestEnv) addUser(t *testing.T, role domain.Role) *domain.User {
	t.Helper()
	user, err := env.users.CreateUser(context.Background(), &domain.User{
		Name:  "Buyer",
		Email: fmt.Sprintf("user%d@test.local", len(env.users.users)+1),
		Role:  role,
	})
	require.NoError(t, err)
	return user
}

func (env *orderTestEnv) addStore(t *testing.T, ownerID int64, username string) *domain.Store {
	t.Helper()
	store, err := env.stores.CreateStore(context.Background(), &domain.Store{
		OwnerID: ownerID, Name: username, Username: username,
	})
	require.NoError(t, err)
	return store
}

func (env *orderTestEnv) addProduct(t *testing.T, storeID int64, price float64, inStock bool) *domain.Product {
	t.Helper()
	product, err := env.products.CreateProduct(context.Background(), &domain.Product{
		StoreID: storeID, Name: "Item", Price: price, InStock: inStock,
	})
	require.NoError(t, err)
	return product
}

func checkoutRequest() domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		PaymentMethod: "COD",
		ShippingAddress: domain.ShippingAddress{
			Name: "Buyer", Address: "1 Main St", Phone: "555-0100",
		},
	}
}

func TestCreateOrderSingleStore(t *testing.T) {
	env := newOrderTestEnv()
	ctx := context.Background()

	seller := env.addUser(t, domain.RoleSeller)
	store := env.addStore(t, seller.ID, "gadgets")
	pa := env.addProduct(t, store.ID, 100, true)
	pb := env.addProduct(t, store.ID, 50, true)

	buyer := env.addUser(t, domain.RoleUser)
	env.users.carts[buyer.ID] = []domain.CartItem{
		{ProductID: pa.ID, Quantity: 2, Price: 100},
		{ProductID: pb.ID, Quantity: 1, Price: 50},
	}

	orders, err := env.uc.CreateOrder(ctx, buyer.ID, checkoutRequest())
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, 250.0, order.Total)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, store.ID, order.StoreID)
	assert.Equal(t, buyer.ID, order.UserID)
	assert.False(t, order.IsCouponUsed)
	assert.Nil(t, order.CouponCode)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Len(t, order.Items, 2)

	cart, err := env.users.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart, "checkout should clear the cart")
}

func TestCreateOrderMultiStoreWithCoupon(t *testing.T) {
	env := newOrderTestEnv()
	ctx := context.Background()

	seller := env.addUser(t, domain.RoleSeller)
	store1 := env.addStore(t, seller.ID, "first")
	store2 := env.addStore(t, seller.ID, "second")
	p1 := env.addProduct(t, store1.ID, 100, true)
	p2 := env.addProduct(t, store2.ID, 50, true)

	_, err := env.coupons.CreateCoupon(ctx, &domain.Coupon{
		Code: "SAVE10", Discount: 10, DiscountType: domain.DiscountPercentage,
		IsActive: true, ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	buyer := env.addUser(t, domain.RoleUser)
	env.users.carts[buyer.ID] = []domain.CartItem{
		{ProductID: p2.ID, Quantity: 1, Price: 50},
		{ProductID: p1.ID, Quantity: 2, Price: 100},
	}

	req := checkoutRequest()
	req.CouponCode = "SAVE10"
	orders, err := env.uc.CreateOrder(ctx, buyer.ID, req)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	// Store groups come back in ascending store-id order regardless of how
	// the cart was arranged.
	assert.Equal(t, store1.ID, orders[0].StoreID)
	assert.Equal(t, store2.ID, orders[1].StoreID)
	assert.Equal(t, 180.0, orders[0].Total)
	assert.Equal(t, 45.0, orders[1].Total)
	for _, o := range orders {
		assert.True(t, o.IsCouponUsed)
		require.NotNil(t, o.CouponCode)
		assert.Equal(t, "SAVE10", *o.CouponCode)
	}

	// The coupon is consumed once per store group.
	coupon, err := env.coupons.GetCouponByCode(ctx, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, 2, coupon.UsageCount)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	env := newOrderTestEnv()
	buyer := env.addUser(t, domain.RoleUser)

	_, err := env.uc.CreateOrder(context.Background(), buyer.ID, checkoutRequest())
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreateOrderUnknownUser(t *testing.T) {
	env := newOrderTestEnv()
	_, err := env.uc.CreateOrder(context.Background(), 999, checkoutRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateOrderValidationAborts(t *testing.T) {
	env := newOrderTestEnv()
	ctx := context.Background()

	seller := env.addUser(t, domain.RoleSeller)
	store := env.addStore(t, seller.ID, "shop")
	inStock := env.addProduct(t, store.ID, 100, true)
	outOfStock := env.addProduct(t, store.ID, 30, false)

	t.Run("out of stock", func(t *testing.T) {
		buyer := env.addUser(t, domain.RoleUser)
		env.users.carts[buyer.ID] = []domain.CartItem{
			{ProductID: inStock.ID, Quantity: 1, Price: 100},
			{ProductID: outOfStock.ID, Quantity: 1, Price: 30},
		}
		_, err := env.uc.CreateOrder(ctx, buyer.ID, checkoutRequest())
		assert.ErrorIs(t, err, domain.ErrInvalidState)

		cart, err := env.users.GetCart(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Len(t, cart, 2, "failed checkout must leave the cart untouched")
		assert.Empty(t, env.orders.orders, "failed checkout must not persist orders")
	})

	t.Run("price changed", func(t *testing.T) {
		buyer := env.addUser(t, domain.RoleUser)
		env.users.carts[buyer.ID] = []domain.CartItem{
			{ProductID: inStock.ID, Quantity: 1, Price: 90},
		}
		_, err := env.uc.CreateOrder(ctx, buyer.ID, checkoutRequest())
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("product vanished", func(t *testing.T) {
		buyer := env.addUser(t, domain.RoleUser)
		env.users.carts[buyer.ID] = []domain.CartItem{
			{ProductID: 12345, Quantity: 1, Price: 10},
		}
		_, err := env.uc.CreateOrder(ctx, buyer.ID, checkoutRequest())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		buyer := env.addUser(t, domain.RoleUser)
		env.users.carts[buyer.ID] = []domain.CartItem{
			{ProductID: inStock.ID, Quantity: 0, Price: 100},
		}
		_, err := env.uc.CreateOrder(ctx, buyer.ID, checkoutRequest())
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestCreateOrderCouponNotUsable(t *testing.T) {
	env := newOrderTestEnv()
	ctx := context.Background()

	seller := env.addUser(t, domain.RoleSeller)
	store := env.addStore(t, seller.ID, "shop")
	product := env.addProduct(t, store.ID, 100, true)

	_, err := env.coupons.CreateCoupon(ctx, &domain.Coupon{
		Code: "EXPIRED", Discount: 10, DiscountType: domain.DiscountPercentage,
		IsActive: true, ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	buyer := env.addUser(t, domain.RoleUser)
	env.users.carts[buyer.ID] = []domain.CartItem{
		{ProductID: product.ID, Quantity: 1, Price: 100},
	}

	req := checkoutRequest()
	req.CouponCode = "EXPIRED"
	_, err = env.uc.CreateOrder(ctx, buyer.ID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Empty(t, env.orders.orders)
}

func TestCreateOrderCouponLimitExhaustedMidCheckout(t *testing.T) {
	env := newOrderTestEnv()
	ctx := context.Background()

	seller := env.addUser(t, domain.RoleSeller)
	store1 := env.addStore(t, seller.ID, "first")
	store2 := env.addStore(t, seller.ID, "second")
	p1 := env.addProduct(t, store1.ID, 100, true)
	p2 := env.addProduct(t, store2.ID, 50, true)

	// One remaining use, two store groups: the second group loses.
	_, err := env.coupons.CreateCoupon(ctx, &domain.Coupon{
		Code: "LAST1", Discount: 10, DiscountType: domain.DiscountPercentage,
		IsActive: true, ExpiresAt: time.Now().Add(24 * time.Hour), UsageLimit: 1,
	})
	require.NoError(t, err)

	buyer := env.addUser(t, domain.RoleUser)
	env.users.carts[buyer.ID] = []domain.CartItem{
		{ProductID: p1.ID, Quantity: 1, Price: 100},
		{ProductID: p2.ID, Quantity: 1, Price: 50},
	}

	req := checkoutRequest()
	req.CouponCode = "LAST1"
	_, err = env.uc.CreateOrder(ctx, buyer.ID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// The first group already committed; the cart stays for retry.
	assert.Len(t, env.orders.orders, 1)
	cart, err := env.users.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, cart, 2)
}

func TestCreateOrderFixedCouponFloorsAtZero(t *testing.T) {
	env := newOrderTestEnv()
	ctx := context.Background()

	seller := env.addUser(t, domain.RoleSeller)
	store := env.addStore(t, seller.ID, "shop")
	product := env.addProduct(t, store.ID, 20, true)

	_, err := env.coupons.CreateCoupon(ctx, &domain.Coupon{
		Code: "BIG50", Discount: 50, DiscountType: domain.DiscountFixed,
		IsActive: true, ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	buyer := env.addUser(t, domain.RoleUser)
	env.users.carts[buyer.ID] = []domain.CartItem{
		{ProductID: product.ID, Quantity: 1, Price: 20},
	}

	req := checkoutRequest()
	req.CouponCode = "BIG50"
	orders, err := env.uc.CreateOrder(ctx, buyer.ID, req)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 0.0, orders[0].Total)
}

func TestCreateOrderCartResetFailureReturnsOrders(t *testing.T) {
	env := newOrderTestEnv()
	ctx := context.Background()

	seller := env.addUser(t, domain.RoleSeller)
	store := env.addStore(t, seller.ID, "shop")
	product := env.addProduct(t, store.ID, 100, true)

	buyer := env.addUser(t, domain.RoleUser)
	env.users.carts[buyer.ID] = []domain.CartItem{
		{ProductID: product.ID, Quantity: 1, Price: 100},
	}
	env.users.saveCartErr = errors.New("redis gone")

	orders, err := env.uc.CreateOrder(ctx, buyer.ID, checkoutRequest())
	require.Error(t, err)
	require.Len(t, orders, 1, "committed orders come back even when the cart reset fails")
	assert.Equal(t, 100.0, orders[0].Total)
	assert.Len(t, env.orders.orders, 1)
}

func TestGetOrderByIDAccess(t *testing.T) {
	env := newOrderTestEnv()
	ctx := context.Background()

	seller := env.addUser(t, domain.RoleSeller)
	store := env.addStore(t, seller.ID, "shop")
	product := env.addProduct(t, store.ID, 100, true)

	buyer := env.addUser(t, domain.RoleUser)
	env.users.carts[buyer.ID] = []domain.CartItem{
		{ProductID: product.ID, Quantity: 1, Price: 100},
	}
	orders, err := env.uc.CreateOrder(ctx, buyer.ID, checkoutRequest())
	require.NoError(t, err)
	orderID := orders[0].ID

	admin := env.addUser(t, domain.RoleAdmin)
	stranger := env.addUser(t, domain.RoleUser)

	_, err = env.uc.GetOrderByID(ctx, buyer.ID, domain.RoleUser, orderID)
	assert.NoError(t, err, "buyer sees own order")

	_, err = env.uc.GetOrderByID(ctx, seller.ID, domain.RoleSeller, orderID)
	assert.NoError(t, err, "store owner sees store order")

	_, err = env.uc.GetOrderByID(ctx, admin.ID, domain.RoleAdmin, orderID)
	assert.NoError(t, err, "admin sees any order")

	_, err = env.uc.GetOrderByID(ctx, stranger.ID, domain.RoleUser, orderID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newOrderTestEnv()
	ctx := context.Background()

	seller := env.addUser(t, domain.RoleSeller)
	store := env.addStore(t, seller.ID, "shop")
	product := env.addProduct(t, store.ID, 100, true)

	buyer := env.addUser(t, domain.RoleUser)
	env.users.carts[buyer.ID] = []domain.CartItem{
		{ProductID: product.ID, Quantity: 1, Price: 100},
	}
	orders, err := env.uc.CreateOrder(ctx, buyer.ID, checkoutRequest())
	require.NoError(t, err)
	orderID := orders[0].ID

	t.Run("owner walks the lifecycle", func(t *testing.T) {
		for _, next := range []domain.OrderStatus{
			domain.StatusConfirmed, domain.StatusProcessing,
			domain.StatusShipped, domain.StatusDelivered, domain.StatusRefunded,
		} {
			updated, err := env.uc.UpdateOrderStatus(ctx, seller.ID, domain.RoleSeller, orderID, next)
			require.NoError(t, err)
			assert.Equal(t, next, updated.Status)
		}
	})

	t.Run("terminal state rejects transitions", func(t *testing.T) {
		_, err := env.uc.UpdateOrderStatus(ctx, seller.ID, domain.RoleSeller, orderID, domain.StatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("buyer cannot drive status", func(t *testing.T) {
		env.orders.orders[orderID].Status = domain.StatusPending
		_, err := env.uc.UpdateOrderStatus(ctx, buyer.ID, domain.RoleUser, orderID, domain.StatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := env.uc.UpdateOrderStatus(ctx, seller.ID, domain.RoleSeller, orderID, domain.OrderStatus("TELEPORTED"))
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("skipping a step rejected", func(t *testing.T) {
		_, err := env.uc.UpdateOrderStatus(ctx, seller.ID, domain.RoleSeller, orderID, domain.StatusShipped)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestCancelOrder(t *testing.T) {
	env := newOrderTestEnv()
	ctx := context.Background()

	seller := env.addUser(t, domain.RoleSeller)
	store := env.addStore(t, seller.ID, "shop")
	product := env.addProduct(t, store.ID, 100, true)

	buyer := env.addUser(t, domain.RoleUser)
	env.users.carts[buyer.ID] = []domain.CartItem{
		{ProductID: product.ID, Quantity: 1, Price: 100},
	}
	orders, err := env.uc.CreateOrder(ctx, buyer.ID, checkoutRequest())
	require.NoError(t, err)
	orderID := orders[0].ID

	t.Run("only the buyer may cancel", func(t *testing.T) {
		_, err := env.uc.CancelOrder(ctx, seller.ID, orderID)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("buyer cancels a pending order", func(t *testing.T) {
		updated, err := env.uc.CancelOrder(ctx, buyer.ID, orderID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, updated.Status)
	})

	t.Run("shipped orders are past cancelling", func(t *testing.T) {
		env.orders.orders[orderID].Status = domain.StatusShipped
		_, err := env.uc.CancelOrder(ctx, buyer.ID, orderID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestListStoreOrdersAccess(t *testing.T) {
	env := newOrderTestEnv()
	ctx := context.Background()

	seller := env.addUser(t, domain.RoleSeller)
	store := env.addStore(t, seller.ID, "shop")
	stranger := env.addUser(t, domain.RoleUser)

	_, err := env.uc.ListStoreOrders(ctx, stranger.ID, domain.RoleUser, store.ID, 10, 0)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = env.uc.ListStoreOrders(ctx, seller.ID, domain.RoleSeller, store.ID, 10, 0)
	assert.NoError(t, err)

	admin := env.addUser(t, domain.RoleAdmin)
	_, err = env.uc.ListStoreOrders(ctx, admin.ID, domain.RoleAdmin, store.ID, 10, 0)
	assert.NoError(t, err)
}
