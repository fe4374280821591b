package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// In-memory repositories backing the use case tests. They mirror the
// Postgres implementations' contracts, including sentinel errors.

type fakeUserRepo struct {
	users       map[int64]*domain.User
	carts       map[int64][]domain.CartItem
	nextID      int64
	saveCartErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[int64]*domain.User),
		carts: make(map[int64][]domain.CartItem),
	}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("email %s taken: %w", user.Email, domain.ErrConflict)
		}
	}
	r.nextID++
	stored := *user
	stored.ID = r.nextID
	r.users[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	stored, ok := r.users[user.ID]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", user.ID, domain.ErrNotFound)
	}
	stored.Name = user.Name
	out := *stored
	return &out, nil
}

func (r *fakeUserRepo) SetRole(_ context.Context, id int64, role domain.Role) error {
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) SetVerified(_ context.Context, id int64) error {
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	u.Verified = true
	return nil
}

func (r *fakeUserRepo) GetCart(_ context.Context, userID int64) ([]domain.CartItem, error) {
	if _, ok := r.users[userID]; !ok {
		return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return append([]domain.CartItem(nil), r.carts[userID]...), nil
}

func (r *fakeUserRepo) SaveCart(_ context.Context, userID int64, items []domain.CartItem) error {
	if r.saveCartErr != nil {
		return r.saveCartErr
	}
	if _, ok := r.users[userID]; !ok {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	r.carts[userID] = append([]domain.CartItem(nil), items...)
	return nil
}

type fakeProductRepo struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int64]*domain.Product)}
}

func (r *fakeProductRepo) CreateProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.nextID++
	stored := *product
	stored.ID = r.nextID
	r.products[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeProductRepo) GetProductByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	out := *p
	return &out, nil
}

func (r *fakeProductRepo) ListProducts(_ context.Context, storeID int64, _, _ int) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if storeID == 0 || p.StoreID == storeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) UpdateProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if _, ok := r.products[product.ID]; !ok {
		return nil, fmt.Errorf("product %d: %w", product.ID, domain.ErrNotFound)
	}
	stored := *product
	r.products[product.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeProductRepo) DeleteProduct(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

type fakeStoreRepo struct {
	stores map[int64]*domain.Store
	nextID int64
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: make(map[int64]*domain.Store)}
}

func (r *fakeStoreRepo) CreateStore(_ context.Context, store *domain.Store) (*domain.Store, error) {
	for _, s := range r.stores {
		if s.Username == store.Username {
			return nil, fmt.Errorf("username %s taken: %w", store.Username, domain.ErrConflict)
		}
	}
	r.nextID++
	stored := *store
	stored.ID = r.nextID
	r.stores[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeStoreRepo) GetStoreByID(_ context.Context, id int64) (*domain.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, fmt.Errorf("store %d: %w", id, domain.ErrNotFound)
	}
	out := *s
	return &out, nil
}

func (r *fakeStoreRepo) ListStores(_ context.Context, _, _ int) ([]domain.Store, error) {
	var out []domain.Store
	for _, s := range r.stores {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeStoreRepo) UpdateStore(_ context.Context, store *domain.Store) (*domain.Store, error) {
	stored, ok := r.stores[store.ID]
	if !ok {
		return nil, fmt.Errorf("store %d: %w", store.ID, domain.ErrNotFound)
	}
	stored.Name = store.Name
	stored.Description = store.Description
	out := *stored
	return &out, nil
}

func (r *fakeStoreRepo) DeleteStore(_ context.Context, id int64) error {
	if _, ok := r.stores[id]; !ok {
		return fmt.Errorf("store %d: %w", id, domain.ErrNotFound)
	}
	delete(r.stores, id)
	return nil
}

type fakeCouponRepo struct {
	coupons map[string]*domain.Coupon
	nextID  int64
}

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{coupons: make(map[string]*domain.Coupon)}
}

func (r *fakeCouponRepo) CreateCoupon(_ context.Context, coupon *domain.Coupon) (*domain.Coupon, error) {
	if _, ok := r.coupons[coupon.Code]; ok {
		return nil, fmt.Errorf("coupon %s exists: %w", coupon.Code, domain.ErrConflict)
	}
	r.nextID++
	stored := *coupon
	stored.ID = r.nextID
	r.coupons[stored.Code] = &stored
	out := stored
	return &out, nil
}

func (r *fakeCouponRepo) GetCouponByCode(_ context.Context, code string) (*domain.Coupon, error) {
	c, ok := r.coupons[code]
	if !ok {
		return nil, fmt.Errorf("coupon %s: %w", code, domain.ErrNotFound)
	}
	out := *c
	return &out, nil
}

func (r *fakeCouponRepo) ListCoupons(_ context.Context, _, _ int) ([]domain.Coupon, error) {
	var out []domain.Coupon
	for _, c := range r.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCouponRepo) UpdateCoupon(_ context.Context, coupon *domain.Coupon) (*domain.Coupon, error) {
	stored, ok := r.coupons[coupon.Code]
	if !ok {
		return nil, fmt.Errorf("coupon %s: %w", coupon.Code, domain.ErrNotFound)
	}
	id := stored.ID
	*stored = *coupon
	stored.ID = id
	out := *stored
	return &out, nil
}

func (r *fakeCouponRepo) DeleteCoupon(_ context.Context, code string) error {
	if _, ok := r.coupons[code]; !ok {
		return fmt.Errorf("coupon %s: %w", code, domain.ErrNotFound)
	}
	delete(r.coupons, code)
	return nil
}

func (r *fakeCouponRepo) IncrementUsage(_ context.Context, code string) error {
	c, ok := r.coupons[code]
	if !ok {
		return fmt.Errorf("coupon %s: %w", code, domain.ErrNotFound)
	}
	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		return fmt.Errorf("coupon %s usage limit reached: %w", code, domain.ErrInvalidState)
	}
	c.UsageCount++
	return nil
}

type fakeOrderRepo struct {
	orders map[int64]*domain.Order
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]*domain.Order)}
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.nextID++
	stored := *order
	stored.ID = r.nextID
	stored.Items = append([]domain.OrderItem(nil), order.Items...)
	r.orders[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeOrderRepo) GetOrderByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	out := *o
	return &out, nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	o.Status = status
	out := *o
	return &out, nil
}

func (r *fakeOrderRepo) ListOrdersByUserID(_ context.Context, userID int64, _, _ int) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListOrdersByStoreID(_ context.Context, storeID int64, _, _ int) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.StoreID == storeID {
			out = append(out, *o)
		}
	}
	return out, nil
}
