package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

var _ domain.OrderUseCase = (*orderUseCase)(nil)

type orderUseCase struct {
	orderRepo   domain.OrderRepository
	userRepo    domain.UserRepository
	productRepo domain.ProductRepository
	couponRepo  domain.CouponRepository
	storeRepo   domain.StoreRepository
	log         *logrus.Logger
}

func NewOrderUseCase(
	orderRepo domain.OrderRepository,
	userRepo domain.UserRepository,
	productRepo domain.ProductRepository,
	couponRepo domain.CouponRepository,
	storeRepo domain.StoreRepository,
	logger *logrus.Logger,
) domain.OrderUseCase {
	return &orderUseCase{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		storeRepo:   storeRepo,
		log:         logger,
	}
}

// newOrderNumber builds a unique, human-meaningful order number: a UTC
// timestamp plus a random suffix so concurrent checkouts cannot collide.
func newOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102150405"), uuid.NewString()[:8])
}

// CreateOrder consumes the user's saved cart and produces one PENDING order
// per vendor store represented in it. Validation is fail-fast: any missing,
// out-of-stock or re-priced product aborts the whole checkout before a single
// row is written, leaving the cart untouched.
//
// Each store group commits in its own transaction. A failure mid-loop leaves
// earlier groups committed; cross-group atomicity is not provided. If the
// final cart reset fails the committed orders are returned alongside the
// error so callers can still report the checkout as successful.
func (uc *orderUseCase) CreateOrder(ctx context.Context, userID int64, req domain.CreateOrderRequest) ([]*domain.Order, error) {
	if _, err := uc.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	cart, err := uc.userRepo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		uc.log.Warnf("Use Case: Checkout rejected for user %d - cart is empty", userID)
		return nil, fmt.Errorf("cart is empty: %w", domain.ErrInvalidState)
	}

	// Live validation against the catalog, grouping items by owning store.
	// Prices are compared against the snapshot captured when the item was
	// added; no reservation or hold is placed on price or stock.
	groups := make(map[int64][]domain.OrderItem)
	for _, item := range cart {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("product %d: quantity must be positive: %w", item.ProductID, domain.ErrInvalidState)
		}

		product, err := uc.productRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			uc.log.Warnf("Use Case: Checkout failed for user %d - product %d lookup: %v", userID, item.ProductID, err)
			return nil, err
		}
		if !product.InStock {
			uc.log.Warnf("Use Case: Checkout failed for user %d - product %q out of stock", userID, product.Name)
			return nil, fmt.Errorf("product %q is out of stock: %w", product.Name, domain.ErrInvalidState)
		}
		if product.Price != item.Price {
			uc.log.Warnf("Use Case: Checkout failed for user %d - price changed for product %q (cart: %.2f, live: %.2f)",
				userID, product.Name, item.Price, product.Price)
			return nil, fmt.Errorf("price changed for product %q: %w", product.Name, domain.ErrInvalidState)
		}

		groups[product.StoreID] = append(groups[product.StoreID], domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	// Groups are processed in ascending store-id order for determinism.
	storeIDs := make([]int64, 0, len(groups))
	for id := range groups {
		storeIDs = append(storeIDs, id)
	}
	sort.Slice(storeIDs, func(i, j int) bool { return storeIDs[i] < storeIDs[j] })

	// A supplied coupon is looked up once and evaluated against every store
	// group's pre-discount subtotal.
	var coupon *domain.Coupon
	if req.CouponCode != "" {
		coupon, err = uc.couponRepo.GetCouponByCode(ctx, req.CouponCode)
		if err != nil {
			return nil, err
		}
		if !coupon.Usable(time.Now()) {
			uc.log.Warnf("Use Case: Checkout failed for user %d - coupon %q not usable", userID, coupon.Code)
			return nil, fmt.Errorf("coupon %q is inactive, expired or exhausted: %w", coupon.Code, domain.ErrInvalidState)
		}
	}

	orders := make([]*domain.Order, 0, len(storeIDs))
	for _, storeID := range storeIDs {
		items := groups[storeID]

		var storeTotal float64
		for _, it := range items {
			storeTotal += it.Price * float64(it.Quantity)
		}

		total := storeTotal
		couponUsed := false
		if coupon != nil {
			// Usage is consumed once per store group. The store layer does
			// the increment and the limit check atomically, so a concurrent
			// checkout racing for the last use loses here, not later.
			if err := uc.couponRepo.IncrementUsage(ctx, coupon.Code); err != nil {
				uc.log.Errorf("Use Case: Coupon %q could not be consumed for store %d (user %d): %v",
					coupon.Code, storeID, userID, err)
				return nil, err
			}
			total = coupon.Apply(storeTotal)
			couponUsed = true
		}

		order := &domain.Order{
			OrderNumber:   newOrderNumber(),
			Total:         total,
			Status:        domain.StatusPending,
			UserID:        userID,
			StoreID:       storeID,
			PaymentMethod: req.PaymentMethod,
			IsCouponUsed:  couponUsed,
			Shipping:      req.ShippingAddress,
			Items:         items,
		}
		if couponUsed {
			code := coupon.Code
			order.CouponCode = &code
		}

		created, err := uc.orderRepo.CreateOrder(ctx, order)
		if err != nil {
			uc.log.Errorf("Use Case: Failed to persist order for store %d (user %d): %v", storeID, userID, err)
			return nil, err
		}
		orders = append(orders, created)
	}

	// Cart reset happens once, after every group committed. On any earlier
	// failure the cart is left as it was.
	if err := uc.userRepo.SaveCart(ctx, userID, nil); err != nil {
		uc.log.Errorf("Use Case: Orders created for user %d but cart reset failed: %v", userID, err)
		return orders, fmt.Errorf("orders created but cart reset failed: %w", err)
	}

	uc.log.Infof("Use Case: Checkout complete for user %d - %d order(s) created", userID, len(orders))
	return orders, nil
}

func (uc *orderUseCase) GetOrderByID(ctx context.Context, actorID int64, actorRole domain.Role, id int64) (*domain.Order, error) {
	order, err := uc.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeOrderAccess(ctx, actorID, actorRole, order); err != nil {
		return nil, err
	}
	return order, nil
}

// authorizeOrderAccess admits the buyer, the operator of the owning store and
// administrators.
func (uc *orderUseCase) authorizeOrderAccess(ctx context.Context, actorID int64, actorRole domain.Role, order *domain.Order) error {
	if actorRole == domain.RoleAdmin || order.UserID == actorID {
		return nil
	}
	store, err := uc.storeRepo.GetStoreByID(ctx, order.StoreID)
	if err == nil && store.OwnerID == actorID {
		return nil
	}
	uc.log.Warnf("Use Case: User %d denied access to order %d", actorID, order.ID)
	return fmt.Errorf("not allowed to access order %d: %w", order.ID, domain.ErrAccessDenied)
}

// UpdateOrderStatus moves an order along the lifecycle state machine. Only
// the owning store's operator or an administrator may transition.
func (uc *orderUseCase) UpdateOrderStatus(ctx context.Context, actorID int64, actorRole domain.Role, id int64, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.IsValidStatus(status) {
		return nil, fmt.Errorf("unknown order status %q: %w", status, domain.ErrInvalidState)
	}

	order, err := uc.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actorRole != domain.RoleAdmin {
		store, err := uc.storeRepo.GetStoreByID(ctx, order.StoreID)
		if err != nil || store.OwnerID != actorID {
			uc.log.Warnf("Use Case: User %d denied status update on order %d", actorID, id)
			return nil, fmt.Errorf("only the owning store or an admin may update order %d: %w", id, domain.ErrAccessDenied)
		}
	}

	if !domain.CanTransition(order.Status, status) {
		uc.log.Warnf("Use Case: Illegal transition %s -> %s requested for order %d", order.Status, status, id)
		return nil, fmt.Errorf("cannot transition order from %s to %s: %w", order.Status, status, domain.ErrInvalidState)
	}

	updated, err := uc.orderRepo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Order %d transitioned %s -> %s by user %d", id, order.Status, status, actorID)
	return updated, nil
}

// CancelOrder is the buyer-side cancellation: the single CANCELLED edge,
// available while the order is still PENDING, CONFIRMED or PROCESSING.
// Inventory is not returned; stock accounting is out of scope.
func (uc *orderUseCase) CancelOrder(ctx context.Context, actorID int64, id int64) (*domain.Order, error) {
	order, err := uc.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != actorID {
		uc.log.Warnf("Use Case: User %d denied cancel on order %d", actorID, id)
		return nil, fmt.Errorf("only the buyer may cancel order %d: %w", id, domain.ErrAccessDenied)
	}

	cancellable := false
	for _, s := range domain.CancellableStatuses {
		if order.Status == s {
			cancellable = true
			break
		}
	}
	if !cancellable {
		return nil, fmt.Errorf("cannot cancel order in status %s: %w", order.Status, domain.ErrInvalidState)
	}

	updated, err := uc.orderRepo.UpdateOrderStatus(ctx, id, domain.StatusCancelled)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Order %d cancelled by buyer %d", id, actorID)
	return updated, nil
}

func (uc *orderUseCase) ListMyOrders(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	return uc.orderRepo.ListOrdersByUserID(ctx, userID, limit, offset)
}

func (uc *orderUseCase) ListStoreOrders(ctx context.Context, actorID int64, actorRole domain.Role, storeID int64, limit, offset int) ([]domain.Order, error) {
	if actorRole != domain.RoleAdmin {
		store, err := uc.storeRepo.GetStoreByID(ctx, storeID)
		if err != nil {
			return nil, err
		}
		if store.OwnerID != actorID {
			return nil, fmt.Errorf("only the owning store or an admin may list store orders: %w", domain.ErrAccessDenied)
		}
	}
	return uc.orderRepo.ListOrdersByStoreID(ctx, storeID, limit, offset)
}
