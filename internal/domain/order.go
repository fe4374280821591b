package domain

import (
	"context"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
	StatusRefunded   OrderStatus = "REFUNDED"
)

// statusTransitions is the full order lifecycle. CANCELLED and REFUNDED are
// terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusRefunded},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

func IsValidStatus(status OrderStatus) bool {
	_, ok := statusTransitions[status]
	return ok
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CancellableStatuses are the states from which the buyer may still cancel.
var CancellableStatuses = []OrderStatus{StatusPending, StatusConfirmed, StatusProcessing}

type ShippingAddress struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
}

// Order records a single-store purchase. A multi-vendor cart always produces
// one Order per store, never a mixed order.
type Order struct {
	ID            int64           `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	Total         float64         `json:"total"`
	Status        OrderStatus     `json:"status"`
	UserID        int64           `json:"userId"`
	StoreID       int64           `json:"storeId"`
	IsPaid        bool            `json:"isPaid"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentID     *string         `json:"paymentId"`
	IsCouponUsed  bool            `json:"isCouponUsed"`
	CouponCode    *string         `json:"coupon,omitempty"`
	Shipping      ShippingAddress `json:"shipping"`
	Items         []OrderItem     `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderItem captures the price at checkout time; it never changes afterwards.
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type CreateOrderRequest struct {
	PaymentMethod   string          `json:"paymentMethod" binding:"required"`
	CouponCode      string          `json:"couponCode"`
	ShippingAddress ShippingAddress `json:"shippingAddress" binding:"required"`
}

type OrderRepository interface {
	// CreateOrder persists the order row and all of its item rows in one
	// transaction: either everything lands or nothing does.
	CreateOrder(ctx context.Context, order *Order) (*Order, error)
	GetOrderByID(ctx context.Context, id int64) (*Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status OrderStatus) (*Order, error)
	ListOrdersByUserID(ctx context.Context, userID int64, limit, offset int) ([]Order, error)
	ListOrdersByStoreID(ctx context.Context, storeID int64, limit, offset int) ([]Order, error)
}

type OrderUseCase interface {
	// CreateOrder turns the user's saved cart into one persisted order per
	// vendor store represented in the cart.
	CreateOrder(ctx context.Context, userID int64, req CreateOrderRequest) ([]*Order, error)
	GetOrderByID(ctx context.Context, actorID int64, actorRole Role, id int64) (*Order, error)
	UpdateOrderStatus(ctx context.Context, actorID int64, actorRole Role, id int64, status OrderStatus) (*Order, error)
	CancelOrder(ctx context.Context, actorID int64, id int64) (*Order, error)
	ListMyOrders(ctx context.Context, userID int64, limit, offset int) ([]Order, error)
	ListStoreOrders(ctx context.Context, actorID int64, actorRole Role, storeID int64, limit, offset int) ([]Order, error)
}
