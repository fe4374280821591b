package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{db: db, log: logger}
}

const orderColumns = `id, order_number, total, status, user_id, store_id, is_paid,
        payment_method, payment_id, is_coupon_used, coupon_code,
        ship_name, ship_address, ship_phone, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }, o *domain.Order) error {
	return row.Scan(
		&o.ID, &o.OrderNumber, &o.Total, &o.Status, &o.UserID, &o.StoreID, &o.IsPaid,
		&o.PaymentMethod, &o.PaymentID, &o.IsCouponUsed, &o.CouponCode,
		&o.Shipping.Name, &o.Shipping.Address, &o.Shipping.Phone, &o.CreatedAt, &o.UpdatedAt,
	)
}

// CreateOrder writes the order row and its item rows in a single transaction.
func (r *postgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Failed to begin transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.log.Errorf("Failed to rollback transaction: %v", rbErr)
			}
		}
	}()

	orderQuery := `
        INSERT INTO orders (order_number, total, status, user_id, store_id, is_paid,
                            payment_method, payment_id, is_coupon_used, coupon_code,
                            ship_name, ship_address, ship_phone)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id, created_at, updated_at
    `
	err = tx.QueryRowContext(ctx, orderQuery,
		order.OrderNumber, order.Total, order.Status, order.UserID, order.StoreID, order.IsPaid,
		order.PaymentMethod, order.PaymentID, order.IsCouponUsed, order.CouponCode,
		order.Shipping.Name, order.Shipping.Address, order.Shipping.Phone,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		r.log.Errorf("Failed to insert order %s for user %d: %v", order.OrderNumber, order.UserID, err)
		return nil, fmt.Errorf("could not create order entry: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (order_id, product_id, quantity, price)
        VALUES ($1, $2, $3, $4)
    `
	stmt, err := tx.PrepareContext(ctx, itemQuery)
	if err != nil {
		r.log.Errorf("Failed to prepare order item statement: %v", err)
		return nil, fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer stmt.Close()

	for i := range order.Items {
		item := &order.Items[i]
		if _, err = stmt.ExecContext(ctx, order.ID, item.ProductID, item.Quantity, item.Price); err != nil {
			r.log.Errorf("Failed to insert order item (product %d) for order %d: %v", item.ProductID, order.ID, err)
			return nil, fmt.Errorf("could not create order item (product %d): %w", item.ProductID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		r.log.Errorf("Failed to commit order %s: %v", order.OrderNumber, err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.log.Infof("Order %s created with %d items (store %d, user %d)",
		order.OrderNumber, len(order.Items), order.StoreID, order.UserID)
	return order, nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	order := &domain.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if err := scanOrder(r.db.QueryRowContext(ctx, query, id), order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get order by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}

	items, err := r.getOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *postgresOrderRepository) getOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, quantity, price FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		r.log.Errorf("Failed to query order items for order %d: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET status = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING ` + orderColumns

	order := &domain.Order{}
	if err := scanOrder(r.db.QueryRowContext(ctx, query, status, id), order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to update status for order %d: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}

	items, err := r.getOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	r.log.Infof("Order %d status updated to %s", order.ID, order.Status)
	return order, nil
}

func (r *postgresOrderRepository) ListOrdersByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	return r.listOrders(ctx, query, userID, limit, offset)
}

func (r *postgresOrderRepository) ListOrdersByStoreID(ctx context.Context, storeID int64, limit, offset int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `
        FROM orders
        WHERE store_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	return r.listOrders(ctx, query, storeID, limit, offset)
}

func (r *postgresOrderRepository) listOrders(ctx context.Context, query string, ownerID int64, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list orders for %d: %v", ownerID, err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	orderIDs := []int64{}
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, fmt.Errorf("error scanning order: %w", err)
		}
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemsQuery := `
        SELECT order_id, product_id, quantity, price
        FROM order_items
        WHERE order_id = ANY($1::bigint[])
        ORDER BY order_id
    `
	itemRows, err := r.db.QueryContext(ctx, itemsQuery, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Failed to query items for orders %v: %v", orderIDs, err)
		return nil, fmt.Errorf("could not retrieve order items for list: %w", err)
	}
	defer itemRows.Close()

	itemsMap := make(map[int64][]domain.OrderItem)
	for itemRows.Next() {
		var item domain.OrderItem
		var orderID int64
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("error scanning order item data for list: %w", err)
		}
		itemsMap[orderID] = append(itemsMap[orderID], item)
	}
	if err = itemRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items for list: %w", err)
	}

	for i := range orders {
		if items, ok := itemsMap[orders[i].ID]; ok {
			orders[i].Items = items
		} else {
			orders[i].Items = []domain.OrderItem{}
		}
	}
	return orders, nil
}
