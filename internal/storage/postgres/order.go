package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kamga/mokolo/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders
		(id, user_id, total, payment_method, transaction_id, shipping_address, phone, notes, status)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9)`

	orderColumns = `id, user_id, total, payment_method, COALESCE(transaction_id, ''),
		shipping_address, phone, COALESCE(notes, ''), status, created_at`

	listOrdersByUserSQL = `SELECT ` + orderColumns + `
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	orderItemsByOrderSQL = `SELECT order_id, product_id, quantity, price
		FROM order_items WHERE order_id = $1`

	orderItemsByUserSQL = `SELECT i.order_id, i.product_id, i.quantity, i.price
		FROM order_items i JOIN orders o ON o.id = i.order_id
		WHERE o.user_id = $1`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order row. Line items are written separately by
// CreateItems; the two writes are intentionally not transactional (item
// failure is handled leniently upstream).
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.UserID, o.Total, string(o.PaymentMethod), o.TransactionID,
		o.ShippingAddress, o.Phone, o.Notes, string(o.Status),
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// CreateItems batch-inserts the order's line items.
func (r *OrderRepository) CreateItems(ctx context.Context, items []order.Item) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(
			`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)`,
			it.OrderID, it.ProductID, it.Quantity, it.Price,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("creating order items for %q: %w", items[0].OrderID, err)
		}
	}
	return nil
}

// ListByUser returns the user's orders, newest first, with nested items
// attached in two queries.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	orders, err := r.ListByUserBasic(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	rows, err := r.pool.Query(ctx, orderItemsByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing order items for user %q: %w", userID, err)
	}
	items, err := pgx.CollectRows(rows, scanOrderItem)
	if err != nil {
		return nil, fmt.Errorf("listing order items for user %q: %w", userID, err)
	}

	byOrder := make(map[string][]order.Item, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return orders, nil
}

// ListByUserBasic returns the user's orders without items. Paired with
// ItemsByOrder for callers that cannot use the joined query.
func (r *OrderRepository) ListByUserBasic(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ItemsByOrder returns the line items of one order.
func (r *OrderRepository) ItemsByOrder(ctx context.Context, orderID string) ([]order.Item, error) {
	rows, err := r.pool.Query(ctx, orderItemsByOrderSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing items for order %q: %w", orderID, err)
	}
	return pgx.CollectRows(rows, scanOrderItem)
}

// UpdateStatus sets an order's status. Admin-only operation.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, orderID, string(status))
	if err != nil {
		return fmt.Errorf("updating status of order %q: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o      order.Order
		method string
		status string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.Total, &method, &o.TransactionID,
		&o.ShippingAddress, &o.Phone, &o.Notes, &status, &o.CreatedAt,
	)
	o.PaymentMethod = order.PaymentMethod(method)
	o.Status = order.Status(status)
	return o, err
}

func scanOrderItem(row pgx.CollectableRow) (order.Item, error) {
	var it order.Item
	err := row.Scan(&it.OrderID, &it.ProductID, &it.Quantity, &it.Price)
	return it, err
}
