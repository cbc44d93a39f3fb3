package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kamga/mokolo/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository is an in-memory order.Repository.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]order.Order
	items  map[string][]order.Item // keyed by order id
}

// NewOrderRepository returns an empty in-memory order store.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[string]order.Order),
		items:  make(map[string][]order.Item),
	}
}

// Create persists a new order row.
func (r *OrderRepository) Create(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	stored := *o
	stored.Items = nil // items live in their own table, same as postgres
	r.orders[o.ID] = stored
	return nil
}

// CreateItems batch-inserts the order's line items.
func (r *OrderRepository) CreateItems(_ context.Context, items []order.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, it := range items {
		r.items[it.OrderID] = append(r.items[it.OrderID], it)
	}
	return nil
}

// ListByUser returns the user's orders, newest first, with nested items.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	orders, err := r.ListByUserBasic(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range orders {
		orders[i].Items = append([]order.Item(nil), r.items[orders[i].ID]...)
	}
	return orders, nil
}

// ListByUserBasic returns the user's orders without items.
func (r *OrderRepository) ListByUserBasic(_ context.Context, userID string) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]order.Order, 0, 4)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ItemsByOrder returns the line items of one order.
func (r *OrderRepository) ItemsByOrder(_ context.Context, orderID string) ([]order.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]order.Item(nil), r.items[orderID]...), nil
}

// UpdateStatus sets an order's status.
func (r *OrderRepository) UpdateStatus(_ context.Context, orderID string, status order.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	r.orders[orderID] = o
	return nil
}
