// Package memory provides in-memory implementations of every repository
// interface, mirroring the PostgreSQL implementations' call signatures. It
// backs the api-server's memory storage mode and keeps handler tests free of
// a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kamga/mokolo/internal/domain/product"
)

var (
	_ product.Repository         = (*ProductRepository)(nil)
	_ product.CategoryRepository = (*ProductRepository)(nil)
)

// ProductRepository is an in-memory product.Repository.
type ProductRepository struct {
	mu         sync.RWMutex
	products   map[string]product.Product
	categories map[string]product.Category
}

// NewProductRepository returns an empty in-memory catalog.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products:   make(map[string]product.Product),
		categories: make(map[string]product.Category),
	}
}

// List returns active products, newest first, optionally filtered by category.
func (r *ProductRepository) List(_ context.Context, categoryID string) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]product.Product, 0, len(r.products))
	for _, p := range r.products {
		if !p.Active {
			continue
		}
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs.
func (r *ProductRepository) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(_ context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = p.CreatedAt
	r.products[p.ID] = *p
	return nil
}

// Update replaces the mutable fields of a product.
func (r *ProductRepository) Update(_ context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[p.ID]
	if !ok {
		return product.ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	r.products[p.ID] = *p
	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return product.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// ListCategories returns all categories ordered by name.
func (r *ProductRepository) ListCategories(_ context.Context) ([]product.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]product.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CreateCategory inserts a new category.
func (r *ProductRepository) CreateCategory(_ context.Context, c *product.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[c.ID] = *c
	return nil
}
