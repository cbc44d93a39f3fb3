package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kamga/mokolo/internal/domain/product"
)

const (
	productColumns = `id, name, name_fr, description, description_fr, price, COALESCE(category_id, ''),
		image_url, stock, active, discount_percentage, featured, created_at, updated_at`

	listProductsSQL = `SELECT ` + productColumns + `
		FROM products WHERE active ORDER BY created_at DESC`

	listProductsByCategorySQL = `SELECT ` + productColumns + `
		FROM products WHERE active AND category_id = $1 ORDER BY created_at DESC`

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	getProductsByIDsSQL = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	insertProductSQL = `INSERT INTO products (id, name, name_fr, description, description_fr, price,
		category_id, image_url, stock, active, discount_percentage, featured)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12)`

	updateProductSQL = `UPDATE products SET name = $2, name_fr = $3, description = $4,
		description_fr = $5, price = $6, category_id = NULLIF($7, ''), image_url = $8,
		stock = $9, active = $10, discount_percentage = $11, featured = $12, updated_at = now()
		WHERE id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	listCategoriesSQL = `SELECT id, name, name_fr FROM categories ORDER BY name`
	insertCategorySQL = `INSERT INTO categories (id, name, name_fr) VALUES ($1, $2, $3)`
)

var (
	_ product.Repository         = (*ProductRepository)(nil)
	_ product.CategoryRepository = (*ProductRepository)(nil)
)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns active products, newest first, optionally filtered by category.
func (r *ProductRepository) List(ctx context.Context, categoryID string) ([]product.Product, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if categoryID == "" {
		rows, err = r.pool.Query(ctx, listProductsSQL)
	} else {
		rows, err = r.pool.Query(ctx, listProductsByCategorySQL, categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Create inserts a new catalog product.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, insertProductSQL,
		p.ID, p.Name, p.NameFR, p.Description, p.DescriptionFR, p.Price,
		p.CategoryID, p.ImageURL, p.Stock, p.Active, p.DiscountPercentage, p.Featured,
	)
	if err != nil {
		return fmt.Errorf("creating product %q: %w", p.ID, err)
	}
	return nil
}

// Update replaces the mutable fields of a product.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Name, p.NameFR, p.Description, p.DescriptionFR, p.Price,
		p.CategoryID, p.ImageURL, p.Stock, p.Active, p.DiscountPercentage, p.Featured,
	)
	if err != nil {
		return fmt.Errorf("updating product %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete removes a product from the catalog.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (r *ProductRepository) ListCategories(ctx context.Context) ([]product.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (product.Category, error) {
		var c product.Category
		err := row.Scan(&c.ID, &c.Name, &c.NameFR)
		return c, err
	})
}

// CreateCategory inserts a new category.
func (r *ProductRepository) CreateCategory(ctx context.Context, c *product.Category) error {
	_, err := r.pool.Exec(ctx, insertCategorySQL, c.ID, c.Name, c.NameFR)
	if err != nil {
		return fmt.Errorf("creating category %q: %w", c.ID, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.NameFR, &p.Description, &p.DescriptionFR, &p.Price,
		&p.CategoryID, &p.ImageURL, &p.Stock, &p.Active, &p.DiscountPercentage,
		&p.Featured, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
