//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != seededProducts {
		t.Fatalf("expected %d products, got %d", seededProducts, len(products))
	}
}

func TestGetProduct_Discount(t *testing.T) {
	resp := doGet(t, "/api/products/oku-honey-500g", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)
	if p.Name != "Oku White Honey 500g" {
		t.Errorf("name: got %q", p.Name)
	}
	if p.Price != 6000 {
		t.Errorf("price: got %v, want 6000", p.Price)
	}
	if p.DiscountPercentage != 20 {
		t.Errorf("discount: got %d, want 20", p.DiscountPercentage)
	}
	if p.DiscountedPrice != 4800 {
		t.Errorf("discounted price: got %v, want 4800", p.DiscountedPrice)
	}
}

func TestGetProduct_French(t *testing.T) {
	resp := doGet(t, "/api/products/oku-honey-500g?lang=fr", "")
	defer resp.Body.Close()

	p := decodeJSON[productResponse](t, resp)
	if p.Name != "Miel blanc d'Oku 500g" {
		t.Errorf("localized name: got %q", p.Name)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/no-such-product", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListProducts_ByCategory(t *testing.T) {
	resp := doGet(t, "/api/products?category=crafts", "")
	defer resp.Body.Close()

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 2 {
		t.Fatalf("expected 2 craft products, got %d", len(products))
	}
	for _, p := range products {
		if p.CategoryID != "crafts" {
			t.Errorf("product %s has category %q", p.ID, p.CategoryID)
		}
	}
}

func TestListCategories(t *testing.T) {
	resp := doGet(t, "/api/categories", "")
	defer resp.Body.Close()

	categories := decodeJSON[[]categoryResponse](t, resp)
	if len(categories) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(categories))
	}
}
