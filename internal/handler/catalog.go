package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kamga/mokolo/internal/domain/product"
)

// productView is the catalog wire form. Both language variants travel
// together; Name and Description are pre-localized for the request language.
type productView struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	NameFR             string          `json:"name_fr,omitempty"`
	Description        string          `json:"description,omitempty"`
	DescriptionFR      string          `json:"description_fr,omitempty"`
	Price              decimal.Decimal `json:"price"`
	DiscountedPrice    decimal.Decimal `json:"discounted_price"`
	DiscountPercentage int             `json:"discount_percentage,omitempty"`
	CategoryID         string          `json:"category_id,omitempty"`
	ImageURL           string          `json:"image_url,omitempty"`
	Stock              int             `json:"stock"`
	Featured           bool            `json:"featured,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

func toProductView(p product.Product, lang string) productView {
	v := productView{
		ID:                 p.ID,
		Name:               p.Name,
		NameFR:             p.NameFR,
		Description:        p.Description,
		DescriptionFR:      p.DescriptionFR,
		Price:              p.Price,
		DiscountedPrice:    p.DiscountedPrice(),
		DiscountPercentage: p.DiscountPercentage,
		CategoryID:         p.CategoryID,
		ImageURL:           p.ImageURL,
		Stock:              p.Stock,
		Featured:           p.Featured,
		CreatedAt:          p.CreatedAt,
	}
	if lang == "fr" {
		if p.NameFR != "" {
			v.Name = p.NameFR
		}
		if p.DescriptionFR != "" {
			v.Description = p.DescriptionFR
		}
	}
	return v
}

type categoryView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	NameFR string `json:"name_fr,omitempty"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	l := lang(r)
	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = toProductView(p, l)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductView(*p, lang(r)))
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	l := lang(r)
	views := make([]categoryView, len(categories))
	for i, c := range categories {
		views[i] = categoryView{ID: c.ID, Name: c.Name, NameFR: c.NameFR}
		if l == "fr" && c.NameFR != "" {
			views[i].Name = c.NameFR
		}
	}
	writeJSON(w, http.StatusOK, views)
}
