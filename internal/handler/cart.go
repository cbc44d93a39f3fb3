package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/kamga/mokolo/internal/domain/cart"
	"github.com/kamga/mokolo/internal/domain/product"
)

type cartLineView struct {
	Product   productView     `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type cartView struct {
	Items     []cartLineView  `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

func toCartView(items []cart.Item, total decimal.Decimal, count int, lang string) cartView {
	view := cartView{
		Items:     make([]cartLineView, len(items)),
		Total:     total,
		ItemCount: count,
	}
	for i, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		view.Items[i] = cartLineView{
			Product:   toProductView(item.Product, lang),
			Quantity:  item.Quantity,
			LineTotal: item.Product.DiscountedPrice().Mul(qty),
		}
	}
	return view
}

// cartResponse snapshots the user's cart under the store lock.
func (h *Handler) cartResponse(userID, lang string) cartView {
	var view cartView
	h.carts.With(userID, func(c *cart.Cart) {
		view = toCartView(c.Items(), c.Total(), c.ItemCount(), lang)
	})
	return view
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cartResponse(userID(r), lang(r)))
}

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "required", Field: "product_id"})
		return
	}

	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if !p.Active {
		writeError(w, http.StatusConflict, "product is not available")
		return
	}

	h.carts.With(userID(r), func(c *cart.Cart) {
		c.Add(*p, req.Quantity)
	})
	writeJSON(w, http.StatusOK, h.cartResponse(userID(r), lang(r)))
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID := chi.URLParam(r, "productID")
	h.carts.With(userID(r), func(c *cart.Cart) {
		c.UpdateQuantity(productID, req.Quantity)
	})
	writeJSON(w, http.StatusOK, h.cartResponse(userID(r), lang(r)))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	h.carts.With(userID(r), func(c *cart.Cart) {
		c.Remove(productID)
	})
	writeJSON(w, http.StatusOK, h.cartResponse(userID(r), lang(r)))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.carts.With(userID(r), func(c *cart.Cart) {
		c.Clear()
	})
	writeJSON(w, http.StatusOK, h.cartResponse(userID(r), lang(r)))
}

// refreshCartProducts re-resolves cart product snapshots against the catalog.
// Used when a persisted snapshot is restored; lines whose product vanished
// from the catalog are dropped.
func (h *Handler) refreshCartProducts(r *http.Request, items []cart.Item) ([]cart.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.Product.ID
	}
	products, err := h.products.GetByIDs(r.Context(), ids)
	if err != nil {
		return nil, errors.Wrap(err, "resolve cart products")
	}

	byID := make(map[string]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]cart.Item, 0, len(items))
	for _, item := range items {
		p, ok := byID[item.Product.ID]
		if !ok || !p.Active {
			continue
		}
		out = append(out, cart.Item{Product: p, Quantity: item.Quantity})
	}
	return out, nil
}
