package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kamga/mokolo/internal/domain/order"
)

type orderItemView struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type orderView struct {
	ID              string          `json:"id"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   string          `json:"payment_method"`
	TransactionID   string          `json:"transaction_id,omitempty"`
	ShippingAddress string          `json:"shipping_address"`
	Phone           string          `json:"phone"`
	Notes           string          `json:"notes,omitempty"`
	Status          string          `json:"status"`
	StatusText      string          `json:"status_text"`
	Items           []orderItemView `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toOrderView(o order.Order, lang string) orderView {
	view := orderView{
		ID:              o.ID,
		Total:           o.Total,
		PaymentMethod:   string(o.PaymentMethod),
		TransactionID:   o.TransactionID,
		ShippingAddress: o.ShippingAddress,
		Phone:           o.Phone,
		Notes:           o.Notes,
		Status:          string(o.Status),
		StatusText:      o.Status.Text(lang),
		Items:           make([]orderItemView, len(o.Items)),
		CreatedAt:       o.CreatedAt,
	}
	for i, item := range o.Items {
		view.Items[i] = orderItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	return view
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByUser(r.Context(), userID(r))
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	l := lang(r)
	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = toOrderView(o, l)
	}
	writeJSON(w, http.StatusOK, views)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := order.Status(req.Status)
	if !status.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "unknown status", Field: "status"})
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      string(status),
		"status_text": status.Text(lang(r)),
	})
}
