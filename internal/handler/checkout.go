package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kamga/mokolo/internal/checkout"
	"github.com/kamga/mokolo/internal/domain/order"
)

type checkoutView struct {
	ID        string     `json:"id"`
	State     string     `json:"state"`
	Error     string     `json:"error,omitempty"`
	Countdown int        `json:"countdown,omitempty"`
	Order     *orderView `json:"order,omitempty"`
}

func toCheckoutView(snap checkout.Snapshot, lang string) checkoutView {
	view := checkoutView{
		ID:        snap.ID,
		State:     string(snap.State),
		Error:     snap.Error,
		Countdown: snap.Countdown,
	}
	if snap.Order != nil {
		o := toOrderView(*snap.Order, lang)
		view.Order = &o
	}
	return view
}

func (h *Handler) startCheckout(w http.ResponseWriter, r *http.Request) {
	snap, err := h.checkout.Start(r.Context(), userID(r))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCheckoutView(snap, lang(r)))
}

func (h *Handler) getCheckout(w http.ResponseWriter, r *http.Request) {
	snap, err := h.checkout.Get(chi.URLParam(r, "id"), userID(r))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutView(snap, lang(r)))
}

type shippingRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Notes    string `json:"notes,omitempty"`
}

func (h *Handler) submitShipping(w http.ResponseWriter, r *http.Request) {
	var req shippingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.checkout.SubmitShipping(r.Context(), chi.URLParam(r, "id"), userID(r), checkout.ShippingInfo{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		Notes:    req.Notes,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutView(snap, lang(r)))
}

type paymentRequest struct {
	Method string `json:"method"`
	Phone  string `json:"phone,omitempty"`
}

func (h *Handler) submitPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.checkout.SubmitPayment(r.Context(), chi.URLParam(r, "id"), userID(r), checkout.PaymentInfo{
		Method: order.PaymentMethod(req.Method),
		Phone:  req.Phone,
	})
	if err != nil {
		// A failed payment leaves the session retryable; the snapshot rides
		// along with the error so the client sees the payment step again.
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutView(snap, lang(r)))
}

func (h *Handler) continueCheckout(w http.ResponseWriter, r *http.Request) {
	snap, err := h.checkout.Continue(chi.URLParam(r, "id"), userID(r))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutView(snap, lang(r)))
}
