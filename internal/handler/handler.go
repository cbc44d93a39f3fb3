// Package handler exposes the storefront API over HTTP. Identity comes from
// the X-User-ID header set by the auth gateway in front of this service;
// admin routes additionally require the profile admin flag.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/kamga/mokolo/internal/checkout"
	"github.com/kamga/mokolo/internal/domain/cart"
	"github.com/kamga/mokolo/internal/domain/order"
	"github.com/kamga/mokolo/internal/domain/product"
	"github.com/kamga/mokolo/internal/domain/profile"
	"github.com/kamga/mokolo/internal/domain/reward"
	"github.com/kamga/mokolo/internal/notify"
	"github.com/kamga/mokolo/internal/payment"
	"github.com/kamga/mokolo/internal/prefs"
)

// userIDHeader carries the authenticated user for every request.
const userIDHeader = "X-User-ID"

// Handler holds every dependency the API routes need.
type Handler struct {
	products   product.Repository
	categories product.CategoryRepository
	carts      *cart.Store
	checkout   *checkout.Service
	orders     order.Repository
	rewards    *reward.Service
	profiles   profile.Repository
	prefs      prefs.Store
	notifier   *notify.Hub
}

// New creates a Handler.
func New(
	products product.Repository,
	categories product.CategoryRepository,
	carts *cart.Store,
	co *checkout.Service,
	orders order.Repository,
	rewards *reward.Service,
	profiles profile.Repository,
	prefStore prefs.Store,
	notifier *notify.Hub,
) *Handler {
	return &Handler{
		products:   products,
		categories: categories,
		carts:      carts,
		checkout:   co,
		orders:     orders,
		rewards:    rewards,
		profiles:   profiles,
		prefs:      prefStore,
		notifier:   notifier,
	}
}

// Routes builds the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)
		r.Get("/categories", h.listCategories)

		r.Group(func(r chi.Router) {
			r.Use(h.requireUser)

			r.Get("/cart", h.getCart)
			r.Post("/cart/items", h.addCartItem)
			r.Put("/cart/items/{productID}", h.updateCartItem)
			r.Delete("/cart/items/{productID}", h.removeCartItem)
			r.Delete("/cart", h.clearCart)

			r.Post("/checkout", h.startCheckout)
			r.Get("/checkout/{id}", h.getCheckout)
			r.Post("/checkout/{id}/shipping", h.submitShipping)
			r.Post("/checkout/{id}/payment", h.submitPayment)
			r.Post("/checkout/{id}/continue", h.continueCheckout)

			r.Get("/orders", h.listOrders)

			r.Get("/rewards", h.listRewards)
			r.Post("/rewards/{id}/claim", h.claimReward)
			r.Post("/login-event", h.loginEvent)

			r.Get("/profile", h.getProfile)
			r.Put("/profile", h.updateProfile)

			r.Get("/prefs", h.getPrefs)
			r.Put("/prefs", h.putPrefs)

			r.Get("/events", h.events)

			r.Route("/admin", func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Put("/orders/{id}/status", h.updateOrderStatus)
			})
		})
	})

	return r
}

// requireUser rejects requests without an identity header.
func (h *Handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(userIDHeader) == "" {
			writeError(w, http.StatusUnauthorized, "missing "+userIDHeader+" header")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin gates admin routes on the caller's profile flag.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := h.profiles.Get(r.Context(), userID(r))
		if err != nil {
			if errors.Is(err, profile.ErrNotFound) {
				writeError(w, http.StatusForbidden, "admin access required")
				return
			}
			h.internalError(w, r, err)
			return
		}
		if !p.IsAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userID(r *http.Request) string {
	return r.Header.Get(userIDHeader)
}

// lang returns the response language, "en" unless ?lang=fr.
func lang(r *http.Request) string {
	if r.URL.Query().Get("lang") == "fr" {
		return "fr"
	}
	return "en"
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// writeDomainError maps domain errors to HTTP statuses. Validation failures
// carry the offending field so clients can surface them inline.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		fieldErr   *checkout.FieldError
		payErr     *payment.ValidationError
		transition *checkout.TransitionError
		stock      *checkout.InsufficientStockError
	)
	switch {
	case errors.As(err, &fieldErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: fieldErr.Reason, Field: fieldErr.Field})
	case errors.As(err, &payErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: payErr.Reason, Field: payErr.Field})
	case errors.Is(err, payment.ErrDeclined):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.As(err, &transition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &stock):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrCartEmpty):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrSessionNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, reward.ErrNotFound),
		errors.Is(err, profile.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.internalError(w, r, err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, "decode body")
	}
	return nil
}
