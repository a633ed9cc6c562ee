// Package handler exposes the store's operations over HTTP, mapping domain
// results and typed errors onto JSON responses and status codes.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/oakhaus/furnish/internal/domain/cart"
	"github.com/oakhaus/furnish/internal/domain/catalog"
	"github.com/oakhaus/furnish/internal/domain/checkout"
	"github.com/oakhaus/furnish/internal/domain/discount"
	"github.com/oakhaus/furnish/internal/domain/order"
)

// Handler carries the domain collaborators behind every route.
type Handler struct {
	catalog  *catalog.Catalog
	locator  *catalog.Locator
	carts    *cart.Manager
	checkout *checkout.Service
	orders   order.Store
}

// New constructs a Handler with the required domain dependencies.
func New(
	c *catalog.Catalog,
	locator *catalog.Locator,
	carts *cart.Manager,
	checkoutSvc *checkout.Service,
	orders order.Store,
) *Handler {
	return &Handler{
		catalog:  c,
		locator:  locator,
		carts:    carts,
		checkout: checkoutSvc,
		orders:   orders,
	}
}

// Register mounts every API route on the mux. Cart, checkout, and order
// routes expect an authenticated user in the request context; the security
// middleware guarantees that for everything under /api/.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/furniture", h.listFurniture)
	mux.HandleFunc("GET /api/furniture/{id}", h.getFurniture)
	mux.HandleFunc("POST /api/furniture", h.addFurniture)
	mux.HandleFunc("PUT /api/furniture/{id}/quantity", h.updateFurnitureQuantity)
	mux.HandleFunc("DELETE /api/furniture/{id}", h.removeFurniture)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/items", h.addCartItem)
	mux.HandleFunc("POST /api/cart/find-and-add", h.findAndAdd)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.removeCartItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", h.updateCartItem)
	mux.HandleFunc("POST /api/cart/discount", h.applyDiscount)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)

	mux.HandleFunc("POST /api/checkout", h.processCheckout)
	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)

	h.registerEnums(mux)
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps a domain error onto an HTTP status and a JSON body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zctx.From(r.Context()).Error("internal error", zap.Error(err))
		respondJSON(w, status, errorResponse{Code: status, Message: "internal server error"})
		return
	}
	respondJSON(w, status, errorResponse{Code: status, Message: err.Error()})
}

func statusFor(err error) int {
	var (
		stockErr *catalog.InsufficientStockError
		attrErr  *catalog.InvalidAttributeError
	)
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, catalog.ErrNoMatch),
		errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrDuplicateID):
		return http.StatusConflict
	case errors.As(err, &stockErr),
		errors.Is(err, cart.ErrNotInCart),
		errors.Is(err, cart.ErrDiscountExceedsSubtotal),
		errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrInvalidRange),
		errors.Is(err, catalog.ErrUnknownAttribute),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, discount.ErrUnknownStrategy),
		errors.Is(err, order.ErrUnsupportedPaymentMethod),
		errors.As(err, &attrErr),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errBadRequest marks request decoding and validation failures.
var errBadRequest = errors.New("bad request")

func badRequest(msg string) error {
	return errors.Wrap(errBadRequest, msg)
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}
	return nil
}
