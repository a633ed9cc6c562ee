package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oakhaus/furnish/internal/domain/order"
)

// orderView is the wire representation of a completed order.
type orderView struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Lines         []orderLineView `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type orderLineView struct {
	FurnitureID string          `json:"furniture_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func orderViewOf(o *order.Order) orderView {
	lines := make([]orderLineView, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = orderLineView{FurnitureID: l.FurnitureID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return orderView{
		ID:            o.ID,
		UserID:        o.UserID,
		Lines:         lines,
		Total:         o.Total,
		PaymentMethod: string(o.PaymentMethod),
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
	}
}

// processCheckout runs the checkout pipeline for the authenticated user.
func (h *Handler) processCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	o, err := h.checkout.Checkout(UserID(r.Context()), req.PaymentMethod)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, orderViewOf(o))
}

// listOrders returns the authenticated user's orders in insertion order.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.FindByUser(UserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = orderViewOf(o)
	}
	respondJSON(w, http.StatusOK, views)
}

// getOrder returns one order. Users can only read their own orders.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.FindByID(r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if o.UserID != UserID(r.Context()) {
		respondError(w, r, order.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, orderViewOf(o))
}
