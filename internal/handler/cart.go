package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/oakhaus/furnish/internal/domain/catalog"
	"github.com/oakhaus/furnish/internal/domain/discount"
)

// cartView is the wire representation of a user's cart.
type cartView struct {
	Lines    []cartLineView  `json:"lines"`
	Discount discount.Spec   `json:"discount"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}

type cartLineView struct {
	Item     furnitureView   `json:"item"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func (h *Handler) cartViewFor(userID string) cartView {
	lines := h.carts.Lines(userID)
	views := make([]cartLineView, len(lines))
	for i, l := range lines {
		views[i] = cartLineView{Item: viewOf(l.Item), Quantity: l.Quantity, Subtotal: l.Subtotal}
	}
	return cartView{
		Lines:    views,
		Discount: h.carts.Discount(userID),
		Subtotal: h.carts.Subtotal(userID),
		Total:    h.carts.Total(userID),
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartViewFor(UserID(r.Context())))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FurnitureID string `json:"furniture_id"`
		Quantity    int    `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	userID := UserID(r.Context())
	if err := h.carts.AddItem(userID, req.FurnitureID, req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartViewFor(userID))
}

// findAndAdd resolves a furniture item from descriptive criteria and adds it
// to the cart, for clients that do not know ids.
func (h *Handler) findAndAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name               string            `json:"name"`
		Attributes         map[string]string `json:"attributes"`
		DescriptionKeyword string            `json:"description_keyword"`
		Quantity           int               `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Name == "" {
		respondError(w, r, badRequest("name is required"))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	it, err := h.locator.Locate(catalog.Criteria{
		Name:               req.Name,
		Attrs:              req.Attributes,
		DescriptionKeyword: req.DescriptionKeyword,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	userID := UserID(r.Context())
	if err := h.carts.AddItem(userID, it.ID, req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartViewFor(userID))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	// quantity=0 (or omitted) removes the entry entirely.
	qty := 0
	if q := r.URL.Query().Get("quantity"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			respondError(w, r, badRequest("invalid quantity"))
			return
		}
		qty = n
	}

	userID := UserID(r.Context())
	if err := h.carts.RemoveItem(userID, r.PathValue("id"), qty); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartViewFor(userID))
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	userID := UserID(r.Context())
	if err := h.carts.UpdateQuantity(userID, r.PathValue("id"), req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartViewFor(userID))
}

// applyDiscount selects a discount strategy by name and applies it to the
// user's cart.
func (h *Handler) applyDiscount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type  string          `json:"type"`
		Value decimal.Decimal `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	spec, err := discount.Parse(req.Type, req.Value)
	if err != nil {
		respondError(w, r, err)
		return
	}

	userID := UserID(r.Context())
	if err := h.carts.ApplyDiscount(userID, spec); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartViewFor(userID))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.carts.Clear(UserID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}
