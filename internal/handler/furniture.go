package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/oakhaus/furnish/internal/domain/catalog"
)

// furnitureView is the wire representation of a catalog item.
type furnitureView struct {
	ID          string             `json:"id"`
	Kind        string             `json:"kind"`
	Name        string             `json:"name"`
	Price       decimal.Decimal    `json:"price"`
	Quantity    int                `json:"quantity"`
	Description string             `json:"description,omitempty"`
	Attributes  catalog.Attributes `json:"attributes"`
}

func viewOf(it catalog.Item) furnitureView {
	return furnitureView{
		ID:          it.ID,
		Kind:        string(it.Kind),
		Name:        it.Name,
		Price:       it.Price,
		Quantity:    it.Quantity,
		Description: it.Description,
		Attributes:  it.Attrs,
	}
}

func viewsOf(items []catalog.Item) []furnitureView {
	out := make([]furnitureView, len(items))
	for i, it := range items {
		out[i] = viewOf(it)
	}
	return out
}

// listFurniture returns the catalog, optionally filtered by name, price
// range, or one attribute constraint. Filters combine by intersection.
func (h *Handler) listFurniture(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	items := h.catalog.All()

	if name := q.Get("name"); name != "" {
		exact := q.Get("exact") == "true"
		items = intersect(items, h.catalog.FindByName(name, exact))
	}

	if q.Get("min_price") != "" || q.Get("max_price") != "" {
		min, max, err := parsePriceRange(q.Get("min_price"), q.Get("max_price"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		ranged, err := h.catalog.FindByPriceRange(min, max)
		if err != nil {
			respondError(w, r, err)
			return
		}
		items = intersect(items, ranged)
	}

	if key := q.Get("attribute"); key != "" {
		matched, err := h.catalog.FindByAttribute(key, q.Get("value"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		items = intersect(items, matched)
	}

	respondJSON(w, http.StatusOK, viewsOf(items))
}

func parsePriceRange(minStr, maxStr string) (min, max decimal.Decimal, err error) {
	min = decimal.Zero
	// Effectively unbounded when max_price is omitted.
	max = decimal.New(1, 12)
	if minStr != "" {
		if min, err = decimal.NewFromString(minStr); err != nil {
			return min, max, badRequest("invalid min_price")
		}
	}
	if maxStr != "" {
		if max, err = decimal.NewFromString(maxStr); err != nil {
			return min, max, badRequest("invalid max_price")
		}
	}
	return min, max, nil
}

// intersect keeps the items of a that also appear in b, preserving a's order.
func intersect(a, b []catalog.Item) []catalog.Item {
	ids := make(map[string]struct{}, len(b))
	for _, it := range b {
		ids[it.ID] = struct{}{}
	}
	out := a[:0:0]
	for _, it := range a {
		if _, ok := ids[it.ID]; ok {
			out = append(out, it)
		}
	}
	return out
}

func (h *Handler) getFurniture(w http.ResponseWriter, r *http.Request) {
	it, err := h.catalog.FindByID(r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, viewOf(it))
}

// addFurnitureRequest mirrors furnitureView minus the server-assigned id.
type addFurnitureRequest struct {
	Kind        string             `json:"kind"`
	Name        string             `json:"name"`
	Price       decimal.Decimal    `json:"price"`
	Quantity    int                `json:"quantity"`
	Description string             `json:"description"`
	Attributes  catalog.Attributes `json:"attributes"`
}

func (h *Handler) addFurniture(w http.ResponseWriter, r *http.Request) {
	var req addFurnitureRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	kind, ok := catalog.ParseKind(req.Kind)
	if !ok {
		respondError(w, r, badRequest("unsupported furniture kind"))
		return
	}

	it, err := h.catalog.Add(catalog.Item{
		Kind:        kind,
		Name:        req.Name,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
		Attrs:       req.Attributes,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, viewOf(it))
}

func (h *Handler) updateFurnitureQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.catalog.UpdateQuantity(r.PathValue("id"), req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeFurniture(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Remove(r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
