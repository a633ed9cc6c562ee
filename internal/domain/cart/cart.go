// Package cart manages per-user pending-purchase selections.
//
// A cart maps furniture ids to quantities plus an optional discount spec.
// Prices are resolved from the catalog at computation time, never cached, so
// catalog price changes are reflected live until checkout locks them in.
package cart

import (
	"sort"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/oakhaus/furnish/internal/domain/catalog"
	"github.com/oakhaus/furnish/internal/domain/discount"
)

// Sentinel errors for cart operations.
var (
	ErrInvalidQuantity         = errors.New("quantity must be at least 1")
	ErrNotInCart               = errors.New("item not in cart")
	ErrDiscountExceedsSubtotal = errors.New("fixed discount exceeds cart subtotal")
)

// Entry is one cart line: a furniture id and its requested quantity.
type Entry struct {
	FurnitureID string `json:"furniture_id"`
	Quantity    int    `json:"quantity"`
}

// Line is an Entry enriched with catalog data for presentation.
type Line struct {
	Item     catalog.Item    `json:"item"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// userCart holds one user's entries and applied discount.
type userCart struct {
	entries  map[string]int
	discount discount.Spec
}

// Manager owns every user's cart. A cart is created empty on first access.
// One mutex guards all carts; cart operations are short and synchronous.
type Manager struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	carts   map[string]*userCart
}

// NewManager creates a cart Manager resolving prices from the given catalog.
func NewManager(c *catalog.Catalog) *Manager {
	return &Manager{
		catalog: c,
		carts:   make(map[string]*userCart),
	}
}

// cartFor returns the user's cart, creating it when absent.
// Caller must hold m.mu.
func (m *Manager) cartFor(userID string) *userCart {
	uc, ok := m.carts[userID]
	if !ok {
		uc = &userCart{entries: make(map[string]int), discount: discount.None()}
		m.carts[userID] = uc
	}
	return uc
}

// AddItem adds quantity of the given furniture to the user's cart,
// incrementing an existing entry. The id must exist in the catalog.
func (m *Manager) AddItem(userID, furnitureID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if !m.catalog.Exists(furnitureID) {
		return errors.Wrapf(catalog.ErrNotFound, "%q", furnitureID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	uc := m.cartFor(userID)
	uc.entries[furnitureID] += quantity
	return nil
}

// RemoveItem removes quantity of the given furniture from the user's cart.
// A non-positive quantity removes the entry entirely, as does removing at
// least the current quantity.
func (m *Manager) RemoveItem(userID, furnitureID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	uc := m.cartFor(userID)
	current, ok := uc.entries[furnitureID]
	if !ok {
		return ErrNotInCart
	}
	if quantity <= 0 || quantity >= current {
		delete(uc.entries, furnitureID)
		return nil
	}
	uc.entries[furnitureID] = current - quantity
	return nil
}

// UpdateQuantity sets the entry's quantity. Zero removes the entry;
// negative quantities are rejected.
func (m *Manager) UpdateQuantity(userID, furnitureID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity > 0 && !m.catalog.Exists(furnitureID) {
		return errors.Wrapf(catalog.ErrNotFound, "%q", furnitureID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	uc := m.cartFor(userID)
	if _, ok := uc.entries[furnitureID]; !ok {
		return ErrNotInCart
	}
	if quantity == 0 {
		delete(uc.entries, furnitureID)
		return nil
	}
	uc.entries[furnitureID] = quantity
	return nil
}

// Clear empties the user's cart and resets its discount.
func (m *Manager) Clear(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	uc := m.cartFor(userID)
	uc.entries = make(map[string]int)
	uc.discount = discount.None()
}

// Entries returns the user's cart entries ordered by furniture id. Entries
// whose furniture no longer exists in the catalog are pruned first.
func (m *Manager) Entries(userID string) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	uc := m.cartFor(userID)
	m.pruneLocked(uc)

	out := make([]Entry, 0, len(uc.entries))
	for id, qty := range uc.entries {
		out = append(out, Entry{FurnitureID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FurnitureID < out[j].FurnitureID })
	return out
}

// Lines returns the user's cart resolved against the catalog, with per-line
// subtotals at current prices.
func (m *Manager) Lines(userID string) []Line {
	entries := m.Entries(userID)

	lines := make([]Line, 0, len(entries))
	for _, e := range entries {
		it, err := m.catalog.FindByID(e.FurnitureID)
		if err != nil {
			continue
		}
		qty := decimal.NewFromInt(int64(e.Quantity))
		lines = append(lines, Line{
			Item:     it,
			Quantity: e.Quantity,
			Subtotal: it.Price.Mul(qty),
		})
	}
	return lines
}

// Subtotal sums unit price times quantity over the user's entries, resolving
// prices from the catalog at call time.
func (m *Manager) Subtotal(userID string) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range m.Lines(userID) {
		sum = sum.Add(l.Subtotal)
	}
	return sum
}

// ApplyDiscount validates the spec against the current subtotal and stores
// it on the user's cart. A fixed amount greater than the subtotal is rejected
// at application time; if the subtotal later shrinks, Total clamps at zero
// instead.
func (m *Manager) ApplyDiscount(userID string, spec discount.Spec) error {
	if spec.Kind == discount.KindFixed && spec.Value.GreaterThan(m.Subtotal(userID)) {
		return ErrDiscountExceedsSubtotal
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cartFor(userID).discount = spec
	return nil
}

// Discount returns the user's currently applied discount spec.
func (m *Manager) Discount(userID string) discount.Spec {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cartFor(userID).discount
}

// Total applies the cart's discount to the live subtotal, floored at zero.
func (m *Manager) Total(userID string) decimal.Decimal {
	subtotal := m.Subtotal(userID)
	return m.Discount(userID).Apply(subtotal)
}

// IsEmpty reports whether the user's cart holds no entries.
func (m *Manager) IsEmpty(userID string) bool {
	return len(m.Entries(userID)) == 0
}

// pruneLocked drops entries referencing furniture no longer in the catalog,
// keeping the cart invariant that every entry resolves. Caller holds m.mu.
func (m *Manager) pruneLocked(uc *userCart) {
	for id := range uc.entries {
		if !m.catalog.Exists(id) {
			delete(uc.entries, id)
		}
	}
}
