package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors for catalog operations.
var (
	ErrNotFound         = errors.New("furniture not found")
	ErrDuplicateID      = errors.New("duplicate furniture id")
	ErrInvalidQuantity  = errors.New("quantity cannot be negative")
	ErrInvalidRange     = errors.New("min price must not exceed max price")
	ErrUnknownAttribute = errors.New("unknown furniture attribute")
)

// InsufficientStockError reports a reservation shortfall for one item.
type InsufficientStockError struct {
	ID        string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ID, e.Requested, e.Available)
}

// ReserveLine is a requested (or committed) stock decrement for one item.
// UnitPrice is stamped from the catalog at commit time.
type ReserveLine struct {
	ID        string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Catalog is the authoritative in-memory set of furniture items and stock
// levels. All methods are safe for concurrent use; reads return copies.
//
// Mutations mark the catalog dirty; the persistence collaborator polls
// Dirty and snapshots via Snapshot, then acknowledges with MarkClean.
type Catalog struct {
	mu    sync.RWMutex
	items map[string]*Item
	dirty bool
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{items: make(map[string]*Item)}
}

// Load replaces the catalog contents with the given items, validating each.
// Used by the persistence layer at startup; does not mark the catalog dirty.
func (c *Catalog) Load(items []Item) error {
	loaded := make(map[string]*Item, len(items))
	for i := range items {
		it := items[i]
		it.Normalize()
		if err := it.Validate(); err != nil {
			return errors.Wrapf(err, "item %q", it.ID)
		}
		if it.ID == "" {
			return errors.New("loaded item is missing an id")
		}
		if _, ok := loaded[it.ID]; ok {
			return errors.Wrapf(ErrDuplicateID, "item %q", it.ID)
		}
		loaded[it.ID] = &it
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = loaded
	c.dirty = false
	return nil
}

// Add inserts a new item. An empty id is assigned a generated UUID; an
// already-present id is rejected with ErrDuplicateID. Returns the stored copy.
func (c *Catalog) Add(it Item) (Item, error) {
	it.Normalize()
	if err := it.Validate(); err != nil {
		return Item{}, err
	}
	if it.ID == "" {
		it.ID = uuid.New().String()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[it.ID]; ok {
		return Item{}, ErrDuplicateID
	}
	c.items[it.ID] = &it
	c.dirty = true
	return it, nil
}

// FindByID returns a copy of the item with the given id.
func (c *Catalog) FindByID(id string) (Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return *it, nil
}

// FindByName returns items whose name or kind matches the term
// case-insensitively. When exact is false a substring match is used.
func (c *Catalog) FindByName(term string, exact bool) []Item {
	term = strings.ToLower(term)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Item
	for _, it := range c.items {
		name := strings.ToLower(it.Name)
		kind := string(it.Kind)
		var match bool
		if exact {
			match = name == term || kind == term
		} else {
			match = strings.Contains(name, term) || strings.Contains(kind, term)
		}
		if match {
			out = append(out, *it)
		}
	}
	sortByID(out)
	return out
}

// FindByPriceRange returns items priced within [min, max] inclusive.
func (c *Catalog) FindByPriceRange(min, max decimal.Decimal) ([]Item, error) {
	if min.GreaterThan(max) {
		return nil, ErrInvalidRange
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Item
	for _, it := range c.items {
		if it.Price.GreaterThanOrEqual(min) && it.Price.LessThanOrEqual(max) {
			out = append(out, *it)
		}
	}
	sortByID(out)
	return out, nil
}

// FindByAttribute returns items whose named attribute equals the given value
// (case-insensitive). The key must name an attribute of at least one
// furniture kind.
func (c *Catalog) FindByAttribute(key, value string) ([]Item, error) {
	if !KnownAttribute(key) {
		return nil, errors.Wrapf(ErrUnknownAttribute, "%q", key)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Item
	for _, it := range c.items {
		if v, ok := it.AttributeValue(key); ok && strings.EqualFold(v, value) {
			out = append(out, *it)
		}
	}
	sortByID(out)
	return out, nil
}

// All returns a copy of every item, ordered by id.
func (c *Catalog) All() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, *it)
	}
	sortByID(out)
	return out
}

// UpdateQuantity sets the stock level for an item. Negative quantities are
// rejected; zero marks the item out of stock without removing it.
func (c *Catalog) UpdateQuantity(id string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[id]
	if !ok {
		return ErrNotFound
	}
	it.Quantity = quantity
	c.dirty = true
	return nil
}

// Remove deletes an item from the catalog.
func (c *Catalog) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return ErrNotFound
	}
	delete(c.items, id)
	c.dirty = true
	return nil
}

// Exists reports whether an item with the given id is present.
func (c *Catalog) Exists(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[id]
	return ok
}

// Reserve validates stock for every line and then decrements all quantities,
// under a single lock so no other reservation can interleave between the
// check and the commit. On any shortfall nothing is decremented and an
// InsufficientStockError for the first failing line is returned. The returned
// lines carry the unit price of each item at commit time.
func (c *Catalog) Reserve(lines []ReserveLine) ([]ReserveLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Validate every line before touching any quantity.
	for _, l := range lines {
		it, ok := c.items[l.ID]
		if !ok {
			return nil, errors.Wrapf(ErrNotFound, "%q", l.ID)
		}
		if it.Quantity < l.Quantity {
			return nil, &InsufficientStockError{ID: l.ID, Requested: l.Quantity, Available: it.Quantity}
		}
	}

	committed := make([]ReserveLine, len(lines))
	for i, l := range lines {
		it := c.items[l.ID]
		it.Quantity -= l.Quantity
		committed[i] = ReserveLine{ID: l.ID, Quantity: l.Quantity, UnitPrice: it.Price}
	}
	c.dirty = true
	return committed, nil
}

// Release restores previously reserved quantities. Used to roll back a
// reservation when a later checkout step fails.
func (c *Catalog) Release(lines []ReserveLine) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range lines {
		if it, ok := c.items[l.ID]; ok {
			it.Quantity += l.Quantity
		}
	}
	c.dirty = true
}

// Dirty reports whether the catalog has unpersisted mutations.
func (c *Catalog) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// Snapshot returns a copy of all items for persistence.
func (c *Catalog) Snapshot() []Item {
	return c.All()
}

// MarkClean clears the dirty flag after a successful flush.
func (c *Catalog) MarkClean() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = false
}

func sortByID(items []Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}
