package jsonfile

import (
	"path/filepath"
	"sync"

	"github.com/go-faster/errors"

	"github.com/oakhaus/furnish/internal/domain/order"
)

var _ order.Store = (*OrderStore)(nil)

// OrderStore implements order.Store backed by orders.json. Orders are held in
// memory in insertion order and every append is written through to disk
// before it is acknowledged.
type OrderStore struct {
	mu     sync.Mutex
	path   string
	orders []*order.Order
	byID   map[string]*order.Order
}

// OpenOrderStore loads orders.json from dataDir, creating an empty store when
// the file does not exist yet.
func OpenOrderStore(dataDir string) (*OrderStore, error) {
	s := &OrderStore{
		path: filepath.Join(dataDir, "orders.json"),
		byID: make(map[string]*order.Order),
	}

	var loaded []*order.Order
	if err := readFile(s.path, &loaded); err != nil {
		return nil, err
	}
	for _, o := range loaded {
		if _, ok := s.byID[o.ID]; ok {
			return nil, errors.Errorf("orders file contains duplicate id %q", o.ID)
		}
		s.orders = append(s.orders, o)
		s.byID[o.ID] = o
	}
	return s, nil
}

// Append records a new order and writes the store through to disk. An id
// collision means order creation is broken upstream; it is reported as an
// error and nothing is persisted.
func (s *OrderStore) Append(o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[o.ID]; ok {
		return errors.Errorf("order id collision: %q", o.ID)
	}

	cp := *o
	s.orders = append(s.orders, &cp)
	s.byID[cp.ID] = &cp

	if err := writeFile(s.path, s.orders); err != nil {
		// Keep memory and disk consistent: drop the order we failed to persist.
		s.orders = s.orders[:len(s.orders)-1]
		delete(s.byID, cp.ID)
		return err
	}
	return nil
}

// FindByID returns a copy of the order with the given id.
func (s *OrderStore) FindByID(id string) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.byID[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

// FindByUser returns copies of the user's orders in insertion order.
func (s *OrderStore) FindByUser(userID string) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*order.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}
