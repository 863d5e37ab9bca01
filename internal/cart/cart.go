// Package cart holds each customer's in-progress selection before it
// becomes an order. Carts are process-local working state, keyed by
// customer id rather than hidden in per-connection session data, so any
// handler acting for that customer sees the same cart.
package cart

import (
	"sync"

	"github.com/samber/lo"
)

type Service struct {
	mu    sync.Mutex
	carts map[int64]map[int64]int // customer id -> menu item id -> quantity
}

func NewService() *Service {
	return &Service{carts: make(map[int64]map[int64]int)}
}

// Add increments the quantity of an item and returns the cart's new total
// item count.
func (s *Service) Add(customerID, menuItemID int64, quantity int) int {
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[customerID]
	if !ok {
		c = make(map[int64]int)
		s.carts[customerID] = c
	}
	c[menuItemID] += quantity

	return lo.Sum(lo.Values(c))
}

// Remove drops an item from the cart entirely. No error if absent.
func (s *Service) Remove(customerID, menuItemID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[customerID]; ok {
		delete(c, menuItemID)
		if len(c) == 0 {
			delete(s.carts, customerID)
		}
	}
}

// Items returns a copy of the customer's cart.
func (s *Service) Items(customerID int64) map[int64]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.carts[customerID]
	out := make(map[int64]int, len(c))
	for id, qty := range c {
		out[id] = qty
	}
	return out
}

// Count returns the total item count across the cart.
func (s *Service) Count(customerID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Sum(lo.Values(s.carts[customerID]))
}

// Clear empties the cart, called after a successful order.
func (s *Service) Clear(customerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, customerID)
}
