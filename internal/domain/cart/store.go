package cart

import "sync"

// Store keeps one Cart per user. It is the explicit, injectable replacement
// for what the storefront kept in a process-global singleton: handlers get a
// *Store and operate on it, nothing reaches for ambient state.
type Store struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// Get returns the cart for the given user, creating it on first use.
func (s *Store) Get(userID string) *Cart {
	s.mu.RLock()
	c, ok := s.carts[userID]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok = s.carts[userID]; ok {
		return c
	}
	c = &Cart{}
	s.carts[userID] = c
	return c
}

// With runs fn while holding the store's write lock, serializing all cart
// mutations for the user. The storefront had one logical writer per cart;
// the server preserves that by funnelling every mutation through here.
func (s *Store) With(userID string, fn func(*Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		c = &Cart{}
		s.carts[userID] = c
	}
	fn(c)
}

// Restore replaces the user's cart contents from a persisted snapshot.
func (s *Store) Restore(userID string, items []Item) {
	s.With(userID, func(c *Cart) {
		c.items = make([]Item, len(items))
		copy(c.items, items)
	})
}
