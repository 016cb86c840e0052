package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Store hands out one Cart and one Wishlist per session key (the
// authenticated user id). Entries are created on first use.
type Store struct {
	mu        sync.RWMutex
	carts     map[uuid.UUID]*Cart
	wishlists map[uuid.UUID]*Wishlist
}

func NewStore() *Store {
	return &Store{
		carts:     make(map[uuid.UUID]*Cart),
		wishlists: make(map[uuid.UUID]*Wishlist),
	}
}

func (s *Store) Cart(key uuid.UUID) *Cart {
	s.mu.RLock()
	c, ok := s.carts[key]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[key]; ok {
		return c
	}
	c = New()
	s.carts[key] = c
	return c
}

func (s *Store) Wishlist(key uuid.UUID) *Wishlist {
	s.mu.RLock()
	w, ok := s.wishlists[key]
	s.mu.RUnlock()
	if ok {
		return w
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wishlists[key]; ok {
		return w
	}
	w = NewWishlist()
	s.wishlists[key] = w
	return w
}
