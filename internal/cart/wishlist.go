package cart

import (
	"sync"

	"github.com/google/uuid"

	"github.com/osikani/kente-storefront-api/internal/model"
)

// Wishlist is a set of saved product snapshots. Membership is a toggle, the
// way the UI always presents it.
type Wishlist struct {
	mu       sync.Mutex
	products []model.Product // insertion order, stable for display
}

func NewWishlist() *Wishlist {
	return &Wishlist{}
}

// Toggle adds the product if absent and removes it if present. The return
// value reports whether the product is in the wishlist afterwards.
func (w *Wishlist) Toggle(product model.Product) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.products {
		if w.products[i].ID == product.ID {
			w.products = append(w.products[:i], w.products[i+1:]...)
			return false
		}
	}
	w.products = append(w.products, product)
	return true
}

func (w *Wishlist) Contains(productID uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.products {
		if p.ID == productID {
			return true
		}
	}
	return false
}

func (w *Wishlist) Products() []model.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]model.Product, len(w.products))
	copy(out, w.products)
	return out
}

func (w *Wishlist) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.products)
}
