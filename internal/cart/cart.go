// Package cart holds the session-scoped cart and wishlist state. Nothing in
// here touches the database: carts live only as long as the process and are
// never synced across devices.
package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osikani/kente-storefront-api/internal/currency"
	"github.com/osikani/kente-storefront-api/internal/model"
)

// MaxLineQuantity caps a single line item; AddItem and SetQuantity clamp to it.
const MaxLineQuantity = 99

// Item is a product snapshot plus quantity. The snapshot is deliberate:
// editing a product later must not change what's already in a cart.
type Item struct {
	Product  model.Product
	Quantity int
}

type Cart struct {
	mu    sync.Mutex
	items []Item // ordered by first add, stable for display
}

func New() *Cart {
	return &Cart{}
}

// AddItem merges into an existing line for the same product id, otherwise
// appends a new line. A quantity below 1 counts as 1.
func (c *Cart) AddItem(product model.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			c.items[i].Quantity = clampQuantity(c.items[i].Quantity + quantity)
			return
		}
	}
	c.items = append(c.items, Item{Product: product, Quantity: clampQuantity(quantity)})
}

// RemoveItem deletes the line for productID. Removing an absent id is a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
}

// SetQuantity overwrites the line's quantity; zero or below removes the line.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if quantity <= 0 {
		c.removeLocked(productID)
		return
	}
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = clampQuantity(quantity)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the current lines in add order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// ItemCount is the sum of quantities, not the number of distinct lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Subtotal sums price[code] * quantity over every line in exact decimal
// arithmetic.
func (c *Cart) Subtotal(code currency.Code) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, item := range c.items {
		line := item.Product.Price.Amount(code).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

func (c *Cart) removeLocked(productID uuid.UUID) {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func clampQuantity(q int) int {
	if q > MaxLineQuantity {
		return MaxLineQuantity
	}
	return q
}
