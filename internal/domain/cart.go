package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem pairs a product with the quantity held in a cart.
type LineItem struct {
	Product  *Product
	Quantity int
}

// Subtotal returns price * quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps at most one line item per product id, in insertion order.
//
// Cart accepts any quantity or discount without complaint; callers that need
// validation do it before calling in. A Cart must not be used from more than
// one goroutine at a time.
type Cart struct {
	ID        string
	CreatedAt time.Time

	items []LineItem
}

// NewCart returns an empty cart.
func NewCart(id string, createdAt time.Time) *Cart {
	return &Cart{ID: id, CreatedAt: createdAt}
}

// AddItem adds quantity to the line for product, appending a new line when
// the product is not yet in the cart.
func (c *Cart) AddItem(product *Product, quantity int) {
	if i := c.indexOf(product.ID); i >= 0 {
		c.items[i].Quantity += quantity
		return
	}
	c.items = append(c.items, LineItem{Product: product, Quantity: quantity})
}

// RemoveItem drops the line for productID. Unknown ids are ignored.
func (c *Cart) RemoveItem(productID int64) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
}

// Total sums price * quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ApplyDiscount returns Total() reduced by fraction (0.10 is ten percent).
// The cart itself is left untouched.
func (c *Cart) ApplyDiscount(fraction decimal.Decimal) decimal.Decimal {
	return c.Total().Mul(decimal.NewFromInt(1).Sub(fraction))
}

// Items returns a copy of the cart's lines.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of distinct products in the cart.
func (c *Cart) Len() int {
	return len(c.items)
}

// Clone returns an independent copy. Products are shared.
func (c *Cart) Clone() *Cart {
	return &Cart{ID: c.ID, CreatedAt: c.CreatedAt, items: c.Items()}
}

func (c *Cart) indexOf(productID int64) int {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}
