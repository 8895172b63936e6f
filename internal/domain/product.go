package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalogue entry. Carts hold pointers to products and never
// modify them.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
}
