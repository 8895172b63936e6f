package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Coupon is a single-use percentage discount.
type Coupon struct {
	Code        string          `json:"code"`
	Discount    decimal.Decimal `json:"discount"` // percent, 20 means 20%
	MinPurchase decimal.Decimal `json:"minPurchase"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	Used        bool            `json:"used"`
}

// Fraction converts the percent discount into the fraction Cart.ApplyDiscount expects.
func (c Coupon) Fraction() decimal.Decimal {
	return c.Discount.Div(hundred)
}

// Check reports why the coupon cannot be redeemed against purchase at now, or nil.
func (c Coupon) Check(purchase decimal.Decimal, now time.Time) error {
	if c.Used {
		return ErrCouponUsed
	}
	if now.After(c.ExpiresAt) {
		return ErrCouponExpired
	}
	if purchase.LessThan(c.MinPurchase) {
		return ErrBelowMinimum
	}
	return nil
}

// FinalPrice returns purchase minus the coupon's share of it.
func (c Coupon) FinalPrice(purchase decimal.Decimal) decimal.Decimal {
	return purchase.Sub(purchase.Mul(c.Fraction()))
}

// Redemption records the outcome of applying a coupon.
type Redemption struct {
	Code          string          `json:"code"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Discount      decimal.Decimal `json:"discount"`
	FinalPrice    decimal.Decimal `json:"finalPrice"`
}

// Fraction converts the redeemed percent discount into a fraction.
func (r Redemption) Fraction() decimal.Decimal {
	return r.Discount.Div(hundred)
}
