package seed

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"shoppingcart/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CouponWriter interface {
	Upsert(ctx context.Context, coupon domain.Coupon) (*domain.Coupon, error)
}

// Products is the demo catalogue.
func Products() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Laptop", Price: decimal.NewFromInt(999)},
		{ID: 2, Name: "Mouse", Price: decimal.NewFromInt(29)},
		{ID: 3, Name: "Keyboard", Price: decimal.NewFromInt(79)},
	}
}

// Coupons is the demo coupon set, with expiries relative to now.
func Coupons(now time.Time) []domain.Coupon {
	return []domain.Coupon{
		{Code: "SAVE20", Discount: decimal.NewFromInt(20), MinPurchase: decimal.NewFromInt(100), ExpiresAt: now.AddDate(0, 1, 0)},
		{Code: "FIRST10", Discount: decimal.NewFromInt(10), MinPurchase: decimal.Zero, ExpiresAt: now.AddDate(0, 0, 7)},
		{Code: "EXPIRED", Discount: decimal.NewFromInt(50), MinPurchase: decimal.NewFromInt(50), ExpiresAt: now.AddDate(0, 0, -5)},
	}
}

// Apply upserts the demo data. Running it twice leaves the same rows, but
// coupons come back unused.
func Apply(ctx context.Context, products ProductWriter, coupons CouponWriter, now time.Time) error {
	for _, p := range Products() {
		if _, err := products.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.Name)
		}
	}
	for _, c := range Coupons(now) {
		if _, err := coupons.Upsert(ctx, c); err != nil {
			return errors.Wrapf(err, "upsert coupon %s", c.Code)
		}
	}
	return nil
}
