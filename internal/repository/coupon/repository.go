package coupon

import (
	"context"

	"shoppingcart/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Upsert(ctx context.Context, coupon domain.Coupon) (*domain.Coupon, error)
	// MarkUsed flips an unused coupon to used. It returns domain.ErrCouponUsed
	// when another redemption got there first.
	MarkUsed(ctx context.Context, code string) error
}
