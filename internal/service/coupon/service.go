package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"shoppingcart/internal/domain"
	"shoppingcart/internal/metrics"
	couponrepo "shoppingcart/internal/repository/coupon"
)

type Service struct {
	repo couponrepo.Repository
	now  func() time.Time
}

func New(repo couponrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.repo.List(ctx)
}

// Apply redeems code against purchase. A coupon can be redeemed once; the
// checks run before it is marked used, so a failed attempt leaves it available.
func (s *Service) Apply(ctx context.Context, code string, purchase decimal.Decimal) (_ *domain.Redemption, err error) {
	defer func() { metrics.CouponRedemption(err) }()

	code = strings.TrimSpace(code)
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := c.Check(purchase, s.now()); err != nil {
		return nil, errors.WithMessagef(err, "coupon %q", code)
	}
	if err := s.repo.MarkUsed(ctx, code); err != nil {
		return nil, err
	}

	return &domain.Redemption{
		Code:          c.Code,
		OriginalPrice: purchase,
		Discount:      c.Discount,
		FinalPrice:    c.FinalPrice(purchase),
	}, nil
}
