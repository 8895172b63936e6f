package coupon

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"shoppingcart/internal/domain"
	"shoppingcart/internal/logging"
)

type memoryRepo struct {
	mu      sync.Mutex
	coupons map[string]domain.Coupon
	logger  logrus.FieldLogger
}

func NewMemory(logger logrus.FieldLogger) Repository {
	if logger == nil {
		logger = logging.Discard()
	}
	return &memoryRepo{
		coupons: make(map[string]domain.Coupon),
		logger:  logger.WithField("repo", "coupon"),
	}
}

func (r *memoryRepo) List(_ context.Context) ([]domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (r *memoryRepo) GetByCode(_ context.Context, code string) (*domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.coupons[code]
	if !ok {
		return nil, errors.Wrapf(domain.ErrNotFound, "coupon %q", code)
	}
	return &c, nil
}

func (r *memoryRepo) Upsert(_ context.Context, coupon domain.Coupon) (*domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.coupons[coupon.Code] = coupon
	return &coupon, nil
}

func (r *memoryRepo) MarkUsed(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.coupons[code]
	if !ok {
		return errors.Wrapf(domain.ErrNotFound, "coupon %q", code)
	}
	if c.Used {
		return domain.ErrCouponUsed
	}
	c.Used = true
	r.coupons[code] = c
	r.logger.WithField("code", code).Info("coupon redeemed")
	return nil
}
