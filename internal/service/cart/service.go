package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"shoppingcart/internal/domain"
	"shoppingcart/internal/metrics"
	cartrepo "shoppingcart/internal/repository/cart"
)

// Service guards the permissive Cart aggregate: quantities and discounts are
// validated here, never inside domain.Cart.
type Service struct {
	repo        cartrepo.Repository
	productRepo productRepo
	coupons     couponApplier
}

type productRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type couponApplier interface {
	Apply(ctx context.Context, code string, purchase decimal.Decimal) (*domain.Redemption, error)
}

func New(repo cartrepo.Repository, productRepo productRepo, coupons couponApplier) *Service {
	return &Service{repo: repo, productRepo: productRepo, coupons: coupons}
}

// Quote is a cart total with a discount applied.
type Quote struct {
	CartID          string          `json:"cartId"`
	Total           decimal.Decimal `json:"total"`
	Discount        decimal.Decimal `json:"discount"`
	DiscountedTotal decimal.Decimal `json:"discountedTotal"`
	CouponCode      string          `json:"couponCode,omitempty"`
}

var one = decimal.NewFromInt(1)

func (s *Service) Create(ctx context.Context) (*domain.Cart, error) {
	c, err := s.repo.Create(ctx)
	metrics.CartOperation("create", err)
	return c, err
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Cart, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	metrics.CartOperation("delete", err)
	return err
}

// AddItem looks the product up in the catalogue and adds quantity of it.
func (s *Service) AddItem(ctx context.Context, cartID string, productID int64, quantity int) (_ *domain.Cart, err error) {
	defer func() { metrics.CartOperation("add_item", err) }()

	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, cartID, func(c *domain.Cart) error {
		c.AddItem(product, quantity)
		return nil
	})
}

// RemoveItem drops productID from the cart; absent products are not an error.
func (s *Service) RemoveItem(ctx context.Context, cartID string, productID int64) (_ *domain.Cart, err error) {
	defer func() { metrics.CartOperation("remove_item", err) }()

	return s.repo.Update(ctx, cartID, func(c *domain.Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

// ApplyDiscount quotes the cart total reduced by fraction, which must lie in [0, 1].
func (s *Service) ApplyDiscount(ctx context.Context, cartID string, fraction decimal.Decimal) (*Quote, error) {
	if fraction.IsNegative() || fraction.GreaterThan(one) {
		return nil, domain.ErrInvalidDiscount
	}
	c, err := s.repo.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return &Quote{
		CartID:          c.ID,
		Total:           c.Total(),
		Discount:        fraction,
		DiscountedTotal: c.ApplyDiscount(fraction),
	}, nil
}

// Checkout redeems a coupon against the cart total. The coupon is consumed
// even though the cart is left as it is.
func (s *Service) Checkout(ctx context.Context, cartID, couponCode string) (_ *Quote, err error) {
	defer func() { metrics.CartOperation("checkout", err) }()

	c, err := s.repo.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	total := c.Total()
	redemption, err := s.coupons.Apply(ctx, couponCode, total)
	if err != nil {
		return nil, err
	}
	fraction := redemption.Fraction()
	return &Quote{
		CartID:          c.ID,
		Total:           total,
		Discount:        fraction,
		DiscountedTotal: c.ApplyDiscount(fraction),
		CouponCode:      redemption.Code,
	}, nil
}
