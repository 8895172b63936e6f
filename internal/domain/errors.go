package domain

import "github.com/pkg/errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidDiscount = errors.New("discount must be between 0 and 1")

	ErrCouponUsed    = errors.New("coupon already used")
	ErrCouponExpired = errors.New("coupon expired")
	ErrBelowMinimum  = errors.New("purchase below minimum")
)
