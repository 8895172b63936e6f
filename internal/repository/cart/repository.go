package cart

import (
	"context"

	"shoppingcart/internal/domain"
)

// Repository keeps carts for the lifetime of the process.
type Repository interface {
	Create(ctx context.Context) (*domain.Cart, error)
	// Get returns a copy of the cart; changes to it are not stored.
	Get(ctx context.Context, id string) (*domain.Cart, error)
	// Update runs fn against the stored cart while holding it exclusively and
	// returns a copy of the result. An error from fn is passed through; the
	// cart keeps whatever fn already did to it.
	Update(ctx context.Context, id string, fn func(*domain.Cart) error) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
}
