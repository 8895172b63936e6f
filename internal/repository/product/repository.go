package product

import (
	"context"

	"shoppingcart/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// Upsert inserts the product, or replaces it when ID is set. A zero ID
	// gets a fresh identifier.
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
