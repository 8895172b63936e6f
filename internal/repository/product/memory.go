package product

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"shoppingcart/internal/domain"
	"shoppingcart/internal/logging"
)

var createdAt = func() time.Time { return time.Now().UTC() }

type memoryRepo struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
	logger   logrus.FieldLogger
}

// NewMemory returns a process-local catalogue, used when no database is configured.
func NewMemory(logger logrus.FieldLogger) Repository {
	if logger == nil {
		logger = logging.Discard()
	}
	return &memoryRepo{
		products: make(map[int64]*domain.Product),
		nextID:   1,
		logger:   logger.WithField("repo", "product"),
	}
}

func (r *memoryRepo) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetByID returns the stored product itself. Upsert swaps in a new value
// rather than editing it, so callers may hold on to the pointer.
func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, errors.Wrapf(domain.ErrNotFound, "product %d", id)
	}
	return p, nil
}

func (r *memoryRepo) Upsert(_ context.Context, product domain.Product) (*domain.Product, error) {
	if product.Price.IsNegative() {
		return nil, errors.Errorf("product %q: negative price %s", product.Name, product.Price)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := product
	if out.ID == 0 {
		out.ID = r.nextID
	}
	if out.ID >= r.nextID {
		r.nextID = out.ID + 1
	}
	if existing, ok := r.products[out.ID]; ok {
		out.CreatedAt = existing.CreatedAt
	} else {
		out.CreatedAt = createdAt()
	}
	stored := out
	r.products[out.ID] = &stored

	r.logger.WithFields(logrus.Fields{"id": out.ID, "name": out.Name}).Debug("upsert")
	return &out, nil
}
