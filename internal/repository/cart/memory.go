package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"shoppingcart/internal/domain"
	"shoppingcart/internal/logging"
)

type memoryRepo struct {
	mu     sync.Mutex
	carts  map[string]*domain.Cart
	newID  func() string
	now    func() time.Time
	logger logrus.FieldLogger
}

func NewMemory(logger logrus.FieldLogger) Repository {
	if logger == nil {
		logger = logging.Discard()
	}
	return &memoryRepo{
		carts:  make(map[string]*domain.Cart),
		newID:  uuid.NewString,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.WithField("repo", "cart"),
	}
}

func (r *memoryRepo) Create(_ context.Context) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := domain.NewCart(r.newID(), r.now())
	if _, dup := r.carts[c.ID]; dup {
		return nil, errors.Errorf("cart id collision: %s", c.ID)
	}
	r.carts[c.ID] = c
	r.logger.WithField("cart_id", c.ID).Debug("create")
	return c.Clone(), nil
}

func (r *memoryRepo) Get(_ context.Context, id string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[id]
	if !ok {
		return nil, errors.Wrapf(domain.ErrNotFound, "cart %s", id)
	}
	return c.Clone(), nil
}

func (r *memoryRepo) Update(ctx context.Context, id string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[id]
	if !ok {
		return nil, errors.Wrapf(domain.ErrNotFound, "cart %s", id)
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"cart_id": id, "lines": c.Len()}).Debug("update")
	return c.Clone(), nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[id]; !ok {
		return errors.Wrapf(domain.ErrNotFound, "cart %s", id)
	}
	delete(r.carts, id)
	r.logger.WithField("cart_id", id).Debug("delete")
	return nil
}
