package product

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"shoppingcart/internal/domain"
	"shoppingcart/internal/logging"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger logrus.FieldLogger
}

func NewPostgres(pool *pgxpool.Pool, logger logrus.FieldLogger) Repository {
	if logger == nil {
		logger = logging.Discard()
	}
	return &postgresRepo{pool: pool, logger: logger.WithField("repo", "product")}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id, name, price, created_at
FROM products
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.WithError(err).Error("list")
		return nil, errors.Wrap(err, "list products")
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.WithError(err).Error("list rows")
		return nil, errors.Wrap(err, "list products")
	}
	r.logger.WithField("count", len(result)).Debug("list")
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `
SELECT id, name, price, created_at
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WithField("id", id).Debug("get: not found")
			return nil, errors.Wrapf(domain.ErrNotFound, "product %d", id)
		}
		r.logger.WithField("id", id).WithError(err).Error("get")
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.Price.IsNegative() {
		return nil, errors.Errorf("product %q: negative price %s", product.Name, product.Price)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "begin upsert")
	}
	defer tx.Rollback(ctx)

	out := product
	if product.ID == 0 {
		err = tx.QueryRow(ctx, `
INSERT INTO products (name, price)
VALUES ($1, $2)
RETURNING id, created_at
`, product.Name, product.Price).Scan(&out.ID, &out.CreatedAt)
	} else {
		err = tx.QueryRow(ctx, `
INSERT INTO products (id, name, price)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    price = EXCLUDED.price
RETURNING id, created_at
`, product.ID, product.Name, product.Price).Scan(&out.ID, &out.CreatedAt)
		if err == nil {
			// explicit ids bypass the sequence; move it past them
			_, err = tx.Exec(ctx, `
SELECT setval(pg_get_serial_sequence('products', 'id'), GREATEST((SELECT MAX(id) FROM products), 1))
`)
		}
	}
	if err != nil {
		r.logger.WithField("name", product.Name).WithError(err).Error("upsert")
		return nil, errors.Wrapf(err, "upsert product %q", product.Name)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "commit upsert")
	}

	r.logger.WithFields(logrus.Fields{"id": out.ID, "name": out.Name}).Debug("upsert")
	return &out, nil
}
