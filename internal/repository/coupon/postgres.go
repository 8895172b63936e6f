package coupon

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
	return &postgresRepo{pool: pool, logger: logger.WithField("repo", "coupon")}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Coupon, error) {
	const q = `
SELECT code, discount, min_purchase, expires_at, used
FROM coupons
ORDER BY code ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.WithError(err).Error("list")
		return nil, errors.Wrap(err, "list coupons")
	}
	defer rows.Close()

	var result []domain.Coupon
	for rows.Next() {
		var c domain.Coupon
		if err := rows.Scan(&c.Code, &c.Discount, &c.MinPurchase, &c.ExpiresAt, &c.Used); err != nil {
			return nil, errors.Wrap(err, "scan coupon")
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list coupons")
	}
	return result, nil
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	const q = `
SELECT code, discount, min_purchase, expires_at, used
FROM coupons
WHERE code = $1
`
	var c domain.Coupon
	err := r.pool.QueryRow(ctx, q, code).Scan(&c.Code, &c.Discount, &c.MinPurchase, &c.ExpiresAt, &c.Used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(domain.ErrNotFound, "coupon %q", code)
		}
		r.logger.WithField("code", code).WithError(err).Error("get")
		return nil, errors.Wrapf(err, "get coupon %q", code)
	}
	return &c, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, coupon domain.Coupon) (*domain.Coupon, error) {
	const q = `
INSERT INTO coupons (code, discount, min_purchase, expires_at, used)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (code) DO UPDATE
SET discount = EXCLUDED.discount,
    min_purchase = EXCLUDED.min_purchase,
    expires_at = EXCLUDED.expires_at,
    used = EXCLUDED.used
RETURNING code, discount, min_purchase, expires_at, used
`
	var out domain.Coupon
	err := r.pool.QueryRow(ctx, q, coupon.Code, coupon.Discount, coupon.MinPurchase, coupon.ExpiresAt, coupon.Used).
		Scan(&out.Code, &out.Discount, &out.MinPurchase, &out.ExpiresAt, &out.Used)
	if err != nil {
		r.logger.WithField("code", coupon.Code).WithError(err).Error("upsert")
		return nil, errors.Wrapf(err, "upsert coupon %q", coupon.Code)
	}
	return &out, nil
}

func (r *postgresRepo) MarkUsed(ctx context.Context, code string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE coupons
SET used = true
WHERE code = $1 AND used = false
`, code)
	if err != nil {
		return errors.Wrapf(err, "mark coupon %q used", code)
	}
	if cmd.RowsAffected() == 1 {
		r.logger.WithField("code", code).Info("coupon redeemed")
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM coupons WHERE code = $1)`, code).Scan(&exists); err != nil {
		return errors.Wrapf(err, "lookup coupon %q", code)
	}
	if !exists {
		return errors.Wrapf(domain.ErrNotFound, "coupon %q", code)
	}
	return domain.ErrCouponUsed
}
