package httpserver

import (
	"context"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"shoppingcart/internal/domain"
	"shoppingcart/internal/metrics"
	cartsvc "shoppingcart/internal/service/cart"
)

type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

type CartService interface {
	Create(ctx context.Context) (*domain.Cart, error)
	Get(ctx context.Context, id string) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
	AddItem(ctx context.Context, cartID string, productID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, cartID string, productID int64) (*domain.Cart, error)
	ApplyDiscount(ctx context.Context, cartID string, fraction decimal.Decimal) (*cartsvc.Quote, error)
	Checkout(ctx context.Context, cartID, couponCode string) (*cartsvc.Quote, error)
}

type CouponService interface {
	List(ctx context.Context) ([]domain.Coupon, error)
	Apply(ctx context.Context, code string, purchase decimal.Decimal) (*domain.Redemption, error)
}

// Deps groups the services the routes call into.
type Deps struct {
	ProductSvc ProductService
	CartSvc    CartService
	CouponSvc  CouponService
}

func (d Deps) validate() error {
	if d.ProductSvc == nil || d.CartSvc == nil || d.CouponSvc == nil {
		return errors.New("httpserver: product, cart and coupon services are required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger logrus.FieldLogger, deps Deps, opts Options) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), metrics.Middleware(), corsMiddleware(opts.CORSOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(opts.DB))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	h := &handlers{deps: deps, logger: logger}

	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)

	carts := router.Group("/carts")
	carts.POST("", h.createCart)
	carts.GET("/:id", h.getCart)
	carts.DELETE("/:id", h.deleteCart)
	carts.POST("/:id/items", h.addItem)
	carts.DELETE("/:id/items/:productId", h.removeItem)
	carts.GET("/:id/total", h.cartTotal)
	carts.POST("/:id/checkout", h.checkout)

	router.GET("/coupons", h.listCoupons)
	router.POST("/coupons/apply", h.applyCoupon)

	return router, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// requestLogger tags each request with an X-Request-ID and logs its outcome.
func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
		if c.Writer.Status() >= 500 {
			entry.Warn("request")
			return
		}
		entry.Info("request")
	}
}
