package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppingcart/internal/domain"
	"shoppingcart/internal/logging"
	cartrepo "shoppingcart/internal/repository/cart"
	couponrepo "shoppingcart/internal/repository/coupon"
	productrepo "shoppingcart/internal/repository/product"
	"shoppingcart/internal/seed"
	cartsvc "shoppingcart/internal/service/cart"
	couponsvc "shoppingcart/internal/service/coupon"
	productsvc "shoppingcart/internal/service/product"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	products := productrepo.NewMemory(nil)
	coupons := couponrepo.NewMemory(nil)
	require.NoError(t, seed.Apply(ctx, products, coupons, time.Now()))

	couponService := couponsvc.New(coupons)
	router, err := buildRouter(logging.Discard(), Deps{
		ProductSvc: productsvc.New(products),
		CartSvc:    cartsvc.New(cartrepo.NewMemory(nil), products, couponService),
		CouponSvc:  couponService,
	}, Options{})
	require.NoError(t, err)
	return router
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func createCart(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/carts", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[cartResponse](t, rec).ID
}

func TestBuildRouter_RequiresDeps(t *testing.T) {
	_, err := buildRouter(logging.Discard(), Deps{}, Options{})
	assert.Error(t, err)
}

func TestHealthAndReady(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, router, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "memory", decode[map[string]string](t, rec)["storage"])
}

func TestProducts(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Count   int              `json:"count"`
		Results []domain.Product `json:"results"`
	}](t, rec)
	assert.Equal(t, 3, list.Count)

	rec = do(t, router, http.MethodGet, "/products/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mouse", decode[domain.Product](t, rec).Name)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/products/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/products/abc", nil).Code)
}

func TestCartLifecycle(t *testing.T) {
	router := newTestRouter(t)
	id := createCart(t, router)

	for _, add := range []addItemRequest{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 2}, {ProductID: 3, Quantity: 1}} {
		rec := do(t, router, http.MethodPost, "/carts/"+id+"/items", add)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := do(t, router, http.MethodGet, "/carts/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[cartResponse](t, rec)
	assert.Len(t, cart.LineItems, 3)
	assert.Equal(t, 4, cart.TotalLineItemQuantity)
	assert.True(t, cart.Total.Equal(dec("1136")), "total %s", cart.Total)
	assert.True(t, cart.LineItems[1].TotalPrice.Equal(dec("58")))

	rec = do(t, router, http.MethodGet, "/carts/"+id+"/total?discount=0.10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	quote := decode[cartsvc.Quote](t, rec)
	assert.True(t, quote.DiscountedTotal.Equal(dec("1022.4")), "discounted %s", quote.DiscountedTotal)

	rec = do(t, router, http.MethodPost, "/carts/"+id+"/items", addItemRequest{ProductID: 1, Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[cartResponse](t, rec)
	assert.True(t, cart.Total.Equal(dec("3134")), "total %s", cart.Total)
	assert.Equal(t, 3, cart.LineItems[0].Quantity)

	rec = do(t, router, http.MethodDelete, "/carts/"+id+"/items/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[cartResponse](t, rec).LineItems, 2)

	rec = do(t, router, http.MethodDelete, "/carts/"+id+"/items/2", nil)
	require.Equal(t, http.StatusOK, rec.Code, "removing an absent product is a no-op")

	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, "/carts/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/carts/"+id, nil).Code)
}

func TestCartValidation(t *testing.T) {
	router := newTestRouter(t)
	id := createCart(t, router)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{name: "zero quantity", method: http.MethodPost, path: "/carts/" + id + "/items", body: addItemRequest{ProductID: 1}, want: http.StatusBadRequest},
		{name: "negative quantity", method: http.MethodPost, path: "/carts/" + id + "/items", body: addItemRequest{ProductID: 1, Quantity: -1}, want: http.StatusBadRequest},
		{name: "unknown product", method: http.MethodPost, path: "/carts/" + id + "/items", body: addItemRequest{ProductID: 77, Quantity: 1}, want: http.StatusNotFound},
		{name: "unknown cart", method: http.MethodPost, path: "/carts/nope/items", body: addItemRequest{ProductID: 1, Quantity: 1}, want: http.StatusNotFound},
		{name: "bad product id", method: http.MethodDelete, path: "/carts/" + id + "/items/x", want: http.StatusBadRequest},
		{name: "discount above one", method: http.MethodGet, path: "/carts/" + id + "/total?discount=10", want: http.StatusBadRequest},
		{name: "discount not a number", method: http.MethodGet, path: "/carts/" + id + "/total?discount=ten", want: http.StatusBadRequest},
		{name: "checkout without code", method: http.MethodPost, path: "/carts/" + id + "/checkout", body: map[string]string{}, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, decode[errorResponse](t, rec).StatusCode)
		})
	}
}

func TestCheckoutWithCoupon(t *testing.T) {
	router := newTestRouter(t)
	id := createCart(t, router)
	rec := do(t, router, http.MethodPost, "/carts/"+id+"/items", addItemRequest{ProductID: 1, Quantity: 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPost, "/carts/"+id+"/checkout", checkoutRequest{CouponCode: "SAVE20"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := decode[cartsvc.Quote](t, rec)
	assert.True(t, quote.DiscountedTotal.Equal(dec("799.2")), "discounted %s", quote.DiscountedTotal)
	assert.Equal(t, "SAVE20", quote.CouponCode)

	rec = do(t, router, http.MethodPost, "/carts/"+id+"/checkout", checkoutRequest{CouponCode: "SAVE20"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "coupon already used", decode[errorResponse](t, rec).Message)
}

func TestCoupons(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/coupons", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Coupon](t, rec), 3)

	rec = do(t, router, http.MethodPost, "/coupons/apply", map[string]interface{}{"code": "FIRST10", "purchase": 50})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	redemption := decode[domain.Redemption](t, rec)
	assert.True(t, redemption.FinalPrice.Equal(dec("45")))

	tests := []struct {
		name string
		body map[string]interface{}
		want int
	}{
		{name: "already used", body: map[string]interface{}{"code": "FIRST10", "purchase": 50}, want: http.StatusBadRequest},
		{name: "expired", body: map[string]interface{}{"code": "EXPIRED", "purchase": 500}, want: http.StatusBadRequest},
		{name: "below minimum", body: map[string]interface{}{"code": "SAVE20", "purchase": "99.99"}, want: http.StatusBadRequest},
		{name: "unknown", body: map[string]interface{}{"code": "NOPE", "purchase": 500}, want: http.StatusNotFound},
		{name: "missing code", body: map[string]interface{}{"purchase": 500}, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/coupons/apply", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

type failingProducts struct{}

func (failingProducts) List(context.Context) ([]domain.Product, error) {
	return nil, errors.New("connection reset")
}

func (failingProducts) Get(context.Context, int64) (*domain.Product, error) {
	return nil, errors.New("connection reset")
}

func TestInternalErrorsAreMasked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	coupons := couponsvc.New(couponrepo.NewMemory(nil))
	router, err := buildRouter(logging.Discard(), Deps{
		ProductSvc: failingProducts{},
		CartSvc:    cartsvc.New(cartrepo.NewMemory(nil), productrepo.NewMemory(nil), coupons),
		CouponSvc:  coupons,
	}, Options{})
	require.NoError(t, err)

	rec := do(t, router, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decode[errorResponse](t, rec).Message)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	coupons := couponsvc.New(couponrepo.NewMemory(nil))
	products := productrepo.NewMemory(nil)
	router, err := buildRouter(logging.Discard(), Deps{
		ProductSvc: productsvc.New(products),
		CartSvc:    cartsvc.New(cartrepo.NewMemory(nil), products, coupons),
		CouponSvc:  coupons,
	}, Options{CORSOrigins: []string{"http://shop.example.com"}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/carts", nil)
	req.Header.Set("Origin", "http://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
