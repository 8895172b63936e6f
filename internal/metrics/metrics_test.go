package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartOperation(t *testing.T) {
	okBefore := testutil.ToFloat64(cartOperations.WithLabelValues("add_item", "ok"))
	errBefore := testutil.ToFloat64(cartOperations.WithLabelValues("add_item", "error"))

	CartOperation("add_item", nil)
	CartOperation("add_item", nil)
	CartOperation("add_item", errors.New("boom"))

	assert.Equal(t, okBefore+2, testutil.ToFloat64(cartOperations.WithLabelValues("add_item", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(cartOperations.WithLabelValues("add_item", "error")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/carts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(Handler()))

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("200", http.MethodGet, "/carts/:id"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/carts/abc", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("200", http.MethodGet, "/carts/:id")))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}
