package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"shoppingcart/internal/domain"
)

type handlers struct {
	deps   Deps
	logger logrus.FieldLogger
}

type addItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

type checkoutRequest struct {
	CouponCode string `json:"couponCode" binding:"required"`
}

type applyCouponRequest struct {
	Code     string          `json:"code" binding:"required"`
	Purchase decimal.Decimal `json:"purchase"`
}

// fail writes err as JSON. Internal errors are logged and replaced by a
// generic message.
func (h *handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.WithField("route", c.FullPath()).WithError(err).Error("request failed")
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, errorResponse{StatusCode: status, Message: msg})
}

func productIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid product id")
		return 0, false
	}
	return id, true
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.ProductSvc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(products), "results": products})
}

func (h *handlers) getProduct(c *gin.Context) {
	id, ok := productIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.deps.ProductSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *handlers) createCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.Create(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCartResponse(cart))
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) deleteCart(c *gin.Context) {
	if err := h.deps.CartSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	cart, err := h.deps.CartSvc.AddItem(c.Request.Context(), c.Param("id"), req.ProductID, req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) removeItem(c *gin.Context) {
	productID, ok := productIDParam(c, "productId")
	if !ok {
		return
	}
	cart, err := h.deps.CartSvc.RemoveItem(c.Request.Context(), c.Param("id"), productID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) cartTotal(c *gin.Context) {
	fraction := decimal.Zero
	if raw := c.Query("discount"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			badRequest(c, "invalid discount")
			return
		}
		fraction = parsed
	}
	quote, err := h.deps.CartSvc.ApplyDiscount(c.Request.Context(), c.Param("id"), fraction)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *handlers) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	quote, err := h.deps.CartSvc.Checkout(c.Request.Context(), c.Param("id"), req.CouponCode)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *handlers) listCoupons(c *gin.Context) {
	coupons, err := h.deps.CouponSvc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if coupons == nil {
		coupons = []domain.Coupon{}
	}
	c.JSON(http.StatusOK, coupons)
}

func (h *handlers) applyCoupon(c *gin.Context) {
	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	redemption, err := h.deps.CouponSvc.Apply(c.Request.Context(), req.Code, req.Purchase)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.WithFields(logrus.Fields{
		"code":           redemption.Code,
		"original_price": redemption.OriginalPrice.StringFixed(2),
		"final_price":    redemption.FinalPrice.StringFixed(2),
	}).Info("coupon applied")
	c.JSON(http.StatusOK, redemption)
}
