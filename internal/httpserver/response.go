package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"shoppingcart/internal/domain"
)

type cartResponse struct {
	ID                    string             `json:"id"`
	CreatedAt             time.Time          `json:"createdAt"`
	LineItems             []lineItemResponse `json:"lineItems"`
	TotalLineItemQuantity int                `json:"totalLineItemQuantity"`
	Total                 decimal.Decimal    `json:"total"`
}

type lineItemResponse struct {
	ProductID  int64           `json:"productId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func toCartResponse(cart *domain.Cart) cartResponse {
	items := cart.Items()
	lines := make([]lineItemResponse, 0, len(items))
	totalQty := 0
	for _, item := range items {
		lines = append(lines, lineItemResponse{
			ProductID:  item.Product.ID,
			Name:       item.Product.Name,
			UnitPrice:  item.Product.Price,
			Quantity:   item.Quantity,
			TotalPrice: item.Subtotal(),
		})
		totalQty += item.Quantity
	}
	return cartResponse{
		ID:                    cart.ID,
		CreatedAt:             cart.CreatedAt,
		LineItems:             lines,
		TotalLineItemQuantity: totalQty,
		Total:                 cart.Total(),
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidDiscount),
		errors.Is(err, domain.ErrCouponUsed),
		errors.Is(err, domain.ErrCouponExpired),
		errors.Is(err, domain.ErrBelowMinimum):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{StatusCode: http.StatusBadRequest, Message: msg})
}
