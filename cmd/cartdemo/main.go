// Command cartdemo walks a cart through adding items, discounting and topping
// up a line, logging the cart after each step.
package main

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"shoppingcart/internal/domain"
	"shoppingcart/internal/logging"
	"shoppingcart/internal/seed"
)

func main() {
	logger := logging.New("cartdemo", "info")

	catalogue := seed.Products()
	laptop, mouse, keyboard := &catalogue[0], &catalogue[1], &catalogue[2]

	cart := domain.NewCart("demo", time.Now().UTC())
	cart.AddItem(laptop, 1)
	cart.AddItem(mouse, 2)
	cart.AddItem(keyboard, 1)

	logItems(logger, cart)
	logger.WithField("total", cart.Total()).Info("total")

	tenPercent := decimal.RequireFromString("0.10")
	logger.WithField("total", cart.ApplyDiscount(tenPercent)).Info("after 10% discount")

	cart.AddItem(laptop, 2)
	logger.Info("added two more laptops")
	logItems(logger, cart)
	logger.WithField("total", cart.Total()).Info("total")
}

func logItems(logger logrus.FieldLogger, cart *domain.Cart) {
	for _, item := range cart.Items() {
		logger.WithFields(logrus.Fields{
			"product":  item.Product.Name,
			"price":    item.Product.Price,
			"quantity": item.Quantity,
		}).Info("line item")
	}
}
