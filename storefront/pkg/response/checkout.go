package response

import (
	"github.com/novadent/novadent/storefront/internal/pricing"
	"github.com/novadent/novadent/storefront/internal/store"
)

type Checkout struct {
	store.CheckoutState
	Quote pricing.Quote `json:"quote"`
}

type Confirmation struct {
	OrderId string        `json:"orderId"`
	Quote   pricing.Quote `json:"quote"`
}
