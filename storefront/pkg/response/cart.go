package response

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/novadent/novadent/storefront/internal/pricing"
)

type CartItem struct {
	ID        uuid.UUID       `json:"id"`
	ProductId uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int32           `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type Cart struct {
	Items []CartItem    `json:"items"`
	Count int32         `json:"count"`
	Quote pricing.Quote `json:"quote"`
}
