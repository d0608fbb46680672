package request

import "github.com/google/uuid"

type AddCartItem struct {
	ProductId uuid.UUID `json:"productId" validate:"required"`
	Quantity  int32     `json:"quantity"  validate:"gte=0"`
}

type UpdateCartItem struct {
	Quantity int32 `json:"quantity"`
}
