package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/novadent/novadent/internal/log"
	"github.com/novadent/novadent/storefront/internal/common/otel"
	"github.com/novadent/novadent/storefront/internal/pricing"
	"github.com/novadent/novadent/storefront/pkg/response"
)

// Cart assembles the cart view: lines joined against the catalog, the badge
// count and a freshly derived quote. Lines whose product no longer resolves
// are skipped from the view and the quote but stay in the store.
func (s StorefrontService) Cart(c context.Context, sessionID string) response.Cart {
	c, span := otel.Tracer.Start(c, "StorefrontService Cart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "StorefrontService Cart").
		Logger()

	sess := s.sessions.Resolve(c, sessionID)
	items := sess.Cart.Items()

	responseItems := []response.CartItem{}
	for _, item := range items {
		product, err := s.catalog.FindProductById(c, item.ProductID)
		if err != nil {
			logger.Info().
				Str(log.KEY_PRODUCT_ID, item.ProductID.String()).
				Msg("skipping cart line with unresolvable product")
			continue
		}
		responseItems = append(responseItems, response.CartItem{
			ID:        item.ID,
			ProductId: item.ProductID,
			Name:      product.Name,
			SKU:       product.SKU,
			UnitPrice: product.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: product.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity)).Round(2),
		})
	}

	quote := pricing.Calculate(items, s.catalog, sess.Checkout.ApplyTaxExemption())
	return response.Cart{Items: responseItems, Count: sess.Cart.Count(), Quote: quote}
}

func (s StorefrontService) AddToCart(
	c context.Context,
	sessionID string,
	productId uuid.UUID,
	quantity int32,
) response.Cart {
	c, span := otel.Tracer.Start(c, "StorefrontService AddToCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "StorefrontService AddToCart").
		Str(log.KEY_PRODUCT_ID, productId.String()).
		Int32(log.KEY_CART_ITEM_QUANTITY, quantity).
		Logger()

	// Unknown products are accepted here; resolution is deferred to render
	// time, where unresolvable lines contribute nothing.
	logger = logger.With().Str(log.KEY_PROCESS, "adding cart line").Logger()
	logger.Info().Msg("adding cart line")
	sess := s.sessions.Resolve(c, sessionID)
	item := sess.Cart.Add(productId, quantity)
	logger = logger.With().Str(log.KEY_CART_ITEM_ID, item.ID.String()).Logger()
	logger.Info().Msg("added cart line")

	s.sessions.Persist(c, sess)
	c = logger.WithContext(c)
	return s.Cart(c, sessionID)
}

func (s StorefrontService) UpdateCartItem(
	c context.Context,
	sessionID string,
	itemId uuid.UUID,
	quantity int32,
) response.Cart {
	c, span := otel.Tracer.Start(c, "StorefrontService UpdateCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "StorefrontService UpdateCartItem").
		Str(log.KEY_CART_ITEM_ID, itemId.String()).
		Int32(log.KEY_CART_ITEM_QUANTITY, quantity).
		Str(log.KEY_PROCESS, "updating cart line").
		Logger()

	logger.Info().Msg("updating cart line")
	sess := s.sessions.Resolve(c, sessionID)
	sess.Cart.UpdateQuantity(itemId, quantity)
	logger.Info().Msg("updated cart line")

	s.sessions.Persist(c, sess)
	c = logger.WithContext(c)
	return s.Cart(c, sessionID)
}

func (s StorefrontService) RemoveCartItem(
	c context.Context,
	sessionID string,
	itemId uuid.UUID,
) response.Cart {
	c, span := otel.Tracer.Start(c, "StorefrontService RemoveCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "StorefrontService RemoveCartItem").
		Str(log.KEY_CART_ITEM_ID, itemId.String()).
		Str(log.KEY_PROCESS, "removing cart line").
		Logger()

	logger.Info().Msg("removing cart line")
	sess := s.sessions.Resolve(c, sessionID)
	sess.Cart.Remove(itemId)
	logger.Info().Msg("removed cart line")

	s.sessions.Persist(c, sess)
	c = logger.WithContext(c)
	return s.Cart(c, sessionID)
}

func (s StorefrontService) ClearCart(c context.Context, sessionID string) response.Cart {
	c, span := otel.Tracer.Start(c, "StorefrontService ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "StorefrontService ClearCart").
		Str(log.KEY_PROCESS, "clearing cart").
		Logger()

	logger.Info().Msg("clearing cart")
	sess := s.sessions.Resolve(c, sessionID)
	sess.Cart.Clear()
	logger.Info().Msg("cleared cart")

	s.sessions.Persist(c, sess)
	c = logger.WithContext(c)
	return s.Cart(c, sessionID)
}
