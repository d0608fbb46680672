package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	commonErrors "github.com/novadent/novadent/internal/common/errors"
	"github.com/novadent/novadent/internal/log"
	"github.com/novadent/novadent/storefront/internal/common/cache"
	"github.com/novadent/novadent/storefront/internal/common/otel"
)

type Product struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Vendor      string          `json:"vendor"`
	Unit        string          `json:"unit"`
	ImageUrl    string          `json:"imageUrl"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Catalog serves the demo product fixtures. The fixture file is the source of
// truth; redis mirrors individual products cache-aside the same way the rest
// of the storefront caches session state.
type Catalog struct {
	cache    *redis.Client
	mu       sync.RWMutex
	products map[uuid.UUID]Product
	ordered  []Product
}

func NewCatalog(c context.Context, fixturePath string, cacheClient *redis.Client) (*Catalog, error) {
	c, span := otel.Tracer.Start(c, "catalog NewCatalog")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "catalog NewCatalog").
		Str(log.KEY_CATALOG_PATH, fixturePath).
		Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "reading catalog fixture").Logger()
	logger.Info().Msg("reading catalog fixture")
	fixture, err := os.ReadFile(fixturePath)
	if err != nil {
		err = fmt.Errorf("failed reading catalog fixture=%s with error=%w", fixturePath, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("read catalog fixture")

	logger = logger.With().Str(log.KEY_PROCESS, "unmarshaling catalog fixture").Logger()
	logger.Info().Msg("unmarshaling catalog fixture")
	ordered := []Product{}
	err = json.Unmarshal(fixture, &ordered)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling catalog fixture with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	products := make(map[uuid.UUID]Product, len(ordered))
	for _, product := range ordered {
		products[product.ID] = product
	}
	logger.Info().Msgf("unmarshaled %d catalog products", len(ordered))

	return &Catalog{cache: cacheClient, products: products, ordered: ordered}, nil
}

func (t *Catalog) Products() []Product {
	t.mu.RLock()
	defer t.mu.RUnlock()
	products := make([]Product, len(t.ordered))
	copy(products, t.ordered)
	return products
}

func (t *Catalog) FindProductById(c context.Context, id uuid.UUID) (Product, error) {
	c, span := otel.Tracer.Start(c, "Catalog FindProductById")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_CATALOG_PRODUCT, id.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "Catalog FindProductById").
		Str(log.KEY_PRODUCT_ID, id.String()).
		Str(log.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "finding product in cache").Logger()
	logger.Info().Msg("finding product in cache")
	jsonCache, err := t.cache.Get(c, cacheKey).Result()
	if err != nil {
		err = fmt.Errorf("failed finding product in cache with error=%w", err)
		logger.Info().Err(err).Msg(err.Error())

		logger = logger.With().Str(log.KEY_PROCESS, "finding product in fixture").Logger()
		logger.Info().Msg("finding product in fixture")
		t.mu.RLock()
		product, ok := t.products[id]
		t.mu.RUnlock()
		if !ok {
			err = fmt.Errorf(
				"failed finding productId=%s with error=%w",
				id.String(),
				commonErrors.ErrProductNotFound,
			)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return Product{}, err
		}
		logger.Info().Msg("found product in fixture")

		logger = logger.With().Str(log.KEY_PROCESS, "inserting product to cache").Logger()
		logger.Info().Msg("inserting product to cache")
		marshaled, err := json.Marshal(product)
		if err != nil {
			err = fmt.Errorf("failed marshaling product with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return Product{}, err
		}
		err = t.cache.Set(c, cacheKey, marshaled, cache.TTL_CATALOG_PRODUCT).Err()
		if err != nil {
			err = fmt.Errorf("failed inserting product to cache with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return product, nil
		}
		logger.Info().Msg("inserted product to cache")

		return product, nil
	}
	logger.Info().Msg("found product in cache")

	logger = logger.With().Str(log.KEY_PROCESS, "unmarshaling cache").Logger()
	logger.Info().Msg("unmarshaling cache")
	product := Product{}
	err = json.Unmarshal([]byte(jsonCache), &product)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling cache with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Product{}, err
	}
	logger.Info().Msg("unmarshaled cache")

	return product, nil
}

// UnitPrice implements pricing.ProductLookup from the in-memory snapshot.
func (t *Catalog) UnitPrice(productID uuid.UUID) (decimal.Decimal, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	product, ok := t.products[productID]
	if !ok {
		return decimal.Zero, false
	}
	return product.UnitPrice, true
}
