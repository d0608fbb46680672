package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/novadent/novadent/internal/config"
	"github.com/novadent/novadent/storefront/internal/catalog"
	"github.com/novadent/novadent/storefront/internal/session"
)

var (
	glovesId    = uuid.MustParse("3f3f7d3e-0a57-4d9c-9f5a-1d2e4b6c8a01")
	compositeId = uuid.MustParse("8a1c5e9b-2d64-4f1a-8c3b-7e9f0a2d4c02")
)

const fixtureJson = `[
  {
    "id": "3f3f7d3e-0a57-4d9c-9f5a-1d2e4b6c8a01",
    "sku": "ND-GLV-001",
    "name": "Nitrile Examination Gloves",
    "category": "Infection Control",
    "vendor": "SteriGuard",
    "unit": "box",
    "unitPrice": "25.00"
  },
  {
    "id": "8a1c5e9b-2d64-4f1a-8c3b-7e9f0a2d4c02",
    "sku": "ND-CMP-014",
    "name": "Universal Dental Composite",
    "category": "Restorative",
    "vendor": "DentaCore",
    "unit": "syringe",
    "unitPrice": "100.00"
  }
]`

// newTestService builds a storefront service against the fixture catalog and
// an unreachable redis, exercising the optimistic persistence path: cache
// misses fall through to memory and persist failures are swallowed.
func newTestService(t *testing.T, backendUrl string) StorefrontService {
	c := context.Background()

	fixturePath := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(fixturePath, []byte(fixtureJson), 0o600); err != nil {
		t.Fatalf("failed writing catalog fixture with error: %s", err)
	}

	cacheClient := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})

	productCatalog, err := catalog.NewCatalog(c, fixturePath, cacheClient)
	if err != nil {
		t.Fatalf("failed building catalog with error: %s", err)
	}

	sessions := session.NewManager(cacheClient)
	return NewStorefrontService(sessions, productCatalog, config.Backend{BaseUrl: backendUrl})
}

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}
