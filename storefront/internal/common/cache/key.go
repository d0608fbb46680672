package cache

import "time"

const (
	KEY_CATALOG_PRODUCT = "catalog:products:%s"
	KEY_SESSION         = "storefront:sessions:%s"

	TTL_CATALOG_PRODUCT = 1 * time.Hour
	TTL_SESSION         = 24 * time.Hour
)
