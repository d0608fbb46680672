package log

const (
	KEY_APP_NAME       = "app"
	KEY_TAG            = "tag"
	KEY_PROCESS        = "process"
	KEY_CONFIG         = "config"
	KEY_REQUEST_ID     = "X-Request-Id"
	KEY_REQUEST        = "request"
	KEY_REQUEST_BODY   = "requestBody"
	KEY_REQUEST_HEADER = "requestHeader"
	KEY_REQUEST_HOST   = "host"
	KEY_REQUEST_IP     = "requesterIP"
	KEY_REQUEST_METHOD = "requestMethod"
	KEY_REQUEST_URI    = "requestURI"
	KEY_REQUEST_URL    = "requestURL"
	KEY_TRACE_ID       = "traceId"
	KEY_SPAN_ID        = "spanId"

	KEY_SESSION_ID          = "sessionId"
	KEY_USER_ID             = "userId"
	KEY_PRODUCT_ID          = "productId"
	KEY_CART_ITEM_ID        = "cartItemId"
	KEY_CART_ITEMS          = "cartItems"
	KEY_CART_COUNT          = "cartCount"
	KEY_CART_ITEM_QUANTITY  = "quantity"
	KEY_CHECKOUT_STEP       = "checkoutStep"
	KEY_QUOTE               = "quote"
	KEY_CACHE_KEY           = "cacheKey"
	KEY_CATALOG_PATH        = "catalogPath"
	KEY_UPSTREAM_URL        = "upstreamUrl"
	KEY_UPSTREAM_STATUS     = "upstreamStatus"
	KEY_TOKEN               = "token"
	KEY_EMAIL               = "email"
	KEY_PATH_VALUES         = "pathValues"
	KEY_SNAPSHOT_VERSION    = "snapshotVersion"
	KEY_PAYMENT_METHOD_TYPE = "paymentMethodType"
)
