package constants

const (
	APP_MAIN_NOVADENT     = "main novadent"
	APP_STOREFRONT        = "storefront"
	APP_GATEWAY           = "gateway"
	AUDIENCE_BUYER        = "audience-buyer"
	HEADER_SESSION_ID     = "X-Session-Id"
	HEADER_REFRESH_TOKEN  = "X-Refresh-Token"
	HEADER_AUTHORIZATION  = "Authorization"
	HEADER_CACHE_CONTROL  = "Cache-Control"
	VALUE_IMAGE_CACHE_AGE = "public, max-age=86400"
)
