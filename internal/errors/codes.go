package errors

// Error code constants returned to the storefront UI.
// Format: CATEGORY_SPECIFIC_DETAIL; the frontend maps codes to copy.

const (
	// Authentication
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"

	// Validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"

	// Cart
	CartOutOfStock         = "CART_OUT_OF_STOCK"
	CartInsufficientStock  = "CART_INSUFFICIENT_STOCK"
	CartLineNotFound       = "CART_LINE_NOT_FOUND"
	CartEmpty              = "CART_EMPTY"
	CartPersistenceWarning = "CART_PERSISTENCE_WARNING"

	// Catalog
	CatalogProductNotFound = "CATALOG_PRODUCT_NOT_FOUND"
	CatalogUnavailable     = "CATALOG_UNAVAILABLE"

	// Orders
	OrderNotFound     = "ORDER_NOT_FOUND"
	OrderCreateFailed = "ORDER_CREATE_FAILED"

	// Internal
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalPlatformAPI = "INTERNAL_PLATFORM_API"
)
