package common

const (
	// AuthorizationHeaderName carries "Bearer <token>" on HTTP requests.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName is echoed back on every HTTP response.
	RequestIDHeaderName = "X-Request-ID"
)
