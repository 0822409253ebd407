package httputil

// Error codes carried in ErrorResponse.ErrorCode. The set is shared with
// the SPA; don't rename values.
const (
	CodeWeakPassword         = "WEAK_PASSWORD"
	CodeUnauthorized         = "AUTH_UNAUTHORIZED"
	CodeNotFound             = "NOT_FOUND"
	CodeBusinessRule         = "BUSINESS_RULE"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeInvalidSession       = "INVALID_SESSION"
	CodeRefreshTokenRequired = "REFRESH_TOKEN_REQUIRED"
)
