package constant

const (
	ERR_VALIDATION_CODE                 = "VALIDATION_ERROR"
	ERR_INVALID_REQUEST_BODY_ERROR_CODE = "INVALID_REQUEST_BODY_ERROR"
	ERR_INTERNAL_SERVER_ERROR_CODE      = "INTERNAL_SERVER_ERROR"
	ERR_INTENRAL_SERVER_ERROR_MESSAGE   = "Something went wrong. If the problem persists, please contact support"
	ERR_INVALID_REQUEST_BODY_MESSAGE    = "The request is invalid or malformed"
	ERR_UPSTREAM_STORE_ERROR_CODE       = "UPSTREAM_STORE_ERROR"
	ERR_UPSTREAM_STORE_ERROR_MESSAGE    = "Comment store request failed"
	ERR_UNAUTHORIZED_ERROR_CODE         = "UNAUTHORIZED_ERROR"
	ERR_UNAUTHORIZED_ERROR_MESSAGE      = "Unauthorized"
)
