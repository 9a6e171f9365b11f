package errors

// 공통 에러 코드 정의
const (
	// 일반적인 에러 코드
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrTimeout         = "TIMEOUT"

	// 인증 에러 코드 (모두 401)
	ErrMissingAuthHeader = "MISSING_AUTH_HEADER"
	ErrInvalidAuthFormat = "INVALID_AUTH_FORMAT"
	ErrInvalidToken      = "INVALID_TOKEN"
	ErrInvalidClaims     = "INVALID_CLAIMS"

	// AI 파이프라인 에러 코드
	ErrMissingCredential     = "MISSING_CREDENTIAL"
	ErrUnknownProvider       = "UNKNOWN_PROVIDER"
	ErrUnsupportedCapability = "UNSUPPORTED_CAPABILITY"
	ErrRecognitionFailed     = "RECOGNITION_FAILED"
	ErrUpstream              = "UPSTREAM_ERROR"
	ErrMalformedResponse     = "MALFORMED_RESPONSE"
	ErrInvalidSchema         = "INVALID_SCHEMA"
)
