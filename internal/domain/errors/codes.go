package errors

// Error codes shared across the service.
const (
	ErrInternal          = "INTERNAL"
	ErrNotFound          = "NOT_FOUND"
	ErrInvalidArgument   = "INVALID_ARGUMENT"
	ErrUnauthenticated   = "UNAUTHENTICATED"
	ErrUnauthorized      = "UNAUTHORIZED"
	ErrConflict          = "CONFLICT"
	ErrTimeout           = "TIMEOUT"
	ErrInsufficientFunds = "INSUFFICIENT_FUNDS"
	ErrInvalidOrExpired  = "INVALID_OR_EXPIRED"
	ErrDeliveryFailed    = "DELIVERY_FAILED"
)

// CodePair maps an error code onto transport status codes.
type CodePair struct {
	HTTPStatus int
	GRPCCode   int
}

var codeMapping = map[string]CodePair{
	ErrInternal:          {500, 13}, // Internal Server Error, INTERNAL
	ErrNotFound:          {404, 5},  // Not Found, NOT_FOUND
	ErrInvalidArgument:   {400, 3},  // Bad Request, INVALID_ARGUMENT
	ErrUnauthenticated:   {401, 16}, // Unauthorized, UNAUTHENTICATED
	ErrUnauthorized:      {403, 7},  // Forbidden, PERMISSION_DENIED
	ErrConflict:          {409, 6},  // Conflict, ALREADY_EXISTS
	ErrTimeout:           {504, 4},  // Gateway Timeout, DEADLINE_EXCEEDED
	ErrInsufficientFunds: {400, 9},  // Bad Request, FAILED_PRECONDITION
	ErrInvalidOrExpired:  {400, 9},  // Bad Request, FAILED_PRECONDITION
	ErrDeliveryFailed:    {400, 9},  // Bad Request, FAILED_PRECONDITION
}

// GetCodeMapping returns the HTTP and gRPC mapping for an error code.
func GetCodeMapping(code string) (int, int) {
	if pair, ok := codeMapping[code]; ok {
		return pair.HTTPStatus, pair.GRPCCode
	}
	return 500, 13
}
