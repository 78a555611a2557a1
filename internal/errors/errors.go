package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// Machine-readable codes carried by APIError
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidJSON          = "INVALID_JSON"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeRateLimitExceeded    = "RATE_LIMIT_EXCEEDED"
)

// problemTypes maps an APIError code to its RFC 7807 type. Unlisted codes
// are reported as TypeInternal.
var problemTypes = map[string]string{
	CodeInvalidRequest:       TypeValidation,
	CodeInvalidJSON:          TypeValidation,
	CodeValidationFailed:     TypeValidation,
	CodePayloadTooLarge:      TypeValidation,
	CodeUnsupportedMediaType: TypeValidation,
	CodeUnauthorized:         TypeUnauthorized,
	CodeRateLimitExceeded:    TypeRateLimit,
}

// APIError is a request-level failure raised before any export starts
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render sets the response status for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message, Details: details}
}

// ErrUnauthorized is returned when a report route needs a bearer token and
// the request has none
var ErrUnauthorized = New(http.StatusUnauthorized, CodeUnauthorized, "Authentication required")

// InvalidRequestWithError wraps a body decoding failure
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ValidationError is one rejected request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the details payload of a VALIDATION_FAILED error
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationErrors{Errors: errs})
}
