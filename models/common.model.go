package models

// Machine-checkable error kinds carried in every failure response.
const (
	ErrCodeValidation         = "VALIDATION"
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInternal           = "INTERNAL"
)

// ErrorDetail is the body of every failure response, wrapped under "error".
type ErrorDetail struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ErrorBody builds the standard failure envelope.
func ErrorBody(code, message string) map[string]interface{} {
	return map[string]interface{}{
		"error": ErrorDetail{Code: code, Message: message},
	}
}
