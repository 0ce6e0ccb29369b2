package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Order Intake (ORD) ----

// ErrInvalidEncryptedPayload covers undecryptable ciphertext and unparsable
// plaintext alike. The two failure modes share one code and message so the
// response does not act as a decryption oracle.
func ErrInvalidEncryptedPayload() *AppError {
	return New("ORD_001", "Invalid encrypted payload.", http.StatusBadRequest)
}

func ErrDuplicateInFlight() *AppError {
	return New("ORD_002", "A request with this idempotency key is already in progress", http.StatusConflict)
}

// Validation reports a rejected order payload with the offending field's
// message.
func Validation(message string) *AppError {
	return New("ORD_003", message, http.StatusBadRequest)
}

// ---- Resources (RES) ----

func ErrNotFound(entity string) *AppError {
	return New("RES_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// ErrMissingDecryptionKey reports absent server key material. Distinct from
// ORD_001 so operators can tell a misconfigured server from bad client input.
func ErrMissingDecryptionKey() *AppError {
	return New("SYS_004", "Order decryption key is not configured", http.StatusInternalServerError)
}
