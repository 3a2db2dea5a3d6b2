package notesdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/notes/pkg/httpx"
)

// ============================================================================
// Client-side error taxonomy
// ============================================================================

var (
	// ErrUnauthenticated is returned when no valid session exists, so no bearer
	// token can be issued. The protected request is never attempted. Callers
	// should send the user back to sign-in.
	ErrUnauthenticated = errors.New("notesdk: unauthenticated")

	// ErrAuthorizationRejected is returned when the protected API rejected the
	// bearer token on both the initial attempt and the single retry with a
	// freshly issued token.
	ErrAuthorizationRejected = errors.New("notesdk: authorization rejected")
)

// HTTPError is any non-success response that is not handled by the 401 retry.
// Body holds the raw response text; it is never parsed implicitly.
type HTTPError struct {
	StatusCode int
	StatusText string
	Body       string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("HTTP %d %s", e.StatusCode, e.StatusText)
	if e.Body != "" {
		msg += " - " + e.Body
	}
	return msg
}

// APIError decodes Body as the backend's JSON error shape. It reports false
// when the body is not in that shape.
func (e *HTTPError) APIError() (*APIError, bool) {
	var resp ErrorResponse
	if err := json.Unmarshal([]byte(e.Body), &resp); err != nil || resp.Error == "" {
		return nil, false
	}
	return &APIError{
		StatusCode:  e.StatusCode,
		Code:        resp.Error,
		Description: resp.ErrorDescription,
	}, true
}

// MalformedResponseError is a success status whose body could not be parsed.
type MalformedResponseError struct {
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("notesdk: malformed response (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ============================================================================
// Wire error codes
// ============================================================================

const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeEmailTaken         = "email_taken"
	ErrorCodeLoginRequired      = "login_required"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeInsufficientScope  = "insufficient_scope"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeServerError        = "server_error"
)

// APIError is the JSON error body the notes backend writes. The server uses
// it to write responses; the SDK uses it to describe an HTTPError.
type APIError struct {
	StatusCode int `json:"-"`

	Code        string `json:"error"`
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// NewAPIError creates an APIError with a custom description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

var (
	// ErrInvalidRequest is returned for malformed bodies or missing fields.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials is returned when email/password sign-in fails.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid email or password",
	}

	// ErrEmailTaken is returned when signing up with an email already in use.
	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEmailTaken,
		Description: "an account with this email already exists",
	}

	// ErrLoginRequired is returned by cookie endpoints when no session is present.
	ErrLoginRequired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeLoginRequired,
		Description: "no valid session",
	}

	// ErrNoteNotFound is returned when a note does not exist or is not owned by the caller.
	ErrNoteNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "note not found",
	}

	// ErrMethodNotAllowed is returned when the HTTP method is not allowed.
	ErrMethodNotAllowed = &APIError{
		StatusCode:  http.StatusMethodNotAllowed,
		Code:        ErrorCodeInvalidRequest,
		Description: "method not allowed",
	}

	// ErrServerError is returned when the backend hit an unexpected condition.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
