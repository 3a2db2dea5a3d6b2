package notesdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the JSON error body written by the notes backend.
type ErrorResponse struct {
	// Error is the machine readable code (e.g. "login_required")
	Error string `json:"error"`

	// ErrorDescription is a human readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Session Types (cookie authenticated)
// ============================================================================

// User is the account behind a session. Anonymous users have no email.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	Name        string    `json:"name,omitempty"`
	IsAnonymous bool      `json:"isAnonymous"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SessionDetails describes the server-held session.
type SessionDetails struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionInfo is returned by the session check. The SDK only returns it when
// both halves are present.
type SessionInfo struct {
	User    *User           `json:"user"`
	Session *SessionDetails `json:"session"`
}

// SignUpRequest is the body of the email sign-up call.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SignInRequest is the body of the email sign-in call.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by the sign-up and sign-in calls. The session
// itself travels in a cookie; Token is informational.
type AuthResponse struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user"`
}

// SignOutResponse is returned by the sign-out call.
type SignOutResponse struct {
	Success bool `json:"success"`
}

// ============================================================================
// Token Types
// ============================================================================

// TokenResponse is returned by the bearer issue endpoint.
type TokenResponse struct {
	// Token is the short-lived bearer credential
	Token string `json:"token"`

	// ExpiresIn is the lifetime in seconds. Nil means the issuer did not say,
	// in which case DefaultTokenTTL applies.
	ExpiresIn *int `json:"expiresIn,omitempty"`
}

// ============================================================================
// Notes Types (bearer authenticated)
// ============================================================================

// Note is a single note as returned by the notes API.
type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NoteInput is the body of the create call.
type NoteInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NoteUpdate is the body of the update call.
type NoteUpdate struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SearchRequest is the body of the semantic search call.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchMatch is one scored hit.
type SearchMatch struct {
	ID    string  `json:"id,omitempty"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// SearchResult is the semantic search response.
type SearchResult struct {
	Matches []SearchMatch `json:"matches"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of critical backend dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
