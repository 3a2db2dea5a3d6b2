package notesdk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock safe for concurrent use.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// recordedRequest is what the fake backend saw on a protected route.
type recordedRequest struct {
	Method      string
	Path        string
	Query       string
	Token       string
	ContentType string
	RequestID   string
	Body        string
}

// fakeBackend serves /auth/issue and the protected routes with pluggable
// behaviour, counting every call.
type fakeBackend struct {
	srv *httptest.Server

	mu         sync.Mutex
	issueCalls int
	requests   []recordedRequest

	issue     func(w http.ResponseWriter, r *http.Request, call int)
	protected func(w http.ResponseWriter, r *http.Request, token string)
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{
		issue:     issueSequence(120, "t1"),
		protected: respondJSON(http.StatusOK, "[]"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/issue", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.issueCalls++
		call := fb.issueCalls
		issue := fb.issue
		fb.mu.Unlock()

		issue(w, r, call)
	})
	protected := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		fb.mu.Lock()
		fb.requests = append(fb.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			Token:       token,
			ContentType: r.Header.Get("Content-Type"),
			RequestID:   r.Header.Get(HeaderRequestID),
			Body:        string(body),
		})
		handler := fb.protected
		fb.mu.Unlock()

		handler(w, r, token)
	}
	mux.HandleFunc("/api/notes", protected)
	mux.HandleFunc("/api/search", protected)

	fb.srv = httptest.NewServer(mux)
	t.Cleanup(fb.srv.Close)

	return fb
}

func (fb *fakeBackend) setIssue(fn func(w http.ResponseWriter, r *http.Request, call int)) {
	fb.mu.Lock()
	fb.issue = fn
	fb.mu.Unlock()
}

func (fb *fakeBackend) setProtected(fn func(w http.ResponseWriter, r *http.Request, token string)) {
	fb.mu.Lock()
	fb.protected = fn
	fb.mu.Unlock()
}

func (fb *fakeBackend) IssueCalls() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.issueCalls
}

func (fb *fakeBackend) Requests() []recordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]recordedRequest(nil), fb.requests...)
}

func (fb *fakeBackend) WireTokens() []string {
	var tokens []string
	for _, r := range fb.Requests() {
		tokens = append(tokens, r.Token)
	}
	return tokens
}

func (fb *fakeBackend) client(clock *fakeClock, opts ...TokenProviderOption) *SDKClient {
	opts = append([]TokenProviderOption{WithClock(clock.Now)}, opts...)
	return NewSDKClient(fb.srv.URL, WithTokenOptions(opts...))
}

// issueSequence hands out tokens in order, repeating the last one.
func issueSequence(expiresIn int, tokens ...string) func(http.ResponseWriter, *http.Request, int) {
	return func(w http.ResponseWriter, _ *http.Request, call int) {
		token := tokens[min(call, len(tokens))-1]
		writeJSON(w, http.StatusOK, map[string]any{"token": token, "expiresIn": expiresIn})
	}
}

func issueNoSession() func(http.ResponseWriter, *http.Request, int) {
	return func(w http.ResponseWriter, _ *http.Request, _ int) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":             "login_required",
			"error_description": "no valid session",
		})
	}
}

func respondJSON(status int, body string) func(http.ResponseWriter, *http.Request, string) {
	return func(w http.ResponseWriter, _ *http.Request, _ string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// stubIssuer is an in-process TokenIssuer for TokenProvider tests.
type stubIssuer struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, call int) (*TokenResponse, error)
}

func (s *stubIssuer) IssueToken(ctx context.Context) (*TokenResponse, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()

	return s.fn(ctx, call)
}

func (s *stubIssuer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func intPtr(v int) *int { return &v }
