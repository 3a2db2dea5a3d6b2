package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func newTestKeyManager(t *testing.T) *jwtx.KeyManager {
	t.Helper()
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:   "notes",
		Audience: []string{"notes-api"},
		NumKeys:  1,
	})
	require.NoError(t, err)
	return km
}

func signToken(t *testing.T, km *jwtx.KeyManager, scopes []string, ttl time.Duration, now time.Time) string {
	t.Helper()
	claims := jwtx.NewAccessClaims("user-1", "sess-1", scopes, ttl, km.Issuer(), km.Audience(), now)
	token, err := km.Signer().Sign(claims)
	require.NoError(t, err)
	return token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthnMiddleware(t *testing.T) {
	km := newTestKeyManager(t)

	var seen jwtx.Claims
	h := httpx.AuthnMiddleware(km.Verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := httpx.ClaimsFromContext(r.Context())
		require.True(t, ok)
		userID, ok := httpx.UserIDFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, claims.Subject, userID)
		seen = claims
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid token reaches the handler", func(t *testing.T) {
		token := signToken(t, km, []string{"notes:read"}, time.Minute, time.Now())

		rec := serve("Bearer " + token)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "user-1", seen.Subject)
		require.Equal(t, "sess-1", seen.SID)
	})

	t.Run("scheme is case insensitive", func(t *testing.T) {
		token := signToken(t, km, nil, time.Minute, time.Now())
		require.Equal(t, http.StatusNoContent, serve("bearer "+token).Code)
	})

	cases := map[string]struct {
		authz string
		desc  string
	}{
		"missing header":  {"", "missing bearer token"},
		"wrong scheme":    {"Basic dXNlcjpwYXNz", "missing bearer token"},
		"empty token":     {"Bearer ", "missing bearer token"},
		"garbage token":   {"Bearer not.a.jwt", "token verification failed"},
		"expired token":   {"Bearer " + signToken(t, km, nil, time.Minute, time.Now().Add(-time.Hour)), "token expired"},
		"foreign key set": {"Bearer " + signToken(t, newTestKeyManager(t), nil, time.Minute, time.Now()), "token verification failed"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(tc.authz)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)

			body := decodeError(t, rec)
			require.Equal(t, "invalid_token", body["error"])
			require.Equal(t, tc.desc, body["error_description"])
		})
	}
}

func TestScopeMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	serve := func(mw httpx.Middleware, scopes []string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := httpx.ContextWithClaims(req.Context(), jwtx.Claims{Scopes: scopes})
		rec := httptest.NewRecorder()
		mw(ok).ServeHTTP(rec, req.WithContext(ctx))
		return rec
	}

	t.Run("any scope", func(t *testing.T) {
		mw := httpx.RequireAnyScope("notes:read", "notes:write")
		require.Equal(t, http.StatusOK, serve(mw, []string{"notes:write"}).Code)

		rec := serve(mw, []string{"profile"})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "insufficient_scope", decodeError(t, rec)["error"])
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), `scope="notes:read notes:write"`)
	})

	t.Run("all scopes", func(t *testing.T) {
		mw := httpx.RequireAllScopes("notes:read", "notes:write")
		require.Equal(t, http.StatusOK, serve(mw, []string{"notes:read", "notes:write"}).Code)
		require.Equal(t, http.StatusForbidden, serve(mw, []string{"notes:read"}).Code)
		require.Equal(t, http.StatusForbidden, serve(mw, nil).Code)
	})
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Title string `json:"title"`
	}

	t.Run("ignores unknown fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"a","extra":1}`))
		var b body
		require.NoError(t, httpx.DecodeJSON(req, &b))
		require.Equal(t, "a", b.Title)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var b body
		require.ErrorContains(t, httpx.DecodeJSON(req, &b), "empty")
	})

	t.Run("rejects trailing values", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"a"}{"title":"b"}`))
		var b body
		require.Error(t, httpx.DecodeJSON(req, &b))
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
		var b body
		require.Error(t, httpx.DecodeJSON(req, &b))
	})
}

func TestWriteErrorIsNotCached(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteError(rec, http.StatusNotFound, "not_found", "note not found")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, map[string]string{"error": "not_found", "error_description": "note not found"}, decodeError(t, rec))
}
