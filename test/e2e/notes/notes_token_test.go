package notes_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/aussiebroadwan/notes/pkg/notesdk"
	"github.com/stretchr/testify/require"
)

// TestShortLivedTokenIsRefreshed runs the backend with a bearer lifetime just
// above the client's safety margin, so the cached token goes stale quickly.
func TestShortLivedTokenIsRefreshed(t *testing.T) {
	baseURL := setupNotesContainer(t, map[string]string{"NOTES_TOKEN_TTL": "18s"})
	client := signUp(t, baseURL, "ada@example.com")
	ctx := t.Context()

	_, err := client.ListNotes(ctx)
	require.NoError(t, err)

	first, ok := client.Tokens().PeekValid()
	require.True(t, ok)

	time.Sleep(4 * time.Second)

	_, ok = client.Tokens().PeekValid()
	require.False(t, ok, "token inside the safety margin is stale")

	_, err = client.ListNotes(ctx)
	require.NoError(t, err)

	second, ok := client.Tokens().PeekValid()
	require.True(t, ok)
	require.NotEqual(t, first.Token, second.Token)
}

// TestRejectedTokenIsReplaced poisons the cache with a forged token. The
// executor must discard it after the 401 and succeed with a fresh one.
func TestRejectedTokenIsReplaced(t *testing.T) {
	baseURL := setupNotesContainer(t, nil)
	client := signUp(t, baseURL, "ada@example.com")

	client.Tokens().Store("forged.token.value", 10*time.Minute)

	notes, err := client.ListNotes(t.Context())
	require.NoError(t, err)
	require.Empty(t, notes)

	cred, ok := client.Tokens().PeekValid()
	require.True(t, ok)
	require.NotEqual(t, "forged.token.value", cred.Token)
}

// TestRawBearerRequests checks the bearer errors seen by clients that do not
// use the SDK.
func TestRawBearerRequests(t *testing.T) {
	baseURL := setupNotesContainer(t, nil)

	resp, err := http.Get(baseURL + "/api/notes")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")

	issue, err := http.Post(baseURL+"/auth/issue", "application/json", nil)
	require.NoError(t, err)
	_ = issue.Body.Close()
	require.Equal(t, http.StatusUnauthorized, issue.StatusCode)

	_, err = notesdk.NewSDKClient(baseURL).IssueToken(t.Context())
	require.ErrorIs(t, err, notesdk.ErrUnauthenticated)
}
