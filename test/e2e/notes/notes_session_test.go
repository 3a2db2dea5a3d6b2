package notes_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/notes/pkg/notesdk"
	"github.com/stretchr/testify/require"
)

// TestSessionLifecycle walks sign-up, session lookup, sign-out and sign-in.
func TestSessionLifecycle(t *testing.T) {
	baseURL := setupNotesContainer(t, nil)
	client := signUp(t, baseURL, "ada@example.com")
	ctx := t.Context()

	info, err := client.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, info)
	require.Equal(t, "ada@example.com", info.User.Email)
	require.Equal(t, info.User.ID, info.Session.UserID)

	require.NoError(t, client.SignOut(ctx))

	info, err = client.GetSession(ctx)
	require.NoError(t, err)
	require.Nil(t, info, "no session after sign-out")

	_, err = client.ListNotes(ctx)
	require.ErrorIs(t, err, notesdk.ErrUnauthenticated)

	resp, err := client.SignInEmail(ctx, notesdk.SignInRequest{Email: "ada@example.com", Password: testPassword})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", resp.User.Email)

	_, err = client.ListNotes(ctx)
	require.NoError(t, err)
}

// TestSignInRejectsBadCredentials verifies credential errors are reported
// without revealing which part was wrong.
func TestSignInRejectsBadCredentials(t *testing.T) {
	baseURL := setupNotesContainer(t, nil)
	signUp(t, baseURL, "ada@example.com")

	client := notesdk.NewSDKClient(baseURL)

	_, err := client.SignInEmail(t.Context(), notesdk.SignInRequest{Email: "ada@example.com", Password: "wrong password"})
	assertAPIError(t, err, http.StatusUnauthorized, notesdk.ErrorCodeInvalidCredentials)

	_, err = client.SignInEmail(t.Context(), notesdk.SignInRequest{Email: "nobody@example.com", Password: testPassword})
	assertAPIError(t, err, http.StatusUnauthorized, notesdk.ErrorCodeInvalidCredentials)

	_, err = client.SignUpEmail(t.Context(), notesdk.SignUpRequest{Email: "ada@example.com", Password: testPassword})
	assertAPIError(t, err, http.StatusConflict, notesdk.ErrorCodeEmailTaken)
}

// TestAnonymousNotesSurviveSignUp verifies that a guest keeps their notes
// when they create an account.
func TestAnonymousNotesSurviveSignUp(t *testing.T) {
	baseURL := setupNotesContainer(t, nil)
	client := notesdk.NewSDKClient(baseURL)
	ctx := t.Context()

	anon, err := client.SignInAnonymous(ctx)
	require.NoError(t, err)
	require.True(t, anon.User.IsAnonymous)

	_, err = client.CreateNote(ctx, notesdk.NoteInput{Title: "Guest note", Description: "written before sign-up"})
	require.NoError(t, err)

	_, err = client.SignUpEmail(ctx, notesdk.SignUpRequest{Email: "guest@example.com", Password: testPassword})
	require.NoError(t, err)

	notes, err := client.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, "Guest note", notes[0].Title)
}
