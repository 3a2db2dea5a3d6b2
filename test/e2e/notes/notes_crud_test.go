package notes_test

import (
	"net/http"
	"sync"
	"testing"

	"github.com/aussiebroadwan/notes/pkg/notesdk"
	"github.com/stretchr/testify/require"
)

// TestNoteLifecycle drives every note operation through the SDK.
func TestNoteLifecycle(t *testing.T) {
	baseURL := setupNotesContainer(t, nil)
	client := signUp(t, baseURL, "ada@example.com")
	ctx := t.Context()

	notes, err := client.ListNotes(ctx)
	require.NoError(t, err)
	require.Empty(t, notes)

	groceries, err := client.CreateNote(ctx, notesdk.NoteInput{Title: "Groceries", Description: "milk, eggs and bread"})
	require.NoError(t, err)
	require.NotEmpty(t, groceries.ID)

	_, err = client.CreateNote(ctx, notesdk.NoteInput{Title: "Holiday", Description: "book flights to Lisbon"})
	require.NoError(t, err)

	got, err := client.GetNote(ctx, groceries.ID)
	require.NoError(t, err)
	require.Equal(t, groceries.ID, got.ID)
	require.Equal(t, "milk, eggs and bread", got.Description)

	updated, err := client.UpdateNote(ctx, notesdk.NoteUpdate{
		ID:          groceries.ID,
		Title:       "Groceries",
		Description: "oat milk, eggs and bread",
	})
	require.NoError(t, err)
	require.Equal(t, "oat milk, eggs and bread", updated.Description)
	require.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	res, err := client.SemanticSearch(ctx, "flights")
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	require.Equal(t, "Holiday", res.Matches[0].Title)
	require.Greater(t, res.Matches[0].Score, 0.0)

	require.NoError(t, client.DeleteNote(ctx, groceries.ID))

	_, err = client.GetNote(ctx, groceries.ID)
	assertAPIError(t, err, http.StatusNotFound, notesdk.ErrorCodeNotFound)

	notes, err = client.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
}

// TestNotesAreIsolatedBetweenUsers verifies one user cannot read or change
// another user's notes.
func TestNotesAreIsolatedBetweenUsers(t *testing.T) {
	baseURL := setupNotesContainer(t, nil)
	ada := signUp(t, baseURL, "ada@example.com")
	bob := signUp(t, baseURL, "bob@example.com")
	ctx := t.Context()

	note, err := ada.CreateNote(ctx, notesdk.NoteInput{Title: "Private", Description: "ada only"})
	require.NoError(t, err)

	_, err = bob.GetNote(ctx, note.ID)
	assertAPIError(t, err, http.StatusNotFound, notesdk.ErrorCodeNotFound)

	_, err = bob.UpdateNote(ctx, notesdk.NoteUpdate{ID: note.ID, Title: "Mine now"})
	assertAPIError(t, err, http.StatusNotFound, notesdk.ErrorCodeNotFound)

	notes, err := bob.ListNotes(ctx)
	require.NoError(t, err)
	require.Empty(t, notes)
}

// TestConcurrentCallsShareOneToken verifies that parallel calls on a fresh
// client all succeed on a single issued bearer.
func TestConcurrentCallsShareOneToken(t *testing.T) {
	baseURL := setupNotesContainer(t, nil)
	client := signUp(t, baseURL, "ada@example.com")

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = client.ListNotes(t.Context())
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	cred, ok := client.Tokens().PeekValid()
	require.True(t, ok)
	require.NotEmpty(t, cred.Token)
}
