package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/notes/pkg/notesdk"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		Issuer:               "notes",
		Audience:             []string{"notes-api"},
		NumKeys:              1,
		KeyGracePeriod:       time.Hour,
		DatabaseFile:         filepath.Join(dir, "notes.db"),
		PepperFile:           filepath.Join(dir, "secrets", "pepper"),
		TokenTTL:             2 * time.Minute,
		SessionTTL:           time.Hour,
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	}
}

func TestApplicationServesNotes(t *testing.T) {
	cfg := testConfig(t)

	app, err := New(cfg)
	require.NoError(t, err)
	app.housekeepingService.Start()

	srv := httptest.NewServer(app.Handler())
	client := notesdk.NewSDKClient(srv.URL)

	ready, err := client.GetReadiness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)

	_, err = client.SignInAnonymous(t.Context())
	require.NoError(t, err)
	_, err = client.CreateNote(t.Context(), notesdk.NoteInput{Title: "Hello", Description: "world"})
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	srv.Close()
	require.NoError(t, app.Shutdown())

	_, err = os.Stat(cfg.PepperFile)
	require.NoError(t, err, "pepper is created on first start")
}

func TestApplicationReusesPepper(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg)
	require.NoError(t, err)
	first.housekeepingService.Start()

	srv := httptest.NewServer(first.Handler())
	_, err = notesdk.NewSDKClient(srv.URL).SignUpEmail(t.Context(), notesdk.SignUpRequest{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	srv.Close()
	require.NoError(t, first.Shutdown())

	second, err := New(cfg)
	require.NoError(t, err)
	second.housekeepingService.Start()
	t.Cleanup(func() { _ = second.Shutdown() })

	srv = httptest.NewServer(second.Handler())
	t.Cleanup(srv.Close)

	_, err = notesdk.NewSDKClient(srv.URL).SignInEmail(t.Context(), notesdk.SignInRequest{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err, "passwords hashed before a restart still verify")
}
