package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"NOTES_ISSUER", "NOTES_AUDIENCE", "NOTES_TOKEN_TTL", "NOTES_SESSION_TTL",
		"NOTES_COOKIE_SECURE", "PORT", "HOUSEKEEPING_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "notes", cfg.Issuer)
	require.Equal(t, []string{"notes-api"}, cfg.Audience)
	require.Equal(t, 120*time.Second, cfg.TokenTTL)
	require.Equal(t, 168*time.Hour, cfg.SessionTTL)
	require.False(t, cfg.CookieSecure)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("NOTES_ISSUER", "https://notes.example.com")
	t.Setenv("NOTES_AUDIENCE", "notes-api, notes-cli,")
	t.Setenv("NOTES_TOKEN_TTL", "300")
	t.Setenv("NOTES_SESSION_TTL", "2h")
	t.Setenv("NOTES_COOKIE_SECURE", "true")
	t.Setenv("PORT", "9090")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "nonsense")

	cfg := LoadConfig()
	require.Equal(t, "https://notes.example.com", cfg.Issuer)
	require.Equal(t, []string{"notes-api", "notes-cli"}, cfg.Audience)
	require.Equal(t, 5*time.Minute, cfg.TokenTTL)
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.True(t, cfg.CookieSecure)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod, "unparseable values fall back to the default")
}
