package service_test

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/internal/notes/store/drivers/sqlite"
	"github.com/aussiebroadwan/notes/pkg/cryptox"
	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	store *sqlite.Store
	clock *clock
	keys  *jwtx.KeyManager
	auth  *service.AuthService
	notes *service.NotesService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	keys, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:   "notes",
		Audience: []string{"notes-api"},
	})
	require.NoError(t, err)

	c := &clock{now: time.Now().UTC().Truncate(time.Millisecond)}

	return &fixture{
		store: st,
		clock: c,
		keys:  keys,
		auth: &service.AuthService{
			Store:      st,
			Hasher:     cryptox.NewPasswordHasher("test-pepper"),
			KeyManager: keys,
			TokenTTL:   2 * time.Minute,
			SessionTTL: time.Hour,
			Now:        c.Now,
		},
		notes: &service.NotesService{Store: st, Now: c.Now},
	}
}

func (f *fixture) signUp(t *testing.T, email string) *service.SignInResult {
	t.Helper()
	res, err := f.auth.SignUp(t.Context(), email, "correct horse", "Test User", "")
	require.NoError(t, err)
	return res
}
