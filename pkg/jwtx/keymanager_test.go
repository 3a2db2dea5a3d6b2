package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewEphemeralKeyManager(t *testing.T) {
	t.Run("requires issuer", func(t *testing.T) {
		_, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{})
		require.Error(t, err)
	})

	tests := []struct {
		name    string
		numKeys int
		want    int
	}{
		{"default", 0, 2},
		{"single", 1, 1},
		{"clamped", 50, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
				Issuer:  exampleIssuer,
				NumKeys: tt.numKeys,
			})
			require.NoError(t, err)
			require.True(t, km.IsReady())
			require.Equal(t, tt.want, km.NumSigners())
			require.Len(t, km.KeySet.PublicJWKS().Keys, tt.want)
		})
	}
}

func TestKeyManagerSignAndVerifyRoundTrip(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:   exampleIssuer,
		Audience: []string{"notes-api"},
		NumKeys:  3,
	})
	require.NoError(t, err)

	// Whichever key signs, the verifier knows it.
	for range 10 {
		claims := jwtx.NewAccessClaims("user-1", "sess-1", []string{"notes:read"}, time.Minute, km.Issuer(), km.Audience(), time.Now())
		token, err := km.Signer().Sign(claims)
		require.NoError(t, err)

		parsed, err := km.Verifier.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "user-1", parsed.Subject)
	}
}

func TestKeyManagerRotateAndPrune(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: exampleIssuer, NumKeys: 1})
	require.NoError(t, err)

	old := km.Signer()
	token, err := old.Sign(jwtx.NewAccessClaims("u", "s", nil, time.Hour, exampleIssuer, nil, time.Now()))
	require.NoError(t, err)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	retired, err := km.Rotate(now)
	require.NoError(t, err)
	require.Equal(t, old.KID(), retired)

	require.Equal(t, 1, km.NumSigners())
	require.NotEqual(t, old.KID(), km.Signer().KID())
	require.Len(t, km.KeySet.PublicJWKS().Keys, 2)

	// Still inside the grace period: old tokens verify.
	require.Zero(t, km.PruneRetired(now.Add(time.Minute), time.Hour))
	_, err = km.Verifier.Verify(token)
	require.NoError(t, err)

	require.Equal(t, 1, km.PruneRetired(now.Add(time.Hour), time.Hour))
	require.Len(t, km.KeySet.PublicJWKS().Keys, 1)

	_, err = km.Verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrUnknownKID)
}
