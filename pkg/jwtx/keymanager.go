package jwtx

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aussiebroadwan/notes/pkg/cryptox"
)

const (
	defaultNumKeys = 2
	maxNumKeys     = 10
)

// KeyManager owns the in-memory signing keys of one backend instance. Keys
// are ephemeral: they are generated at start and every token dies with the
// process.
//
// Signing picks one of the active keys at random. Rotate replaces the oldest
// active key; the replaced key keeps verifying until PruneRetired drops it.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	opts KeyManagerOptions

	mu      sync.RWMutex
	signers []Signer
	retired map[string]time.Time // kid -> retired at
}

// KeyManagerOptions configures a KeyManager.
type KeyManagerOptions struct {
	// Issuer is stamped into and required on every token.
	Issuer string

	// Audience is required on every token when non-empty.
	Audience []string

	// NumKeys is the number of active signing keys, clamped to [1, 10].
	// Zero means 2.
	NumKeys int

	// Leeway allows clock skew on exp/nbf during verification.
	Leeway time.Duration
}

// NewEphemeralKeyManager generates opts.NumKeys Ed25519 signing keys.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	n := opts.NumKeys
	if n <= 0 {
		n = defaultNumKeys
	}
	n = min(n, maxNumKeys)

	keyset := NewKeySet()
	km := &KeyManager{
		KeySet: keyset,
		Verifier: NewVerifierEdDSA(keyset, VerifyOptions{
			Issuer:   opts.Issuer,
			Audience: opts.Audience,
			Leeway:   opts.Leeway,
		}),
		opts:    opts,
		retired: make(map[string]time.Time),
	}

	for i := range n {
		signer, err := generateSigner()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate signer %d: %w", i+1, err)
		}
		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: failed to add signer %d to keyset: %w", i+1, err)
		}
		km.signers = append(km.signers, signer)
	}

	return km, nil
}

func generateSigner() (Signer, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key ID: %w", err)
	}

	pemBytes, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}

	return NewSignerEdDSA("notes-"+token, pemBytes)
}

// Issuer returns the configured issuer.
func (km *KeyManager) Issuer() string { return km.opts.Issuer }

// Audience returns the configured audience.
func (km *KeyManager) Audience() []string { return km.opts.Audience }

// IsReady returns true if there is at least one verification key.
func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}

// Signer returns a randomly selected active signer.
func (km *KeyManager) Signer() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	default:
		return km.signers[rand.IntN(len(km.signers))]
	}
}

// NumSigners returns the number of active signing keys.
func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// Rotate adds a fresh signing key and retires the oldest active one from
// signing. It returns the kid of the retired key.
func (km *KeyManager) Rotate(now time.Time) (string, error) {
	signer, err := generateSigner()
	if err != nil {
		return "", err
	}
	if err := km.KeySet.AddSigner(signer); err != nil {
		return "", err
	}

	km.mu.Lock()
	defer km.mu.Unlock()

	oldest := km.signers[0]
	km.signers = append(km.signers[1:], signer)
	km.retired[oldest.KID()] = now

	return oldest.KID(), nil
}

// PruneRetired removes retired keys older than grace from the KeySet and
// returns how many were dropped. grace should outlive the token TTL plus
// leeway, or freshly issued tokens stop verifying.
func (km *KeyManager) PruneRetired(now time.Time, grace time.Duration) int {
	km.mu.Lock()
	defer km.mu.Unlock()

	var pruned int
	for kid, at := range km.retired {
		if now.Sub(at) < grace {
			continue
		}
		km.KeySet.Remove(kid)
		delete(km.retired, kid)
		pruned++
	}
	return pruned
}
