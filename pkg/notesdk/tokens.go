package notesdk

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultSafetyMargin is subtracted from every issued lifetime so the cache
	// reports staleness before the server-side token actually expires.
	DefaultSafetyMargin = 15 * time.Second

	// DefaultTokenTTL is assumed when the issuer omits expiresIn.
	DefaultTokenTTL = 120 * time.Second

	refreshKey = "bearer"
)

// Credential is a bearer token together with the instant the cache stops
// trusting it. The zero value means "no credential".
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// ValidAt reports whether the credential can still be attached at now.
func (c Credential) ValidAt(now time.Time) bool {
	return c.Token != "" && now.Before(c.ExpiresAt)
}

// TokenIssuer mints bearer tokens from whatever session the caller holds.
// It must return an error matching ErrUnauthenticated when no session exists.
type TokenIssuer interface {
	IssueToken(ctx context.Context) (*TokenResponse, error)
}

// TokenProviderOption configures a TokenProvider.
type TokenProviderOption func(*TokenProvider)

// WithSafetyMargin overrides DefaultSafetyMargin. Negative values are treated as zero.
func WithSafetyMargin(d time.Duration) TokenProviderOption {
	return func(p *TokenProvider) { p.margin = max(0, d) }
}

// WithDefaultTTL overrides DefaultTokenTTL.
func WithDefaultTTL(d time.Duration) TokenProviderOption {
	return func(p *TokenProvider) { p.defaultTTL = d }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) TokenProviderOption {
	return func(p *TokenProvider) { p.now = now }
}

// WithoutSingleFlight makes every stale caller issue its own token instead of
// sharing one in-flight refresh.
func WithoutSingleFlight() TokenProviderOption {
	return func(p *TokenProvider) { p.singleFlight = false }
}

// TokenProvider is the process-local cache for the current bearer credential.
// It is safe for concurrent use.
type TokenProvider struct {
	issuer       TokenIssuer
	now          func() time.Time
	margin       time.Duration
	defaultTTL   time.Duration
	singleFlight bool

	mu   sync.RWMutex
	cred Credential
	// gen changes on every Invalidate. A refresh that started under an older
	// generation may carry the previous identity and is never stored.
	gen uint64

	group singleflight.Group
}

// NewTokenProvider creates an empty cache that refreshes through issuer.
func NewTokenProvider(issuer TokenIssuer, opts ...TokenProviderOption) *TokenProvider {
	p := &TokenProvider{
		issuer:       issuer,
		now:          time.Now,
		margin:       DefaultSafetyMargin,
		defaultTTL:   DefaultTokenTTL,
		singleFlight: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PeekValid returns the cached credential if it is still valid. It never
// triggers a refresh.
func (p *TokenProvider) PeekValid() (Credential, bool) {
	p.mu.RLock()
	cred := p.cred
	p.mu.RUnlock()

	if !cred.ValidAt(p.now()) {
		return Credential{}, false
	}
	return cred, true
}

// Invalidate drops the cached credential unconditionally. Refreshes already in
// flight are discarded when they complete.
func (p *TokenProvider) Invalidate() {
	p.mu.Lock()
	p.cred = Credential{}
	p.gen++
	p.mu.Unlock()

	p.group.Forget(refreshKey)
}

// Reject drops the cached credential only if it is still the given token.
// A credential stored by a concurrent refresh survives.
func (p *TokenProvider) Reject(token string) {
	p.mu.Lock()
	if p.cred.Token == token {
		p.cred = Credential{}
	}
	p.mu.Unlock()
}

// Store replaces the cache with token, trusted for ttl minus the safety margin.
func (p *TokenProvider) Store(token string, ttl time.Duration) Credential {
	cred := p.credential(token, ttl)

	p.mu.Lock()
	p.cred = cred
	p.mu.Unlock()

	return cred
}

func (p *TokenProvider) credential(token string, ttl time.Duration) Credential {
	return Credential{
		Token:     token,
		ExpiresAt: p.now().Add(max(0, ttl-p.margin)),
	}
}

func (p *TokenProvider) generation() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gen
}

// storeAt stores cred only if no Invalidate happened since gen was read.
func (p *TokenProvider) storeAt(gen uint64, cred Credential) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return false
	}
	p.cred = cred
	return true
}

// Token returns a valid credential, asking the issuer for a new one when the
// cache is empty or stale. Concurrent stale callers share a single issue call
// unless WithoutSingleFlight was given.
func (p *TokenProvider) Token(ctx context.Context) (Credential, error) {
	if cred, ok := p.PeekValid(); ok {
		return cred, nil
	}

	if !p.singleFlight {
		return p.refresh(ctx)
	}

	// The shared refresh outlives any single waiter; each waiter still stops
	// waiting as soon as its own context ends.
	ch := p.group.DoChan(refreshKey, func() (any, error) {
		if cred, ok := p.PeekValid(); ok {
			return cred, nil
		}
		return p.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return Credential{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Credential{}, res.Err
		}
		return res.Val.(Credential), nil
	}
}

// refresh issues a new token. If the cache is invalidated while the issue call
// is in flight the result is dropped and the call is made once more, since the
// first answer may belong to the session that was just replaced.
func (p *TokenProvider) refresh(ctx context.Context) (Credential, error) {
	for range 2 {
		gen := p.generation()

		resp, err := p.issuer.IssueToken(ctx)
		if err != nil {
			return Credential{}, err
		}

		if resp == nil || resp.Token == "" {
			return Credential{}, &MalformedResponseError{
				StatusCode: 200,
				Err:        errors.New("token issuer returned no token"),
			}
		}

		ttl := p.defaultTTL
		if resp.ExpiresIn != nil {
			ttl = expiresInDuration(*resp.ExpiresIn)
		}

		cred := p.credential(resp.Token, ttl)
		if !cred.ValidAt(p.now()) {
			return Credential{}, fmt.Errorf(
				"notesdk: issued token lifetime %s does not exceed safety margin %s",
				ttl, p.margin,
			)
		}

		if p.storeAt(gen, cred) {
			return cred, nil
		}
	}

	return Credential{}, fmt.Errorf("%w: session changed while refreshing the bearer token", ErrUnauthenticated)
}

// expiresInDuration converts an expiresIn value in seconds, saturating instead
// of overflowing.
func expiresInDuration(seconds int) time.Duration {
	if int64(seconds) > int64(math.MaxInt64/time.Second) {
		return math.MaxInt64
	}
	return time.Duration(seconds) * time.Second
}
