package notesdk

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedIssuer(token string, expiresIn *int) *stubIssuer {
	return &stubIssuer{fn: func(context.Context, int) (*TokenResponse, error) {
		return &TokenResponse{Token: token, ExpiresIn: expiresIn}, nil
	}}
}

func TestTokenProviderStore(t *testing.T) {
	t.Parallel()

	t.Run("applies safety margin", func(t *testing.T) {
		clock := newFakeClock()
		p := NewTokenProvider(fixedIssuer("unused", nil), WithClock(clock.Now))

		cred := p.Store("t1", 120*time.Second)
		require.Equal(t, "t1", cred.Token)
		require.Equal(t, clock.Now().Add(105*time.Second), cred.ExpiresAt)

		peeked, ok := p.PeekValid()
		require.True(t, ok)
		require.Equal(t, cred, peeked)
	})

	t.Run("lifetime shorter than margin is stale immediately", func(t *testing.T) {
		clock := newFakeClock()
		p := NewTokenProvider(fixedIssuer("unused", nil), WithClock(clock.Now))

		cred := p.Store("short", 5*time.Second)
		require.Equal(t, clock.Now(), cred.ExpiresAt)

		_, ok := p.PeekValid()
		require.False(t, ok)
	})

	t.Run("custom margin", func(t *testing.T) {
		clock := newFakeClock()
		p := NewTokenProvider(fixedIssuer("unused", nil),
			WithClock(clock.Now),
			WithSafetyMargin(time.Minute),
		)

		cred := p.Store("t1", 2*time.Minute)
		require.Equal(t, clock.Now().Add(time.Minute), cred.ExpiresAt)
	})

	t.Run("replaces the previous credential", func(t *testing.T) {
		clock := newFakeClock()
		p := NewTokenProvider(fixedIssuer("unused", nil), WithClock(clock.Now))

		p.Store("old", 120*time.Second)
		p.Store("new", 60*time.Second)

		cred, ok := p.PeekValid()
		require.True(t, ok)
		require.Equal(t, "new", cred.Token)
		require.Equal(t, clock.Now().Add(45*time.Second), cred.ExpiresAt)
	})
}

func TestTokenProviderPeekValidBoundary(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	p := NewTokenProvider(fixedIssuer("unused", nil), WithClock(clock.Now))

	_, ok := p.PeekValid()
	require.False(t, ok, "empty cache is never valid")

	p.Store("t1", 120*time.Second)

	clock.Advance(104 * time.Second)
	_, ok = p.PeekValid()
	require.True(t, ok)

	// expiresAt == now is already stale
	clock.Advance(time.Second)
	_, ok = p.PeekValid()
	require.False(t, ok)
}

func TestTokenProviderInvalidateAndReject(t *testing.T) {
	t.Parallel()

	t.Run("invalidate clears unconditionally", func(t *testing.T) {
		clock := newFakeClock()
		p := NewTokenProvider(fixedIssuer("unused", nil), WithClock(clock.Now))

		p.Store("t1", 120*time.Second)
		p.Invalidate()

		_, ok := p.PeekValid()
		require.False(t, ok)
	})

	t.Run("reject clears the matching token", func(t *testing.T) {
		clock := newFakeClock()
		p := NewTokenProvider(fixedIssuer("unused", nil), WithClock(clock.Now))

		p.Store("t1", 120*time.Second)
		p.Reject("t1")

		_, ok := p.PeekValid()
		require.False(t, ok)
	})

	t.Run("reject keeps a newer token", func(t *testing.T) {
		clock := newFakeClock()
		p := NewTokenProvider(fixedIssuer("unused", nil), WithClock(clock.Now))

		p.Store("t2", 120*time.Second)
		p.Reject("t1")

		cred, ok := p.PeekValid()
		require.True(t, ok)
		require.Equal(t, "t2", cred.Token)
	})
}

func TestTokenProviderToken(t *testing.T) {
	t.Parallel()

	t.Run("issues once and caches until stale", func(t *testing.T) {
		clock := newFakeClock()
		issuer := &stubIssuer{fn: func(_ context.Context, call int) (*TokenResponse, error) {
			return &TokenResponse{Token: fmt.Sprintf("t%d", call), ExpiresIn: intPtr(120)}, nil
		}}
		p := NewTokenProvider(issuer, WithClock(clock.Now))

		cred, err := p.Token(t.Context())
		require.NoError(t, err)
		require.Equal(t, "t1", cred.Token)

		cred, err = p.Token(t.Context())
		require.NoError(t, err)
		require.Equal(t, "t1", cred.Token)
		require.Equal(t, 1, issuer.Calls())

		clock.Advance(105 * time.Second)

		cred, err = p.Token(t.Context())
		require.NoError(t, err)
		require.Equal(t, "t2", cred.Token)
		require.Equal(t, 2, issuer.Calls())
	})

	t.Run("missing expiresIn uses the default ttl", func(t *testing.T) {
		clock := newFakeClock()
		p := NewTokenProvider(fixedIssuer("t1", nil), WithClock(clock.Now))

		cred, err := p.Token(t.Context())
		require.NoError(t, err)
		require.Equal(t, clock.Now().Add(DefaultTokenTTL-DefaultSafetyMargin), cred.ExpiresAt)
	})

	t.Run("lifetime within the margin is an error", func(t *testing.T) {
		clock := newFakeClock()
		p := NewTokenProvider(fixedIssuer("t1", intPtr(10)), WithClock(clock.Now))

		_, err := p.Token(t.Context())
		require.Error(t, err)
		require.Contains(t, err.Error(), "safety margin")
	})

	t.Run("empty token is malformed", func(t *testing.T) {
		p := NewTokenProvider(fixedIssuer("", intPtr(120)))

		_, err := p.Token(t.Context())
		var malformed *MalformedResponseError
		require.ErrorAs(t, err, &malformed)
	})

	t.Run("issuer errors propagate", func(t *testing.T) {
		issuer := &stubIssuer{fn: func(context.Context, int) (*TokenResponse, error) {
			return nil, ErrUnauthenticated
		}}
		p := NewTokenProvider(issuer)

		_, err := p.Token(t.Context())
		require.ErrorIs(t, err, ErrUnauthenticated)

		_, ok := p.PeekValid()
		require.False(t, ok)
	})
}

func TestTokenProviderSingleFlight(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	issuer := &stubIssuer{fn: func(_ context.Context, call int) (*TokenResponse, error) {
		<-release
		return &TokenResponse{Token: fmt.Sprintf("t%d", call), ExpiresIn: intPtr(120)}, nil
	}}
	clock := newFakeClock()
	p := NewTokenProvider(issuer, WithClock(clock.Now))

	const callers = 16
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	errs := make([]error, callers)

	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cred, err := p.Token(context.Background())
			tokens[i] = cred.Token
			errs[i] = err
		}()
	}

	require.Eventually(t, func() bool { return issuer.Calls() == 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		require.Equal(t, "t1", tokens[i])
	}
	require.Equal(t, 1, issuer.Calls())
}

func TestTokenProviderWithoutSingleFlight(t *testing.T) {
	t.Parallel()

	// Each caller must reach the issuer on its own; the barrier only opens
	// once both are inside.
	var (
		mu      sync.Mutex
		arrived int
		both    = make(chan struct{})
	)
	issuer := &stubIssuer{fn: func(_ context.Context, call int) (*TokenResponse, error) {
		mu.Lock()
		arrived++
		if arrived == 2 {
			close(both)
		}
		mu.Unlock()

		select {
		case <-both:
		case <-time.After(2 * time.Second):
			return nil, errors.New("second caller never reached the issuer")
		}
		return &TokenResponse{Token: fmt.Sprintf("t%d", call), ExpiresIn: intPtr(120)}, nil
	}}
	p := NewTokenProvider(issuer, WithoutSingleFlight())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = p.Token(context.Background())
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.Equal(t, 2, issuer.Calls())
}

func TestTokenProviderWaiterCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	issuer := &stubIssuer{fn: func(ctx context.Context, _ int) (*TokenResponse, error) {
		<-release
		// The shared refresh is detached from the waiter's cancellation.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &TokenResponse{Token: "t1", ExpiresIn: intPtr(120)}, nil
	}}
	p := NewTokenProvider(issuer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Token(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool { return issuer.Calls() == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter did not return")
	}

	close(release)
	require.Eventually(t, func() bool {
		_, ok := p.PeekValid()
		return ok
	}, time.Second, time.Millisecond, "refresh should still land in the cache")
}

func TestTokenProviderConcurrentReplacement(t *testing.T) {
	t.Parallel()

	// Every stored credential encodes its own lifetime in the token, so a
	// reader can tell whether token and expiry came from the same Store.
	clock := newFakeClock()
	base := clock.Now()
	p := NewTokenProvider(fixedIssuer("unused", nil), WithClock(clock.Now))

	const writes = 500
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for n := range writes {
			p.Store(fmt.Sprintf("tok-%d", n), time.Duration(n+100)*time.Second)
		}
	}()

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range writes {
				cred, ok := p.PeekValid()
				if !ok {
					continue
				}
				var n int
				_, err := fmt.Sscanf(cred.Token, "tok-%d", &n)
				require.NoError(t, err)
				require.Equal(t, base.Add(time.Duration(n+85)*time.Second), cred.ExpiresAt)
			}
		}()
	}

	wg.Wait()
}

func TestTokenProviderInvalidateDuringRefresh(t *testing.T) {
	t.Parallel()

	t.Run("stale result is dropped and reissued", func(t *testing.T) {
		entered := make(chan struct{})
		release := make(chan struct{})
		issuer := &stubIssuer{fn: func(_ context.Context, call int) (*TokenResponse, error) {
			if call == 1 {
				close(entered)
				<-release
			}
			return &TokenResponse{Token: fmt.Sprintf("t%d", call), ExpiresIn: intPtr(120)}, nil
		}}
		p := NewTokenProvider(issuer)

		var (
			cred Credential
			err  error
			done = make(chan struct{})
		)
		go func() {
			defer close(done)
			cred, err = p.Token(context.Background())
		}()

		<-entered
		p.Invalidate()
		close(release)

		<-done
		require.NoError(t, err)
		require.Equal(t, "t2", cred.Token)

		peeked, ok := p.PeekValid()
		require.True(t, ok)
		require.Equal(t, "t2", peeked.Token)
	})

	t.Run("gives up when the session keeps changing", func(t *testing.T) {
		var p *TokenProvider
		issuer := &stubIssuer{fn: func(_ context.Context, call int) (*TokenResponse, error) {
			p.Invalidate()
			return &TokenResponse{Token: fmt.Sprintf("t%d", call), ExpiresIn: intPtr(120)}, nil
		}}
		p = NewTokenProvider(issuer)

		_, err := p.Token(t.Context())
		require.ErrorIs(t, err, ErrUnauthenticated)
		require.Equal(t, 2, issuer.Calls())

		_, ok := p.PeekValid()
		require.False(t, ok)
	})
}

func TestTokenProviderHugeExpiresIn(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	p := NewTokenProvider(fixedIssuer("t1", intPtr(math.MaxInt)), WithClock(clock.Now))

	cred, err := p.Token(t.Context())
	require.NoError(t, err)
	require.Equal(t, "t1", cred.Token)
	require.True(t, cred.ExpiresAt.After(clock.Now().Add(100*365*24*time.Hour)))
}
