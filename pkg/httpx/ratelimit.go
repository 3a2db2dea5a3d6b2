package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/notes/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket: RequestsPerWindow tokens refill over
// Window, and at most Burst can be spent at once.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

func (c RateLimitConfig) limit() rate.Limit {
	return rate.Limit(float64(c.RequestsPerWindow) / c.Window.Seconds())
}

// idleAfter is how long an untouched bucket takes to refill completely.
func (c RateLimitConfig) idleAfter() time.Duration {
	full := time.Duration(int64(c.Window) * int64(c.Burst) / int64(c.RequestsPerWindow))
	return max(c.Window, full)
}

// Profiles used by the router. Each reads RATELIMIT_<NAME>_REQUESTS,
// RATELIMIT_<NAME>_WINDOW_SEC and RATELIMIT_<NAME>_BURST at startup.
var (
	// StrictLimit guards password and account creation endpoints.
	StrictLimit = limitFromEnv("STRICT", RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5})

	// ModerateLimit guards sign-out and bearer issue.
	ModerateLimit = limitFromEnv("MODERATE", RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20})

	// LenientLimit guards notes calls and session reads.
	LenientLimit = limitFromEnv("LENIENT", RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100})

	// PublicLimit guards health checks and JWKS.
	PublicLimit = limitFromEnv("PUBLIC", RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000})
)

func limitFromEnv(name string, def RateLimitConfig) RateLimitConfig {
	positive := func(suffix string) (int, bool) {
		n, err := strconv.Atoi(os.Getenv("RATELIMIT_" + name + "_" + suffix))
		return n, err == nil && n > 0
	}

	cfg := def
	if n, ok := positive("REQUESTS"); ok {
		cfg.RequestsPerWindow = n
	}
	if n, ok := positive("WINDOW_SEC"); ok {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, ok := positive("BURST"); ok {
		cfg.Burst = n
	}
	return cfg
}

// KeyFunc names the bucket a request is charged to. An empty key exempts
// the request.
type KeyFunc func(*http.Request) string

// ClientIP is the first X-Forwarded-For hop, then X-Real-IP, then the peer
// address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// keyBySubject charges bearer calls to the token subject so one user cannot
// dodge the limit by switching networks. Unauthenticated calls fall back to
// the client IP.
func keyBySubject(r *http.Request) string {
	if sub, ok := UserIDFromContext(r.Context()); ok {
		return "sub:" + sub
	}
	return "ip:" + ClientIP(r)
}

func keyByIP(r *http.Request) string {
	return "ip:" + ClientIP(r)
}

// keyByIPAndJSONField charges a request to its client IP plus a lowercased
// top-level string field of the JSON body. The body is put back for the
// handler. Without the field the IP alone is used.
func keyByIPAndJSONField(field string) KeyFunc {
	return func(r *http.Request) string {
		key := keyByIP(r)
		if v := jsonField(r, field); v != "" {
			key += "|" + field + ":" + v
		}
		return key
	}
}

func jsonField(r *http.Request, field string) string {
	if r.Body == nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONBody))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var doc map[string]json.RawMessage
	if json.Unmarshal(body, &doc) != nil {
		return ""
	}
	var v string
	if json.Unmarshal(doc[field], &v) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(v))
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// buckets holds one limiter per key and drops those that have been idle long
// enough to be full again.
type buckets struct {
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]*bucket
	swept   time.Time
}

func newBuckets(cfg RateLimitConfig, now func() time.Time) *buckets {
	return &buckets{
		limit:   cfg.limit(),
		burst:   cfg.Burst,
		idle:    cfg.idleAfter(),
		now:     now,
		entries: make(map[string]*bucket),
		swept:   now(),
	}
}

// take spends one token for key. When none is left it reports how long until
// the next one.
func (b *buckets) take(key string) (bool, time.Duration) {
	now := b.now()

	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.swept) >= b.idle {
		for k, e := range b.entries {
			if now.Sub(e.seen) >= b.idle {
				delete(b.entries, k)
			}
		}
		b.swept = now
	}

	e, ok := b.entries[key]
	if !ok {
		e = &bucket{lim: rate.NewLimiter(b.limit, b.burst)}
		b.entries[key] = e
	}
	e.seen = now

	res := e.lim.ReserveN(now, 1)
	if !res.OK() {
		return false, b.idle
	}
	if wait := res.DelayFrom(now); wait > 0 {
		res.CancelAt(now)
		return false, wait
	}
	return true, 0
}

func (b *buckets) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// RateLimitMiddleware answers 429 rate_limit_exceeded with a Retry-After once
// the bucket named by key is empty.
func RateLimitMiddleware(cfg RateLimitConfig, key KeyFunc) Middleware {
	return rateLimit(cfg, key, newBuckets(cfg, time.Now))
}

func rateLimit(cfg RateLimitConfig, key KeyFunc, b *buckets) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := b.take(k)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := max(1, int(math.Ceil(wait.Seconds())))
			slogx.FromContext(r.Context()).Warn("rate limited",
				"key", k,
				"path", r.URL.Path,
				"retry_after", retryAfter,
			)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", cfg.Window.String())
			WriteError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many requests. Please try again later.")
		})
	}
}

// RateLimitByIP limits by client IP.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, keyByIP)
}

// RateLimitByUser limits by token subject. It must run after AuthnMiddleware.
func RateLimitByUser(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, keyBySubject)
}

// RateLimitByIPAndJSONField limits by client IP plus a JSON body field, e.g.
// sign-in attempts per IP and email.
func RateLimitByIPAndJSONField(cfg RateLimitConfig, field string) Middleware {
	return RateLimitMiddleware(cfg, keyByIPAndJSONField(field))
}
