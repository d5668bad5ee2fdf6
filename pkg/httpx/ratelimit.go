package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/bookly/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket holding Burst tokens, refilled at
// RequestsPerWindow per Window.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Limit converts the config to a refill rate. A zero config never limits.
func (c RateLimitConfig) Limit() rate.Limit {
	if c.RequestsPerWindow <= 0 || c.Window <= 0 {
		return rate.Inf
	}
	return rate.Every(c.Window / time.Duration(c.RequestsPerWindow))
}

// Default profiles, from tightest to loosest.
var (
	// StrictLimit guards credential endpoints.
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit guards token churn and writes that send mail.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}

	// LenientLimit is for ordinary authenticated traffic.
	LenientLimit = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}

	// PublicLimit is for unauthenticated probes.
	PublicLimit = RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
)

// KeyFunc groups requests that share a bucket. An empty key is not limited.
type KeyFunc func(*http.Request) string

// ProxyTrust lists the peers whose X-Forwarded-For and X-Real-IP headers are
// believed. The zero value trusts nobody.
type ProxyTrust struct {
	prefixes []netip.Prefix
}

// ParseProxyTrust accepts addresses and CIDR ranges. Blank entries are skipped.
func ParseProxyTrust(entries []string) (ProxyTrust, error) {
	var pt ProxyTrust
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.Contains(e, "/") {
			addr, err := netip.ParseAddr(e)
			if err != nil {
				return ProxyTrust{}, fmt.Errorf("httpx: trusted proxy %q: %w", e, err)
			}
			addr = addr.Unmap()
			pt.prefixes = append(pt.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		p, err := netip.ParsePrefix(e)
		if err != nil {
			return ProxyTrust{}, fmt.Errorf("httpx: trusted proxy %q: %w", e, err)
		}
		pt.prefixes = append(pt.prefixes, p.Masked())
	}
	return pt, nil
}

// Trusts reports whether ip falls inside a trusted range.
func (pt ProxyTrust) Trusts(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range pt.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the host part of RemoteAddr unless that peer is trusted.
// Behind a trusted peer it walks X-Forwarded-For from the right and returns
// the first untrusted hop, then falls back to X-Real-IP.
func (pt ProxyTrust) ClientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !pt.Trusts(peer) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop != "" && !pt.Trusts(hop) {
			return hop
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}

// ClientIP returns the connecting peer and ignores forwarding headers.
func ClientIP(r *http.Request) string {
	return ProxyTrust{}.ClientIP(r)
}

// UserKey returns the authenticated user ID, or "" before the gate ran.
func UserKey(r *http.Request) string {
	id, _ := r.Context().Value(CtxKeyUserID).(string)
	return id
}

// JoinKeys concatenates the non-empty keys of fns with sep.
func JoinKeys(sep string, fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if k := fn(r); k != "" {
				parts = append(parts, k)
			}
		}
		return strings.Join(parts, sep)
	}
}

// maxKeyBodyBytes caps how much of a request body JSONFieldKey buffers.
const maxKeyBodyBytes = 64 << 10

// JSONFieldKey keys on a top-level string field of a JSON body, lower-cased.
// Only the first maxKeyBodyBytes are inspected; a longer body yields no key.
// The handler still reads the whole body.
func JSONFieldKey(field string) KeyFunc {
	return func(r *http.Request) string {
		if r.Body == nil || r.Body == http.NoBody {
			return ""
		}

		raw, err := io.ReadAll(io.LimitReader(r.Body, maxKeyBodyBytes))
		r.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(raw), r.Body), Closer: r.Body}
		if err != nil {
			return ""
		}

		var body map[string]json.RawMessage
		if json.Unmarshal(raw, &body) != nil {
			return ""
		}
		var v string
		if json.Unmarshal(body[field], &v) != nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(v))
	}
}

// replayBody serves the bytes already read, then the rest of the original
// body, and closes the original.
type replayBody struct {
	io.Reader
	io.Closer
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// keyedLimiter holds one bucket per key. Buckets untouched for idleAfter are
// swept on the next call made at least sweepEvery after the previous sweep.
type keyedLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	limit      rate.Limit
	burst      int
	idleAfter  time.Duration
	sweepEvery time.Duration
	lastSweep  time.Time
	now        func() time.Time
}

func newKeyedLimiter(cfg RateLimitConfig) *keyedLimiter {
	idle := cfg.Window
	if idle < time.Minute {
		idle = time.Minute
	}
	return &keyedLimiter{
		buckets:    make(map[string]*bucket),
		limit:      cfg.Limit(),
		burst:      max(cfg.Burst, 1),
		idleAfter:  2 * idle,
		sweepEvery: idle,
		now:        time.Now,
	}
}

// take spends one token for key. When the bucket is empty it returns false
// and how long until a token is available.
func (k *keyedLimiter) take(key string) (bool, time.Duration) {
	now := k.now()

	k.mu.Lock()
	if now.Sub(k.lastSweep) >= k.sweepEvery {
		for key, b := range k.buckets {
			if now.Sub(b.seen) >= k.idleAfter {
				delete(k.buckets, key)
			}
		}
		k.lastSweep = now
	}
	b, ok := k.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(k.limit, k.burst)}
		k.buckets[key] = b
	}
	b.seen = now
	k.mu.Unlock()

	res := b.lim.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	if wait := res.DelayFrom(now); wait > 0 {
		res.CancelAt(now)
		return false, wait
	}
	return true, 0
}

// RateLimit rejects requests whose key has exhausted its bucket with 429 and
// a Retry-After header in whole seconds.
func RateLimit(cfg RateLimitConfig, key KeyFunc) Middleware {
	kl := newKeyedLimiter(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				slogx.FromContext(r.Context()).Warn("rate limit key missing, request allowed", "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := kl.take(k)
			if !ok {
				retry := max(int((wait+time.Second-1)/time.Second), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Window", cfg.Window.String())

				slogx.FromContext(r.Context()).Warn("rate limit exceeded",
					"key", k,
					"path", r.URL.Path,
					"retry_after", retry,
				)
				WriteError(w, http.StatusTooManyRequests, CodeRateLimitExceeded, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits per client address as resolved by ip.
func RateLimitByIP(cfg RateLimitConfig, ip KeyFunc) Middleware {
	return RateLimit(cfg, ip)
}

// RateLimitByUser limits per authenticated user and address. It must run
// after the gate for the user part to be present.
func RateLimitByUser(cfg RateLimitConfig, ip KeyFunc) Middleware {
	return RateLimit(cfg, JoinKeys(":", UserKey, ip))
}

// RateLimitByIPAndJSONField limits per address and body field, e.g. the email
// of a login attempt.
func RateLimitByIPAndJSONField(cfg RateLimitConfig, ip KeyFunc, field string) Middleware {
	return RateLimit(cfg, JoinKeys(":", ip, JSONFieldKey(field)))
}
