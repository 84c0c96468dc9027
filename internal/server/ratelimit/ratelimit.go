// Package ratelimit throttles intake traffic per client IP with token
// buckets. Limits are declared per route: a CV submission triggers
// storage, extraction, and a model call, so it gets a far smaller
// budget than record lookups or file downloads.
package ratelimit

import (
	"math"
	"strings"
	"sync"
	"time"
)

const (
	// sweepEvery bounds how often idle buckets are pruned.
	sweepEvery = 5 * time.Minute
	// idleTTL is how long an untouched bucket survives a sweep.
	idleTTL = time.Hour
)

// Rule throttles one route. Path is matched exactly, unless it ends in
// "/" in which case it matches as a prefix. Limit <= 0 means the route
// is unthrottled.
type Rule struct {
	Path   string
	Method string
	Limit  int           // requests per Window
	Window time.Duration
	Burst  int           // bucket capacity; defaults to Limit
}

func (r Rule) matches(path, method string) bool {
	if method != r.Method {
		return false
	}
	if strings.HasSuffix(r.Path, "/") {
		return strings.HasPrefix(path, r.Path)
	}
	return path == r.Path
}

// Decision is the outcome of one Allow call. Limit is zero when the
// request was not throttled (disabled, exempt, or unthrottled route).
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      time.Time
	RetryAfter time.Duration
}

// bucket holds the token state for one client on one rule. Access is
// guarded by the owning Limiter's mutex.
type bucket struct {
	tokens float64
	cap    float64
	rate   float64 // tokens per second
	last   time.Time
	seen   time.Time
}

func (b *bucket) refill(now time.Time) {
	b.tokens = math.Min(b.cap, b.tokens+now.Sub(b.last).Seconds()*b.rate)
	b.last = now
}

// Limiter applies the configured rules to incoming requests. Buckets
// are created lazily per client and rule, and idle ones are pruned
// during Allow calls rather than by a background goroutine.
type Limiter struct {
	cfg Config
	now func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// New builds a Limiter. Zero-valued defaults in cfg are filled in.
func New(cfg Config) *Limiter {
	if cfg.DefaultLimit == 0 {
		cfg.DefaultLimit = 600
	}
	if cfg.DefaultWindow == 0 {
		cfg.DefaultWindow = time.Minute
	}
	now := time.Now
	return &Limiter{
		cfg:       cfg,
		now:       now,
		buckets:   make(map[string]*bucket),
		lastSweep: now(),
	}
}

// Allow records one request from client against the rule matching path
// and method, and reports whether it may proceed.
func (l *Limiter) Allow(client, path, method string) Decision {
	if !l.cfg.Enabled || l.cfg.Exempt[client] {
		return Decision{Allowed: true}
	}
	if l.cfg.Deny[client] {
		return Decision{}
	}

	rule := l.match(path, method)
	if rule.Limit <= 0 {
		return Decision{Allowed: true}
	}
	burst := rule.Burst
	if burst <= 0 {
		burst = rule.Limit
	}

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= sweepEvery {
		l.sweep(now)
	}

	key := client + " " + method + " " + rule.Path
	b := l.buckets[key]
	if b == nil {
		b = &bucket{
			tokens: float64(burst),
			cap:    float64(burst),
			rate:   float64(rule.Limit) / rule.Window.Seconds(),
			last:   now,
		}
		l.buckets[key] = b
	}
	b.seen = now
	b.refill(now)

	d := Decision{Limit: rule.Limit}
	if b.tokens >= 1 {
		b.tokens--
		d.Allowed = true
	} else {
		d.RetryAfter = time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
	}
	d.Remaining = int(b.tokens)
	d.Reset = now.Add(time.Duration((b.cap - b.tokens) / b.rate * float64(time.Second)))
	return d
}

// match returns the first rule covering path and method, falling back
// to the default limit. Rules are checked in declaration order, so
// exact paths should precede prefixes.
func (l *Limiter) match(path, method string) Rule {
	for _, r := range l.cfg.Rules {
		if r.matches(path, method) {
			return r
		}
	}
	return Rule{Limit: l.cfg.DefaultLimit, Window: l.cfg.DefaultWindow}
}

// sweep drops buckets that have been idle longer than idleTTL. Caller
// holds l.mu.
func (l *Limiter) sweep(now time.Time) {
	cutoff := now.Add(-idleTTL)
	for key, b := range l.buckets {
		if b.seen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}
