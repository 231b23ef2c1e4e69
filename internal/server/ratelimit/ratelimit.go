// Package ratelimit throttles API clients with per-route token
// buckets. A planning run fans out to travel providers and may call
// the language model, so the plan route carries a much tighter budget
// than archive reads; routes without a rule are not limited at all.
package ratelimit

import (
	"math"
	"strings"
	"sync"
	"time"
)

// Rule throttles one route for each client. Path matches exactly, or
// as a prefix when it ends with a slash.
type Rule struct {
	Method string
	Path   string
	// Limit requests admitted per Window, with up to Burst of them
	// served back to back. Burst defaults to Limit when zero.
	Limit  int
	Window time.Duration
	Burst  int
}

func (r Rule) burst() float64 {
	if r.Burst > 0 {
		return float64(r.Burst)
	}
	return float64(r.Limit)
}

// Config holds the limiter rules and bucket housekeeping knobs.
type Config struct {
	Enabled bool
	Rules   []Rule
	// SweepInterval controls how often idle client buckets are
	// dropped; IdleTTL is how long a bucket may go unused first.
	SweepInterval time.Duration
	IdleTTL       time.Duration
}

// Info reports the state of a client's bucket after a decision. Limit
// is zero when the route is not limited.
type Info struct {
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// bucket refills continuously at rate tokens per second up to burst;
// each admitted request spends one token.
type bucket struct {
	tokens   float64
	burst    float64
	rate     float64
	lastSeen time.Time
}

func (b *bucket) refill(now time.Time) {
	b.tokens = math.Min(b.burst, b.tokens+now.Sub(b.lastSeen).Seconds()*b.rate)
	b.lastSeen = now
}

func (b *bucket) fullAt(now time.Time) time.Time {
	if b.tokens >= b.burst {
		return now
	}
	wait := (b.burst - b.tokens) / b.rate
	return now.Add(time.Duration(wait * float64(time.Second)))
}

// Limiter tracks one token bucket per client and matched rule.
type Limiter struct {
	cfg *Config

	mu      sync.Mutex
	buckets map[string]*bucket

	done     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter for the given config, falling back to
// DefaultConfig when nil. A sweeper goroutine drops idle buckets until
// Stop is called.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l := &Limiter{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
	if cfg.Enabled && cfg.SweepInterval > 0 {
		go l.sweep()
	}
	return l
}

// Allow decides whether the client may hit the route now. Requests on
// routes without a rule, or on a disabled limiter, always pass with a
// zero Info.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.cfg.Enabled {
		return true, Info{}
	}
	rule := l.match(path, method)
	if rule == nil {
		return true, Info{}
	}

	now := time.Now()
	key := clientID + " " + rule.Method + " " + rule.Path

	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.buckets[key]
	if b == nil {
		b = &bucket{
			tokens:   rule.burst(),
			burst:    rule.burst(),
			rate:     float64(rule.Limit) / rule.Window.Seconds(),
			lastSeen: now,
		}
		l.buckets[key] = b
	}
	b.refill(now)

	info := Info{Limit: rule.Limit, ResetTime: b.fullAt(now)}
	if b.tokens >= 1 {
		b.tokens--
		info.Remaining = int(b.tokens)
		info.ResetTime = b.fullAt(now)
		return true, info
	}

	info.RetryAfter = time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
	return false, info
}

func (l *Limiter) match(path, method string) *Rule {
	for i := range l.cfg.Rules {
		r := &l.cfg.Rules[i]
		if r.Method != method {
			continue
		}
		if strings.HasSuffix(r.Path, "/") {
			if strings.HasPrefix(path, r.Path) {
				return r
			}
		} else if path == r.Path {
			return r
		}
	}
	return nil
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(l.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-l.cfg.IdleTTL)
			l.mu.Lock()
			for key, b := range l.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		case <-l.done:
			return
		}
	}
}

// Stop shuts down the sweeper. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}
