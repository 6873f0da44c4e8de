// Package ratelimit limits requests per client and endpoint with token buckets.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter manages rate limiting for multiple clients.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  *Config

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    600,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
			IdleTTL:         time.Hour,
		}
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = time.Hour
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupTicker = time.NewTicker(config.CleanupInterval)
		l.cleanupStop = make(chan struct{})
		go l.cleanup()
	}

	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	cfg := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if cfg == nil {
		cfg = &EndpointConfig{
			Path:   endpoint,
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}
	if cfg.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	// Prefix configs share one bucket per client so /analyses/memo/1 and /analyses/memo/2 count together
	key := clientID + ":" + cfg.Path + ":" + method
	now := time.Now()
	lim := l.getLimiter(key, cfg, now)

	allowed := lim.AllowN(now, 1)
	tokens := lim.TokensAt(now)
	info := Info{
		Allowed:   allowed,
		Limit:     cfg.Limit,
		Remaining: int(math.Max(0, math.Floor(tokens))),
		ResetTime: now.Add(untilFull(lim, tokens)),
	}
	if !allowed {
		info.RetryAfter = untilTokens(lim, 1-tokens)
	}
	return allowed, info
}

func (l *Limiter) getLimiter(key string, cfg *EndpointConfig, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		b.lastAccess = now
		return b.limiter
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.Limit
	}
	every := rate.Limit(float64(cfg.Limit) / cfg.Window.Seconds())
	b := &bucket{limiter: rate.NewLimiter(every, burst), lastAccess: now}
	l.buckets[key] = b
	return b.limiter
}

// untilTokens returns how long the limiter takes to accumulate n more tokens
func untilTokens(lim *rate.Limiter, n float64) time.Duration {
	if n <= 0 || lim.Limit() <= 0 {
		return 0
	}
	return time.Duration(n / float64(lim.Limit()) * float64(time.Second))
}

func untilFull(lim *rate.Limiter, tokens float64) time.Duration {
	return untilTokens(lim, float64(lim.Burst())-tokens)
}

// cleanup removes old unused buckets until Stop is called.
func (l *Limiter) cleanup() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.cleanupBuckets(time.Now())
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupBuckets removes buckets that have not been used within IdleTTL of now.
func (l *Limiter) cleanupBuckets(now time.Time) {
	cutoff := now.Add(-l.config.IdleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Len returns the number of tracked buckets
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop stops the cleanup goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupTicker != nil {
			l.cleanupTicker.Stop()
		}
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
