// Copyright 2026 The Lean-Go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/adelekeogunsona/lean-go/problem"
	"github.com/adelekeogunsona/lean-go/router"
)

// Option defines functional options for rate limit middleware configuration.
type Option func(*config)

type config struct {
	requestsPerSecond float64
	burst             int
	keyFunc           func(c *router.Context) string
	handler           router.HandlerFunc
	limiterTTL        time.Duration
	cleanupInterval   time.Duration
	logger            *slog.Logger
}

func defaultConfig() *config {
	return &config{
		requestsPerSecond: 10,
		burst:             20,
		keyFunc:           clientIP,
		limiterTTL:        10 * time.Minute,
		cleanupInterval:   time.Minute,
	}
}

// clientIP keys limiters by the request's remote address, port stripped.
func clientIP(c *router.Context) string {
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

// entry pairs a limiter with its last use, for idle eviction.
type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// store holds one token bucket per key. Idle buckets are swept inline during
// lookups, at most once per sweepEvery, so the store needs no background
// goroutine and nothing outlives the middleware that owns it.
type store struct {
	mu         sync.Mutex
	entries    map[string]*entry
	rps        rate.Limit
	burst      int
	ttl        time.Duration
	sweepEvery time.Duration
	nextSweep  time.Time
}

func (s *store) get(key string) *rate.Limiter {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.After(s.nextSweep) {
		s.evictIdleLocked(now)
		s.nextSweep = now.Add(s.sweepEvery)
	}

	e, ok := s.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// evictIdleLocked drops entries idle longer than the TTL. Caller holds mu.
func (s *store) evictIdleLocked(now time.Time) {
	cutoff := now.Add(-s.ttl)
	for key, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, key)
		}
	}
}

// New returns a token bucket rate limiter keyed per client. Each key gets an
// independent bucket of the configured size that refills at the configured
// rate; a request that finds the bucket empty is rejected with 429 and a
// Retry-After header.
//
// Keys default to the client IP. Idle buckets are evicted during request
// handling so the key space cannot grow without bound.
//
// Example:
//
//	r := router.MustNew()
//	r.Use(ratelimit.New(
//	    ratelimit.WithRequestsPerSecond(5),
//	    ratelimit.WithBurst(10),
//	))
//
// Keyed by authenticated user instead of IP:
//
//	r.Use(ratelimit.New(ratelimit.WithKeyFunc(func(c *router.Context) string {
//	    return c.GetString("auth.subject")
//	})))
func New(opts ...Option) router.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	s := &store{
		entries:    make(map[string]*entry),
		rps:        rate.Limit(cfg.requestsPerSecond),
		burst:      cfg.burst,
		ttl:        cfg.limiterTTL,
		sweepEvery: cfg.cleanupInterval,
		nextSweep:  time.Now().Add(cfg.cleanupInterval),
	}

	return func(c *router.Context) {
		key := cfg.keyFunc(c)
		limiter := s.get(key)

		if limiter.Allow() {
			c.Next()
			return
		}

		// How long until one token is available, without consuming it.
		res := limiter.Reserve()
		delay := res.Delay()
		res.Cancel()
		retryAfter := int(delay.Seconds()) + 1

		if cfg.logger != nil {
			cfg.logger.Warn("rate limit exceeded",
				slog.String("key", key),
				slog.String("path", c.Request.URL.Path),
			)
		}

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.Header("X-RateLimit-Limit", strconv.FormatFloat(cfg.requestsPerSecond, 'f', -1, 64))

		if cfg.handler != nil {
			cfg.handler(c)
			return
		}
		c.Problem(problem.FromStatus(http.StatusTooManyRequests).
			WithDetail("request rate limit exceeded, slow down").
			WithExtension("retry_after", retryAfter))
	}
}
