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
	"time"

	"github.com/adelekeogunsona/lean-go/router"
)

// WithRequestsPerSecond sets the steady-state refill rate per key.
// Default: 10.
func WithRequestsPerSecond(rps float64) Option {
	return func(cfg *config) {
		if rps > 0 {
			cfg.requestsPerSecond = rps
		}
	}
}

// WithBurst sets the bucket size per key, the number of requests a key may
// spend at once before the rate applies. Default: 20.
func WithBurst(burst int) Option {
	return func(cfg *config) {
		if burst > 0 {
			cfg.burst = burst
		}
	}
}

// WithKeyFunc sets how requests map to buckets. Default: client IP.
//
// Example:
//
//	ratelimit.New(ratelimit.WithKeyFunc(func(c *router.Context) string {
//	    return c.Request.Header.Get("X-API-Key")
//	}))
func WithKeyFunc(fn func(c *router.Context) string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.keyFunc = fn
		}
	}
}

// WithHandler replaces the default 429 problem response. The Retry-After
// header is already set when the handler runs.
func WithHandler(handler router.HandlerFunc) Option {
	return func(cfg *config) {
		cfg.handler = handler
	}
}

// WithLimiterTTL sets how long an idle key keeps its bucket before eviction.
// Default: 10 minutes.
func WithLimiterTTL(ttl time.Duration) Option {
	return func(cfg *config) {
		if ttl > 0 {
			cfg.limiterTTL = ttl
		}
	}
}

// WithCleanupInterval sets the minimum interval between idle-bucket sweeps.
// Sweeps run inline during request handling. Default: 1 minute.
func WithCleanupInterval(interval time.Duration) Option {
	return func(cfg *config) {
		if interval > 0 {
			cfg.cleanupInterval = interval
		}
	}
}

// WithLogger logs rejected requests at warn. Default: silent.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
