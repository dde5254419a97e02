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

package accesslog

import (
	"log/slog"
	"time"

	"github.com/adelekeogunsona/lean-go/router"
)

// WithLogger sets a dedicated logger for access log lines. Without it, the
// request-scoped logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithExcludePaths skips logging for exact path matches. Typical use is
// health and readiness endpoints polled every few seconds.
//
// Example:
//
//	accesslog.New(accesslog.WithExcludePaths("/health", "/ready"))
func WithExcludePaths(paths ...string) Option {
	return func(cfg *config) {
		for _, p := range paths {
			cfg.excludePaths[p] = true
		}
	}
}

// WithExcludePrefixes skips logging for paths under the given prefixes.
//
// Example:
//
//	accesslog.New(accesslog.WithExcludePrefixes("/debug", "/metrics"))
func WithExcludePrefixes(prefixes ...string) Option {
	return func(cfg *config) {
		cfg.excludePrefixes = append(cfg.excludePrefixes, prefixes...)
	}
}

// WithSlowThreshold logs requests at warn with a slow marker when they take
// at least d, whatever their status. Zero disables the check.
func WithSlowThreshold(d time.Duration) Option {
	return func(cfg *config) {
		cfg.slowThreshold = d
	}
}

// WithErrorsOnly logs only requests that finished with status >= 400.
func WithErrorsOnly() Option {
	return func(cfg *config) {
		cfg.errorsOnly = true
	}
}

// WithRequestIDFunc attaches a request ID to every log line, looked up with
// the given function.
//
// Example:
//
//	accesslog.New(accesslog.WithRequestIDFunc(requestid.Get))
func WithRequestIDFunc(fn func(c *router.Context) string) Option {
	return func(cfg *config) {
		cfg.requestIDFunc = fn
	}
}
