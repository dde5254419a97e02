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
	"net/http"
	"strings"
	"time"

	"github.com/adelekeogunsona/lean-go/router"
)

// Option defines functional options for accesslog middleware configuration.
type Option func(*config)

type config struct {
	logger          *slog.Logger
	excludePaths    map[string]bool
	excludePrefixes []string
	slowThreshold   time.Duration
	errorsOnly      bool
	requestIDFunc   func(c *router.Context) string
}

func defaultConfig() *config {
	return &config{
		excludePaths: make(map[string]bool),
	}
}

// New returns a middleware that writes one structured log line per completed
// request: method, path, route template, status, response size, and duration.
//
// Severity follows the outcome: 5xx logs at error, 4xx at warn, everything
// else at info. A request slower than the configured threshold logs at warn
// with a slow marker regardless of status.
//
// Example:
//
//	r := router.MustNew()
//	r.Use(accesslog.New(
//	    accesslog.WithLogger(slog.Default()),
//	    accesslog.WithExcludePaths("/health"),
//	    accesslog.WithSlowThreshold(500*time.Millisecond),
//	))
func New(opts ...Option) router.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *router.Context) {
		path := c.Request.URL.Path
		if cfg.skip(path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.StatusCode()
		if status == 0 {
			status = http.StatusOK
		}
		if cfg.errorsOnly && status < http.StatusBadRequest {
			return
		}

		logger := cfg.logger
		if logger == nil {
			logger = c.Logger()
		}

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.RouteTemplate()),
			slog.Int("status", status),
			slog.Int64("bytes", c.BytesWritten()),
			slog.Duration("duration", elapsed),
		}
		if cfg.requestIDFunc != nil {
			if id := cfg.requestIDFunc(c); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}
		}

		slow := cfg.slowThreshold > 0 && elapsed >= cfg.slowThreshold
		if slow {
			attrs = append(attrs, slog.Bool("slow", true))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request", attrs...)
		case status >= http.StatusBadRequest || slow:
			logger.Warn("request", attrs...)
		default:
			logger.Info("request", attrs...)
		}
	}
}

func (cfg *config) skip(path string) bool {
	if cfg.excludePaths[path] {
		return true
	}
	for _, prefix := range cfg.excludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
