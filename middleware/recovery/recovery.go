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

package recovery

import (
	"log/slog"
	"net/http"
	"runtime"

	"github.com/adelekeogunsona/lean-go/problem"
	"github.com/adelekeogunsona/lean-go/router"
)

// Option defines functional options for recovery middleware configuration.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	handler    func(c *router.Context, err any)
	stackTrace bool
	stackSize  int
}

func defaultConfig() *config {
	return &config{
		stackTrace: true,
		stackSize:  4 << 10,
	}
}

// New returns a middleware that recovers from handler panics, logs the panic
// value with a stack trace, and sends a 500 problem response when nothing was
// written yet. Without it a panic tears down the whole request goroutine
// inside net/http.
//
// Install it first so it wraps everything else:
//
//	r := router.MustNew()
//	r.Use(recovery.New())
//
// With a custom fallback response:
//
//	r.Use(recovery.New(recovery.WithHandler(func(c *router.Context, err any) {
//	    c.String(http.StatusServiceUnavailable, "temporarily unavailable")
//	})))
func New(opts ...Option) router.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *router.Context) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if err == http.ErrAbortHandler {
				// The connection is gone; re-panic so net/http aborts quietly.
				panic(err)
			}

			logger := cfg.logger
			if logger == nil {
				logger = c.Logger()
			}
			attrs := []any{"panic", err}
			if cfg.stackTrace {
				buf := make([]byte, cfg.stackSize)
				attrs = append(attrs, "stack", string(buf[:runtime.Stack(buf, false)]))
			}
			logger.Error("panic recovered", attrs...)

			c.Abort()
			if c.Written() {
				return
			}
			if cfg.handler != nil {
				cfg.handler(c, err)
				return
			}
			c.Problem(problem.FromStatus(http.StatusInternalServerError))
		}()

		c.Next()
	}
}
