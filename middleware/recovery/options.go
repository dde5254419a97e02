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

	"github.com/adelekeogunsona/lean-go/router"
)

// WithLogger sets a dedicated logger for recovered panics. Without it, the
// request-scoped logger is used.
//
// Example:
//
//	recovery.New(recovery.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithHandler replaces the default 500 problem response. The handler runs
// after logging; the chain is already aborted when it is called.
func WithHandler(handler func(c *router.Context, err any)) Option {
	return func(cfg *config) {
		cfg.handler = handler
	}
}

// WithStackTrace controls whether the log entry carries a stack trace.
// Default: true.
func WithStackTrace(enabled bool) Option {
	return func(cfg *config) {
		cfg.stackTrace = enabled
	}
}

// WithStackSize caps the captured stack trace in bytes. Default: 4 KiB.
func WithStackSize(size int) Option {
	return func(cfg *config) {
		if size > 0 {
			cfg.stackSize = size
		}
	}
}
