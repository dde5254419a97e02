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

package requestid

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/adelekeogunsona/lean-go/router"
)

// StoreKey is the request-scoped store key under which the ID is published.
const StoreKey = "requestid"

// Option defines functional options for requestid middleware configuration.
type Option func(*config)

type config struct {
	headerName    string
	generator     func() string
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		headerName:    "X-Request-ID",
		generator:     generateUUIDv7,
		allowClientID: true,
	}
}

// generateUUIDv7 returns a UUID v7 string. UUID v7 is time-ordered and
// lexicographically sortable (RFC 9562), which keeps log correlation cheap.
func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ulidEntropy provides monotonic ordering within the same millisecond.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// New returns a middleware that tags each request with a unique ID. The ID is
// echoed in the response header and published to the request store and the
// request-scoped logger, so every later log line carries it.
//
// By default a client-supplied X-Request-ID is trusted and reused; disable
// that behind an untrusted edge with WithAllowClientID(false).
//
// Basic usage (UUID v7 by default):
//
//	r := router.MustNew()
//	r.Use(requestid.New())
//
// Using ULID (compact 26-character form):
//
//	r.Use(requestid.New(requestid.WithULID()))
func New(opts ...Option) router.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *router.Context) {
		var id string
		if cfg.allowClientID {
			id = c.Request.Header.Get(cfg.headerName)
		}
		if id == "" {
			id = cfg.generator()
		}

		c.Response.Header().Set(cfg.headerName, id)
		c.Set(StoreKey, id)

		c.Next()
	}
}

// Get retrieves the request ID set by the middleware, or "".
func Get(c *router.Context) string {
	return c.GetString(StoreKey)
}
